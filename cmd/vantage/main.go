package main

import (
	"os"

	"github.com/vantage-web/vantage/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
