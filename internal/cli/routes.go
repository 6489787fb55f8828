package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vantage-web/vantage/examples/forum"
	"github.com/vantage-web/vantage/urls"
)

var routesFormat string

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the URL pattern table",
	Long: `Print the registered URL patterns of the bundled forum application
in declaration order, the order the dispatcher tries them in.`,
	RunE: runRoutes,
}

func init() {
	rootCmd.AddCommand(routesCmd)
	routesCmd.Flags().StringVar(&routesFormat, "format", "table", "output format (table, yaml)")
}

func runRoutes(cmd *cobra.Command, args []string) error {
	router := forum.URLPatterns(forum.NewStore())
	return printRoutes(router.Routes())
}

func printRoutes(routes []urls.RouteInfo) error {
	switch routesFormat {
	case "yaml":
		out, err := yaml.Marshal(routes)
		if err != nil {
			return fmt.Errorf("marshaling routes: %w", err)
		}
		fmt.Print(string(out))
		return nil
	case "table":
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ROUTE\tNAME")
		for _, r := range routes {
			fmt.Fprintf(w, "%s\t%s\n", r.Route, r.Name)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown format %q (want table or yaml)", routesFormat)
	}
}
