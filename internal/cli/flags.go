package cli

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// bindFlags binds command flags to viper config keys, so flag values
// override file and environment configuration for the keys they map to.
func bindFlags(flags *pflag.FlagSet, bindings map[string]string) {
	for key, flagName := range bindings {
		if f := flags.Lookup(flagName); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}
}
