/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/suderio/warband/internal/rules"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "warband",
	Short: "Tactical battles between two five-slot armies",
	Long: `warband fights the battles of a hero's army against wandering bands and
besieged villains on a 6x5 field. Battles are described by scenario files and
every event is recorded to an append-only log that can be replayed later.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.warband.yaml)")
	pf.Int("combat_delay", 4, "pause between combat actions, 0 (none) to 9 (slowest)")
	pf.String("catalog_dir", "", "directory holding a units.yaml that overrides the built-in species")
	pf.String("events_dir", "./battles", "where battle event logs are written")
	pf.String("payout_formula", rules.DefaultPayoutFormula, "CEL expression for the gold paid on victory")
	pf.String("log_level", "off", "debug, info, warn, error or off")
	pf.String("log_file", "", "write logs to this file instead of stderr")
	pf.Bool("log_json", false, "encode logs as JSON")

	cobra.CheckErr(viper.BindPFlags(pf))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".warband")
	}

	viper.SetEnvPrefix("WARBAND")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	}
}
