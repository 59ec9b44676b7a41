package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/handiism/ugtabs/internal/config"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to the --config path",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if _, err := os.Stat(a.configFile); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", a.configFile)
			}
			if err := config.DefaultSettings().Save(a.configFile); err != nil {
				return err
			}
			a.printer.Success("Configuration written to " + a.configFile)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")

	cmd.AddCommand(initCmd)
	return cmd
}
