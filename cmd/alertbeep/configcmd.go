package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configOpts struct {
	format string
	write  bool
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the effective configuration (defaults overlaid with the config file).

Use --write to save it to the config path, creating a starting point for
editing.`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().StringVarP(&configOpts.format, "format", "f", "toml",
		"Output format (toml, yaml)")
	configCmd.Flags().BoolVar(&configOpts.write, "write", false,
		"Write the configuration to the config file")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if configOpts.write {
		if err := cfg.Save(globalOpts.configPath); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		return nil
	}

	data, err := cfg.Marshal(configOpts.format)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
