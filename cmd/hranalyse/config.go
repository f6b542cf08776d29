package main

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"hranalyse/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Konfiguration anzeigen oder anlegen",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Wirksame Konfiguration als TOML ausgeben",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, info, err := loadConfig()
			if err != nil {
				return err
			}
			data, err := toml.Marshal(cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if info.FileFound {
				fmt.Fprintf(out, "# %s\n", info.Path)
			} else {
				fmt.Fprintf(out, "# %s nicht gefunden, Standardwerte\n", info.Path)
			}
			_, err = out.Write(data)
			return err
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "config.toml mit Standardwerten anlegen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, info, err := loadConfig()
			if err != nil && !force {
				return err
			}
			if info.FileFound && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", info.Path)
			}
			if configPath != "" {
				err = config.SaveConfigTo(configPath, config.DefaultConfig())
			} else {
				err = config.SaveConfig(config.DefaultConfig())
			}
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✅ Konfiguration gespeichert")
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "vorhandene Datei überschreiben")

	cmd.AddCommand(show, initCmd)
	return cmd
}
