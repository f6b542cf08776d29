package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hranalyse/internal/service/excel"
)

func newTemplateCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Leere Excel-Vorlage mit allen erkannten Spalten schreiben",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			if _, err := excel.NewTemplateExporter().WriteTo(f); err != nil {
				f.Close()
				return fmt.Errorf("failed to write template: %w", err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Vorlage gespeichert: %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", excel.TemplateFileName, "Zieldatei")
	return cmd
}
