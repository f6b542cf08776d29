package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"hranalyse/internal/benchmark"
	"hranalyse/internal/exporter"
	"hranalyse/internal/importer"
	"hranalyse/internal/util"
)

type analyzeFlags struct {
	retirementAge int
	region        string
	out           string
	noBundle      bool
}

func newAnalyzeCmd() *cobra.Command {
	var f analyzeFlags
	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Excel-Datei auswerten und Ergebnis-ZIP schreiben",
		Example: `  hranalyse analyze mitarbeiter.xlsx
  hranalyse analyze liste.xls --retirement-age 65 --region Bayern --out ergebnis.zip`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], f)
		},
	}
	cmd.Flags().IntVar(&f.retirementAge, "retirement-age", 0, "Renteneintrittsalter 60-70 (Standard aus config.toml)")
	cmd.Flags().StringVar(&f.region, "region", "", "Vergleichsregion (Standard aus config.toml)")
	cmd.Flags().StringVarP(&f.out, "out", "o", exporter.BundleFileName, "Zieldatei für das ZIP-Paket")
	cmd.Flags().BoolVar(&f.noBundle, "no-bundle", false, "nur Kennzahlen ausgeben, kein ZIP schreiben")
	return cmd
}

func runAnalyze(cmd *cobra.Command, path string, f analyzeFlags) error {
	out := cmd.OutOrStdout()

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	table, err := benchmark.Load(cfg.Benchmark.Path)
	if err != nil {
		return err
	}

	params := cfg.Analysis
	if f.retirementAge != 0 {
		params.RetirementAge = f.retirementAge
	}
	if f.region != "" {
		params.Region = f.region
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	coordinator := importer.NewCoordinator(importer.Config{
		Logger:     logger.Named("importer"),
		Benchmarks: table,
		Thresholds: cfg.Quality,
		Exporter:   exporter.NewExporter(cfg.ExporterOptions()),
	})

	var result *importer.Result
	for event := range coordinator.Run(ctx, importer.Options{
		FileName:      filepath.Base(path),
		Reader:        file,
		RetirementAge: params.RetirementAge,
		Region:        params.Region,
		SkipBundle:    f.noBundle,
	}) {
		switch event.Type {
		case importer.EventStage:
			continue
		case importer.EventError:
			fmt.Fprintln(cmd.ErrOrStderr(), event.Message)
			return fmt.Errorf("analysis failed")
		case importer.EventDone:
			result, _ = event.Data.(*importer.Result)
		}
		fmt.Fprintln(out, event.Message)
	}
	if result == nil {
		return fmt.Errorf("analysis aborted")
	}

	printSummary(cmd, result)

	if f.noBundle {
		return nil
	}
	if err := os.WriteFile(f.out, result.Bundle, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.out, err)
	}
	fmt.Fprintf(out, "📦 Ergebnisse gespeichert: %s\n", f.out)
	return nil
}

func printSummary(cmd *cobra.Command, res *importer.Result) {
	out := cmd.OutOrStdout()
	r := res.Report

	fmt.Fprintln(out, "------------------------------------------")
	fmt.Fprintf(out, "Mitarbeiter:           %d\n", r.KPIs.Headcount)
	fmt.Fprintf(out, "Durchschnittsalter:    %s\n", optional(r.KPIs.MeanAge, " Jahre"))
	fmt.Fprintf(out, "Ø Betriebszugehörigk.: %s\n", optional(r.KPIs.MeanTenure, " Jahre"))
	if r.KPIs.MeanSalary != nil {
		fmt.Fprintf(out, "Ø Gehalt:              %s\n", util.FormatEuro(*r.KPIs.MeanSalary))
	}
	fmt.Fprintf(out, "Datenqualität:         %s (%s)\n", util.FormatDecimal(r.Quality.Score), r.Quality.Band)
	if rt := r.Retirement; rt != nil {
		fmt.Fprintf(out, "Rente in 5 Jahren:     %d (%s)\n", rt.Within5, util.FormatPercent(rt.Within5Percent))
		fmt.Fprintf(out, "Rente in 10 Jahren:    %d (%s)\n", rt.Within10, util.FormatPercent(rt.Within10Percent))
	}
	if len(res.Resolution.Unmapped) > 0 {
		fmt.Fprintf(out, "Nicht zugeordnet:      %v\n", res.Resolution.Unmapped)
	}
	fmt.Fprintln(out, "------------------------------------------")
}

func optional(v *float64, unit string) string {
	if v == nil {
		return "keine Angabe"
	}
	return util.FormatDecimal(*v) + unit
}
