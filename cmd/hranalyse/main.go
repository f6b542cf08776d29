package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"hranalyse/internal/config"
)

var (
	// 全局参数
	verbose    bool
	configPath string

	logger *zap.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hranalyse",
		Short: "HR-Analyse - Personalstruktur, Rente und Wissensrisiko aus Excel-Listen",
		Long: `hranalyse liest eine Mitarbeiterliste (.xlsx/.xls), erkennt die Spalten,
bewertet die Datenqualität und erstellt Auswertungen zu Renteneintritten,
Betriebszugehörigkeit und Wissensrisiko inklusive Diagrammen als ZIP-Paket.

Ohne Unterbefehl startet die Weboberfläche (wie "hranalyse serve").`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zc := zap.NewProductionConfig()
			if dev := cmd.Flags().Lookup("dev"); dev != nil && dev.Value.String() == "true" {
				zc = zap.NewDevelopmentConfig()
			}
			if verbose {
				zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = zc.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug-Logging aktivieren")
	root.PersistentFlags().StringVar(&configPath, "config", "", "Pfad zur config.toml (Standard: neben der Programmdatei)")

	serve := newServeCmd()
	root.AddCommand(serve, newAnalyzeCmd(), newTemplateCmd(), newConfigCmd())
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())
	return root
}

// loadConfig 加载配置；--config 指定时读取该文件
func loadConfig() (*config.AppConfig, config.LoadConfigInfo, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.LoadConfigWithInfo()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
