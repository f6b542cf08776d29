package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hranalyse/internal/config"
	"hranalyse/internal/server"
	"hranalyse/internal/util"
)

type serveFlags struct {
	port    int
	devMode bool
	dataDir string
}

func newServeCmd() *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Weboberfläche starten",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, f)
		},
	}
	cmd.Flags().IntVar(&f.port, "port", 0, "Port (config.toml hat Vorrang; wirkt nur ohne port-Eintrag)")
	cmd.Flags().BoolVar(&f.devMode, "dev", false, "Entwicklungsmodus")
	cmd.Flags().StringVar(&f.dataDir, "dataDir", "", "Datenverzeichnis (überschreibt die Konfiguration)")
	return cmd
}

func runServe(cmd *cobra.Command, f serveFlags) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "==========================================")
	fmt.Fprintln(out, "  HR-Analyse - Personalstruktur & Wissensrisiko")
	fmt.Fprintln(out, "==========================================")

	// 加载配置
	cfg, info, err := loadConfig()
	if err != nil {
		logger.Warn("failed to load config, using defaults", zap.Error(err))
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// 命令行参数覆盖配置
	if f.port > 0 && !info.PortSpecified {
		cfg.Server.Port = f.port
	}
	if f.devMode {
		cfg.Server.DevMode = true
	}
	if f.dataDir != "" {
		cfg.Data.DataDir = f.dataDir
	}

	// 端口被占用且未显式配置时顺延
	if !info.PortSpecified {
		port, err := util.FindAvailablePort(cfg.Server.Port, 10)
		if err != nil {
			return err
		}
		cfg.Server.Port = port
	}

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		return err
	}
	defer srv.Close()
	fmt.Fprintf(out, "Datenverzeichnis: %s\n", config.ResolveDataDir(cfg))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(out, "Server startet auf Port %d ...\n", cfg.Server.Port)
		errCh <- srv.Run(addr)
	}()

	// 打开浏览器
	if !cfg.Server.DevMode {
		fmt.Fprintf(out, "Browser wird geöffnet: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Fprintf(out, "Browser konnte nicht geöffnet werden, bitte manuell aufrufen: %s\n", url)
		}
	} else {
		fmt.Fprintf(out, "Entwicklungsmodus: bitte %s aufrufen\n", url)
	}

	fmt.Fprintln(out, "\nMit Strg+C beenden ...")

	// 等待信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		fmt.Fprintln(out, "\nServer wird beendet ...")
		return nil
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	}
}
