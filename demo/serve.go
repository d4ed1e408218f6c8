package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/spf13/cobra"

	"github.com/sartorproj/goseries/agent"
	"github.com/sartorproj/goseries/config"
	"github.com/sartorproj/goseries/logger"
	"github.com/sartorproj/goseries/webapp"
)

var serveConfig string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the forecasting web UI",
	Args:  cobra.NoArgs,
	RunE:  serve,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfig, "config", "c", "", "path to config file (default: configs/config.yaml if present)")
}

func serve(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(serveConfig)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, closer, err := logger.Setup(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer closer.Close()

	hlog.SetLogger(logger.NewHertzAdapter(log))
	hlog.SetLevel(hlog.LevelInfo)

	a, err := agent.Load(cfg.Agent.ConfigPath, agent.DefaultRegistry(), log)
	if err != nil {
		return fmt.Errorf("failed to load agent: %w", err)
	}
	log.Info("agent loaded",
		"agent", a.Name(),
		"config", cfg.Agent.ConfigPath,
		"templates", a.Templates(),
	)

	h := webapp.NewServer(cfg, a, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "address", cfg.ServerAddr(), "version", version)
		errCh <- h.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server run failed: %w", err)
	case <-quit:
	}

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := h.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}
