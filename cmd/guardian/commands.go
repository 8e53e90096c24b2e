package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bryanwahyu/genops-guardian/internal/application/delivery"
	"github.com/bryanwahyu/genops-guardian/internal/application/pipeline"
	"github.com/bryanwahyu/genops-guardian/internal/config"
	"github.com/bryanwahyu/genops-guardian/internal/infra/httpserver"
	"github.com/bryanwahyu/genops-guardian/internal/logging"
	"github.com/bryanwahyu/genops-guardian/internal/middleware"
)

var (
	configPath string
	workspace  string

	cfg *config.Config
	log *logrus.Logger

	rootCmd = &cobra.Command{
		Use:   "guardian",
		Short: "Run static analyzers on a repository and summarize them with an LLM",
		Long: `guardian detects the languages in a repository, runs the matching
linters and security scanners, and asks an LLM to turn their output into a
short report posted on the pull request or written to a file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if workspace != "" {
				c.Workspace = workspace
			}
			cfg = c
			log = logging.New(cfg.Logging.Level, cfg.Logging.Format, nil)
			return nil
		},
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Analyze the workspace once and deliver the report",
		RunE:  runPipeline,
	}

	detectCmd = &cobra.Command{
		Use:   "detect",
		Short: "Print the languages detected in the workspace as JSON",
		RunE:  runDetect,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve analysis runs over HTTP",
		RunE:  runServe,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $CONFIG_PATH or guardian.yaml)")
	rootCmd.PersistentFlags().StringVar(&workspace, "path", "", "repository root, overrides workspace")

	rootCmd.AddCommand(runCmd, detectCmd, serveCmd)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	svc, err := buildPipeline(ctx, cfg, log)
	if err != nil {
		return err
	}

	target := delivery.Target{
		Mode:       cfg.ResolveMode(),
		PRNumber:   cfg.GitHub.PRNumber,
		Repository: cfg.GitHub.Repository,
	}
	log.WithFields(logrus.Fields{
		"workspace": cfg.Workspace,
		"mode":      target.Mode,
		"semgrep":   cfg.RunSemgrep,
	}).Info("guardian run")

	// hanya delivery yang bisa gagal
	_, err = svc.Run(ctx, pipeline.Request{
		Root:       cfg.Workspace,
		RunSemgrep: cfg.RunSemgrep,
		Target:     target,
	})
	return err
}

func runDetect(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	scans := buildScans(cfg, log)
	tags := scans.Detect(ctx, cfg.Workspace)

	enc := json.NewEncoder(cmd.OutOrStdout())
	return enc.Encode(tags)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	svc, err := buildPipeline(ctx, cfg, log)
	if err != nil {
		return err
	}

	handler := httpserver.NewRouter(svc, httpserver.Options{
		Root:           cfg.Workspace,
		RunSemgrep:     cfg.RunSemgrep,
		Token:          cfg.Server.Token,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Log:            log,
		Metrics:        middleware.NewMetrics(),
	})
	if cfg.Server.Token == "" {
		log.Warn("server.token is empty, /v1 is unauthenticated")
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	// no WriteTimeout: /v1/runs is synchronous and may take minutes
	srv := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
