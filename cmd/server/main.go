package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/MegaGrindStone/lms-chatbot/internal/handlers"
	"github.com/MegaGrindStone/lms-chatbot/internal/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

const appDirName = "lms-chatbot"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var cfgFilePath string

	cmd := &cobra.Command{
		Use:          "lms-chatbot-server",
		Short:        "Serve the LMS chatbot page and its chat and summarize endpoints",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgDir, err := appDir()
			if err != nil {
				return err
			}
			if cfgFilePath == "" {
				cfgFilePath = filepath.Join(cfgDir, "config.yaml")
			}
			cfg, err := loadConfig(cfgFilePath)
			if err != nil {
				return err
			}
			if cfg.Server.DataDir == "" {
				cfg.Server.DataDir = cfgDir
			}

			logger, err := newLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, logger)
		},
	}
	cmd.Flags().StringVarP(&cfgFilePath, "config", "c", "", "path to the YAML config file")

	return cmd
}

func appDir() (string, error) {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("error getting user config dir: %w", err)
	}
	path := filepath.Join(cfgDir, appDirName)
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", fmt.Errorf("error creating config directory: %w", err)
	}
	return path, nil
}

func newLogger(cfg logConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("error parsing log level: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	llm, err := cfg.LLM.llm(logger)
	if err != nil {
		return fmt.Errorf("error creating llm: %w", err)
	}

	boltDB, err := services.NewBoltDB(filepath.Join(cfg.Server.DataDir, "store.db"))
	if err != nil {
		return err
	}
	defer func() {
		if err := boltDB.Close(); err != nil {
			logger.Error("Failed to close store", zap.Error(err))
		}
	}()

	if cfg.Preference != nil {
		if err := boltDB.SetPreference(ctx, cfg.Preference.preference()); err != nil {
			return fmt.Errorf("error storing preference: %w", err)
		}
	}

	assistant := services.NewAssistant(llm, cfg.RolePrompts, logger)
	summarizer := services.NewPDFSummarizer(assistant, cfg.Upload.MaxPages, cfg.Upload.ChunkSize, logger)

	m, err := handlers.NewMain(assistant, summarizer, boltDB, logger,
		handlers.WithMaxUploadSize(cfg.Upload.MaxSize),
		handlers.WithHistoryLimit(cfg.Server.HistoryLimit),
	)
	if err != nil {
		return err
	}

	handler, err := m.Routes(handlers.RouteConfig{
		CSRF:              cfg.Security.CSRF,
		RequestsPerSecond: cfg.Security.RequestsPerSecond,
		Burst:             cfg.Security.Burst,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Start shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown failed", zap.Error(err))
			if err := srv.Close(); err != nil {
				logger.Error("Forcing server close", zap.Error(err))
			}
		}
		return nil
	})

	return g.Wait()
}
