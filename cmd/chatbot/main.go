package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MegaGrindStone/lms-chatbot/internal/client"
	"github.com/MegaGrindStone/lms-chatbot/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type flags struct {
	baseURL  string
	timeout  time.Duration
	logFile  string
	startDir string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:          "chatbot",
		Short:        "Chat with the LMS assistant from the terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, f)
		},
	}

	cmd.Flags().StringVar(&f.baseURL, "base-url", "http://localhost:8000", "base URL of the LMS server")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "HTTP client timeout, zero for none")
	cmd.Flags().StringVar(&f.logFile, "log-file", "", "write debug logs to this file")
	cmd.Flags().StringVar(&f.startDir, "dir", ".", "directory the upload file picker opens in")

	return cmd
}

func newLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}

func run(ctx context.Context, f flags) error {
	logger, err := newLogger(f.logFile)
	if err != nil {
		return fmt.Errorf("error creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cli := client.New(f.baseURL,
		client.WithHTTPClient(client.NewHTTPClient(f.timeout)),
		client.WithLogger(logger),
	)

	token, err := cli.CSRFToken(ctx)
	if err != nil {
		return fmt.Errorf("error loading chatbot page: %w", err)
	}
	logger.Debug("Loaded chatbot page", zap.String("baseURL", f.baseURL))

	return tui.Run(ctx, cli, token, tui.WithLogger(logger), tui.WithStartDir(f.startDir))
}
