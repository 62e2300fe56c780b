// Package cmd implements the couponworker command-line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sjsage522/couponworker/config"
	"sjsage522/couponworker/logger"
)

// cfg is loaded once before any subcommand runs
var cfg *config.Config

// newRootCommand builds the command tree
func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "couponworker",
		Short:         "Extracts structured coupon records from coupon listing sites",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.InitWithWriter(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.RFC3339})

			cfg = config.LoadConfig()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return nil
		},
	}

	root.AddCommand(newCrawlCommand())
	root.AddCommand(newDemoCommand())
	root.AddCommand(newExtractCommand())
	root.AddCommand(newVersionCommand())
	return root
}

// Execute runs the root command, cancelling its context on SIGINT or SIGTERM
func Execute() error {
	// Load .env file early so environment variables are available
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCommand().ExecuteContext(ctx)
}
