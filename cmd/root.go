// Package cmd implements the abook CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mgy583/account-book/internal/config"
	"github.com/mgy583/account-book/internal/logging"
	"github.com/mgy583/account-book/internal/store"
	"github.com/mgy583/account-book/internal/tui/theme"
)

var (
	flagAPIURL    string
	flagStatePath string
	flagQuiet     bool
	flagLogLevel  string
	flagLogFormat string
)

// cfg is loaded once per invocation by the root pre-run hook.
var cfg = config.DefaultConfig()

// errReported marks a failure the user has already been told about through a
// notification, so Execute does not print it a second time.
var errReported = errors.New("already reported")

var rootCmd = &cobra.Command{
	Use:               "abook",
	Short:             "Personal account book client",
	Long:              "Track orders and accounts against an account-book server: list, filter, add, delete, and summarize by month.",
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: initRuntime,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	// A missing .env is the common case.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Order service base URL (overrides config and "+config.EnvAPIURL+")")
	rootCmd.PersistentFlags().StringVar(&flagStatePath, "state", store.DefaultPath(), "Local state database")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress success notifications")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format: text or json")
}

func initRuntime(_ *cobra.Command, _ []string) error {
	if _, err := logging.Setup(os.Stderr, flagLogLevel, flagLogFormat); err != nil {
		return err
	}
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = loaded
	theme.SetActive(cfg.Appearance.Theme)
	return nil
}

// baseURL resolves the service URL: flag, then env, then config.
func baseURL() string {
	if flagAPIURL != "" {
		return flagAPIURL
	}
	return config.BaseURL(cfg)
}
