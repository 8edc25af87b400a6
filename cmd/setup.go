package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgy583/account-book/internal/config"
	"github.com/mgy583/account-book/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	fmt.Println()
	fmt.Println("  Welcome to abook!")
	fmt.Println()

	values := tui.SetupValuesFrom(cfg)
	if err := tui.SetupForm(&values).Run(); err != nil {
		return err
	}
	values.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Next: `abook login`, then `abook tui`.")
	fmt.Println()
	return nil
}
