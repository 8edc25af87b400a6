package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgy583/account-book/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one config value",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		v, err := cfg.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Println(v)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one config value and save",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("  %s = %s\n", args[0], args[1])
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(config.ConfigPath())
	},
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	section := ""
	for _, key := range config.Keys() {
		name, field, _ := strings.Cut(key, ".")
		if name != section {
			if section != "" {
				fmt.Println()
			}
			section = name
			fmt.Printf("  [%s]\n", name)
		}
		v, _ := cfg.Get(key)
		fmt.Printf("    %-18s %s\n", field+":", v)
	}
	fmt.Println()

	fmt.Println("  [environment]")
	fmt.Printf("    %-18s %s\n", "effective url:", baseURL())
	if tok := config.TokenFromEnv(); tok != "" {
		fmt.Printf("    %-18s %s\n", config.EnvToken+":", maskToken(tok))
	}
	fmt.Println()

	if err := cfg.Validate(); err != nil {
		fmt.Printf("  Problems:\n    %v\n\n", err)
	}
	fmt.Println("  Run `abook setup` or `abook config set <key> <value>` to change.")
	return nil
}

func maskToken(tok string) string {
	if len(tok) > 16 {
		return tok[:6] + "..." + tok[len(tok)-4:]
	}
	if len(tok) > 4 {
		return tok[:4] + "..."
	}
	return "****"
}
