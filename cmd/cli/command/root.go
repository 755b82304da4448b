package command

// root.go defines the root command for foodgram-cli.
// Every subcommand shares the configuration loaded here.

import (
	"fmt"
	"os"

	"foodgram/internal/config"
	"foodgram/internal/logging"

	"github.com/spf13/cobra"
)

var cfg *config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "foodgram-cli",
	Short: "foodgram-cli - Foodgram management commands",
	Long: `foodgram-cli runs one-shot maintenance tasks against the Foodgram database:
- apply schema migrations
- load the ingredient and tag fixtures
- create administrator accounts
- purge expired auth tokens

Configuration comes from the same environment variables (and .env file) as the API server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		logging.Init(logging.Config{Level: cfg.LogLevel, Format: "console"})
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err) // Print error to standard error
		os.Exit(1)
	}
}
