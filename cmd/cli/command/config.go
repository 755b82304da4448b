package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Validate the environment configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		fmt.Println("✓ Configuration is valid")
		fmt.Printf("Environment: %s\n", cfg.GoEnv)
		fmt.Printf("HTTP port:   %d\n", cfg.HTTPPort)
		fmt.Printf("Storage:     %s\n", cfg.StorageBackend)
		fmt.Printf("Redis:       %s\n", enabled(cfg.RedisURL != ""))
		fmt.Printf("NATS:        %s\n", enabled(cfg.NATSURL != ""))
		fmt.Printf("Metrics:     %s\n", enabled(cfg.PrometheusEnabled))
		return nil
	},
}

func enabled(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}

func init() {
	rootCmd.AddCommand(checkConfigCmd)
}
