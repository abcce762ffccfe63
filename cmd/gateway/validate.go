package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/juan-carlos-trimino/mem-gateway/pkg/cli"
	"github.com/juan-carlos-trimino/mem-gateway/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the gateway configuration",
	Long: `Load and validate the configuration file without starting the gateway.

Validation checks that all four upstream hosts are set, timeouts are
non-negative, the log level and format are known, and the audit prune
schedule (if set) is a parseable cron expression.

Examples:
  # Validate the default config file
  gateway validate

  # Validate a specific file
  gateway validate --config /etc/gateway/config.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", err.Error())
	}

	fmt.Println("✓ Configuration valid")
	fmt.Printf("  Listen address: %s\n", cfg.Server.ListenAddress)
	fmt.Printf("  Metadata:       %s\n", cfg.Upstreams.Metadata.Host)
	fmt.Printf("  History:        %s\n", cfg.Upstreams.History.Host)
	fmt.Printf("  Upload:         %s\n", cfg.Upstreams.Upload.Host)
	fmt.Printf("  Streaming:      %s\n", cfg.Upstreams.Streaming.Host)
	fmt.Printf("  Retries:        %d\n", cfg.Upstreams.Retries)
	if cfg.Audit.Enabled {
		fmt.Printf("  Audit store:    %s (retention %d days)\n",
			cfg.Audit.SQLite.Path, cfg.Audit.Retention.Days)
	}
	return nil
}
