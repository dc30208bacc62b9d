package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

// NewHealthcheckCommand creates the healthcheck command, a probe for cron
// or an uptime monitor. Exits non-zero when the API is down or slow.
func NewHealthcheckCommand() *cobra.Command {
	var slowAfter time.Duration

	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Probe the API health endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealthcheck(slowAfter)
		},
	}

	cmd.Flags().DurationVar(&slowAfter, "slow-after", 2*time.Second, "treat responses slower than this as degraded")
	return cmd
}

func runHealthcheck(slowAfter time.Duration) error {
	baseURL := os.Getenv("API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	client := resty.New().SetTimeout(10 * time.Second)
	resp, err := client.R().Get(baseURL + "/health")
	if err != nil {
		return fmt.Errorf("health probe failed: %w", err)
	}
	latency := resp.Time()

	if resp.StatusCode() != 200 {
		return fmt.Errorf("health probe returned status %d", resp.StatusCode())
	}
	if latency > slowAfter {
		log.Warn().Dur("latency", latency).Msg("API responding slowly")
		return fmt.Errorf("health probe too slow: %s", latency)
	}

	log.Info().Dur("latency", latency).Msg("API healthy")
	return nil
}
