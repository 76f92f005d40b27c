package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jasmitha1474/women-safety-app/internal/app"
	"github.com/Jasmitha1474/women-safety-app/internal/config"
	"github.com/Jasmitha1474/women-safety-app/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const serviceName = "safepulse"

var timeout time.Duration

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "safepulse",
	Short: "Personal safety client: profile, SOS alerts and nearby responders",
	Long: `safepulse keeps a PIN-protected emergency profile, sends SOS alerts with
the current location to your emergency contacts and finds nearby hospitals
and police stations.

Configuration is read from the environment (SAFEPULSE_API_URL, REDIS_ADDR,
PLACES_API_KEY, LOCATION_LAT/LOCATION_LNG, ...).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSaveCmd)
	profileCmd.AddCommand(profileClearCmd)
	outcomesCmd.AddCommand(outcomesWatchCmd)

	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(sosCmd)
	rootCmd.AddCommand(nearbyCmd)
	rootCmd.AddCommand(helplinesCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(outcomesCmd)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// openApp loads configuration, builds the logger and wires the client.
// The returned func releases everything.
func openApp(cmd *cobra.Command) (*app.App, *zap.Logger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, serviceName)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to init logger: %w", err)
	}

	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, nil, err
	}

	return a, log, func() {
		a.Close()
		_ = log.Sync()
	}, nil
}

// commandContext bounds cmd's context by the --timeout flag.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}
