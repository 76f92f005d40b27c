package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Jasmitha1474/women-safety-app/internal/dispatch"
	"github.com/Jasmitha1474/women-safety-app/internal/helplines"
	"github.com/Jasmitha1474/women-safety-app/internal/location"
	"github.com/Jasmitha1474/women-safety-app/internal/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// sosCmd sends an SOS alert
var sosCmd = &cobra.Command{
	Use:   "sos",
	Short: "Send an SOS alert with the current location",
	Long: `Acquire the current location and send an SOS alert to every emergency
contact. After a successful send the first contact is called directly.`,
	RunE: runSOS,
}

func runSOS(cmd *cobra.Command, args []string) error {
	a, log, closeApp, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	out := cmd.OutOrStdout()
	s := a.NewSession()
	defer s.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	loc, err := s.Locate(ctx)
	if err != nil {
		return err
	}
	if loc.Kind != location.KindFix {
		fmt.Fprintf(out, "Location %s: %s\n", loc.Kind, loc.Reason)
	}

	outcome, err := s.TriggerAlert(ctx)
	switch {
	case errors.Is(err, dispatch.ErrNoContactsConfigured):
		fmt.Fprintln(out, "No emergency contacts configured. Run 'safepulse profile save' first.")
		printHelplines(cmd)
		return err
	case errors.Is(err, dispatch.ErrLocationNotReady):
		fmt.Fprintln(out, "Location not ready yet; the alert was not sent.")
		printHelplines(cmd)
		return err
	case err != nil:
		return err
	}

	printOutcome(cmd, outcome)
	if outcome.Status == models.AlertSent {
		waitForFallback(cmd.Context(), a.FallbackDelay(), log)
	} else {
		printHelplines(cmd)
	}
	return nil
}

func printOutcome(cmd *cobra.Command, o *models.AlertOutcome) {
	out := cmd.OutOrStdout()
	switch o.Status {
	case models.AlertSent:
		fmt.Fprintf(out, "SOS sent (%s)\n", o.ID)
	case models.AlertFailed:
		fmt.Fprintf(out, "SOS failed: %s\n", o.Error)
	case models.AlertNetworkError:
		fmt.Fprintf(out, "SOS not sent, network error: %s\n", o.Error)
	}
}

// waitForFallback keeps the process alive until the scheduled fallback call
// has been placed.
func waitForFallback(ctx context.Context, delay time.Duration, log *zap.Logger) {
	if delay <= 0 {
		return
	}
	log.Debug("Waiting for fallback call", zap.Duration("delay", delay))
	select {
	case <-time.After(delay + 100*time.Millisecond):
	case <-ctx.Done():
	}
}

func printHelplines(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Emergency helplines:")
	for _, h := range helplines.All() {
		fmt.Fprintf(out, "  %-15s %-5s %s\n", h.Name, h.Number, h.TelURI())
	}
}
