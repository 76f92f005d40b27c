package main

import (
	"fmt"

	"github.com/Jasmitha1474/women-safety-app/internal/location"

	"github.com/spf13/cobra"
)

// nearbyCmd lists nearby hospitals and police stations
var nearbyCmd = &cobra.Command{
	Use:   "nearby",
	Short: "List hospitals and police stations near the current location",
	RunE:  runNearby,
}

func runNearby(cmd *cobra.Command, args []string) error {
	a, _, closeApp, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	out := cmd.OutOrStdout()
	s := a.NewSession()
	defer s.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	loc, result, err := s.Start(ctx)
	if err != nil {
		return err
	}
	if loc.Kind != location.KindFix {
		fmt.Fprintf(out, "Location %s: %s\n", loc.Kind, loc.Reason)
		return nil
	}

	fmt.Fprintf(out, "Your location: %.6f, %.6f (±%.0fm)\n", loc.Fix.Lat, loc.Fix.Lng, loc.Fix.Accuracy)
	if result.NoResponders {
		fmt.Fprintln(out, "No nearby police stations or hospitals found.")
		return nil
	}

	for _, c := range result.Candidates {
		fmt.Fprintf(out, "[%s] %s\n", c.Category, c.DisplayName)
		if c.AddressSnippet != "" {
			fmt.Fprintf(out, "    %s\n", c.AddressSnippet)
		}
		fmt.Fprintf(out, "    %s\n", c.DirectionsURL())
	}
	return nil
}
