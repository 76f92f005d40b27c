package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// healthCmd checks the remote service
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the alert service is reachable",
	RunE:  runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	a, _, closeApp, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	if err := a.Remote.Health(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Service OK")
	return nil
}
