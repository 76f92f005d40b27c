package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unlockPin string

// unlockCmd checks a PIN against the stored one
var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Check the profile PIN",
	RunE:  runUnlock,
}

func init() {
	unlockCmd.Flags().StringVar(&unlockPin, "pin", "", "4-digit PIN")
}

func runUnlock(cmd *cobra.Command, args []string) error {
	a, _, closeApp, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	if a.Gate.Unlocked() {
		fmt.Fprintln(cmd.OutOrStdout(), "No PIN set; profile is open")
		return nil
	}
	if err := a.Gate.SubmitPin(unlockPin); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Profile unlocked")
	return nil
}
