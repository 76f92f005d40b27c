package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Jasmitha1474/women-safety-app/internal/access"
	"github.com/Jasmitha1474/women-safety-app/internal/app"
	"github.com/Jasmitha1474/women-safety-app/internal/models"
	"github.com/Jasmitha1474/women-safety-app/internal/profile"

	"github.com/spf13/cobra"
)

var (
	profilePin      string
	profileName     string
	profilePhone    string
	profileContacts []string
	profileSilent   bool
	profileNewPin   string
	profileJSON     bool
)

// profileCmd groups the profile operations
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show, save or clear the emergency profile",
	Long: `Manage the PIN-protected emergency profile.

Available subcommands:
  show  - Print the profile (reconciled with the remote copy)
  save  - Validate and save the profile locally and remotely
  clear - Remove the locally stored profile`,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the profile",
	RunE:  runProfileShow,
}

var profileSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Validate and save the profile",
	Long: `Validate and save the profile.

The phone number and every emergency contact must be a 10-digit mobile
number starting with 6, 7, 8 or 9, and at least 2 contacts are required.
--new-pin sets a 4-digit PIN; it may be omitted once a PIN is stored.`,
	RunE: runProfileSave,
}

var profileClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the locally stored profile",
	RunE:  runProfileClear,
}

func init() {
	profileCmd.PersistentFlags().StringVar(&profilePin, "pin", "", "PIN used to unlock the profile")

	profileShowCmd.Flags().BoolVar(&profileJSON, "json", false, "Print as JSON")

	profileSaveCmd.Flags().StringVar(&profileName, "name", "", "Full name")
	profileSaveCmd.Flags().StringVar(&profilePhone, "phone", "", "10-digit phone number")
	profileSaveCmd.Flags().StringSliceVar(&profileContacts, "contact", nil, "Emergency contact number (repeatable)")
	profileSaveCmd.Flags().BoolVar(&profileSilent, "silent", false, "Send alerts silently")
	profileSaveCmd.Flags().StringVar(&profileNewPin, "new-pin", "", "New 4-digit PIN")
}

// unlock submits --pin when the gate is locked.
func unlock(a *app.App) error {
	if a.Gate.Unlocked() {
		return nil
	}
	if profilePin == "" {
		return fmt.Errorf("%w: pass --pin", access.ErrLocked)
	}
	return a.Gate.SubmitPin(profilePin)
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	a, _, closeApp, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	if err := unlock(a); err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()
	a.Profiles.Reconcile(ctx)

	p, err := a.Editor.Profile()
	if err != nil {
		return err
	}
	return printProfile(cmd, p)
}

func printProfile(cmd *cobra.Command, p models.UserProfile) error {
	out := cmd.OutOrStdout()
	if profileJSON {
		p.Pin = ""
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	fmt.Fprintf(out, "Name:     %s\n", p.Name)
	fmt.Fprintf(out, "Phone:    %s\n", p.Phone)
	fmt.Fprintf(out, "PIN set:  %t\n", p.HasPin())
	fmt.Fprintf(out, "Silent:   %t\n", p.Silent)
	fmt.Fprintln(out, "Contacts:")
	for i, c := range p.Contacts {
		fmt.Fprintf(out, "  %d. %s\n", i+1, c)
	}
	return nil
}

func runProfileSave(cmd *cobra.Command, args []string) error {
	a, _, closeApp, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	if err := unlock(a); err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	p, err := a.Editor.Save(ctx, profile.Candidate{
		Name:     profileName,
		Phone:    profilePhone,
		Contacts: profileContacts,
		Silent:   profileSilent,
		NewPin:   profileNewPin,
	})
	var rse *profile.RemoteSaveError
	if errors.As(err, &rse) {
		return fmt.Errorf("profile not saved, the service could not be reached: %w", err)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Profile saved")
	return printProfile(cmd, p)
}

func runProfileClear(cmd *cobra.Command, args []string) error {
	a, _, closeApp, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	if err := unlock(a); err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	if err := a.Editor.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Local profile cleared")
	return nil
}
