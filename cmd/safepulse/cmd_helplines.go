package main

import (
	"github.com/spf13/cobra"
)

// helplinesCmd prints the national emergency numbers
var helplinesCmd = &cobra.Command{
	Use:   "helplines",
	Short: "Print emergency helpline numbers",
	Run: func(cmd *cobra.Command, args []string) {
		printHelplines(cmd)
	},
}
