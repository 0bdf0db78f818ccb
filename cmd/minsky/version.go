package main

import (
	"fmt"

	"github.com/aretw0/minsky"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of minsky",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("minsky version %s\n", minsky.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
