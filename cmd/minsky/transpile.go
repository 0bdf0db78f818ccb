package main

import (
	"os"

	"github.com/aretw0/minsky/internal/cli"
	"github.com/spf13/cobra"
)

var transpileCmd = &cobra.Command{
	Use:   "transpile FILE",
	Short: "Rewrite a program into an equivalent single-state program",
	Long: `Prints the single-state equivalent of the program in FILE in text format.
Each original state gets an active-flag tape and a relay tape after the original tapes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		debug, _ := cmd.Flags().GetBool("debug")
		return cli.Transpile(args[0], output, debug, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(transpileCmd)
	transpileCmd.Flags().StringP("output", "o", "", "Write the program to this file instead of stdout")
	transpileCmd.Flags().Bool("debug", false, "Log transpilation details to stderr")
}
