package main

import (
	"os"

	"github.com/aretw0/minsky/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Run a program until it halts",
	Long: `Interprets the program in FILE (text, or YAML for .yaml/.yml files) starting from
--state with the tape values given by --tapes, and prints the halted machine.`,
	Example: `  minsky run examples/programs/adder.m3 --tapes 2,3
  minsky run examples/programs/mult.m3 --tapes 0,6,0,6 --transpile --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := runOptions(cmd)
		if err != nil {
			return err
		}
		opts.Path = args[0]
		return cli.Run(cmd.Context(), opts, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("tapes", "", "Initial tape values, comma separated (e.g. 2,3)")
	cmd.Flags().Int("state", 0, "Initial state")
	cmd.Flags().Int("fuel", 0, "Maximum number of rule firings (default 1000000)")
	cmd.Flags().Bool("transpile", false, "Run the single-state equivalent and project the result back")
	cmd.Flags().Bool("json", false, "Print the result as JSON")
	cmd.Flags().Bool("debug", false, "Log every rule firing to stderr")
	cmd.Flags().Int("trace", 0, "Show the first N fired rules")
}

func runOptions(cmd *cobra.Command) (cli.RunOptions, error) {
	raw, _ := cmd.Flags().GetString("tapes")
	tapes, err := cli.ParseTapes(raw)
	if err != nil {
		return cli.RunOptions{}, err
	}
	state, _ := cmd.Flags().GetInt("state")
	fuel, _ := cmd.Flags().GetInt("fuel")
	transpile, _ := cmd.Flags().GetBool("transpile")
	jsonMode, _ := cmd.Flags().GetBool("json")
	debug, _ := cmd.Flags().GetBool("debug")
	trace, _ := cmd.Flags().GetInt("trace")

	return cli.RunOptions{
		State:     state,
		Tapes:     tapes,
		Fuel:      fuel,
		Transpile: transpile,
		JSON:      jsonMode,
		Debug:     debug,
		Trace:     trace,
	}, nil
}
