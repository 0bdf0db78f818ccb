package main

import (
	"os"

	"github.com/aretw0/minsky/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph FILE",
	Short: "Export the state graph visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the program's states and rules.
With --tapes the program is run first and the visited states are highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("tapes")
		tapes, err := cli.ParseTapes(raw)
		if err != nil {
			return err
		}
		state, _ := cmd.Flags().GetInt("state")
		fuel, _ := cmd.Flags().GetInt("fuel")

		return cli.Graph(cmd.Context(), cli.GraphOptions{
			Path:    args[0],
			Overlay: cmd.Flags().Changed("tapes"),
			State:   state,
			Tapes:   tapes,
			Fuel:    fuel,
		}, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("tapes", "", "Run on these tape values and highlight the visited states")
	graphCmd.Flags().Int("state", 0, "Initial state of the highlighted run")
	graphCmd.Flags().Int("fuel", 0, "Fuel of the highlighted run")
}
