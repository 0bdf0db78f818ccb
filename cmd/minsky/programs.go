package main

import (
	"os"

	"github.com/aretw0/minsky/internal/cli"
	"github.com/spf13/cobra"
)

var programsCmd = &cobra.Command{
	Use:   "programs",
	Short: "Manage stored programs",
	Long:  `Saves, lists, shows, runs and deletes programs in the store selected by the configuration file.`,
}

var programsSaveCmd = &cobra.Command{
	Use:   "save FILE [NAME]",
	Short: "Store the program in FILE (named after the file by default)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		name := ""
		if len(args) > 1 {
			name = args[1]
		}
		return cli.SaveProgram(cmd.Context(), cfg, name, args[0], os.Stdout)
	},
}

var programsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored programs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return cli.ListPrograms(cmd.Context(), cfg, os.Stdout)
	},
}

var programsShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Print a stored program in text format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return cli.ShowProgram(cmd.Context(), cfg, args[0], os.Stdout)
	},
}

var programsDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a stored program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return cli.DeleteProgram(cmd.Context(), cfg, args[0], os.Stdout)
	},
}

var programsRunCmd = &cobra.Command{
	Use:   "run NAME",
	Short: "Run a stored program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		opts, err := runOptions(cmd)
		if err != nil {
			return err
		}
		return cli.RunStored(cmd.Context(), cfg, args[0], opts, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(programsCmd)
	programsCmd.AddCommand(programsSaveCmd, programsListCmd, programsShowCmd, programsDeleteCmd, programsRunCmd)
	addRunFlags(programsRunCmd)
}
