package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "tablescan",
	Short: "Extract the measurement table from a web page",
	Long: `Fetches a web page, finds the first HTML table with a column of
measurements (numbers followed by "m") and prints it as a value/name series.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("tablescan version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
