package cmd

import (
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X movie-sentiment/cmd.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("movie-sentiment version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
