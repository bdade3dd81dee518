package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m3rciful/barbot/core/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of barbot",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "barbot", buildinfo.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
