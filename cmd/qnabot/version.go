package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/waterfall"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of qnabot",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "qnabot version %s\n", strings.TrimSpace(waterfall.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
