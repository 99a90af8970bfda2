package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/movierecs/movierecs/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "movierecs %s\n", config.Version)
	},
}
