package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quatton/qjob/pkg/qapi"
)

// Set with -ldflags "-X github.com/quatton/qjob/apps/qjob/cmd.version=..."
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the qjob version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "qjob", version)
	},
}

func init() {
	qapi.Version = version
	rootCmd.AddCommand(versionCmd)
}
