package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quatton/qjob/pkg/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the export tables in the configured Postgres database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig(cmd)
		if err != nil {
			return err
		}
		logger := GetLogger(cmd)

		database, err := openDatabase(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		return db.Migrate(cmd.Context(), database, logger.Logger)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
