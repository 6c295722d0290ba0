package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quatton/qjob/pkg/jobinfo"
)

var queryCmd = &cobra.Command{
	Use:   "query [flags] JOBID...",
	Short: "Print accounting records for jobs as a tab-separated table",
	Long: `Print one row per job found, under a fixed 19-column header.

Job IDs may be given as separate arguments or comma-separated. Jobs the
scheduler does not know are silently left out.

Examples:
  # Two jobs from Slurm
  qjob query 1234567 1234568

  # Comma-separated, archived to S3 and exported to Postgres
  qjob query --archive --export 1234567,1234568`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig(cmd)
		if err != nil {
			return err
		}
		logger := GetLogger(cmd)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w, err := newWiring(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer w.Close()

		result, err := w.Service.Run(ctx, jobinfo.Request{
			Scheduler: cfg.Scheduler,
			JobIDs:    args,
			Threads:   cfg.Threads,
			TmpDir:    cfg.TmpDir,
		}, cmd.OutOrStdout())
		if err != nil {
			return err
		}

		logger.Debug("query finished",
			"report", result.ReportID,
			"backend", result.Backend,
			"records", len(result.Records),
			"cached", result.Cached,
		)
		return nil
	},
}

func init() {
	queryCmd.Flags().String("scheduler", "slurm", "scheduler family to query")
	queryCmd.Flags().Int("threads", 1, "worker threads (advisory)")
	queryCmd.Flags().String("tmpdir", "", "directory for staged report files")
	queryCmd.Flags().Duration("timeout", jobinfo.DefaultTimeout, "give up on the backend after this long (0 disables)")
	queryCmd.Flags().Bool("archive", false, "upload the report to the configured S3 bucket")
	queryCmd.Flags().Bool("export", false, "upsert the records into the configured Postgres database")
	rootCmd.AddCommand(queryCmd)
}
