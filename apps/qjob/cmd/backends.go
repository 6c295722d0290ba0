package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quatton/qjob/pkg/backend"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "Show which backend tools are available and which one a query would use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig(cmd)
		if err != nil {
			return err
		}

		scheduler, err := backend.ParseScheduler(cfg.Scheduler)
		if err != nil {
			return err
		}
		tools, err := backend.ResolvePriorities(scheduler, cfg.Backends[string(scheduler)])
		if err != nil {
			return err
		}

		exec, err := newExecutor(cfg)
		if err != nil {
			return err
		}

		avail, err := backend.Probe(cmd.Context(), exec, tools)
		if err != nil {
			return err
		}

		found := color.New(color.FgGreen)
		missing := color.New(color.FgRed)
		if noColor {
			found.DisableColor()
			missing.DisableColor()
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PRIORITY\tTOOL\tSTATUS\tPATH")
		selected := ""
		for i, a := range avail {
			status, path := missing.Sprint("missing"), "-"
			if a.Found {
				status, path = found.Sprint("found"), a.Path
				if selected == "" {
					selected = a.Tool
				}
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, a.Tool, status, path)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		if selected == "" {
			_, err := backend.Select(cmd.Context(), exec, tools)
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s queries will use %s\n", scheduler, selected)
		return nil
	},
}

func init() {
	backendsCmd.Flags().String("scheduler", "slurm", "scheduler family to inspect")
	rootCmd.AddCommand(backendsCmd)
}
