package backend

import (
	"context"
	"strings"

	"github.com/quatton/qjob/pkg/jobrec"
	"github.com/quatton/qjob/pkg/qexec"
	"github.com/quatton/qjob/pkg/units"
)

// dashboardFields are requested in schema order, so column i of the output is schema column i.
var dashboardFields = []string{
	"jobid",
	"jobname",
	"state",
	"partition",
	"gres",
	"cpus",
	"mem",
	"cpu_max_mem",
	"timelimit",
	"submit_time",
	"queued",
	"start_time",
	"end_time",
	"elapsed",
	"nodelist",
	"user",
	"std_out",
	"std_err",
	"work_dir",
}

const dashboardPeakMemColumn = 7

// Dashboard drives the cluster's dashboard CLI, which answers from a job database and is much
// faster than sacct.
type Dashboard struct {
	exec qexec.Executor
}

func NewDashboard(exec qexec.Executor) *Dashboard {
	return &Dashboard{exec: exec}
}

func (d *Dashboard) Name() string {
	return ToolDashboard
}

// Args returns the argument vector for a query of jobIDs.
func (d *Dashboard) Args(jobIDs []string) []string {
	return []string{
		"jobs",
		"--joblist", strings.Join(jobIDs, ","),
		"--fields", strings.Join(dashboardFields, ","),
		"--tab",
		"--archive",
	}
}

func (d *Dashboard) Query(ctx context.Context, jobIDs []string) ([]jobrec.JobRecord, error) {
	out, err := run(ctx, d.exec, ToolDashboard, d.Args(jobIDs)...)
	if err != nil {
		return nil, err
	}
	return parseDashboard(out), nil
}

// parseDashboard drops the header line and maps each tab-delimited row onto the schema.
func parseDashboard(output string) []jobrec.JobRecord {
	rows := lines(output)
	if len(rows) == 0 {
		return nil
	}

	records := make([]jobrec.JobRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		values := strings.Split(row, "\t")
		if len(values) > dashboardPeakMemColumn {
			values[dashboardPeakMemColumn] = units.HumanizeMemory(values[dashboardPeakMemColumn])
		}
		record := jobrec.FromValues(values)
		if record.JobID == jobrec.Sentinel {
			continue
		}
		records = append(records, record)
	}
	return records
}
