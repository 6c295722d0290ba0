package db

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/quatton/qjob/pkg/db/models"
	"github.com/quatton/qjob/pkg/jobinfo"
)

// upsertColumns are overwritten when a job is exported again.
var upsertColumns = []string{
	"report_id", "backend", "job_name", "state", "partition", "req_gres", "ncpus", "req_mem",
	"peak_mem", "timelimit", "submit", "queued", "start", "end", "elapsed", "node_list", "user",
	"std_out", "std_err", "work_dir", "updated_at",
}

// ExportSink upserts every record of a result into qjob.job_records.
type ExportSink struct {
	db bun.IDB
}

func NewExportSink(db bun.IDB) *ExportSink {
	return &ExportSink{db: db}
}

func (e *ExportSink) Name() string {
	return "export"
}

func (e *ExportSink) Publish(ctx context.Context, result *jobinfo.Result) error {
	rows := Rows(result)
	if len(rows) == 0 {
		return nil
	}

	q := e.db.NewInsert().
		Model(&rows).
		On("CONFLICT (scheduler, job_id) DO UPDATE")
	for _, col := range upsertColumns {
		q = q.Set("? = EXCLUDED.?", bun.Ident(col), bun.Ident(col))
	}

	if _, err := q.Exec(ctx); err != nil {
		return fmt.Errorf("exporting %d job records: %w", len(rows), err)
	}
	return nil
}

// Rows converts a result into table rows.
func Rows(result *jobinfo.Result) []models.JobRecord {
	now := result.CreatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	rows := make([]models.JobRecord, 0, len(result.Records))
	for _, r := range result.Records {
		rows = append(rows, models.JobRecord{
			Scheduler: string(result.Scheduler),
			JobID:     r.JobID,
			ReportID:  result.ReportID,
			Backend:   result.Backend,
			JobName:   r.JobName,
			State:     r.State.String(),
			Partition: r.Partition,
			ReqGRES:   r.ReqGRES,
			NCPUs:     r.NCPUs,
			ReqMem:    r.ReqMem,
			PeakMem:   r.PeakMem,
			Timelimit: r.Timelimit,
			Submit:    r.Submit,
			Queued:    r.Queued,
			Start:     r.Start,
			End:       r.End,
			Elapsed:   r.Elapsed,
			NodeList:  r.NodeList,
			User:      r.User,
			StdOut:    r.StdOut,
			StdErr:    r.StdErr,
			WorkDir:   r.WorkDir,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return rows
}

var _ jobinfo.Sink = (*ExportSink)(nil)
