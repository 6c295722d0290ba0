package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// JobRecord is the exported form of one normalized job row. A job is keyed by scheduler and
// job ID; re-exporting it overwrites the previous row.
type JobRecord struct {
	bun.BaseModel `bun:"table:qjob.job_records,alias:jr"`

	Scheduler string `bun:",pk"`
	JobID     string `bun:",pk"`

	ReportID uuid.UUID `bun:"type:uuid,notnull"`
	Backend  string    `bun:",notnull"`

	JobName   string `bun:",notnull"`
	State     string `bun:",notnull"`
	Partition string `bun:",notnull"`
	ReqGRES   string `bun:"req_gres,notnull"`
	NCPUs     string `bun:"ncpus,notnull"`
	ReqMem    string `bun:",notnull"`
	PeakMem   string `bun:",notnull"`
	Timelimit string `bun:",notnull"`
	Submit    string `bun:",notnull"`
	Queued    string `bun:",notnull"`
	Start     string `bun:",notnull"`
	End       string `bun:",notnull"`
	Elapsed   string `bun:",notnull"`
	NodeList  string `bun:",notnull"`
	User      string `bun:"user,notnull"`
	StdOut    string `bun:"std_out,notnull"`
	StdErr    string `bun:"std_err,notnull"`
	WorkDir   string `bun:",notnull"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
