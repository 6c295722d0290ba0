package schemas

import (
	"time"

	"github.com/quatton/qjob/pkg/jobrec"
)

type JobsResponse struct {
	ReportID  string             `json:"report_id" doc:"Identifier of this report"`
	Scheduler string             `json:"scheduler" example:"slurm"`
	Backend   string             `json:"backend" example:"sacct" doc:"Tool that answered the query"`
	Columns   []string           `json:"columns" doc:"Column order of the tabular report"`
	Jobs      []jobrec.JobRecord `json:"jobs" doc:"One entry per job found; unknown jobs are absent"`
	Cached    int                `json:"cached" doc:"Records served from the record cache"`
	CreatedAt time.Time          `json:"created_at"`
}
