// Package jobrec defines the scheduler-independent job record and its fixed tabular schema.
package jobrec

import (
	"strconv"
	"strings"
)

// Sentinel marks a value the backend could not supply. It keeps the column count of every row
// identical.
const Sentinel = "-"

// JobRecord is one normalized row of historical job metadata.
type JobRecord struct {
	JobID     string `json:"job_id"`
	JobName   string `json:"job_name"`
	State     State  `json:"state"`
	Partition string `json:"partition"`
	ReqGRES   string `json:"req_gres"`
	NCPUs     string `json:"ncpus"`
	ReqMem    string `json:"req_mem"`
	PeakMem   string `json:"peak_mem"`
	Timelimit string `json:"timelimit"`
	Submit    string `json:"submit"`
	Queued    string `json:"queued"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Elapsed   string `json:"elapsed"`
	NodeList  string `json:"node_list"`
	User      string `json:"user"`
	StdOut    string `json:"std_out"`
	StdErr    string `json:"std_err"`
	WorkDir   string `json:"work_dir"`
}

var columns = []string{
	"JobID",
	"JobName",
	"State",
	"Partition",
	"ReqGRES",
	"NCPUs",
	"ReqMem",
	"PeakMem",
	"Timelimit",
	"Submit",
	"Queued",
	"Start",
	"End",
	"Elapsed",
	"NodeList",
	"User",
	"StdOut",
	"StdErr",
	"WorkDir",
}

// NumColumns is the width of every rendered row.
var NumColumns = len(columns)

// Columns returns the header in schema order.
func Columns() []string {
	return append([]string(nil), columns...)
}

// fields returns pointers to the string-typed fields in schema order. State is handled apart.
func (r *JobRecord) fields() []*string {
	return []*string{
		&r.JobID,
		&r.JobName,
		nil,
		&r.Partition,
		&r.ReqGRES,
		&r.NCPUs,
		&r.ReqMem,
		&r.PeakMem,
		&r.Timelimit,
		&r.Submit,
		&r.Queued,
		&r.Start,
		&r.End,
		&r.Elapsed,
		&r.NodeList,
		&r.User,
		&r.StdOut,
		&r.StdErr,
		&r.WorkDir,
	}
}

// FromValues builds a record from values given in schema order. Missing trailing values become
// the sentinel and surplus values are ignored. The result is normalized.
func FromValues(values []string) JobRecord {
	var r JobRecord
	for i, f := range r.fields() {
		v := Sentinel
		if i < len(values) {
			v = values[i]
		}
		if f == nil {
			r.State = State(v)
			continue
		}
		*f = v
	}
	r.Normalize()
	return r
}

// Normalize fills every empty field with the sentinel, truncates the state to its leading token
// and rejects a CPU count that is not a non-negative integer.
func (r *JobRecord) Normalize() {
	for _, f := range r.fields() {
		if f == nil {
			continue
		}
		*f = clean(*f)
	}
	r.State = ParseState(string(r.State))

	if r.NCPUs != Sentinel {
		if n, err := strconv.ParseUint(r.NCPUs, 10, 32); err != nil {
			r.NCPUs = Sentinel
		} else {
			r.NCPUs = strconv.FormatUint(n, 10)
		}
	}
}

// Values returns the record in schema order, sentinel-filled.
func (r JobRecord) Values() []string {
	values := make([]string, 0, NumColumns)
	for _, f := range r.fields() {
		if f == nil {
			values = append(values, clean(string(r.State)))
			continue
		}
		values = append(values, clean(*f))
	}
	return values
}

// clean trims v, maps empty to the sentinel and flattens characters that would break a
// tab-delimited row.
func clean(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return Sentinel
	}
	if strings.ContainsAny(v, "\t\r\n") {
		v = strings.Map(func(r rune) rune {
			switch r {
			case '\t', '\r', '\n':
				return ' '
			}
			return r
		}, v)
	}
	return v
}
