package backend

import (
	"context"
	"strings"

	"github.com/quatton/qjob/pkg/jobrec"
	"github.com/quatton/qjob/pkg/qexec"
	"github.com/quatton/qjob/pkg/units"
)

// Positions in the sacct field list. JobName is always last so that a `|` inside a job name can
// be folded back together.
const (
	sacctJobID = iota
	sacctState
	sacctPartition
	sacctReqTRES
	sacctNCPUS
	sacctReqMem
	sacctMaxRSS
	sacctTimelimit
	sacctSubmit
	sacctQueued
	sacctStart
	sacctEnd
	sacctElapsed
	sacctNodeList
	sacctUser
	sacctWorkDir
	sacctJobName
	sacctNumFields
)

// plannedSince is the first major release that calls the queue-wait field "Planned" instead of
// "Reserved".
const plannedSince = 24

const batchSuffix = ".batch"

// SacctFields returns the --format list understood by the given sacct release.
func SacctFields(v Version) []string {
	queued := "Reserved"
	if v.Major >= plannedSince {
		queued = "Planned"
	}

	fields := make([]string, sacctNumFields)
	fields[sacctJobID] = "JobID"
	fields[sacctState] = "State"
	fields[sacctPartition] = "Partition"
	fields[sacctReqTRES] = "ReqTRES"
	fields[sacctNCPUS] = "NCPUS"
	fields[sacctReqMem] = "ReqMem"
	fields[sacctMaxRSS] = "MaxRSS"
	fields[sacctTimelimit] = "Timelimit"
	fields[sacctSubmit] = "Submit"
	fields[sacctQueued] = queued
	fields[sacctStart] = "Start"
	fields[sacctEnd] = "End"
	fields[sacctElapsed] = "Elapsed"
	fields[sacctNodeList] = "NodeList"
	fields[sacctUser] = "User"
	fields[sacctWorkDir] = "WorkDir"
	fields[sacctJobName] = "JobName"
	return fields
}

// Sacct drives Slurm's generic accounting tool. It is slower than the dashboard but available on
// every Slurm cluster.
type Sacct struct {
	exec qexec.Executor
}

func NewSacct(exec qexec.Executor) *Sacct {
	return &Sacct{exec: exec}
}

func (s *Sacct) Name() string {
	return ToolSacct
}

// Version asks sacct for its release.
func (s *Sacct) Version(ctx context.Context) (Version, error) {
	out, err := run(ctx, s.exec, ToolSacct, "--version")
	if err != nil {
		return Version{}, err
	}
	return ParseVersion(out)
}

// Args returns the argument vector for a query of jobIDs against release v.
func (s *Sacct) Args(v Version, jobIDs []string) []string {
	return []string{
		"--jobs=" + strings.Join(jobIDs, ","),
		"--format=" + strings.Join(SacctFields(v), ","),
		"--parsable2",
		"--noheader",
	}
}

func (s *Sacct) Query(ctx context.Context, jobIDs []string) ([]jobrec.JobRecord, error) {
	v, err := s.Version(ctx)
	if err != nil {
		return nil, err
	}

	out, err := run(ctx, s.exec, ToolSacct, s.Args(v, jobIDs)...)
	if err != nil {
		return nil, err
	}
	return parseSacct(out), nil
}

// splitSacctLine splits a --parsable2 line into exactly sacctNumFields values.
func splitSacctLine(line string) []string {
	values := strings.Split(line, "|")
	if len(values) > sacctNumFields {
		values[sacctJobName] = strings.Join(values[sacctJobName:], "|")
		values = values[:sacctNumFields]
	}
	for len(values) < sacctNumFields {
		values = append(values, "")
	}
	return values
}

// parseSacct turns sacct output into one record per job. A job appears as a primary line plus
// step lines ("123.batch", "123.extern", "123.0"); only the .batch step carries the job's peak
// RSS, so that value is collected first and merged into the primary line.
func parseSacct(output string) []jobrec.JobRecord {
	var parsed [][]string
	for _, line := range lines(output) {
		parsed = append(parsed, splitSacctLine(line))
	}

	peakMem := make(map[string]string)
	for _, values := range parsed {
		id := strings.TrimSpace(values[sacctJobID])
		if jobID, ok := strings.CutSuffix(id, batchSuffix); ok {
			peakMem[jobID] = units.HumanizeMemory(values[sacctMaxRSS])
		}
	}

	var records []jobrec.JobRecord
	for _, values := range parsed {
		id := strings.TrimSpace(values[sacctJobID])
		if id == "" || strings.Contains(id, ".") {
			continue
		}

		peak, ok := peakMem[id]
		if !ok {
			peak = jobrec.Sentinel
		}

		record := jobrec.JobRecord{
			JobID:     id,
			JobName:   values[sacctJobName],
			State:     jobrec.ParseState(values[sacctState]),
			Partition: values[sacctPartition],
			ReqGRES:   values[sacctReqTRES],
			NCPUs:     values[sacctNCPUS],
			ReqMem:    values[sacctReqMem],
			PeakMem:   peak,
			Timelimit: values[sacctTimelimit],
			Submit:    values[sacctSubmit],
			Queued:    values[sacctQueued],
			Start:     values[sacctStart],
			End:       values[sacctEnd],
			Elapsed:   values[sacctElapsed],
			NodeList:  values[sacctNodeList],
			User:      values[sacctUser],
			StdOut:    jobrec.Sentinel,
			StdErr:    jobrec.Sentinel,
			WorkDir:   values[sacctWorkDir],
		}
		record.Normalize()
		records = append(records, record)
	}
	return records
}
