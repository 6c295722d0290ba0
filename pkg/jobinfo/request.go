package jobinfo

import (
	"cmp"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/quatton/qjob/pkg/backend"
	"github.com/quatton/qjob/pkg/jobrec"
	"github.com/quatton/qjob/pkg/qerr"
)

// Request is one retrieval: a scheduler and the jobs to look up.
type Request struct {
	Scheduler string
	JobIDs    []string
	// Threads is advisory; the backends issue a single query.
	Threads int
	// TmpDir is where sinks may stage files.
	TmpDir string
}

// Result is a completed lookup.
type Result struct {
	ReportID  uuid.UUID
	Scheduler backend.Scheduler
	Backend   string
	Records   []jobrec.JobRecord
	CreatedAt time.Time
	// Cached counts records served from the record cache.
	Cached int
	TmpDir string
}

// SplitJobIDs splits every argument on commas and whitespace and drops empties and duplicates,
// keeping first-seen order.
func SplitJobIDs(args []string) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, arg := range args {
		for _, id := range strings.FieldsFunc(arg, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		}) {
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

func (r Request) validate() (backend.Scheduler, []string, error) {
	scheduler, err := backend.ParseScheduler(r.Scheduler)
	if err != nil {
		return "", nil, err
	}
	ids := SplitJobIDs(r.JobIDs)
	if len(ids) == 0 {
		return "", nil, qerr.Errorf(qerr.CodeInvalidInput, "no job identifiers given")
	}
	if r.Threads < 1 {
		return "", nil, qerr.Errorf(qerr.CodeInvalidInput, "threads must be at least 1, got %d", r.Threads)
	}
	return scheduler, ids, nil
}

// baseJobID strips an array task suffix: "123_4" ranks with "123".
func baseJobID(id string) string {
	if base, _, ok := strings.Cut(id, "_"); ok {
		return base
	}
	return id
}

// mergeRecords combines cached and freshly queried records so that each job appears once. A
// fresh record replaces a cached one with the same ID; otherwise the first occurrence wins. The
// second result counts the cached records that survived.
func mergeRecords(cached, fresh []jobrec.JobRecord) ([]jobrec.JobRecord, int) {
	seen := make(map[string]bool, len(cached)+len(fresh))
	merged := make([]jobrec.JobRecord, 0, len(cached)+len(fresh))
	for _, r := range fresh {
		if seen[r.JobID] {
			continue
		}
		seen[r.JobID] = true
		merged = append(merged, r)
	}

	kept := 0
	for _, r := range cached {
		if seen[r.JobID] {
			continue
		}
		seen[r.JobID] = true
		merged = append(merged, r)
		kept++
	}
	return merged, kept
}

// orderRecords sorts records by the position of their job in ids. Records matching no requested
// identifier keep their relative order after all matched ones.
func orderRecords(ids []string, records []jobrec.JobRecord) []jobrec.JobRecord {
	rank := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, ok := rank[id]; !ok {
			rank[id] = i
		}
	}
	position := func(r jobrec.JobRecord) int {
		if i, ok := rank[r.JobID]; ok {
			return i
		}
		if i, ok := rank[baseJobID(r.JobID)]; ok {
			return i
		}
		return len(ids)
	}

	ordered := make([]jobrec.JobRecord, len(records))
	copy(ordered, records)
	slices.SortStableFunc(ordered, func(a, b jobrec.JobRecord) int {
		return cmp.Compare(position(a), position(b))
	})
	return ordered
}
