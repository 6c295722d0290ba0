package backend

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quatton/qjob/pkg/jobrec"
	"github.com/quatton/qjob/pkg/qerr"
)

// sacctLine builds a --parsable2 line from values keyed by field position.
func sacctLine(values map[int]string) string {
	fields := make([]string, sacctNumFields)
	for i, v := range values {
		fields[i] = v
	}
	return strings.Join(fields, "|")
}

func primaryLine(id, state, name string) string {
	return sacctLine(map[int]string{
		sacctJobID:     id,
		sacctState:     state,
		sacctPartition: "norm",
		sacctReqTRES:   "billing=8,cpu=8,mem=64G,node=1",
		sacctNCPUS:     "8",
		sacctReqMem:    "64G",
		sacctTimelimit: "02:00:00",
		sacctSubmit:    "2024-08-05T09:01:07",
		sacctQueued:    "00:00:01",
		sacctStart:     "2024-08-05T09:01:08",
		sacctEnd:       "2024-08-05T09:01:39",
		sacctElapsed:   "00:00:31",
		sacctNodeList:  "cn0001",
		sacctUser:      "alice",
		sacctWorkDir:   "/data/alice",
		sacctJobName:   name,
	})
}

func stepLine(id, maxRSS string) string {
	return sacctLine(map[int]string{
		sacctJobID:    id,
		sacctState:    "COMPLETED",
		sacctNCPUS:    "8",
		sacctMaxRSS:   maxRSS,
		sacctNodeList: "cn0001",
		sacctJobName:  "batch",
	})
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in   string
		want Version
	}{
		{"slurm 23.02.7\n", Version{23, 2, 7}},
		{"slurm-wlm 21.08.5", Version{21, 8, 5}},
		{"slurm 24.05.0-0rc1", Version{24, 5, 0}},
	}
	for _, tt := range tests {
		got, err := ParseVersion(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "slurm", "slurm 23.02", "version x.y.z"} {
		_, err := ParseVersion(bad)
		require.Error(t, err, bad)
		assert.True(t, qerr.IsCode(err, qerr.CodeVersionParse), "expected version_parse for %q, got %v", bad, err)
	}
}

func TestSacctFields_VersionNegotiation(t *testing.T) {
	old := SacctFields(Version{23, 11, 10})
	assert.Equal(t, "Reserved", old[sacctQueued])
	assert.NotContains(t, old, "Planned")

	current := SacctFields(Version{24, 5, 0})
	assert.Equal(t, "Planned", current[sacctQueued])
	assert.NotContains(t, current, "Reserved")

	assert.Len(t, current, sacctNumFields)
	assert.Equal(t, "JobName", current[len(current)-1])
}

func TestSacct_Query(t *testing.T) {
	output := strings.Join([]string{
		primaryLine("123", "COMPLETED", "align"),
		stepLine("123.batch", "512000K"),
		stepLine("123.extern", "0"),
		primaryLine("456", "CANCELLED by 0", "peak|calling"),
		stepLine("456.batch", "garbage"),
		primaryLine("789", "RUNNING", "still-going"),
		"",
	}, "\n")

	ids := []string{"123", "456", "789", "999"}
	s := NewSacct(nil)
	v := Version{23, 2, 7}
	exec := newFakeExec(ToolSacct).
		on("slurm 23.02.7\n", ToolSacct, "--version").
		on(output, append([]string{ToolSacct}, s.Args(v, ids)...)...)
	s.exec = exec

	records, err := s.Query(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, records, 3)

	byID := map[string]jobrec.JobRecord{}
	for _, r := range records {
		byID[r.JobID] = r
	}

	assert.Equal(t, "500MiB", byID["123"].PeakMem)
	assert.Equal(t, jobrec.StateCompleted, byID["123"].State)
	assert.Equal(t, "align", byID["123"].JobName)
	assert.Equal(t, "8", byID["123"].NCPUs)
	assert.Equal(t, "64G", byID["123"].ReqMem)
	assert.Equal(t, "00:00:01", byID["123"].Queued)

	assert.Equal(t, jobrec.StateCancelled, byID["456"].State)
	assert.Equal(t, "peak|calling", byID["456"].JobName)
	assert.Equal(t, jobrec.Sentinel, byID["456"].PeakMem, "unparsable MaxRSS degrades to the sentinel")

	assert.Equal(t, jobrec.Sentinel, byID["789"].PeakMem, "no .batch line means no peak memory")

	for _, r := range records {
		assert.Equal(t, jobrec.Sentinel, r.StdOut)
		assert.Equal(t, jobrec.Sentinel, r.StdErr)
		assert.Len(t, r.Values(), jobrec.NumColumns)
	}

	require.Len(t, exec.calls, 2)
	assert.Equal(t, []string{ToolSacct, "--version"}, exec.calls[0])
	assert.Contains(t, exec.calls[1], "--jobs=123,456,789,999")
}

func TestSacct_QueryUsesPlannedOnNewReleases(t *testing.T) {
	ids := []string{"1"}
	s := NewSacct(nil)
	v := Version{24, 11, 1}
	exec := newFakeExec(ToolSacct).
		on("slurm 24.11.1\n", ToolSacct, "--version").
		on(primaryLine("1", "COMPLETED", "x")+"\n", append([]string{ToolSacct}, s.Args(v, ids)...)...)
	s.exec = exec

	records, err := s.Query(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Contains(t, exec.calls[1][2], ",Planned,")
}

func TestSacct_VersionFailureIsFatal(t *testing.T) {
	exec := newFakeExec(ToolSacct).on("unknown build\n", ToolSacct, "--version")

	_, err := NewSacct(exec).Query(context.Background(), []string{"1"})
	require.Error(t, err)
	assert.True(t, qerr.IsCode(err, qerr.CodeVersionParse))
	assert.Len(t, exec.calls, 1, "no query may run without a known field schema")
}

func TestSacct_QueryError(t *testing.T) {
	ids := []string{"abc"}
	s := NewSacct(nil)
	v := Version{23, 2, 7}
	exec := newFakeExec(ToolSacct).
		on("slurm 23.02.7\n", ToolSacct, "--version").
		fail(1, "sacct: error: Invalid job id specified\n", append([]string{ToolSacct}, s.Args(v, ids)...)...)
	s.exec = exec

	_, err := s.Query(context.Background(), ids)
	require.Error(t, err)
	assert.True(t, qerr.IsCode(err, qerr.CodeQueryFailed))

	var qe *QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, 1, qe.ExitCode)
	assert.Contains(t, qe.Stderr, "Invalid job id")
	assert.Contains(t, err.Error(), "Invalid job id")
}

func TestParseSacct_ShortAndEmptyLines(t *testing.T) {
	records := parseSacct("42|FAILED|norm\n\n   \n")
	require.Len(t, records, 1)
	assert.Equal(t, jobrec.StateFailed, records[0].State)
	assert.Equal(t, jobrec.Sentinel, records[0].JobName)
	assert.Equal(t, jobrec.Sentinel, records[0].WorkDir)
	assert.Len(t, records[0].Values(), jobrec.NumColumns)
}

func TestParseSacct_ArrayTasks(t *testing.T) {
	output := strings.Join([]string{
		primaryLine("100_1", "COMPLETED", "arr"),
		stepLine("100_1.batch", "1G"),
		primaryLine("100_2", "COMPLETED", "arr"),
	}, "\n")

	records := parseSacct(output)
	require.Len(t, records, 2)
	assert.Equal(t, "100_1", records[0].JobID)
	assert.Equal(t, "1GiB", records[0].PeakMem)
	assert.Equal(t, jobrec.Sentinel, records[1].PeakMem)
}
