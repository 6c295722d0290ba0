package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quatton/qjob/pkg/backend"
	"github.com/quatton/qjob/pkg/jobinfo"
	"github.com/quatton/qjob/pkg/jobrec"
	"github.com/quatton/qjob/pkg/qapi/schemas"
	"github.com/quatton/qjob/pkg/qapi/services"
	"github.com/quatton/qjob/pkg/qart"
	"github.com/quatton/qjob/pkg/qauth"
	"github.com/quatton/qjob/pkg/qerr"
)

type fakeLookup struct {
	err  error
	last jobinfo.Request
}

func (f *fakeLookup) Lookup(_ context.Context, req jobinfo.Request) (*jobinfo.Result, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &jobinfo.Result{
		ReportID:  uuid.MustParse("0190f3c2-7e4a-7b3c-9d2e-1f0a2b3c4d5e"),
		Scheduler: backend.SchedulerSlurm,
		Backend:   backend.ToolSacct,
		Records:   []jobrec.JobRecord{jobrec.FromValues([]string{"123", "align", "COMPLETED"})},
		CreatedAt: time.Date(2024, 8, 5, 9, 0, 0, 0, time.UTC),
	}, nil
}

type fakeReports struct {
	objects map[string]string
}

func (f fakeReports) Upload(context.Context, string, io.Reader, string, map[string]string) (*qart.Artifact, error) {
	return nil, nil
}

func (f fakeReports) Download(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, qart.ErrNotFound
	}
	return io.NopCloser(strings.NewReader(data)), nil
}

func (f fakeReports) GetPresignedURL(context.Context, string, time.Duration) (string, error) {
	return "", nil
}

func (f fakeReports) EnsureBucket(context.Context) error { return nil }

func newTestAPI(t *testing.T, secret string, lookup services.JobLookup) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	svcs := services.NewServices(secret, lookup, fakeReports{objects: map[string]string{
		qart.ReportKey("0190f3c2-7e4a-7b3c-9d2e-1f0a2b3c4d5e", qart.ReportFilename): "JobID\n123\n",
	}})
	api.UseMiddleware(svcs.IAM.Middleware())
	RegisterAPI(api, svcs)
	return api
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t, "", &fakeLookup{})
	resp := api.Get("/api/health")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"slurm"`)
}

func TestLookupJobs(t *testing.T) {
	lookup := &fakeLookup{}
	api := newTestAPI(t, "", lookup)

	resp := api.Get("/api/schedulers/slurm/jobs?ids=123,999")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body schemas.JobsResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "0190f3c2-7e4a-7b3c-9d2e-1f0a2b3c4d5e", body.ReportID)
	assert.Equal(t, backend.ToolSacct, body.Backend)
	assert.Equal(t, jobrec.Columns(), body.Columns)
	require.Len(t, body.Jobs, 1)
	assert.Equal(t, "123", body.Jobs[0].JobID)
	assert.Equal(t, jobrec.Sentinel, body.Jobs[0].WorkDir)

	assert.Equal(t, "slurm", lookup.last.Scheduler)
	assert.Equal(t, []string{"123,999"}, lookup.last.JobIDs)
}

func TestLookupJobs_ErrorStatus(t *testing.T) {
	tests := []struct {
		code qerr.Code
		want int
	}{
		{qerr.CodeUnsupportedScheduler, http.StatusBadRequest},
		{qerr.CodeInvalidInput, http.StatusBadRequest},
		{qerr.CodeNoBackend, http.StatusServiceUnavailable},
		{qerr.CodeQueryFailed, http.StatusBadGateway},
		{qerr.CodeVersionParse, http.StatusBadGateway},
		{qerr.CodeConfig, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			api := newTestAPI(t, "", &fakeLookup{err: qerr.Errorf(tt.code, "boom")})
			resp := api.Get("/api/schedulers/slurm/jobs?ids=1")
			assert.Equal(t, tt.want, resp.Code)
		})
	}
}

func TestAuth(t *testing.T) {
	secret := strings.Repeat("k", 32)
	api := newTestAPI(t, secret, &fakeLookup{})

	resp := api.Get("/api/schedulers/slurm/jobs?ids=1")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = api.Get("/api/schedulers/slurm/jobs?ids=1", "Authorization: Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	token, err := qauth.IssueToken([]byte(secret), "ci", time.Hour, time.Now())
	require.NoError(t, err)

	resp = api.Get("/api/schedulers/slurm/jobs?ids=1", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = api.Get("/api/me", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"subject":"ci"`)

	// health stays public
	assert.Equal(t, http.StatusOK, api.Get("/api/health").Code)
}

func TestGetReport(t *testing.T) {
	api := newTestAPI(t, "", &fakeLookup{})

	resp := api.Get("/api/reports/0190f3c2-7e4a-7b3c-9d2e-1f0a2b3c4d5e")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "text/tab-separated-values", resp.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(resp.Body.Bytes(), []byte("JobID\n")))

	assert.Equal(t, http.StatusNotFound, api.Get("/api/reports/"+uuid.NewString()).Code)
	assert.Equal(t, http.StatusBadRequest, api.Get("/api/reports/not-a-uuid").Code)
}
