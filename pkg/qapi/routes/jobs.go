package routes

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/quatton/qjob/pkg/jobinfo"
	"github.com/quatton/qjob/pkg/jobrec"
	"github.com/quatton/qjob/pkg/qapi/schemas"
	"github.com/quatton/qjob/pkg/qapi/services"
	"github.com/quatton/qjob/pkg/qapi/services/iam"
	"github.com/quatton/qjob/pkg/qerr"
)

type LookupJobsInput struct {
	Scheduler string `path:"scheduler" example:"slurm" doc:"Scheduler family"`
	IDs       string `query:"ids" required:"true" example:"123,456" doc:"Comma-separated job identifiers"`
}

type LookupJobsOutput struct {
	Body schemas.JobsResponse
}

func RegisterJobs(api huma.API, jobs services.JobLookup, iamSvc *iam.IAMService) {
	huma.Register(api, huma.Operation{
		OperationID: "lookup-jobs",
		Method:      http.MethodGet,
		Path:        "/api/schedulers/{scheduler}/jobs",
		Summary:     "Look up jobs",
		Description: "Query the best available accounting tool for the given jobs",
		Tags:        []string{TagJobs.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *LookupJobsInput) (*LookupJobsOutput, error) {
		if err := authorize(ctx, iamSvc); err != nil {
			return nil, err
		}

		result, err := jobs.Lookup(ctx, jobinfo.Request{
			Scheduler: input.Scheduler,
			JobIDs:    []string{input.IDs},
			Threads:   1,
		})
		if err != nil {
			return nil, toHTTPError(err)
		}

		records := result.Records
		if records == nil {
			records = []jobrec.JobRecord{}
		}
		return &LookupJobsOutput{Body: schemas.JobsResponse{
			ReportID:  result.ReportID.String(),
			Scheduler: string(result.Scheduler),
			Backend:   result.Backend,
			Columns:   jobrec.Columns(),
			Jobs:      records,
			Cached:    result.Cached,
			CreatedAt: result.CreatedAt,
		}}, nil
	})
}

// toHTTPError maps lookup failures onto status codes: caller mistakes are 4xx, a host without
// any backend tool is 503 and a failing tool is 502.
func toHTTPError(err error) error {
	switch qerr.CodeOf(err) {
	case qerr.CodeUnsupportedScheduler, qerr.CodeInvalidInput:
		return huma.Error400BadRequest(err.Error())
	case qerr.CodeNoBackend:
		return huma.Error503ServiceUnavailable(err.Error())
	case qerr.CodeQueryFailed, qerr.CodeVersionParse:
		return huma.Error502BadGateway(err.Error())
	default:
		return huma.Error500InternalServerError(err.Error())
	}
}
