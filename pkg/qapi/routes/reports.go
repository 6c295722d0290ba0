package routes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/quatton/qjob/pkg/qapi/services/iam"
	"github.com/quatton/qjob/pkg/qart"
)

type GetReportInput struct {
	ReportID string `path:"reportId" doc:"Report identifier"`
}

type GetReportOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// RegisterReports serves archived reports as TSV.
func RegisterReports(api huma.API, store qart.Store, iamSvc *iam.IAMService) {
	huma.Register(api, huma.Operation{
		OperationID: "get-report",
		Method:      http.MethodGet,
		Path:        "/api/reports/{reportId}",
		Summary:     "Download an archived report",
		Tags:        []string{TagReports.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *GetReportInput) (*GetReportOutput, error) {
		if err := authorize(ctx, iamSvc); err != nil {
			return nil, err
		}
		if _, err := uuid.Parse(input.ReportID); err != nil {
			return nil, huma.Error400BadRequest("report ID must be a UUID")
		}

		rc, err := store.Download(ctx, qart.ReportKey(input.ReportID, qart.ReportFilename))
		if errors.Is(err, qart.ErrNotFound) {
			return nil, huma.Error404NotFound(fmt.Sprintf("report %s not found", input.ReportID))
		}
		if err != nil {
			return nil, huma.Error502BadGateway(fmt.Sprintf("reading report: %v", err))
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, huma.Error502BadGateway(fmt.Sprintf("reading report: %v", err))
		}
		return &GetReportOutput{ContentType: "text/tab-separated-values", Body: data}, nil
	})
}
