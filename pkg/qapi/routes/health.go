package routes

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/quatton/qjob/pkg/backend"
)

type HealthOutput struct {
	Body struct {
		Status     string   `json:"status" example:"ok" doc:"Health status"`
		Schedulers []string `json:"schedulers" doc:"Supported schedulers"`
	}
}

func RegisterHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health check",
		Tags:        []string{TagHealth.String()},
	}, func(ctx context.Context, input *struct{}) (*HealthOutput, error) {
		resp := &HealthOutput{}
		resp.Body.Status = "ok"
		resp.Body.Schedulers = backend.Schedulers()
		return resp, nil
	})
}
