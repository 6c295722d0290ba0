package routes

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/quatton/qjob/pkg/qapi/schemas"
	"github.com/quatton/qjob/pkg/qapi/services/iam"
)

func RegisterIAM(api huma.API, svc *iam.IAMService) {
	huma.Register(api, huma.Operation{
		OperationID: "get-me",
		Method:      http.MethodGet,
		Path:        "/api/me",
		Summary:     "Get current caller",
		Description: "Returns the subject of the bearer token",
		Tags:        []string{TagIam.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *struct{}) (*schemas.MeResponse, error) {
		p, _ := svc.Get(ctx)
		if p == nil {
			return nil, huma.Error401Unauthorized("Authentication required")
		}
		resp := &schemas.MeResponse{}
		resp.Body.Principal = *p
		return resp, nil
	})
}

// authorize rejects anonymous callers when the server has a token secret.
func authorize(ctx context.Context, svc *iam.IAMService) error {
	if !svc.Required() {
		return nil
	}
	if p, _ := svc.Get(ctx); p == nil {
		return huma.Error401Unauthorized("Authentication required")
	}
	return nil
}
