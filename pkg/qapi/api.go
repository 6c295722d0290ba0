// Package qapi serves job lookups over HTTP.
package qapi

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quatton/qjob/pkg/qapi/routes"
	"github.com/quatton/qjob/pkg/qapi/services"
)

type Api struct {
	Api    huma.API
	Router *chi.Mux
}

// Version is reported in the OpenAPI document.
var Version = "dev"

func NewApi(svcs *services.Services) *Api {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	config := huma.DefaultConfig("qjob API", Version)

	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
			Description:  "HS256 token minted with `qjob token`",
		},
	}

	api := humachi.New(router, config)
	if svcs != nil && svcs.IAM != nil {
		api.UseMiddleware(svcs.IAM.Middleware())
	}
	routes.RegisterAPI(api, svcs)

	return &Api{Api: api, Router: router}
}
