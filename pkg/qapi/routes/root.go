package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/quatton/qjob/pkg/qapi/services"
)

func RegisterAPI(api huma.API, svcs *services.Services) {
	RegisterHealth(api)
	if svcs == nil {
		return
	}
	RegisterIAM(api, svcs.IAM)
	if svcs.Jobs != nil {
		RegisterJobs(api, svcs.Jobs, svcs.IAM)
	}
	if svcs.Reports != nil {
		RegisterReports(api, svcs.Reports, svcs.IAM)
	}
}
