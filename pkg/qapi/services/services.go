package services

import (
	"context"

	"github.com/quatton/qjob/pkg/jobinfo"
	"github.com/quatton/qjob/pkg/qapi/services/iam"
	"github.com/quatton/qjob/pkg/qart"
)

// JobLookup resolves job identifiers to records.
type JobLookup interface {
	Lookup(ctx context.Context, req jobinfo.Request) (*jobinfo.Result, error)
}

type Services struct {
	IAM  *iam.IAMService
	Jobs JobLookup
	// Reports is nil when archiving is not configured.
	Reports qart.Store
}

func NewServices(secret string, jobs JobLookup, reports qart.Store) *Services {
	return &Services{
		IAM:     iam.NewIAMService([]byte(secret)),
		Jobs:    jobs,
		Reports: reports,
	}
}

func EmptyServices() *Services {
	return &Services{
		IAM:     nil,
		Jobs:    nil,
		Reports: nil,
	}
}
