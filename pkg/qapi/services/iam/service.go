package iam

import (
	"context"

	"github.com/quatton/qjob/pkg/qapi/schemas"
)

// IAMService authenticates API callers. With an empty secret every caller is anonymous and
// allowed.
type IAMService struct {
	secret []byte
}

func NewIAMService(secret []byte) *IAMService {
	return &IAMService{secret: secret}
}

// Required reports whether routes must reject anonymous callers.
func (s *IAMService) Required() bool {
	return s != nil && len(s.secret) > 0
}

type ctxKey string

const principalKey ctxKey = "qjob.principal"

func (s *IAMService) Principal(ctx context.Context) (*schemas.Principal, bool) {
	if v := ctx.Value(principalKey); v != nil {
		if p, ok := v.(*schemas.Principal); ok {
			return p, true
		}
	}
	return nil, false
}

func (s *IAMService) Get(ctx context.Context) (*schemas.Principal, error) {
	if p, ok := s.Principal(ctx); ok && p != nil {
		return p, nil
	}
	return nil, nil
}
