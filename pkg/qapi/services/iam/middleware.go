package iam

import (
	"log/slog"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/quatton/qjob/pkg/qapi/schemas"
	"github.com/quatton/qjob/pkg/qauth"
)

func (s *IAMService) Middleware() func(ctx huma.Context, next func(huma.Context)) {
	logger := slog.Default()

	return func(ctx huma.Context, next func(huma.Context)) {
		if !s.Required() {
			next(ctx)
			return
		}

		authHeader := ctx.Header("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				if claims, err := qauth.ValidateToken(s.secret, parts[1]); err == nil {
					logger.Debug("authenticated caller", "subject", claims.Subject)
					ctx = huma.WithValue(ctx, principalKey, &schemas.Principal{
						Subject:   claims.Subject,
						ExpiresAt: claims.ExpiresAt,
					})
				} else {
					logger.Warn("invalid token", "error", err)
				}
			}
		}

		next(ctx)
	}
}
