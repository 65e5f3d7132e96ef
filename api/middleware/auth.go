package middleware

import (
	"net/http"
	"strings"

	"github.com/kunkunyu/mailtemplate/api/responses"
	pkgAuth "github.com/kunkunyu/mailtemplate/pkg/auth"
	"github.com/kunkunyu/mailtemplate/pkg/config"
	pkgerrors "github.com/kunkunyu/mailtemplate/pkg/errors"
	"github.com/kunkunyu/mailtemplate/pkg/logger"
)

// Auth validates a console bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseConsoleToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithUsername(r.Context(), claims.Username)
			ctx = WithPermissions(ctx, claims.Permissions)
			if logg != nil {
				ctx = logg.WithUsername(ctx, claims.Username)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
