package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kunkunyu/mailtemplate/api/responses"
	"github.com/kunkunyu/mailtemplate/pkg/logger"
)

const (
	requestIDHeader    = responses.RequestIDHeader
	maxRequestIDLength = 128
)

// RequestID propagates the caller's request id, or mints one, and echoes it back.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if reqID == "" || len(reqID) > maxRequestIDLength {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			next.ServeHTTP(w, r.WithContext(logg.WithRequestID(r.Context(), reqID)))
		})
	}
}
