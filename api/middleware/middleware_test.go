package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pkgAuth "github.com/kunkunyu/mailtemplate/pkg/auth"
	"github.com/kunkunyu/mailtemplate/pkg/config"
	"github.com/kunkunyu/mailtemplate/pkg/logger"
	"github.com/kunkunyu/mailtemplate/pkg/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "halo-console", ExpirationMinutes: 10}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler := Auth(testJWT, nil)(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	var body types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
	assert.Equal(t, "missing credentials", body.Error.Message)
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	handler := Auth(testJWT, nil)(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthAllowsValidToken(t *testing.T) {
	token, err := pkgAuth.MintConsoleToken(testJWT, time.Now(), pkgAuth.ConsolePayload{
		Username:    "admin",
		Permissions: []string{"plugin:mail-template:view"},
	})
	require.NoError(t, err)

	var gotUser string
	var gotPerms []string
	handler := Auth(testJWT, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UsernameFromContext(r.Context())
		gotPerms = PermissionsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "admin", gotUser)
	assert.Equal(t, []string{"plugin:mail-template:view"}, gotPerms)
}

func TestRequestIDPropagatesOrMints(t *testing.T) {
	handler := RequestID(nil)(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	assert.Equal(t, "abc-123", resp.Header().Get("X-Request-Id"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", strings.Repeat("x", 200))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	minted := resp.Header().Get("X-Request-Id")
	assert.NotEmpty(t, minted)
	assert.Len(t, minted, 36)
}

func TestRecovererWritesInternalError(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: &buf})
	handler := Recoverer(logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, resp.Code)
	var body types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.Contains(t, buf.String(), "kaboom")
}

func TestLoggingRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: &buf})
	handler := Logging(logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = io.WriteString(w, "short")
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tea", nil))

	out := buf.String()
	assert.Contains(t, out, "request.complete")
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"bytes":5`)
	assert.Contains(t, out, `"path":"/tea"`)
}
