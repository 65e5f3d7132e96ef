package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kunkunyu/mailtemplate/api/middleware"
	"github.com/kunkunyu/mailtemplate/api/responses"
	"github.com/kunkunyu/mailtemplate/api/validators"
	"github.com/kunkunyu/mailtemplate/internal/verification"
	pkgerrors "github.com/kunkunyu/mailtemplate/pkg/errors"
	"github.com/kunkunyu/mailtemplate/pkg/logger"
)

type verifySendParams struct {
	ReasonTypeName string `json:"reasonTypeName" validate:"required,resourcename"`
}

type verifySendResult struct {
	ReasonType string `json:"reasonType"`
	Sent       bool   `json:"sent"`
}

// VerifySend sends a sample notification of the path's reason type to the caller.
func VerifySend(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "verification service unavailable"))
			return
		}

		username := middleware.UsernameFromContext(r.Context())
		if username == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context"))
			return
		}

		params := verifySendParams{ReasonTypeName: strings.TrimSpace(chi.URLParam(r, "reasonTypeName"))}
		if err := validators.ValidateStruct(params); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.VerifySend(r.Context(), username, params.ReasonTypeName); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, verifySendResult{ReasonType: params.ReasonTypeName, Sent: true})
	}
}
