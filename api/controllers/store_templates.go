package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kunkunyu/mailtemplate/api/responses"
	"github.com/kunkunyu/mailtemplate/api/validators"
	pkgerrors "github.com/kunkunyu/mailtemplate/pkg/errors"
	"github.com/kunkunyu/mailtemplate/pkg/logger"
	"github.com/kunkunyu/mailtemplate/pkg/pagination"
	"github.com/kunkunyu/mailtemplate/pkg/storeapi"
	"github.com/kunkunyu/mailtemplate/pkg/types"
)

const maxQueryLen = 128

// StoreTemplates is the store client surface the console proxy needs.
type StoreTemplates interface {
	ListMailTemplates(ctx context.Context, params storeapi.ListMailTemplatesParams) (*types.ListedMailTemplateList, error)
	GetMailTemplate(ctx context.Context, name string) (*types.ListedMailTemplate, error)
	ListMailTemplateGroups(ctx context.Context) (*types.MailTemplateGroupList, error)
}

func StoreListMailTemplates(store StoreTemplates, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parseListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := store.ListMailTemplates(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, storeError(err, "list store mail templates"))
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func StoreGetMailTemplate(store StoreTemplates, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(chi.URLParam(r, "name"))
		if name == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "template name is required"))
			return
		}

		item, err := store.GetMailTemplate(r.Context(), name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, storeError(err, "get store mail template"))
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func StoreListMailTemplateGroups(store StoreTemplates, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListMailTemplateGroups(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, storeError(err, "list store mail template groups"))
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func parseListParams(r *http.Request) (storeapi.ListMailTemplatesParams, error) {
	page, err := validators.ParseQueryInt(r, "page", 0, 0, 1_000_000)
	if err != nil {
		return storeapi.ListMailTemplatesParams{}, err
	}
	size, err := validators.ParseQueryInt(r, "size", pagination.DefaultSize, 1, pagination.MaxSize)
	if err != nil {
		return storeapi.ListMailTemplatesParams{}, err
	}
	approved, err := validators.ParseQueryBool(r, "approved")
	if err != nil {
		return storeapi.ListMailTemplatesParams{}, err
	}
	return storeapi.ListMailTemplatesParams{
		Page:       page,
		Size:       size,
		Keyword:    validators.SanitizeString(r.URL.Query().Get("keyword"), maxQueryLen),
		GroupNames: validators.ParseQueryStrings(r, "groupName", maxQueryLen),
		Sort:       validators.ParseQueryStrings(r, "sort", maxQueryLen),
		Approved:   approved,
	}, nil
}

// storeError maps store failures onto API codes. The caller has already been
// toasted by the store client, so this only shapes the HTTP reply.
func storeError(err error, op string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	if respErr, ok := storeapi.AsResponseError(err); ok {
		msg := op
		if m := respErr.Problem.DisplayMessage(); m != "" {
			msg = m
		}
		if respErr.StatusCode == http.StatusNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, msg)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg).WithDetails(map[string]any{
			"upstreamStatus": respErr.StatusCode,
			"message":        msg,
		})
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
