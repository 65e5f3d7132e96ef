package controllers

import (
	"net/http"

	"github.com/kunkunyu/mailtemplate/api/middleware"
	"github.com/kunkunyu/mailtemplate/api/responses"
	"github.com/kunkunyu/mailtemplate/internal/plugin"
	pkgerrors "github.com/kunkunyu/mailtemplate/pkg/errors"
	"github.com/kunkunyu/mailtemplate/pkg/logger"
)

// PluginManifest serves the plugin definition with routes filtered to the caller's permissions.
func PluginManifest(lifecycle *plugin.Lifecycle, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if lifecycle == nil || !lifecycle.Running() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "plugin not started"))
			return
		}
		granted := middleware.PermissionsFromContext(r.Context())
		responses.WriteSuccess(w, lifecycle.Definition().VisibleTo(granted))
	}
}
