package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kunkunyu/mailtemplate/api/controllers"
	"github.com/kunkunyu/mailtemplate/api/middleware"
	"github.com/kunkunyu/mailtemplate/internal/plugin"
	"github.com/kunkunyu/mailtemplate/internal/verification"
	"github.com/kunkunyu/mailtemplate/pkg/config"
	"github.com/kunkunyu/mailtemplate/pkg/logger"
)

const (
	mailTemplateAPI = "/apis/api.mail.template.kunkunyu.com/v1alpha1"
	storeConsoleAPI = "/apis/console.store/v1alpha1"
)

// Deps bundles what the router needs; nil pingers are skipped by the readiness probe.
type Deps struct {
	DB           controllers.Pinger
	Redis        controllers.Pinger
	Plugin       *plugin.Lifecycle
	Verification verification.Service
	Store        controllers.StoreTemplates
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/plugin/manifest", controllers.PluginManifest(deps.Plugin, logg))

		r.Route(mailTemplateAPI, func(r chi.Router) {
			r.Post("/mailtemplates/{reasonTypeName}/verify-send", controllers.VerifySend(deps.Verification, logg))
		})

		if deps.Store != nil {
			r.Route(storeConsoleAPI, func(r chi.Router) {
				r.Get("/mailtemplates", controllers.StoreListMailTemplates(deps.Store, logg))
				r.Get("/mailtemplates/{name}", controllers.StoreGetMailTemplate(deps.Store, logg))
				r.Get("/mailtemplategroups", controllers.StoreListMailTemplateGroups(deps.Store, logg))
			})
		}
	})

	return r
}
