package controllers

import (
	"context"
	"net/http"

	"github.com/kunkunyu/mailtemplate/api/responses"
	"github.com/kunkunyu/mailtemplate/pkg/config"
	pkgerrors "github.com/kunkunyu/mailtemplate/pkg/errors"
	"github.com/kunkunyu/mailtemplate/pkg/logger"
)

const envHeader = "X-MailTemplate-Env"

// Pinger is satisfied by the db and redis clients.
type Pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings each dependency and fails with DEPENDENCY_ERROR naming the first one down.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP Pinger, redisP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		checks := []struct {
			name   string
			pinger Pinger
		}{
			{name: "database", pinger: dbP},
			{name: "redis", pinger: redisP},
		}
		for _, check := range checks {
			if check.pinger == nil {
				continue
			}
			if err := check.pinger.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, check.name+" unavailable").
						WithDetails(map[string]string{"dependency": check.name}))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
