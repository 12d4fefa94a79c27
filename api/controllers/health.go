package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/villageessence/marketplace-backend/api/responses"
	"github.com/villageessence/marketplace-backend/pkg/config"
	pkgerrors "github.com/villageessence/marketplace-backend/pkg/errors"
	"github.com/villageessence/marketplace-backend/pkg/logger"
)

const readyCheckTimeout = 5 * time.Second

// ReadyDep is a dependency that can report liveness.
type ReadyDep interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Marketplace-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings each wired dependency. A nil ReadyDep is skipped so
// degraded deployments (no GCS locally, for instance) still report ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]ReadyDep) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Marketplace-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		statuses := make(map[string]string, len(deps))
		healthy := true
		for name, dep := range deps {
			if dep == nil {
				statuses[name] = "skipped"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				statuses[name] = "unavailable"
				healthy = false
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", name), "readiness check failed", err)
				}
				continue
			}
			statuses[name] = "ok"
		}

		if !healthy {
			responses.WriteError(ctx, nil, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(statuses))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": statuses})
	}
}

// ReadyDeps builds the dependency map for HealthReady. Nil entries are kept
// so the response names every dependency the deployment knows about.
func ReadyDeps(db ReadyDep, redis ReadyDep, gcs ReadyDep) map[string]ReadyDep {
	return map[string]ReadyDep{
		"database": db,
		"redis":    redis,
		"gcs":      gcs,
	}
}
