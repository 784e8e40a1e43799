package api

import (
	"net/http"

	"go.uber.org/zap"
)

// HealthHandler returns 200 if service is healthy.
func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// ReadyHandler returns 200 once the store answers and every stored
// (event kind, revision) has a decoder in this process.
func (a *API) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := a.backend.Ping(ctx); err != nil {
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "db unavailable"})
		return
	}

	keys, err := a.backend.DistinctEventKinds(ctx)
	if err != nil {
		a.log.Warn("readiness: list stored event kinds", zap.Error(err))
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "db unavailable"})
		return
	}
	if missing := a.registry.Missing(keys); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, k := range missing {
			names[i] = k.String()
		}
		a.log.Error("readiness: stored event kinds without decoder", zap.Strings("missing", names))
		WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "registry drift",
			"missing": names,
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
