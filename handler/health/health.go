package health

import (
	"encoding/json"
	"net/http"

	"github.com/mager/cochlea/jobstore"
	"go.uber.org/zap"
)

// HealthHandler is an http.Handler reporting process liveness.
type HealthHandler struct {
	log   *zap.SugaredLogger
	store jobstore.Store
}

func (*HealthHandler) Pattern() string {
	return "/health"
}

// NewHealthHandler builds a new HealthHandler.
func NewHealthHandler(log *zap.SugaredLogger, store jobstore.Store) *HealthHandler {
	return &HealthHandler{
		log:   log,
		store: store,
	}
}

type Response struct {
	Server bool `json:"server"`
	Store  bool `json:"store"`
}

// ServeHTTP handles an HTTP request to the /health endpoint.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var resp Response

	h.log.Info("health check")

	resp.Server = true
	resp.Store = h.store != nil

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
