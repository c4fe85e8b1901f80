package internal

import (
	"context"
	"net/http"
	"time"

	"github.com/2beens/fitassess/pkg"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

type HealthHandler struct {
	redis       pinger
	versionInfo string
	startedAt   time.Time
}

type healthResponse struct {
	Status  string `json:"status"`
	Redis   string `json:"redis"`
	Version string `json:"version,omitempty"`
	Uptime  string `json:"uptime"`
}

func NewHealthHandler(redis pinger, versionInfo string) *HealthHandler {
	return &HealthHandler{
		redis:       redis,
		versionInfo: versionInfo,
		startedAt:   time.Now(),
	}
}

func (handler *HealthHandler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/health", handler.HandleHealth).Methods("GET").Name("health")
}

// HandleHealth reports the service as alive even when redis is down; only
// rate limiting depends on it. The redis status is part of the response.
func (handler *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:  "ok",
		Redis:   "ok",
		Version: handler.versionInfo,
		Uptime:  time.Since(handler.startedAt).Round(time.Second).String(),
	}
	if err := handler.redis.Ping(ctx).Err(); err != nil {
		log.Warnf("health: redis ping: %s", err)
		resp.Status = "degraded"
		resp.Redis = err.Error()
	}

	pkg.WriteJSON(w, resp, http.StatusOK)
}
