package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lenses/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Renderer string `json:"renderer"`
}

// HealthHandler serves the liveness probe
type HealthHandler struct {
	db          Pinger
	pdfEnabled  bool
	pingTimeout time.Duration
}

// NewHealthHandler creates a HealthHandler. db may be nil when the service
// runs without artifact storage.
func NewHealthHandler(db Pinger, pdfEnabled bool) *HealthHandler {
	return &HealthHandler{db: db, pdfEnabled: pdfEnabled, pingTimeout: 2 * time.Second}
}

// Register mounts GET /health on r
func (h *HealthHandler) Register(r gin.IRoutes) {
	r.GET("/health", h.Health)
}

// Health godoc
//
//	@Summary	Liveness probe
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Failure	503	{object}	HealthResponse
//	@Router		/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "healthy", Database: "disabled", Renderer: "disabled"}
	if h.pdfEnabled {
		resp.Renderer = "enabled"
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.pingTimeout)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			logger.L(c.Request.Context()).Warn("health check: database unreachable", zap.Error(err))
			resp.Status = "unhealthy"
			resp.Database = "down"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
		resp.Database = "up"
	}

	c.JSON(http.StatusOK, resp)
}
