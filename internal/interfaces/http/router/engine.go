package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/lenses/backend/internal/infrastructure/logger"
	"github.com/lenses/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// EngineConfig configures the shared middleware chain of the gin engine
type EngineConfig struct {
	Logger         *zap.Logger
	CORS           middleware.CORSConfig
	Tracing        middleware.TracingConfig
	MaxBodySize    int64
	TrustedProxies []string
	// QuietPaths are served without request logs or spans, e.g. health probes
	QuietPaths []string
}

// NewEngine creates a gin engine with the standard middleware chain:
// tracing, request ID, request logging, panic recovery, CORS and body limit.
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	middleware.SetupValidator()

	cfg.Tracing.SkipPaths = append(cfg.Tracing.SkipPaths, cfg.QuietPaths...)
	engine.Use(
		middleware.Tracing(cfg.Tracing),
		middleware.RequestID(),
		logger.GinMiddleware(cfg.Logger, cfg.QuietPaths...),
		logger.Recovery(cfg.Logger),
		middleware.CORS(cfg.CORS),
	)
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}

	return engine, nil
}
