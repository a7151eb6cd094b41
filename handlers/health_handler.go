package handlers

import (
	"context"
	"net/http"
	"time"

	"quranstudy/apperror"
	"quranstudy/response"

	"github.com/gin-gonic/gin"
)

// Pinger is anything whose liveness /health reports, e.g. the database or redis.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{}
	for name, check := range h.checks {
		if err := check.PingContext(ctx); err != nil {
			response.Error(c, apperror.New(http.StatusServiceUnavailable, name+" unavailable", err))
			return
		}
		status[name] = "ok"
	}
	status["status"] = "ok"
	response.OK(c, "Service healthy", status)
}
