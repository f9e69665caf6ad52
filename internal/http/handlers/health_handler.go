package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CatsGauge receives the current number of stored pictures.
type CatsGauge interface {
	SetCats(n int64)
}

// Counter is the slice of CatService used by the health probe.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Store  string `json:"store" example:"up"`
	Cats   int64  `json:"cats" example:"42"`
}

// Health serves the liveness probe. It counts the stored pictures, which
// doubles as a store ping, and publishes the number on gauge.
type Health struct {
	cats  Counter
	gauge CatsGauge
}

// NewHealth constructs Health; cats nil means the store is disabled, gauge may be nil.
func NewHealth(cats Counter, gauge CatsGauge) *Health {
	return &Health{cats: cats, gauge: gauge}
}

// Check godoc
// @ID          health
// @Summary     Health probe
// @Tags        Ops
// @Produce     json
// @Success     200  {object}  handlers.HealthResponse
// @Failure     503  {object}  handlers.HealthResponse  "Store unreachable"
// @Router      /health [get]
func (h *Health) Check(c *gin.Context) {
	if h.cats == nil {
		ok(c, http.StatusOK, HealthResponse{Status: "ok", Store: "disabled"})
		return
	}
	n, err := h.cats.Count(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Store: "down"})
		return
	}
	if h.gauge != nil {
		h.gauge.SetCats(n)
	}
	ok(c, http.StatusOK, HealthResponse{Status: "ok", Store: "up", Cats: n})
}
