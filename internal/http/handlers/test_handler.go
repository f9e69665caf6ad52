// Synthetic-traffic HTTP handlers.
//
// These endpoints exist to drive the Prometheus alerting rules during demos
// and load tests:
//   - POST /api/test/dbload    (parallel saves of synthetic URLs)
//   - GET  /api/test/latency   (slow response)
//   - GET  /api/test/error     (500)
//   - GET  /api/test500        (500)
//   - GET  /api/test500x20     (500 streamed as 20 JSON lines)
//   - POST /api/test/alerts    (start the alerts load suite in the background)
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/tbourn/go-cat-service/internal/http/middleware"
	"github.com/tbourn/go-cat-service/internal/loadgen"
	"github.com/tbourn/go-cat-service/internal/utils"
)

// Bounds for the synthetic endpoints.
const (
	DefaultDBLoadCount = 200
	MaxDBLoadCount     = 10000
	DefaultLatencyMS   = 600
	MaxLatencyMS       = 30000

	dbloadParallelism = 32
	streamLines       = 20
)

// AlertLauncher starts a named load suite in the background.
// It returns loadgen.ErrBusy while a previous run is still going.
type AlertLauncher interface {
	Start(suite string) error
}

// TestHandlers groups the synthetic-traffic endpoints.
type TestHandlers struct {
	cats   CatService
	alerts AlertLauncher

	// streamInterval spaces the lines written by Test500x20.
	streamInterval time.Duration
}

// NewTestHandlers constructs TestHandlers. cats may be nil when the store is
// disabled (dbload then answers 503); alerts may be nil to disable the
// launcher endpoint.
func NewTestHandlers(cats CatService, alerts AlertLauncher) *TestHandlers {
	return &TestHandlers{cats: cats, alerts: alerts, streamInterval: 30 * time.Millisecond}
}

// DBLoadResponse reports a dbload run.
type DBLoadResponse struct {
	Success    bool  `json:"success" example:"true"`
	Operations int   `json:"operations" example:"200"`
	LastID     int64 `json:"lastId" example:"1234"`
}

// LatencyResponse reports the applied delay in milliseconds.
type LatencyResponse struct {
	Success bool `json:"success" example:"true"`
	Latency int  `json:"latency" example:"600"`
}

// AlertsResponse acknowledges a background suite start.
type AlertsResponse struct {
	Started bool   `json:"started" example:"true"`
	Suite   string `json:"suite" example:"alerts"`
}

// DBLoad godoc
// @ID          testDBLoad
// @Summary     Generate database load
// @Description Saves count synthetic URLs in parallel; each is a fresh insert.
// @Tags        Test
// @Produce     json
// @Param       count  query     int  false  "Number of saves"  minimum(1)  maximum(10000)  default(200)
// @Success     200    {object}  handlers.DBLoadResponse
// @Failure     400    {object}  handlers.ErrorResponse  "Bad request"
// @Failure     503    {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /api/test/dbload [post]
func (h *TestHandlers) DBLoad(c *gin.Context) {
	if h.cats == nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "cat store disabled")
		return
	}
	count := DefaultDBLoadCount
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxDBLoadCount {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest,
				fmt.Sprintf("count must be an integer in [1,%d]", MaxDBLoadCount))
			return
		}
		count = n
	}

	stamp := time.Now().UnixMilli()
	var (
		mu     sync.Mutex
		lastID int64
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(dbloadParallelism)
	for i := 0; i < count; i++ {
		url := fmt.Sprintf("https://test/cat/%d_%d", stamp, i)
		g.Go(func() error {
			cat, err := h.cats.Save(ctx, url)
			if err != nil {
				return err
			}
			mu.Lock()
			if cat.ID > lastID {
				lastID = cat.ID
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, DBLoadResponse{Success: true, Operations: count, LastID: lastID})
}

// Latency godoc
// @ID          testLatency
// @Summary     Simulate a slow response
// @Tags        Test
// @Produce     json
// @Param       ms   query     int  false  "Delay in milliseconds; zero, negative or invalid means 600"  maximum(30000)  default(600)
// @Success     200  {object}  handlers.LatencyResponse
// @Router      /api/test/latency [get]
func (h *TestHandlers) Latency(c *gin.Context) {
	ms := latencyMS(c.Query("ms"))

	t := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer t.Stop()
	select {
	case <-t.C:
		ok(c, http.StatusOK, LatencyResponse{Success: true, Latency: ms})
	case <-c.Request.Context().Done():
		// Client went away; nothing to write.
		c.Abort()
	}
}

// latencyMS parses the requested delay. Anything that is not a positive
// integer selects DefaultLatencyMS; larger values are capped at MaxLatencyMS.
func latencyMS(raw string) int {
	ms := utils.AtoiDefault(raw, DefaultLatencyMS)
	if ms <= 0 {
		return DefaultLatencyMS
	}
	return utils.Clamp(ms, 1, MaxLatencyMS)
}

// SimulatedError godoc
// @ID          testError
// @Summary     Always fails with 500
// @Tags        Test
// @Produce     json
// @Failure     500  {object}  handlers.ErrorResponse  "Simulated failure"
// @Router      /api/test/error [get]
// @Router      /api/test500 [get]
func (h *TestHandlers) SimulatedError(c *gin.Context) {
	fail(c, http.StatusInternalServerError, ErrCodeSimulated, "simulated failure")
}

// Test500x20 godoc
// @ID          test500x20
// @Summary     Stream a failing response
// @Description Responds 500 and writes 20 JSON lines 30ms apart.
// @Tags        Test
// @Produce     application/x-ndjson
// @Failure     500  {string}  string  "NDJSON lines"
// @Router      /api/test500x20 [get]
func (h *TestHandlers) Test500x20(c *gin.Context) {
	c.Header("Content-Type", "application/x-ndjson")
	c.Status(http.StatusInternalServerError)

	ctx := c.Request.Context()
	enc := json.NewEncoder(c.Writer)
	for i := 1; i <= streamLines; i++ {
		if err := enc.Encode(gin.H{"line": i, "code": ErrCodeSimulated}); err != nil {
			return
		}
		c.Writer.Flush()
		if i == streamLines {
			break
		}
		if !sleepCtx(ctx, h.streamInterval) {
			return
		}
	}
}

// StartAlerts godoc
// @ID          testAlerts
// @Summary     Start the alerts load suite
// @Description Runs the alerts suite against this server in the background.
// @Tags        Test
// @Produce     json
// @Success     200  {object}  handlers.AlertsResponse
// @Failure     409  {object}  handlers.ErrorResponse  "A run is already in progress"
// @Router      /api/test/alerts [post]
func (h *TestHandlers) StartAlerts(c *gin.Context) {
	if h.alerts == nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeInternal, "load generator disabled")
		return
	}
	err := h.alerts.Start(loadgen.SuiteAlerts)
	switch {
	case errors.Is(err, loadgen.ErrBusy):
		fail(c, http.StatusConflict, ErrCodeConflict, "a load run is already in progress")
	case err != nil:
		failErr(c, err)
	default:
		middleware.LoggerFrom(c).Info().Str("suite", loadgen.SuiteAlerts).Msg("load suite started")
		ok(c, http.StatusOK, AlertsResponse{Started: true, Suite: loadgen.SuiteAlerts})
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
