// Package httpapi wires the HTTP transport (Gin) to the cat service,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, rate
// limiting, CORS, compression, and security headers.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: one structured line per request
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. HTTP metrics
//  7. Rate limiter (optional; /metrics and /health exempt)
//  8. CORS, gzip, and security headers
package httpapi

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/tbourn/go-cat-service/docs"
	"github.com/tbourn/go-cat-service/internal/config"
	"github.com/tbourn/go-cat-service/internal/http/handlers"
	"github.com/tbourn/go-cat-service/internal/http/middleware"
)

// maxBodyBytes caps request bodies. No route reads one, so this is generous.
const maxBodyBytes = 1 << 20

// Deps are the collaborators RegisterRoutes mounts. Cats must be a true nil
// interface when the store is skipped; cat routes then answer 503.
type Deps struct {
	Cats   handlers.CatService
	Images handlers.ImageSource
	Gauge  handlers.CatsGauge
	Alerts handlers.AlertLauncher

	// Registerer receives the HTTP collectors; Gatherer backs /metrics.
	// Both default to the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	// Static is served at "/" and "/static/*"; nil disables the front end.
	Static fs.FS
}

// RegisterRoutes attaches all middleware and endpoints to r.
func RegisterRoutes(r *gin.Engine, cfg config.Config, d Deps) {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(middleware.LoggerOptions{QuietPaths: middleware.DefaultQuietPaths}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))
	r.Use(middleware.NewHTTPMetrics(d.Registerer).Handler())

	if cfg.RateLimit.Enabled {
		rl := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, middleware.KeyByIP(), "/metrics", "/health")
		r.Use(rl.Handler())
	}

	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics", "/api/test500x20"})))
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:            cfg.Security.EnableHSTS,
		HSTSMaxAge:            cfg.Security.HSTSMaxAge,
		ContentSecurityPolicy: middleware.DefaultContentSecurityPolicy,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	r.GET("/health", handlers.NewHealth(d.Cats, d.Gauge).Check)

	h := handlers.New(d.Cats, d.Images)
	cats := r.Group("/api/cat")
	{
		cats.GET("", h.RandomCat)
		cats.GET("/top", h.TopCats)
		cats.GET("/history", h.CatHistory)
		cats.GET("/by-url", h.GetCatByURL)
		cats.GET("/:id", h.GetCat)
		cats.POST("/:id/like", h.LikeCat)
	}

	t := handlers.NewTestHandlers(d.Cats, d.Alerts)
	api := r.Group("/api")
	{
		api.POST("/test/dbload", t.DBLoad)
		api.GET("/test/latency", t.Latency)
		api.GET("/test/error", t.SimulatedError)
		api.POST("/test/alerts", t.StartAlerts)
		api.GET("/test500", t.SimulatedError)
		api.GET("/test500x20", t.Test500x20)
	}

	if cfg.SwaggerEnabled {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if d.Static != nil {
		static := http.FS(d.Static)
		// FileFromFS on "/" lets http.FileServer pick index.html without
		// the redirect it issues for an explicit "/index.html".
		r.GET("/", func(c *gin.Context) { c.FileFromFS("/", static) })
		r.StaticFS("/static", static)
	}
}

// corsMiddleware allows any origin when origins is empty, otherwise only the
// listed ones. Credentials are never allowed.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID", "Content-Length", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	return cors.New(cc)
}

// limitBody caps the request body size to maxBytes using
// http.MaxBytesReader. Oversized bodies make downstream reads fail.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
