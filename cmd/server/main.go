// Command server runs the cat pictures HTTP service.
//
// @title       Cat Service API
// @version     1.0
// @description Random cat pictures with per-picture like and view counters, plus synthetic-traffic endpoints for alert testing.
// @BasePath    /
package main

//go:generate swag init -d ../.. -g cmd/server/main.go -o ../../docs --outputTypes go --parseInternal

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-cat-service/internal/catapi"
	"github.com/tbourn/go-cat-service/internal/config"
	"github.com/tbourn/go-cat-service/internal/domain"
	httpapi "github.com/tbourn/go-cat-service/internal/http"
	"github.com/tbourn/go-cat-service/internal/http/handlers"
	"github.com/tbourn/go-cat-service/internal/loadgen"
	"github.com/tbourn/go-cat-service/internal/metrics"
	"github.com/tbourn/go-cat-service/internal/observability"
	"github.com/tbourn/go-cat-service/internal/repo"
	"github.com/tbourn/go-cat-service/internal/services"
	"github.com/tbourn/go-cat-service/internal/sysutil"
	"github.com/tbourn/go-cat-service/web"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

// alertWorkers sizes the mixed suite when started from /api/test/alerts.
const alertWorkers = 10

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	log := sysutil.ConfigureLogger(os.Stdout, cfg.LogPretty, sysutil.FirstNonEmpty(cfg.OTEL.ServiceName, observability.DefaultServiceName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped gracefully")
}

func run(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	obs := metrics.NewPrometheusObserver(prometheus.DefaultRegisterer)
	obs.Preload(services.Operations, domain.CatsTable)

	cats, closeStore, err := openStore(ctx, cfg, obs, log)
	if err != nil {
		return err
	}
	defer closeStore()

	runner := loadgen.NewRunner(selfURL(cfg), cfg.LoadTest.Scale, log.With().Str("component", "loadgen").Logger())
	launcher := loadgen.NewLauncher(ctx, runner, alertWorkers)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, cfg, httpapi.Deps{
		Cats:   cats,
		Images: catapi.New(cfg.CatAPI, prometheus.DefaultRegisterer),
		Gauge:  obs,
		Alerts: launcher,
		Static: web.Static(),
	})

	srv := newHTTPServer(cfg, r)
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Bool("store", cats != nil).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	launcher.Wait()
	return nil
}

// openStore returns a nil CatService when SKIP_DB is set, so the router
// answers 503 on cat routes instead of failing startup.
func openStore(ctx context.Context, cfg config.Config, obs metrics.Observer, log zerolog.Logger) (handlers.CatService, func(), error) {
	if cfg.DB.Skip {
		log.Warn().Msg("SKIP_DB set; cat routes disabled")
		return nil, func() {}, nil
	}
	db, err := repo.Open(cfg.DB, cfg.OTEL.Enabled)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	svc := services.NewCatService(db, obs, cfg.DB.QueryTimeout)
	if err := svc.Init(ctx); err != nil {
		closeDB()
		return nil, nil, err
	}
	log.Info().Str("driver", cfg.DB.Driver).Msg("cat store ready")
	return svc, closeDB, nil
}

// selfURL is where the in-process alerts suite sends its traffic.
func selfURL(cfg config.Config) string {
	return "http://127.0.0.1:" + cfg.Port
}

func newHTTPServer(cfg config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
}
