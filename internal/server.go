package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/fitassess/internal/assessment"
	"github.com/2beens/fitassess/internal/charts"
	"github.com/2beens/fitassess/internal/config"
	"github.com/2beens/fitassess/internal/middleware"
	"github.com/2beens/fitassess/internal/telemetry/metrics"
	"github.com/2beens/fitassess/internal/telemetry/tracing"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	engine      *assessment.Engine
	chartCache  *charts.Cache
	redisClient *redis.Client

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	if params.Config == nil {
		return nil, errors.New("config not set")
	}

	promRegistry, metricsManager := metrics.Setup("fitassess", "main")
	metricsManager.GaugeLifeSignal.Set(0) // set to 1 once serving

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fitassess", rdb)
	if err != nil {
		return nil, fmt.Errorf("tracing setup: %w", err)
	}

	chartCache := charts.NewCache(
		params.Config.ChartCacheSizeMB,
		time.Duration(params.Config.ChartCacheExpireMin)*time.Minute,
		metricsManager,
	)
	renderer := charts.NewRenderer(charts.WithCache(chartCache))

	return &Server{
		versionInfo: params.VersionInfo,
		config:      params.Config,
		engine:      assessment.NewEngine(assessment.DefaultReferenceTables(), renderer),
		chartCache:  chartCache,
		redisClient: rdb,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("fitassess-router"))

	NewHealthHandler(s.redisClient, s.versionInfo).SetupRoutes(r)

	assessmentHandler := NewAssessmentHandler(s.engine, s.metricsManager)
	assessmentHandler.SetupRoutes(
		r,
		redis_rate.NewLimiter(s.redisClient),
		s.config.AssessmentRateLimitPerMin,
	)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(middleware.DrainAndCloseRequest(s.config.MaxRequestBodyBytes))

	return r
}

const (
	serverTimeout   = time.Minute
	shutdownTimeout = 15 * time.Second
	sentryFlushWait = 5 * time.Second
)

// Serve starts the API and the metrics listeners in the background. The
// request base context is ctx, so cancelling it reaches in-flight handlers.
func (s *Server) Serve(ctx context.Context, host string, port int) {
	s.httpServer = &http.Server{
		Handler:           s.routerSetup(),
		Addr:              net.JoinHostPort(host, strconv.Itoa(port)),
		WriteTimeout:      serverTimeout,
		ReadTimeout:       serverTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		ConnState:         s.connStateMetrics,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	s.metricsHttpServer = &http.Server{
		Handler:           s.metricsRouter(),
		Addr:              net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go listenAndServe("assessment api", s.httpServer)
	go listenAndServe("metrics", s.metricsHttpServer)

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) metricsRouter() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{Registry: s.promRegistry}),
	)).Methods("GET")
	return r
}

func listenAndServe(name string, srv *http.Server) {
	log.Infof(" > %s listening on: [%s]", name, srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("%s, listen and serve: %s", name, err)
	}
}

// GracefulShutdown stops accepting requests, waits for in-flight ones, and only
// then releases tracing, redis and sentry, which those requests may still use.
func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var err error
	for name, srv := range map[string]*http.Server{
		"assessment api": s.httpServer,
		"metrics":        s.metricsHttpServer,
	} {
		if srv == nil {
			continue
		}
		if shutdownErr := srv.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("%s server: %w", name, shutdownErr))
		}
	}

	s.otelShutdown()

	if s.redisClient != nil {
		err = multierr.Append(err, s.redisClient.Close())
	}

	if err != nil {
		log.Errorf("graceful shutdown: %s", err)
	}

	log.Debugf("chart cache entries at shutdown: %d", s.chartCache.EntryCount())
	if !sentry.Flush(sentryFlushWait) {
		log.Debugln("sentry flush timed out")
	}
	log.Warnln("server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
