package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/prodpulse/product-metrics/internal/config"
	"github.com/prodpulse/product-metrics/internal/http/metric"
	"github.com/prodpulse/product-metrics/internal/http/middleware"
	"github.com/prodpulse/product-metrics/internal/http/swagger"
	"github.com/prodpulse/product-metrics/internal/service"
	"github.com/prodpulse/product-metrics/internal/storage/db"
	"github.com/prodpulse/product-metrics/pkg/validator"
)

var tracer = otel.Tracer("internal/http")

// Service represents the HTTP service.
type Service struct {
	cfg       config.HTTP
	logger    *slog.Logger
	metrics   *metric.Metrics
	validator validator.Validator
	health    db.HealthChecker

	currencySvc service.CurrencyService
	productSvc  service.ProductService
	recordSvc   service.RecordService
	metricsSvc  service.MetricsService
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	validator validator.Validator,
	health db.HealthChecker,
	currencySvc service.CurrencyService,
	productSvc service.ProductService,
	recordSvc service.RecordService,
	metricsSvc service.MetricsService,
) *Service {
	return &Service{
		cfg:         cfg,
		logger:      log.With(slog.String("service", "http")),
		metrics:     metric.New(),
		validator:   validator,
		health:      health,
		currencySvc: currencySvc,
		productSvc:  productSvc,
		recordSvc:   recordSvc,
		metricsSvc:  metricsSvc,
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		swagger.Register(r)
	}

	s.RegisterHandlers(r)

	return s.RunWithServer(ctx, r)
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	rp := &responder{logger: s.logger}

	currencyHandler := newCurrencyHandler(s.currencySvc, s.validator, rp)
	productHandler := newProductHandler(s.productSvc, s.validator, rp)
	salesDataHandler := newSalesDataHandler(s.recordSvc, s.validator, rp)
	engagementHandler := newUserEngagementHandler(s.recordSvc, s.validator, rp)
	feedbackHandler := newCustomerFeedbackHandler(s.recordSvc, s.validator, rp)
	metricsHandler := newMetricsHandler(s.metricsSvc, rp)
	adminHandler := newAdminHandler(rp)

	r.Route("/api/v1", func(r chi.Router) {
		currencyHandler.RegisterRoutes(r)
		productHandler.RegisterRoutes(r)
		salesDataHandler.RegisterRoutes(r)
		engagementHandler.RegisterRoutes(r)
		feedbackHandler.RegisterRoutes(r)
		metricsHandler.RegisterRoutes(r)
		adminHandler.RegisterRoutes(r)
	})

	r.Get("/healthz", s.handleHealthz(rp))

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}

func (s *Service) handleHealthz(rp *responder) http.HandlerFunc {
	type healthResponse struct {
		Status string `json:"status"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.health.IsHealthy(r.Context()); err != nil {
			rp.writeJSON(w, r, http.StatusServiceUnavailable, healthResponse{Status: "unhealthy"})
			return
		}
		rp.writeJSON(w, r, http.StatusOK, healthResponse{Status: "ok"})
	}
}

// responder centralizes response and error encoding for all handlers.
type responder struct {
	logger *slog.Logger
}

func (rp *responder) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		rp.logger.ErrorContext(r.Context(), "error encoding response",
			slog.Any("error", err))
	}
}
