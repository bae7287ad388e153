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

	"github.com/nesquaeke/smartshop/internal/config"
	"github.com/nesquaeke/smartshop/internal/http/apierr"
	"github.com/nesquaeke/smartshop/internal/http/metric"
	"github.com/nesquaeke/smartshop/internal/http/middleware"
	"github.com/nesquaeke/smartshop/internal/http/swagger"
	"github.com/nesquaeke/smartshop/internal/service"
	"github.com/nesquaeke/smartshop/pkg/validator"
)

var tracer = otel.Tracer("internal/http")

// Service represents the HTTP service.
type Service struct {
	cfg     config.HTTP
	logger  *slog.Logger
	metrics *metric.Metrics

	validate      validator.Validator
	comparisonSvc service.ComparisonService
	catalogSvc    service.CatalogService
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	validate validator.Validator,
	comparisonSvc service.ComparisonService,
	catalogSvc service.CatalogService,
) *Service {
	return &Service{
		cfg:           cfg,
		logger:        log.With(slog.String("service", "http")),
		metrics:       metric.New(),
		validate:      validate,
		comparisonSvc: comparisonSvc,
		catalogSvc:    catalogSvc,
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
	h := s.newHandler()

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", h.listProducts)
		r.Get("/products/{productID}", h.getProduct)
		r.Get("/products/{productID}/comparison", h.compareProduct)
		r.Get("/categories", h.listCategories)
		r.Get("/stores", h.listStores)
		r.Get("/stores/locations/nearby", h.nearbyLocations)
		r.Get("/stores/{storeID}/locations", h.listStoreLocations)
	})

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}

func (s *Service) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding error response",
			slog.Any("error", err))
	}
}

type handler struct {
	logger        *slog.Logger
	validate      validator.Validator
	comparisonSvc service.ComparisonService
	catalogSvc    service.CatalogService

	writeError func(w http.ResponseWriter, r *http.Request, err error)
}

func (s *Service) newHandler() *handler {
	return &handler{
		logger:        s.logger,
		validate:      s.validate,
		comparisonSvc: s.comparisonSvc,
		catalogSvc:    s.catalogSvc,
		writeError:    s.handleResponseError,
	}
}
