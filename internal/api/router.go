package api

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lzjever/mbos-activity/internal/activity"
	"github.com/lzjever/mbos-activity/internal/api/middleware"
	"github.com/lzjever/mbos-activity/internal/scope"
)

const defaultPageSize = 10

type API struct {
	backend         activity.Backend
	registry        *activity.Registry
	writer          *activity.Writer
	reader          *activity.Reader
	resolver        *scope.Resolver
	auth            *middleware.Authenticator
	log             *zap.Logger
	defaultPageSize int
}

func NewAPI(backend activity.Backend, registry *activity.Registry, auth *middleware.Authenticator, log *zap.Logger, cfg Config) *API {
	pageSize := cfg.DefaultPageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &API{
		backend:         backend,
		registry:        registry,
		writer:          activity.NewWriter(backend, registry, log),
		reader:          activity.NewReader(backend, backend, registry, log).WithMaxPageSize(cfg.MaxPageSize),
		resolver:        scope.NewResolver(),
		auth:            auth,
		log:             log,
		defaultPageSize: pageSize,
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recoverer(a.log))
	r.Use(middleware.Logger)
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Health endpoints
	r.Get("/healthz", a.HealthHandler)
	r.Get("/readyz", a.ReadyHandler)

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(a.auth.Auth)

		r.Get("/{subjectKind}/{subjectID}/activities", a.ListActivities)
		r.Post("/{subjectKind}/{subjectID}/activities", a.RecordActivity)
	})

	return r
}
