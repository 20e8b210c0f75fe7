package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gartstein/observatorio/internal/observatorio/docs"
	"github.com/gartstein/observatorio/internal/observatorio/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const apiPrefix = "/api"

// Route declares one endpoint: where it is mounted, whether it requires
// authentication, what the validation layer checks, and how it is documented.
// Pattern is relative to /api.
type Route struct {
	Method    string
	Pattern   string
	Protected bool
	Rules     validation.Rules
	Handler   http.HandlerFunc
	Doc       docs.Endpoint
}

// RouteGroup is implemented by everything that contributes routes.
type RouteGroup interface {
	Routes() []Route
}

// Authenticator guards protected routes.
type Authenticator interface {
	Authenticate(next http.Handler) http.Handler
}

type RouterOptions struct {
	Logger        *zap.Logger
	Authenticator Authenticator
	Validator     *validation.Validator
	Responder     *Responder
	// Health reports backend readiness for GET /health.
	Health func(ctx context.Context) error
	Info   docs.Info
}

// NewRouter mounts every group under /api together with the documentation
// endpoints and /health.
func NewRouter(opts RouterOptions, groups ...RouteGroup) (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(opts.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler(opts))

	builder := docs.NewBuilder(opts.Info, apiPrefix)
	var routes []Route
	for _, group := range groups {
		routes = append(routes, group.Routes()...)
	}
	for _, route := range routes {
		doc := route.Doc
		doc.Method = route.Method
		doc.Path = route.Pattern
		doc.Protected = route.Protected
		builder.Add(doc)
	}

	doc, err := builder.Document()
	if err != nil {
		return nil, fmt.Errorf("failed to build api docs: %w", err)
	}
	docHandlers, err := docs.NewHandlers(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build api docs: %w", err)
	}

	r.Route(apiPrefix, func(api chi.Router) {
		api.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, apiPrefix+"/docs/index.html", http.StatusMovedPermanently)
		})
		api.Get("/docs/openapi.json", docHandlers.JSON)
		api.Get("/docs/openapi.yaml", docHandlers.YAML)
		api.Get("/docs/*", docs.UI(apiPrefix+"/docs/openapi.json"))

		for _, route := range routes {
			var chain []func(http.Handler) http.Handler
			if route.Protected {
				chain = append(chain, opts.Authenticator.Authenticate)
			}
			chain = append(chain, opts.Validator.Middleware(route.Rules, opts.Responder.Error))
			api.With(chain...).Method(route.Method, route.Pattern, route.Handler)
		}
	})
	return r, nil
}

func healthHandler(opts RouterOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if opts.Health != nil {
			if err := opts.Health(r.Context()); err != nil {
				opts.Logger.Warn("Health check failed", zap.Error(err))
				opts.Responder.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		opts.Responder.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
