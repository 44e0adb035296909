package main

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-pricing/internal/cart"
	"github.com/noah-isme/toko-pricing/internal/common"
	"github.com/noah-isme/toko-pricing/internal/health"
	"github.com/noah-isme/toko-pricing/internal/obs"
	"github.com/noah-isme/toko-pricing/internal/ratelimit"
	"github.com/noah-isme/toko-pricing/internal/security"
)

type routerDeps struct {
	Logger      zerolog.Logger
	HTTPMetrics *obs.HTTPMetrics
	Metrics     http.Handler
	Tracing     bool
	CORSOrigins []string
	Headers     security.Headers
	BodyLimit   security.BodyLimit
	RateLimit   ratelimit.Handler
	Idem        common.Idem
	Health      health.Handler
	Cart        *cart.Handler
}

func newRouter(d routerDeps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if d.Tracing {
		r.Use(obs.SpanRouteMiddleware)
	}
	if d.HTTPMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: d.HTTPMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: d.Logger}.Middleware)
	r.Use(security.CORS(allowedOrigins(d.CORSOrigins)))
	r.Use(d.Headers.Middleware)

	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics)
	}
	r.Get("/health/live", d.Health.Live)
	r.Get("/health/ready", d.Health.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Use(d.RateLimit.Middleware)
		v.Use(d.BodyLimit.Middleware)
		d.Cart.Routes(v, d.Idem.Middleware)
	})
	return r
}

func allowedOrigins(origins []string) string {
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ",")
}
