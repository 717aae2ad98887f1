package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"debt-planner/metrics"
)

type RouterDeps struct {
	Plans     *PlanHandler
	Schedules *ScheduleHandler
	Advice    *BudgetAdviceHandler
	// Limiter is optional; nil disables rate limiting.
	Limiter  *RateLimiter
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

// NewRouter registers the API routes and the middleware stack. Rate limiting
// only applies to /v1.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger, deps.Metrics))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		if deps.Limiter != nil {
			r.Use(func(next http.Handler) http.Handler {
				return RateLimitMiddleware(deps.Limiter, logger, next)
			})
		}
		r.Post("/plans", deps.Plans.CalculatePlan)
		r.Post("/plans/compare", deps.Plans.Compare)
		r.Get("/plans/{id}", deps.Plans.GetPlan)
		r.Post("/schedules", deps.Schedules.BuildSchedule)
		r.Post("/budget-advice", deps.Advice.Recommend)
	})

	return r
}
