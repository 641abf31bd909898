package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/amoghlakshman/cafe-insights/internal/core/domain"
	"github.com/amoghlakshman/cafe-insights/internal/core/ports"
	"github.com/amoghlakshman/cafe-insights/internal/observability/metrics"
)

type Router struct {
	predictor ports.ProspectPredictor
	personas  ports.PersonaMatcher
	estimator ports.SpendEstimator
	insights  ports.InsightsReader
	audit     ports.PredictionLog
	metrics   *metrics.HTTPServerMetrics
	opts      Options
}

type Options struct {
	Service                string
	RecentPredictionsLimit int
	RateLimitRPS           float64
	RateLimitBurst         int
	MaxConcurrent          int
	BackpressureWait       time.Duration
}

func NewRouter(
	predictor ports.ProspectPredictor,
	personas ports.PersonaMatcher,
	estimator ports.SpendEstimator,
	insights ports.InsightsReader,
	audit ports.PredictionLog,
	httpMetrics *metrics.HTTPServerMetrics,
	opts Options,
) *Router {
	if opts.Service == "" {
		opts.Service = "api"
	}
	if opts.RecentPredictionsLimit <= 0 {
		opts.RecentPredictionsLimit = 20
	}
	if opts.BackpressureWait <= 0 {
		opts.BackpressureWait = 200 * time.Millisecond
	}
	return &Router{
		predictor: predictor,
		personas:  personas,
		estimator: estimator,
		insights:  insights,
		audit:     audit,
		metrics:   httpMetrics,
		opts:      opts,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/predictions", rt.predict)
	mux.HandleFunc("/v1/predictions/recent", rt.recentPredictions)
	mux.HandleFunc("/v1/personas/match", rt.matchPersona)
	mux.HandleFunc("/v1/estimates/spend", rt.estimateSpend)
	mux.HandleFunc("/v1/insights/models", rt.insightModels)
	mux.HandleFunc("/v1/insights/personas", rt.insightPersonas)
	mux.HandleFunc("/v1/insights/drivers", rt.insightDrivers)
	mux.HandleFunc("/v1/insights/bundles", rt.insightBundles)
	mux.HandleFunc("/v1/dataset/summary", rt.datasetSummary)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.opts.MaxConcurrent, rt.opts.BackpressureWait)
	handler = rateLimitMiddleware(handler, rt.opts.RateLimitRPS, rt.opts.RateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.opts.Service, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) predict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var record domain.SurveyRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	result, err := rt.predictor.Predict(r.Context(), record)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) recentPredictions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	events, err := rt.audit.ListRecent(r.Context(), rt.opts.RecentPredictionsLimit)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"predictions": events})
}

func (rt *Router) matchPersona(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		AvgSpend      float64 `json:"avg_spend_aed"`
		TotalSpend    float64 `json:"total_spend_aed"`
		MembershipWTP float64 `json:"willing_pay_membership"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.AvgSpend < 0 || req.TotalSpend < 0 || req.MembershipWTP < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "spend values must be non-negative"})
		return
	}

	match := rt.personas.Match(req.AvgSpend, req.TotalSpend, req.MembershipWTP)
	writeJSON(w, http.StatusOK, match)
}

func (rt *Router) estimateSpend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Income  string   `json:"income"`
		Reasons []string `json:"reasons"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	estimate, err := rt.estimator.Estimate(req.Income, req.Reasons)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"income":       req.Income,
		"reasons":      req.Reasons,
		"estimate_aed": estimate,
	})
}

func (rt *Router) insightModels(w http.ResponseWriter, r *http.Request) {
	rt.serveTable(w, r, func() any { return rt.insights.Models() })
}

func (rt *Router) insightPersonas(w http.ResponseWriter, r *http.Request) {
	rt.serveTable(w, r, func() any { return rt.insights.Personas() })
}

func (rt *Router) insightDrivers(w http.ResponseWriter, r *http.Request) {
	rt.serveTable(w, r, func() any { return rt.insights.Drivers() })
}

func (rt *Router) insightBundles(w http.ResponseWriter, r *http.Request) {
	rt.serveTable(w, r, func() any { return rt.insights.Bundles() })
}

func (rt *Router) serveTable(w http.ResponseWriter, r *http.Request, table func() any) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, table())
}

func (rt *Router) datasetSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rows, source, err := rt.predictor.DatasetSummary(r.Context())
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows, "source": source})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
