package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amoghlakshman/cafe-insights/internal/core/domain"
)

type predictorFake struct {
	result domain.PredictionResult
	err    error
	rows   int
	source string
}

func (f *predictorFake) Predict(context.Context, domain.SurveyRecord) (domain.PredictionResult, error) {
	if f.err != nil {
		return domain.PredictionResult{}, f.err
	}
	return f.result, nil
}

func (f *predictorFake) DatasetSummary(context.Context) (int, string, error) {
	return f.rows, f.source, nil
}

type matcherFake struct {
	match domain.PersonaMatch
}

func (f *matcherFake) Match(float64, float64, float64) domain.PersonaMatch { return f.match }

type estimatorFake struct {
	estimate float64
	err      error
}

func (f *estimatorFake) Estimate(string, []string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.estimate, nil
}

type insightsFake struct{}

func (insightsFake) Models() []domain.ModelMetrics {
	return []domain.ModelMetrics{{Model: "KNN", Accuracy: 0.7750}}
}

func (insightsFake) Personas() []domain.PersonaProfile {
	return []domain.PersonaProfile{{Cluster: 3, Label: domain.Centroids[3].Label}}
}

func (insightsFake) Drivers() []domain.SpendingDriver {
	return []domain.SpendingDriver{{Driver: "Income bracket", Coefficient: 41.87}}
}

func (insightsFake) Bundles() []domain.BundleRule {
	return []domain.BundleRule{{Name: "Business Professional", Lift: 2.89, Confidence: 0.63}}
}

type auditFake struct {
	events []domain.PredictionEvent
	err    error
}

func (f *auditFake) Insert(context.Context, domain.PredictionEvent) error { return nil }

func (f *auditFake) ListRecent(context.Context, int) ([]domain.PredictionEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func testRouter(t *testing.T, opts Options) (*Router, *predictorFake) {
	t.Helper()
	predictor := &predictorFake{
		result: domain.PredictionResult{
			Probability: 0.82,
			Tier:        domain.TierHigh,
			Persona:     domain.Centroids[3].Label,
			Source:      domain.SourceModel,
		},
		rows:   10,
		source: "synthetic",
	}
	router := NewRouter(
		predictor,
		&matcherFake{match: domain.PersonaMatch{Label: domain.Centroids[0].Label, Centroid: domain.Centroids[0]}},
		&estimatorFake{estimate: 152.24},
		insightsFake{},
		&auditFake{},
		nil,
		opts,
	)
	return router, predictor
}

const predictBody = `{
	"age_group": "25-34",
	"gender": "Female",
	"income": "Above 75,000",
	"employment": "Employed",
	"education": "Bachelor's degree",
	"cafe_frequency": "Daily",
	"reading_frequency": "Regular reader (3-5 times per week)",
	"visit_reason": "Coffee quality",
	"avg_spend_aed": 70,
	"total_spend_aed": 180,
	"willing_pay_membership": 350
}`

func TestHealthz(t *testing.T) {
	router, _ := testRouter(t, Options{})
	rec := httptest.NewRecorder()
	router.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected a generated request id header")
	}
}

func TestPredictEndpoint(t *testing.T) {
	router, _ := testRouter(t, Options{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/predictions", strings.NewReader(predictBody))
	router.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result domain.PredictionResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Probability != 0.82 || result.Tier != domain.TierHigh || result.Source != domain.SourceModel {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestPredictInvalidJSON(t *testing.T) {
	router, _ := testRouter(t, Options{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/predictions", strings.NewReader("{not json"))
	router.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPredictMethodNotAllowed(t *testing.T) {
	router, _ := testRouter(t, Options{})
	rec := httptest.NewRecorder()
	router.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/predictions", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestPredictDomainErrorMapping(t *testing.T) {
	router, predictor := testRouter(t, Options{})
	predictor.err = domain.WrapError(domain.ErrInvalidInput, "predict", errors.New("field income is required"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/predictions", strings.NewReader(predictBody))
	router.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for ErrInvalidInput", rec.Code)
	}
}

func TestRecentPredictions(t *testing.T) {
	audit := &auditFake{events: []domain.PredictionEvent{{ID: "abc", Tier: domain.TierMedium}}}
	router := NewRouter(&predictorFake{}, &matcherFake{}, &estimatorFake{}, insightsFake{}, audit, nil, Options{})

	rec := httptest.NewRecorder()
	router.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/predictions/recent", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var payload struct {
		Predictions []domain.PredictionEvent `json:"predictions"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Predictions) != 1 || payload.Predictions[0].ID != "abc" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestMatchPersonaEndpoint(t *testing.T) {
	router, _ := testRouter(t, Options{})
	rec := httptest.NewRecorder()
	body := `{"avg_spend_aed": 24.12, "total_spend_aed": 54.36, "willing_pay_membership": 46.10}`
	req := httptest.NewRequest(http.MethodPost, "/v1/personas/match", strings.NewReader(body))
	router.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var match domain.PersonaMatch
	if err := json.NewDecoder(rec.Body).Decode(&match); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if match.Label != domain.Centroids[0].Label {
		t.Fatalf("Label = %q, want %q", match.Label, domain.Centroids[0].Label)
	}
}

func TestMatchPersonaNegativeInput(t *testing.T) {
	router, _ := testRouter(t, Options{})
	rec := httptest.NewRecorder()
	body := `{"avg_spend_aed": -1, "total_spend_aed": 0, "willing_pay_membership": 0}`
	req := httptest.NewRequest(http.MethodPost, "/v1/personas/match", strings.NewReader(body))
	router.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestEstimateSpendEndpoint(t *testing.T) {
	router, _ := testRouter(t, Options{})
	rec := httptest.NewRecorder()
	body := `{"income": "Above 75,000", "reasons": []}`
	req := httptest.NewRequest(http.MethodPost, "/v1/estimates/spend", strings.NewReader(body))
	router.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var payload struct {
		Income   string  `json:"income"`
		Estimate float64 `json:"estimate_aed"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if math.Abs(payload.Estimate-152.24) > 1e-9 {
		t.Fatalf("estimate_aed = %v, want 152.24", payload.Estimate)
	}
}

func TestEstimateSpendUnknownBracket(t *testing.T) {
	router := NewRouter(
		&predictorFake{},
		&matcherFake{},
		&estimatorFake{err: domain.WrapError(domain.ErrInvalidInput, "estimate spend", errors.New("unknown income bracket"))},
		insightsFake{},
		&auditFake{},
		nil,
		Options{},
	)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/estimates/spend", strings.NewReader(`{"income": "nope"}`))
	router.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestInsightEndpoints(t *testing.T) {
	router, _ := testRouter(t, Options{})
	handler := router.Handler()

	for _, path := range []string{
		"/v1/insights/models",
		"/v1/insights/personas",
		"/v1/insights/drivers",
		"/v1/insights/bundles",
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d, want 200", path, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Fatalf("%s content type = %q", path, ct)
		}

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s POST status = %d, want 405", path, rec.Code)
		}
	}
}

func TestDatasetSummaryEndpoint(t *testing.T) {
	router, _ := testRouter(t, Options{})
	rec := httptest.NewRecorder()
	router.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/dataset/summary", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var payload struct {
		Rows   int    `json:"rows"`
		Source string `json:"source"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Rows != 10 || payload.Source != "synthetic" {
		t.Fatalf("payload = %+v, want 10 synthetic rows", payload)
	}
}

func TestRateLimitReturns429(t *testing.T) {
	router, _ := testRouter(t, Options{RateLimitRPS: 1, RateLimitBurst: 1})
	handler := router.Handler()

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", second.Code)
	}
	if second.Header().Get("Retry-After") != "1" {
		t.Fatalf("Retry-After = %q, want 1", second.Header().Get("Retry-After"))
	}
}

func TestBackpressureReturns503(t *testing.T) {
	release := make(chan struct{})
	blocking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	})
	handler := backpressureMiddleware(blocking, 1, 20*time.Millisecond)

	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		rec := httptest.NewRecorder()
		close(started)
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	}()

	<-started
	time.Sleep(5 * time.Millisecond) // let the first request take the slot

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 when the gate is saturated", rec.Code)
	}

	close(release)
	<-done
}

func TestBackpressureCanceledRequestRecordsStatus(t *testing.T) {
	release := make(chan struct{})
	blocking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	})
	handler := backpressureMiddleware(blocking, 1, time.Minute)

	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		rec := httptest.NewRecorder()
		close(started)
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	}()

	<-started
	time.Sleep(5 * time.Millisecond) // let the first request take the slot

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil).WithContext(ctx)
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 recorded for a canceled queued request", rec.Code)
	}

	close(release)
	<-done
}

func TestRequestIDEchoed(t *testing.T) {
	router, _ := testRouter(t, Options{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "client-supplied-id")
	router.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got != "client-supplied-id" {
		t.Fatalf("request id = %q, want the client-supplied value", got)
	}
}
