package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"CryptoAnalyst/internal/catalog"
	models "CryptoAnalyst/internal/domain/models"
	"CryptoAnalyst/internal/enrich"
	"CryptoAnalyst/internal/resolver"
	"CryptoAnalyst/internal/usecase"
	xhttp "CryptoAnalyst/pkg/http"
	xlogger "CryptoAnalyst/pkg/logger"
	"CryptoAnalyst/pkg/queue"

	"github.com/labstack/echo/v4"
)

type nopMetrics struct{}

func (nopMetrics) RecordResolution(string)             {}
func (nopMetrics) RecordHitl(string)                   {}
func (nopMetrics) RecordWarning(string)                {}
func (nopMetrics) RecordStageDuration(string, float64) {}
func (nopMetrics) RecordError(string)                  {}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, models.AuditEvent) error { return nil }
func (nopPublisher) Close() error                                     { return nil }

func testLogger(t *testing.T) *xlogger.Logger {
	t.Helper()
	lgr, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return lgr
}

func newTestHandler(t *testing.T) (*AnalyzeEchoHandler, *echo.Echo) {
	t.Helper()
	cat := catalog.New()
	lgr := testLogger(t)
	rsv := resolver.New(cat, nopMetrics{}, lgr)
	analyzer := usecase.NewAnalyzer(cat, rsv,
		enrich.NewSimulatedPriceSource(nil),
		enrich.NewIndicatorEngine(),
		enrich.NewSimulatedNewsSource(nil),
		enrich.NewLexiconSentiment(),
		enrich.NewReporter(),
		nopPublisher{}, nopMetrics{}, lgr)

	h := NewAnalyzeEchoHandler(lgr, analyzer, cat)
	e := echo.New()
	h.RegisterRoutes(e)
	return h, e
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) xhttp.APIResponse {
	t.Helper()
	var env xhttp.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	var env struct {
		Status int             `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		t.Fatalf("decode data: %v (%s)", err, env.Data)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doJSON(e, http.MethodPost, "/api/analyze", `{"text":"Should I buy bitcoin?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var st models.PipelineState
	decodeData(t, rec, &st)
	if got := st.Resolution.Tickers(); len(got) != 1 || got[0] != "BTC" {
		t.Fatalf("tickers = %v", got)
	}
	if st.Report == "" || len(st.Log) == 0 {
		t.Fatal("expected complete pipeline output")
	}
}

func TestAnalyzeEndpointValidation(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doJSON(e, http.MethodPost, "/api/analyze", `{"text":""}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Status != http.StatusBadRequest {
		t.Fatalf("envelope status = %d, want 400", env.Status)
	}
}

func TestResolveEndpoint(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doJSON(e, http.MethodGet, "/api/resolve?text=analyze+etherium", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var out models.ResolveResponse
	decodeData(t, rec, &out)
	if got := out.Resolution.Tickers(); len(got) != 1 || got[0] != "ETH" {
		t.Fatalf("tickers = %v", got)
	}
	if out.Resolution.Assets[0].Origin != models.OriginMisspelling {
		t.Fatalf("origin = %s", out.Resolution.Assets[0].Origin)
	}
}

func TestCatalogAssetsEndpoint(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doJSON(e, http.MethodGet, "/api/catalog/assets", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var list struct {
		Rows  []models.Asset `json:"rows"`
		Total int64          `json:"total"`
	}
	decodeData(t, rec, &list)
	if list.Total != int64(len(list.Rows)) || list.Total == 0 {
		t.Fatalf("total = %d, rows = %d", list.Total, len(list.Rows))
	}
}

func TestCatalogSectorEndpoint(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doJSON(e, http.MethodGet, "/api/catalog/sectors/meme", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var list struct {
		Rows []models.Asset `json:"rows"`
	}
	decodeData(t, rec, &list)
	if len(list.Rows) == 0 {
		t.Fatal("expected meme sector members")
	}

	rec = doJSON(e, http.MethodGet, "/api/catalog/sectors/unknown", "")
	if env := decodeEnvelope(t, rec); env.Status != http.StatusNotFound {
		t.Fatalf("envelope status = %d, want 404", env.Status)
	}
}

func TestJobsEndpoints(t *testing.T) {
	h, e := newTestHandler(t)
	lgr := testLogger(t)

	mq := queue.NewMemoryQueue(lgr, &queue.QueueConfig{Workers: 1})
	jobs := usecase.NewJobService(h.analyzer, mq, lgr)
	mq.RegisterJob(jobs)
	if err := mq.Start(); err != nil {
		t.Fatalf("queue start: %v", err)
	}
	defer mq.Stop(context.Background())
	h.SetJobService(jobs)

	rec := doJSON(e, http.MethodPost, "/api/analyze/jobs", `{"text":"analyze solana"}`)
	var job models.AnalysisJob
	decodeData(t, rec, &job)
	if job.ID == "" || job.Status != models.JobPending {
		t.Fatalf("unexpected job: %+v", job)
	}

	// Poll until the worker finishes.
	deadline := time.Now().Add(5 * time.Second)
	for {
		rec = doJSON(e, http.MethodGet, "/api/analyze/jobs/"+job.ID, "")
		decodeData(t, rec, &job)
		if job.Status == models.JobDone {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job did not finish: %+v", job)
		}
		time.Sleep(20 * time.Millisecond)
	}
	if job.State == nil || len(job.State.Resolution.Assets) == 0 {
		t.Fatal("finished job missing state")
	}
}

func TestJobsDisabled(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doJSON(e, http.MethodPost, "/api/analyze/jobs", `{"text":"analyze btc"}`)
	if env := decodeEnvelope(t, rec); env.Status != http.StatusNotFound {
		t.Fatalf("envelope status = %d, want 404", env.Status)
	}
}

func TestRateLimit(t *testing.T) {
	h, e := newTestHandler(t)
	h.SetRateLimit(0.001, 1) // one request, effectively no refill

	first := doJSON(e, http.MethodGet, "/api/resolve?text=btc", "")
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d", first.Code)
	}
	if env := decodeEnvelope(t, first); env.Status != http.StatusOK {
		t.Fatalf("first envelope status = %d", env.Status)
	}

	second := doJSON(e, http.MethodGet, "/api/resolve?text=btc", "")
	if env := decodeEnvelope(t, second); env.Status != http.StatusTooManyRequests {
		t.Fatalf("second envelope status = %d, want 429", env.Status)
	}
}
