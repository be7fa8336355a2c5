package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitIdempotent(t *testing.T) {
	Init()
	Init()

	if upstreamRequestsTotal == nil || websiteFetchesTotal == nil || leadsEmittedTotal == nil {
		t.Fatal("Init() did not initialize metrics collectors")
	}
}

func TestObserveUpstream(t *testing.T) {
	before := testutil.ToFloat64(upstreamRequestsTotalFor("nearbysearch", "OK"))
	ObserveUpstream("nearbysearch", "OK")
	ObserveUpstream("nearbysearch", "OK")
	assert.InDelta(t, before+2, testutil.ToFloat64(upstreamRequestsTotalFor("nearbysearch", "OK")), 0.001)
}

func TestObserveCounters(t *testing.T) {
	Init()

	emitted := testutil.ToFloat64(leadsEmittedTotal)
	ObserveLeadsEmitted(3)
	assert.InDelta(t, emitted+3, testutil.ToFloat64(leadsEmittedTotal), 0.001)

	claimed := testutil.ToFloat64(duplicatesDroppedTotal.WithLabelValues("claim"))
	ObserveDuplicate("claim", 2)
	assert.InDelta(t, claimed+2, testutil.ToFloat64(duplicatesDroppedTotal.WithLabelValues("claim")), 0.001)

	fetched := testutil.ToFloat64(websiteFetchesTotal.WithLabelValues("analyzed"))
	ObserveWebsiteFetch("analyzed", 150*time.Millisecond)
	assert.InDelta(t, fetched+1, testutil.ToFloat64(websiteFetchesTotal.WithLabelValues("analyzed")), 0.001)

	IncActiveWorkers()
	assert.InDelta(t, 1, testutil.ToFloat64(enrichActiveWorkers), 0.001)
	DecActiveWorkers()
	assert.InDelta(t, 0, testutil.ToFloat64(enrichActiveWorkers), 0.001)
}

func TestRouter(t *testing.T) {
	ObserveUpstream("details", "OK")
	router := NewRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "leadgen_upstream_requests_total")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListenAndShutdown(t *testing.T) {
	srv, err := Listen("127.0.0.1:0")
	require.NoError(t, err)

	resp, err := http.Get("http://" + srv.Addr() + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "ok"))

	require.NoError(t, srv.Shutdown(context.Background()))
}

func upstreamRequestsTotalFor(endpoint, status string) prometheus.Counter {
	Init()
	return upstreamRequestsTotal.WithLabelValues(endpoint, status)
}
