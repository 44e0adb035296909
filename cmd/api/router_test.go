package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-pricing/internal/cart"
	"github.com/noah-isme/toko-pricing/internal/common"
	"github.com/noah-isme/toko-pricing/internal/health"
	"github.com/noah-isme/toko-pricing/internal/obs"
	"github.com/noah-isme/toko-pricing/internal/ratelimit"
	"github.com/noah-isme/toko-pricing/internal/security"
)

type testServer struct {
	srv     *httptest.Server
	metrics *obs.HTTPMetrics
}

func newTestServer(t *testing.T, rpm int) testServer {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, err := ratelimit.NewStore(client, "test:ratelimit")
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics := obs.NewHTTPMetrics("router_test", nil, reg)
	router := newRouter(routerDeps{
		Logger:      zerolog.New(io.Discard),
		HTTPMetrics: metrics,
		Metrics:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Headers:     security.Headers{Enable: true},
		BodyLimit:   security.BodyLimit{Max: 1 << 16},
		RateLimit:   ratelimit.Handler{Limiter: ratelimit.New(store, rpm, time.Minute), Key: ratelimit.KeyByClientIP},
		Idem:        common.Idem{R: client, TTL: time.Minute},
		Health:      health.Handler{Checker: health.RedisChecker{Client: client}},
		Cart:        &cart.Handler{Svc: cart.NewService(time.Hour)},
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return testServer{srv: srv, metrics: metrics}
}

func (ts testServer) do(t *testing.T, method, path, body string, headers map[string]string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, reader)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := ts.srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestRouterHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, 100)

	resp := ts.do(t, http.MethodGet, "/health/live", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/api/v1/carts", "", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	require.NotEmpty(t, resp.Header.Get("X-RateLimit-Limit"))

	require.Positive(t, testutil.CollectAndCount(ts.metrics.ReqTotal))

	resp = ts.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "router_test_http_requests_total")
}

func TestRouterIdempotentCartCreation(t *testing.T) {
	ts := newTestServer(t, 100)
	headers := map[string]string{common.IdempotencyHeader: "create-1"}

	resp := ts.do(t, http.MethodPost, "/api/v1/carts", "", headers)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/api/v1/carts", "", headers)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRouterRateLimit(t *testing.T) {
	ts := newTestServer(t, 2)
	quote := `{"items":[{"name":"Bag","category":"Accessories","price":"640","quantity":1}],"campaigns":[]}`
	for i := 0; i < 2; i++ {
		resp := ts.do(t, http.MethodPost, "/api/v1/pricing/quote", quote, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp := ts.do(t, http.MethodPost, "/api/v1/pricing/quote", quote, nil)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/health/live", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
