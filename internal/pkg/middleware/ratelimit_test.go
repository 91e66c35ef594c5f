package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"invfisico/internal/pkg/cache"
	"invfisico/internal/pkg/middleware"
)

// stubCache é uma implementação de cache.Client controlável pelos testes.
type stubCache struct {
	count  int
	getErr error
}

func (s *stubCache) Get(ctx context.Context, key string) (string, error) { return "", s.getErr }
func (s *stubCache) GetInt(ctx context.Context, key string) (int, error) {
	if s.getErr != nil {
		return 0, s.getErr
	}
	return s.count, nil
}
func (s *stubCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}
func (s *stubCache) Incr(ctx context.Context, key string) error { return nil }
func (s *stubCache) Delete(ctx context.Context, key string) error { return nil }

func limitedHandler(client cache.Client, limit int) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return middleware.RateLimiter(client, limit, time.Minute)(next)
}

// TestRateLimiter_UnderLimit testa que requisições abaixo do limite passam.
func TestRateLimiter_UnderLimit(t *testing.T) {
	handler := limitedHandler(&stubCache{count: 3}, 10)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "6", rec.Header().Get("X-RateLimit-Remaining"))
}

// TestRateLimiter_OverLimit testa a rejeição com 429 ao atingir o limite.
func TestRateLimiter_OverLimit(t *testing.T) {
	handler := limitedHandler(&stubCache{count: 10}, 10)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

// TestRateLimiter_CacheMiss testa a primeira requisição de um IP.
func TestRateLimiter_CacheMiss(t *testing.T) {
	handler := limitedHandler(&stubCache{getErr: cache.ErrCacheMiss}, 10)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "9", rec.Header().Get("X-RateLimit-Remaining"))
}

// TestRateLimiter_CacheDown testa que uma falha do Redis não derruba a
// requisição: sem contador disponível, o escaneo passa.
func TestRateLimiter_CacheDown(t *testing.T) {
	handler := limitedHandler(&stubCache{getErr: errors.New("connection refused")}, 10)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.3:5000"
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
