package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard/backend/internal/api"
	"github.com/pulseboard/backend/internal/middleware"
)

type fakeCounter struct {
	counts    map[string]int64
	ttls      map[string]time.Duration
	incrErr   error
	expireErr error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{
		counts: make(map[string]int64),
		ttls:   make(map[string]time.Duration),
	}
}

func (f *fakeCounter) Incr(_ context.Context, key string) *redis.IntCmd {
	if f.incrErr != nil {
		return redis.NewIntResult(0, f.incrErr)
	}
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeCounter) ExpireNX(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	if f.expireErr != nil {
		return redis.NewBoolResult(false, f.expireErr)
	}
	if _, ok := f.ttls[key]; !ok {
		f.ttls[key] = expiration
		return redis.NewBoolResult(true, nil)
	}
	return redis.NewBoolResult(false, nil)
}

func limitedHandler(rdb middleware.RateLimitClient, limit int) http.Handler {
	respond := api.NewResponder(false, zerolog.Nop())
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	return middleware.RateLimit(rdb, "login", limit, respond, zerolog.Nop())(inner)
}

func hit(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = remoteAddr
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func TestRateLimit_NilClientPassthrough(t *testing.T) {
	h := limitedHandler(nil, 1)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1234").Code)
	}
}

func TestRateLimit_OverLimit(t *testing.T) {
	fake := newFakeCounter()
	h := limitedHandler(fake, 3)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1234").Code)
	}
	resp := hit(h, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Contains(t, resp.Body.String(), "Too many requests")

	// The counter key carries the window TTL.
	require.Len(t, fake.ttls, 1)
	for _, ttl := range fake.ttls {
		assert.Equal(t, time.Minute, ttl)
	}
}

func TestRateLimit_PerIPIsolation(t *testing.T) {
	fake := newFakeCounter()
	h := limitedHandler(fake, 1)

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:9999").Code,
		"same IP on another port shares the counter")
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.2:1234").Code,
		"a different IP gets its own window")
}

func TestRateLimit_FailsOpenOnRedisError(t *testing.T) {
	fake := newFakeCounter()
	fake.incrErr = errors.New("dial tcp: connection refused")
	h := limitedHandler(fake, 1)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1234").Code,
			"an unreachable counter never blocks traffic")
	}
}

func TestRateLimit_ExpireErrorStillCounts(t *testing.T) {
	fake := newFakeCounter()
	fake.expireErr = errors.New("i/o timeout")
	h := limitedHandler(fake, 1)

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:1234").Code)
}
