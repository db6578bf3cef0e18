package common_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/invoiceworks/backend-invoicing/internal/common"
)

func TestIdemMiddlewareRejectsReplay(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	idem := common.Idem{R: rdb, TTL: time.Minute}
	calls := 0
	srv := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	post := func(key string) int {
		req := httptest.NewRequest(http.MethodPost, "/invoices", nil)
		if key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, req)
		return rr.Code
	}

	require.Equal(t, http.StatusCreated, post("abc-123"))
	require.Equal(t, http.StatusConflict, post("abc-123"))
	require.Equal(t, 1, calls)

	// a fresh key goes through
	require.Equal(t, http.StatusCreated, post("def-456"))
	require.Equal(t, 2, calls)

	// no header means no idempotency semantics
	require.Equal(t, http.StatusCreated, post(""))
	require.Equal(t, http.StatusCreated, post(""))
}

func TestIdemKeyExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	idem := common.Idem{R: rdb, TTL: time.Minute}
	srv := idem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/payments", nil)
	req.Header.Set("Idempotency-Key", "retry-me")
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	mr.FastForward(2 * time.Minute)

	rr = httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)
}
