package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/girlscollective/collective/internal/pkg/cache"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string]*Result
}

func (m *memoryCache) GetJSON(_ context.Context, key string, dst interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.data[key]
	if !ok {
		return cache.ErrMiss
	}
	*dst.(*Result) = *r
	return nil
}

func (m *memoryCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value.(*Result)
	return nil
}

func upstream(t *testing.T, status int, body string, hits *int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		if r.URL.Query().Get("key") != "test-key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLookupStatusMapping(t *testing.T) {
	ok := `{"status":"OK","results":[{"formatted_address":"Calle Mayor, Madrid","geometry":{"location":{"lat":40.41,"lng":-3.7}}}]}`
	cases := []struct {
		name     string
		location string
		key      string
		status   int
		body     string
		want     int
	}{
		{"missing location", "  ", "test-key", 200, ok, http.StatusBadRequest},
		{"missing key", "Calle Mayor", "", 200, ok, http.StatusInternalServerError},
		{"zero results", "Nowhere", "test-key", 200, `{"status":"ZERO_RESULTS","results":[]}`, http.StatusNotFound},
		{"denied", "Calle Mayor", "test-key", 200, `{"status":"REQUEST_DENIED","error_message":"bad key"}`, http.StatusBadGateway},
		{"upstream 500", "Calle Mayor", "test-key", 500, `oops`, http.StatusBadGateway},
		{"ok", "Calle Mayor", "test-key", 200, ok, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hits := 0
			srv := upstream(t, tc.status, tc.body, &hits)
			c := NewClient(srv.Client(), srv.URL, tc.key, nil, time.Hour, zerolog.Nop())
			_, err := c.Lookup(context.Background(), tc.location, "Madrid")
			require.Equal(t, tc.want, StatusFor(err))
		})
	}
}

func TestLookupUsesCache(t *testing.T) {
	hits := 0
	srv := upstream(t, 200, `{"status":"OK","results":[{"formatted_address":"Retiro, Madrid","geometry":{"location":{"lat":40.41,"lng":-3.68}}}]}`, &hits)
	c := NewClient(srv.Client(), srv.URL, "test-key", &memoryCache{data: map[string]*Result{}}, time.Hour, zerolog.Nop())

	first, err := c.Lookup(context.Background(), "Retiro", "Madrid")
	require.NoError(t, err)
	second, err := c.Lookup(context.Background(), "retiro", "madrid")
	require.NoError(t, err)

	require.Equal(t, 1, hits)
	require.Equal(t, first, second)
	require.Equal(t, "Retiro, Madrid", second.Formatted)
}

func TestQuery(t *testing.T) {
	require.Equal(t, "Retiro, Madrid", Query(" Retiro ", "Madrid"))
	require.Equal(t, "Retiro Madrid", Query("Retiro Madrid", "madrid"))
	require.Equal(t, "Retiro", Query("Retiro", ""))
}
