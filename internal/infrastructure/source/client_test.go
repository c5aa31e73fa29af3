package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fusionatlas/fusion-catalog/internal/config"
	"github.com/fusionatlas/fusion-catalog/internal/infrastructure/monitoring/logging"
	"github.com/fusionatlas/fusion-catalog/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(config.SourceConfig{
		URL:     srv.URL,
		Timeout: 5 * time.Second,
	}, logging.NewNopLogger())
	return c, srv
}

func TestClient_FetchSuccess(t *testing.T) {
	var gotAccept, gotUA string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"companies": [
			{"name": "Helion Energy", "fuel_source": "D-He3"},
			{"name": "Zap Energy"}
		]}`))
	})

	items, err := c.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "Helion Energy", items[0]["name"])
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, config.DefaultUserAgent, gotUA)
}

func TestClient_FetchEmptyListIsNotAnError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"companies": []}`))
	})

	items, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on

	c := NewClient(config.SourceConfig{URL: srv.URL, Timeout: time.Second}, logging.NewNopLogger())

	_, err := c.Fetch(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceUnavailable))
}

func TestClient_BadStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	})

	_, err := c.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceBadStatus))
	assert.Contains(t, err.Error(), "status=500")
}

func TestClient_MalformedJSON(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"companies": [truncated`))
	})

	_, err := c.Fetch(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceDecode))
}

func TestClient_MissingCompaniesKey(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data": []}`))
	})

	_, err := c.Fetch(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceMissingKey))
}

func TestClient_ContextCancellation(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"companies": []}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Fetch(ctx)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceUnavailable))
}

func TestClient_AllSourceErrorsAreSourceFailures(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Fetch(context.Background())
	assert.True(t, errors.IsSourceFailure(err))
}
