package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fubar/jrac/packages/rest"
)

func TestRecorder_Record(t *testing.T) {
	rec := NewRecorder()
	rec.Record(10*time.Millisecond, nil)
	rec.Record(20*time.Millisecond, nil)
	rec.Record(30*time.Millisecond, errors.New("boom"))

	s := rec.Summary()
	assert.Equal(t, int64(3), s.Count)
	assert.Equal(t, int64(1), s.Errors)
	assert.InDelta(t, 10*time.Millisecond, s.Min, float64(time.Millisecond))
	assert.InDelta(t, 30*time.Millisecond, s.Max, float64(time.Millisecond))
	assert.InDelta(t, 20*time.Millisecond, s.Mean, float64(2*time.Millisecond))
	assert.GreaterOrEqual(t, s.P99, s.P50)
	assert.Greater(t, s.RPS, 0.0)
}

func TestRecorder_EmptySummary(t *testing.T) {
	s := NewRecorder().Summary()
	assert.Equal(t, int64(0), s.Count)
	assert.Equal(t, time.Duration(0), s.P50)
}

func TestRecorder_Reset(t *testing.T) {
	rec := NewRecorder()
	rec.Record(5*time.Millisecond, nil)
	rec.Reset()

	s := rec.Summary()
	assert.Equal(t, int64(0), s.Count)
	assert.Equal(t, int64(0), s.Errors)
}

func TestRecorder_AsClientHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	rec := NewRecorder()
	client, err := rest.NewClient(server.URL, rest.WithResponseHook(rec.Hook()))
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "ok", nil, nil)
	require.NoError(t, err)
	_, err = client.Get(context.Background(), "missing", nil, nil)
	require.Error(t, err)

	s := rec.Summary()
	assert.Equal(t, int64(2), s.Count)
	assert.Equal(t, int64(1), s.Errors)
	assert.Greater(t, s.Max, time.Duration(0))
}
