package mock

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fubar/jrac/packages/rest"
)

func TestRouter_ExactMatch(t *testing.T) {
	router := NewRouter().
		Handle("GET", "/items", JSON(200, map[string]any{"items": []string{"a"}}))

	route, params := router.Match("GET", "/items")
	require.NotNil(t, route)
	assert.Empty(t, params)

	route, _ = router.Match("POST", "/items")
	assert.Nil(t, route)

	route, _ = router.Match("GET", "/other")
	assert.Nil(t, route)
}

func TestRouter_ParamMatch(t *testing.T) {
	router := NewRouter().
		Handle("GET", "/items/{id}", JSON(200, map[string]string{"id": "{id}"}))

	route, params := router.Match("GET", "/items/42")
	require.NotNil(t, route)
	assert.Equal(t, map[string]string{"id": "42"}, params)

	route, _ = router.Match("GET", "/items/42/extra")
	assert.Nil(t, route)
}

func TestRouter_TrailingSlashNormalized(t *testing.T) {
	router := NewRouter().Handle("GET", "items/", Text(200, "ok"))

	route, _ := router.Match("GET", "/items")
	assert.NotNil(t, route)
}

func TestRouter_ServeHTTP(t *testing.T) {
	router := NewRouter().
		Handle("GET", "/items/{id}", JSON(200, map[string]string{"id": "{id}", "name": "widget"}))

	server := httptest.NewServer(router)
	defer server.Close()

	resp, err := http.Get(server.URL + "/items/42")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"id": "42", "name": "widget"}`, string(body))

	resp, err = http.Get(server.URL + "/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 404, resp.StatusCode)
}

func TestRouter_WithRestClient(t *testing.T) {
	router := NewRouter().
		Handle("GET", "/v1/users/{id}", JSON(200, map[string]string{"id": "{id}"})).
		Handle("DELETE", "/v1/users/{id}", JSON(200, map[string]bool{"deleted": true}))

	server := httptest.NewServer(router)
	defer server.Close()

	client, err := rest.NewClient(server.URL + "/v1")
	require.NoError(t, err)

	resp, err := client.Get(context.Background(), "users/7", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "7", resp.Get("id").String())

	resp, err = client.Delete(context.Background(), "users/7", nil, nil)
	require.NoError(t, err)
	assert.True(t, resp.Get("deleted").Bool())
}

func TestServer_Delay(t *testing.T) {
	router := NewRouter().Handle("GET", "/ping", Text(200, "pong"))
	srv := NewServer(router, WithDelay(20*time.Millisecond))

	ts := httptest.NewServer(srv)
	defer ts.Close()

	start := time.Now()
	resp, err := http.Get(ts.URL + "/ping")
	require.NoError(t, err)
	resp.Body.Close()
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}
