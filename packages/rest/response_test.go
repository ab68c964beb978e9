package rest

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeResponse(t *testing.T, status int, header http.Header, body string) *Response {
	t.Helper()
	return newResponse(&http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     header,
	}, []byte(body), 5*time.Millisecond)
}

func TestResponse_DecodedData(t *testing.T) {
	resp := makeResponse(t, 200, nil, `{"name": "widget", "tags": ["a", "b"]}`)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "widget", data["name"])
	assert.Equal(t, "b", resp.Get("tags.1").String())
}

func TestResponse_EmptyBodyDefaultsToEmptyObject(t *testing.T) {
	for _, body := range []string{"", "   ", "\n"} {
		resp := makeResponse(t, 204, nil, body)
		assert.Equal(t, map[string]any{}, resp.Data)
	}
}

func TestResponse_InvalidJSONFallsBack(t *testing.T) {
	resp := makeResponse(t, 200, nil, "<html>not json</html>")

	// Decoding degrades silently; the raw text stays available.
	assert.Equal(t, map[string]any{}, resp.Data)
	assert.Equal(t, "<html>not json</html>", resp.BodyString())
}

func TestResponse_HeaderLookupIsCaseInsensitive(t *testing.T) {
	header := http.Header{}
	header.Set("Content-Type", "application/json; charset=utf-8")
	header.Set("X-Rate-Limit", "100")
	resp := makeResponse(t, 200, header, "{}")

	assert.Equal(t, "application/json; charset=utf-8", resp.Header("content-type"))
	assert.Equal(t, "100", resp.Header("X-RATE-LIMIT"))
	assert.Empty(t, resp.Header("X-Missing"))
	assert.True(t, resp.IsJSON())

	// Stored keys are lower-cased, as received shapes go.
	_, ok := resp.Headers["content-type"]
	assert.True(t, ok)
}

func TestResponse_Decode(t *testing.T) {
	resp := makeResponse(t, 200, nil, `{"id": 7, "name": "widget"}`)

	var item struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, resp.Decode(&item))
	assert.Equal(t, 7, item.ID)
	assert.Equal(t, "widget", item.Name)

	bad := makeResponse(t, 200, nil, "nope")
	assert.Error(t, bad.Decode(&item))
}

func TestResponse_Classification(t *testing.T) {
	tests := []struct {
		statusCode  int
		success     bool
		redirect    bool
		clientError bool
		serverError bool
	}{
		{200, true, false, false, false},
		{204, true, false, false, false},
		{302, false, true, false, false},
		{404, false, false, true, false},
		{500, false, false, false, true},
	}

	for _, tt := range tests {
		resp := &Response{StatusCode: tt.statusCode}
		assert.Equal(t, tt.success, resp.IsSuccess(), "StatusCode: %d", tt.statusCode)
		assert.Equal(t, tt.redirect, resp.IsRedirect(), "StatusCode: %d", tt.statusCode)
		assert.Equal(t, tt.clientError, resp.IsClientError(), "StatusCode: %d", tt.statusCode)
		assert.Equal(t, tt.serverError, resp.IsServerError(), "StatusCode: %d", tt.statusCode)
	}
}

func TestResponse_DurationMs(t *testing.T) {
	resp := makeResponse(t, 200, nil, "{}")
	assert.Equal(t, int64(5), resp.DurationMs())
}
