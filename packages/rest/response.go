package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Response is the normalized result of one exchange. Headers are keyed
// by lower-cased name. Data holds the JSON-decoded body; when the body
// is empty or not valid JSON, Data degrades to an empty object and the
// raw bytes stay available in Body.
type Response struct {
	StatusCode int
	Status     string
	Headers    map[string]string
	Body       []byte
	Data       any
	Duration   time.Duration
}

func newResponse(httpResp *http.Response, raw []byte, duration time.Duration) *Response {
	headers := make(map[string]string, len(httpResp.Header))
	for k, vs := range httpResp.Header {
		headers[strings.ToLower(k)] = strings.Join(vs, ", ")
	}
	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    headers,
		Body:       raw,
		Data:       decodeBody(raw),
		Duration:   duration,
	}
}

func decodeBody(raw []byte) any {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return map[string]any{}
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return map[string]any{}
	}
	return v
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

// Header looks up a response header case-insensitively.
func (r *Response) Header(key string) string {
	return r.Headers[strings.ToLower(key)]
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

func (r *Response) IsJSON() bool {
	return strings.Contains(r.ContentType(), "application/json")
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}

// Get extracts a value from the JSON body by gjson path, e.g.
// "items.0.name".
func (r *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

// Decode unmarshals the JSON body into dst.
func (r *Response) Decode(dst any) error {
	if err := json.Unmarshal(r.Body, dst); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}
