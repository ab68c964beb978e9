package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
)

func (c *Client) buildRequest(ctx context.Context, method, path string, query map[string]string, body any, headers map[string]string) (*http.Request, error) {
	target := url.URL{
		Scheme: c.scheme,
		Host:   c.hostPort(),
		Path:   joinPath(c.basePath, path),
	}

	q := make(url.Values, len(c.defaultQuery)+len(query))
	for k, vs := range c.defaultQuery {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	for k, v := range query {
		q.Set(k, v)
	}
	if len(q) > 0 {
		target.RawQuery = q.Encode()
	}

	var payload []byte
	var bodyReader io.Reader
	if !emptyBody(body) {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = b
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), target.String(), bodyReader)
	if err != nil {
		return nil, err
	}

	// Header.Set canonicalizes keys, so "accept" and "Accept" collide.
	for k, v := range c.defaultHeaders {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if c.keepAlive {
		req.Header.Set("Connection", "keep-alive")
	}
	if payload != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	// Content-Length is computed by net/http from the bytes.Reader.

	if c.requestIDHeader != "" && req.Header.Get(c.requestIDHeader) == "" {
		req.Header.Set(c.requestIDHeader, c.newRequestID())
	}

	return req, nil
}

// joinPath joins the base path and a call path with exactly one slash
// between segments, collapsing repeated separators.
func joinPath(base, path string) string {
	b := strings.Trim(base, "/")
	p := strings.Trim(path, "/")
	joined := "/" + b
	if b != "" && p != "" {
		joined += "/"
	}
	joined += p
	for strings.Contains(joined, "//") {
		joined = strings.ReplaceAll(joined, "//", "/")
	}
	return joined
}

// emptyBody reports whether a body value should be omitted: nil, nil
// pointers/interfaces, and zero-length maps, slices and strings send no
// body and no content headers.
func emptyBody(body any) bool {
	if body == nil {
		return true
	}
	rv := reflect.ValueOf(body)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return emptyBody(rv.Elem().Interface())
	case reflect.Map, reflect.Slice, reflect.Array, reflect.String:
		return rv.Len() == 0
	}
	return false
}
