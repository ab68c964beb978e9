package mock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

// Response is a canned HTTP response.
type Response struct {
	StatusCode  int
	ContentType string
	Headers     map[string]string
	Body        string
}

// JSON builds a canned application/json response from any value.
func JSON(status int, v any) *Response {
	b, err := json.Marshal(v)
	if err != nil {
		b = []byte(`{"error": "unencodable stub"}`)
	}
	return &Response{
		StatusCode:  status,
		ContentType: "application/json",
		Body:        string(b),
	}
}

// Text builds a canned text/plain response.
func Text(status int, body string) *Response {
	return &Response{
		StatusCode:  status,
		ContentType: "text/plain",
		Body:        body,
	}
}

// Route binds a method and path pattern to a canned response. Patterns
// may contain {name} segments that match a single path segment; captured
// values substitute {name} placeholders in the response body.
type Route struct {
	Method    string
	Pattern   string
	pathRegex *regexp.Regexp
	Response  *Response
}

// Router matches incoming requests to routes.
type Router struct {
	routes []*Route
}

// NewRouter creates a new router
func NewRouter() *Router {
	return &Router{
		routes: make([]*Route, 0),
	}
}

var paramPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Handle registers a canned response for method and pattern.
func (r *Router) Handle(method, pattern string, resp *Response) *Router {
	route := &Route{
		Method:   strings.ToUpper(method),
		Pattern:  normalizePath(pattern),
		Response: resp,
	}
	if strings.Contains(pattern, "{") {
		// QuoteMeta escapes the braces, undo that before substituting params.
		quoted := strings.NewReplacer(`\{`, "{", `\}`, "}").Replace(regexp.QuoteMeta(route.Pattern))
		expr := "^" + paramPattern.ReplaceAllString(quoted, `(?P<$1>[^/]+)`) + "$"
		route.pathRegex = regexp.MustCompile(expr)
	}
	r.routes = append(r.routes, route)
	return r
}

// Match finds a route matching the given method and path
func (r *Router) Match(method, path string) (*Route, map[string]string) {
	path = normalizePath(path)

	for _, route := range r.routes {
		if !strings.EqualFold(route.Method, method) {
			continue
		}
		if params := matchPath(route, path); params != nil {
			return route, params
		}
	}

	return nil, nil
}

// ServeHTTP implements http.Handler so the router can be mounted on an
// httptest server or wrapped by Server.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	route, params := r.Match(req.Method, req.URL.Path)
	if route == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, `{"error": "no route for %s %s"}`, req.Method, req.URL.Path)
		return
	}

	resp := route.Response
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)

	body := resp.Body
	for name, value := range params {
		body = strings.ReplaceAll(body, "{"+name+"}", value)
	}
	_, _ = w.Write([]byte(body))
}

func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return path
}

func matchPath(route *Route, path string) map[string]string {
	if route.pathRegex != nil {
		matches := route.pathRegex.FindStringSubmatch(path)
		if matches == nil {
			return nil
		}
		params := make(map[string]string)
		for i, name := range route.pathRegex.SubexpNames() {
			if i > 0 && name != "" && i < len(matches) {
				params[name] = matches[i]
			}
		}
		return params
	}

	if route.Pattern == path {
		return make(map[string]string)
	}

	return nil
}
