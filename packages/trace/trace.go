// Package trace prints one line per HTTP exchange, for debugging
// clients during development.
package trace

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/fubar/jrac/packages/rest"
)

const maxBodyPreview = 512

// Tracer renders exchanges to a writer.
type Tracer struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type Option func(*Tracer)

func New(opts ...Option) *Tracer {
	t := &Tracer{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func WithWriter(w io.Writer) Option {
	return func(t *Tracer) {
		t.writer = w
	}
}

// WithVerbose also prints a truncated response body.
func WithVerbose(v bool) Option {
	return func(t *Tracer) {
		t.verbose = v
	}
}

func WithNoColor(nc bool) Option {
	return func(t *Tracer) {
		t.noColor = nc
	}
}

// Hook adapts the tracer to a rest.ResponseHook.
func (t *Tracer) Hook() rest.ResponseHook {
	return func(req *http.Request, resp *rest.Response, err error, duration time.Duration) {
		t.trace(req, resp, err, duration)
	}
}

func (t *Tracer) trace(req *http.Request, resp *rest.Response, err error, duration time.Duration) {
	if resp == nil {
		fmt.Fprintf(t.writer, "%s %s %s (%s)\n",
			req.Method, req.URL, t.paint(color.FgRed, fmt.Sprintf("ERROR: %v", err)), duration.Round(time.Millisecond))
		return
	}

	status := fmt.Sprintf("%d", resp.StatusCode)
	switch {
	case resp.IsServerError():
		status = t.paint(color.FgRed, status)
	case resp.IsClientError():
		status = t.paint(color.FgYellow, status)
	default:
		status = t.paint(color.FgGreen, status)
	}

	fmt.Fprintf(t.writer, "%s %s %s (%s)\n", req.Method, req.URL, status, duration.Round(time.Millisecond))

	if t.verbose && len(resp.Body) > 0 {
		fmt.Fprintf(t.writer, "  %s\n", truncate(resp.BodyString(), maxBodyPreview))
	}
}

func (t *Tracer) paint(attr color.Attribute, s string) string {
	if t.noColor {
		return s
	}
	return color.New(attr).Sprint(s)
}

func truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
