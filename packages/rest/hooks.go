package rest

import (
	"net/http"
	"time"
)

// RequestHook runs before each request is sent. Returning an error
// aborts the call.
type RequestHook func(*http.Request) error

// ResponseHook runs after each exchange. resp is nil when the failure
// happened at the transport level; err is nil for responses with
// status < 400.
type ResponseHook func(req *http.Request, resp *Response, err error, duration time.Duration)
