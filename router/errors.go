package router

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/webpp-sub002/corehttp/body"
	"github.com/webpp-sub002/corehttp/httpmsg"
)

// ErrCrossTalk re-exports body's cross-talk sentinel under the routing
// core's error taxonomy (spec.md §7): a body communicator operation
// requested a variant that cannot serve the call.
var ErrCrossTalk = body.ErrCrossTalk

// NotFoundResponse builds the 404 a router emits when no route produced
// a response.
func NotFoundResponse() *httpmsg.Response {
	resp := httpmsg.NewResponse()
	resp.SetStatus(404)
	resp.Body.Append([]byte("<html><body><h1>404 Not Found</h1></body></html>"))
	resp.CalculateDefaultHeaders()
	return resp
}

// InternalErrorResponse builds the 500 the route-invocation boundary
// substitutes for a handler panic or error, logging the cause via the
// shared logger (spec.md §5: the logger is the only intentionally
// shared mutable sink).
func InternalErrorResponse(log *logrus.Logger, cause any) *httpmsg.Response {
	if log != nil {
		log.WithField("cause", fmt.Sprint(cause)).Error("router: handler panicked, returning 500")
	}
	resp := httpmsg.NewResponse()
	resp.SetStatus(500)
	resp.Body.Append([]byte("<html><body><h1>500 Internal Server Error</h1></body></html>"))
	resp.CalculateDefaultHeaders()
	return resp
}
