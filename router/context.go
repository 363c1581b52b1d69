// Package router implements the routing core: a Context carried through
// route dispatch, a Route type combining a valve with a handler, and
// both the static (fixed at construction) and dynamic (growable at
// runtime) routers described in spec.md §4.7-4.8.
package router

import (
	"github.com/google/uuid"

	"github.com/webpp-sub002/corehttp/httpmsg"
	"github.com/webpp-sub002/corehttp/uri"
)

// RouteDescriber is satisfied by anything that can render a
// human-readable description of itself for introspection/debugging. It
// is never consulted for dispatch.
type RouteDescriber interface {
	Describe() string
}

// Context is the per-request state passed to route handlers: the
// request, the response being built, a path traverser reset at the
// start of each route's evaluation, and the route currently being
// dispatched (for introspection/error messages only — it is never
// dereferenced beyond the request's lifetime).
type Context struct {
	Request      *httpmsg.Request
	Response     *httpmsg.Response
	RequestID    string
	CurrentRoute RouteDescriber

	traverser *uri.Traverser
	path      string
}

// NewContext builds a fresh Context for req: an empty Response, a
// traverser positioned at the beginning of the request's decoded path,
// and a newly minted request id for logging/correlation.
func NewContext(req *httpmsg.Request) *Context {
	path := req.URI
	if target, err := uri.ParseTarget(req.URI); err == nil {
		path = target.Path
	}
	return &Context{
		Request:   req,
		Response:  httpmsg.NewResponse(),
		RequestID: uuid.NewString(),
		traverser: uri.NewTraverser(path),
		path:      path,
	}
}

// RequestMethod satisfies valve.Context.
func (c *Context) RequestMethod() string {
	return c.Request.Method
}

// Traverser satisfies valve.Context and gives handlers access to the
// same traverser valves advance.
func (c *Context) Traverser() *uri.Traverser {
	return c.traverser
}

// ResetTraverser moves the traverser back to the beginning of the
// request path. The routers do not call it: runRoutesFrom instead gives
// each route attempt its own branch of the traverser's starting position.
func (c *Context) ResetTraverser() {
	c.traverser.Reset()
}
