package router

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/webpp-sub002/corehttp/uri"
)

// runRoutesFrom iterates routes in order, restoring ctx's traverser to
// an independent branch of checkpoint before each attempt. Branching
// rather than resetting in place means a route that advances the
// traverser while ultimately failing to produce a response never leaks
// that mutation into the next route's attempt — the same contract
// spec.md §4.6 asks of valve authors for `||`.
//
// It stops at the first route that leaves ctx.Response non-empty,
// leaving the traverser exactly where that winning route left it.
func runRoutesFrom(ctx *Context, checkpoint *uri.Traverser, routes []Route, log *logrus.Logger) {
	for _, route := range routes {
		ctx.traverser = checkpoint.Branch()
		dispatchSafely(ctx, route, log)
		if !ctx.Response.Empty() {
			return
		}
	}
}

// dispatchSafely invokes route.Dispatch, converting a handler panic into
// a 500 response at this route-invocation boundary (spec.md §7).
func dispatchSafely(ctx *Context, route Route, log *logrus.Logger) {
	defer func() {
		if rec := recover(); rec != nil {
			ctx.Response = InternalErrorResponse(log, rec)
		}
	}()
	route.Dispatch(ctx)
}

// describeRoutes concatenates each route's Describe() output, one per
// line, the shared implementation behind both router types' Describe.
func describeRoutes(routes []Route) string {
	var b strings.Builder
	for i, r := range routes {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(r.Describe())
	}
	return b.String()
}
