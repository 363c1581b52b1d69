package router

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/webpp-sub002/corehttp/httpmsg"
	"github.com/webpp-sub002/corehttp/internal/obs"
)

// StaticRouter holds a fixed, compile-time-composed list of routes: the
// Go analogue of the source's tuple-of-routes, built once at
// construction (no Append) and never mutated — an implementer imitating
// the source's monomorphized dispatch without variadic heterogeneous
// tuples, which Go does not have.
type StaticRouter struct {
	routes  []Route
	log     *logrus.Logger
	metrics *obs.Metrics
}

// NewStaticRouter freezes routes, in order, as the router's dispatch
// list.
func NewStaticRouter(routes ...Route) *StaticRouter {
	frozen := make([]Route, len(routes))
	copy(frozen, routes)
	return &StaticRouter{routes: frozen}
}

// WithLogger attaches the shared logger routes invoked from this router
// use for panic/error reporting.
func (s *StaticRouter) WithLogger(log *logrus.Logger) *StaticRouter {
	s.log = log
	return s
}

// WithMetrics attaches the Prometheus counters Serve increments once per
// dispatch. A nil *obs.Metrics (the zero value of this field) is valid:
// Observe no-ops.
func (s *StaticRouter) WithMetrics(metrics *obs.Metrics) *StaticRouter {
	s.metrics = metrics
	return s
}

// Serve builds a Context for req, dispatches the route list in order,
// stopping at the first non-empty response, and falls back to 404 if
// nothing matched. Before returning it records the dispatch's duration
// and outcome to the router's metrics and logger, if any are attached,
// and stamps the response with the request's correlation id.
func (s *StaticRouter) Serve(req *httpmsg.Request) *httpmsg.Response {
	start := time.Now()
	ctx := NewContext(req)
	runRoutesFrom(ctx, ctx.Traverser(), s.routes, s.log)
	if ctx.Response.Empty() {
		ctx.Response = NotFoundResponse()
	}
	ctx.Response.CalculateDefaultHeaders()
	ctx.Response.Headers.Set("X-Request-Id", ctx.RequestID)

	dur := time.Since(start)
	s.metrics.Observe(req.Method, ctx.Response.Headers.StatusCode, dur)
	obs.LogRequest(s.log, ctx.RequestID, req, ctx.Response, dur)

	return ctx.Response
}

// Describe concatenates each route's description, one per line, for
// debugging/introspection.
func (s *StaticRouter) Describe() string {
	return describeRoutes(s.routes)
}
