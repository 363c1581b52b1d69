package router

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/webpp-sub002/corehttp/httpmsg"
	"github.com/webpp-sub002/corehttp/internal/obs"
)

// DynamicRouter holds a runtime-growable vector of type-erased Routes.
// Append order is evaluation order. A DynamicRouter is itself a Route —
// see route.go's doc comment — so it can be nested inside another
// router's route list.
type DynamicRouter struct {
	routes  []Route
	log     *logrus.Logger
	metrics *obs.Metrics
	desc    string
}

// NewDynamicRouter returns an empty DynamicRouter ready for Use.
func NewDynamicRouter() *DynamicRouter {
	return &DynamicRouter{}
}

// Use appends routes to the dispatch list, in order, and returns the
// router for chaining.
func (d *DynamicRouter) Use(routes ...Route) *DynamicRouter {
	d.routes = append(d.routes, routes...)
	return d
}

// WithLogger attaches the shared logger routes invoked from this router
// use for panic/error reporting.
func (d *DynamicRouter) WithLogger(log *logrus.Logger) *DynamicRouter {
	d.log = log
	return d
}

// WithMetrics attaches the Prometheus counters Serve increments once per
// top-level dispatch. A nil *obs.Metrics is valid: Observe no-ops.
func (d *DynamicRouter) WithMetrics(metrics *obs.Metrics) *DynamicRouter {
	d.metrics = metrics
	return d
}

// WithDescription sets what Describe() returns when this router is
// nested as a sub-route, instead of the concatenation of its own
// routes' descriptions.
func (d *DynamicRouter) WithDescription(desc string) *DynamicRouter {
	d.desc = desc
	return d
}

// Serve is the top-level entrypoint: it builds a Context, dispatches the
// route list, and — unlike Dispatch — falls back to 404 when nothing
// matched. This asymmetry (spec.md §4.8) is what lets the very same
// DynamicRouter type serve as either a standalone application or a
// silent sub-router nested inside a parent. Serve is also where metrics
// and structured logging are recorded — Dispatch, used only when this
// router is nested inside a parent, is not, since the parent's own
// Serve call already accounts for the whole request.
func (d *DynamicRouter) Serve(req *httpmsg.Request) *httpmsg.Response {
	start := time.Now()
	ctx := NewContext(req)
	runRoutesFrom(ctx, ctx.Traverser(), d.routes, d.log)
	if ctx.Response.Empty() {
		ctx.Response = NotFoundResponse()
	}
	ctx.Response.CalculateDefaultHeaders()
	ctx.Response.Headers.Set("X-Request-Id", ctx.RequestID)

	dur := time.Since(start)
	d.metrics.Observe(req.Method, ctx.Response.Headers.StatusCode, dur)
	obs.LogRequest(d.log, ctx.RequestID, req, ctx.Response, dur)

	return ctx.Response
}

// Dispatch runs this router's own routes against ctx, continuing from
// wherever the traverser currently sits (e.g. just past whatever prefix
// valve led to this sub-router being tried). It never emits a 404 on its
// own no-match — it simply leaves ctx.Response empty so the parent
// router can keep iterating its own remaining routes.
func (d *DynamicRouter) Dispatch(ctx *Context) {
	entry := ctx.Traverser().Branch()
	runRoutesFrom(ctx, entry, d.routes, d.log)
}

// Describe returns the router's own description if WithDescription was
// used, otherwise the concatenation of its routes' descriptions.
func (d *DynamicRouter) Describe() string {
	if d.desc != "" {
		return d.desc
	}
	return describeRoutes(d.routes)
}
