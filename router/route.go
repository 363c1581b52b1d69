package router

import (
	"github.com/webpp-sub002/corehttp/valve"
)

// Route is the unit both routers dispatch: something that can decide
// whether it participates in the current request and, if so, act on the
// context. A nested *DynamicRouter satisfies this interface directly —
// see dynamic.go — which is how this Go implementation expresses
// spec.md's "a router is itself a valve (it can be nested inside
// another router)": a bare boolean valve cannot itself produce a
// response, so the composable unit routers actually append is Route,
// not valve.Valve alone.
type Route interface {
	// Dispatch evaluates the route's valve against ctx and, if it
	// passes, invokes the route's action. It must leave ctx.Response
	// untouched when the valve does not pass.
	Dispatch(ctx *Context)
	Describe() string
}

// valveRoute is a valve + handler pair, the ordinary (valve >> handler)
// route spec.md §4.7 describes.
type valveRoute struct {
	v    valve.Valve
	h    HandlerFunc
	desc string
}

// NewRoute pairs v with h. desc, if non-empty, is what Describe()
// returns; otherwise a generic placeholder is used.
func NewRoute(v valve.Valve, h HandlerFunc, desc ...string) Route {
	r := &valveRoute{v: v, h: h}
	if len(desc) > 0 {
		r.desc = desc[0]
	}
	return r
}

func (r *valveRoute) Dispatch(ctx *Context) {
	if !r.v.Evaluate(ctx) {
		return
	}
	ctx.CurrentRoute = r
	result := r.h(ctx)
	applyResult(ctx, result)
}

func (r *valveRoute) Describe() string {
	if r.desc != "" {
		return r.desc
	}
	return "route"
}
