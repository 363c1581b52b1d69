package router

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/webpp-sub002/corehttp/httpmsg"
	"github.com/webpp-sub002/corehttp/valve"
)

func TestDynamicRouterScenarioRootGet(t *testing.T) {
	r := NewDynamicRouter().Use(
		NewRoute(valve.Get, respondWith("hi")),
	)

	req := httpmsg.NewRequest("GET", "/", httpmsg.HTTP11)
	resp := r.Serve(req)

	require.Equal(t, 200, resp.Headers.StatusCode)
	require.Equal(t, "hi", bodyString(t, resp))
}

func TestDynamicRouterZeroRoutesIs404(t *testing.T) {
	r := NewDynamicRouter()
	req := httpmsg.NewRequest("GET", "/", httpmsg.HTTP11)
	resp := r.Serve(req)
	require.Equal(t, 404, resp.Headers.StatusCode)
}

func TestDynamicRouterFailedPrefixValveSkipsSubRouter(t *testing.T) {
	sub := NewDynamicRouter().Use(
		NewRoute(valve.Segment("users"), respondWith("users list")),
	)

	parent := NewDynamicRouter().Use(
		NewRoute(valve.Segment("api"), HandlerFunc(func(ctx *Context) any {
			sub.Dispatch(ctx)
			return nil
		})),
		NewRoute(valve.Root(), respondWith("fallback")),
	)

	req := httpmsg.NewRequest("GET", "/other", httpmsg.HTTP11)
	resp := parent.Serve(req)

	// /other doesn't match /api, so the first parent route's valve fails
	// before the sub-router ever runs, and the second parent route's
	// catch-all fires instead of a 404.
	require.Equal(t, 200, resp.Headers.StatusCode)
	require.Equal(t, "fallback", bodyString(t, resp))
}

func TestDynamicRouterNestedSubRouterContinuesFromPrefix(t *testing.T) {
	sub := NewDynamicRouter().Use(
		NewRoute(valve.Segment("users"), respondWith("users list")),
	)

	parent := NewDynamicRouter().Use(
		NewRoute(valve.Segment("api"), HandlerFunc(func(ctx *Context) any {
			sub.Dispatch(ctx)
			return nil
		})),
	)

	req := httpmsg.NewRequest("GET", "/api/users", httpmsg.HTTP11)
	resp := parent.Serve(req)

	require.Equal(t, 200, resp.Headers.StatusCode)
	require.Equal(t, "users list", bodyString(t, resp))
}

func TestDynamicRouterSubRouterNoMatchLetsParentContinue(t *testing.T) {
	sub := NewDynamicRouter().Use(
		NewRoute(valve.Segment("users"), respondWith("users list")),
	)

	parent := NewDynamicRouter().Use(
		NewRoute(valve.Segment("api"), HandlerFunc(func(ctx *Context) any {
			sub.Dispatch(ctx)
			return nil
		})),
		NewRoute(valve.Root(), respondWith("catch-all")),
	)

	req := httpmsg.NewRequest("GET", "/api/missing", httpmsg.HTTP11)
	resp := parent.Serve(req)

	require.Equal(t, 200, resp.Headers.StatusCode)
	require.Equal(t, "catch-all", bodyString(t, resp))
}

func TestDynamicRouterDescribeConcatenatesRoutes(t *testing.T) {
	r := NewDynamicRouter().Use(
		NewRoute(valve.Get, respondWith("a"), "GET /"),
		NewRoute(valve.Post, respondWith("b"), "POST /"),
	)
	require.Equal(t, "GET /\nPOST /", r.Describe())
}
