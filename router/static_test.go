package router

import (
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/webpp-sub002/corehttp/httpmsg"
	"github.com/webpp-sub002/corehttp/internal/obs"
	"github.com/webpp-sub002/corehttp/valve"
)

func respondWith(text string) HandlerFunc {
	return func(ctx *Context) any { return text }
}

func bodyString(t *testing.T, resp *httpmsg.Response) string {
	t.Helper()
	buf := make([]byte, 1024)
	n, err := resp.Body.Read(buf)
	if err != nil && err != io.EOF {
		t.Fatal(err)
	}
	return string(buf[:n])
}

func TestStaticRouterScenarioPageMatches(t *testing.T) {
	r := NewStaticRouter(
		NewRoute(valve.Segment("page"), respondWith("page 1")),
		NewRoute(valve.Segment("test"), respondWith("test 2")),
	)

	req := httpmsg.NewRequest("GET", "/page", httpmsg.HTTP11)
	resp := r.Serve(req)

	require.Equal(t, 200, resp.Headers.StatusCode)
	require.Equal(t, "page 1", bodyString(t, resp))
}

func TestStaticRouterMissingRouteIs404(t *testing.T) {
	r := NewStaticRouter(
		NewRoute(valve.Segment("page"), respondWith("page 1")),
		NewRoute(valve.Segment("test"), respondWith("test 2")),
	)

	req := httpmsg.NewRequest("GET", "/missing", httpmsg.HTTP11)
	resp := r.Serve(req)

	require.Equal(t, 404, resp.Headers.StatusCode)
	require.False(t, resp.Body.Empty())
}

func TestStaticRouterZeroRoutesIs404(t *testing.T) {
	r := NewStaticRouter()
	req := httpmsg.NewRequest("GET", "/anything", httpmsg.HTTP11)
	resp := r.Serve(req)

	require.Equal(t, 404, resp.Headers.StatusCode)
	require.False(t, resp.Body.Empty())
}

func TestStaticRouterShortCircuitsOnFirstResponse(t *testing.T) {
	secondCalled := false
	r := NewStaticRouter(
		NewRoute(valve.Root(), respondWith("first")),
		NewRoute(valve.Root(), HandlerFunc(func(ctx *Context) any {
			secondCalled = true
			return "second"
		})),
	)

	req := httpmsg.NewRequest("GET", "/", httpmsg.HTTP11)
	resp := r.Serve(req)

	require.Equal(t, "first", bodyString(t, resp))
	require.False(t, secondCalled, "second route must never run once the first produced a response")
}

func TestStaticRouterHandlerPanicBecomes500(t *testing.T) {
	r := NewStaticRouter(
		NewRoute(valve.Root(), HandlerFunc(func(ctx *Context) any {
			panic("boom")
		})),
	)

	req := httpmsg.NewRequest("GET", "/x", httpmsg.HTTP11)
	resp := r.Serve(req)

	require.Equal(t, 500, resp.Headers.StatusCode)
	body := bodyString(t, resp)
	require.Contains(t, body, "500")
}

func TestStaticRouterPostEchoesBody(t *testing.T) {
	r := NewStaticRouter(
		NewRoute(valve.Post, HandlerFunc(func(ctx *Context) any {
			buf := make([]byte, 64)
			n, _ := ctx.Request.Body.Read(buf)
			return string(buf[:n])
		})),
	)

	req := httpmsg.NewRequest("POST", "/", httpmsg.HTTP11)
	req.Headers.Set("Content-Length", "3")
	require.NoError(t, req.Body.UseText([]byte("abc")))

	resp := r.Serve(req)
	require.Equal(t, 200, resp.Headers.StatusCode)
	require.Equal(t, "abc", bodyString(t, resp))
}

func TestStaticRouterServeIncrementsMetricsAndLogsRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := obs.NewMetrics(reg)
	log, hook := test.NewNullLogger()

	r := NewStaticRouter(
		NewRoute(valve.Root(), respondWith("hi")),
	).WithMetrics(metrics).WithLogger(log)

	req := httpmsg.NewRequest("GET", "/", httpmsg.HTTP11)
	resp := r.Serve(req)

	require.Equal(t, 200, resp.Headers.StatusCode)
	require.NotEmpty(t, resp.Headers.Get("x-request-id"))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families, "Serve must have incremented the registered counter/histogram")

	entry := hook.LastEntry()
	require.NotNil(t, entry, "Serve must emit a structured per-request log line")
	require.Equal(t, "GET", entry.Data["method"])
	require.Equal(t, resp.Headers.Get("x-request-id"), entry.Data["request_id"])
}

func TestStaticRouterServeWithoutMetricsOrLoggerIsNoop(t *testing.T) {
	r := NewStaticRouter(NewRoute(valve.Root(), respondWith("hi")))
	req := httpmsg.NewRequest("GET", "/", httpmsg.HTTP11)

	require.NotPanics(t, func() { r.Serve(req) })
}

func TestCalculateDefaultHeadersScenario(t *testing.T) {
	resp := httpmsg.NewResponse()
	resp.Body.Append([]byte("hi"))
	resp.CalculateDefaultHeaders()

	require.Equal(t, "text/html; charset=utf-8", resp.Headers.Get("content-type"))
	require.Equal(t, "2", resp.Headers.Get("content-length"))
}
