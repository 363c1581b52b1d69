package cgi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/webpp-sub002/corehttp/httpmsg"
	"github.com/webpp-sub002/corehttp/router"
	"github.com/webpp-sub002/corehttp/valve"
)

func fakeEnv(vars map[string]string) Env {
	return func(key string) string { return vars[key] }
}

func TestBuildRequestMapsWellKnownVariables(t *testing.T) {
	vars := map[string]string{
		"REQUEST_METHOD":  "GET",
		"REQUEST_URI":     "/hello",
		"SERVER_PROTOCOL": "HTTP/1.1",
		"SERVER_NAME":     "localhost",
	}
	req, err := BuildRequest(nil, fakeEnv(vars), nil)
	require.NoError(t, err)

	require.Equal(t, "GET", req.Method)
	require.Equal(t, "/hello", req.URI)
	require.Equal(t, httpmsg.HTTP11, req.Version)
	require.Equal(t, "localhost", req.Host)
}

func TestBuildRequestMapsHTTPPrefixedHeaders(t *testing.T) {
	environ := []string{
		"HTTP_X_FORWARDED_FOR=203.0.113.9",
		"HTTP_USER_AGENT=curl/8.0",
		"PATH=/usr/bin",
	}
	vars := map[string]string{
		"REQUEST_METHOD": "GET",
		"REQUEST_URI":    "/",
	}
	req, err := BuildRequest(environ, fakeEnv(vars), nil)
	require.NoError(t, err)

	require.Equal(t, "203.0.113.9", req.Headers.Get("X-Forwarded-For"))
	require.Equal(t, "curl/8.0", req.Headers.Get("User-Agent"))
	require.Empty(t, req.Headers.Get("Path"))
}

func TestBuildRequestMapsContentLengthAndType(t *testing.T) {
	vars := map[string]string{
		"REQUEST_METHOD": "POST",
		"REQUEST_URI":    "/submit",
		"CONTENT_LENGTH": "11",
		"CONTENT_TYPE":   "text/plain",
	}
	body := strings.NewReader("hello world")
	req, err := BuildRequest(nil, fakeEnv(vars), body)
	require.NoError(t, err)

	require.Equal(t, "11", req.Headers.Get("Content-Length"))
	require.Equal(t, "text/plain", req.Headers.Get("Content-Type"))

	buf := make([]byte, 32)
	n, _ := req.Body.Read(buf)
	require.Equal(t, "hello world", string(buf[:n]))
}

func TestServeCGIWritesStatusLineAndBody(t *testing.T) {
	r := router.NewStaticRouter(
		router.NewRoute(valve.Get, func(ctx *router.Context) any { return "hi" }),
	)
	h := NewHandler(r)

	vars := map[string]string{
		"REQUEST_METHOD": "GET",
		"REQUEST_URI":    "/",
	}

	var out strings.Builder
	err := h.ServeCGI(nil, fakeEnv(vars), nil, &out)
	require.NoError(t, err)

	rendered := out.String()
	require.True(t, strings.HasPrefix(rendered, "Status: 200 OK\r\n"))
	require.True(t, strings.HasSuffix(rendered, "hi"))
	require.Contains(t, rendered, "Content-Type: text/html; charset=utf-8\r\n")
}
