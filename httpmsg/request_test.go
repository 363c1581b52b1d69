package httpmsg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRequestLine(t *testing.T) {
	method, target, version, err := ParseRequestLine("GET /page HTTP/1.1")
	require.NoError(t, err)
	require.Equal(t, "GET", method)
	require.Equal(t, "/page", target)
	require.Equal(t, HTTPVersion{1, 1}, version)
}

func TestParseRequestLineRejectsLowercaseMethod(t *testing.T) {
	_, _, _, err := ParseRequestLine("get / HTTP/1.1")
	require.ErrorIs(t, err, ErrMalformedRequestLine)
}

func TestParseRequestLineRejectsWrongFieldCount(t *testing.T) {
	_, _, _, err := ParseRequestLine("GET /page")
	require.ErrorIs(t, err, ErrMalformedRequestLine)
}

func TestNewRequestDefaults(t *testing.T) {
	req := NewRequest("POST", "/a", HTTP11)
	require.Equal(t, "POST", req.Method)
	require.NotNil(t, req.Headers)
	require.NotNil(t, req.Body)
	require.EqualValues(t, 0, req.Headers.ContentLength())
}

func TestRequestContextDefaultsToBackground(t *testing.T) {
	req := NewRequest("GET", "/", HTTP11)
	require.NotNil(t, req.Context())
}
