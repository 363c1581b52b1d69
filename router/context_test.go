package router

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/webpp-sub002/corehttp/httpmsg"
)

func TestNewContextPositionsTraverserAtRequestPath(t *testing.T) {
	req := httpmsg.NewRequest("GET", "/a/b", httpmsg.HTTP11)
	ctx := NewContext(req)

	require.True(t, ctx.Traverser().AtBeginning())
	require.Equal(t, []string{"a", "b"}, ctx.Traverser().Segments())
}

func TestNewContextAssignsRequestID(t *testing.T) {
	req := httpmsg.NewRequest("GET", "/", httpmsg.HTTP11)
	a := NewContext(req)
	b := NewContext(req)

	require.NotEmpty(t, a.RequestID)
	require.NotEqual(t, a.RequestID, b.RequestID)
}

func TestContextSatisfiesValveContext(t *testing.T) {
	req := httpmsg.NewRequest("POST", "/x", httpmsg.HTTP11)
	ctx := NewContext(req)

	require.Equal(t, "POST", ctx.RequestMethod())
}
