package httpmsg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReasonPhraseMapping(t *testing.T) {
	require.Equal(t, "OK", ReasonPhrase(200))
	require.Equal(t, "Not Found", ReasonPhrase(404))
	require.Equal(t, "I'm a teapot", ReasonPhrase(418))
	require.Equal(t, "-", ReasonPhrase(999))
}
