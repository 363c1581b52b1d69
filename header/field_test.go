package header

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCaseInsensitiveLookup(t *testing.T) {
	c := NewContainer()
	c.Set("Content-Type", "text/plain")

	for _, variant := range []string{"content-type", "CONTENT-TYPE", "Content-type", "cOnTeNt-TyPe"} {
		require.Equal(t, "text/plain", c.Get(variant), "variant %q", variant)
	}
}

func TestInsertionOrderPreserved(t *testing.T) {
	c := NewContainer()
	c.Set("A", "1")
	c.Set("B", "2")
	c.Set("A", "3")

	all := c.All()
	require.Len(t, all, 3)
	require.Equal(t, []Field{{"A", "1"}, {"B", "2"}, {"A", "3"}}, all)
}

func TestSetAppendsDoesNotReplace(t *testing.T) {
	c := NewContainer()
	c.Set("X-Foo", "one")
	c.Set("X-Foo", "two")

	require.Equal(t, 2, c.Size())
	require.Equal(t, "one", c.Get("X-Foo"))
	require.Equal(t, []string{"one", "two"}, c.Values("x-foo"))
}

func TestReplaceErasesThenSets(t *testing.T) {
	c := NewContainer()
	c.Set("X-Foo", "one")
	c.Set("X-Foo", "two")
	c.Replace("x-foo", "three")

	require.Equal(t, []string{"three"}, c.Values("X-Foo"))
}

func TestHasMultiple(t *testing.T) {
	c := NewContainer()
	c.Set("Accept", "text/html")

	got := c.Has("Accept", "Host")
	require.Equal(t, []bool{true, false}, got)
}

func TestEmptyAndSize(t *testing.T) {
	c := NewContainer()
	require.True(t, c.Empty())
	require.Equal(t, 0, c.Size())

	c.Set("A", "1")
	require.False(t, c.Empty())
	require.Equal(t, 1, c.Size())
}

func TestEqualComparesMultisetInOrder(t *testing.T) {
	a := NewContainer()
	a.Set("Accept", "text/html")
	a.Set("HOST", "example.com")

	b := NewContainer()
	b.Set("accept", "text/html")
	b.Set("host", "example.com")

	require.True(t, a.Equal(b))

	c := NewContainer()
	c.Set("HOST", "example.com")
	c.Set("accept", "text/html")
	require.False(t, a.Equal(c), "order matters")
}

func TestWriteToSerializesCRLFPerField(t *testing.T) {
	c := NewContainer()
	c.Set("Content-Type", "text/html")
	c.Set("X-Count", "2")

	var buf bytes.Buffer
	_, err := c.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, "Content-Type: text/html\r\nX-Count: 2\r\n", buf.String())
}
