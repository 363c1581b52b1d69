package uri

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTraverserChecksSegmentsInOrder(t *testing.T) {
	tr := NewTraverser("/a/b/c")

	require.True(t, tr.AtBeginning())
	require.True(t, tr.CheckSegment("a"))
	require.True(t, tr.CheckSegment("b"))
	require.True(t, tr.CheckSegment("c"))
	require.True(t, tr.AtEnd())
}

func TestCheckSegmentFalseDoesNotAdvance(t *testing.T) {
	tr := NewTraverser("/a/b")
	require.False(t, tr.CheckSegment("x"))
	require.True(t, tr.CheckSegment("a"), "cursor must not have moved on the failed check")
}

func TestCheckSegmentPastEndReturnsFalse(t *testing.T) {
	tr := NewTraverser("/a")
	require.True(t, tr.CheckSegment("a"))
	require.True(t, tr.AtEnd())
	require.False(t, tr.CheckSegment("anything"))
}

func TestEmptySegmentsCollapsed(t *testing.T) {
	tr := NewTraverser("/a//b///c")
	require.Equal(t, []string{"a", "b", "c"}, tr.Segments())
}

func TestLeadingSlashNoEmptySegment(t *testing.T) {
	tr := NewTraverser("/page")
	require.Equal(t, []string{"page"}, tr.Segments())
}

func TestPercentDecoding(t *testing.T) {
	tr := NewTraverser("/hello%20world/a%3Ab")
	require.Equal(t, []string{"hello world", "a:b"}, tr.Segments())
}

func TestDotSegmentsNotResolved(t *testing.T) {
	tr := NewTraverser("/a/../b")
	require.Equal(t, []string{"a", "..", "b"}, tr.Segments())
}

func TestBranchIsIndependent(t *testing.T) {
	tr := NewTraverser("/a/b")
	branch := tr.Branch()

	require.True(t, branch.CheckSegment("a"))
	require.True(t, tr.AtBeginning(), "mutating the branch must not affect the original")
}

func TestNextPrevReset(t *testing.T) {
	tr := NewTraverser("/a/b/c")
	require.True(t, tr.Next())
	cur, ok := tr.Current()
	require.True(t, ok)
	require.Equal(t, "b", cur)

	require.True(t, tr.Prev())
	cur, _ = tr.Current()
	require.Equal(t, "a", cur)

	tr.Next()
	tr.Next()
	tr.Next()
	require.False(t, tr.Next(), "Next past the end must report false")

	tr.Reset()
	require.True(t, tr.AtBeginning())
}
