package plan

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// sample — a/ { b.py # init, c/ { d.txt } }
func sample() Node {
	return New("a", true, "",
		New("b.py", false, "init"),
		New("c", true, "",
			New("d.txt", false, ""),
		),
	)
}

// requireSameShape сравнивает имена, флаги, аннотации и число потомков рекурсивно.
func requireSameShape(t *testing.T, want, got Node) {
	t.Helper()
	require.Equal(t, want.Dir, got.Dir, "dir flag of %s", got.Path)
	require.Equal(t, want.Annotation, got.Annotation, "annotation of %s", got.Path)
	require.Len(t, got.Children, len(want.Children), "children of %s", got.Path)
	for i := range want.Children {
		require.Equal(t, want.Children[i].Name(), got.Children[i].Name())
		requireSameShape(t, want.Children[i], got.Children[i])
	}
}

func TestNew_ChildPaths(t *testing.T) {
	n := sample()

	require.Equal(t, "a", n.Path)
	require.Equal(t, "a/b.py", n.Children[0].Path)
	require.Equal(t, "a/c", n.Children[1].Path)
	require.Equal(t, "a/c/d.txt", n.Children[1].Children[0].Path)
	require.Equal(t, "d.txt", n.Children[1].Children[0].Name())
}

func TestRebase_PreservesStructure(t *testing.T) {
	orig := sample()

	got := Rebase(orig, "x/y")

	require.Equal(t, "x/y", got.Path)
	require.Equal(t, "x/y/b.py", got.Children[0].Path)
	require.Equal(t, "x/y/c/d.txt", got.Children[1].Children[0].Path)
	requireSameShape(t, orig, got)
}

func TestRebase_DoesNotAlias(t *testing.T) {
	orig := sample()

	got := Rebase(orig, "copy")
	got.Children[0].Annotation = "changed"
	got.Children[1].Children[0].Path = "elsewhere"
	got.Children = append(got.Children, New("extra", false, ""))

	require.Equal(t, sample(), orig, "the source tree must stay intact")
}

func TestReparent(t *testing.T) {
	orig := sample()
	parent := New("out", true, "")

	got := Reparent(orig.Children[1], parent)

	require.Equal(t, "out/c", got.Path)
	require.Equal(t, "out/c/d.txt", got.Children[0].Path)
	require.Equal(t, "a/c", orig.Children[1].Path)
}

func TestCountAndWalk(t *testing.T) {
	n := sample()

	dirs, files := Count(n)
	require.Equal(t, 2, dirs)
	require.Equal(t, 2, files)

	var seen []string
	var depths []int
	err := Walk(n, func(n Node, depth int) error {
		seen = append(seen, n.Path)
		depths = append(depths, depth)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "a/b.py", "a/c", "a/c/d.txt"}, seen)
	require.Equal(t, []int{0, 1, 1, 2}, depths)

	stop := errors.New("stop")
	visited := 0
	err = Walk(n, func(n Node, _ int) error {
		visited++
		if n.Name() == "b.py" {
			return stop
		}
		return nil
	})
	require.ErrorIs(t, err, stop)
	require.Equal(t, 2, visited)
}

func TestFormat(t *testing.T) {
	require.Equal(t, "a/\n  b.py # init\n  c/\n    d.txt\n", sample().String())

	var b strings.Builder
	require.NoError(t, Format(&b, sample(), 4))
	require.Equal(t, "a/\n    b.py # init\n    c/\n        d.txt\n", b.String())
}
