package plan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssemble(t *testing.T) {
	single := []Node{sample()}
	multi := []Node{New("x.txt", false, ""), New("y", true, "note", New("z.md", false, ""))}

	testCases := []struct {
		name      string
		roots     []Node
		placement Placement
		wantPath  string
		wantDir   bool
		// пути потомков верхнего узла
		wantChildren []string
	}{
		{
			name:         "single root passes through",
			roots:        single,
			wantPath:     "a",
			wantDir:      true,
			wantChildren: []string{"a/b.py", "a/c"},
		},
		{
			name:         "single root relabeled",
			roots:        single,
			placement:    Placement{Root: "proj"},
			wantPath:     "proj",
			wantDir:      true,
			wantChildren: []string{"proj/b.py", "proj/c"},
		},
		{
			name:         "single root wrapped by parent",
			roots:        single,
			placement:    Placement{Parent: "out"},
			wantPath:     "out",
			wantDir:      true,
			wantChildren: []string{"out/a"},
		},
		{
			name:         "parent wins over root",
			roots:        single,
			placement:    Placement{Root: "proj", Parent: "out"},
			wantPath:     "out",
			wantDir:      true,
			wantChildren: []string{"out/a"},
		},
		{
			name:         "single file root passes through",
			roots:        []Node{New("x.txt", false, "")},
			wantPath:     "x.txt",
			wantDir:      false,
			wantChildren: nil,
		},
		{
			name:         "multiple roots wrapped by current dir",
			roots:        multi,
			wantPath:     ".",
			wantDir:      true,
			wantChildren: []string{"x.txt", "y"},
		},
		{
			name:         "multiple roots wrapped by root",
			roots:        multi,
			placement:    Placement{Root: "w"},
			wantPath:     "w",
			wantDir:      true,
			wantChildren: []string{"w/x.txt", "w/y"},
		},
		{
			name:         "multiple roots wrapped by parent",
			roots:        multi,
			placement:    Placement{Root: "w", Parent: "out"},
			wantPath:     "out",
			wantDir:      true,
			wantChildren: []string{"out/x.txt", "out/y"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Assemble(tc.roots, tc.placement)
			require.NoError(t, err)

			require.Equal(t, tc.wantPath, got.Path)
			require.Equal(t, tc.wantDir, got.Dir)
			var paths []string
			for _, c := range got.Children {
				paths = append(paths, c.Path)
			}
			require.Equal(t, tc.wantChildren, paths)
		})
	}
}

func TestAssemble_SingleRootUnchanged(t *testing.T) {
	got, err := Assemble([]Node{sample()}, Placement{})
	require.NoError(t, err)
	require.Equal(t, sample(), got)
}

func TestAssemble_WrappedSubtreeKeepsShape(t *testing.T) {
	got, err := Assemble([]Node{sample()}, Placement{Parent: "out"})
	require.NoError(t, err)

	require.Empty(t, got.Annotation)
	inner := got.Children[0]
	require.Equal(t, "out/a/c/d.txt", inner.Children[1].Children[0].Path)
	requireSameShape(t, sample(), inner)
}

func TestAssemble_MultipleRootsKeepOrderAndCount(t *testing.T) {
	roots := []Node{New("x.txt", false, ""), New("y.txt", false, ""), New("z", true, "")}

	got, err := Assemble(roots, Placement{Parent: "out"})
	require.NoError(t, err)

	require.True(t, got.Dir)
	require.Len(t, got.Children, 3)
	for i, r := range roots {
		require.Equal(t, r.Name(), got.Children[i].Name())
		require.Equal(t, r.Dir, got.Children[i].Dir)
	}
}

func TestAssemble_NoRoots(t *testing.T) {
	_, err := Assemble(nil, Placement{Parent: "out"})
	require.ErrorIs(t, err, ErrNoRoots)
}
