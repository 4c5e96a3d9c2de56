package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"mktree/internal/header"
)

func writeConfig(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mktree.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("MKTREE_TEST_BASE", "/srv/work")

	path := writeConfig(t, `
indent    = 4
dir_mode  = "0750"
parent    = "${env.MKTREE_TEST_BASE}/projects"
log_level = "debug"
gitignore = false

header "rb" {
  prefix = "# "
}

header "txt" {
  policy = "fill_empty"
}
`)

	f, err := Load(context.Background(), path)
	require.NoError(t, err)

	require.Equal(t, 4, *f.Indent)
	require.Equal(t, "0750", *f.DirMode)
	require.Equal(t, "/srv/work/projects", *f.Parent)
	require.Nil(t, f.Root)
	require.Equal(t, "debug", *f.LogLevel)
	require.Nil(t, f.LogFormat)
	require.False(t, *f.Gitignore)
	require.Len(t, f.Headers, 2)

	table, err := f.HeaderTable(header.Default())
	require.NoError(t, err)

	rb, ok := table.Lookup("lib.rb")
	require.True(t, ok)
	require.Equal(t, "# x", rb.Line("x"))

	txt, ok := table.Lookup("notes.txt")
	require.True(t, ok)
	require.Equal(t, header.FillEmpty, txt.Policy)

	_, ok = table.Lookup("a.py")
	require.True(t, ok, "built-in conventions are kept")
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{name: "syntax error", src: "indent = \n"},
		{name: "unknown attribute", src: "colour = \"red\"\n"},
		{name: "wrong type", src: "indent = \"two\"\n"},
		{name: "non-positive indent", src: "indent = 0\n"},
		{name: "unknown env var", src: "root = env.MKTREE_SURELY_NOT_SET_42\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(context.Background(), writeConfig(t, tc.src))
			require.Error(t, err)
		})
	}

	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.hcl"))
	require.Error(t, err)
}

func TestHeaderTable_BadPolicy(t *testing.T) {
	f := &File{Headers: []*Header{{Extension: "rb", Policy: "append"}}}

	_, err := f.HeaderTable(header.Default())
	require.Error(t, err)
}

func TestParsePerm(t *testing.T) {
	testCases := []struct {
		in      string
		want    os.FileMode
		wantErr bool
	}{
		{in: "0755", want: 0o755},
		{in: "755", want: 0o755},
		{in: "0o750", want: 0o750},
		{in: " 0700 ", want: 0o700},
		{in: "", want: 0o711},
		{in: "abc", wantErr: true},
		{in: "0989", wantErr: true},
		{in: "17777", wantErr: true},
	}

	for _, tc := range testCases {
		got, err := ParsePerm(tc.in, 0o711)
		if tc.wantErr {
			require.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
}
