package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counts(t *testing.T) {
	c := New()

	c.DirCreated()
	c.DirCreated()
	c.FileCreated()
	c.HeaderWritten(".py")
	c.HeaderWritten(".py")
	c.HeaderWritten(".sh")
	c.Existing(true)
	c.Existing(false)
	c.Existing(false)

	require.Equal(t, 2.0, testutil.ToFloat64(c.dirs))
	require.Equal(t, 1.0, testutil.ToFloat64(c.files))
	require.Equal(t, 2.0, testutil.ToFloat64(c.headers.WithLabelValues(".py")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.headers.WithLabelValues(".sh")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.existing.WithLabelValues("dir")))
	require.Equal(t, 2.0, testutil.ToFloat64(c.existing.WithLabelValues("file")))
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := New()
	c.DirCreated()
	c.HeaderWritten(".py")

	path := filepath.Join(t.TempDir(), "mktree.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "mktree_dirs_created_total 1")
	require.Contains(t, string(data), `mktree_headers_written_total{extension=".py"} 1`)
	require.Contains(t, string(data), "mktree_files_created_total 0")
}
