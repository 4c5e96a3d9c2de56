// Package metrics считает результаты материализации в отдельном
// реестре Prometheus и сохраняет их в формате textfile-коллектора.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"mktree/internal/fsops"
)

// Collector реализует fsops.Recorder.
type Collector struct {
	registry *prometheus.Registry

	dirs     prometheus.Counter
	files    prometheus.Counter
	headers  *prometheus.CounterVec
	existing *prometheus.CounterVec
}

var _ fsops.Recorder = (*Collector)(nil)

// New создаёт счётчики с префиксом mktree_ и регистрирует их.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		dirs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: `mktree_dirs_created_total`,
			Help: `Directories created`,
		}),
		files: prometheus.NewCounter(prometheus.CounterOpts{
			Name: `mktree_files_created_total`,
			Help: `Empty files created`,
		}),
		headers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: `mktree_headers_written_total`,
			Help: `Header lines written, by file extension`,
		}, []string{`extension`}),
		existing: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: `mktree_entries_existing_total`,
			Help: `Entries that already existed`,
		}, []string{`kind`}),
	}
	c.registry.MustRegister(c.dirs, c.files, c.headers, c.existing)
	return c
}

func (c *Collector) DirCreated()  { c.dirs.Inc() }
func (c *Collector) FileCreated() { c.files.Inc() }

func (c *Collector) HeaderWritten(ext string) {
	c.headers.WithLabelValues(ext).Inc()
}

func (c *Collector) Existing(dir bool) {
	kind := `file`
	if dir {
		kind = `dir`
	}
	c.existing.WithLabelValues(kind).Inc()
}

// Registry отдаёт реестр, например для тестов.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteTextfile атомарно записывает метрики в файл для node_exporter.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
