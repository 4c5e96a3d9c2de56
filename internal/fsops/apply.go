package fsops

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"mktree/internal/ctxlog"
	"mktree/internal/header"
	"mktree/internal/plan"
)

// DefaultDirPerm — права каталогов, если ApplyArgs.DirPerm не задан.
// Вызывающему стоит передать что-то строже.
const DefaultDirPerm os.FileMode = 0o777

// Файлы создаются как touch: 0666 с учётом umask.
const filePerm os.FileMode = 0o666

// ErrConflict — по пути уже есть запись другого типа.
var ErrConflict = errors.New("конфликт")

// Recorder получает события материализации.
type Recorder interface {
	DirCreated()
	FileCreated()
	HeaderWritten(ext string)
	Existing(dir bool)
}

// ApplyArgs — параметры материализации дерева.
type ApplyArgs struct {
	Root     plan.Node
	DirPerm  os.FileMode  // 0 — DefaultDirPerm
	Headers  header.Table // nil — header.Default()
	DryRun   bool
	Verbose  bool
	Quiet    bool
	Out      io.Writer // nil — os.Stdout
	Recorder Recorder  // может быть nil
}

// run — состояние одного вызова Apply.
type run struct {
	ApplyArgs
	ctx context.Context
	// каталоги, «созданные» в dry-run
	planned map[string]bool
}

// Apply создаёт каталоги и файлы дерева и возвращает его корень.
// Повторный запуск на том же дереве ничего не ломает и не дублирует заголовки.
// При ошибке уже созданное остаётся на месте.
func Apply(ctx context.Context, a ApplyArgs) (plan.Node, error) {
	if a.DirPerm == 0 {
		a.DirPerm = DefaultDirPerm
	}
	if a.Headers == nil {
		a.Headers = header.Default()
	}
	if a.Out == nil {
		a.Out = os.Stdout
	}
	r := &run{ApplyArgs: a, ctx: ctx, planned: make(map[string]bool)}

	logger := ctxlog.FromContext(ctx)
	dirs, files := plan.Count(a.Root)
	logger.Debug("Materializing tree.", "root", a.Root.Path, "dirs", dirs, "files", files, "dry_run", a.DryRun)

	if err := r.materialize(a.Root, true); err != nil {
		return a.Root, err
	}
	return a.Root, nil
}

// materialize обходит узел; parents=true только для корня вызова:
// у потомков родитель уже на месте.
func (r *run) materialize(n plan.Node, parents bool) error {
	if n.Dir {
		if err := r.ensureDir(n.Path, parents, true); err != nil {
			return err
		}
		for _, c := range n.Children {
			if err := r.materialize(c, false); err != nil {
				return err
			}
		}
		return nil
	}

	if len(n.Children) > 0 {
		ctxlog.FromContext(r.ctx).Warn("File node has children, ignoring them.", "path", n.Path, "children", len(n.Children))
	}
	if err := r.ensureDir(filepath.Dir(n.Path), true, false); err != nil {
		return err
	}
	return r.ensureFile(n)
}

// ensureDir создаёт каталог, если его нет. track=false — служебная проверка
// родителя файла: существующий каталог не считается и не печатается.
func (r *run) ensureDir(path string, parents, track bool) error {
	if r.planned[path] {
		return nil
	}

	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		if track {
			r.verbose("dir exists: %s", path)
			if r.Recorder != nil {
				r.Recorder.Existing(true)
			}
		}
		return nil

	case err == nil && !info.IsDir():
		return &os.PathError{Op: "mkdir", Path: path, Err: fmt.Errorf("%w: по пути уже существует файл", ErrConflict)}

	case errors.Is(err, fs.ErrNotExist):
		if r.DryRun {
			r.out("mkdir -p %s", path)
			r.planned[path] = true
			return nil
		}
		if parents {
			err = os.MkdirAll(path, r.DirPerm)
		} else {
			err = os.Mkdir(path, r.DirPerm)
			if errors.Is(err, fs.ErrExist) {
				err = nil
			}
		}
		if err != nil {
			return err
		}
		if r.Recorder != nil {
			r.Recorder.DirCreated()
		}
		r.verbose("dir: %s", path)
		return nil

	default:
		return err
	}
}

func (r *run) ensureFile(n plan.Node) error {
	path := n.Path

	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return &os.PathError{Op: "create", Path: path, Err: fmt.Errorf("%w: по пути уже есть каталог", ErrConflict)}

	case err == nil:
		r.verbose("file exists: %s", path)
		if r.Recorder != nil {
			r.Recorder.Existing(false)
		}

	case errors.Is(err, fs.ErrNotExist):
		if r.DryRun {
			r.out("touch %s", path)
			if h, ok := r.Headers.Lookup(path); ok {
				if _, changed := h.Render("", n.Annotation); changed {
					r.out("header %s", path)
				}
			}
			return nil
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, filePerm)
		switch {
		case err == nil:
			if err := f.Close(); err != nil {
				return err
			}
			if r.Recorder != nil {
				r.Recorder.FileCreated()
			}
			r.verbose("file: %s", path)
		case errors.Is(err, fs.ErrExist):
			// Появился между Stat и OpenFile
		default:
			return err
		}

	default:
		return err
	}

	return r.writeHeader(n)
}

// writeHeader добавляет строку-заголовок по расширению файла,
// если её ещё нет. Остальное содержимое сохраняется.
func (r *run) writeHeader(n plan.Node) error {
	h, ok := r.Headers.Lookup(n.Path)
	if !ok {
		return nil
	}

	data, err := os.ReadFile(n.Path)
	if err != nil {
		return err
	}
	content, changed := h.Render(string(data), n.Annotation)
	if !changed {
		return nil
	}
	if r.DryRun {
		r.out("header %s", n.Path)
		return nil
	}
	if err := os.WriteFile(n.Path, []byte(content), filePerm); err != nil {
		return err
	}
	if r.Recorder != nil {
		r.Recorder.HeaderWritten(filepath.Ext(n.Path))
	}
	r.verbose("header: %s", n.Path)
	ctxlog.FromContext(r.ctx).Debug("Header written.", "path", n.Path, "policy", h.Policy.String())
	return nil
}

func (r *run) verbose(format string, args ...interface{}) {
	if r.Verbose {
		r.out(format, args...)
	}
}

func (r *run) out(format string, args ...interface{}) {
	if r.Quiet {
		return
	}
	fmt.Fprintf(r.Out, format+"\n", args...)
}
