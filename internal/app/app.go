package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mktree/internal/config"
	"mktree/internal/ctxlog"
	"mktree/internal/fsops"
	"mktree/internal/header"
	"mktree/internal/manifest"
	"mktree/internal/metrics"
	"mktree/internal/parser"
	"mktree/internal/plan"
	"mktree/internal/scan"
)

// Options — все настройки запуска утилиты.
type Options struct {
	InPath       string // файл описания, "-" — stdin; .yaml/.yml — манифест
	ScanDir      string // если задан — печатаем дерево этого каталога вместо создания
	Root         string
	Parent       string
	Indent       int
	DryRun       bool
	Verbose      bool
	Quiet        bool
	DirPerm      os.FileMode
	Headers      header.Table
	Gitignore    bool
	ManifestPath string // куда сохранить итоговое дерево в YAML
	MetricsPath  string // куда сохранить метрики (textfile)
	Version      string
	Out          io.Writer
}

// Merge переносит значения из файла настроек в поля, которые не заданы
// явно флагами. explicit сообщает, задан ли флаг с таким именем.
func (o *Options) Merge(f *config.File, explicit func(flag string) bool) error {
	if f == nil {
		return nil
	}
	if f.Indent != nil && !explicit("indent") {
		o.Indent = *f.Indent
	}
	if f.DirMode != nil && !explicit("dperm") {
		perm, err := config.ParsePerm(*f.DirMode, o.DirPerm)
		if err != nil {
			return fmt.Errorf("dir_mode: %w", err)
		}
		o.DirPerm = perm
	}
	if f.Root != nil && !explicit("root") {
		o.Root = *f.Root
	}
	if f.Parent != nil && !explicit("parent") {
		o.Parent = *f.Parent
	}
	if f.Gitignore != nil && !explicit("no-gitignore") {
		o.Gitignore = *f.Gitignore
	}
	if o.Headers == nil {
		o.Headers = header.Default()
	}
	t, err := f.HeaderTable(o.Headers)
	if err != nil {
		return err
	}
	o.Headers = t
	return nil
}

// Run — главная функция приложения: читает вход, парсит, применяет.
// Возвращает итоговое дерево.
func Run(ctx context.Context, o Options) (plan.Node, error) {
	logger := ctxlog.FromContext(ctx)
	if o.Out == nil {
		o.Out = os.Stdout
	}
	logger.Debug("Starting mktree.", "version", o.Version, "dry_run", o.DryRun)
	if o.ScanDir != "" {
		return Scan(ctx, o)
	}

	// 1) Открываем источник: файл или stdin.
	var r io.Reader
	if o.InPath == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(o.InPath)
		if err != nil {
			return plan.Node{}, fmt.Errorf("не удалось открыть входной файл %q: %w", o.InPath, err)
		}
		defer f.Close()
		r = f
	}

	// 2) Парсим описание и сводим к одному корню.
	placement := parser.Options{Indent: o.Indent, Root: o.Root, Parent: o.Parent}
	var roots []plan.Node
	if isManifest(o.InPath) {
		n, err := manifest.Read(r)
		if err != nil {
			return plan.Node{}, fmt.Errorf("ошибка чтения манифеста: %w", err)
		}
		roots = []plan.Node{n}
	} else {
		indent := o.Indent
		if indent == 0 {
			indent = parser.DefaultIndent
		}
		var err error
		roots, err = parser.ParseTree(r, indent)
		if err != nil {
			return plan.Node{}, fmt.Errorf("ошибка парсинга структуры: %w", err)
		}
	}
	logger.Debug("Tree parsed.", "roots", len(roots))

	root, err := parser.Assemble(roots, placement)
	if err != nil {
		return plan.Node{}, fmt.Errorf("ошибка сборки дерева: %w", err)
	}

	// 3) Сохраняем манифест, если просили.
	if o.ManifestPath != "" {
		if err := manifest.WriteFile(root, o.ManifestPath); err != nil {
			return root, err
		}
		logger.Debug("Manifest written.", "path", o.ManifestPath)
	}

	// 4) Применяем дерево к файловой системе.
	collector := metrics.New()
	args := fsops.ApplyArgs{
		Root:     root,
		DirPerm:  o.DirPerm,
		Headers:  o.Headers,
		DryRun:   o.DryRun,
		Verbose:  o.Verbose,
		Quiet:    o.Quiet,
		Out:      o.Out,
		Recorder: collector,
	}
	if _, err := fsops.Apply(ctx, args); err != nil {
		return root, err
	}

	// 5) Метрики.
	if o.MetricsPath != "" && !o.DryRun {
		if err := collector.WriteTextfile(o.MetricsPath); err != nil {
			return root, fmt.Errorf("не удалось записать метрики: %w", err)
		}
	}

	// 6) Готово.
	if !o.Quiet && !o.DryRun {
		fmt.Fprintf(o.Out, "Готово: %s\n", root.Path)
	}
	return root, nil
}

// Scan печатает дерево каталога o.ScanDir в текстовом формате
// (или сохраняет манифест, если задан ManifestPath).
func Scan(ctx context.Context, o Options) (plan.Node, error) {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	n, err := scan.Scan(ctx, o.ScanDir, scan.Options{Headers: o.Headers, Gitignore: o.Gitignore})
	if err != nil {
		return plan.Node{}, fmt.Errorf("ошибка обхода %s: %w", o.ScanDir, err)
	}
	if o.ManifestPath != "" {
		return n, manifest.WriteFile(n, o.ManifestPath)
	}
	return n, plan.Format(o.Out, n, o.Indent)
}

func isManifest(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
