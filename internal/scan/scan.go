// Package scan строит дерево по существующему каталогу: обратная
// операция к материализации. Аннотации восстанавливаются из заголовков.
package scan

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"

	"mktree/internal/ctxlog"
	"mktree/internal/header"
	"mktree/internal/plan"
)

// Options — настройки обхода.
type Options struct {
	Headers   header.Table // nil — header.Default()
	Gitignore bool         // учитывать <root>/.gitignore
}

// Scan обходит root в глубину в порядке имён. Каталог .git и символические
// ссылки пропускаются.
func Scan(ctx context.Context, root string, o Options) (plan.Node, error) {
	logger := ctxlog.FromContext(ctx)
	if o.Headers == nil {
		o.Headers = header.Default()
	}
	root = filepath.Clean(root)
	// Имя корня должно читаться обратно парсером, а "." и ".." не читаются
	if base := filepath.Base(root); base == "." || base == ".." {
		abs, err := filepath.Abs(root)
		if err != nil {
			return plan.Node{}, err
		}
		root = abs
	}

	info, err := os.Stat(root)
	if err != nil {
		return plan.Node{}, err
	}
	if !info.IsDir() {
		return fileNode(root, o.Headers)
	}

	var ignore *gitignore.GitIgnore
	if o.Gitignore {
		ignoreFilePath := filepath.Join(root, ".gitignore")
		if _, err := os.Stat(ignoreFilePath); err == nil {
			ignore, err = gitignore.CompileIgnoreFile(ignoreFilePath)
			if err != nil {
				return plan.Node{}, fmt.Errorf("error compiling .gitignore: %w", err)
			}
			logger.Debug("Using .gitignore.", "path", ignoreFilePath)
		}
	}

	var dfs func(path string) (plan.Node, error)
	dfs = func(path string) (plan.Node, error) {
		n := plan.Node{Path: path, Dir: true}
		entries, err := os.ReadDir(path)
		if err != nil {
			return plan.Node{}, err
		}
		for _, entry := range entries {
			full := filepath.Join(path, entry.Name())
			rel, err := filepath.Rel(root, full)
			if err != nil {
				return plan.Node{}, err
			}
			if entry.Name() == ".git" || entry.Type()&fs.ModeSymlink != 0 {
				continue
			}
			if ignored(ignore, filepath.ToSlash(rel), entry.IsDir()) {
				logger.Debug("Ignored by .gitignore.", "path", rel)
				continue
			}

			var child plan.Node
			if entry.IsDir() {
				child, err = dfs(full)
			} else {
				child, err = fileNode(full, o.Headers)
			}
			if err != nil {
				return plan.Node{}, err
			}
			n.Children = append(n.Children, child)
		}
		return n, nil
	}

	return dfs(root)
}

func ignored(ignore *gitignore.GitIgnore, rel string, dir bool) bool {
	if ignore == nil {
		return false
	}
	if ignore.MatchesPath(rel) {
		return true
	}
	// Шаблоны вида "build/" совпадают только с путём со слэшем
	return dir && ignore.MatchesPath(rel+"/")
}

// fileNode читает первую строку файла с известным расширением
// и превращает заголовок обратно в аннотацию.
func fileNode(path string, headers header.Table) (plan.Node, error) {
	n := plan.Node{Path: path}
	h, ok := headers.Lookup(path)
	if !ok {
		return n, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return plan.Node{}, err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return plan.Node{}, err
	}
	if annotation, ok := h.Extract(line); ok {
		n.Annotation = annotation
	}
	return n, nil
}
