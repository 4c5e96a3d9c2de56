// Package manifest хранит дерево в YAML: для выгрузки плана и для
// повторного применения без текстового описания.
package manifest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"mktree/internal/plan"
	"mktree/internal/safety"
)

// Entry — узел дерева в YAML.
type Entry struct {
	Path       string  `yaml:"path"`
	Dir        bool    `yaml:"dir,omitempty"`
	Annotation string  `yaml:"annotation,omitempty"`
	Children   []Entry `yaml:"children,omitempty"`
}

func fromNode(n plan.Node) Entry {
	e := Entry{Path: n.Path, Dir: n.Dir, Annotation: n.Annotation}
	for _, c := range n.Children {
		e.Children = append(e.Children, fromNode(c))
	}
	return e
}

// toNode собирает узел; пути потомков выводятся из пути родителя
// и последнего элемента пути потомка.
func toNode(e Entry, path string) (plan.Node, error) {
	n := plan.Node{Path: path, Dir: e.Dir, Annotation: e.Annotation}
	for _, ce := range e.Children {
		name := filepath.Base(filepath.Clean(ce.Path))
		if err := safety.ValidateName(name); err != nil {
			return plan.Node{}, fmt.Errorf("%s: %w", path, err)
		}
		childPath, err := safety.SafeJoin(path, name)
		if err != nil {
			return plan.Node{}, err
		}
		c, err := toNode(ce, childPath)
		if err != nil {
			return plan.Node{}, err
		}
		n.Children = append(n.Children, c)
	}
	return n, nil
}

// Marshal кодирует дерево в YAML.
func Marshal(n plan.Node) ([]byte, error) {
	data, err := yaml.Marshal(fromNode(n))
	if err != nil {
		return nil, fmt.Errorf("error marshaling YAML: %w", err)
	}
	return data, nil
}

// Unmarshal разбирает YAML в дерево.
func Unmarshal(data []byte) (plan.Node, error) {
	var e Entry
	if err := yaml.UnmarshalStrict(data, &e); err != nil {
		return plan.Node{}, fmt.Errorf("error unmarshaling YAML: %w", err)
	}
	if e.Path == "" {
		return plan.Node{}, fmt.Errorf("в манифесте не задан путь корня")
	}
	return toNode(e, filepath.Clean(e.Path))
}

// Read читает манифест из r.
func Read(r io.Reader) (plan.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return plan.Node{}, err
	}
	return Unmarshal(data)
}

// WriteFile сохраняет дерево в файл filename.
func WriteFile(n plan.Node, filename string) error {
	data, err := Marshal(n)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("error writing YAML file: %w", err)
	}
	return nil
}
