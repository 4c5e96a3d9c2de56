package plan

import "path/filepath"

// Node — один элемент дерева: файл или каталог со своим путём и потомками.
// Узлы — значения: преобразования ниже всегда возвращают новое дерево.
type Node struct {
	Path       string // путь узла; для потомка это Join(родитель, имя)
	Dir        bool   // это каталог?
	Annotation string // текст после '#' в строке описания
	Children   []Node // в порядке исходного текста
}

// New — обычное построение узла по пути (без разбора текста дерева).
// Пути потомков пересчитываются относительно path.
func New(path string, dir bool, annotation string, children ...Node) Node {
	n := Node{Path: filepath.Clean(path), Dir: dir, Annotation: annotation}
	for _, c := range children {
		n.Children = append(n.Children, Reparent(c, n))
	}
	return n
}

// Name возвращает последний элемент пути.
func (n Node) Name() string {
	return filepath.Base(n.Path)
}

// Rebase копирует поддерево n так, что корень копии получает путь path,
// а пути всех потомков пересчитываются от него. Исходное дерево не меняется.
func Rebase(n Node, path string) Node {
	out := Node{
		Path:       filepath.Clean(path),
		Dir:        n.Dir,
		Annotation: n.Annotation,
	}
	if len(n.Children) > 0 {
		out.Children = make([]Node, 0, len(n.Children))
		for _, c := range n.Children {
			out.Children = append(out.Children, Reparent(c, out))
		}
	}
	return out
}

// Reparent делает копию n дочерней для parent: Rebase(n, parent/имя).
func Reparent(n Node, parent Node) Node {
	return Rebase(n, filepath.Join(parent.Path, n.Name()))
}

// Walk обходит дерево в глубину, родитель раньше потомков.
// depth корня — 0. Если fn вернул ошибку, обход прекращается.
func Walk(n Node, fn func(n Node, depth int) error) error {
	return walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) error) error {
	if err := fn(n, depth); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := walk(c, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// Count возвращает число каталогов и файлов в дереве (включая корень).
func Count(n Node) (dirs, files int) {
	_ = Walk(n, func(n Node, _ int) error {
		if n.Dir {
			dirs++
		} else {
			files++
		}
		return nil
	})
	return dirs, files
}
