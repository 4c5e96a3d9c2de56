package plan

import (
	"errors"
	"path/filepath"
)

// CurrentDir — путь искусственного корня, когда корней несколько и
// ни Root, ни Parent не заданы.
const CurrentDir = "."

// ErrNoRoots — в описании не нашлось ни одной строки с именем.
var ErrNoRoots = errors.New("не найден ни один корень дерева")

// Placement — куда поставить разобранное дерево.
// Пустая строка означает «не задано».
type Placement struct {
	Root   string // новое имя единственного корня или имя обёртки для нескольких
	Parent string // искусственный родитель; важнее Root
}

// Assemble сводит корни к одному узлу.
//
// Один корень: с Parent он оборачивается в каталог Parent, иначе с Root
// переименовывается, иначе возвращается как есть. Несколько корней всегда
// оборачиваются в каталог Parent, Root или CurrentDir (в этом порядке).
func Assemble(roots []Node, p Placement) (Node, error) {
	switch {
	case len(roots) == 0:
		return Node{}, ErrNoRoots

	case len(roots) == 1:
		base := roots[0]
		// Обёртка в родителя важнее переименования
		if p.Parent != "" {
			return wrap(p.Parent, base), nil
		}
		if p.Root != "" {
			return Rebase(base, p.Root), nil
		}
		return base, nil
	}

	top := CurrentDir
	switch {
	case p.Parent != "":
		top = p.Parent
	case p.Root != "":
		top = p.Root
	}
	return wrap(top, roots...), nil
}

func wrap(path string, roots ...Node) Node {
	top := Node{Path: filepath.Clean(path), Dir: true}
	top.Children = make([]Node, 0, len(roots))
	for _, r := range roots {
		top.Children = append(top.Children, Reparent(r, top))
	}
	return top
}
