package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"mktree/internal/plan"
	"mktree/internal/safety"
)

// DefaultIndent — число пробелов на один уровень вложенности.
const DefaultIndent = 2

var (
	// ErrStructure — строка вложена глубже, чем открытые над ней каталоги.
	ErrStructure = errors.New("некорректная вложенность")
	// ErrIndent — размер отступа меньше единицы.
	ErrIndent = errors.New("размер отступа должен быть положительным")
)

// LineError привязывает ошибку разбора к номеру строки (с 1).
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("строка %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *LineError) Unwrap() error { return e.Err }

// draft — изменяемый узел на время разбора; наружу уходят только plan.Node.
type draft struct {
	path       string
	dir        bool
	annotation string
	children   []*draft
}

func (d *draft) freeze() plan.Node {
	n := plan.Node{Path: d.path, Dir: d.dir, Annotation: d.annotation}
	for _, c := range d.children {
		n.Children = append(n.Children, c.freeze())
	}
	return n
}

// ParseTree читает текст дерева и возвращает корни в порядке появления.
//
// Уровень строки — число ведущих пробелов, делённое на indent (табуляция
// заменяется на indent пробелов). "/" в конце имени — каталог, всё после
// первого '#' — аннотация. Строка глубже открытых каталогов даёт ErrStructure.
func ParseTree(r io.Reader, indent int) ([]plan.Node, error) {
	if indent < 1 {
		return nil, fmt.Errorf("%w: %d", ErrIndent, indent)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1024), 1024*1024)

	tab := strings.Repeat(" ", indent)
	var roots []*draft
	// stack[i] — открытый каталог уровня i
	var stack []*draft
	lineNum := 0

	for sc.Scan() {
		lineNum++
		line := strings.TrimRightFunc(strings.ReplaceAll(sc.Text(), "\t", tab), unicode.IsSpace)
		if strings.TrimSpace(line) == "" {
			continue
		}

		content := strings.TrimLeft(line, " ")
		level := (len(line) - len(content)) / indent

		name, annotation := splitAnnotation(content)
		if name == "" {
			// Строка только с комментарием
			continue
		}

		dir := strings.HasSuffix(name, "/")
		name = strings.TrimSuffix(name, "/")
		if err := safety.ValidateName(name); err != nil {
			return nil, &LineError{Line: lineNum, Text: line, Err: err}
		}

		if level > len(stack) {
			return nil, &LineError{
				Line: lineNum,
				Text: line,
				Err:  fmt.Errorf("%w: уровень %d, открыто каталогов: %d", ErrStructure, level, len(stack)),
			}
		}
		// Всё, что глубже, принадлежит предыдущим соседям
		stack = stack[:level]

		node := &draft{path: name, dir: dir, annotation: annotation}
		if level == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[level-1]
			node.path = filepath.Join(parent.path, name)
			parent.children = append(parent.children, node)
		}

		if dir {
			stack = append(stack, node)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	out := make([]plan.Node, 0, len(roots))
	for _, r := range roots {
		out = append(out, r.freeze())
	}
	return out, nil
}

// ParseString — ParseTree для строки.
func ParseString(text string, indent int) ([]plan.Node, error) {
	return ParseTree(strings.NewReader(text), indent)
}

// splitAnnotation делит содержимое строки по первому '#'.
// Экранирования нет: '#' в имени файла всегда начинает аннотацию.
func splitAnnotation(content string) (name, annotation string) {
	name = content
	if i := strings.IndexByte(content, '#'); i >= 0 {
		name = content[:i]
		annotation = strings.TrimSpace(content[i+1:])
	}
	return strings.TrimRightFunc(name, unicode.IsSpace), annotation
}

// Options — параметры построения единого дерева из текста.
type Options struct {
	Indent int    // 0 — DefaultIndent
	Root   string // см. plan.Placement
	Parent string
}

// FromTree разбирает текст дерева и сводит корни к одному узлу по
// правилам plan.Assemble. "~" в Root и Parent раскрывается.
func FromTree(text string, o Options) (plan.Node, error) {
	indent := o.Indent
	if indent == 0 {
		indent = DefaultIndent
	}
	roots, err := ParseString(text, indent)
	if err != nil {
		return plan.Node{}, err
	}
	return Assemble(roots, o)
}

// Assemble раскрывает "~" в Root/Parent и вызывает plan.Assemble.
func Assemble(roots []plan.Node, o Options) (plan.Node, error) {
	root, err := safety.ExpandHome(o.Root)
	if err != nil {
		return plan.Node{}, err
	}
	parent, err := safety.ExpandHome(o.Parent)
	if err != nil {
		return plan.Node{}, err
	}
	return plan.Assemble(roots, plan.Placement{Root: root, Parent: parent})
}
