package plan

import (
	"bufio"
	"io"
	"strings"
)

// Format печатает дерево в текстовом формате с отступом indent пробелов:
// имя, "/" для каталогов и " # аннотация", если она есть.
// Вывод снова читается parser.ParseTree.
func Format(w io.Writer, n Node, indent int) error {
	if indent < 1 {
		indent = 2
	}
	bw := bufio.NewWriter(w)
	err := Walk(n, func(n Node, depth int) error {
		var b strings.Builder
		b.WriteString(strings.Repeat(" ", depth*indent))
		b.WriteString(n.Name())
		if n.Dir {
			b.WriteString("/")
		}
		if n.Annotation != "" {
			b.WriteString(" # ")
			b.WriteString(n.Annotation)
		}
		b.WriteString("\n")
		_, err := bw.WriteString(b.String())
		return err
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}

// String возвращает Format(n, 2) строкой.
func (n Node) String() string {
	var b strings.Builder
	_ = Format(&b, n, 2)
	return b.String()
}
