// Package header описывает строку-заголовок, которую получает новый файл
// в зависимости от расширения.
package header

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Policy — как заголовок ложится на содержимое файла.
type Policy int

const (
	// Prepend добавляет строку заголовка перед содержимым,
	// если файл не начинается с Detect.
	Prepend Policy = iota
	// FillEmpty записывает аннотацию целиком, если файл пуст или из пробелов.
	FillEmpty
)

func (p Policy) String() string {
	switch p {
	case Prepend:
		return "prepend"
	case FillEmpty:
		return "fill_empty"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy разбирает имя политики; пустая строка — Prepend.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "prepend":
		return Prepend, nil
	case "fill_empty", "fill-empty":
		return FillEmpty, nil
	}
	return 0, fmt.Errorf("неизвестная политика заголовка: %q", s)
}

// Header — соглашение для одного расширения.
type Header struct {
	Prefix string // перед аннотацией
	Suffix string // после аннотации
	Detect string // признак уже записанного заголовка; пусто — Prefix
	Policy Policy
}

// Line возвращает строку заголовка без перевода строки.
func (h Header) Line(annotation string) string {
	return h.Prefix + annotation + h.Suffix
}

// Present сообщает, что заголовок уже есть и файл трогать не нужно.
func (h Header) Present(content string) bool {
	if h.Policy == FillEmpty {
		return strings.TrimSpace(content) != ""
	}
	detect := h.Detect
	if detect == "" {
		detect = h.Prefix
	}
	return strings.HasPrefix(content, detect)
}

// Render возвращает новое содержимое файла и признак изменения.
func (h Header) Render(content, annotation string) (string, bool) {
	if h.Present(content) {
		return content, false
	}
	if h.Policy == FillEmpty {
		// Пустая аннотация в пустом файле: писать нечего
		return annotation, annotation != content
	}
	return h.Line(annotation) + "\n" + content, true
}

// Extract достаёт аннотацию из первой строки содержимого.
func (h Header) Extract(content string) (string, bool) {
	first, _, _ := strings.Cut(content, "\n")
	first = strings.TrimRight(first, "\r")

	if h.Policy == FillEmpty {
		first = strings.TrimSpace(first)
		return first, first != ""
	}
	if len(first) < len(h.Prefix)+len(h.Suffix) ||
		!strings.HasPrefix(first, h.Prefix) || !strings.HasSuffix(first, h.Suffix) {
		return "", false
	}
	return strings.TrimSpace(first[len(h.Prefix) : len(first)-len(h.Suffix)]), true
}

// Table — соглашения по расширению (с точкой, регистр учитывается).
type Table map[string]Header

// Default возвращает встроенную таблицу: .py, .js, .ts, .md, .sh.
func Default() Table {
	return Table{
		".py": {Prefix: `"""`, Suffix: `"""`, Policy: Prepend},
		".js": {Prefix: "// ", Detect: "//", Policy: Prepend},
		".ts": {Prefix: "// ", Detect: "//", Policy: Prepend},
		".md": {Policy: FillEmpty},
		".sh": {Prefix: "# ", Policy: Prepend},
	}
}

// Lookup ищет соглашение по расширению файла path.
func (t Table) Lookup(path string) (Header, bool) {
	ext := filepath.Ext(path)
	if ext == "" {
		return Header{}, false
	}
	h, ok := t[ext]
	return h, ok
}

// With возвращает копию таблицы с добавленным или заменённым расширением.
func (t Table) With(ext string, h Header) Table {
	out := make(Table, len(t)+1)
	for k, v := range t {
		out[k] = v
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	out[ext] = h
	return out
}
