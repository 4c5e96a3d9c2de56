package safety

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrInvalidName — имя узла не является одним сегментом пути.
	ErrInvalidName = errors.New("некорректное имя")
	// ErrEscape — путь выходит за пределы корня.
	ErrEscape = errors.New("попытка выхода за пределы корня")
)

// ValidateName проверяет, что имя — один путь-сегмент без разделителей,
// не ".", не ".." и не абсолютный путь.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: пустое имя", ErrInvalidName)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: имя не должно содержать разделителей пути: %q", ErrInvalidName, name)
	}
	if filepath.IsAbs(name) {
		return fmt.Errorf("%w: абсолютные пути запрещены: %q", ErrInvalidName, name)
	}
	return nil
}

// SafeJoin объединяет root и parts и убеждается, что результат остаётся внутри root.
func SafeJoin(root string, parts ...string) (string, error) {
	p := filepath.Join(append([]string{root}, parts...)...)
	cleanRoot := filepath.Clean(root)
	cleanP := filepath.Clean(p)

	rel, err := filepath.Rel(cleanRoot, cleanP)
	if err != nil {
		return "", err
	}
	relSl := filepath.ToSlash(rel)
	if relSl == ".." || strings.HasPrefix(relSl, "../") {
		return "", fmt.Errorf("%w: %s", ErrEscape, p)
	}
	return cleanP, nil
}

// ExpandHome раскрывает "~" и "~/..." в домашний каталог пользователя.
// Пустая строка и прочие пути возвращаются как есть.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("не удалось определить домашний каталог: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
