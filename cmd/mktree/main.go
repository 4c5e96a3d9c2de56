package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mktree/internal/app"
	"mktree/internal/config"
	"mktree/internal/ctxlog"
	"mktree/internal/header"
	"mktree/internal/parser"
)

// Версию можно переопределить через -ldflags "-X main.version=1.0.0"
var version = "dev"

// exitError — ошибка с кодом выхода (2 — неверные аргументы).
type exitError struct {
	Code    int
	Message string
}

func (e *exitError) Error() string { return e.Message }

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "ошибка: %s\n", exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fail(err)
	}
}

// run разбирает аргументы и запускает приложение; вынесено из main для тестов.
func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("mktree", flag.ContinueOnError)
	// Ошибки разбора флагов — в stderr, справка — в stdout
	fs.SetOutput(stderr)

	// Флаги. Делаем их очевидными и простыми.
	in := fs.String("in", "-", "Путь к файлу с описанием дерева ('-' для stdin; .yaml — манифест)")
	root := fs.String("root", "", "Новое имя единственного корня (или имя обёртки для нескольких корней)")
	parent := fs.String("parent", "", "Каталог-обёртка для дерева (важнее -root)")
	indent := fs.Int("indent", parser.DefaultIndent, "Пробелов на уровень вложенности")
	dry := fs.Bool("dry", false, "Dry-run: только показать, что будет создано")
	verbose := fs.Bool("v", false, "Подробный вывод")
	quiet := fs.Bool("q", false, "Тихий режим (подавить обычные сообщения)")
	dpermStr := fs.String("dperm", "0755", "Права для каталогов (восьмерично, например 0755)")
	configPath := fs.String("config", "", "HCL-файл настроек")
	manifestPath := fs.String("manifest", "", "Сохранить итоговое дерево в YAML-файл")
	metricsPath := fs.String("metrics-file", "", "Сохранить метрики Prometheus в файл (textfile)")
	scanDir := fs.String("scan", "", "Напечатать дерево существующего каталога и выйти")
	noGitignore := fs.Bool("no-gitignore", false, "При -scan не учитывать .gitignore")
	logLevel := fs.String("log-level", "warn", "Уровень журнала: debug, info, warn, error")
	logFormat := fs.String("log-format", "text", "Формат журнала: text или json")
	showVersion := fs.Bool("version", false, "Показать версию и выйти")

	fs.Usage = func() {
		name := filepath.Base(os.Args[0])
		fmt.Fprintf(stdout, `
%s — создаёт каталоги и файлы по дереву с отступами.

Использование:
  %s -in tree.txt [-root NAME] [-parent DIR] [-indent 2] [-dry] [-v|-q] [-dperm 0755]
  %s -scan DIR [-indent 2] [-no-gitignore]

Флаги:
`, name, name, name)
		fs.SetOutput(stdout)
		fs.PrintDefaults()
		fs.SetOutput(stderr)
		fmt.Fprintf(stdout, `
Формат входного файла:
  Одна строка — один элемент, вложенность — отступ (по умолчанию 2 пробела).
  Каталоги указываются с / в конце. Всё после '#' — аннотация: она попадает
  в заголовок .py/.js/.ts/.sh и в пустой .md.

Примеры:
  %[1]s -in tree.txt
  cat tree.txt | %[1]s -parent ./dst -v
  %[1]s -in tree.txt -dry
  %[1]s -scan ./project > tree.txt
`, name)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return &exitError{Code: 2, Message: err.Error()}
	}

	if *showVersion {
		fmt.Fprintln(stdout, version)
		return nil
	}

	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	isExplicit := func(name string) bool { return explicit[name] }

	// Логгер до чтения настроек; уровень из файла применяется ниже.
	logger := app.NewLogger(strings.ToLower(*logLevel), strings.ToLower(*logFormat), stderr)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	var cfg *config.File
	if *configPath != "" {
		var err error
		cfg, err = config.Load(ctx, *configPath)
		if err != nil {
			return err
		}
		level, format := *logLevel, *logFormat
		if cfg.LogLevel != nil && !isExplicit("log-level") {
			level = *cfg.LogLevel
		}
		if cfg.LogFormat != nil && !isExplicit("log-format") {
			format = *cfg.LogFormat
		}
		logger = app.NewLogger(strings.ToLower(level), strings.ToLower(format), stderr)
		ctx = ctxlog.WithLogger(ctx, logger)
	}

	// Разбор прав доступа
	dperm, err := config.ParsePerm(*dpermStr, 0o755)
	if err != nil {
		return &exitError{Code: 2, Message: fmt.Sprintf("неверные права -dperm: %v", err)}
	}
	if *indent < 1 {
		return &exitError{Code: 2, Message: "-indent должен быть положительным"}
	}

	opts := app.Options{
		InPath:       *in,
		ScanDir:      *scanDir,
		Root:         *root,
		Parent:       *parent,
		Indent:       *indent,
		DryRun:       *dry,
		Verbose:      *verbose,
		Quiet:        *quiet,
		DirPerm:      dperm,
		Headers:      header.Default(),
		Gitignore:    !*noGitignore,
		ManifestPath: *manifestPath,
		MetricsPath:  *metricsPath,
		Version:      version,
		Out:          stdout,
	}
	if err := opts.Merge(cfg, isExplicit); err != nil {
		return fmt.Errorf("ошибка в настройках %s: %w", *configPath, err)
	}
	logger.Debug("Options ready.", "in", opts.InPath, "scan", opts.ScanDir, "root", opts.Root, "parent", opts.Parent, "indent", opts.Indent)

	_, err = app.Run(ctx, opts)
	return err
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "ошибка: %v\n", err)
	os.Exit(1)
}
