// Package config загружает необязательный HCL-файл настроек.
//
// Пример:
//
//	indent   = 4
//	dir_mode = "0750"
//	parent   = "${env.HOME}/src"
//
//	header "rb" {
//	  prefix = "# "
//	}
//
// В выражениях доступен объект env с переменными окружения.
// Явно заданные флаги командной строки важнее файла.
package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"mktree/internal/ctxlog"
	"mktree/internal/header"
)

// Header — блок header "<расширение>" { ... }.
type Header struct {
	Extension string `hcl:"extension,label"`
	Prefix    string `hcl:"prefix,optional"`
	Suffix    string `hcl:"suffix,optional"`
	Detect    string `hcl:"detect,optional"`
	Policy    string `hcl:"policy,optional"`
}

// File — содержимое файла настроек. nil — значение не задано.
type File struct {
	Indent    *int      `hcl:"indent,optional"`
	DirMode   *string   `hcl:"dir_mode,optional"`
	Root      *string   `hcl:"root,optional"`
	Parent    *string   `hcl:"parent,optional"`
	LogLevel  *string   `hcl:"log_level,optional"`
	LogFormat *string   `hcl:"log_format,optional"`
	Gitignore *bool     `hcl:"gitignore,optional"`
	Headers   []*Header `hcl:"header,block"`
}

// Load читает и декодирует файл path.
func Load(ctx context.Context, path string) (*File, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading config.", "path", path)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var f File
	diags = gohcl.DecodeBody(hclFile.Body, EvalContext(), &f)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}
	if f.Indent != nil && *f.Indent < 1 {
		return nil, fmt.Errorf("%s: indent должен быть положительным, получено %d", path, *f.Indent)
	}

	logger.Debug("Config loaded.", "headers", len(f.Headers))
	return &f, nil
}

// EvalContext даёт выражениям переменную env.
func EvalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
	}
}

// HeaderTable накладывает блоки header на base.
func (f *File) HeaderTable(base header.Table) (header.Table, error) {
	t := base
	for _, h := range f.Headers {
		policy, err := header.ParsePolicy(h.Policy)
		if err != nil {
			return nil, fmt.Errorf("header %q: %w", h.Extension, err)
		}
		t = t.With(h.Extension, header.Header{
			Prefix: h.Prefix,
			Suffix: h.Suffix,
			Detect: h.Detect,
			Policy: policy,
		})
	}
	return t, nil
}

// ParsePerm разбирает права в восьмеричной записи.
// Пустая строка — def.
func ParsePerm(s string, def os.FileMode) (os.FileMode, error) {
	ss := strings.TrimSpace(s)
	if ss == "" {
		return def, nil
	}
	// base=0 понимает 0755/0o755; без ведущего нуля считаем восьмеричным
	base := 0
	if !strings.HasPrefix(ss, "0") {
		base = 8
	}
	u, err := strconv.ParseUint(ss, base, 32)
	if err != nil {
		return 0, err
	}
	if u > 0o7777 {
		return 0, fmt.Errorf("слишком большое значение: %s", ss)
	}
	return os.FileMode(u), nil
}
