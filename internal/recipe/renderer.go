// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/spf13/afero"
	"mvdan.cc/sh/v3/syntax"
)

const (
	// FileName is the recipe file consumed by the engine build step.
	FileName = "Containerfile"

	defaultTemplateName = "Containerfile.tmpl"
)

var (
	//go:embed Containerfile.tmpl
	defaultTemplate string

	//go:embed dispatch.sh
	dispatchScript string
)

// placeholderPattern extracts the failing field from text/template errors,
// e.g. `executing "x" at <.Repository.URL>: ...`.
var placeholderPattern = regexp.MustCompile(`at <\.?([^>]*)>`)

// Renderer renders Values through a parsed Containerfile template.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer returns a renderer using the built-in Containerfile template.
func NewRenderer() (*Renderer, error) {
	return Parse(defaultTemplateName, defaultTemplate)
}

// NewRendererFromFile parses a user-supplied template from fs.
func NewRendererFromFile(fs afero.Fs, path string) (*Renderer, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, &TemplateError{Err: fmt.Errorf("read template %s: %w", path, err)}
	}
	return Parse(filepath.Base(path), string(data))
}

// Parse compiles text as a Containerfile template. Sprig functions and
// shquote are available.
func Parse(name, text string) (*Renderer, error) {
	tmpl, err := template.New(name).
		Option("missingkey=error").
		Funcs(funcMap()).
		Parse(text)
	if err != nil {
		return nil, &TemplateError{Placeholder: placeholderOf(err), Err: err}
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render validates v and executes the template.
func (r *Renderer) Render(v Values) (string, error) {
	if err := v.Validate(); err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := r.tmpl.Execute(&sb, v); err != nil {
		return "", &TemplateError{Placeholder: placeholderOf(err), Err: err}
	}
	return sb.String(), nil
}

// Write replaces path on fs with text.
func Write(fs afero.Fs, path, text string) error {
	if err := afero.WriteFile(fs, path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write recipe %s: %w", path, err)
	}
	return nil
}

func funcMap() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["shquote"] = shquote
	return funcs
}

// shquote quotes s as a single bash word.
func shquote(s string) (string, error) {
	quoted, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	return quoted, nil
}

func placeholderOf(err error) string {
	if m := placeholderPattern.FindStringSubmatch(err.Error()); m != nil {
		return m[1]
	}
	return ""
}
