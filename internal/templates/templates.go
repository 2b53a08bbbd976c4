// Package templates provides the html/template environment the web layer
// hands to the page cache. A page's `template` metadata picks a template by
// name; DefaultName wraps pages that designate none.
package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/flatpages/internal/pages"
)

// DefaultName is the template used for pages without a template designation.
const DefaultName = "flatpage.html"

// builtinDefault keeps the server usable with no templates directory at all.
const builtinDefault = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>{{with .Title}}{{.}}{{else}}{{.Path}}{{end}}</title></head>
<body>
{{.Content}}
</body>
</html>
`

// Env is a loaded template set.
type Env struct {
	tmpl *template.Template
}

// Load builds an Env from the built-in default plus every *.html file in dir.
// Files shadow the built-in on name collision. An empty dir loads only the
// built-in.
func Load(dir string) (*Env, error) {
	root := template.New(DefaultName)
	if _, err := root.Parse(builtinDefault); err != nil {
		return nil, fmt.Errorf("parse builtin template: %w", err)
	}

	if dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("templates directory: %w", err)
		}
		matches, err := filepath.Glob(filepath.Join(dir, "*.html"))
		if err != nil {
			return nil, err
		}
		if len(matches) > 0 {
			if _, err := root.ParseFiles(matches...); err != nil {
				return nil, fmt.Errorf("parse templates in %s: %w", dir, err)
			}
		}
	}

	return &Env{tmpl: root}, nil
}

// view is the data handed to templates. Page metadata is reachable through
// the embedded methods ({{.Meta "key"}}); Content carries the rendered body
// unescaped, since it is the renderer's own HTML output.
type view struct {
	*pages.Page
	Content template.HTML
}

// Title returns the page title metadata, or "" when unset.
func (v view) Title() string {
	t, err := v.Page.Meta("title")
	if err != nil {
		return ""
	}
	s, _ := t.(string)
	return s
}

// Execute renders page through the named template. Implements
// pages.TemplateRenderer.
func (e *Env) Execute(name string, page *pages.Page) (string, error) {
	if e.tmpl.Lookup(name) == nil {
		return "", fmt.Errorf("template %q is not defined", name)
	}

	html, err := page.HTML()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := e.tmpl.ExecuteTemplate(&buf, name, view{Page: page, Content: template.HTML(html)}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
