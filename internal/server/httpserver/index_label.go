package httpserver

import (
	"html"

	"git.home.luguber.info/inful/flatpages/internal/pages"
	"git.home.luguber.info/inful/flatpages/internal/render"
)

const excerptRunes = 80

// indexLabel builds the listing label for a page: its title when set,
// otherwise its path, followed by a short excerpt of the rendered body.
func indexLabel(page *pages.Page) string {
	label := page.Path
	if t, err := page.Meta("title"); err == nil {
		if s, ok := t.(string); ok && s != "" {
			label = s
		}
	}
	label = html.EscapeString(label)

	rendered, err := page.HTML()
	if err != nil {
		return label
	}
	if excerpt := render.Excerpt(rendered, excerptRunes); excerpt != "" {
		label += " - " + html.EscapeString(excerpt)
	}
	return label
}
