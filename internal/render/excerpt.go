package render

import (
	"strings"

	"golang.org/x/net/html"
)

// Excerpt extracts the plain text of rendered HTML, truncated to max runes.
// Used for page listings; not meant to be a faithful text rendition.
func Excerpt(renderedHTML string, max int) string {
	var sb strings.Builder

	tokenizer := html.NewTokenizer(strings.NewReader(renderedHTML))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			text := strings.TrimSpace(string(tokenizer.Text()))
			if text == "" {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(text)
		}
	}

	out := sb.String()
	runes := []rune(out)
	if max > 0 && len(runes) > max {
		return strings.TrimSpace(string(runes[:max])) + "…"
	}
	return out
}
