package templates

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/flatpages/internal/pages"
)

func testPage(t *testing.T, content string) *pages.Page {
	t.Helper()
	parser, err := pages.NewParser("utf-8")
	require.NoError(t, err)
	page, err := parser.Parse([]byte(content), "hello", "hello.html", time.Now())
	require.NoError(t, err)
	return page
}

func TestLoad_BuiltinOnly(t *testing.T) {
	env, err := Load("")
	require.NoError(t, err)

	page := testPage(t, "title: Greetings\n\nHello, *world*!\n")
	out, err := env.Execute(DefaultName, page)
	require.NoError(t, err)
	require.Contains(t, out, "<title>Greetings</title>")
	require.Contains(t, out, "<p>Hello, <em>world</em>!</p>")
}

func TestLoad_DirectoryAddsTemplates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "article.html"),
		[]byte(`<article>{{.Content}}</article>`), 0o644))

	env, err := Load(dir)
	require.NoError(t, err)

	page := testPage(t, "template: article.html\n\nHello, *world*!\n")
	out, err := env.Execute(page.Template(), page)
	require.NoError(t, err)
	require.Equal(t, "<article><p>Hello, <em>world</em>!</p>\n</article>", out)
}

func TestLoad_MissingDirectory_IsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestExecute_UndefinedTemplate(t *testing.T) {
	env, err := Load("")
	require.NoError(t, err)

	_, err = env.Execute("missing.html", testPage(t, "body"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing.html")
}

func TestExecute_MetadataEscapedContentNot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "flatpage.html"),
		[]byte(`<h1>{{.Meta "title"}}</h1>
{{.Content}}`), 0o644))

	env, err := Load(dir)
	require.NoError(t, err)

	page := testPage(t, "title: Foo > bar\n\nFoo *bar*\n")
	out, err := env.Execute(DefaultName, page)
	require.NoError(t, err)
	// The metadata value is escaped but the rendered body is not.
	require.Equal(t, "<h1>Foo &gt; bar</h1>\n<p>Foo <em>bar</em></p>\n", out)
}

func TestEnvSatisfiesTemplateRenderer(t *testing.T) {
	var _ pages.TemplateRenderer = (*Env)(nil)
}
