package pages

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/flatpages/internal/errors"
	"git.home.luguber.info/inful/flatpages/internal/render"
)

func mustParse(t *testing.T, encoding string, raw []byte) *Page {
	t.Helper()
	p, err := NewParser(encoding)
	require.NoError(t, err)
	page, err := p.Parse(raw, "test", "test.html", time.Now())
	require.NoError(t, err)
	return page
}

func TestParse_MetaBodySplit(t *testing.T) {
	page := mustParse(t, "utf-8", []byte("title: X\n\nBody text"))

	title, err := page.Meta("title")
	require.NoError(t, err)
	require.Equal(t, "X", title)
	require.Equal(t, "Body text", page.Body)
}

func TestParse_NoSeparator_AllBody(t *testing.T) {
	page := mustParse(t, "utf-8", []byte("title: X\nstill the body"))

	require.Zero(t, page.MetaLen())
	require.Equal(t, "title: X\nstill the body", page.Body)
}

func TestParse_LeadingBlankLine_EmptyMeta(t *testing.T) {
	page := mustParse(t, "utf-8", []byte("\nfirst rewrite"))

	require.Zero(t, page.MetaLen())
	require.Equal(t, "first rewrite", page.Body)
}

func TestParse_EmptyFile(t *testing.T) {
	page := mustParse(t, "utf-8", nil)

	require.Zero(t, page.MetaLen())
	require.Empty(t, page.Body)
}

func TestParse_NestedMetaValues(t *testing.T) {
	raw := []byte("title: Foo > bar\ncreated: 2010-12-11\nversions: [3.14, 42]\n\nFoo *bar*\n")
	page := mustParse(t, "utf-8", raw)

	title, err := page.Meta("title")
	require.NoError(t, err)
	require.Equal(t, "Foo > bar", title)

	created, err := page.Meta("created")
	require.NoError(t, err)
	require.Equal(t, time.Date(2010, 12, 11, 0, 0, 0, 0, time.UTC), created)

	versions, err := page.Meta("versions")
	require.NoError(t, err)
	require.Equal(t, []any{3.14, 42}, versions)
}

func TestParse_MetaKeyOrderPreserved(t *testing.T) {
	page := mustParse(t, "utf-8", []byte("zulu: 1\nalpha: 2\nmike: 3\n\nbody"))

	require.Equal(t, []string{"zulu", "alpha", "mike"}, page.MetaKeys())
}

func TestParse_MalformedMeta_PropagatesError(t *testing.T) {
	p, err := NewParser("utf-8")
	require.NoError(t, err)

	_, err = p.Parse([]byte("{ not: valid: yaml\n\nbody"), "bad", "bad.html", time.Now())
	require.Error(t, err)
	require.True(t, derrors.IsMetadata(err))
}

func TestParse_NonMappingMeta_IsError(t *testing.T) {
	p, err := NewParser("utf-8")
	require.NoError(t, err)

	_, err = p.Parse([]byte("- a\n- b\n\nbody"), "bad", "bad.html", time.Now())
	require.Error(t, err)
	require.True(t, derrors.IsMetadata(err))
}

func TestParse_InvalidUTF8_IsEncodingError(t *testing.T) {
	p, err := NewParser("utf-8")
	require.NoError(t, err)

	_, err = p.Parse([]byte{0xff, 0xfe, 0xfd}, "bad", "bad.html", time.Now())
	require.Error(t, err)
	require.True(t, derrors.IsEncoding(err))
}

func TestParse_AlternateEncoding(t *testing.T) {
	// "café" in ISO 8859-1: the é is the single byte 0xE9, invalid as UTF-8.
	raw := []byte{'c', 'a', 'f', 0xe9}

	page := mustParse(t, "iso-8859-1", append(append([]byte{}, raw...), []byte("\n")...))
	require.Equal(t, "café\n", page.Body)

	p, err := NewParser("utf-8")
	require.NoError(t, err)
	_, err = p.Parse(raw, "bad", "bad.html", time.Now())
	require.True(t, derrors.IsEncoding(err))
}

func TestNewParser_UnknownEncoding(t *testing.T) {
	_, err := NewParser("klingon-8")
	require.Error(t, err)
	require.Equal(t, derrors.CategoryConfig, derrors.GetCategory(err))
}

func TestParse_RendererHint(t *testing.T) {
	page := mustParse(t, "utf-8", []byte("renderer: html\n\n<b>raw</b>"))
	require.Equal(t, render.KindHTML, page.RendererKind())

	html, err := page.HTML()
	require.NoError(t, err)
	require.Equal(t, "<b>raw</b>", html)
}

func TestParse_UnknownRendererHint_IsError(t *testing.T) {
	p, err := NewParser("utf-8")
	require.NoError(t, err)

	_, err = p.Parse([]byte("renderer: jinja\n\nbody"), "bad", "bad.html", time.Now())
	require.Error(t, err)
	require.Equal(t, derrors.CategoryMetadata, derrors.GetCategory(err))
}

func TestPage_MissingMetaKey(t *testing.T) {
	page := mustParse(t, "utf-8", []byte("title: X\n\nbody"))

	_, err := page.Meta("nonexistent")
	require.Error(t, err)
	require.True(t, derrors.IsMissingKey(err))
	require.False(t, derrors.IsNotFound(err))
}
