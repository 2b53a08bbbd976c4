package pages

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	derrors "git.home.luguber.info/inful/flatpages/internal/errors"
	"git.home.luguber.info/inful/flatpages/internal/render"
)

// metaRendererKey is the metadata hint selecting a renderer variant.
const metaRendererKey = "renderer"

// Parser decodes raw page bytes and splits them into metadata and body.
type Parser struct {
	encodingName string
	enc          encoding.Encoding // nil means strict UTF-8
}

// NewParser creates a parser for the named text encoding. An empty name or a
// UTF-8 alias selects strict UTF-8 validation.
func NewParser(encodingName string) (*Parser, error) {
	name := strings.ToLower(strings.TrimSpace(encodingName))
	switch name {
	case "", "utf-8", "utf8":
		return &Parser{encodingName: "utf-8"}, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, derrors.ConfigInvalid("encoding", fmt.Sprintf("unknown encoding %q", encodingName))
	}
	return &Parser{encodingName: name, enc: enc}, nil
}

// Encoding returns the canonical name of the configured encoding.
func (p *Parser) Encoding() string { return p.encodingName }

// Parse decodes raw bytes and builds an immutable Page. The content splits at
// the first blank line: metadata block before, body after. Without a
// separator the whole content is body and metadata is empty. An empty file
// yields an empty page, not an error.
func (p *Parser) Parse(raw []byte, logical, filename string, mtime time.Time) (*Page, error) {
	content, err := p.decode(raw)
	if err != nil {
		return nil, derrors.DecodeFailed(filename, p.encodingName, err)
	}

	metaBlock, body := splitContent(content)

	meta, err := parseMeta(metaBlock)
	if err != nil {
		return nil, derrors.MetadataInvalid(filename, err)
	}

	renderer, err := render.ForHint(meta.String(metaRendererKey))
	if err != nil {
		return nil, derrors.UnknownRenderer(filename, meta.String(metaRendererKey))
	}

	return &Page{
		Path:     logical,
		Body:     body,
		meta:     meta,
		renderer: renderer,
		loadedAt: mtime,
	}, nil
}

func (p *Parser) decode(raw []byte) (string, error) {
	if p.enc == nil {
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("invalid UTF-8 sequence")
		}
		return string(raw), nil
	}

	out, err := p.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	// x/text decoders substitute U+FFFD for undecodable bytes instead of
	// failing. Treat a substitution that was not already in the input as an
	// encoding error.
	if bytes.ContainsRune(out, utf8.RuneError) && !bytes.ContainsRune(raw, utf8.RuneError) {
		return "", fmt.Errorf("byte sequence not valid for %s", p.encodingName)
	}
	return string(out), nil
}

// splitContent splits page content at the first blank line. A leading newline
// counts as an immediately-empty metadata block.
func splitContent(content string) (metaBlock, body string) {
	if strings.HasPrefix(content, "\n") {
		return "", content[1:]
	}
	if i := strings.Index(content, "\n\n"); i >= 0 {
		return content[:i+1], content[i+2:]
	}
	return "", content
}
