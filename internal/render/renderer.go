// Package render produces the host's own HTML pages: the bundled-offline
// error screen and the developer protocol reference. Hosted web-app content
// is never rendered here; it is served or proxied as-is.
package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	alertcallouts "github.com/zmtcreative/gm-alert-callouts"
)

//go:embed page.html
var pageTemplate string

//go:embed protocol.md
var protocolDoc string

// Renderer is a wrapper around the Goldmark markdown parser with
// pre-configured extensions.
type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			alertcallouts.AlertCallouts,
			extension.GFM,
			extension.Table,
			extension.Strikethrough,
			extension.Linkify,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithLineNumbers(false),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Renderer{md: md}
}

// RenderPage converts markdown source and wraps it in the HTML page shell.
func (r *Renderer) RenderPage(title string, source []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	page := strings.Replace(pageTemplate, "{{TITLE}}", title, 1)
	return strings.Replace(page, "{{CONTENT}}", buf.String(), 1), nil
}

// ProtocolReference renders the embedded bridge protocol document.
func (r *Renderer) ProtocolReference() (string, error) {
	return r.RenderPage("Bridge Protocol", []byte(protocolDoc))
}

// OfflineErrorPage renders the terminal error screen shown when the bundled
// asset tree has no root document. The page names the missing location and a
// manual recovery path; it is never blank.
func (r *Renderer) OfflineErrorPage(assetsDir string) (string, error) {
	source := fmt.Sprintf(`# Offline content unavailable

> [!CAUTION]
> The bundled web app could not be loaded: no root document was found in
> %s.

The shell was started in bundled-offline mode, but the packaged asset tree
is missing or incomplete.

To recover:

- restart the shell in remote mode, or
- rebuild the web app and copy its build output into the asset folder, then
  restart the shell.
`, "`"+assetsDir+"`")

	return r.RenderPage("Offline content unavailable", []byte(source))
}
