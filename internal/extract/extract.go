// Package extract reduces HTML sources to the text textvec analyzes.
//
// The content to keep is chosen in one of three ways: a CSS selector, the
// whole document (IncludeAll), or the main article found by go-readability.
// It is then rendered either as plain text, with blank lines between blocks so
// that paragraph splitting still works, or as Markdown.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/chriscorrea/textvec/pkg/errs"
)

// Format is the rendering of extracted content.
type Format int

const (
	// Text renders plain text (default)
	Text Format = iota
	// Markdown renders Markdown
	Markdown
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case Text:
		return "text"
	case Markdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// ParseFormat returns the Format named s. The empty string is Text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return Text, nil
	case "markdown", "md":
		return Markdown, nil
	default:
		return Text, errs.Configf("extract.ParseFormat", "extract format %q is unsupported", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Options configures Extract.
type Options struct {
	Selector   string   // CSS selector; overrides IncludeAll
	IncludeAll bool     // skip readability and keep the whole document
	Format     Format   // rendering of the kept content
	BaseURL    *url.URL // page URL for readability, may be nil
}

// IsHTML reports whether data looks like an HTML document.
func IsHTML(data []byte) bool {
	return strings.HasPrefix(http.DetectContentType(data), "text/html")
}

// Extract selects content from the HTML in r and renders it.
func Extract(r io.Reader, opts Options) (string, error) {
	var (
		fragment string
		err      error
	)
	switch {
	case opts.Selector != "":
		fragment, err = selectHTML(r, opts.Selector)
	case opts.IncludeAll:
		fragment, err = readHTML(r)
	default:
		fragment, err = mainContent(r, opts.BaseURL)
	}
	if err != nil {
		return "", err
	}

	if opts.Format == Markdown {
		return toMarkdown(fragment)
	}
	return toText(fragment)
}

// mainContent returns the HTML of the main article.
func mainContent(r io.Reader, baseURL *url.URL) (string, error) {
	if baseURL == nil {
		baseURL = &url.URL{}
	}
	article, err := readability.FromReader(r, baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract main content: %w", err)
	}
	return article.Content, nil
}

// selectHTML returns the outer HTML of every element matching selector.
func selectHTML(r io.Reader, selector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	selection := doc.Find(selector)
	if selection.Length() == 0 {
		return "", fmt.Errorf("no elements found matching selector: %s", selector)
	}

	var parts []string
	selection.Each(func(_ int, s *goquery.Selection) {
		if outer, err := goquery.OuterHtml(s); err == nil {
			parts = append(parts, outer)
		}
	})
	if len(parts) == 0 {
		return "", fmt.Errorf("failed to extract HTML from selection")
	}
	return strings.Join(parts, "\n"), nil
}

func readHTML(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read HTML content: %w", err)
	}
	return string(data), nil
}

// toMarkdown converts an HTML fragment to Markdown.
func toMarkdown(fragment string) (string, error) {
	converter := md.NewConverter("", true, nil)
	converter.Use(md.Plugin(func(c *md.Converter) []md.Rule {
		return []md.Rule{{
			Filter: []string{"*"},
			Replacement: func(content string, _ *goquery.Selection, _ *md.Options) *string {
				cleaned := strings.ReplaceAll(strings.TrimSpace(content), "\n\n\n", "\n\n")
				return &cleaned
			},
		}}
	}))

	markdown, err := converter.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}
	return strings.ReplaceAll(strings.TrimSpace(markdown), "\n\n\n", "\n\n"), nil
}

// skipped elements contribute no text.
var skipped = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Noscript: true, atom.Template: true, atom.Head: true,
}

// lineBreaks end a line; blocks are surrounded by blank lines.
var (
	lineBreaks = map[atom.Atom]bool{atom.Br: true, atom.Li: true, atom.Tr: true, atom.Dt: true, atom.Dd: true}
	blocks     = map[atom.Atom]bool{
		atom.P: true, atom.Div: true, atom.Article: true, atom.Section: true, atom.Main: true,
		atom.Header: true, atom.Footer: true, atom.Aside: true, atom.Nav: true, atom.Blockquote: true,
		atom.Pre: true, atom.Ul: true, atom.Ol: true, atom.Dl: true, atom.Table: true, atom.Figure: true,
		atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	}
)

// toText renders an HTML fragment as plain text.
func toText(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var buf bytes.Buffer
	for _, n := range doc.Nodes {
		renderText(&buf, n)
	}
	return tidy(buf.String()), nil
}

func renderText(buf *bytes.Buffer, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		buf.WriteString(collapseSpace(n.Data))
		return
	case html.ElementNode:
		if skipped[n.DataAtom] {
			return
		}
	}

	block := n.Type == html.ElementNode && blocks[n.DataAtom]
	if block {
		buf.WriteString("\n\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderText(buf, c)
	}
	switch {
	case block:
		buf.WriteString("\n\n")
	case n.Type == html.ElementNode && lineBreaks[n.DataAtom]:
		buf.WriteByte('\n')
	}
}

// collapseSpace turns every whitespace run into one space.
func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s == "" {
			return ""
		}
		return " "
	}
	out := strings.Join(fields, " ")
	if s[0] == ' ' || s[0] == '\n' || s[0] == '\t' || s[0] == '\r' {
		out = " " + out
	}
	if last := s[len(s)-1]; last == ' ' || last == '\n' || last == '\t' || last == '\r' {
		out += " "
	}
	return out
}

// tidy trims every line and keeps at most one blank line between blocks.
func tidy(text string) string {
	var (
		out   strings.Builder
		blank bool
	)
	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		if line == "" {
			blank = out.Len() > 0
			continue
		}
		if out.Len() > 0 {
			out.WriteByte('\n')
			if blank {
				out.WriteByte('\n')
			}
		}
		out.WriteString(line)
		blank = false
	}
	return out.String()
}
