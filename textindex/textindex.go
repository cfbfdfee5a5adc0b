// Package textindex builds the ordered sequence of visible text the field
// positions refer to.
package textindex

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Selector lists the element kinds collected into the index
const Selector = "h1, h2, h3, h4, p, span, div"

// Index is the trimmed, non-empty text of each selected element in document order
type Index []string

// Entry is one position of the index
type Entry struct {
	Position int
	Text     string
}

// skipped elements never contribute visible text
var skipped = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"head":     true,
	"svg":      true,
}

// blocks start and end on their own line, as innerText renders them
var blocks = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "fieldset": true,
	"figcaption": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"tr": true, "ul": true,
}

// Build parses rendered HTML and collects the index
func Build(rendered string) (Index, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return FromDocument(doc), nil
}

// FromDocument collects the index from an already parsed document
func FromDocument(doc *goquery.Document) Index {
	index := make(Index, 0, 512)

	doc.Find(Selector).Each(func(i int, s *goquery.Selection) {
		node := s.Get(0)
		if hiddenWithin(node) {
			return
		}
		if text := VisibleText(node); text != "" {
			index = append(index, text)
		}
	})

	return index
}

// Range returns the entries between two 1-based positions, inclusive, clamped to the index
func (idx Index) Range(from, to int) []Entry {
	if from < 1 {
		from = 1
	}
	if to > len(idx) {
		to = len(idx)
	}
	var entries []Entry
	for p := from; p <= to; p++ {
		entries = append(entries, Entry{Position: p, Text: idx[p-1]})
	}
	return entries
}

// VisibleText approximates the rendered innerText of n: block boundaries and
// <br> become line breaks, inline whitespace collapses, and every line is trimmed.
func VisibleText(n *html.Node) string {
	var sb strings.Builder
	writeText(&sb, n)

	var lines []string
	for _, line := range strings.Split(sb.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func writeText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(collapse(n.Data))
		return
	case html.ElementNode:
		if skipped[n.Data] || hidden(n) {
			return
		}
		if n.Data == "br" {
			sb.WriteByte('\n')
			return
		}
	default:
		if n.Type != html.DocumentNode {
			return
		}
	}

	block := n.Type == html.ElementNode && blocks[n.Data]
	if block {
		sb.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(sb, c)
	}
	if block {
		sb.WriteByte('\n')
	}
}

// collapse turns every whitespace run into a single space
func collapse(s string) string {
	var sb strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !space {
				sb.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		sb.WriteRune(r)
	}
	return sb.String()
}

// hiddenWithin reports whether n or any ancestor is hidden from rendering
func hiddenWithin(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && (skipped[p.Data] || hidden(p)) {
			return true
		}
	}
	return false
}

func hidden(n *html.Node) bool {
	for _, a := range n.Attr {
		switch a.Key {
		case "hidden":
			return true
		case "style":
			style := strings.ReplaceAll(strings.ToLower(a.Val), " ", "")
			if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
				return true
			}
		}
	}
	return false
}
