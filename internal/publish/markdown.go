// Package publish renders catalog pages as markdown documents.
package publish

import (
	"bytes"
	"fmt"
	"strings"

	"oer-catalog/internal/catalog"
)

type Page struct {
	Title  string
	Number int
	Total  int
	Error  string
	Items  []catalog.ResourceSummary
}

// RenderPageMarkdown renders one page: a heading, the result count, and one
// section per resource with its meta slots in order.
func RenderPageMarkdown(p Page) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = "Resources"
	}
	writeLn(fmt.Sprintf("# %s: page %d", title, p.Number))
	writeLn("")
	writeLn(fmt.Sprintf("Showing %d out of %d results.", len(p.Items), p.Total))
	if strings.TrimSpace(p.Error) != "" {
		writeLn("")
		writeLn("> " + strings.TrimSpace(p.Error))
	}

	for _, it := range p.Items {
		writeLn("")
		name := strings.TrimSpace(it.Title)
		if name == "" {
			name = "(untitled)"
		}
		writeLn("## " + escapeInline(name))
		writeLn("")
		writeLn("- ID: " + it.ID)
		for _, s := range it.Meta {
			writeLn("- " + s.Key + ": " + slotValue(s.AttributeSlot))
		}
		if link := strings.TrimSpace(it.Link); link != "" {
			writeLn("- Link: <" + link + ">")
		}
	}

	return buf.String()
}

func slotValue(s catalog.AttributeSlot) string {
	switch {
	case strings.TrimSpace(s.URL) == "":
		return "-"
	case !s.Resolved:
		return "(not fetched)"
	case strings.TrimSpace(s.Value) == "":
		return "(none)"
	default:
		return escapeInline(s.Value)
	}
}

var inlineEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`)

func escapeInline(s string) string {
	return inlineEscaper.Replace(s)
}
