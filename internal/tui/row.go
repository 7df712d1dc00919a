package tui

import (
	"strings"

	"oer-catalog/internal/catalog"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const detailIndent = "    "

// rowView is the rendered form of one resource: a header line and a detail
// panel. The detail panel is always computed; lines() only includes it when
// the row is open.
type rowView struct {
	header string
	detail []string
}

func (r rowView) lines(open bool) []string {
	if !open {
		return []string{r.header}
	}
	out := make([]string, 0, 1+len(r.detail))
	out = append(out, r.header)
	return append(out, r.detail...)
}

// renderRow is a pure projection of one resource. It keeps no state.
func renderRow(it catalog.ResourceSummary, open, selected bool, width int) rowView {
	if width < 20 {
		width = 20
	}

	title := strings.TrimSpace(it.Title)
	if title == "" {
		title = "(untitled)"
	}
	header := fitWidth(glyphTwisty(open)+" "+title, width)
	if selected {
		header = styleSelected().Render(header)
	} else {
		header = lipgloss.NewStyle().Bold(open).Render(header)
	}

	var detail []string
	label := lipgloss.NewStyle().Bold(true)
	for _, s := range it.Meta {
		line := detailIndent + label.Render(s.Key+":") + " " + slotText(s.AttributeSlot)
		detail = append(detail, xansi.Truncate(line, width, glyphEllipsis()))
	}
	link := strings.TrimSpace(it.Link)
	if link == "" {
		link = "-"
	}
	linkLine := detailIndent + label.Render("Open Resource:") + " " + styleLink().Render(link)
	detail = append(detail, xansi.Truncate(linkLine, width, glyphEllipsis()))

	return rowView{header: header, detail: detail}
}

// slotText renders a slot value; unresolved values never render as "null".
func slotText(s catalog.AttributeSlot) string {
	switch {
	case s.Resolved && strings.TrimSpace(s.Value) != "":
		return s.Value
	case s.NeedsFetch():
		return styleMuted().Render(glyphEllipsis())
	default:
		return styleMuted().Render("-")
	}
}

// fitWidth pads or cuts s to exactly w cells.
func fitWidth(s string, w int) string {
	sw := xansi.StringWidth(s)
	switch {
	case sw < w:
		return s + strings.Repeat(" ", w-sw)
	case sw > w:
		return xansi.Truncate(s, w, glyphEllipsis())
	default:
		return s
	}
}
