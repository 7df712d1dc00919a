package tui

import (
	"os"
	"strings"
	"sync"
)

// Some terminals/fonts render the Unicode affordances poorly, so an ASCII set
// can be selected with OER_TUI_GLYPHS=ascii.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

func applyGlyphPreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("OER_TUI_GLYPHS"))) {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	default:
		// Unknown value: ignore.
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

// glyphTwisty is the row direction indicator.
func glyphTwisty(open bool) string {
	ascii := glyphs() == glyphSetASCII
	switch {
	case open && ascii:
		return "v"
	case open:
		return "▾"
	case ascii:
		return ">"
	default:
		return "▸"
	}
}

func glyphEllipsis() string {
	if glyphs() == glyphSetASCII {
		return "..."
	}
	return "…"
}

func glyphDot() string {
	if glyphs() == glyphSetASCII {
		return "|"
	}
	return "·"
}

func glyphHRule() string {
	if glyphs() == glyphSetASCII {
		return "-"
	}
	return "─"
}
