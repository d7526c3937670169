package tui

import (
	"strings"
	"sync"
)

// Terminal apps can't change the user's actual font. Instead, we can choose
// between Unicode and ASCII glyph sets for board affordances (node markers,
// container rails, thread arcs). This helps on terminals/fonts that don't
// render some glyphs cleanly.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

func applyGlyphPreference(pref string) {
	switch strings.ToLower(strings.TrimSpace(pref)) {
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

func glyphNodeOpen() string {
	if glyphs() == glyphSetASCII {
		return "("
	}
	return "●"
}

func glyphNodeClose() string {
	if glyphs() == glyphSetASCII {
		return ")"
	}
	return "○"
}

func glyphNodePending() string {
	if glyphs() == glyphSetASCII {
		return "?"
	}
	return "◌"
}

func glyphRailH() string {
	if glyphs() == glyphSetASCII {
		return "-"
	}
	return "─"
}

func glyphRailStart() string {
	if glyphs() == glyphSetASCII {
		return "["
	}
	return "┠"
}

func glyphRailEnd() string {
	if glyphs() == glyphSetASCII {
		return "]"
	}
	return "┨"
}

func glyphArcStart() string {
	if glyphs() == glyphSetASCII {
		return "\\"
	}
	return "╰"
}

func glyphArcEnd() string {
	if glyphs() == glyphSetASCII {
		return "/"
	}
	return "╯"
}

func glyphArrow() string {
	if glyphs() == glyphSetASCII {
		return "->"
	}
	return "→"
}

func glyphBullet() string {
	if glyphs() == glyphSetASCII {
		return "*"
	}
	return "•"
}
