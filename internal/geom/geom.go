package geom

import "math"

// Zone is the vertical region of the canvas a pointer event lands in.
type Zone string

const (
	ZoneContainer Zone = "container" // top band: container creation/selection
	ZoneNode      Zone = "node"      // remainder: node placement/selection
)

// DefaultContainerZoneFraction is the share of the canvas height occupied by
// the container zone.
const DefaultContainerZoneFraction = 0.25

// Map converts canvas-local pointer coordinates to slot indices and zones,
// and back. Width/Height are in the canvas's own units (pixels for an SVG
// shell, cells for the TUI). Slots are laid out evenly across the width.
type Map struct {
	Width      float64
	Height     float64
	TotalSlots int

	// ContainerZoneFraction defaults to DefaultContainerZoneFraction when 0.
	ContainerZoneFraction float64
}

func (m Map) zoneFraction() float64 {
	if m.ContainerZoneFraction <= 0 || m.ContainerZoneFraction >= 1 {
		return DefaultContainerZoneFraction
	}
	return m.ContainerZoneFraction
}

// SlotAt maps an x coordinate to a slot index, clamped to [0, TotalSlots-1].
// An empty board (TotalSlots == 0) or a degenerate canvas maps everything to
// slot 0.
func (m Map) SlotAt(x float64) int {
	if m.TotalSlots <= 0 || m.Width <= 0 {
		return 0
	}
	s := int(math.Floor(x / (m.Width / float64(m.TotalSlots))))
	if s < 0 {
		return 0
	}
	if s >= m.TotalSlots {
		return m.TotalSlots - 1
	}
	return s
}

// ZoneAt maps a y coordinate to its vertical zone.
func (m Map) ZoneAt(y float64) Zone {
	if m.Height <= 0 {
		return ZoneNode
	}
	if y < m.zoneFraction()*m.Height {
		return ZoneContainer
	}
	return ZoneNode
}

// At resolves a pointer position to its (slot, zone) pair.
func (m Map) At(x, y float64) (int, Zone) {
	return m.SlotAt(x), m.ZoneAt(y)
}

// XForSlot returns the x coordinate of the center of a slot's band. The
// inverse of SlotAt up to the band width; used to render affordances.
func (m Map) XForSlot(s int) float64 {
	if m.TotalSlots <= 0 || m.Width <= 0 {
		return 0
	}
	band := m.Width / float64(m.TotalSlots)
	return (float64(s) + 0.5) * band
}

// WithPlacingRange extends the mapped range during a two-step gesture so the
// slot one past the anchor stays clickable even on a sparse or empty board.
// The anchor's own slot plus one successor must always be addressable.
func (m Map) WithPlacingRange(anchor int) Map {
	min := anchor + 2
	if m.TotalSlots < min {
		m.TotalSlots = min
	}
	return m
}
