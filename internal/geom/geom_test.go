package geom

import "testing"

func TestSlotAtClamps(t *testing.T) {
	m := Map{Width: 100, Height: 40, TotalSlots: 4}

	cases := []struct {
		x    float64
		want int
	}{
		{-10, 0},
		{0, 0},
		{24.9, 0},
		{25, 1},
		{60, 2},
		{99.9, 3},
		{150, 3},
	}
	for _, tc := range cases {
		if got := m.SlotAt(tc.x); got != tc.want {
			t.Fatalf("SlotAt(%v) = %d; want %d", tc.x, got, tc.want)
		}
	}
}

func TestSlotAtEmptyBoard(t *testing.T) {
	m := Map{Width: 100, Height: 40, TotalSlots: 0}
	if got := m.SlotAt(50); got != 0 {
		t.Fatalf("SlotAt on empty board = %d; want 0", got)
	}
	if got := (Map{Width: 0, TotalSlots: 5}).SlotAt(3); got != 0 {
		t.Fatalf("SlotAt with zero width = %d; want 0", got)
	}
}

func TestZoneSplit(t *testing.T) {
	m := Map{Width: 100, Height: 40, TotalSlots: 4}
	if got := m.ZoneAt(0); got != ZoneContainer {
		t.Fatalf("ZoneAt(0) = %s; want container", got)
	}
	if got := m.ZoneAt(9.9); got != ZoneContainer {
		t.Fatalf("ZoneAt(9.9) = %s; want container", got)
	}
	if got := m.ZoneAt(10); got != ZoneNode {
		t.Fatalf("ZoneAt(10) = %s; want node", got)
	}
	if got := m.ZoneAt(39); got != ZoneNode {
		t.Fatalf("ZoneAt(39) = %s; want node", got)
	}
}

func TestZoneFractionOverride(t *testing.T) {
	m := Map{Width: 100, Height: 100, TotalSlots: 1, ContainerZoneFraction: 0.5}
	if got := m.ZoneAt(49); got != ZoneContainer {
		t.Fatalf("ZoneAt(49) = %s; want container", got)
	}
	if got := m.ZoneAt(50); got != ZoneNode {
		t.Fatalf("ZoneAt(50) = %s; want node", got)
	}
}

func TestXForSlotRoundTrips(t *testing.T) {
	m := Map{Width: 120, Height: 40, TotalSlots: 6}
	for s := 0; s < m.TotalSlots; s++ {
		if got := m.SlotAt(m.XForSlot(s)); got != s {
			t.Fatalf("SlotAt(XForSlot(%d)) = %d", s, got)
		}
	}
}

func TestWithPlacingRange(t *testing.T) {
	m := Map{Width: 100, Height: 40, TotalSlots: 0}
	ext := m.WithPlacingRange(0)
	if ext.TotalSlots != 2 {
		t.Fatalf("placing range on empty board = %d slots; want 2", ext.TotalSlots)
	}
	// The slot past the anchor is clickable.
	if got := ext.SlotAt(99); got != 1 {
		t.Fatalf("SlotAt(99) = %d; want 1", got)
	}

	// A board already larger than the anchor is unchanged.
	m = Map{Width: 100, Height: 40, TotalSlots: 8}
	if got := m.WithPlacingRange(3).TotalSlots; got != 8 {
		t.Fatalf("placing range shrank the board: %d", got)
	}
}
