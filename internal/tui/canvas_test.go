package tui

import (
	"strings"
	"testing"
	"time"

	"braid/internal/geom"
	"braid/internal/model"
)

func strPtr(s string) *string { return &s }

func testSnapshot() *model.Snapshot {
	now := time.Now()
	return &model.Snapshot{
		Containers: []model.Container{
			{ID: "ctr_a", Title: "Act I", StartSlot: 0, EndSlot: 3, CreatedAt: now, UpdatedAt: now},
		},
		Nodes: []model.Node{
			{ID: "node_o", ContainerID: strPtr("ctr_a"), ThreadID: "th1", Type: model.NodeTypeIdea,
				Role: model.NodeRoleOpen, Slot: 1, Title: "the letter", CreatedAt: now, UpdatedAt: now},
			{ID: "node_c", ContainerID: strPtr("ctr_a"), ThreadID: "th1", Type: model.NodeTypeIdea,
				Role: model.NodeRoleClose, Slot: 2, Title: "the letter", CreatedAt: now, UpdatedAt: now},
		},
	}
}

func TestRenderBoard_ContainersNodesArcs(t *testing.T) {
	setGlyphs(glyphSetUnicode)
	snap := testSnapshot()
	gm := geom.Map{Width: 60, Height: 4, TotalSlots: 5}

	out := renderBoard(snap, canvasOpts{gm: gm, pendingSlot: -1})

	if !strings.Contains(out, "Act I") {
		t.Fatalf("expected container title on the rail, got=%q", out)
	}
	if !strings.Contains(out, glyphNodeOpen()) || !strings.Contains(out, glyphNodeClose()) {
		t.Fatalf("expected open and close markers, got=%q", out)
	}
	if !strings.Contains(out, glyphArcStart()) || !strings.Contains(out, glyphArcEnd()) {
		t.Fatalf("expected a thread arc lane, got=%q", out)
	}
	for s := 0; s < 5; s++ {
		if !strings.Contains(out, string(rune('0'+s))) {
			t.Fatalf("expected ruler label %d, got=%q", s, out)
		}
	}
}

func TestRenderBoard_PendingMarker(t *testing.T) {
	setGlyphs(glyphSetUnicode)
	snap := &model.Snapshot{}
	gm := geom.Map{Width: 40, Height: 3, TotalSlots: 3}

	out := renderBoard(snap, canvasOpts{gm: gm, pendingSlot: 1, pendingType: model.NodeTypeEvent})
	if !strings.Contains(out, glyphNodePending()) {
		t.Fatalf("expected pending marker at the anchor slot, got=%q", out)
	}
}

func TestCanvasMetrics(t *testing.T) {
	snap := testSnapshot()
	child := model.Container{ID: "ctr_b", ParentID: strPtr("ctr_a"), Title: "Scene", StartSlot: 1, EndSlot: 2}
	snap.Containers = append(snap.Containers, child)

	containerRows, arcRows := canvasMetrics(snap)
	if containerRows != 2 {
		t.Fatalf("containerRows = %d, want 2 (two nesting depths)", containerRows)
	}
	if arcRows != 1 {
		t.Fatalf("arcRows = %d, want 1", arcRows)
	}

	empty := &model.Snapshot{}
	containerRows, arcRows = canvasMetrics(empty)
	if containerRows != 1 || arcRows != 0 {
		t.Fatalf("empty board metrics = (%d, %d), want (1, 0)", containerRows, arcRows)
	}
}

func TestAssignLanes_OverlappingThreadsStack(t *testing.T) {
	arcs := []arc{
		{from: 0, to: 4, typ: model.NodeTypeIdea},
		{from: 1, to: 2, typ: model.NodeTypeEvent},
		{from: 5, to: 6, typ: model.NodeTypeMilieu},
	}
	lanes := assignLanes(arcs)
	if len(lanes) != 2 {
		t.Fatalf("lanes = %d, want 2", len(lanes))
	}
	// The third arc starts after the first ends, so it reuses lane 0.
	if len(lanes[0]) != 2 || len(lanes[1]) != 1 {
		t.Fatalf("lane sizes = %d/%d, want 2/1", len(lanes[0]), len(lanes[1]))
	}
}

func TestGlyphs_Preference(t *testing.T) {
	t.Cleanup(func() { setGlyphs(glyphSetUnicode) })

	setGlyphs(glyphSetUnicode)
	applyGlyphPreference("ascii")
	if glyphs() != glyphSetASCII {
		t.Fatalf("expected ascii glyphs")
	}
	applyGlyphPreference("unicode")
	if glyphs() != glyphSetUnicode {
		t.Fatalf("expected unicode glyphs")
	}

	// Unknown values should be ignored (keep current).
	setGlyphs(glyphSetASCII)
	applyGlyphPreference("bogus")
	if glyphs() != glyphSetASCII {
		t.Fatalf("expected unknown preference to be ignored")
	}
}
