package place

import (
	"reflect"
	"testing"

	"braid/internal/model"
)

func strPtr(s string) *string { return &s }

func cont(id string, parentID *string, start, end int) model.Container {
	return model.Container{ID: id, ParentID: parentID, StartSlot: start, EndSlot: end}
}

func TestContainerAtInnermost(t *testing.T) {
	cs := []model.Container{
		cont("outer", nil, 0, 9),
		cont("inner", strPtr("outer"), 2, 5),
		cont("deep", strPtr("inner"), 3, 4),
	}

	cases := []struct {
		slot int
		want string
	}{
		{0, "outer"},
		{2, "inner"},
		{3, "deep"},
		{4, "deep"},
		{5, "inner"},
		{7, "outer"},
	}
	for _, tc := range cases {
		got := ContainerAt(tc.slot, cs)
		if got == nil || got.ID != tc.want {
			t.Fatalf("ContainerAt(%d) = %v; want %s", tc.slot, got, tc.want)
		}
		// Innermost property: the match's span is a subset of every other
		// containing candidate's span.
		for i := range cs {
			if cs[i].Contains(tc.slot) && cs[i].ID != got.ID {
				if !(cs[i].StartSlot <= got.StartSlot && got.EndSlot <= cs[i].EndSlot) {
					t.Fatalf("ContainerAt(%d) = %s is not innermost vs %s", tc.slot, got.ID, cs[i].ID)
				}
			}
		}
	}

	if got := ContainerAt(10, cs); got != nil {
		t.Fatalf("ContainerAt(10) = %v; want nil", got)
	}
}

func TestSmallestEnclosing(t *testing.T) {
	cs := []model.Container{
		cont("outer", nil, 0, 9),
		cont("inner", strPtr("outer"), 2, 7),
	}
	if got := SmallestEnclosing(3, 5, cs); got == nil || got.ID != "inner" {
		t.Fatalf("SmallestEnclosing(3,5) = %v; want inner", got)
	}
	if got := SmallestEnclosing(1, 5, cs); got == nil || got.ID != "outer" {
		t.Fatalf("SmallestEnclosing(1,5) = %v; want outer", got)
	}
	if got := SmallestEnclosing(0, 12, cs); got != nil {
		t.Fatalf("SmallestEnclosing(0,12) = %v; want nil", got)
	}
}

func TestCanCreateContainerWidth(t *testing.T) {
	if CanCreateContainer(3, 3, nil, nil) {
		t.Fatalf("zero width must be rejected")
	}
	if CanCreateContainer(4, 2, nil, nil) {
		t.Fatalf("negative width must be rejected")
	}
	if !CanCreateContainer(0, 1, nil, nil) {
		t.Fatalf("minimal span on empty board must be allowed")
	}
}

func TestCanCreateContainerSiblingOverlap(t *testing.T) {
	cs := []model.Container{cont("sib", nil, 2, 6)}

	cases := []struct {
		start, end int
		want       bool
	}{
		{0, 1, true},   // disjoint left
		{7, 9, true},   // disjoint right
		{0, 9, true},   // fully contains sibling
		{3, 5, true},   // fully inside sibling (same-parent scope: containment allowed)
		{0, 4, false},  // partial: end strictly inside sibling
		{4, 8, false},  // partial: start strictly inside sibling
		{2, 4, false}, // shares start, end strictly inside
		{4, 6, false}, // shares end, start strictly inside
		{2, 6, true},  // identical span: containment in both directions, not partial
	}
	for _, tc := range cases {
		if got := CanCreateContainer(tc.start, tc.end, nil, cs); got != tc.want {
			t.Fatalf("CanCreateContainer(%d,%d) = %v; want %v", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestCanCreateContainerParentBounds(t *testing.T) {
	cs := []model.Container{cont("parent", nil, 2, 8)}
	if !CanCreateContainer(3, 6, strPtr("parent"), cs) {
		t.Fatalf("span inside parent must be allowed")
	}
	if CanCreateContainer(1, 6, strPtr("parent"), cs) {
		t.Fatalf("span escaping parent start must be rejected")
	}
	if CanCreateContainer(3, 9, strPtr("parent"), cs) {
		t.Fatalf("span escaping parent end must be rejected")
	}
	if CanCreateContainer(3, 6, strPtr("missing"), cs) {
		t.Fatalf("unknown parent must be rejected")
	}
}

func TestCanPlaceClose(t *testing.T) {
	cs := []model.Container{
		cont("x", nil, 2, 8),
		cont("child", strPtr("x"), 4, 6),
	}

	if CanPlaceClose(3, 3, cs) || CanPlaceClose(3, 2, cs) {
		t.Fatalf("close at or before open must be rejected")
	}

	// Opened inside x (slot 3): valid exactly where the innermost container is x.
	for s := 4; s <= 9; s++ {
		want := cs[0].Contains(s) && !(cs[1].StartSlot <= s && s <= cs[1].EndSlot)
		if got := CanPlaceClose(3, s, cs); got != want {
			t.Fatalf("CanPlaceClose(3,%d) = %v; want %v", s, got, want)
		}
	}

	// Opened at top level (slot 0): top-level closes fine, closing inside x is not.
	if !CanPlaceClose(0, 1, cs) {
		t.Fatalf("top-level open/close must be allowed")
	}
	if CanPlaceClose(0, 3, cs) {
		t.Fatalf("close inside a container the thread never entered must be rejected")
	}
	if !CanPlaceClose(0, 9, cs) {
		t.Fatalf("close past all containers must be allowed")
	}

	// Opened at top level but inside a span that contains the open slot.
	cs2 := []model.Container{cont("y", nil, 0, 5)}
	if !CanPlaceClose(2, 4, cs2) {
		t.Fatalf("close inside the container containing the open must be allowed")
	}
}

func TestValidEnumerationsClampToAnchor(t *testing.T) {
	// Empty board: the search range still offers the one slot past the anchor,
	// so two-step creation remains possible.
	if got := ValidContainerEnds(0, nil, nil, 0); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("ValidContainerEnds on empty board = %v; want [1]", got)
	}
	if got := ValidCloseSlots(0, nil, 0); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("ValidCloseSlots on empty board = %v; want [1]", got)
	}
}

func TestValidCloseSlotsInsideContainer(t *testing.T) {
	cs := []model.Container{cont("x", nil, 0, 5)}
	got := ValidCloseSlots(1, cs, 7)
	want := []int{2, 3, 4, 5}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ValidCloseSlots(1) = %v; want %v", got, want)
	}
}

func TestCheckSnapshotFlagsProblems(t *testing.T) {
	snap := &model.Snapshot{
		Containers: []model.Container{cont("a", nil, 0, 3)},
		Nodes: []model.Node{
			{ID: "n1", ThreadID: "t1", Role: model.NodeRoleOpen, Slot: 1},
			{ID: "n2", ThreadID: "t1", Role: model.NodeRoleClose, Slot: 2},
		},
	}
	if problems := CheckSnapshot(snap); len(problems) != 0 {
		t.Fatalf("sound snapshot flagged: %v", problems)
	}

	snap.Nodes[1].Slot = 1 // collision with n1
	if problems := CheckSnapshot(snap); len(problems) == 0 {
		t.Fatalf("expected slot collision to be flagged")
	}
}
