package slot

import (
	"reflect"
	"testing"

	"braid/internal/model"
)

func cont(id string, start, end int) model.Container {
	return model.Container{ID: id, StartSlot: start, EndSlot: end}
}

func node(id string, s int) model.Node {
	return model.Node{ID: id, Slot: s}
}

func TestOccupiedAndTotal(t *testing.T) {
	if got := Total(nil, nil); got != 0 {
		t.Fatalf("empty board total = %d; want 0", got)
	}

	cs := []model.Container{cont("c1", 0, 3)}
	ns := []model.Node{node("n1", 1), node("n2", 5)}

	occ := Occupied(cs, ns)
	want := []int{0, 1, 3, 5}
	if !reflect.DeepEqual(occ, want) {
		t.Fatalf("occupied = %v; want %v", occ, want)
	}
	if got := Total(cs, ns); got != 6 {
		t.Fatalf("total = %d; want 6 (max occupied + 1)", got)
	}
}

func TestOccupiedDedupes(t *testing.T) {
	// A container boundary and a node sharing a slot is an invariant violation
	// upstream, but Occupied must still dedupe defensively.
	cs := []model.Container{cont("c1", 2, 4)}
	ns := []model.Node{node("n1", 2)}
	if got := Occupied(cs, ns); !reflect.DeepEqual(got, []int{2, 4}) {
		t.Fatalf("occupied = %v; want [2 4]", got)
	}
}

func TestShiftInverse(t *testing.T) {
	for _, d := range []int{1, 2} {
		cs := []model.Container{cont("c1", 0, 5), cont("c2", 1, 4)}
		ns := []model.Node{node("n1", 2), node("n2", 3), node("n3", 7)}
		orig := Occupied(cs, ns)

		Shift(3, d, cs, ns)
		Shift(3, -d, cs, ns)

		if got := Occupied(cs, ns); !reflect.DeepEqual(got, orig) {
			t.Fatalf("d=%d: shift then unshift = %v; want %v", d, got, orig)
		}
	}
}

func TestShiftMovesOnlyAtOrAfterFrom(t *testing.T) {
	cs := []model.Container{cont("c1", 0, 4)}
	ns := []model.Node{node("n1", 1), node("n2", 2)}

	Shift(2, 1, cs, ns)

	if cs[0].StartSlot != 0 || cs[0].EndSlot != 5 {
		t.Fatalf("container = [%d,%d]; want [0,5]", cs[0].StartSlot, cs[0].EndSlot)
	}
	if ns[0].Slot != 1 || ns[1].Slot != 3 {
		t.Fatalf("nodes = %d,%d; want 1,3", ns[0].Slot, ns[1].Slot)
	}
}

func TestRenormalizeContiguousAndOrdered(t *testing.T) {
	cs := []model.Container{cont("c1", 2, 9)}
	ns := []model.Node{node("n1", 4), node("n2", 7)}

	if !Renormalize(cs, ns) {
		t.Fatalf("expected renormalize to report movement")
	}

	if got := Occupied(cs, ns); !reflect.DeepEqual(got, []int{0, 1, 2, 3}) {
		t.Fatalf("occupied after renormalize = %v; want [0 1 2 3]", got)
	}
	// Relative order preserved: c1.start < n1 < n2 < c1.end.
	if !(cs[0].StartSlot < ns[0].Slot && ns[0].Slot < ns[1].Slot && ns[1].Slot < cs[0].EndSlot) {
		t.Fatalf("order broken: container [%d,%d] nodes %d,%d", cs[0].StartSlot, cs[0].EndSlot, ns[0].Slot, ns[1].Slot)
	}
}

func TestRenormalizeIdempotent(t *testing.T) {
	cs := []model.Container{cont("c1", 0, 3)}
	ns := []model.Node{node("n1", 1), node("n2", 2)}
	if Renormalize(cs, ns) {
		t.Fatalf("renormalize of contiguous set should be a no-op")
	}
	if got := Occupied(cs, ns); !reflect.DeepEqual(got, []int{0, 1, 2, 3}) {
		t.Fatalf("occupied = %v; want unchanged [0 1 2 3]", got)
	}
}

func TestCompactIsInverseOfInsert(t *testing.T) {
	// Thread at [0,1]; insert a second thread in the middle (shift +2 at slot 1),
	// then delete it and compact. The survivors must return to 0 and 1 exactly.
	ns := []model.Node{node("open", 0), node("close", 1)}

	InsertAt(1, 2, nil, ns)
	if ns[0].Slot != 0 || ns[1].Slot != 3 {
		t.Fatalf("after insert: %d,%d; want 0,3", ns[0].Slot, ns[1].Slot)
	}
	// The inner thread occupied slots 1 and 2; it is gone, compact the gap.
	Compact([]int{1, 2}, nil, ns)
	if ns[0].Slot != 0 || ns[1].Slot != 1 {
		t.Fatalf("after compact: %d,%d; want 0,1", ns[0].Slot, ns[1].Slot)
	}
}

func TestCompactAscendingCorrection(t *testing.T) {
	// Freed slots 1 and 3 out of {0,1,2,3,4}: survivors 0,2,4 must land on 0,1,2.
	ns := []model.Node{node("a", 0), node("b", 2), node("c", 4)}
	Compact([]int{1, 3}, nil, ns)
	if got := Occupied(nil, ns); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Fatalf("occupied = %v; want [0 1 2]", got)
	}
	if ns[0].Slot != 0 || ns[1].Slot != 1 || ns[2].Slot != 2 {
		t.Fatalf("slots = %d,%d,%d; want 0,1,2", ns[0].Slot, ns[1].Slot, ns[2].Slot)
	}
}
