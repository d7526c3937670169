package slot

import (
	"sort"

	"braid/internal/model"
)

// Pure slot arithmetic over the occupied-slot set. A slot holds exactly one
// occupant: a node, or one boundary of a container. The store mirrors these
// functions inside a single transaction; this package is the semantic source
// of truth and is what the tests exercise.

// Occupied returns the sorted, deduplicated union of every container boundary
// slot and every node slot.
func Occupied(containers []model.Container, nodes []model.Node) []int {
	seen := map[int]bool{}
	for _, c := range containers {
		seen[c.StartSlot] = true
		seen[c.EndSlot] = true
	}
	for _, n := range nodes {
		seen[n.Slot] = true
	}
	out := make([]int, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}

// Total returns the usable coordinate range for geometry mapping: 0 on an
// empty board, max(occupied)+1 otherwise. Slots are laid out evenly across
// this range even when intermediate slots are unused.
func Total(containers []model.Container, nodes []model.Node) int {
	occ := Occupied(containers, nodes)
	if len(occ) == 0 {
		return 0
	}
	return occ[len(occ)-1] + 1
}

// Shift adds delta to every container boundary >= from and every node slot
// >= from, mutating both slices in place. Both collections move in the same
// call; a half-applied shift would break exclusive occupancy.
func Shift(from, delta int, containers []model.Container, nodes []model.Node) {
	for i := range containers {
		if containers[i].StartSlot >= from {
			containers[i].StartSlot += delta
		}
		if containers[i].EndSlot >= from {
			containers[i].EndSlot += delta
		}
	}
	for i := range nodes {
		if nodes[i].Slot >= from {
			nodes[i].Slot += delta
		}
	}
}

// InsertAt opens width consecutive free slots at the given position.
func InsertAt(at, width int, containers []model.Container, nodes []model.Node) {
	Shift(at, width, containers, nodes)
}

// Renormalize collapses sparse gaps: each occupied slot is rewritten to its
// rank in ascending order, yielding a contiguous 0..N-1 range with relative
// order preserved. Idempotent. Reports whether anything moved.
func Renormalize(containers []model.Container, nodes []model.Node) bool {
	occ := Occupied(containers, nodes)
	rank := make(map[int]int, len(occ))
	changed := false
	for i, s := range occ {
		rank[s] = i
		if s != i {
			changed = true
		}
	}
	if !changed {
		return false
	}
	for i := range containers {
		containers[i].StartSlot = rank[containers[i].StartSlot]
		containers[i].EndSlot = rank[containers[i].EndSlot]
	}
	for i := range nodes {
		nodes[i].Slot = rank[nodes[i].Slot]
	}
	return true
}

// Compact closes the gaps left by deletions. freed is the ascending list of
// just-vacated slots; the i-th freed slot has already been left-shifted past
// by the i earlier compactions, hence the Shift(s+1-i, -1) correction.
func Compact(freed []int, containers []model.Container, nodes []model.Node) {
	sorted := append([]int(nil), freed...)
	sort.Ints(sorted)
	for i, s := range sorted {
		Shift(s+1-i, -1, containers, nodes)
	}
}
