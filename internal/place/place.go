package place

import (
	"strconv"
	"strings"

	"braid/internal/model"
	"braid/internal/slot"
)

// Placement rules for containers and thread close nodes. All functions are
// pure queries over a snapshot's container list.

// ContainerAt returns the innermost container whose [StartSlot, EndSlot]
// contains the slot inclusively. Ties go to the smallest span; since nesting
// is strict containment, smallest span among matches is the deepest child.
func ContainerAt(s int, containers []model.Container) *model.Container {
	var best *model.Container
	for i := range containers {
		c := &containers[i]
		if !c.Contains(s) {
			continue
		}
		if best == nil || c.Span() < best.Span() {
			best = c
		}
	}
	return best
}

// SmallestEnclosing returns the smallest container fully containing the span
// [start, end], or nil. Used to recompute a new container's actual parent at
// commit time, which may differ from the container clicked first.
func SmallestEnclosing(start, end int, containers []model.Container) *model.Container {
	var best *model.Container
	for i := range containers {
		c := &containers[i]
		if !(c.StartSlot <= start && end <= c.EndSlot) {
			continue
		}
		if best == nil || c.Span() < best.Span() {
			best = c
		}
	}
	return best
}

// CanCreateContainer reports whether a container spanning [start, end] may be
// created under parentID (nil for top level). Zero or negative width is
// rejected; a span escaping the named parent's bounds is rejected; partial
// overlap with any same-parent sibling is rejected. Full containment and full
// disjointness are both fine.
//
// The sibling-scoped check is authoritative for committed creation; click
// affordances use the same predicate through ValidContainerEnds.
func CanCreateContainer(start, end int, parentID *string, containers []model.Container) bool {
	if end <= start {
		return false
	}
	pid := ""
	if parentID != nil {
		pid = *parentID
	}
	if pid != "" {
		parent := findByID(pid, containers)
		if parent == nil {
			return false
		}
		if start < parent.StartSlot || end > parent.EndSlot {
			return false
		}
	}
	for i := range containers {
		c := &containers[i]
		cpid := ""
		if c.ParentID != nil {
			cpid = *c.ParentID
		}
		if cpid != pid {
			continue
		}
		if partialOverlap(start, end, c.StartSlot, c.EndSlot) {
			return false
		}
	}
	return true
}

// partialOverlap reports whether exactly one endpoint of either span lies
// strictly inside the other. Full containment and disjointness are not
// partial overlap.
func partialOverlap(s1, e1, s2, e2 int) bool {
	inside := func(x, lo, hi int) bool { return lo < x && x < hi }
	aIn := 0
	if inside(s1, s2, e2) {
		aIn++
	}
	if inside(e1, s2, e2) {
		aIn++
	}
	bIn := 0
	if inside(s2, s1, e1) {
		bIn++
	}
	if inside(e2, s1, e1) {
		bIn++
	}
	return aIn == 1 || bIn == 1
}

// CanPlaceClose reports whether a thread opened at openSlot may close at
// closeSlot. The close must come strictly after the open, and both ends must
// resolve to the same innermost container: a thread never crosses into or out
// of a nested container between its open and close.
func CanPlaceClose(openSlot, closeSlot int, containers []model.Container) bool {
	if closeSlot <= openSlot {
		return false
	}
	co := ContainerAt(openSlot, containers)
	cc := ContainerAt(closeSlot, containers)
	if co == nil {
		// Opened at top level: the close may be at top level too, or inside a
		// container whose span already includes the open slot (the thread was
		// inside it all along).
		if cc == nil {
			return true
		}
		return cc.Contains(openSlot)
	}
	return cc != nil && cc.ID == co.ID
}

// ValidContainerEnds enumerates every slot in (start, max(maxSlot, start+1)]
// at which a container begun at start could validly end. The lower clamp
// guarantees at least one candidate on an empty board, so two-step creation
// always stays possible.
func ValidContainerEnds(start int, parentID *string, containers []model.Container, maxSlot int) []int {
	if maxSlot < start+1 {
		maxSlot = start + 1
	}
	var out []int
	for s := start + 1; s <= maxSlot; s++ {
		if CanCreateContainer(start, s, parentID, containers) {
			out = append(out, s)
		}
	}
	return out
}

// ValidCloseSlots enumerates every slot in (openSlot, max(maxSlot, openSlot+1)]
// at which a thread opened at openSlot could validly close.
func ValidCloseSlots(openSlot int, containers []model.Container, maxSlot int) []int {
	if maxSlot < openSlot+1 {
		maxSlot = openSlot + 1
	}
	var out []int
	for s := openSlot + 1; s <= maxSlot; s++ {
		if CanPlaceClose(openSlot, s, containers) {
			out = append(out, s)
		}
	}
	return out
}

// CheckSnapshot verifies the structural invariants of a committed snapshot:
// exclusive slot occupancy, start < end, parent containment, no partial
// overlap, and thread spans that stay inside one innermost container. It
// returns a list of human-readable problems, empty when the board is sound.
func CheckSnapshot(snap *model.Snapshot) []string {
	if snap == nil {
		return nil
	}
	var problems []string

	occupants := map[int][]string{}
	for _, c := range snap.Containers {
		occupants[c.StartSlot] = append(occupants[c.StartSlot], c.ID)
		occupants[c.EndSlot] = append(occupants[c.EndSlot], c.ID)
		if c.StartSlot >= c.EndSlot {
			problems = append(problems, "container "+c.ID+": start >= end")
		}
		if c.StartSlot < 0 {
			problems = append(problems, "container "+c.ID+": negative slot")
		}
		if c.ParentID != nil {
			p, ok := snap.FindContainer(*c.ParentID)
			if !ok {
				problems = append(problems, "container "+c.ID+": missing parent "+*c.ParentID)
			} else if c.StartSlot < p.StartSlot || c.EndSlot > p.EndSlot {
				problems = append(problems, "container "+c.ID+": escapes parent "+p.ID)
			}
		}
	}
	for _, n := range snap.Nodes {
		occupants[n.Slot] = append(occupants[n.Slot], n.ID)
		if n.Slot < 0 {
			problems = append(problems, "node "+n.ID+": negative slot")
		}
	}
	for s, ids := range occupants {
		if len(ids) > 1 {
			problems = append(problems, "slot collision at "+strconv.Itoa(s)+": "+strings.Join(ids, ", "))
		}
	}

	for i := range snap.Containers {
		for j := i + 1; j < len(snap.Containers); j++ {
			a, b := snap.Containers[i], snap.Containers[j]
			if partialOverlap(a.StartSlot, a.EndSlot, b.StartSlot, b.EndSlot) {
				problems = append(problems, "containers "+a.ID+" and "+b.ID+" partially overlap")
			}
		}
	}

	byThread := map[string][]model.Node{}
	for _, n := range snap.Nodes {
		byThread[n.ThreadID] = append(byThread[n.ThreadID], n)
	}
	for tid, ns := range byThread {
		var open, cls *model.Node
		for i := range ns {
			switch ns[i].Role {
			case model.NodeRoleOpen:
				open = &ns[i]
			case model.NodeRoleClose:
				cls = &ns[i]
			}
		}
		if open == nil {
			problems = append(problems, "thread "+tid+": close without open")
			continue
		}
		if cls == nil {
			// In-progress thread: allowed transiently, flagged for status output.
			problems = append(problems, "thread "+tid+": unclosed")
			continue
		}
		if !CanPlaceClose(open.Slot, cls.Slot, snap.Containers) {
			problems = append(problems, "thread "+tid+": invalid span")
		}
	}

	if occ := slot.Occupied(snap.Containers, snap.Nodes); len(occ) > 0 && occ[len(occ)-1] != len(occ)-1 {
		problems = append(problems, "occupied slots are not contiguous")
	}

	return problems
}

func findByID(id string, containers []model.Container) *model.Container {
	for i := range containers {
		if containers[i].ID == id {
			return &containers[i]
		}
	}
	return nil
}
