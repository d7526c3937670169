package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"braid/internal/geom"
	"braid/internal/model"
)

// The board canvas is a rune grid: a slot ruler on top, one rail line per
// container nesting depth, the node line, and arc lanes joining each thread's
// open and close markers. Columns come from the same geometry map the mouse
// handler uses, so what you click is what you see.

type canvasOpts struct {
	gm             geom.Map
	selectedNodeID string

	// pendingSlot marks the anchor of an in-progress placement gesture
	// (-1 when idle). pendingStart additionally marks a container start.
	pendingSlot  int
	pendingType  model.NodeType
	pendingStart bool
}

type lineBuf struct {
	runes  []rune
	colors []lipgloss.TerminalColor
	invert []bool
}

func newLineBuf(w int) *lineBuf {
	l := &lineBuf{
		runes:  make([]rune, w),
		colors: make([]lipgloss.TerminalColor, w),
		invert: make([]bool, w),
	}
	for i := range l.runes {
		l.runes[i] = ' '
	}
	return l
}

func (l *lineBuf) set(col int, s string, color lipgloss.TerminalColor) {
	for i, r := range []rune(s) {
		c := col + i
		if c < 0 || c >= len(l.runes) {
			continue
		}
		l.runes[c] = r
		l.colors[c] = color
	}
}

func (l *lineBuf) setInvert(col int, s string, color lipgloss.TerminalColor) {
	l.set(col, s, color)
	for i := range []rune(s) {
		if c := col + i; c >= 0 && c < len(l.invert) {
			l.invert[c] = true
		}
	}
}

// String renders the line, batching runs of identical styling.
func (l *lineBuf) String() string {
	var b strings.Builder
	i := 0
	for i < len(l.runes) {
		j := i
		for j < len(l.runes) && l.colors[j] == l.colors[i] && l.invert[j] == l.invert[i] {
			j++
		}
		seg := string(l.runes[i:j])
		if l.colors[i] == nil && !l.invert[i] {
			b.WriteString(seg)
		} else {
			st := lipgloss.NewStyle()
			if l.colors[i] != nil {
				st = st.Foreground(l.colors[i])
			}
			if l.invert[i] {
				st = st.Reverse(true)
			}
			b.WriteString(st.Render(seg))
		}
		i = j
	}
	return strings.TrimRight(b.String(), " ")
}

func renderBoard(snap *model.Snapshot, o canvasOpts) string {
	total := o.gm.TotalSlots
	if total <= 0 {
		return styleMuted().Render("Empty board. Click the top band to place a scene, or press t to open a thread.")
	}
	width := int(o.gm.Width)

	col := func(s int) int { return int(o.gm.XForSlot(s)) }

	var lines []string
	lines = append(lines, rulerLine(total, width, col, o))
	lines = append(lines, containerLines(snap, width, col)...)
	lines = append(lines, nodeLine(snap, width, col, o))
	lines = append(lines, arcLines(snap, width, col)...)
	return strings.Join(lines, "\n")
}

func rulerLine(total, width int, col func(int) int, o canvasOpts) string {
	l := newLineBuf(width)
	for s := 0; s < total; s++ {
		label := strconv.Itoa(s)
		c := col(s) - len(label)/2
		if s == o.pendingSlot {
			l.setInvert(c, label, colorHintFg)
			continue
		}
		l.set(c, label, colorRulerFg)
	}
	return l.String()
}

func containerLines(snap *model.Snapshot, width int, col func(int) int) []string {
	depths := containerDepths(snap)
	maxDepth := 0
	for _, d := range depths {
		if d > maxDepth {
			maxDepth = d
		}
	}

	var lines []string
	for d := 0; d <= maxDepth; d++ {
		l := newLineBuf(width)
		drew := false
		for _, c := range snap.Containers {
			if depths[c.ID] != d {
				continue
			}
			drew = true
			cs, ce := col(c.StartSlot), col(c.EndSlot)
			for x := cs; x <= ce; x++ {
				l.set(x, glyphRailH(), colorChrome)
			}
			l.set(cs, glyphRailStart(), colorChrome)
			l.set(ce, glyphRailEnd(), colorChrome)
			if room := ce - cs - 3; room > 0 {
				l.set(cs+2, truncate(c.Title, room), colorAccent)
			}
		}
		if drew {
			lines = append(lines, l.String())
		}
	}
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	return lines
}

func nodeLine(snap *model.Snapshot, width int, col func(int) int, o canvasOpts) string {
	l := newLineBuf(width)
	for _, n := range snap.Nodes {
		g := glyphNodeOpen()
		if n.Role == model.NodeRoleClose {
			g = glyphNodeClose()
		}
		if n.ID == o.selectedNodeID {
			l.setInvert(col(n.Slot), g, miceColor(n.Type))
			continue
		}
		l.set(col(n.Slot), g, miceColor(n.Type))
	}
	if o.pendingSlot >= 0 && !o.pendingStart {
		if _, taken := snap.NodeAtSlot(o.pendingSlot); !taken {
			l.set(col(o.pendingSlot), glyphNodePending(), miceColor(o.pendingType))
		}
	}
	return l.String()
}

type arc struct {
	from, to int
	typ      model.NodeType
}

func collectArcs(snap *model.Snapshot) []arc {
	var arcs []arc
	seen := map[string]bool{}
	for _, n := range snap.Nodes {
		if n.Role != model.NodeRoleOpen || seen[n.ThreadID] {
			continue
		}
		seen[n.ThreadID] = true
		if _, cls := snap.ThreadNodes(n.ThreadID); cls != nil {
			arcs = append(arcs, arc{from: n.Slot, to: cls.Slot, typ: n.Type})
		}
	}
	return arcs
}

// assignLanes packs arcs greedily: first lane whose last arc ends before this
// one starts. Arcs arrive ordered by open slot (nodes are slot-sorted).
func assignLanes(arcs []arc) [][]arc {
	var laneEnds []int
	var lanes [][]arc
	for _, a := range arcs {
		lane := -1
		for i, end := range laneEnds {
			if end < a.from {
				lane = i
				break
			}
		}
		if lane == -1 {
			lane = len(laneEnds)
			laneEnds = append(laneEnds, 0)
			lanes = append(lanes, nil)
		}
		laneEnds[lane] = a.to
		lanes[lane] = append(lanes[lane], a)
	}
	return lanes
}

// arcLines draws one lane per set of non-overlapping completed threads.
func arcLines(snap *model.Snapshot, width int, col func(int) int) []string {
	var lines []string
	for _, lane := range assignLanes(collectArcs(snap)) {
		l := newLineBuf(width)
		for _, a := range lane {
			cs, ce := col(a.from), col(a.to)
			for x := cs + 1; x < ce; x++ {
				l.set(x, glyphRailH(), miceColor(a.typ))
			}
			l.set(cs, glyphArcStart(), miceColor(a.typ))
			l.set(ce, glyphArcEnd(), miceColor(a.typ))
		}
		lines = append(lines, l.String())
	}
	return lines
}

// canvasMetrics reports the row layout renderBoard will produce: rail rows
// (at least the one blank line) and arc lanes. The ruler and node line add
// one row each on top of these.
func canvasMetrics(snap *model.Snapshot) (containerRows, arcRows int) {
	depths := containerDepths(snap)
	maxDepth := -1
	for _, d := range depths {
		if d > maxDepth {
			maxDepth = d
		}
	}
	containerRows = maxDepth + 1
	if containerRows < 1 {
		containerRows = 1
	}
	return containerRows, len(assignLanes(collectArcs(snap)))
}

// containerDepths maps container ID to nesting depth (roots are 0).
func containerDepths(snap *model.Snapshot) map[string]int {
	depths := map[string]int{}
	var depthOf func(id string) int
	depthOf = func(id string) int {
		if d, ok := depths[id]; ok {
			return d
		}
		depths[id] = 0 // cycle guard; overwritten below
		c, ok := snap.FindContainer(id)
		if !ok || c.ParentID == nil {
			depths[id] = 0
			return 0
		}
		d := depthOf(*c.ParentID) + 1
		depths[id] = d
		return d
	}
	for _, c := range snap.Containers {
		depthOf(c.ID)
	}
	return depths
}

func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w == 1 {
		return string(r[:1])
	}
	return string(r[:w-1]) + "…"
}
