package export

import (
	"fmt"
	"html"
	"strings"

	"braid/internal/geom"
	"braid/internal/model"
	"braid/internal/slot"
)

// SVGOptions control the rendered canvas. Zero values pick sane defaults.
type SVGOptions struct {
	Width  int
	Height int
}

const (
	defaultSVGWidth  = 960
	defaultSVGHeight = 320
)

var miceColors = map[model.NodeType]string{
	model.NodeTypeMilieu:    "#2e7d32",
	model.NodeTypeIdea:      "#1565c0",
	model.NodeTypeCharacter: "#ef6c00",
	model.NodeTypeEvent:     "#ad1457",
}

// SVG renders the snapshot as a standalone SVG: nested container bands in the
// top zone, MICE-colored node markers with thread arcs below, and a slot
// ruler along the axis.
func SVG(snap *model.Snapshot, opts SVGOptions) string {
	if snap == nil {
		snap = &model.Snapshot{}
	}
	w, h := opts.Width, opts.Height
	if w <= 0 {
		w = defaultSVGWidth
	}
	if h <= 0 {
		h = defaultSVGHeight
	}

	total := slot.Total(snap.Containers, snap.Nodes)
	m := geom.Map{Width: float64(w), Height: float64(h), TotalSlots: total}
	zoneH := geom.DefaultContainerZoneFraction * float64(h)
	axisY := zoneH + 24
	nodeY := axisY + 60

	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="#fafafa"/>
`, w, h))

	// Slot ruler.
	svg.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#9e9e9e" stroke-width="1"/>`+"\n",
		axisY, w, axisY))
	for s := 0; s < total; s++ {
		x := m.XForSlot(s)
		svg.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#bdbdbd" stroke-width="1"/>`+"\n",
			x, axisY-4, x, axisY+4))
		svg.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="10" fill="#757575">%d</text>`+"\n",
			x, axisY+16, s))
	}

	// Container bands, outermost first so children draw on top.
	for _, c := range snap.Containers {
		depth := containerDepth(c, snap.Containers)
		x1 := m.XForSlot(c.StartSlot)
		x2 := m.XForSlot(c.EndSlot)
		y := 8 + float64(depth)*18
		svg.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="14" rx="4" fill="none" stroke="#616161" stroke-width="1.5"/>`+"\n",
			x1, y, x2-x1))
		svg.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="11" fill="#424242">%s</text>`+"\n",
			x1+4, y+11, html.EscapeString(c.Title)))
	}

	// Thread arcs between open/close pairs.
	byThread := map[string][]model.Node{}
	for _, n := range snap.Nodes {
		byThread[n.ThreadID] = append(byThread[n.ThreadID], n)
	}
	for _, ns := range byThread {
		var open, cls *model.Node
		for i := range ns {
			switch ns[i].Role {
			case model.NodeRoleOpen:
				open = &ns[i]
			case model.NodeRoleClose:
				cls = &ns[i]
			}
		}
		if open == nil || cls == nil {
			continue
		}
		x1, x2 := m.XForSlot(open.Slot), m.XForSlot(cls.Slot)
		color := miceColors[open.Type]
		mid := (x1 + x2) / 2
		svg.WriteString(fmt.Sprintf(`<path d="M%.1f,%.1f Q%.1f,%.1f %.1f,%.1f" stroke="%s" stroke-width="1.5" fill="none" opacity="0.6"/>`+"\n",
			x1, nodeY, mid, nodeY-40, x2, nodeY, color))
	}

	// Node markers: open is a filled circle, close a hollow one.
	for _, n := range snap.Nodes {
		x := m.XForSlot(n.Slot)
		color := miceColors[n.Type]
		if n.Role == model.NodeRoleOpen {
			svg.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="6" fill="%s"/>`+"\n", x, nodeY, color))
		} else {
			svg.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="6" fill="#fafafa" stroke="%s" stroke-width="2"/>`+"\n", x, nodeY, color))
		}
		if n.Title != "" && n.Role == model.NodeRoleOpen {
			svg.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="10" fill="#424242">%s</text>`+"\n",
				x, nodeY+20, html.EscapeString(n.Title)))
		}
	}

	svg.WriteString("</svg>\n")
	return svg.String()
}

func containerDepth(c model.Container, containers []model.Container) int {
	depth := 0
	cur := c
	for cur.ParentID != nil {
		depth++
		found := false
		for _, p := range containers {
			if p.ID == *cur.ParentID {
				cur = p
				found = true
				break
			}
		}
		if !found {
			break
		}
	}
	return depth
}
