package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"braid/internal/board"
	"braid/internal/config"
	"braid/internal/geom"
	"braid/internal/interact"
	"braid/internal/model"
	"braid/internal/place"
	"braid/internal/slot"
)

type mode int

const (
	modeBoard mode = iota
	modePickType    // waiting for m/i/c/e after t or T
	modeOpenClick   // type picked, next node-zone click places the open
	modeTitle       // single-line title edit
	modeDescription // multi-line description edit
	modeConfirm     // y/n delete confirmation
)

type boardChangedMsg struct{}

type reloadTickMsg struct{}

// intentSink receives results from the interaction machine's intent
// callbacks. The bubbletea model is a value and gets copied on every update,
// so callbacks can't write to it directly; they write here and Update drains
// the sink after each machine call.
type intentSink struct {
	createdContainer *model.Container
	selKind          interact.TargetKind
	selID            string
	selChanged       bool
	deselected       bool
}

func (s *intentSink) reset() { *s = intentSink{} }

type editTarget struct {
	kind interact.TargetKind
	id   string
}

type appModel struct {
	b       *board.Board
	cfg     config.Config
	machine *interact.Machine
	sink    *intentSink
	changes <-chan struct{}

	width  int
	height int

	mode        mode
	directFlow  bool
	pendingType model.NodeType

	selKind interact.TargetKind
	selID   string

	titleInput textinput.Model
	descInput  textarea.Model
	editing    editTarget
	confirm    editTarget

	status string
}

func newAppModel(b *board.Board, cfg config.Config, changes <-chan struct{}) appModel {
	sink := &intentSink{}
	ctx := context.Background()
	intents := interact.Intents{
		CreateContainer: func(start, end int, parentID *string) error {
			c, err := b.AddContainer(ctx, "", start, end, parentID)
			if err == nil {
				sink.createdContainer = &c
			}
			return err
		},
		CreateThread: func(_ *string, typ model.NodeType, openSlot, closeSlot int) error {
			open, err := b.StartThread(ctx, typ, openSlot, "")
			if err != nil {
				return err
			}
			// The open insert shifted everything at or after it one to the
			// right, so the close lands one past its picked position.
			if _, err := b.CompleteThread(ctx, open.ID, closeSlot+1); err != nil {
				_ = b.DeleteNode(ctx, open.ID)
				return err
			}
			return nil
		},
		CompleteThread: func(openNodeID string, closeSlot int) error {
			_, err := b.CompleteThread(ctx, openNodeID, closeSlot)
			return err
		},
		CancelNode: func(nodeID string) error {
			return b.DeleteNode(ctx, nodeID)
		},
		Select: func(kind interact.TargetKind, id string) {
			sink.selKind, sink.selID, sink.selChanged = kind, id, true
		},
		Deselect: func() {
			sink.deselected = true
		},
	}

	m := appModel{
		b:       b,
		cfg:     cfg,
		machine: interact.New(b.SnapshotProvider(), intents),
		sink:    sink,
		changes: changes,
		width:   80,
		height:  24,
	}

	m.titleInput = textinput.New()
	m.titleInput.CharLimit = 120
	m.descInput = textarea.New()
	m.descInput.Placeholder = "Markdown description"
	return m
}

func (m appModel) Init() tea.Cmd {
	if m.changes == nil {
		// No watcher: fall back to polling so CLI writes from another
		// terminal still show up.
		return tickReload()
	}
	return waitForChange(m.changes)
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return boardChangedMsg{}
	}
}

func tickReload() tea.Cmd {
	return tea.Tick(750*time.Millisecond, func(time.Time) tea.Msg { return reloadTickMsg{} })
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case boardChangedMsg:
		// Another process wrote the board; pick it up.
		_ = m.b.Reload(context.Background())
		return m, waitForChange(m.changes)

	case reloadTickMsg:
		_ = m.b.Reload(context.Background())
		return m, tickReload()

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m appModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
		return m, nil
	}
	if m.mode == modeTitle || m.mode == modeDescription || m.mode == modeConfirm {
		return m, nil
	}

	gm, rows := m.geomMap()
	cy := msg.Y - canvasTop
	if cy < 0 || cy >= rows || msg.X >= int(gm.Width) {
		return m, nil
	}
	clickSlot, zone := gm.At(float64(msg.X), float64(cy))

	if m.mode == modeOpenClick {
		if zone != geom.ZoneNode {
			return m, nil
		}
		return m.placeOpen(clickSlot)
	}

	m.status = ""
	err := m.machine.Click(clickSlot, zone)
	return m.afterMachine(err)
}

// placeOpen anchors a new thread at the clicked insert position. The direct
// flow keeps everything in the machine until the close click; the two-step
// flow persists the open node first so it survives a detached session.
func (m appModel) placeOpen(at int) (tea.Model, tea.Cmd) {
	m.mode = modeBoard
	if m.directFlow {
		m.machine.StartThreadPlacement(m.pendingType, at)
		m.status = "click the close slot (esc cancels)"
		return m, nil
	}
	open, err := m.b.StartThread(context.Background(), m.pendingType, at, "")
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.machine.StartNodeCreation(open.Type, open.Slot, open.ContainerID, open.ID)
	m.status = "open node placed; click the close slot (esc deletes it)"
	return m, nil
}

// afterMachine drains the intent sink into the model after a machine call.
func (m appModel) afterMachine(err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.status = err.Error()
	}
	s := m.sink
	if s.selChanged {
		m.selKind, m.selID = s.selKind, s.selID
	}
	if s.deselected {
		m.selKind, m.selID = "", ""
	}
	if c := s.createdContainer; c != nil {
		// A freshly placed container gets its title typed right away.
		m.editing = editTarget{kind: interact.TargetContainer, id: c.ID}
		m.titleInput.SetValue("")
		m.titleInput.Focus()
		m.mode = modeTitle
	}
	s.reset()
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeTitle:
		return m.updateTitleKey(msg)
	case modeDescription:
		return m.updateDescKey(msg)
	case modeConfirm:
		return m.updateConfirmKey(msg)
	case modePickType:
		return m.updatePickTypeKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "esc":
		if m.mode == modeOpenClick {
			m.mode = modeBoard
			m.status = ""
			return m, nil
		}
		m.status = ""
		err := m.machine.Escape()
		return m.afterMachine(err)

	case "r":
		_ = m.b.Reload(context.Background())
		return m, nil

	case "t", "T":
		m.directFlow = msg.String() == "T"
		m.mode = modePickType
		m.status = "thread type: m)ilieu  i)dea  c)haracter  e)vent"
		return m, nil

	case "enter":
		if n := m.selectedNode(); n != nil {
			m.editing = editTarget{kind: interact.TargetNode, id: n.ID}
			m.titleInput.SetValue(n.Title)
			m.titleInput.Focus()
			m.mode = modeTitle
		}
		return m, nil

	case "D":
		if n := m.selectedNode(); n != nil {
			m.editing = editTarget{kind: interact.TargetNode, id: n.ID}
			m.descInput.SetValue(n.Description)
			m.descInput.Focus()
			m.mode = modeDescription
		}
		return m, nil

	case "d":
		if n := m.selectedNode(); n != nil {
			m.confirm = editTarget{kind: interact.TargetNode, id: n.ID}
			m.mode = modeConfirm
			m.status = fmt.Sprintf("delete thread %q? (y/n)", titleOrDash(n.Title))
		}
		return m, nil
	}
	return m, nil
}

func (m appModel) updatePickTypeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "m":
		m.pendingType = model.NodeTypeMilieu
	case "i":
		m.pendingType = model.NodeTypeIdea
	case "c":
		m.pendingType = model.NodeTypeCharacter
	case "e":
		m.pendingType = model.NodeTypeEvent
	case "esc":
		m.mode = modeBoard
		m.status = ""
		return m, nil
	default:
		return m, nil
	}
	m.mode = modeOpenClick
	m.status = fmt.Sprintf("click a slot to open the %s thread (esc cancels)", m.pendingType)
	return m, nil
}

func (m appModel) updateTitleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		title := strings.TrimSpace(m.titleInput.Value())
		ctx := context.Background()
		var err error
		if m.editing.kind == interact.TargetContainer {
			err = m.b.UpdateContainerTitle(ctx, m.editing.id, title)
		} else {
			err = m.b.UpdateNode(ctx, m.editing.id, &title, nil)
		}
		if err != nil {
			m.status = err.Error()
		} else {
			m.status = ""
		}
		m.mode = modeBoard
		m.titleInput.Blur()
		return m, nil
	case "esc":
		m.mode = modeBoard
		m.titleInput.Blur()
		m.status = ""
		return m, nil
	}
	var cmd tea.Cmd
	m.titleInput, cmd = m.titleInput.Update(msg)
	return m, cmd
}

func (m appModel) updateDescKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+d":
		desc := m.descInput.Value()
		if err := m.b.UpdateNode(context.Background(), m.editing.id, nil, &desc); err != nil {
			m.status = err.Error()
		} else {
			m.status = ""
		}
		m.mode = modeBoard
		m.descInput.Blur()
		return m, nil
	case "esc":
		m.mode = modeBoard
		m.descInput.Blur()
		m.status = ""
		return m, nil
	}
	var cmd tea.Cmd
	m.descInput, cmd = m.descInput.Update(msg)
	return m, cmd
}

func (m appModel) updateConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeBoard
	m.status = ""
	if msg.String() != "y" {
		return m, nil
	}
	snap := m.b.Snapshot()
	if n, ok := snap.FindNode(m.confirm.id); ok {
		if err := m.b.DeleteThread(context.Background(), n.ThreadID); err != nil {
			m.status = err.Error()
		}
	}
	m.selKind, m.selID = "", ""
	return m, nil
}

// canvasTop is the number of view lines above the board canvas.
const canvasTop = 2

// geomMap builds the click/render geometry for the current snapshot and
// machine state. The trailing insert position stays addressable, and a
// placement gesture extends the range past its anchor.
func (m appModel) geomMap() (geom.Map, int) {
	snap := m.b.Snapshot()
	total := slot.Total(snap.Containers, snap.Nodes) + 1

	gm := geom.Map{
		Width:                 float64(m.width),
		TotalSlots:            total,
		ContainerZoneFraction: m.cfg.ZoneFraction,
	}
	switch st := m.machine.State().(type) {
	case interact.PlacingContainerEnd:
		gm = gm.WithPlacingRange(st.StartSlot)
	case interact.PlacingNodeClose:
		gm = gm.WithPlacingRange(st.StartSlot)
	}

	containerRows, arcRows := canvasMetrics(snap)
	rows := 1 + containerRows + 1 + arcRows
	gm.Height = float64(rows)
	// The discrete row layout beats the configured fraction: the ruler and
	// rail rows are the container zone, everything below is the node zone.
	gm.ContainerZoneFraction = float64(1+containerRows) / float64(rows)
	return gm, rows
}

func (m appModel) selectedNode() *model.Node {
	if m.selKind != interact.TargetNode || m.selID == "" {
		return nil
	}
	n, ok := m.b.Snapshot().FindNode(m.selID)
	if !ok {
		return nil
	}
	return n
}

func (m appModel) View() string {
	snap := m.b.Snapshot()
	gm, _ := m.geomMap()

	st := m.b.Status()
	header := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf(
		"braid  %s  slots=%d  threads=%d (%d open)",
		m.b.Dir(), st.TotalSlots, st.Threads, st.OpenThreads,
	))
	if xansi.StringWidth(header) > m.width {
		header = xansi.Cut(header, 0, m.width)
	}

	statusLine := m.statusLine(snap, gm)
	canvas := renderBoard(snap, m.canvasOpts(gm))

	sections := []string{header, statusLine, canvas}

	switch m.mode {
	case modeTitle:
		sections = append(sections, "", "title: "+m.titleInput.View())
	case modeDescription:
		m.descInput.SetWidth(min(m.width-2, 78))
		sections = append(sections, "", m.descInput.View(),
			styleMuted().Render("ctrl+d: save   esc: cancel"))
	default:
		if detail := m.detailView(); detail != "" {
			sections = append(sections, "", detail)
		}
	}

	footer := styleMuted().Render(
		"click: place/select   t/T: thread (two-step/direct)   enter: title   D: description   d: delete   r: reload   q: quit")
	sections = append(sections, "", footer)
	return strings.Join(sections, "\n")
}

func (m appModel) statusLine(snap *model.Snapshot, gm geom.Map) string {
	// During a placement gesture the line shows where the next click may
	// land, straight from the placement enumerators.
	maxSlot := gm.TotalSlots - 1
	switch st := m.machine.State().(type) {
	case interact.PlacingContainerEnd:
		ends := place.ValidContainerEnds(st.StartSlot, st.ParentID, snap.Containers, maxSlot)
		return lipgloss.NewStyle().Foreground(colorHintFg).
			Render("container end " + glyphArrow() + " slots " + joinInts(ends) + "  (esc cancels)")
	case interact.PlacingNodeClose:
		closes := place.ValidCloseSlots(st.StartSlot, snap.Containers, maxSlot)
		return lipgloss.NewStyle().Foreground(colorHintFg).
			Render(string(st.Type) + " close " + glyphArrow() + " slots " + joinInts(closes) + "  (esc cancels)")
	}

	if m.status == "" {
		return ""
	}
	// Gesture prompts render as hints, anything left over is an error.
	hint := m.mode == modePickType || m.mode == modeOpenClick || m.mode == modeConfirm
	if hint {
		return lipgloss.NewStyle().Foreground(colorHintFg).Render(m.status)
	}
	return styleError().Render(m.status)
}

func (m appModel) canvasOpts(gm geom.Map) canvasOpts {
	o := canvasOpts{gm: gm, selectedNodeID: "", pendingSlot: -1}
	if m.selKind == interact.TargetNode {
		o.selectedNodeID = m.selID
	}
	switch st := m.machine.State().(type) {
	case interact.PlacingContainerEnd:
		o.pendingSlot = st.StartSlot
		o.pendingStart = true
	case interact.PlacingNodeClose:
		o.pendingSlot = st.StartSlot
		o.pendingType = st.Type
	}
	return o
}

func (m appModel) detailView() string {
	n := m.selectedNode()
	if n == nil {
		return ""
	}
	var b strings.Builder
	typeTag := lipgloss.NewStyle().Foreground(miceColor(n.Type)).Render(glyphBullet() + " " + string(n.Type))
	role := string(n.Role)
	b.WriteString(fmt.Sprintf("%s %s %s  slot %d  %s\n",
		typeTag, glyphArrow(), role, n.Slot, titleOrDash(n.Title)))
	b.WriteString(styleMuted().Render("opened "+humanize.Time(n.CreatedAt)) + "\n")
	if md := renderMarkdown(n.Description, min(m.width-2, 78)); md != "" {
		b.WriteString(md + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func joinInts(xs []int) string {
	if len(xs) == 0 {
		return "(none)"
	}
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, " ")
}

func titleOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
