package interact

import (
	"braid/internal/geom"
	"braid/internal/model"
	"braid/internal/place"
)

// Machine is the click-driven interaction state machine. It consumes resolved
// (slot, zone) pairs from the geometry mapper, validates gestures through the
// placement rules, and fires caller-supplied intent callbacks. It never
// touches the store: side effects belong to whoever wires the intents.

type TargetKind string

const (
	TargetContainer TargetKind = "container"
	TargetNode      TargetKind = "node"
)

// State is a tagged variant: exactly one of the concrete structs below.
type State interface{ isState() }

// Idle is both the initial state and the terminal state between gestures.
type Idle struct{}

// PlacingContainerEnd waits for the click that fixes the new container's
// second boundary. ParentID is the container clicked first, recorded as the
// intended parent; the actual parent is recomputed at commit time.
type PlacingContainerEnd struct {
	StartSlot int
	ParentID  *string
}

// PlacingNodeClose waits for the click that fixes a thread's close slot.
// OpenNodeID is set when the open node was already persisted (two-step flow)
// and empty for the direct flow, where open and close commit together.
type PlacingNodeClose struct {
	Type        model.NodeType
	StartSlot   int
	ContainerID *string
	OpenNodeID  string
}

// Editing holds a selection made by clicking an existing occupant.
type Editing struct {
	Target   TargetKind
	TargetID string
}

func (Idle) isState()                {}
func (PlacingContainerEnd) isState() {}
func (PlacingNodeClose) isState()    {}
func (Editing) isState()             {}

// Intents are the machine's only side-effect surface. Mutating intents may
// return an error (a store-level hard failure); the machine still settles in
// Idle and hands the error back to the caller of Click/Escape.
type Intents struct {
	CreateContainer func(startSlot, endSlot int, parentID *string) error
	CreateThread    func(containerID *string, typ model.NodeType, openSlot, closeSlot int) error
	CompleteThread  func(openNodeID string, closeSlot int) error
	CancelNode      func(nodeID string) error
	Select          func(kind TargetKind, id string)
	Deselect        func()
	StateChanged    func(State)
}

type Machine struct {
	snapshot func() *model.Snapshot
	intents  Intents
	state    State
}

// New builds a machine in Idle. snapshot provides the current projection;
// the machine reads it fresh on every transition so it always observes the
// state the last mutation published.
func New(snapshot func() *model.Snapshot, intents Intents) *Machine {
	return &Machine{snapshot: snapshot, intents: intents, state: Idle{}}
}

func (m *Machine) State() State { return m.state }

func (m *Machine) setState(s State) {
	m.state = s
	if m.intents.StateChanged != nil {
		m.intents.StateChanged(s)
	}
}

// Click feeds one resolved pointer click into the machine.
func (m *Machine) Click(slot int, zone geom.Zone) error {
	switch st := m.state.(type) {
	case Idle:
		return m.clickFromIdle(slot, zone)
	case Editing:
		// A click while editing behaves exactly like a click from Idle: it
		// either moves the selection or starts a new gesture.
		return m.clickFromIdle(slot, zone)
	case PlacingContainerEnd:
		return m.clickPlacingContainerEnd(st, slot)
	case PlacingNodeClose:
		return m.clickPlacingNodeClose(st, slot)
	}
	return nil
}

func (m *Machine) clickFromIdle(slot int, zone geom.Zone) error {
	snap := m.snap()
	if zone == geom.ZoneContainer {
		var parentID *string
		if c := place.ContainerAt(slot, snap.Containers); c != nil {
			id := c.ID
			parentID = &id
		}
		m.setState(PlacingContainerEnd{StartSlot: slot, ParentID: parentID})
		return nil
	}

	// Node zone: select a node if one sits here, otherwise deselect.
	if n, ok := snap.NodeAtSlot(slot); ok {
		m.setState(Editing{Target: TargetNode, TargetID: n.ID})
		if m.intents.Select != nil {
			m.intents.Select(TargetNode, n.ID)
		}
		return nil
	}
	if _, wasEditing := m.state.(Editing); wasEditing {
		if m.intents.Deselect != nil {
			m.intents.Deselect()
		}
		m.setState(Idle{})
	}
	return nil
}

func (m *Machine) clickPlacingContainerEnd(st PlacingContainerEnd, clicked int) error {
	snap := m.snap()
	start, end := st.StartSlot, clicked
	if end < start {
		start, end = end, start
	}

	// The actual parent is the smallest container fully enclosing the final
	// span, which need not be the container clicked first.
	var parentID *string
	if p := place.SmallestEnclosing(start, end, snap.Containers); p != nil {
		id := p.ID
		parentID = &id
	}

	if end <= start || !place.CanCreateContainer(start, end, parentID, snap.Containers) {
		// Invalid placement is an expected outcome of normal use, not a
		// fault: abandon silently.
		m.setState(Idle{})
		return nil
	}

	var err error
	if m.intents.CreateContainer != nil {
		err = m.intents.CreateContainer(start, end, parentID)
	}
	m.setState(Idle{})
	return err
}

func (m *Machine) clickPlacingNodeClose(st PlacingNodeClose, clicked int) error {
	snap := m.snap()
	if clicked <= st.StartSlot || !place.CanPlaceClose(st.StartSlot, clicked, snap.Containers) {
		return m.cancelPlacingNode(st)
	}

	var err error
	if st.OpenNodeID != "" {
		if m.intents.CompleteThread != nil {
			err = m.intents.CompleteThread(st.OpenNodeID, clicked)
		}
	} else if m.intents.CreateThread != nil {
		err = m.intents.CreateThread(st.ContainerID, st.Type, st.StartSlot, clicked)
	}
	m.setState(Idle{})
	return err
}

// StartThreadPlacement enters the direct flow: nothing is persisted yet, and
// a valid second click commits open and close together.
func (m *Machine) StartThreadPlacement(typ model.NodeType, openSlot int) {
	snap := m.snap()
	var containerID *string
	if c := place.ContainerAt(openSlot, snap.Containers); c != nil {
		id := c.ID
		containerID = &id
	}
	m.setState(PlacingNodeClose{Type: typ, StartSlot: openSlot, ContainerID: containerID})
}

// StartNodeCreation enters the two-step flow after the caller has already
// persisted the open node. A cancel from here must delete that node.
func (m *Machine) StartNodeCreation(typ model.NodeType, openSlot int, containerID *string, openNodeID string) {
	m.setState(PlacingNodeClose{Type: typ, StartSlot: openSlot, ContainerID: containerID, OpenNodeID: openNodeID})
}

// Escape cancels any in-progress gesture. A pending persisted open node is
// deleted through the CancelNode intent; Editing deselects.
func (m *Machine) Escape() error {
	switch st := m.state.(type) {
	case PlacingContainerEnd:
		m.setState(Idle{})
		return nil
	case PlacingNodeClose:
		return m.cancelPlacingNode(st)
	case Editing:
		if m.intents.Deselect != nil {
			m.intents.Deselect()
		}
		m.setState(Idle{})
		return nil
	}
	return nil
}

func (m *Machine) cancelPlacingNode(st PlacingNodeClose) error {
	var err error
	if st.OpenNodeID != "" && m.intents.CancelNode != nil {
		err = m.intents.CancelNode(st.OpenNodeID)
	}
	m.setState(Idle{})
	return err
}

func (m *Machine) snap() *model.Snapshot {
	if m.snapshot == nil {
		return &model.Snapshot{}
	}
	if s := m.snapshot(); s != nil {
		return s
	}
	return &model.Snapshot{}
}
