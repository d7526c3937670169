package model

import "time"

// NodeType is the narrative category of a thread (MICE quotient).
type NodeType string

const (
	NodeTypeMilieu    NodeType = "milieu"
	NodeTypeIdea      NodeType = "idea"
	NodeTypeCharacter NodeType = "character"
	NodeTypeEvent     NodeType = "event"
)

func NodeTypes() []NodeType {
	return []NodeType{NodeTypeMilieu, NodeTypeIdea, NodeTypeCharacter, NodeTypeEvent}
}

type NodeRole string

const (
	NodeRoleOpen  NodeRole = "open"
	NodeRoleClose NodeRole = "close"
)

// Container is a scene/act span on the timeline. Containers nest: a child's
// [StartSlot, EndSlot] lies strictly inside its parent's. Both boundaries
// occupy timeline slots exclusively.
type Container struct {
	ID        string    `json:"id"`
	ParentID  *string   `json:"parentId,omitempty"`
	Title     string    `json:"title"`
	StartSlot int       `json:"startSlot"`
	EndSlot   int       `json:"endSlot"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c Container) Contains(slot int) bool {
	return c.StartSlot <= slot && slot <= c.EndSlot
}

func (c Container) Span() int {
	return c.EndSlot - c.StartSlot
}

// Node is one marker of a thread: the open or the close. Exactly two nodes
// share a ThreadID, and the close sits at a higher slot than the open. A
// thread may transiently have only its open node while the user is still
// choosing the close position.
type Node struct {
	ID          string    `json:"id"`
	ContainerID *string   `json:"containerId,omitempty"`
	ThreadID    string    `json:"threadId"`
	Type        NodeType  `json:"type"`
	Role        NodeRole  `json:"role"`
	Slot        int       `json:"slot"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Snapshot is the current projection of the board: containers ordered by
// start slot, nodes ordered by slot. The mutation layer owns the single
// writable copy and replaces it wholesale after every mutation; everything
// else treats a Snapshot as read-only.
type Snapshot struct {
	Containers []Container `json:"containers"`
	Nodes      []Node      `json:"nodes"`
}

func (s *Snapshot) FindContainer(id string) (*Container, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.Containers {
		if s.Containers[i].ID == id {
			return &s.Containers[i], true
		}
	}
	return nil, false
}

func (s *Snapshot) FindNode(id string) (*Node, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return &s.Nodes[i], true
		}
	}
	return nil, false
}

// NodeAtSlot returns the node occupying the given slot, if any.
func (s *Snapshot) NodeAtSlot(slot int) (*Node, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.Nodes {
		if s.Nodes[i].Slot == slot {
			return &s.Nodes[i], true
		}
	}
	return nil, false
}

// ThreadNodes returns the open and close nodes of a thread. Either may be nil
// (an in-progress thread has no close yet).
func (s *Snapshot) ThreadNodes(threadID string) (open, close *Node) {
	if s == nil {
		return nil, nil
	}
	for i := range s.Nodes {
		n := &s.Nodes[i]
		if n.ThreadID != threadID {
			continue
		}
		switch n.Role {
		case NodeRoleOpen:
			open = n
		case NodeRoleClose:
			close = n
		}
	}
	return open, close
}

// ChildrenOf returns the direct child containers of parentID ("" for roots).
func (s *Snapshot) ChildrenOf(parentID string) []Container {
	if s == nil {
		return nil
	}
	var out []Container
	for _, c := range s.Containers {
		pid := ""
		if c.ParentID != nil {
			pid = *c.ParentID
		}
		if pid == parentID {
			out = append(out, c)
		}
	}
	return out
}

func ParseNodeType(s string) (NodeType, bool) {
	switch NodeType(s) {
	case NodeTypeMilieu, NodeTypeIdea, NodeTypeCharacter, NodeTypeEvent:
		return NodeType(s), true
	}
	return "", false
}

// Event is one row of the append-only board mutation journal.
type Event struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId"`
	Payload  any       `json:"payload"`
}
