package board

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"braid/internal/model"
	"braid/internal/place"
	"braid/internal/slot"
	"braid/internal/store"
)

// Board is the mutation orchestrator: it executes the slot engine's shift
// arithmetic against the SQLite store and owns the single writable Snapshot,
// replaced wholesale after every mutation. Mutations are serialized by a
// mutex; shells await completion (snapshot reload included) before feeding
// the next committing click to the interaction machine.
type Board struct {
	mu    sync.Mutex
	store store.Store
	db    *store.DB
	snap  *model.Snapshot
}

// Open opens the workspace store and loads the initial projection.
func Open(ctx context.Context, s store.Store) (*Board, error) {
	db, err := s.Open(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := db.LoadSnapshot(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Board{store: s, db: db, snap: snap}, nil
}

func (b *Board) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	err := b.db.Close()
	b.db = nil
	return err
}

func (b *Board) Dir() string { return b.store.Dir }

// Snapshot returns the current projection. Callers must treat it as
// read-only; it is replaced, never mutated, by the next mutation.
func (b *Board) Snapshot() *model.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snap
}

// SnapshotProvider adapts the board to the interaction machine's snapshot
// hook.
func (b *Board) SnapshotProvider() func() *model.Snapshot {
	return func() *model.Snapshot { return b.Snapshot() }
}

// Reload re-reads the projection from the store without mutating. Used when
// another process wrote the same workspace (watcher-driven TUI refresh).
func (b *Board) Reload(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return store.ErrClosed
	}
	snap, err := b.db.LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	b.snap = snap
	return nil
}

// Events reads the mutation journal (see store.ReadEvents for limit rules).
func (b *Board) Events(ctx context.Context, limit int) ([]model.Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return nil, store.ErrClosed
	}
	return b.db.ReadEvents(ctx, limit)
}

// mutate runs fn inside one transaction and republishes the snapshot. Every
// mutation in this package goes through here: fail fast when the store is
// closed, commit atomically, reload the projection.
func (b *Board) mutate(ctx context.Context, fn func(tx txh) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return store.ErrClosed
	}
	tx, err := b.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(txh{ctx: ctx, tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	snap, err := b.db.LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	b.snap = snap
	return nil
}

// AddContainer creates a container from two insert positions a <= b (clicked
// slots in current coordinates). The final span is [a, b+1]: one shift opens
// the start slot, a second opens the end slot past the already-adjusted
// larger boundary. An empty timeline skips the shifts and places [0, 1].
func (b *Board) AddContainer(ctx context.Context, title string, a, bPos int, parentID *string) (model.Container, error) {
	if bPos < a {
		a, bPos = bPos, a
	}
	var created model.Container
	err := b.mutate(ctx, func(t txh) error {
		empty := len(b.snap.Containers) == 0 && len(b.snap.Nodes) == 0

		start, end := a, bPos+1
		if empty {
			start, end = 0, 1
		}

		// Validate against the post-shift geometry, simulated on the pure
		// engine before any row moves.
		cs := cloneContainers(b.snap.Containers)
		ns := cloneNodes(b.snap.Nodes)
		if !empty {
			slot.Shift(a, 1, cs, ns)
			slot.Shift(bPos+1, 1, cs, ns)
		}
		if err := checkParent(parentID, cs); err != nil {
			return err
		}
		if !place.CanCreateContainer(start, end, parentID, cs) {
			return ValidationError{Reason: "container placement rejected"}
		}

		if !empty {
			if err := store.ShiftSlots(t.ctx, t.tx, a, 1); err != nil {
				return err
			}
			if err := store.ShiftSlots(t.ctx, t.tx, bPos+1, 1); err != nil {
				return err
			}
		}

		id, err := store.NewID("cont")
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		created = model.Container{
			ID: id, ParentID: parentID, Title: title,
			StartSlot: start, EndSlot: end,
			CreatedAt: now, UpdatedAt: now,
		}
		if err := store.InsertContainer(t.ctx, t.tx, created); err != nil {
			return err
		}
		return store.AppendEvent(t.ctx, t.tx, "container.create", id, map[string]any{
			"startSlot": start, "endSlot": end, "parentId": parentID, "title": title,
		})
	})
	return created, err
}

// StartThread begins the two-step flow: one shift opens room for the open
// node; the close is chosen later by CompleteThread.
func (b *Board) StartThread(ctx context.Context, typ model.NodeType, at int, title string) (model.Node, error) {
	var created model.Node
	err := b.mutate(ctx, func(t txh) error {
		cs := cloneContainers(b.snap.Containers)
		ns := cloneNodes(b.snap.Nodes)
		slot.Shift(at, 1, cs, ns)

		if err := store.ShiftSlots(t.ctx, t.tx, at, 1); err != nil {
			return err
		}
		id, err := store.NewID("node")
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		created = model.Node{
			ID: id, ContainerID: containerIDAt(at, cs), ThreadID: store.NewThreadID(),
			Type: typ, Role: model.NodeRoleOpen, Slot: at, Title: title,
			CreatedAt: now, UpdatedAt: now,
		}
		if err := store.InsertNode(t.ctx, t.tx, created); err != nil {
			return err
		}
		return store.AppendEvent(t.ctx, t.tx, "thread.start", id, map[string]any{
			"threadId": created.ThreadID, "type": typ, "slot": at,
		})
	})
	return created, err
}

// CompleteThread closes an in-progress thread at insert position `at`. The
// open node must exist and still be open; the close must land strictly after
// it, in the same innermost container.
func (b *Board) CompleteThread(ctx context.Context, openNodeID string, at int) (model.Node, error) {
	var created model.Node
	err := b.mutate(ctx, func(t txh) error {
		open, ok := b.snap.FindNode(openNodeID)
		if !ok {
			return NotFoundError{Kind: "node", ID: openNodeID}
		}
		if open.Role != model.NodeRoleOpen {
			return ValidationError{Reason: "node " + openNodeID + " is not an open node"}
		}
		if _, cls := b.snap.ThreadNodes(open.ThreadID); cls != nil {
			return ValidationError{Reason: "thread " + open.ThreadID + " is already closed"}
		}
		if at <= open.Slot {
			return ValidationError{Reason: "close slot must come after the open node"}
		}
		if !place.CanPlaceClose(open.Slot, at, b.snap.Containers) {
			return ValidationError{Reason: "close slot is in a different container than the open"}
		}

		if err := store.ShiftSlots(t.ctx, t.tx, at, 1); err != nil {
			return err
		}
		id, err := store.NewID("node")
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		created = model.Node{
			ID: id, ContainerID: open.ContainerID, ThreadID: open.ThreadID,
			Type: open.Type, Role: model.NodeRoleClose, Slot: at, Title: open.Title,
			CreatedAt: now, UpdatedAt: now,
		}
		if err := store.InsertNode(t.ctx, t.tx, created); err != nil {
			return err
		}
		return store.AppendEvent(t.ctx, t.tx, "thread.complete", id, map[string]any{
			"threadId": open.ThreadID, "openNodeId": openNodeID, "slot": at,
		})
	})
	return created, err
}

// CreateThread commits open and close together: a single +2 shift frees two
// consecutive slots.
func (b *Board) CreateThread(ctx context.Context, typ model.NodeType, at int, title string) (open, cls model.Node, err error) {
	err = b.mutate(ctx, func(t txh) error {
		cs := cloneContainers(b.snap.Containers)
		ns := cloneNodes(b.snap.Nodes)
		slot.Shift(at, 2, cs, ns)
		if !place.CanPlaceClose(at, at+1, cs) {
			return ValidationError{Reason: "thread placement rejected"}
		}

		if err := store.ShiftSlots(t.ctx, t.tx, at, 2); err != nil {
			return err
		}
		openID, err := store.NewID("node")
		if err != nil {
			return err
		}
		closeID, err := store.NewID("node")
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		threadID := store.NewThreadID()
		containerID := containerIDAt(at, cs)
		open = model.Node{
			ID: openID, ContainerID: containerID, ThreadID: threadID,
			Type: typ, Role: model.NodeRoleOpen, Slot: at, Title: title,
			CreatedAt: now, UpdatedAt: now,
		}
		cls = model.Node{
			ID: closeID, ContainerID: containerID, ThreadID: threadID,
			Type: typ, Role: model.NodeRoleClose, Slot: at + 1, Title: title,
			CreatedAt: now, UpdatedAt: now,
		}
		if err := store.InsertNode(t.ctx, t.tx, open); err != nil {
			return err
		}
		if err := store.InsertNode(t.ctx, t.tx, cls); err != nil {
			return err
		}
		return store.AppendEvent(t.ctx, t.tx, "thread.create", threadID, map[string]any{
			"type": typ, "openSlot": at, "closeSlot": at + 1,
		})
	})
	return open, cls, err
}

// DeleteNode removes a single node (the cancel path of an incomplete thread)
// and compacts the freed slot.
func (b *Board) DeleteNode(ctx context.Context, id string) error {
	return b.mutate(ctx, func(t txh) error {
		n, ok := b.snap.FindNode(id)
		if !ok {
			return NotFoundError{Kind: "node", ID: id}
		}
		if err := store.DeleteNodeRow(t.ctx, t.tx, id); err != nil {
			return err
		}
		if err := compact(t, []int{n.Slot}); err != nil {
			return err
		}
		return store.AppendEvent(t.ctx, t.tx, "node.delete", id, map[string]any{
			"slot": n.Slot, "threadId": n.ThreadID,
		})
	})
}

// DeleteThread removes both nodes of a thread and compacts both freed slots.
func (b *Board) DeleteThread(ctx context.Context, threadID string) error {
	return b.mutate(ctx, func(t txh) error {
		open, cls := b.snap.ThreadNodes(threadID)
		if open == nil && cls == nil {
			return NotFoundError{Kind: "thread", ID: threadID}
		}
		var freed []int
		for _, n := range []*model.Node{open, cls} {
			if n == nil {
				continue
			}
			if err := store.DeleteNodeRow(t.ctx, t.tx, n.ID); err != nil {
				return err
			}
			freed = append(freed, n.Slot)
		}
		if err := compact(t, freed); err != nil {
			return err
		}
		return store.AppendEvent(t.ctx, t.tx, "thread.delete", threadID, map[string]any{
			"freedSlots": freed,
		})
	})
}

// DeleteContainer removes a container with its whole subtree (children before
// parents) and every node inside any deleted container, then compacts all
// freed slots in one pass.
func (b *Board) DeleteContainer(ctx context.Context, id string) error {
	return b.mutate(ctx, func(t txh) error {
		if _, ok := b.snap.FindContainer(id); !ok {
			return NotFoundError{Kind: "container", ID: id}
		}

		doomed := subtreeChildrenFirst(id, b.snap.Containers)
		inDoomed := map[string]bool{}
		for _, c := range doomed {
			inDoomed[c.ID] = true
		}

		var freed []int
		for _, n := range b.snap.Nodes {
			if n.ContainerID != nil && inDoomed[*n.ContainerID] {
				if err := store.DeleteNodeRow(t.ctx, t.tx, n.ID); err != nil {
					return err
				}
				freed = append(freed, n.Slot)
			}
		}
		// Children first: respects any foreign-key-style ordering on the rows.
		for _, c := range doomed {
			if err := store.DeleteContainerRow(t.ctx, t.tx, c.ID); err != nil {
				return err
			}
			freed = append(freed, c.StartSlot, c.EndSlot)
		}

		if err := compact(t, freed); err != nil {
			return err
		}
		return store.AppendEvent(t.ctx, t.tx, "container.delete", id, map[string]any{
			"deleted": len(doomed), "freedSlots": len(freed),
		})
	})
}

// UpdateContainerTitle is a metadata edit; no slot math.
func (b *Board) UpdateContainerTitle(ctx context.Context, id, title string) error {
	return b.mutate(ctx, func(t txh) error {
		ok, err := store.UpdateContainerTitle(t.ctx, t.tx, id, title)
		if err != nil {
			return err
		}
		if !ok {
			return NotFoundError{Kind: "container", ID: id}
		}
		return store.AppendEvent(t.ctx, t.tx, "container.rename", id, map[string]any{"title": title})
	})
}

// UpdateNode edits a node's title and/or description; nil leaves a field
// unchanged.
func (b *Board) UpdateNode(ctx context.Context, id string, title, description *string) error {
	if title == nil && description == nil {
		return nil
	}
	return b.mutate(ctx, func(t txh) error {
		ok, err := store.UpdateNodeText(t.ctx, t.tx, id, title, description)
		if err != nil {
			return err
		}
		if !ok {
			return NotFoundError{Kind: "node", ID: id}
		}
		return store.AppendEvent(t.ctx, t.tx, "node.update", id, map[string]any{})
	})
}

// Renormalize collapses any sparse gaps in the committed slot set to a
// contiguous 0..N-1 range (maintenance; committed states should already be
// contiguous after compaction).
func (b *Board) Renormalize(ctx context.Context) (bool, error) {
	changed := false
	err := b.mutate(ctx, func(t txh) error {
		cs := cloneContainers(b.snap.Containers)
		ns := cloneNodes(b.snap.Nodes)
		if !slot.Renormalize(cs, ns) {
			return nil
		}
		changed = true
		for _, c := range cs {
			if err := store.SetContainerSlots(t.ctx, t.tx, c.ID, c.StartSlot, c.EndSlot); err != nil {
				return err
			}
		}
		for _, n := range ns {
			if err := store.SetNodeSlot(t.ctx, t.tx, n.ID, n.Slot); err != nil {
				return err
			}
		}
		return store.AppendEvent(t.ctx, t.tx, "board.renormalize", "", map[string]any{})
	})
	return changed, err
}

// Status summarizes the board for the CLI and the web endpoint.
type Status struct {
	Dir         string   `json:"dir"`
	TotalSlots  int      `json:"totalSlots"`
	Containers  int      `json:"containers"`
	Nodes       int      `json:"nodes"`
	Threads     int      `json:"threads"`
	OpenThreads int      `json:"openThreads"`
	Problems    []string `json:"problems"`
}

func (b *Board) Status() Status {
	snap := b.Snapshot()
	threads := map[string]bool{}
	closed := map[string]bool{}
	for _, n := range snap.Nodes {
		threads[n.ThreadID] = true
		if n.Role == model.NodeRoleClose {
			closed[n.ThreadID] = true
		}
	}
	return Status{
		Dir:         b.store.Dir,
		TotalSlots:  slot.Total(snap.Containers, snap.Nodes),
		Containers:  len(snap.Containers),
		Nodes:       len(snap.Nodes),
		Threads:     len(threads),
		OpenThreads: len(threads) - len(closed),
		Problems:    place.CheckSnapshot(snap),
	}
}

type txh struct {
	ctx context.Context
	tx  *sql.Tx
}

// compact applies the ascending freed-slot correction against the store: the
// i-th freed slot has already been left-shifted past by i earlier shifts.
func compact(t txh, freed []int) error {
	sorted := append([]int(nil), freed...)
	sort.Ints(sorted)
	for i, s := range sorted {
		if err := store.ShiftSlots(t.ctx, t.tx, s+1-i, -1); err != nil {
			return err
		}
	}
	return nil
}

// subtreeChildrenFirst returns the container plus all descendants, deepest
// first.
func subtreeChildrenFirst(id string, containers []model.Container) []model.Container {
	children := map[string][]model.Container{}
	byID := map[string]model.Container{}
	for _, c := range containers {
		byID[c.ID] = c
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}
	var out []model.Container
	var walk func(cid string)
	walk = func(cid string) {
		for _, child := range children[cid] {
			walk(child.ID)
		}
		if c, ok := byID[cid]; ok {
			out = append(out, c)
		}
	}
	walk(id)
	return out
}

func checkParent(parentID *string, containers []model.Container) error {
	if parentID == nil {
		return nil
	}
	for i := range containers {
		if containers[i].ID == *parentID {
			return nil
		}
	}
	return NotFoundError{Kind: "container", ID: *parentID}
}

func containerIDAt(s int, containers []model.Container) *string {
	if c := place.ContainerAt(s, containers); c != nil {
		id := c.ID
		return &id
	}
	return nil
}

func cloneContainers(in []model.Container) []model.Container {
	return append([]model.Container(nil), in...)
}

func cloneNodes(in []model.Node) []model.Node {
	return append([]model.Node(nil), in...)
}
