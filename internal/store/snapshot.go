package store

import (
	"context"

	"braid/internal/model"
)

// LoadSnapshot re-reads both tables as one consistent projection: containers
// ordered by start slot, nodes ordered by slot. Every mutation ends with a
// reload so the geometry mapper and the interaction machine always observe a
// single committed state.
func (d *DB) LoadSnapshot(ctx context.Context) (*model.Snapshot, error) {
	containers, err := d.ListContainers(ctx)
	if err != nil {
		return nil, err
	}
	nodes, err := d.ListNodes(ctx)
	if err != nil {
		return nil, err
	}
	return &model.Snapshot{Containers: containers, Nodes: nodes}, nil
}
