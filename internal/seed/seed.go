package seed

import (
	"context"
	"fmt"
	"os"

	"braid/internal/board"
	"braid/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// A seed is a declarative TOML description of a board. Containers and threads
// are appended in declaration order, left to right within their parent, so
// the same document always builds the same slot layout.

type Doc struct {
	Title      string      `toml:"title"`
	Containers []Container `toml:"containers" validate:"dive"`
	Threads    []Thread    `toml:"threads" validate:"dive"`
}

type Container struct {
	Name   string `toml:"name" validate:"required"`
	Title  string `toml:"title"`
	Parent string `toml:"parent"`
}

type Thread struct {
	Title     string `toml:"title"`
	Type      string `toml:"type" validate:"required,oneof=milieu idea character event"`
	Container string `toml:"container"`
}

// Load reads and validates a seed document. Struct-tag validation catches
// shape errors; reference checks (unknown parent/container names, duplicate
// names) are semantic and reported separately.
func Load(path string) (Doc, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Doc{}, err
	}
	return Parse(raw)
}

func Parse(raw []byte) (Doc, error) {
	var doc Doc
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return Doc{}, fmt.Errorf("parse seed: %w", err)
	}
	if err := validator.New().Struct(doc); err != nil {
		return Doc{}, fmt.Errorf("invalid seed: %w", err)
	}
	if err := checkRefs(doc); err != nil {
		return Doc{}, err
	}
	return doc, nil
}

func checkRefs(doc Doc) error {
	names := map[string]bool{}
	for _, c := range doc.Containers {
		if names[c.Name] {
			return fmt.Errorf("invalid seed: duplicate container name %q", c.Name)
		}
		names[c.Name] = true
	}
	for _, c := range doc.Containers {
		if c.Parent != "" && !names[c.Parent] {
			return fmt.Errorf("invalid seed: container %q references unknown parent %q", c.Name, c.Parent)
		}
	}
	for i, th := range doc.Threads {
		if th.Container != "" && !names[th.Container] {
			return fmt.Errorf("invalid seed: thread %d references unknown container %q", i, th.Container)
		}
	}
	return nil
}

// Apply builds the document on the board: containers first (declaration
// order, which must list parents before children to land in the right span),
// then threads, then a renormalize pass. Returns the container name -> id
// mapping.
func Apply(ctx context.Context, b *board.Board, doc Doc) (map[string]string, error) {
	ids := map[string]string{}

	for _, c := range doc.Containers {
		var parentID *string
		if c.Parent != "" {
			id, ok := ids[c.Parent]
			if !ok {
				return nil, fmt.Errorf("seed: parent %q declared after child %q", c.Parent, c.Name)
			}
			parentID = &id
		}

		at := appendSlot(b.Snapshot(), parentID)
		title := c.Title
		if title == "" {
			title = c.Name
		}
		created, err := b.AddContainer(ctx, title, at, at, parentID)
		if err != nil {
			return nil, fmt.Errorf("seed: container %q: %w", c.Name, err)
		}
		ids[c.Name] = created.ID
	}

	for i, th := range doc.Threads {
		typ, ok := model.ParseNodeType(th.Type)
		if !ok {
			return nil, fmt.Errorf("seed: thread %d: unknown type %q", i, th.Type)
		}
		var containerID *string
		if th.Container != "" {
			id := ids[th.Container]
			containerID = &id
		}
		at := appendSlot(b.Snapshot(), containerID)
		if _, _, err := b.CreateThread(ctx, typ, at, th.Title); err != nil {
			return nil, fmt.Errorf("seed: thread %d: %w", i, err)
		}
	}

	if _, err := b.Renormalize(ctx); err != nil {
		return nil, err
	}
	return ids, nil
}

// appendSlot picks the insert position that appends inside the given
// container (its end-boundary slot) or at the far right of the board.
func appendSlot(snap *model.Snapshot, containerID *string) int {
	if containerID != nil {
		if c, ok := snap.FindContainer(*containerID); ok {
			return c.EndSlot
		}
	}
	max := -1
	for _, c := range snap.Containers {
		if c.EndSlot > max {
			max = c.EndSlot
		}
	}
	for _, n := range snap.Nodes {
		if n.Slot > max {
			max = n.Slot
		}
	}
	return max + 1
}
