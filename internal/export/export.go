package export

import (
	"encoding/json"

	"braid/internal/model"
	"braid/internal/slot"

	"gopkg.in/yaml.v3"
)

// Document is the round-trippable export form of a board snapshot.
type Document struct {
	TotalSlots int               `json:"totalSlots" yaml:"totalSlots"`
	Containers []model.Container `json:"containers" yaml:"containers"`
	Nodes      []model.Node      `json:"nodes" yaml:"nodes"`
}

func NewDocument(snap *model.Snapshot) Document {
	if snap == nil {
		snap = &model.Snapshot{}
	}
	return Document{
		TotalSlots: slot.Total(snap.Containers, snap.Nodes),
		Containers: snap.Containers,
		Nodes:      snap.Nodes,
	}
}

func JSON(snap *model.Snapshot) ([]byte, error) {
	return json.MarshalIndent(NewDocument(snap), "", "  ")
}

func YAML(snap *model.Snapshot) ([]byte, error) {
	return yaml.Marshal(NewDocument(snap))
}
