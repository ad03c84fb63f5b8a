package filetree

import (
	"time"

	"github.com/google/uuid"

	"project-editor/backend/internal/models"
)

type EventType string

const (
	EventFileCreated EventType = "file_created"
	EventFileUpdated EventType = "file_updated"
	EventFileDeleted EventType = "file_deleted"
)

// Event describes a committed change to the tree.
type Event struct {
	ID        string       `json:"id"`
	Type      EventType    `json:"type"`
	Timestamp time.Time    `json:"timestamp"`
	Node      *models.Node `json:"node,omitempty"`
	// Removed lists every id deleted by a file_deleted event, descendants first.
	Removed []int64 `json:"removed,omitempty"`
}

func newEvent(t EventType, node *models.Node) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      t,
		Timestamp: time.Now().UTC(),
		Node:      node,
	}
}

// emit sends an event to the registered emitter, if any.
func (s *Service) emit(event Event) {
	if s.eventEmitter != nil {
		s.eventEmitter(event)
	}
}
