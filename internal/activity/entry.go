package activity

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lzjever/mbos-activity/internal/core"
)

// EventKind tags the semantic action an entry records, e.g. "ProgramReactivated".
type EventKind string

// Revision is the payload schema version of an EventKind. Revisions start at 1.
type Revision uint32

// Key is the dispatch key of an entry.
type Key struct {
	Kind     EventKind
	Revision Revision
}

func (k Key) String() string {
	return fmt.Sprintf("%s@%d", k.Kind, k.Revision)
}

// Entry is the persisted envelope of one event.
type Entry struct {
	ID          uuid.UUID
	Seq         int64
	Scope       core.Scope
	SubjectKind core.SubjectKind
	SubjectID   uuid.UUID
	OccurredAt  time.Time
	EventKind   EventKind
	Revision    Revision
	Payload     string

	IdempotencyKey string
	RequestHash    string
}

func (e Entry) Key() Key {
	return Key{Kind: e.EventKind, Revision: e.Revision}
}

// DisplayItem is the rendered form of an entry shown in activity feeds.
type DisplayItem struct {
	Timestamp     time.Time `json:"timestamp"`
	ActorFullName string    `json:"actor_full_name"`
	Message       string    `json:"message"`
}

// Query selects the entries of one subject inside one scope.
type Query struct {
	SubjectKind core.SubjectKind
	SubjectID   uuid.UUID
	Scope       core.Scope
}
