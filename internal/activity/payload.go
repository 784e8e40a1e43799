package activity

import (
	"encoding/json"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/lzjever/mbos-activity/internal/core"
)

// Payload is one event schema, fixed for a single (kind, revision). The
// metadata methods must return constants so they can be read off the zero
// value when decoders are built.
type Payload interface {
	EventKind() EventKind
	Revision() Revision
	SubjectKind() core.SubjectKind
	Meta() Header
	Render() string
	Validate() error
}

// Header carries the actor and time fields shared by every payload.
type Header struct {
	ActorID       uuid.UUID `json:"actor_id"`
	ActorFullName string    `json:"actor_full_name"`
	ActorRoles    []string  `json:"actor_roles"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewHeader builds the header for an event performed by caller at the given instant.
func NewHeader(caller core.Caller, at time.Time) Header {
	var roles []string
	if len(caller.Roles) > 0 {
		roles = append(roles, caller.Roles...)
	}
	return Header{
		ActorID:       caller.UserID,
		ActorFullName: caller.FullName,
		ActorRoles:    roles,
		OccurredAt:    at.UTC(),
	}
}

func (h Header) Meta() Header { return h }

// Validate implements validation.Validatable.
func (h Header) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.ActorID, NotNilUUID),
		validation.Field(&h.ActorFullName, validation.Required),
		validation.Field(&h.OccurredAt, validation.Required),
	)
}

// NotNilUUID rejects uuid.Nil, which validation.Required accepts for arrays.
var NotNilUUID = validation.By(func(value any) error {
	switch v := value.(type) {
	case uuid.UUID:
		if v == uuid.Nil {
			return validation.NewError("validation_uuid_nil", "cannot be the nil uuid")
		}
	case *uuid.UUID:
		if v != nil && *v == uuid.Nil {
			return validation.NewError("validation_uuid_nil", "cannot be the nil uuid")
		}
	}
	return nil
})

// Encode is the canonical serializer for every payload.
func Encode(p Payload) (string, error) {
	if err := p.Validate(); err != nil {
		return "", fmt.Errorf("encode %s@%d: %w", p.EventKind(), p.Revision(), err)
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode %s@%d: %w", p.EventKind(), p.Revision(), err)
	}
	return string(b), nil
}

// KeyOf returns the dispatch key of a payload.
func KeyOf(p Payload) Key {
	return Key{Kind: p.EventKind(), Revision: p.Revision()}
}

// Display renders a decoded payload for a feed.
func Display(p Payload, at time.Time) DisplayItem {
	return DisplayItem{
		Timestamp:     at,
		ActorFullName: p.Meta().ActorFullName,
		Message:       p.Render(),
	}
}
