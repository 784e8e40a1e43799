package activity

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrSubjectNotFound     = errors.New("activity: subject not found")
	ErrUnregisteredDecoder = errors.New("activity: no decoder registered")
	ErrMalformedPayload    = errors.New("activity: malformed payload")
	ErrDuplicateDecoder    = errors.New("activity: duplicate decoder registration")
	ErrInvalidPage         = errors.New("activity: invalid page request")
	ErrInvalidScope        = errors.New("activity: invalid scope")
	ErrSubjectKindMismatch = errors.New("activity: payload does not document this subject kind")
	ErrIdempotencyConflict = errors.New("activity: idempotency key reused with a different request")
)

// UnregisteredDecoderError reports an entry whose (kind, revision) has no
// decoder in this process. It means writer and reader versions have drifted.
type UnregisteredDecoderError struct {
	Key     Key
	EntryID uuid.UUID
}

func (e *UnregisteredDecoderError) Error() string {
	if e.EntryID == uuid.Nil {
		return fmt.Sprintf("activity: no decoder registered for %s", e.Key)
	}
	return fmt.Sprintf("activity: no decoder registered for %s (entry %s)", e.Key, e.EntryID)
}

func (e *UnregisteredDecoderError) Unwrap() error { return ErrUnregisteredDecoder }

// MalformedPayloadError reports a payload that does not match its schema.
type MalformedPayloadError struct {
	Key     Key
	EntryID uuid.UUID
	Err     error
}

func (e *MalformedPayloadError) Error() string {
	if e.EntryID == uuid.Nil {
		return fmt.Sprintf("activity: malformed %s payload: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("activity: malformed %s payload in entry %s: %v", e.Key, e.EntryID, e.Err)
}

func (e *MalformedPayloadError) Unwrap() []error { return []error{ErrMalformedPayload, e.Err} }
