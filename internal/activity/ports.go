package activity

import (
	"context"

	"github.com/google/uuid"

	"github.com/lzjever/mbos-activity/internal/core"
)

// Store persists entries. Entries are append-only: no method updates or
// deletes one. Implementations join the transaction carried by ctx when
// Transactor.InTx started one.
type Store interface {
	InsertEntry(ctx context.Context, e Entry) error
	CountEntries(ctx context.Context, q Query) (int, error)
	// ListEntries returns entries newest first, ties broken by descending Seq.
	ListEntries(ctx context.Context, q Query, offset, limit int) ([]Entry, error)
	// FindByIdempotencyKey looks a key up within one scope. Keys are unique
	// per scope, not globally.
	FindByIdempotencyKey(ctx context.Context, scope core.Scope, key string) (Entry, bool, error)
	DistinctEventKinds(ctx context.Context) ([]Key, error)
}

// SubjectDirectory records which subjects are visible in which scope.
type SubjectDirectory interface {
	RegisterSubject(ctx context.Context, kind core.SubjectKind, id uuid.UUID, scope core.Scope) error
	SubjectExists(ctx context.Context, kind core.SubjectKind, id uuid.UUID, scope core.Scope) (bool, error)
}

// Transactor runs fn inside one storage transaction. fn must use the ctx it
// receives for the work to join the transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Backend is the full storage surface a process opens at startup.
type Backend interface {
	Store
	SubjectDirectory
	Transactor
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close()
}
