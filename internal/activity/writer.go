package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/lzjever/mbos-activity/internal/core"
	"github.com/lzjever/mbos-activity/internal/observability"
)

var tracer = otel.Tracer("github.com/lzjever/mbos-activity/internal/activity")

// Writer appends entries. It performs no business validation: the caller
// owns the mutation being documented and must run Append inside the same
// transaction (see Transactor) so the two commit or roll back together.
type Writer struct {
	store    Store
	registry *Registry
	log      *zap.Logger
}

func NewWriter(store Store, registry *Registry, log *zap.Logger) *Writer {
	return &Writer{
		store:    store,
		registry: registry,
		log:      log,
	}
}

// AppendParams describes one entry. A zero At means the payload's OccurredAt.
type AppendParams struct {
	Scope       core.Scope
	SubjectKind core.SubjectKind
	SubjectID   uuid.UUID
	Payload     Payload
	At          time.Time

	IdempotencyKey string
	RequestHash    string
}

// Append serializes the payload, builds the envelope and persists it. The
// payload's (kind, revision) must have a registered decoder, otherwise the
// entry could never be read back.
func (w *Writer) Append(ctx context.Context, p AppendParams) (uuid.UUID, error) {
	ctx, span := tracer.Start(ctx, "activity.Writer.Append", trace.WithAttributes(
		attribute.String("subject_kind", string(p.SubjectKind)),
		attribute.String("scope", p.Scope.String()),
	))
	defer span.End()

	id, err := w.append(ctx, p)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return uuid.Nil, err
	}
	span.SetAttributes(attribute.String("entry_id", id.String()))
	return id, nil
}

func (w *Writer) append(ctx context.Context, p AppendParams) (uuid.UUID, error) {
	if err := p.Scope.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidScope, err)
	}
	if !p.SubjectKind.Valid() {
		return uuid.Nil, fmt.Errorf("append: unknown subject kind %q", p.SubjectKind)
	}
	if p.SubjectID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("append: subject id is required")
	}
	if p.Payload == nil {
		return uuid.Nil, fmt.Errorf("append: payload is required")
	}
	key := KeyOf(p.Payload)
	if _, ok := w.registry.Lookup(key.Kind, key.Revision); !ok {
		return uuid.Nil, &UnregisteredDecoderError{Key: key}
	}
	if p.Payload.SubjectKind() != p.SubjectKind {
		return uuid.Nil, fmt.Errorf("%w: %s documents %s, not %s",
			ErrSubjectKindMismatch, key, p.Payload.SubjectKind(), p.SubjectKind)
	}

	raw, err := Encode(p.Payload)
	if err != nil {
		return uuid.Nil, err
	}

	at := p.At
	if at.IsZero() {
		at = p.Payload.Meta().OccurredAt
	}

	e := Entry{
		ID:             core.NewID(),
		Scope:          p.Scope,
		SubjectKind:    p.SubjectKind,
		SubjectID:      p.SubjectID,
		OccurredAt:     at.UTC().Truncate(time.Microsecond),
		EventKind:      key.Kind,
		Revision:       key.Revision,
		Payload:        raw,
		IdempotencyKey: p.IdempotencyKey,
		RequestHash:    p.RequestHash,
	}
	if err := w.store.InsertEntry(ctx, e); err != nil {
		return uuid.Nil, fmt.Errorf("insert entry: %w", err)
	}

	observability.AppendTotal.WithLabelValues(string(e.SubjectKind), string(e.EventKind)).Inc()
	w.log.Debug("activity appended",
		zap.String("entry_id", e.ID.String()),
		zap.String("subject_kind", string(e.SubjectKind)),
		zap.String("subject_id", e.SubjectID.String()),
		zap.String("event_kind", string(e.EventKind)),
		zap.Uint32("revision", uint32(e.Revision)),
	)
	return e.ID, nil
}

// RawAppend is an event received in its serialized form, e.g. from a remote
// business service.
type RawAppend struct {
	Scope       core.Scope
	SubjectKind core.SubjectKind
	SubjectID   uuid.UUID
	EventKind   EventKind
	Revision    Revision
	Payload     json.RawMessage

	IdempotencyKey string
	RequestHash    string
}

type AppendResult struct {
	EntryID  uuid.UUID
	Replayed bool
}

// AppendRaw decodes a serialized payload through its registered decoder and
// appends it. A repeated IdempotencyKey in the same scope with the same
// RequestHash returns the original entry; with a different hash it fails with
// ErrIdempotencyConflict.
func (w *Writer) AppendRaw(ctx context.Context, r RawAppend) (AppendResult, error) {
	if r.IdempotencyKey != "" {
		if res, found, err := w.replay(ctx, r); found || err != nil {
			return res, err
		}
	}

	d, ok := w.registry.Lookup(r.EventKind, r.Revision)
	if !ok {
		return AppendResult{}, &UnregisteredDecoderError{Key: Key{Kind: r.EventKind, Revision: r.Revision}}
	}
	p, err := d.Decode(string(r.Payload))
	if err != nil {
		return AppendResult{}, err
	}
	id, err := w.Append(ctx, AppendParams{
		Scope:          r.Scope,
		SubjectKind:    r.SubjectKind,
		SubjectID:      r.SubjectID,
		Payload:        p,
		IdempotencyKey: r.IdempotencyKey,
		RequestHash:    r.RequestHash,
	})
	if errors.Is(err, ErrIdempotencyConflict) && r.IdempotencyKey != "" {
		// A concurrent request with the same key committed first.
		if res, found, ferr := w.replay(ctx, r); found || ferr != nil {
			return res, ferr
		}
	}
	if err != nil {
		return AppendResult{}, err
	}
	return AppendResult{EntryID: id}, nil
}

// replay reports whether r's key was already used in its scope, and if so
// the earlier entry or ErrIdempotencyConflict when the request differs.
func (w *Writer) replay(ctx context.Context, r RawAppend) (AppendResult, bool, error) {
	prev, found, err := w.store.FindByIdempotencyKey(ctx, r.Scope, r.IdempotencyKey)
	if err != nil {
		return AppendResult{}, false, fmt.Errorf("find idempotency key: %w", err)
	}
	if !found {
		return AppendResult{}, false, nil
	}
	if prev.RequestHash != r.RequestHash {
		return AppendResult{}, true, ErrIdempotencyConflict
	}
	return AppendResult{EntryID: prev.ID, Replayed: true}, true, nil
}

func revisionLabel(r Revision) string {
	return strconv.FormatUint(uint64(r), 10)
}
