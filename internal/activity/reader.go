package activity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/lzjever/mbos-activity/internal/core"
	"github.com/lzjever/mbos-activity/internal/observability"
)

const DefaultMaxPageSize = 200

// Reader pages through the decoded history of one subject.
type Reader struct {
	store       Store
	subjects    SubjectDirectory
	registry    *Registry
	log         *zap.Logger
	maxPageSize int
}

func NewReader(store Store, subjects SubjectDirectory, registry *Registry, log *zap.Logger) *Reader {
	return &Reader{
		store:       store,
		subjects:    subjects,
		registry:    registry,
		log:         log,
		maxPageSize: DefaultMaxPageSize,
	}
}

// WithMaxPageSize caps PageRequest.PageSize. Values below 1 are ignored.
func (r *Reader) WithMaxPageSize(n int) *Reader {
	if n > 0 {
		r.maxPageSize = n
	}
	return r
}

type PageRequest struct {
	SubjectKind core.SubjectKind
	SubjectID   uuid.UUID
	Scope       core.Scope
	Page        int
	PageSize    int
}

// Page is one slice of a subject's history, newest first.
type Page struct {
	TotalCount int           `json:"total_count"`
	PageCount  int           `json:"page_count"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Items      []DisplayItem `json:"items"`
}

// Page counts the matching entries, fetches the requested window ordered by
// timestamp descending and decodes every entry through the registry. A
// subject absent from the scope fails with ErrSubjectNotFound before any
// counting. An entry without a decoder or with an unreadable payload fails
// the whole page.
func (r *Reader) Page(ctx context.Context, req PageRequest) (Page, error) {
	ctx, span := tracer.Start(ctx, "activity.Reader.Page", trace.WithAttributes(
		attribute.String("subject_kind", string(req.SubjectKind)),
		attribute.String("subject_id", req.SubjectID.String()),
		attribute.String("scope", req.Scope.String()),
		attribute.Int("page", req.Page),
		attribute.Int("page_size", req.PageSize),
	))
	defer span.End()

	start := time.Now()
	page, err := r.page(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Page{}, err
	}
	observability.PageDuration.WithLabelValues(string(req.SubjectKind)).Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("total_count", page.TotalCount), attribute.Int("items", len(page.Items)))
	return page, nil
}

func (r *Reader) page(ctx context.Context, req PageRequest) (Page, error) {
	if err := req.Scope.Validate(); err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrInvalidScope, err)
	}
	if req.Page < 1 {
		return Page{}, fmt.Errorf("%w: page must be >= 1, got %d", ErrInvalidPage, req.Page)
	}
	if req.PageSize < 1 || req.PageSize > r.maxPageSize {
		return Page{}, fmt.Errorf("%w: page size must be in [1, %d], got %d", ErrInvalidPage, r.maxPageSize, req.PageSize)
	}

	ok, err := r.subjects.SubjectExists(ctx, req.SubjectKind, req.SubjectID, req.Scope)
	if err != nil {
		return Page{}, fmt.Errorf("check subject: %w", err)
	}
	if !ok {
		return Page{}, fmt.Errorf("%w: %s %s in %s", ErrSubjectNotFound, req.SubjectKind, req.SubjectID, req.Scope)
	}

	q := Query{SubjectKind: req.SubjectKind, SubjectID: req.SubjectID, Scope: req.Scope}
	total, err := r.store.CountEntries(ctx, q)
	if err != nil {
		return Page{}, fmt.Errorf("count entries: %w", err)
	}

	out := Page{
		TotalCount: total,
		PageCount:  (total + req.PageSize - 1) / req.PageSize,
		Page:       req.Page,
		PageSize:   req.PageSize,
		Items:      []DisplayItem{},
	}
	// checked before the offset so a huge page number cannot overflow it
	if req.Page > out.PageCount {
		return out, nil
	}
	offset := (req.Page - 1) * req.PageSize

	entries, err := r.store.ListEntries(ctx, q, offset, req.PageSize)
	if err != nil {
		return Page{}, fmt.Errorf("list entries: %w", err)
	}
	out.Items = make([]DisplayItem, 0, len(entries))
	for _, e := range entries {
		item, err := r.display(e)
		if err != nil {
			return Page{}, err
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func (r *Reader) display(e Entry) (DisplayItem, error) {
	key := e.Key()
	log := r.log.With(
		zap.String("entry_id", e.ID.String()),
		zap.String("subject_kind", string(e.SubjectKind)),
		zap.String("subject_id", e.SubjectID.String()),
		zap.String("event_kind", string(key.Kind)),
		zap.Uint32("revision", uint32(key.Revision)),
	)

	d, ok := r.registry.Lookup(key.Kind, key.Revision)
	if !ok {
		observability.UnregisteredDecoderTotal.WithLabelValues(string(key.Kind), revisionLabel(key.Revision)).Inc()
		log.Error("no decoder registered for stored entry")
		return DisplayItem{}, &UnregisteredDecoderError{Key: key, EntryID: e.ID}
	}
	item, err := d.Display(e.Payload, e.OccurredAt)
	if err != nil {
		observability.MalformedPayloadTotal.WithLabelValues(string(key.Kind), revisionLabel(key.Revision)).Inc()
		log.Error("stored payload failed to decode", zap.Error(err))
		var mp *MalformedPayloadError
		if errors.As(err, &mp) {
			mp.EntryID = e.ID
			return DisplayItem{}, mp
		}
		return DisplayItem{}, err
	}
	return item, nil
}
