package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lzjever/mbos-activity/internal/activity"
	"github.com/lzjever/mbos-activity/internal/api/middleware"
	"github.com/lzjever/mbos-activity/internal/core"
	"github.com/lzjever/mbos-activity/internal/observability"
	"github.com/lzjever/mbos-activity/internal/scope"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type recordActivityRequest struct {
	EventKind string          `json:"event_kind"`
	Revision  uint32          `json:"revision"`
	Payload   json.RawMessage `json:"payload"`
}

func (r recordActivityRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.EventKind, validation.Required),
		validation.Field(&r.Revision, validation.Required),
		validation.Field(&r.Payload, validation.Required),
	)
}

type recordActivityResponse struct {
	EntryID  string `json:"entry_id"`
	Replayed bool   `json:"replayed,omitempty"`
}

// ListActivities returns one page of a subject's history.
func (a *API) ListActivities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind, subjectID, appErr := subjectFromPath(r)
	if appErr != nil {
		WriteError(w, appErr)
		return
	}
	page, err := queryInt(r, "page", 1)
	if err != nil {
		WriteError(w, core.NewAppError(core.ErrBadRequest, err.Error()))
		return
	}
	pageSize, err := queryInt(r, "page_size", a.defaultPageSize)
	if err != nil {
		WriteError(w, core.NewAppError(core.ErrBadRequest, err.Error()))
		return
	}

	sc, appErr := a.resolveScope(r, kind)
	if appErr != nil {
		WriteError(w, appErr)
		return
	}
	log := a.requestLogger(r, kind, subjectID, sc)

	result, err := a.reader.Page(ctx, activity.PageRequest{
		SubjectKind: kind,
		SubjectID:   subjectID,
		Scope:       sc,
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		WriteError(w, toAppError(log, err, false))
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// RecordActivity decodes a serialized event through its registered decoder,
// registers the subject in the caller's scope and appends the entry, all in
// one transaction.
func (a *API) RecordActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind, subjectID, appErr := subjectFromPath(r)
	if appErr != nil {
		WriteError(w, appErr)
		return
	}

	var req recordActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, core.NewAppError(core.ErrBadRequest, err.Error()))
		return
	}

	sc, appErr := a.resolveScope(r, kind)
	if appErr != nil {
		WriteError(w, appErr)
		return
	}
	log := a.requestLogger(r, kind, subjectID, sc)

	raw := activity.RawAppend{
		Scope:       sc,
		SubjectKind: kind,
		SubjectID:   subjectID,
		EventKind:   activity.EventKind(req.EventKind),
		Revision:    activity.Revision(req.Revision),
		Payload:     req.Payload,
	}
	if key := r.Header.Get(IdempotencyKeyHeader); key != "" {
		raw.IdempotencyKey = key
		raw.RequestHash = core.Fingerprint(req.Payload,
			string(kind), subjectID.String(), sc.String(), req.EventKind, strconv.FormatUint(uint64(req.Revision), 10))
	}

	var result activity.AppendResult
	err := a.backend.InTx(ctx, func(ctx context.Context) error {
		if err := a.backend.RegisterSubject(ctx, kind, subjectID, sc); err != nil {
			return fmt.Errorf("register subject: %w", err)
		}
		var err error
		result, err = a.writer.AppendRaw(ctx, raw)
		return err
	})
	if err != nil {
		WriteError(w, toAppError(log, err, true))
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	log.Info("activity recorded",
		zap.String("entry_id", result.EntryID.String()),
		zap.String("event_kind", req.EventKind),
		zap.Uint32("revision", req.Revision),
		zap.Bool("replayed", result.Replayed),
	)
	WriteJSON(w, status, recordActivityResponse{
		EntryID:  result.EntryID.String(),
		Replayed: result.Replayed,
	})
}

func subjectFromPath(r *http.Request) (core.SubjectKind, uuid.UUID, *core.AppError) {
	kind, err := core.ParseSubjectKind(chi.URLParam(r, "subjectKind"))
	if err != nil {
		return "", uuid.Nil, core.NewAppError(core.ErrNotFound, err.Error())
	}
	id, err := uuid.Parse(chi.URLParam(r, "subjectID"))
	if err != nil || id == uuid.Nil {
		return "", uuid.Nil, core.NewAppError(core.ErrBadRequest, "subject id must be a uuid")
	}
	return kind, id, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}

// resolveScope maps the authenticated caller to the scope it acts in. The
// optional scope query parameter ("system" or a tenant id) pins the
// expected scope and must agree with the caller.
func (a *API) resolveScope(r *http.Request, kind core.SubjectKind) (core.Scope, *core.AppError) {
	caller, ok := core.CallerFrom(r.Context())
	if !ok {
		return core.Scope{}, core.NewAppError(core.ErrUnauthorized, "missing caller")
	}

	var requested *core.Scope
	if s := r.URL.Query().Get("scope"); s != "" {
		sc, err := parseScope(s)
		if err != nil {
			return core.Scope{}, core.NewAppError(core.ErrBadRequest, err.Error())
		}
		requested = &sc
	}

	sc, err := a.resolver.Resolve(caller, kind, requested)
	if err != nil {
		return core.Scope{}, toAppError(a.log, err, false)
	}
	return sc, nil
}

func parseScope(s string) (core.Scope, error) {
	if s == "system" {
		return core.SystemScope(), nil
	}
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return core.Scope{}, fmt.Errorf("scope must be \"system\" or a tenant id")
	}
	return core.TenantScope(id), nil
}

func (a *API) requestLogger(r *http.Request, kind core.SubjectKind, id uuid.UUID, sc core.Scope) *zap.Logger {
	return observability.SubjectLogger(a.log, kind, id, sc).
		With(zap.String("request_id", middleware.GetRequestID(r)))
}

// toAppError maps domain errors to the transport envelope. A missing decoder
// or unreadable payload is the client's fault on ingestion and server drift
// on reads.
func toAppError(log *zap.Logger, err error, ingest bool) *core.AppError {
	switch {
	case errors.Is(err, scope.ErrUnauthenticated):
		return core.NewAppError(core.ErrUnauthorized, err.Error())
	case errors.Is(err, scope.ErrCrossScope):
		return core.NewAppError(core.ErrForbidden, err.Error())
	case errors.Is(err, activity.ErrSubjectNotFound):
		return core.NewAppError(core.ErrNotFound, "subject not found")
	case errors.Is(err, activity.ErrInvalidPage),
		errors.Is(err, activity.ErrInvalidScope),
		errors.Is(err, activity.ErrSubjectKindMismatch):
		return core.NewAppError(core.ErrBadRequest, err.Error())
	case errors.Is(err, activity.ErrIdempotencyConflict):
		return core.NewAppError(core.ErrConflict, "idempotency key reused with a different request")
	case errors.Is(err, activity.ErrUnregisteredDecoder), errors.Is(err, activity.ErrMalformedPayload):
		if ingest {
			return core.NewAppError(core.ErrBadRequest, err.Error())
		}
		return core.NewAppError(core.ErrInternal, "activity history could not be decoded")
	default:
		log.Error("request failed", zap.Error(err))
		return core.NewAppError(core.ErrInternal, "internal server error")
	}
}
