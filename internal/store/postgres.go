package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lzjever/mbos-activity/internal/activity"
	"github.com/lzjever/mbos-activity/internal/core"
)

const (
	uniqueViolation  = "23505"
	idempotencyIndex = "activity_log_scope_idempotency_key_idx"
)

// Store is the Postgres activity backend.
type Store struct {
	pool *pgxpool.Pool
}

var _ activity.Backend = (*Store)(nil)

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Open connects to dsn and returns a ready Store.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := NewPool(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return New(pool), nil
}

type dbExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type ctxKeyTx struct{}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := ctx.Value(ctxKeyTx{}).(pgx.Tx); ok {
		return tx
	}
	return s.pool
}

// InTx runs fn in a transaction carried by the ctx passed to fn. Nested calls
// join the outer transaction.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(ctxKeyTx{}).(pgx.Tx); ok {
		return fn(ctx)
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, ctxKeyTx{}, tx))
	})
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() { s.pool.Close() }

// InsertEntry appends e. A key already used in e's scope yields
// ErrIdempotencyConflict; ON CONFLICT keeps the surrounding transaction
// usable so the caller can read the earlier entry back.
func (s *Store) InsertEntry(ctx context.Context, e activity.Entry) error {
	tag, err := s.execer(ctx).Exec(ctx, `
		INSERT INTO activity_log (
			entry_id, tenant_id, subject_kind, subject_id, occurred_at,
			event_kind, revision, payload, idempotency_key, request_hash
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''))
		ON CONFLICT ((COALESCE(tenant_id, '00000000-0000-0000-0000-000000000000'::uuid)), idempotency_key)
			WHERE idempotency_key IS NOT NULL
			DO NOTHING`,
		e.ID,
		e.Scope.NullableTenantID(),
		string(e.SubjectKind),
		e.SubjectID,
		e.OccurredAt,
		string(e.EventKind),
		int64(e.Revision),
		e.Payload,
		e.IdempotencyKey,
		e.RequestHash,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation &&
			pgErr.ConstraintName == idempotencyIndex {
			return fmt.Errorf("%w: %s", activity.ErrIdempotencyConflict, e.IdempotencyKey)
		}
		return fmt.Errorf("insert activity_log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", activity.ErrIdempotencyConflict, e.IdempotencyKey)
	}
	return nil
}

// scopeFilter returns the tenant predicate for the scope, using placeholder
// $n when the scope is a tenant.
func scopeFilter(scope core.Scope, n int) (string, []any) {
	if id, ok := scope.TenantID(); ok {
		return fmt.Sprintf("tenant_id = $%d", n), []any{id}
	}
	return "tenant_id IS NULL", nil
}

func (s *Store) CountEntries(ctx context.Context, q activity.Query) (int, error) {
	filter, extra := scopeFilter(q.Scope, 3)
	args := append([]any{string(q.SubjectKind), q.SubjectID}, extra...)

	var n int64
	err := s.execer(ctx).QueryRow(ctx,
		"SELECT count(*) FROM activity_log WHERE subject_kind = $1 AND subject_id = $2 AND "+filter,
		args...,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count activity_log: %w", err)
	}
	return int(n), nil
}

const entryColumns = `seq, entry_id, tenant_id, subject_kind, subject_id, occurred_at,
	event_kind, revision, payload, COALESCE(idempotency_key, ''), COALESCE(request_hash, '')`

func (s *Store) ListEntries(ctx context.Context, q activity.Query, offset, limit int) ([]activity.Entry, error) {
	filter, extra := scopeFilter(q.Scope, 5)
	args := append([]any{string(q.SubjectKind), q.SubjectID, limit, offset}, extra...)

	rows, err := s.execer(ctx).Query(ctx, `
		SELECT `+entryColumns+`
		FROM activity_log
		WHERE subject_kind = $1 AND subject_id = $2 AND `+filter+`
		ORDER BY occurred_at DESC, seq DESC
		LIMIT $3 OFFSET $4`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list activity_log: %w", err)
	}
	defer rows.Close()

	var out []activity.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list activity_log: %w", err)
	}
	return out, nil
}

// FindByIdempotencyKey looks the key up within one scope. Keys used in other
// scopes are invisible.
func (s *Store) FindByIdempotencyKey(ctx context.Context, scope core.Scope, key string) (activity.Entry, bool, error) {
	filter, extra := scopeFilter(scope, 2)
	row := s.execer(ctx).QueryRow(ctx,
		"SELECT "+entryColumns+" FROM activity_log WHERE idempotency_key = $1 AND "+filter,
		append([]any{key}, extra...)...)
	e, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return activity.Entry{}, false, nil
	}
	if err != nil {
		return activity.Entry{}, false, err
	}
	return e, true, nil
}

func (s *Store) DistinctEventKinds(ctx context.Context) ([]activity.Key, error) {
	rows, err := s.execer(ctx).Query(ctx, `
		SELECT DISTINCT event_kind, revision
		FROM activity_log
		ORDER BY event_kind, revision`)
	if err != nil {
		return nil, fmt.Errorf("distinct event kinds: %w", err)
	}
	defer rows.Close()

	var keys []activity.Key
	for rows.Next() {
		var kind string
		var rev int64
		if err := rows.Scan(&kind, &rev); err != nil {
			return nil, fmt.Errorf("scan event kind: %w", err)
		}
		keys = append(keys, activity.Key{Kind: activity.EventKind(kind), Revision: activity.Revision(rev)})
	}
	return keys, rows.Err()
}

func (s *Store) RegisterSubject(ctx context.Context, kind core.SubjectKind, id uuid.UUID, scope core.Scope) error {
	_, err := s.execer(ctx).Exec(ctx, `
		INSERT INTO activity_subjects (subject_kind, subject_id, tenant_id)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`,
		string(kind), id, scope.NullableTenantID(),
	)
	if err != nil {
		return fmt.Errorf("register subject: %w", err)
	}
	return nil
}

func (s *Store) SubjectExists(ctx context.Context, kind core.SubjectKind, id uuid.UUID, scope core.Scope) (bool, error) {
	filter, extra := scopeFilter(scope, 3)
	args := append([]any{string(kind), id}, extra...)

	var ok bool
	err := s.execer(ctx).QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM activity_subjects WHERE subject_kind = $1 AND subject_id = $2 AND "+filter+")",
		args...,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("subject exists: %w", err)
	}
	return ok, nil
}

func scanEntry(row pgx.Row) (activity.Entry, error) {
	var (
		e           activity.Entry
		tenantID    *uuid.UUID
		subjectKind string
		eventKind   string
		revision    int64
	)
	err := row.Scan(
		&e.Seq, &e.ID, &tenantID, &subjectKind, &e.SubjectID, &e.OccurredAt,
		&eventKind, &revision, &e.Payload, &e.IdempotencyKey, &e.RequestHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return activity.Entry{}, err
		}
		return activity.Entry{}, fmt.Errorf("scan activity_log: %w", err)
	}
	e.Scope = core.ScopeFromTenantID(tenantID)
	e.SubjectKind = core.SubjectKind(subjectKind)
	e.EventKind = activity.EventKind(eventKind)
	e.Revision = activity.Revision(revision)
	e.OccurredAt = e.OccurredAt.UTC()
	return e, nil
}
