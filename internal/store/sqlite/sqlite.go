// Package sqlite is the embedded activity backend, used for local runs and
// tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/lzjever/mbos-activity/internal/activity"
	"github.com/lzjever/mbos-activity/internal/core"
)

// idempotencyIndex is named in the message of a key collision; other unique
// violations such as a repeated entry_id name their column instead.
const idempotencyIndex = "activity_log_scope_idempotency_key_idx"

// Store is the SQLite activity backend. It keeps a single connection, which
// also makes ":memory:" databases usable.
type Store struct {
	db *sql.DB
}

var _ activity.Backend = (*Store)(nil)

// Open opens the database at dsn, e.g. "file:activity.db" or ":memory:".
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return &Store{db: db}, nil
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type ctxKeyTx struct{}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := ctx.Value(ctxKeyTx{}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

// InTx runs fn in a transaction carried by the ctx passed to fn. Nested calls
// join the outer transaction.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(ctxKeyTx{}).(*sql.Tx); ok {
		return fn(ctx)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(context.WithValue(ctx, ctxKeyTx{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() { s.db.Close() }

func (s *Store) InsertEntry(ctx context.Context, e activity.Entry) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO activity_log (
			entry_id, tenant_id, subject_kind, subject_id, occurred_at,
			event_kind, revision, payload, idempotency_key, request_hash
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''), NULLIF(?, ''))`,
		e.ID.String(),
		tenantColumn(e.Scope),
		string(e.SubjectKind),
		e.SubjectID.String(),
		e.OccurredAt.UTC().UnixMicro(),
		string(e.EventKind),
		int64(e.Revision),
		e.Payload,
		e.IdempotencyKey,
		e.RequestHash,
	)
	if err != nil {
		var sqlErr *msqlite.Error
		if errors.As(err, &sqlErr) && sqlErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE &&
			strings.Contains(sqlErr.Error(), idempotencyIndex) {
			return fmt.Errorf("%w: %s", activity.ErrIdempotencyConflict, e.IdempotencyKey)
		}
		return fmt.Errorf("insert activity_log: %w", err)
	}
	return nil
}

func tenantColumn(scope core.Scope) sql.NullString {
	if id, ok := scope.TenantID(); ok {
		return sql.NullString{String: id.String(), Valid: true}
	}
	return sql.NullString{}
}

func scopeKey(scope core.Scope) string {
	if id, ok := scope.TenantID(); ok {
		return id.String()
	}
	return ""
}

// scopeFilter returns the tenant predicate for the scope and its arguments.
func scopeFilter(scope core.Scope) (string, []any) {
	if id, ok := scope.TenantID(); ok {
		return "tenant_id = ?", []any{id.String()}
	}
	return "tenant_id IS NULL", nil
}

func (s *Store) CountEntries(ctx context.Context, q activity.Query) (int, error) {
	filter, extra := scopeFilter(q.Scope)
	args := append([]any{string(q.SubjectKind), q.SubjectID.String()}, extra...)

	var n int
	err := s.execer(ctx).QueryRowContext(ctx,
		"SELECT COUNT(*) FROM activity_log WHERE subject_kind = ? AND subject_id = ? AND "+filter,
		args...,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count activity_log: %w", err)
	}
	return n, nil
}

const entryColumns = `seq, entry_id, tenant_id, subject_kind, subject_id, occurred_at,
	event_kind, revision, payload, COALESCE(idempotency_key, ''), COALESCE(request_hash, '')`

func (s *Store) ListEntries(ctx context.Context, q activity.Query, offset, limit int) ([]activity.Entry, error) {
	filter, extra := scopeFilter(q.Scope)
	args := append([]any{string(q.SubjectKind), q.SubjectID.String()}, extra...)
	args = append(args, limit, offset)

	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM activity_log
		WHERE subject_kind = ? AND subject_id = ? AND `+filter+`
		ORDER BY occurred_at DESC, seq DESC
		LIMIT ? OFFSET ?`,
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

// FindByIdempotencyKey looks the key up within one scope.
func (s *Store) FindByIdempotencyKey(ctx context.Context, scope core.Scope, key string) (activity.Entry, bool, error) {
	filter, extra := scopeFilter(scope)
	row := s.execer(ctx).QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM activity_log WHERE idempotency_key = ? AND "+filter,
		append([]any{key}, extra...)...)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return activity.Entry{}, false, nil
	}
	if err != nil {
		return activity.Entry{}, false, err
	}
	return e, true, nil
}

func (s *Store) DistinctEventKinds(ctx context.Context) ([]activity.Key, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
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
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO activity_subjects (subject_kind, subject_id, scope_key)
		VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING`,
		string(kind), id.String(), scopeKey(scope),
	)
	if err != nil {
		return fmt.Errorf("register subject: %w", err)
	}
	return nil
}

func (s *Store) SubjectExists(ctx context.Context, kind core.SubjectKind, id uuid.UUID, scope core.Scope) (bool, error) {
	var ok bool
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM activity_subjects
			WHERE subject_kind = ? AND subject_id = ? AND scope_key = ?
		)`,
		string(kind), id.String(), scopeKey(scope),
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("subject exists: %w", err)
	}
	return ok, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (activity.Entry, error) {
	var (
		e           activity.Entry
		entryID     string
		tenantID    sql.NullString
		subjectKind string
		subjectID   string
		occurredAt  int64
		eventKind   string
		revision    int64
	)
	err := row.Scan(
		&e.Seq, &entryID, &tenantID, &subjectKind, &subjectID, &occurredAt,
		&eventKind, &revision, &e.Payload, &e.IdempotencyKey, &e.RequestHash,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return activity.Entry{}, err
		}
		return activity.Entry{}, fmt.Errorf("scan activity_log: %w", err)
	}

	if e.ID, err = uuid.Parse(entryID); err != nil {
		return activity.Entry{}, fmt.Errorf("parse entry_id: %w", err)
	}
	if e.SubjectID, err = uuid.Parse(subjectID); err != nil {
		return activity.Entry{}, fmt.Errorf("parse subject_id: %w", err)
	}
	e.Scope = core.SystemScope()
	if tenantID.Valid {
		tid, err := uuid.Parse(tenantID.String)
		if err != nil {
			return activity.Entry{}, fmt.Errorf("parse tenant_id: %w", err)
		}
		e.Scope = core.TenantScope(tid)
	}
	e.SubjectKind = core.SubjectKind(subjectKind)
	e.OccurredAt = time.UnixMicro(occurredAt).UTC()
	e.EventKind = activity.EventKind(eventKind)
	e.Revision = activity.Revision(revision)
	return e, nil
}
