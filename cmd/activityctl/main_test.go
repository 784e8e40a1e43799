package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/lzjever/mbos-activity/internal/activity"
	"github.com/lzjever/mbos-activity/internal/activity/events"
	"github.com/lzjever/mbos-activity/internal/core"
	"github.com/lzjever/mbos-activity/internal/store/sqlite"
)

func TestCatalogRows(t *testing.T) {
	reg, err := events.NewRegistry()
	require.NoError(t, err)

	rows := catalogRows(reg)
	require.Len(t, rows, reg.Len())
	require.Contains(t, rows, CatalogRow{EventKind: "UserRolesAssigned", Revision: 2, SubjectKind: "user"})
	require.Contains(t, rows, CatalogRow{EventKind: "TenantEntered", Revision: 1, SubjectKind: "tenant"})
}

func TestPrintResult(t *testing.T) {
	rows := []CatalogRow{{EventKind: "UserCreated", Revision: 1, SubjectKind: "user"}}

	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, "yaml", rows))
	require.Contains(t, buf.String(), "event_kind: UserCreated")
	require.Contains(t, buf.String(), "subject_kind: user")

	buf.Reset()
	require.NoError(t, printResult(&buf, "table", rows))
	require.Contains(t, buf.String(), "EVENT KIND")
	require.Contains(t, buf.String(), "UserCreated")

	buf.Reset()
	require.NoError(t, printResult(&buf, "table", activity.Page{Page: 3, TotalCount: 4, PageCount: 1}))
	require.Equal(t, "No activity on page 3 (4 entries in 1 pages).\n", buf.String())

	require.Error(t, printResult(&buf, "xml", rows))
}

func TestDriftReport(t *testing.T) {
	ctx := context.Background()
	s, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Migrate(ctx))

	require.NoError(t, s.InsertEntry(ctx, activity.Entry{
		ID:          uuid.New(),
		Scope:       core.TenantScope(uuid.New()),
		SubjectKind: core.SubjectUser,
		SubjectID:   uuid.New(),
		OccurredAt:  time.Now().UTC().Truncate(time.Microsecond),
		EventKind:   "UserCreated",
		Revision:    1,
		Payload:     "{}",
	}))

	full, err := events.NewRegistry()
	require.NoError(t, err)
	report, err := driftReport(ctx, s, full)
	require.NoError(t, err)
	require.Equal(t, 1, report.Stored)
	require.Empty(t, report.Missing)

	var kept []activity.Decoder
	for _, d := range full.Decoders() {
		if d.Kind != "UserCreated" {
			kept = append(kept, d)
		}
	}
	report, err = driftReport(ctx, s, activity.MustNewRegistry(kept...))
	require.NoError(t, err)
	require.Equal(t, []string{"UserCreated@1"}, report.Missing)
}

func TestHistoryCommand(t *testing.T) {
	subjectID := uuid.NewString()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		json.NewEncoder(w).Encode(activity.Page{
			TotalCount: 6,
			PageCount:  2,
			Page:       2,
			PageSize:   5,
			Items:      []activity.DisplayItem{{Timestamp: at, ActorFullName: "Jane Doe", Message: "User created"}},
		})
	}))
	defer srv.Close()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"history", "users", subjectID,
		"--api-url", srv.URL, "--token", "secret-token", "--page", "2", "--page-size", "5", "-o", "table"})
	require.NoError(t, rootCmd.Execute())

	require.Equal(t, "/v1/users/"+subjectID+"/activities", got.URL.Path)
	require.Equal(t, "2", got.URL.Query().Get("page"))
	require.Equal(t, "5", got.URL.Query().Get("page_size"))
	require.Equal(t, "Bearer secret-token", got.Header.Get("Authorization"))

	require.Contains(t, out.String(), "Jane Doe")
	require.Contains(t, out.String(), "User created")
	require.Contains(t, out.String(), "2024-03-01T12:00:00Z")
	require.Contains(t, out.String(), "Page 2/2")
}

func TestClientErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":"ACT_NOT_FOUND","message":"subject not found"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "").Get("/v1/users/x/activities", nil)
	require.EqualError(t, err, "ACT_NOT_FOUND: subject not found")

	plain := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer plain.Close()

	err = NewClient(plain.URL, "").Get("/", nil)
	require.EqualError(t, err, "HTTP 502: bad gateway")
}

func TestReadPayload(t *testing.T) {
	raw, err := readPayload(strings.NewReader(`{"actor_full_name":"Jane"}`), "-")
	require.NoError(t, err)
	require.JSONEq(t, `{"actor_full_name":"Jane"}`, string(raw))

	_, err = readPayload(strings.NewReader(`{not json`), "-")
	require.Error(t, err)
}

func TestCallerFromFlags(t *testing.T) {
	t.Cleanup(func() {
		tokenUserID, tokenTenantID, tokenSuperAdmin = "", "", false
	})

	tokenUserID, tokenTenantID, tokenSuperAdmin = "", "", false
	_, err := callerFromFlags()
	require.Error(t, err)

	tenant := uuid.New()
	tokenTenantID = tenant.String()
	c, err := callerFromFlags()
	require.NoError(t, err)
	require.Equal(t, tenant, c.TenantID)
	require.NotEqual(t, uuid.Nil, c.UserID)

	tokenUserID = "nope"
	_, err = callerFromFlags()
	require.Error(t, err)
}
