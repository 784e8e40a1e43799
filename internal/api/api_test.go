package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lzjever/mbos-activity/internal/activity"
	"github.com/lzjever/mbos-activity/internal/activity/events"
	"github.com/lzjever/mbos-activity/internal/api/middleware"
	"github.com/lzjever/mbos-activity/internal/core"
	"github.com/lzjever/mbos-activity/internal/store/sqlite"
)

const testSigningKey = "test-signing-key"

type harness struct {
	store   *sqlite.Store
	auth    *middleware.Authenticator
	handler http.Handler
}

func newHarness(t *testing.T, reg *activity.Registry) harness {
	t.Helper()
	ctx := context.Background()
	s, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(s.Close)
	require.NoError(t, s.Migrate(ctx))

	if reg == nil {
		reg, err = events.NewRegistry()
		require.NoError(t, err)
	}
	auth := middleware.NewAuthenticator(testSigningKey, "")
	a := NewAPI(s, reg, auth, zap.NewNop(), Config{DefaultPageSize: 10, MaxPageSize: 50})
	return harness{store: s, auth: auth, handler: a.Router()}
}

func (h harness) token(t *testing.T, c core.Caller) string {
	t.Helper()
	tok, err := h.auth.Issue(c, time.Hour)
	require.NoError(t, err)
	return tok
}

func (h harness) do(t *testing.T, method, path, token string, body interface{}, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)
	return w
}

func tenantCaller(tenantID uuid.UUID, name string) core.Caller {
	return core.Caller{UserID: uuid.New(), FullName: name, Roles: []string{"Admin"}, TenantID: tenantID}
}

func superAdmin() core.Caller {
	return core.Caller{UserID: uuid.New(), FullName: "Root Admin", Roles: []string{"SuperAdmin"}, SuperAdmin: true}
}

func userCreatedBody(c core.Caller, at time.Time, email string) map[string]interface{} {
	return map[string]interface{}{
		"event_kind": "UserCreated",
		"revision":   1,
		"payload": events.UserCreated{
			Header:           activity.NewHeader(c, at),
			CreatedUserEmail: email,
		},
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthHandler(t *testing.T) {
	api := &API{}
	r := chi.NewRouter()
	r.Get("/healthz", api.HealthHandler)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "OK", w.Body.String())
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, core.NewAppError(core.ErrBadRequest, "test error"))

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	require.Equal(t, "ACT_BAD_REQUEST", resp.Code)
	require.Equal(t, "test error", resp.Message)
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, map[string]string{"key": "value"})

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "value", resp["key"])
}

func TestRecordThenList(t *testing.T) {
	h := newHarness(t, nil)
	caller := tenantCaller(uuid.New(), "Jane Doe")
	tok := h.token(t, caller)
	userID := uuid.New()
	path := "/v1/users/" + userID.String() + "/activities"
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	w := h.do(t, http.MethodPost, path, tok, userCreatedBody(caller, at, "new@example.com"), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var rec recordActivityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	require.NotEmpty(t, rec.EntryID)
	require.False(t, rec.Replayed)

	w = h.do(t, http.MethodGet, path, tok, nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var page activity.Page
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Equal(t, 1, page.TotalCount)
	require.Equal(t, 1, page.PageCount)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 10, page.PageSize)
	require.Len(t, page.Items, 1)
	require.Equal(t, "User created", page.Items[0].Message)
	require.Equal(t, "Jane Doe", page.Items[0].ActorFullName)
	require.True(t, page.Items[0].Timestamp.Equal(at))
}

func TestListPagination(t *testing.T) {
	h := newHarness(t, nil)
	caller := tenantCaller(uuid.New(), "Jane Doe")
	tok := h.token(t, caller)
	path := "/v1/users/" + uuid.NewString() + "/activities"
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		w := h.do(t, http.MethodPost, path, tok, userCreatedBody(caller, base.Add(time.Duration(i)*time.Minute), "u@example.com"), nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := h.do(t, http.MethodGet, path+"?page=2&page_size=3", tok, nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var page activity.Page
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Equal(t, 7, page.TotalCount)
	require.Equal(t, 3, page.PageCount)
	require.Len(t, page.Items, 3)
	require.True(t, page.Items[0].Timestamp.Equal(base.Add(3*time.Minute)))

	for _, q := range []string{"?page=9&page_size=3", "?page=9223372036854775807&page_size=3"} {
		w = h.do(t, http.MethodGet, path+q, tok, nil, nil)
		require.Equal(t, http.StatusOK, w.Code, q)
		page = activity.Page{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		require.Equal(t, 7, page.TotalCount, q)
		require.Empty(t, page.Items, q)
	}
}

func TestPluralRoutes(t *testing.T) {
	h := newHarness(t, nil)
	caller := tenantCaller(uuid.New(), "Jane Doe")
	tok := h.token(t, caller)
	entityID := uuid.NewString()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	body := map[string]interface{}{
		"event_kind": "EntityUpdated",
		"revision":   1,
		"payload": events.EntityUpdated{
			Header: activity.NewHeader(caller, at),
			Change: events.Change{PreviousValues: `{"name":"Old"}`, CurrentValues: `{"name":"New"}`},
		},
	}
	w := h.do(t, http.MethodPost, "/v1/entities/"+entityID+"/activities", tok, body, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	for _, kind := range []string{"entities", "entity"} {
		w = h.do(t, http.MethodGet, "/v1/"+kind+"/"+entityID+"/activities", tok, nil, nil)
		require.Equal(t, http.StatusOK, w.Code, kind)
		var page activity.Page
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		require.Equal(t, 1, page.TotalCount, kind)
		require.Equal(t, "Entity details updated", page.Items[0].Message)
	}
}

func TestListInvalidPage(t *testing.T) {
	h := newHarness(t, nil)
	tok := h.token(t, tenantCaller(uuid.New(), "Jane Doe"))
	path := "/v1/users/" + uuid.NewString() + "/activities"

	for _, q := range []string{"?page=0", "?page=abc", "?page_size=0", "?page_size=51"} {
		w := h.do(t, http.MethodGet, path+q, tok, nil, nil)
		require.Equal(t, http.StatusBadRequest, w.Code, q)
		require.Equal(t, "ACT_BAD_REQUEST", decodeError(t, w).Code, q)
	}
}

func TestListUnknownSubject(t *testing.T) {
	h := newHarness(t, nil)
	tok := h.token(t, tenantCaller(uuid.New(), "Jane Doe"))

	w := h.do(t, http.MethodGet, "/v1/users/"+uuid.NewString()+"/activities", tok, nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "ACT_NOT_FOUND", decodeError(t, w).Code)

	w = h.do(t, http.MethodGet, "/v1/widgets/"+uuid.NewString()+"/activities", tok, nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(t, http.MethodGet, "/v1/users/not-a-uuid/activities", tok, nil, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthentication(t *testing.T) {
	h := newHarness(t, nil)
	path := "/v1/users/" + uuid.NewString() + "/activities"

	w := h.do(t, http.MethodGet, path, "", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "ACT_UNAUTHORIZED", decodeError(t, w).Code)

	w = h.do(t, http.MethodGet, path, "garbage", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	expired, err := h.auth.Issue(tenantCaller(uuid.New(), "Jane Doe"), -time.Minute)
	require.NoError(t, err)
	w = h.do(t, http.MethodGet, path, expired, nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "token expired", decodeError(t, w).Message)

	other := middleware.NewAuthenticator("another-key", "")
	forged, err := other.Issue(tenantCaller(uuid.New(), "Jane Doe"), time.Hour)
	require.NoError(t, err)
	w = h.do(t, http.MethodGet, path, forged, nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token, but neither tenant-bound nor super admin.
	nobody := h.token(t, core.Caller{UserID: uuid.New(), FullName: "Nobody"})
	w = h.do(t, http.MethodGet, path, nobody, nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestScopeEnforcement(t *testing.T) {
	h := newHarness(t, nil)
	tenantTok := h.token(t, tenantCaller(uuid.New(), "Jane Doe"))
	adminTok := h.token(t, superAdmin())

	w := h.do(t, http.MethodGet, "/v1/tenants/"+uuid.NewString()+"/activities", tenantTok, nil, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "ACT_FORBIDDEN", decodeError(t, w).Code)

	w = h.do(t, http.MethodGet, "/v1/contacts/"+uuid.NewString()+"/activities", adminTok, nil, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = h.do(t, http.MethodGet, "/v1/roles/"+uuid.NewString()+"/activities?scope=system", tenantTok, nil, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = h.do(t, http.MethodGet, "/v1/roles/"+uuid.NewString()+"/activities?scope=elsewhere", tenantTok, nil, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTenantIsolation(t *testing.T) {
	h := newHarness(t, nil)
	callerA := tenantCaller(uuid.New(), "Alice")
	callerB := tenantCaller(uuid.New(), "Bob")
	admin := superAdmin()
	programID := uuid.New()
	path := "/v1/programs/" + programID.String() + "/activities"
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	post := func(c core.Caller) {
		body := map[string]interface{}{
			"event_kind": "ProgramCreated",
			"revision":   1,
			"payload":    events.ProgramCreated{Header: activity.NewHeader(c, at)},
		}
		w := h.do(t, http.MethodPost, path, h.token(t, c), body, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	post(callerA)
	post(admin)

	w := h.do(t, http.MethodGet, path, h.token(t, callerA), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page activity.Page
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Equal(t, 1, page.TotalCount)
	require.Equal(t, "Alice", page.Items[0].ActorFullName)

	w = h.do(t, http.MethodGet, path, h.token(t, admin), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Equal(t, 1, page.TotalCount)
	require.Equal(t, "Root Admin", page.Items[0].ActorFullName)

	w = h.do(t, http.MethodGet, path, h.token(t, callerB), nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordIdempotency(t *testing.T) {
	h := newHarness(t, nil)
	caller := tenantCaller(uuid.New(), "Jane Doe")
	tok := h.token(t, caller)
	path := "/v1/users/" + uuid.NewString() + "/activities"
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	key := map[string]string{IdempotencyKeyHeader: "req-1"}

	w := h.do(t, http.MethodPost, path, tok, userCreatedBody(caller, at, "a@example.com"), key)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var first recordActivityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	w = h.do(t, http.MethodPost, path, tok, userCreatedBody(caller, at, "a@example.com"), key)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var replay recordActivityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &replay))
	require.Equal(t, first.EntryID, replay.EntryID)
	require.True(t, replay.Replayed)

	w = h.do(t, http.MethodPost, path, tok, userCreatedBody(caller, at, "b@example.com"), key)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "ACT_CONFLICT", decodeError(t, w).Code)

	w = h.do(t, http.MethodGet, path, tok, nil, nil)
	var page activity.Page
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Equal(t, 1, page.TotalCount)

	// another tenant reusing the key is unaffected
	other := tenantCaller(uuid.New(), "John Roe")
	otherPath := "/v1/users/" + uuid.NewString() + "/activities"
	w = h.do(t, http.MethodPost, otherPath, h.token(t, other), userCreatedBody(other, at, "c@example.com"), key)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var cross recordActivityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cross))
	require.False(t, cross.Replayed)
	require.NotEqual(t, first.EntryID, cross.EntryID)
}

func TestRecordRejectsBadInput(t *testing.T) {
	h := newHarness(t, nil)
	caller := tenantCaller(uuid.New(), "Jane Doe")
	tok := h.token(t, caller)
	userID := uuid.NewString()
	path := "/v1/users/" + userID + "/activities"
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := map[string]interface{}{
		"missing kind": map[string]interface{}{"revision": 1, "payload": map[string]string{}},
		"unknown kind": map[string]interface{}{
			"event_kind": "UserTeleported", "revision": 1,
			"payload": events.UserDeactivated{Header: activity.NewHeader(caller, at)},
		},
		"unknown revision": map[string]interface{}{
			"event_kind": "UserCreated", "revision": 9,
			"payload": events.UserCreated{Header: activity.NewHeader(caller, at), CreatedUserEmail: "a@example.com"},
		},
		"invalid email": userCreatedBody(caller, at, "not-an-email"),
		"unknown field": map[string]interface{}{
			"event_kind": "UserDeactivated", "revision": 1,
			"payload": map[string]interface{}{
				"actor_id": caller.UserID, "actor_full_name": "Jane Doe", "occurred_at": at, "extra": true,
			},
		},
		"wrong subject kind": map[string]interface{}{
			"event_kind": "ProgramCreated", "revision": 1,
			"payload": events.ProgramCreated{Header: activity.NewHeader(caller, at)},
		},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := h.do(t, http.MethodPost, path, tok, body, nil)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			require.Equal(t, "ACT_BAD_REQUEST", decodeError(t, w).Code)
		})
	}

	// Rejected writes leave neither an entry nor a subject behind.
	w := h.do(t, http.MethodGet, path, tok, nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDecoderDrift(t *testing.T) {
	full, err := events.NewRegistry()
	require.NoError(t, err)
	var kept []activity.Decoder
	for _, d := range full.Decoders() {
		if d.Kind != "UserCreated" {
			kept = append(kept, d)
		}
	}
	partial := activity.MustNewRegistry(kept...)

	h := newHarness(t, full)
	caller := tenantCaller(uuid.New(), "Jane Doe")
	path := "/v1/users/" + uuid.NewString() + "/activities"
	w := h.do(t, http.MethodPost, path, h.token(t, caller), userCreatedBody(caller, time.Now(), "a@example.com"), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = h.do(t, http.MethodGet, "/readyz", "", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	stale := NewAPI(h.store, partial, h.auth, zap.NewNop(), Config{}).Router()

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	stale.ServeHTTP(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var ready map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ready))
	require.Equal(t, "registry drift", ready["status"])
	require.Equal(t, []interface{}{"UserCreated@1"}, ready["missing"])

	req = httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+h.token(t, caller))
	rec = httptest.NewRecorder()
	stale.ServeHTTP(rec, req)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "ACT_INTERNAL", decodeError(t, rec).Code)
}
