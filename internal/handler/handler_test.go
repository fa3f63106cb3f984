package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"bookdirectstays/internal/middleware"
	"bookdirectstays/internal/model"
	"bookdirectstays/internal/tracker"
	"bookdirectstays/pkg/airtable"
	"bookdirectstays/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// fakeAirtable 内存版 Airtable 表
type fakeAirtable struct {
	mu       sync.Mutex
	records  map[string]map[string]any
	order    []string
	reads    int
	writes   int
	failWith error
	nextID   int
}

func newFakeAirtable() *fakeAirtable {
	return &fakeAirtable{records: map[string]map[string]any{}}
}

func (f *fakeAirtable) put(id string, fields map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[id] = fields
	f.order = append(f.order, id)
}

func (f *fakeAirtable) GetRecord(_ context.Context, id string) (*airtable.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.failWith != nil {
		return nil, f.failWith
	}
	fields, ok := f.records[id]
	if !ok {
		return nil, airtable.ErrNotFound
	}
	return &airtable.Record{ID: id, Fields: fields}, nil
}

func (f *fakeAirtable) UpdateFields(_ context.Context, id string, fields map[string]any) (*airtable.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	rec, ok := f.records[id]
	if !ok {
		return nil, airtable.ErrNotFound
	}
	for k, v := range fields {
		if n, ok := v.(int64); ok {
			v = float64(n)
		}
		rec[k] = v
	}
	return &airtable.Record{ID: id, Fields: rec}, nil
}

func (f *fakeAirtable) ListRecords(_ context.Context, _ airtable.ListOptions) ([]airtable.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]airtable.Record, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, airtable.Record{ID: id, Fields: f.records[id]})
	}
	return out, nil
}

func (f *fakeAirtable) CreateRecord(_ context.Context, fields map[string]any) (*airtable.Record, error) {
	f.mu.Lock()
	if f.failWith != nil {
		f.mu.Unlock()
		return nil, f.failWith
	}
	f.nextID++
	id := "recNew" + string(rune('0'+f.nextID))
	f.mu.Unlock()
	f.put(id, fields)
	return &airtable.Record{ID: id, Fields: fields}, nil
}

type fakeDispatcher struct {
	events []model.ClickEvent
	full   bool
}

func (d *fakeDispatcher) Dispatch(ev model.ClickEvent) bool {
	if d.full {
		return false
	}
	d.events = append(d.events, ev)
	return true
}

func init() {
	gin.SetMode(gin.TestMode)
}

func doJSON(r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func setupClickRouter(store *fakeAirtable, dispatcher *fakeDispatcher) *gin.Engine {
	tr := tracker.New(store, tracker.NewLocalLocker(), time.Second, zap.NewNop().Sugar())
	h := NewClickHandler(tr, dispatcher)

	router := gin.New()
	router.POST("/log-click", h.LogClick)
	router.POST("/track", h.Track)
	return router
}

func TestLogClick_IncrementsInstagramCounter(t *testing.T) {
	store := newFakeAirtable()
	store.put("rec123", map[string]any{"Clicks to Instagram": float64(4)})
	router := setupClickRouter(store, &fakeDispatcher{})

	w := doJSON(router, http.MethodPost, "/log-click", map[string]string{"hostId": "rec123", "type": "instagram"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp LogClickResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, LogClickResponse{Success: true, Type: model.ClickInstagram, NewCount: 5, RecordID: "rec123"}, resp)
	assert.Equal(t, int64(5), airtable.IntField(store.records["rec123"], "Clicks to Instagram"))
}

func TestLogClick_BadRequests(t *testing.T) {
	store := newFakeAirtable()
	router := setupClickRouter(store, &fakeDispatcher{})

	w := doJSON(router, http.MethodPost, "/log-click", map[string]string{"hostId": "rec123"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/log-click", map[string]string{"hostId": "rec123", "type": "bogus"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "bogus")

	assert.Zero(t, store.reads)
	assert.Zero(t, store.writes)
}

func TestLogClick_HostNotFound(t *testing.T) {
	store := newFakeAirtable()
	router := setupClickRouter(store, &fakeDispatcher{})

	w := doJSON(router, http.MethodPost, "/log-click", map[string]string{"hostId": "recMissing", "type": "website"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, store.writes)
}

func TestLogClick_UpstreamErrorHasDetails(t *testing.T) {
	store := newFakeAirtable()
	store.failWith = &airtable.StatusError{StatusCode: http.StatusForbidden, Body: "INVALID_PERMISSIONS"}
	router := setupClickRouter(store, &fakeDispatcher{})

	w := doJSON(router, http.MethodPost, "/log-click", map[string]string{"hostId": "rec1", "type": "website"}, nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	body := decode(t, w)
	assert.NotEmpty(t, body["error"])
	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(http.StatusForbidden), details["status"])
	assert.Equal(t, "INVALID_PERMISSIONS", details["message"])
}

func TestTrack_QueuesWithoutWaiting(t *testing.T) {
	d := &fakeDispatcher{}
	router := setupClickRouter(newFakeAirtable(), d)

	w := doJSON(router, http.MethodPost, "/track", map[string]string{"hostId": "rec1", "type": "tiktok"}, nil)
	assert.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, d.events, 1)
	assert.Equal(t, model.ClickEvent{HostID: "rec1", Type: model.ClickTikTok}, d.events[0])

	w = doJSON(router, http.MethodPost, "/track", map[string]string{"hostId": "rec1", "type": "nope"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/track", map[string]string{"hostId": "rec1", "type": "TikTok"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, d.events, 1)

	d.full = true
	w = doJSON(router, http.MethodPost, "/track", map[string]string{"hostId": "rec1", "type": "website"}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHosts(t *testing.T) {
	store := newFakeAirtable()
	store.put("rec1", map[string]any{
		"Name":              "Casa Azul",
		"Location":          "Lisbon",
		"Instagram":         "https://instagram.com/casaazul",
		"Clicks to Website": float64(3),
	})
	store.put("rec2", map[string]any{"Name": "Villa Verde"})

	h := NewHostHandler(store, "Published")
	router := gin.New()
	router.GET("/api/hosts", h.ListHosts)
	router.GET("/api/hosts/:id", h.GetHost)

	w := doJSON(router, http.MethodGet, "/api/hosts", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var hosts []Host
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hosts))
	require.Len(t, hosts, 2)
	assert.Equal(t, "Casa Azul", hosts[0].Name)
	assert.Equal(t, int64(3), hosts[0].Clicks[model.ClickWebsite])
	assert.Equal(t, int64(0), hosts[0].Clicks[model.ClickYouTube])
	assert.Equal(t, "https://instagram.com/casaazul", hosts[0].Socials["Instagram"])
	assert.Nil(t, hosts[1].Socials)

	w = doJSON(router, http.MethodGet, "/api/hosts/rec2", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/hosts/recX", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	store.failWith = &airtable.StatusError{StatusCode: http.StatusTooManyRequests, Body: "RATE_LIMIT"}
	w = doJSON(router, http.MethodGet, "/api/hosts", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMIT")
}

func setupSubmissionRouter(t *testing.T, publisher *fakeAirtable) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db, err := database.InitSQLite("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	h := NewSubmissionHandler(db, publisher)
	router := gin.New()
	router.POST("/api/submissions", h.CreateSubmission)

	admin := router.Group("/api/admin")
	admin.Use(middleware.AdminAuth(staticVerifier{}))
	admin.GET("/submissions", h.ListSubmissions)
	admin.POST("/submissions/:id/approve", h.ApproveSubmission)
	admin.POST("/submissions/:id/reject", h.RejectSubmission)
	return router, db
}

var adminHeaders = map[string]string{"Authorization": "Bearer admin-token"}

func validSubmission() CreateSubmissionRequest {
	return CreateSubmissionRequest{
		BusinessName: "Casa Azul",
		ContactName:  "Ana Silva",
		Email:        "ana@casaazul.com",
		Website:      "https://casaazul.com",
		Location:     "Lisbon",
		Instagram:    "https://instagram.com/casaazul",
	}
}

func TestSubmission_CreateAndApprove(t *testing.T) {
	publisher := newFakeAirtable()
	router, db := setupSubmissionRouter(t, publisher)

	w := doJSON(router, http.MethodPost, "/api/submissions", validSubmission(), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["id"].(float64)

	w = doJSON(router, http.MethodGet, "/api/admin/submissions?status=pending", nil, adminHeaders)
	require.Equal(t, http.StatusOK, w.Code)
	var subs []model.Submission
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &subs))
	require.Len(t, subs, 1)

	approvePath := "/api/admin/submissions/" + jsonNumber(id) + "/approve"
	w = doJSON(router, http.MethodPost, approvePath, nil, adminHeaders)
	require.Equal(t, http.StatusOK, w.Code)

	var stored model.Submission
	require.NoError(t, db.First(&stored, uint(id)).Error)
	assert.Equal(t, model.SubmissionApproved, stored.Status)
	assert.Equal(t, "recNew1", stored.RecordID)
	assert.Equal(t, "owner@example.com", stored.ReviewedBy)
	assert.Equal(t, "Casa Azul", publisher.records["recNew1"]["Name"])
	assert.Equal(t, "https://instagram.com/casaazul", publisher.records["recNew1"]["Instagram"])

	w = doJSON(router, http.MethodPost, approvePath, nil, adminHeaders)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Len(t, publisher.records, 1)
}

func TestSubmission_Reject(t *testing.T) {
	router, db := setupSubmissionRouter(t, newFakeAirtable())

	w := doJSON(router, http.MethodPost, "/api/submissions", validSubmission(), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["id"].(float64)

	w = doJSON(router, http.MethodPost, "/api/admin/submissions/"+jsonNumber(id)+"/reject", nil, adminHeaders)
	require.Equal(t, http.StatusOK, w.Code)

	var stored model.Submission
	require.NoError(t, db.First(&stored, uint(id)).Error)
	assert.Equal(t, model.SubmissionRejected, stored.Status)
	assert.Empty(t, stored.RecordID)
}

func TestSubmission_Validation(t *testing.T) {
	router, _ := setupSubmissionRouter(t, newFakeAirtable())

	bad := validSubmission()
	bad.Email = "not-an-email"
	w := doJSON(router, http.MethodPost, "/api/submissions", bad, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bad = validSubmission()
	bad.Website = ""
	w = doJSON(router, http.MethodPost, "/api/submissions", bad, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmission_AdminRoutesNeedToken(t *testing.T) {
	router, _ := setupSubmissionRouter(t, newFakeAirtable())

	w := doJSON(router, http.MethodGet, "/api/admin/submissions", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodGet, "/api/admin/submissions?status=weird", nil, adminHeaders)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/admin/submissions/999/approve", nil, adminHeaders)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodPost, "/api/admin/submissions/abc/approve", nil, adminHeaders)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmission_PublishFailureKeepsPending(t *testing.T) {
	publisher := newFakeAirtable()
	router, db := setupSubmissionRouter(t, publisher)

	w := doJSON(router, http.MethodPost, "/api/submissions", validSubmission(), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["id"].(float64)

	publisher.failWith = &airtable.StatusError{StatusCode: http.StatusUnprocessableEntity, Body: "UNKNOWN_FIELD_NAME"}
	w = doJSON(router, http.MethodPost, "/api/admin/submissions/"+jsonNumber(id)+"/approve", nil, adminHeaders)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "UNKNOWN_FIELD_NAME")

	var stored model.Submission
	require.NoError(t, db.First(&stored, uint(id)).Error)
	assert.Equal(t, model.SubmissionPending, stored.Status)
}

func TestHealthCheck(t *testing.T) {
	db, err := database.InitSQLite("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)

	router := gin.New()
	router.GET("/health", NewHealthHandler(db).HealthCheck)

	w := doJSON(router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])

	sqlDB, _ := db.DB()
	require.NoError(t, sqlDB.Close())
	w = doJSON(router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
