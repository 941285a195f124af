package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fdg312/meal-planner/internal/storage/memory"
	"github.com/fdg312/meal-planner/internal/userctx"
)

type memBlob struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut bool
}

func newMemBlob() *memBlob {
	return &memBlob{objects: make(map[string][]byte)}
}

func (b *memBlob) PutObject(ctx context.Context, key string, data []byte, contentType string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failPut {
		return 0, errors.New("bucket unavailable")
	}
	b.objects[key] = append([]byte(nil), data...)
	return int64(len(data)), nil
}

func (b *memBlob) GetObject(ctx context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return data, nil
}

func (b *memBlob) DownloadURL(ctx context.Context, key string) (string, error) {
	return "https://cdn.example.test/" + key, nil
}

func (b *memBlob) DeleteObject(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	return nil
}

func setupHandlers(t *testing.T, store *memBlob) (*Handlers, *stubSource, *bytes.Buffer) {
	t.Helper()
	items, extras := sampleList()
	src := &stubSource{report: sampleWeek(), items: items, extras: extras}

	var buf bytes.Buffer
	var svc *Service
	if store == nil {
		svc = NewService(memory.NewReportsMemoryStorage(), NewGenerator(src, time.Monday), nil, 50, log.New(&buf, "", 0))
	} else {
		svc = NewService(memory.NewReportsMemoryStorage(), NewGenerator(src, time.Monday), store, 50, log.New(&buf, "", 0))
	}
	svc.now = func() time.Time { return time.Date(2023, 4, 12, 10, 0, 0, 0, time.UTC) }
	return NewHandlers(svc), src, &buf
}

func asUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(userctx.WithOwner(req.Context(), userID))
}

func createReport(t *testing.T, h *Handlers, userID, body string) ReportDTO {
	t.Helper()
	req := asUser(httptest.NewRequest(http.MethodPost, "/v1/reports", strings.NewReader(body)), userID)
	w := httptest.NewRecorder()
	h.HandleCreate(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var dto ReportDTO
	if err := json.NewDecoder(w.Body).Decode(&dto); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return dto
}

func TestCreateAndDownloadLocal(t *testing.T) {
	h, _, _ := setupHandlers(t, nil)

	dto := createReport(t, h, "u1", `{"kind": "nutrition", "format": "csv", "date": "2023-04-12"}`)
	if dto.Status != StatusReady || dto.WeekStart != "2023-04-10" || dto.WeekEnd != "2023-04-16" {
		t.Fatalf("unexpected report %+v", dto)
	}
	if !strings.HasSuffix(dto.DownloadURL, "/v1/reports/"+dto.ID.String()+"/download") {
		t.Errorf("unexpected download url %s", dto.DownloadURL)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/"+dto.ID.String()+"/download", nil)
	req.SetPathValue("id", dto.ID.String())
	w := httptest.NewRecorder()
	h.HandleDownload(w, asUser(req, "u1"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("unexpected content type %s", ct)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "nutrition_2023-04-10_2023-04-16.csv") {
		t.Errorf("unexpected disposition %s", w.Header().Get("Content-Disposition"))
	}
	if !strings.HasPrefix(w.Body.String(), "date,meals,calories") {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestReportsAreOwnerScoped(t *testing.T) {
	h, _, _ := setupHandlers(t, nil)
	dto := createReport(t, h, "u1", `{"kind": "shopping", "format": "pdf"}`)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/"+dto.ID.String()+"/download", nil)
	req.SetPathValue("id", dto.ID.String())
	w := httptest.NewRecorder()
	h.HandleDownload(w, asUser(req, "u2"))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for another owner, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.HandleList(w, asUser(httptest.NewRequest(http.MethodGet, "/v1/reports", nil), "u2"))
	var list ReportsResponse
	json.NewDecoder(w.Body).Decode(&list)
	if len(list.Reports) != 0 {
		t.Errorf("expected no reports for u2, got %d", len(list.Reports))
	}
}

func TestCreateValidation(t *testing.T) {
	h, _, _ := setupHandlers(t, nil)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"bad kind", `{"kind": "sleep", "format": "pdf"}`, http.StatusBadRequest},
		{"bad format", `{"kind": "shopping", "format": "xlsx"}`, http.StatusBadRequest},
		{"bad date", `{"kind": "shopping", "format": "csv", "date": "12.04.2023"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := asUser(httptest.NewRequest(http.MethodPost, "/v1/reports", strings.NewReader(tt.body)), "u1")
			w := httptest.NewRecorder()
			h.HandleCreate(w, req)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateWithObjectStore(t *testing.T) {
	store := newMemBlob()
	h, _, _ := setupHandlers(t, store)

	dto := createReport(t, h, "u1", `{"kind": "shopping", "format": "csv", "date": "2023-04-12"}`)
	wantKey := "reports/u1/2023-04-10_shopping_" + dto.ID.String() + ".csv"
	if _, ok := store.objects[wantKey]; !ok {
		t.Fatalf("expected object %s, have %v", wantKey, store.objects)
	}
	if dto.DownloadURL != "https://cdn.example.test/"+wantKey {
		t.Errorf("unexpected download url %s", dto.DownloadURL)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetPathValue("id", dto.ID.String())
	w := httptest.NewRecorder()
	h.HandleDownload(w, asUser(req, "u1"))
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Body.String(), "category,item") {
		t.Errorf("expected proxied CSV, got %d %q", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodDelete, "/", nil)
	req.SetPathValue("id", dto.ID.String())
	w = httptest.NewRecorder()
	h.HandleDelete(w, asUser(req, "u1"))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if len(store.objects) != 0 {
		t.Errorf("expected object to be deleted, have %v", store.objects)
	}
}

func TestUploadFailureRecordsFailedReport(t *testing.T) {
	store := newMemBlob()
	store.failPut = true
	h, _, logs := setupHandlers(t, store)

	dto := createReport(t, h, "u1", `{"kind": "nutrition", "format": "pdf"}`)
	if dto.Status != StatusFailed || dto.Error == nil || dto.DownloadURL != "" {
		t.Fatalf("expected failed report, got %+v", dto)
	}
	if !strings.Contains(logs.String(), "WARN reports: owner=u1 kind=nutrition format=pdf failed") {
		t.Errorf("expected warning, got %q", logs.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetPathValue("id", dto.ID.String())
	w := httptest.NewRecorder()
	h.HandleDownload(w, asUser(req, "u1"))
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 for failed report, got %d", w.Code)
	}
}

func TestDeleteMissingAndInvalidID(t *testing.T) {
	h, _, _ := setupHandlers(t, nil)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	req.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()
	h.HandleDelete(w, asUser(req, "u1"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/", nil)
	req.SetPathValue("id", "9b2f4c3e-6a58-4c1e-9d53-0f7e2a1b3c4d")
	w = httptest.NewRecorder()
	h.HandleDelete(w, asUser(req, "u1"))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestUnauthorized(t *testing.T) {
	h, _, _ := setupHandlers(t, nil)
	w := httptest.NewRecorder()
	h.HandleList(w, httptest.NewRequest(http.MethodGet, "/v1/reports", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}
