package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hoursboard/timereport/internal/approval"
	"github.com/hoursboard/timereport/internal/board"
	"github.com/hoursboard/timereport/internal/dashboard"
	"github.com/hoursboard/timereport/internal/eventtype"
	"github.com/hoursboard/timereport/internal/report"
	"github.com/hoursboard/timereport/internal/schedule"
	"github.com/hoursboard/timereport/internal/settings"
)

type memSettingsStore struct {
	blob []byte
}

func (s *memSettingsStore) Get(ctx context.Context) ([]byte, error) { return s.blob, nil }
func (s *memSettingsStore) Put(ctx context.Context, raw []byte) error {
	s.blob = raw
	return nil
}

type memReportStore struct {
	reports []report.Report
}

func (s *memReportStore) Upsert(ctx context.Context, r report.Report) error {
	for i, existing := range s.reports {
		if existing.ItemID == r.ItemID {
			s.reports[i] = r
			return nil
		}
	}
	s.reports = append(s.reports, r)
	return nil
}

func (s *memReportStore) Delete(ctx context.Context, itemID string) error {
	for i, existing := range s.reports {
		if existing.ItemID == itemID {
			s.reports = append(s.reports[:i], s.reports[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *memReportStore) List(ctx context.Context, from, to time.Time) ([]report.Report, error) {
	var out []report.Report
	for _, r := range s.reports {
		if !r.Date.Before(from) && r.Date.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memReportStore) ReplaceAll(ctx context.Context, reports []report.Report) error {
	s.reports = reports
	return nil
}

type stubAPI struct {
	nextID string
	items  []board.Item
}

func (a *stubAPI) CreateItem(ctx context.Context, boardID, name string, columnValues map[string]any) (string, error) {
	return a.nextID, nil
}

func (a *stubAPI) UpdateItemColumns(ctx context.Context, boardID, itemID string, columnValues map[string]any) error {
	return nil
}

func (a *stubAPI) DeleteItem(ctx context.Context, itemID string) error { return nil }

func (a *stubAPI) QueryItems(ctx context.Context, boardID string) ([]board.Item, error) {
	return a.items, nil
}

func validSettings(t *testing.T) *settings.Settings {
	t.Helper()

	events := eventtype.NewMapping()
	events.Set("3", eventtype.CategoryBillable)
	events.Set("101", eventtype.CategoryNonBillable)
	events.Set("5", eventtype.CategoryTemporary)
	events.Set("0", eventtype.CategoryAllDay)

	approvals := approval.NewMapping()
	approvals.Set("0", approval.StatusPending)
	approvals.Set("1", approval.StatusApproved)
	approvals.Set("2", approval.StatusRejected)

	return &settings.Settings{
		EventTypeMapping: events,
		ApprovalMapping:  approvals,
	}
}

func newTestServer(t *testing.T, settingsStore *memSettingsStore, reportStore *memReportStore, api *stubAPI) *Server {
	t.Helper()
	logger := zap.NewNop()

	cols := report.ColumnIDs{
		EventType: "status",
		Approval:  "approval_status",
		Date:      "date",
		Duration:  "numbers",
		Notes:     "text",
	}

	handlers := NewHandlers(
		settings.NewService(settingsStore, logger),
		report.NewService(api, reportStore, "board-1", cols, logger),
		dashboard.NewExporter(logger),
		time.UTC,
		logger,
	)
	return NewServer(ServerConfig{Host: "127.0.0.1", Port: 0}, handlers, logger)
}

func doRequest(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &memSettingsStore{}, &memReportStore{}, &stubAPI{})

	rec := doRequest(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestUpdateSettingsRejectsInvalid(t *testing.T) {
	store := &memSettingsStore{}
	srv := newTestServer(t, store, &memReportStore{}, &stubAPI{})

	// Two billable indexes violate the single-billable rule.
	body := map[string]any{
		"eventTypeMapping": map[string]string{
			"3": "billable",
			"4": "billable",
		},
	}
	rec := doRequest(t, srv, http.MethodPut, "/api/v1/settings", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, store.blob, "invalid settings must not be persisted")
}

func TestUpdateAndGetSettings(t *testing.T) {
	store := &memSettingsStore{}
	srv := newTestServer(t, store, &memReportStore{}, &stubAPI{})

	rec := doRequest(t, srv, http.MethodPut, "/api/v1/settings", validSettings(t))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, store.blob)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool              `json:"success"`
		Data    settings.Settings `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data.EventTypeMapping)
	assert.True(t, resp.Data.EventTypeMapping.IsBillable("3"))
}

func TestSaveReportWithoutMapping(t *testing.T) {
	srv := newTestServer(t, &memSettingsStore{}, &memReportStore{}, &stubAPI{nextID: "it1"})

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/reports", report.Report{Title: "Design"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSaveAndListReports(t *testing.T) {
	store := &memSettingsStore{}
	reports := &memReportStore{}
	srv := newTestServer(t, store, reports, &stubAPI{nextID: "it1"})

	rec := doRequest(t, srv, http.MethodPut, "/api/v1/settings", validSettings(t))
	require.Equal(t, http.StatusOK, rec.Code)

	body := report.Report{
		Title:      "Design review",
		ProjectID:  "p1",
		Date:       time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		EventIndex: "3",
		StartTime:  "09:00",
	}
	rec = doRequest(t, srv, http.MethodPost, "/api/v1/reports", body)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/reports?from=2026-03-01&to=2026-03-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []report.Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "it1", resp.Data[0].ItemID)
}

func TestListReportsBadDate(t *testing.T) {
	srv := newTestServer(t, &memSettingsStore{}, &memReportStore{}, &stubAPI{})

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/reports?from=10-03-2026", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReconcileTimeBlocks(t *testing.T) {
	srv := newTestServer(t, &memSettingsStore{}, &memReportStore{}, &stubAPI{})

	body := reconcileRequest{
		Blocks: []schedule.Block{
			{ID: "a", StartTime: "09:00", EndTime: "10:00", Hours: "1.00"},
			{ID: "b", StartTime: "10:00", EndTime: "11:00", Hours: "1.00"},
		},
		BlockID: "a",
		Field:   schedule.FieldEndTime,
		Value:   "10:30",
	}
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/timeblocks/reconcile", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []schedule.Block `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "10:30", resp.Data[0].EndTime)
	assert.Equal(t, "10:30", resp.Data[1].StartTime)
	assert.Equal(t, "11:30", resp.Data[1].EndTime)
}

func TestReconcileUnknownField(t *testing.T) {
	srv := newTestServer(t, &memSettingsStore{}, &memReportStore{}, &stubAPI{})

	body := reconcileRequest{
		Blocks:  []schedule.Block{{ID: "a", StartTime: "09:00", EndTime: "10:00"}},
		BlockID: "a",
		Field:   "color",
		Value:   "red",
	}
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/timeblocks/reconcile", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardSummary(t *testing.T) {
	store := &memSettingsStore{}
	reports := &memReportStore{}
	srv := newTestServer(t, store, reports, &stubAPI{nextID: "it1"})

	rec := doRequest(t, srv, http.MethodPut, "/api/v1/settings", validSettings(t))
	require.Equal(t, http.StatusOK, rec.Code)

	reports.reports = []report.Report{
		{
			ItemID:        "it1",
			ProjectID:     "p1",
			Date:          time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
			EventIndex:    "3",
			DurationValue: 2.5,
		},
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/dashboard/summary?from=2026-03-01&to=2026-03-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data dashboard.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 2.5, resp.Data.TotalHours, 0.001)
	assert.InDelta(t, 2.5, resp.Data.BillableHours, 0.001)
}

func TestDashboardExportContentType(t *testing.T) {
	store := &memSettingsStore{}
	srv := newTestServer(t, store, &memReportStore{}, &stubAPI{})

	rec := doRequest(t, srv, http.MethodPut, "/api/v1/settings", validSettings(t))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/dashboard/export?from=2026-03-01&to=2026-03-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.NotZero(t, rec.Body.Len())
}
