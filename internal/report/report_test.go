package report

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hoursboard/timereport/internal/board"
	"github.com/hoursboard/timereport/internal/eventtype"
)

var testCols = ColumnIDs{
	EventType: "status",
	Approval:  "approval_status",
	Date:      "date",
	Duration:  "numbers",
	Notes:     "text",
}

func testMapping() *eventtype.Mapping {
	m := eventtype.NewMapping()
	m.Set("3", eventtype.CategoryBillable)
	m.Set("101", eventtype.CategoryNonBillable)
	m.Set("5", eventtype.CategoryTemporary)
	m.Set("0", eventtype.CategoryAllDay)
	return m
}

func TestColumnValues_Timed(t *testing.T) {
	r := Report{
		Title:         "Design review",
		ProjectID:     "p1",
		Date:          time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		EventIndex:    "3",
		StartTime:     "09:30",
		EndTime:       "11:00",
		DurationValue: 1.5,
		ApprovalIndex: "4",
		Notes:         "weekly sync",
	}

	values := r.ColumnValues(testCols, testMapping())

	assert.Equal(t, board.StatusValue{Index: 3}, values["status"])
	assert.Equal(t, board.DateValue{Date: "2024-03-10", Time: "09:30:00"}, values["date"])
	assert.Equal(t, "1.50", values["numbers"])
	assert.Equal(t, board.StatusValue{Index: 4}, values["approval_status"])
	assert.Equal(t, "weekly sync", values["text"])
}

func TestColumnValues_AllDay(t *testing.T) {
	r := Report{
		Title:         "Vacation",
		Date:          time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		EventIndex:    "0",
		DurationValue: 3,
	}

	values := r.ColumnValues(testCols, testMapping())

	// No time component at all for all-day events.
	assert.Equal(t, board.DateValue{Date: "2024-03-10"}, values["date"])
	assert.Equal(t, "3", values["numbers"])
}

func TestColumnValues_AllDayZeroDays(t *testing.T) {
	r := Report{Date: time.Now(), EventIndex: "0", DurationValue: 0}
	values := r.ColumnValues(testCols, testMapping())
	assert.Equal(t, "1", values["numbers"])
}

func item(colValues map[string]string) board.Item {
	cv := make(map[string]json.RawMessage, len(colValues))
	for k, v := range colValues {
		cv[k] = json.RawMessage(v)
	}
	return board.Item{ID: "it1", Name: "Design review", ColumnValues: cv}
}

func TestFromItem_Timed(t *testing.T) {
	it := item(map[string]string{
		"status":          `{"index":3,"label":"שעתי"}`,
		"date":            `{"date":"2024-03-10","time":"09:30:00"}`,
		"numbers":         `"1.50"`,
		"approval_status": `{"index":4,"label":"ממתין"}`,
		"text":            `"weekly sync"`,
	})

	r, ok := FromItem(it, testCols, testMapping(), time.UTC)
	require.True(t, ok)
	assert.Equal(t, "it1", r.ItemID)
	assert.Equal(t, "3", r.EventIndex)
	assert.Equal(t, "09:30", r.StartTime)
	assert.Equal(t, "11:00", r.EndTime)
	assert.Equal(t, 1.5, r.DurationValue)
	assert.Equal(t, "4", r.ApprovalIndex)
	assert.Equal(t, "weekly sync", r.Notes)
}

func TestFromItem_AllDay(t *testing.T) {
	it := item(map[string]string{
		"status":  `{"index":0,"label":"חופשה"}`,
		"date":    `{"date":"2024-03-10"}`,
		"numbers": `"0"`,
	})

	r, ok := FromItem(it, testCols, testMapping(), time.UTC)
	require.True(t, ok)
	assert.Equal(t, "0", r.EventIndex)
	// Legacy zero duration decodes as one day.
	assert.Equal(t, float64(1), r.DurationValue)
	assert.Empty(t, r.StartTime)

	span := r.Span()
	assert.Equal(t, 1, span.Days)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), span.End)
}

func TestFromItem_MissingRequiredColumns(t *testing.T) {
	_, ok := FromItem(item(map[string]string{"date": `{"date":"2024-03-10"}`}), testCols, testMapping(), time.UTC)
	assert.False(t, ok)

	_, ok = FromItem(item(map[string]string{"status": `{"index":3}`}), testCols, testMapping(), time.UTC)
	assert.False(t, ok)
}

func TestRoundTrip_EncodeDecode(t *testing.T) {
	m := testMapping()
	original := Report{
		Title:         "Design review",
		Date:          time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		EventIndex:    "3",
		StartTime:     "09:30",
		DurationValue: 1.5,
	}

	values := original.ColumnValues(testCols, m)
	cv := make(map[string]json.RawMessage)
	for k, v := range values {
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		cv[k] = raw
	}

	back, ok := FromItem(board.Item{ID: "it2", Name: original.Title, ColumnValues: cv}, testCols, m, time.UTC)
	require.True(t, ok)
	assert.Equal(t, original.EventIndex, back.EventIndex)
	assert.Equal(t, original.StartTime, back.StartTime)
	assert.Equal(t, original.DurationValue, back.DurationValue)
	assert.Equal(t, original.Date, back.Date.Truncate(24*time.Hour))
}

type fakeAPI struct {
	created map[string]map[string]any
	updated map[string]map[string]any
	deleted []string
	items   []board.Item
	nextID  string
}

func (f *fakeAPI) CreateItem(ctx context.Context, boardID, name string, cv map[string]any) (string, error) {
	if f.created == nil {
		f.created = make(map[string]map[string]any)
	}
	f.created[f.nextID] = cv
	return f.nextID, nil
}

func (f *fakeAPI) UpdateItemColumns(ctx context.Context, boardID, itemID string, cv map[string]any) error {
	if f.updated == nil {
		f.updated = make(map[string]map[string]any)
	}
	f.updated[itemID] = cv
	return nil
}

func (f *fakeAPI) DeleteItem(ctx context.Context, itemID string) error {
	f.deleted = append(f.deleted, itemID)
	return nil
}

func (f *fakeAPI) QueryItems(ctx context.Context, boardID string) ([]board.Item, error) {
	return f.items, nil
}

type fakeStore struct {
	reports map[string]Report
}

func (f *fakeStore) Upsert(ctx context.Context, r Report) error {
	if f.reports == nil {
		f.reports = make(map[string]Report)
	}
	f.reports[r.ItemID] = r
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, itemID string) error {
	delete(f.reports, itemID)
	return nil
}

func (f *fakeStore) List(ctx context.Context, from, to time.Time) ([]Report, error) {
	var out []Report
	for _, r := range f.reports {
		if !r.Date.Before(from) && r.Date.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) ReplaceAll(ctx context.Context, reports []Report) error {
	f.reports = make(map[string]Report)
	for _, r := range reports {
		f.reports[r.ItemID] = r
	}
	return nil
}

func TestService_SaveCreatesAndUpdates(t *testing.T) {
	api := &fakeAPI{nextID: "it9"}
	store := &fakeStore{}
	svc := NewService(api, store, "b1", testCols, zap.NewNop())
	m := testMapping()

	r := Report{Title: "work", Date: time.Now(), EventIndex: "3", StartTime: "09:00", DurationValue: 2}

	saved, err := svc.Save(context.Background(), r, m)
	require.NoError(t, err)
	assert.Equal(t, "it9", saved.ItemID)
	assert.Contains(t, api.created, "it9")
	assert.Contains(t, store.reports, "it9")

	saved.DurationValue = 3
	_, err = svc.Save(context.Background(), saved, m)
	require.NoError(t, err)
	assert.Contains(t, api.updated, "it9")
	assert.Equal(t, float64(3), store.reports["it9"].DurationValue)
}

func TestService_Delete(t *testing.T) {
	api := &fakeAPI{}
	store := &fakeStore{reports: map[string]Report{"it1": {ItemID: "it1"}}}
	svc := NewService(api, store, "b1", testCols, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "it1"))
	assert.Equal(t, []string{"it1"}, api.deleted)
	assert.NotContains(t, store.reports, "it1")
}

func TestService_SyncSkipsUndecodableItems(t *testing.T) {
	api := &fakeAPI{items: []board.Item{
		item(map[string]string{
			"status":  `{"index":3}`,
			"date":    `{"date":"2024-03-10","time":"09:00:00"}`,
			"numbers": `"2.00"`,
		}),
		{ID: "broken", ColumnValues: map[string]json.RawMessage{}},
	}}
	store := &fakeStore{}
	svc := NewService(api, store, "b1", testCols, zap.NewNop())

	count, err := svc.Sync(context.Background(), testMapping(), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, store.reports, 1)
}
