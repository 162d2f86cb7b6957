package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hoursboard/timereport/internal/report"
	"github.com/hoursboard/timereport/pkg/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	migrator := database.NewMigrator(db, zap.NewNop())
	require.NoError(t, migrator.Run("../../migrations"))
	return db
}

func sampleReport(itemID string, date time.Time) report.Report {
	return report.Report{
		ItemID:        itemID,
		Title:         "Design review",
		ProjectID:     "p1",
		Date:          date,
		EventIndex:    "3",
		StartTime:     "09:00",
		EndTime:       "11:30",
		DurationValue: 2.5,
		Notes:         "sketches",
		ApprovalIndex: "0",
	}
}

func TestReportRepositoryUpsertAndList(t *testing.T) {
	repo := NewReportRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	march := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	april := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Upsert(ctx, sampleReport("it1", march)))
	require.NoError(t, repo.Upsert(ctx, sampleReport("it2", april)))

	got, err := repo.List(ctx,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "it1", got[0].ItemID)
	assert.Equal(t, "09:00", got[0].StartTime)
	assert.InDelta(t, 2.5, got[0].DurationValue, 0.001)
	assert.True(t, got[0].Date.Equal(march))
}

func TestReportRepositoryUpsertReplaces(t *testing.T) {
	repo := NewReportRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, sampleReport("it1", date)))

	updated := sampleReport("it1", date)
	updated.DurationValue = 4
	updated.EndTime = "13:00"
	require.NoError(t, repo.Upsert(ctx, updated))

	got, err := repo.List(ctx, date.AddDate(0, 0, -1), date.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "13:00", got[0].EndTime)
	assert.InDelta(t, 4, got[0].DurationValue, 0.001)
}

func TestReportRepositoryDelete(t *testing.T) {
	repo := NewReportRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, sampleReport("it1", date)))
	require.NoError(t, repo.Delete(ctx, "it1"))

	got, err := repo.List(ctx, date.AddDate(0, 0, -1), date.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReportRepositoryReplaceAll(t *testing.T) {
	repo := NewReportRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, sampleReport("stale", date)))

	fresh := []report.Report{
		sampleReport("it1", date),
		sampleReport("it2", date.AddDate(0, 0, 1)),
	}
	require.NoError(t, repo.ReplaceAll(ctx, fresh))

	got, err := repo.List(ctx, date.AddDate(0, 0, -1), date.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "it1", got[0].ItemID)
	assert.Equal(t, "it2", got[1].ItemID)
}

func TestSettingsRepositoryRoundTrip(t *testing.T) {
	repo := NewSettingsRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "missing settings read as absent, not as an error")

	blob := []byte(`{"eventTypeMapping":{"3":"billable"}}`)
	require.NoError(t, repo.Put(ctx, blob))

	got, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, blob, got)

	updated := []byte(`{"eventTypeMapping":{"4":"billable"}}`)
	require.NoError(t, repo.Put(ctx, updated))

	got, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}
