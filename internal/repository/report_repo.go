package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hoursboard/timereport/internal/report"
	"github.com/hoursboard/timereport/pkg/database"
)

// ReportRepository is the local mirror of board reports that backs the
// dashboard. The board stays the source of truth; this cache is rebuilt by
// sync and patched on every save.
type ReportRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *database.DB, logger *zap.Logger) *ReportRepository {
	return &ReportRepository{db: db, logger: logger}
}

// Upsert inserts or replaces a cached report by its board item ID.
func (r *ReportRepository) Upsert(ctx context.Context, rep report.Report) error {
	query := `
		INSERT INTO reports (
			item_id, title, project_id, task_id, stage_id, report_date,
			event_index, start_time, end_time, duration_value, notes,
			approval_index, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(item_id) DO UPDATE SET
			title = excluded.title,
			project_id = excluded.project_id,
			task_id = excluded.task_id,
			stage_id = excluded.stage_id,
			report_date = excluded.report_date,
			event_index = excluded.event_index,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			duration_value = excluded.duration_value,
			notes = excluded.notes,
			approval_index = excluded.approval_index,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.ExecContext(ctx, query,
		rep.ItemID,
		rep.Title,
		rep.ProjectID,
		rep.TaskID,
		rep.StageID,
		rep.Date.Format(time.RFC3339),
		rep.EventIndex,
		rep.StartTime,
		rep.EndTime,
		rep.DurationValue,
		rep.Notes,
		rep.ApprovalIndex,
	)
	if err != nil {
		r.logger.Error("Failed to upsert report", zap.String("item_id", rep.ItemID), zap.Error(err))
		return fmt.Errorf("failed to upsert report: %w", err)
	}
	return nil
}

// Delete removes a cached report.
func (r *ReportRepository) Delete(ctx context.Context, itemID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM reports WHERE item_id = ?", itemID)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

// List returns cached reports with report_date in [from, to), ordered by
// date then start time.
func (r *ReportRepository) List(ctx context.Context, from, to time.Time) ([]report.Report, error) {
	query := `
		SELECT item_id, title, project_id, task_id, stage_id, report_date,
			event_index, start_time, end_time, duration_value, notes, approval_index
		FROM reports
		WHERE report_date >= ? AND report_date < ?
		ORDER BY report_date, start_time
	`

	rows, err := r.db.QueryContext(ctx, query, from.Format(time.RFC3339), to.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []report.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

// ReplaceAll atomically swaps the whole cache for the given reports.
func (r *ReportRepository) ReplaceAll(ctx context.Context, reports []report.Report) error {
	return r.db.WithTransaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM reports"); err != nil {
			return fmt.Errorf("failed to clear report cache: %w", err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO reports (
				item_id, title, project_id, task_id, stage_id, report_date,
				event_index, start_time, end_time, duration_value, notes,
				approval_index, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, rep := range reports {
			_, err := stmt.Exec(
				rep.ItemID,
				rep.Title,
				rep.ProjectID,
				rep.TaskID,
				rep.StageID,
				rep.Date.Format(time.RFC3339),
				rep.EventIndex,
				rep.StartTime,
				rep.EndTime,
				rep.DurationValue,
				rep.Notes,
				rep.ApprovalIndex,
			)
			if err != nil {
				return fmt.Errorf("failed to insert report %s: %w", rep.ItemID, err)
			}
		}
		return nil
	})
}

func scanReport(rows *sql.Rows) (report.Report, error) {
	var rep report.Report
	var rawDate string

	err := rows.Scan(
		&rep.ItemID,
		&rep.Title,
		&rep.ProjectID,
		&rep.TaskID,
		&rep.StageID,
		&rawDate,
		&rep.EventIndex,
		&rep.StartTime,
		&rep.EndTime,
		&rep.DurationValue,
		&rep.Notes,
		&rep.ApprovalIndex,
	)
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to scan report: %w", err)
	}

	rep.Date, err = time.Parse(time.RFC3339, rawDate)
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to parse report date %q: %w", rawDate, err)
	}
	return rep, nil
}
