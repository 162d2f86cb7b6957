package dashboard

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/hoursboard/timereport/internal/eventtype"
	"github.com/hoursboard/timereport/internal/report"
)

// Exporter writes a summary and its underlying reports as an XLSX workbook.
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates a new exporter
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{logger: logger}
}

const (
	summarySheet = "Summary"
	reportsSheet = "Reports"
)

// Export writes the workbook to w.
func (e *Exporter) Export(w io.Writer, summary Summary, reports []report.Report, meta eventtype.LabelMeta) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", summarySheet)
	if err := e.fillSummary(f, summary); err != nil {
		return err
	}

	if _, err := f.NewSheet(reportsSheet); err != nil {
		return fmt.Errorf("failed to create reports sheet: %w", err)
	}
	if err := e.fillReports(f, reports, meta); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("Exported dashboard workbook",
		zap.Int("reports", len(reports)),
		zap.String("from", summary.From.Format("2006-01-02")),
		zap.String("to", summary.To.Format("2006-01-02")))
	return nil
}

func (e *Exporter) fillSummary(f *excelize.File, summary Summary) error {
	rows := [][]any{
		{"From", summary.From.Format("2006-01-02")},
		{"To", summary.To.Format("2006-01-02")},
		{"Total hours", summary.TotalHours},
		{"Billable hours", summary.BillableHours},
		{"Absence days", summary.TotalDays},
		{},
		{"Project", "Hours", "Days"},
	}
	for _, pt := range summary.ByProject {
		rows = append(rows, []any{pt.ProjectID, pt.Hours, pt.Days})
	}
	rows = append(rows, []any{}, []any{"Category", "Hours", "Days"})
	for _, ct := range summary.ByCategory {
		rows = append(rows, []any{string(ct.Category), ct.Hours, ct.Days})
	}

	return e.writeRows(f, summarySheet, rows)
}

func (e *Exporter) fillReports(f *excelize.File, reports []report.Report, meta eventtype.LabelMeta) error {
	rows := [][]any{
		{"Date", "Title", "Project", "Type", "Start", "End", "Duration", "Notes"},
	}
	for _, rep := range reports {
		label := meta.Text(rep.EventIndex)
		if label == "" {
			label = rep.EventIndex
		}
		rows = append(rows, []any{
			rep.Date.Format("2006-01-02"),
			rep.Title,
			rep.ProjectID,
			label,
			rep.StartTime,
			rep.EndTime,
			rep.DurationValue,
			rep.Notes,
		})
	}

	return e.writeRows(f, reportsSheet, rows)
}

func (e *Exporter) writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}
