package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hoursboard/timereport/internal/dashboard"
	"github.com/hoursboard/timereport/internal/eventtype"
	"github.com/hoursboard/timereport/internal/report"
	"github.com/hoursboard/timereport/internal/schedule"
	"github.com/hoursboard/timereport/internal/settings"
)

// Handlers holds HTTP request handlers and their dependencies
type Handlers struct {
	settings *settings.Service
	reports  *report.Service
	exporter *dashboard.Exporter
	location *time.Location
	logger   *zap.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(settingsSvc *settings.Service, reportSvc *report.Service, exporter *dashboard.Exporter, loc *time.Location, logger *zap.Logger) *Handlers {
	return &Handlers{
		settings: settingsSvc,
		reports:  reportSvc,
		exporter: exporter,
		location: loc,
		logger:   logger,
	}
}

// Response is the standard API response wrapper
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, err error) {
	c.JSON(status, Response{Success: false, Error: err.Error()})
}

// Health handles health check requests
func (h *Handlers) Health(c *gin.Context) {
	respondOK(c, gin.H{"status": "healthy", "time": time.Now().In(h.location).Format(time.RFC3339)})
}

// GetSettings returns the stored widget settings.
func (h *Handlers) GetSettings(c *gin.Context) {
	loaded, err := h.settings.Load(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondOK(c, loaded)
}

// UpdateSettings validates and persists new widget settings. Invalid
// settings are rejected and the per-mapping validation errors returned.
func (h *Handlers) UpdateSettings(c *gin.Context) {
	var body settings.Settings
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("invalid settings payload: %w", err))
		return
	}

	summary, err := h.settings.Update(c.Request.Context(), &body)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if !summary.IsValid() {
		c.JSON(http.StatusUnprocessableEntity, Response{Success: false, Data: summary, Error: "settings validation failed"})
		return
	}
	respondOK(c, summary)
}

// eventTypeGroup is one category with the status options mapped to it.
type eventTypeGroup struct {
	Category eventtype.Category        `json:"category"`
	Labels   []eventtype.CategoryLabel `json:"labels"`
}

// ListEventTypes returns the configured status options grouped by category.
func (h *Handlers) ListEventTypes(c *gin.Context) {
	loaded, err := h.settings.Load(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if loaded.EventTypeMapping == nil {
		respondOK(c, []eventTypeGroup{})
		return
	}

	groups := make([]eventTypeGroup, 0, len(eventtype.Categories))
	for _, category := range eventtype.Categories {
		groups = append(groups, eventTypeGroup{
			Category: category,
			Labels:   eventtype.LabelsByCategory(category, loaded.EventTypeMapping, loaded.EventTypeLabelMeta),
		})
	}
	respondOK(c, groups)
}

// dateRange parses from/to query parameters, defaulting to the current month.
func (h *Handlers) dateRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now().In(h.location)
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, h.location)
	to := from.AddDate(0, 1, 0)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, h.location)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from date %q: %w", raw, err)
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, h.location)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to date %q: %w", raw, err)
		}
		to = parsed.AddDate(0, 0, 1)
	}
	return from, to, nil
}

// ListReports returns cached reports within a date range.
func (h *Handlers) ListReports(c *gin.Context) {
	from, to, err := h.dateRange(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	reports, err := h.reports.List(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondOK(c, reports)
}

// SaveReport creates or updates a report on the board.
func (h *Handlers) SaveReport(c *gin.Context) {
	var body report.Report
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("invalid report payload: %w", err))
		return
	}

	loaded, err := h.settings.Load(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if loaded.EventTypeMapping == nil {
		respondError(c, http.StatusConflict, fmt.Errorf("event type mapping is not configured"))
		return
	}

	saved, err := h.reports.Save(c.Request.Context(), body, loaded.EventTypeMapping)
	if err != nil {
		respondError(c, http.StatusBadGateway, err)
		return
	}
	respondOK(c, saved)
}

// DeleteReport removes a report from the board and the local cache.
func (h *Handlers) DeleteReport(c *gin.Context) {
	itemID := c.Param("itemId")
	if itemID == "" {
		respondError(c, http.StatusBadRequest, fmt.Errorf("item id is required"))
		return
	}
	if err := h.reports.Delete(c.Request.Context(), itemID); err != nil {
		respondError(c, http.StatusBadGateway, err)
		return
	}
	respondOK(c, gin.H{"itemId": itemID})
}

// SyncReports refreshes the local cache from the board.
func (h *Handlers) SyncReports(c *gin.Context) {
	loaded, err := h.settings.Load(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if loaded.EventTypeMapping == nil {
		respondError(c, http.StatusConflict, fmt.Errorf("event type mapping is not configured"))
		return
	}

	count, err := h.reports.Sync(c.Request.Context(), loaded.EventTypeMapping, h.location)
	if err != nil {
		respondError(c, http.StatusBadGateway, err)
		return
	}
	respondOK(c, gin.H{"synced": count})
}

// reconcileRequest is the payload for a single time block edit.
type reconcileRequest struct {
	Blocks  []schedule.Block `json:"blocks"`
	BlockID string           `json:"blockId"`
	Field   schedule.Field   `json:"field"`
	Value   string           `json:"value"`
}

// ReconcileTimeBlocks applies one field edit to a day's time blocks and
// returns the reconciled set.
func (h *Handlers) ReconcileTimeBlocks(c *gin.Context) {
	var body reconcileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("invalid reconcile payload: %w", err))
		return
	}
	switch body.Field {
	case schedule.FieldStartTime, schedule.FieldEndTime, schedule.FieldHours:
	default:
		respondError(c, http.StatusBadRequest, fmt.Errorf("unknown field %q", body.Field))
		return
	}

	respondOK(c, schedule.UpdateField(body.Blocks, body.BlockID, body.Field, body.Value))
}

// DashboardSummary returns aggregated totals for a date range.
func (h *Handlers) DashboardSummary(c *gin.Context) {
	from, to, err := h.dateRange(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	loaded, err := h.settings.Load(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if loaded.EventTypeMapping == nil {
		respondError(c, http.StatusConflict, fmt.Errorf("event type mapping is not configured"))
		return
	}

	reports, err := h.reports.List(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondOK(c, dashboard.Summarize(reports, loaded.EventTypeMapping, from, to))
}

// DashboardExport streams the date range's reports as an XLSX workbook.
func (h *Handlers) DashboardExport(c *gin.Context) {
	from, to, err := h.dateRange(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	loaded, err := h.settings.Load(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if loaded.EventTypeMapping == nil {
		respondError(c, http.StatusConflict, fmt.Errorf("event type mapping is not configured"))
		return
	}

	reports, err := h.reports.List(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	summary := dashboard.Summarize(reports, loaded.EventTypeMapping, from, to)

	filename := fmt.Sprintf("time-report-%s.xlsx", from.Format("2006-01"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := h.exporter.Export(c.Writer, summary, reports, loaded.EventTypeLabelMeta); err != nil {
		h.logger.Error("Failed to export dashboard", zap.Error(err))
	}
}
