package report

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hoursboard/timereport/internal/board"
	"github.com/hoursboard/timereport/internal/eventtype"
)

// BoardAPI is the slice of the board client the service needs.
type BoardAPI interface {
	CreateItem(ctx context.Context, boardID, name string, columnValues map[string]any) (string, error)
	UpdateItemColumns(ctx context.Context, boardID, itemID string, columnValues map[string]any) error
	DeleteItem(ctx context.Context, itemID string) error
	QueryItems(ctx context.Context, boardID string) ([]board.Item, error)
}

// Store is the local report cache backing the dashboard.
type Store interface {
	Upsert(ctx context.Context, r Report) error
	Delete(ctx context.Context, itemID string) error
	List(ctx context.Context, from, to time.Time) ([]Report, error)
	ReplaceAll(ctx context.Context, reports []Report) error
}

// Service saves reports to the board and mirrors them into the local cache.
type Service struct {
	api     BoardAPI
	store   Store
	boardID string
	cols    ColumnIDs
	logger  *zap.Logger
}

// NewService creates a new report service
func NewService(api BoardAPI, store Store, boardID string, cols ColumnIDs, logger *zap.Logger) *Service {
	return &Service{
		api:     api,
		store:   store,
		boardID: boardID,
		cols:    cols,
		logger:  logger,
	}
}

// Save persists a report as a board item, creating or updating as needed,
// then mirrors it into the cache. The returned report carries the item ID.
func (s *Service) Save(ctx context.Context, r Report, mapping *eventtype.Mapping) (Report, error) {
	values := r.ColumnValues(s.cols, mapping)

	if r.ItemID == "" {
		itemID, err := s.api.CreateItem(ctx, s.boardID, r.Title, values)
		if err != nil {
			return r, fmt.Errorf("failed to save report: %w", err)
		}
		r.ItemID = itemID
	} else {
		if err := s.api.UpdateItemColumns(ctx, s.boardID, r.ItemID, values); err != nil {
			return r, fmt.Errorf("failed to save report: %w", err)
		}
	}

	if err := s.store.Upsert(ctx, r); err != nil {
		// The board write succeeded; a stale cache is repaired by Sync.
		s.logger.Warn("Failed to cache report", zap.String("item_id", r.ItemID), zap.Error(err))
	}

	s.logger.Info("Saved report",
		zap.String("item_id", r.ItemID),
		zap.String("event_index", r.EventIndex))
	return r, nil
}

// Delete removes a report from the board and the cache.
func (s *Service) Delete(ctx context.Context, itemID string) error {
	if err := s.api.DeleteItem(ctx, itemID); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if err := s.store.Delete(ctx, itemID); err != nil {
		s.logger.Warn("Failed to evict cached report", zap.String("item_id", itemID), zap.Error(err))
	}
	return nil
}

// List returns cached reports in [from, to).
func (s *Service) List(ctx context.Context, from, to time.Time) ([]Report, error) {
	return s.store.List(ctx, from, to)
}

// Sync rebuilds the cache from the board. Items that fail to decode are
// skipped and counted, not fatal.
func (s *Service) Sync(ctx context.Context, mapping *eventtype.Mapping, loc *time.Location) (int, error) {
	items, err := s.api.QueryItems(ctx, s.boardID)
	if err != nil {
		return 0, fmt.Errorf("failed to sync reports: %w", err)
	}

	reports := make([]Report, 0, len(items))
	skipped := 0
	for _, item := range items {
		r, ok := FromItem(item, s.cols, mapping, loc)
		if !ok {
			skipped++
			continue
		}
		reports = append(reports, r)
	}

	if err := s.store.ReplaceAll(ctx, reports); err != nil {
		return 0, fmt.Errorf("failed to rebuild report cache: %w", err)
	}

	s.logger.Info("Synced reports from board",
		zap.Int("count", len(reports)),
		zap.Int("skipped", skipped))
	return len(reports), nil
}
