package settings

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hoursboard/timereport/internal/eventtype"
)

// Store persists the raw settings blob.
type Store interface {
	Get(ctx context.Context) ([]byte, error)
	Put(ctx context.Context, raw []byte) error
}

// Service owns loading, validating and migrating the widget settings.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a new settings service
func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Load reads and decodes the persisted settings. A missing or corrupt blob
// yields empty settings, never an error from decoding itself.
func (s *Service) Load(ctx context.Context) (*Settings, error) {
	raw, err := s.store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return Decode(raw), nil
}

// Update validates and persists new settings. Invalid settings are not
// persisted; the validation summary is returned either way so the caller
// can surface every violation.
func (s *Service) Update(ctx context.Context, settings *Settings) (ValidationSummary, error) {
	summary := settings.Validate()
	if !summary.IsValid() {
		s.logger.Warn("Rejecting invalid settings",
			zap.Strings("event_type_errors", summary.EventTypes.Errors),
			zap.Strings("approval_errors", summary.Approval.Errors))
		return summary, nil
	}

	raw, err := settings.Encode()
	if err != nil {
		return summary, fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := s.store.Put(ctx, raw); err != nil {
		return summary, fmt.Errorf("failed to persist settings: %w", err)
	}

	s.logger.Info("Settings updated")
	return summary, nil
}

// EnsureMigrated upgrades legacy or missing mappings from the board's
// current status labels and persists the result when anything changed.
func (s *Service) EnsureMigrated(ctx context.Context, statusOptions, approvalOptions []eventtype.StatusOption) (*Settings, error) {
	settings, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	if !settings.Migrate(statusOptions, approvalOptions) {
		return settings, nil
	}

	raw, err := settings.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode migrated settings: %w", err)
	}
	if err := s.store.Put(ctx, raw); err != nil {
		return nil, fmt.Errorf("failed to persist migrated settings: %w", err)
	}

	s.logger.Info("Migrated legacy settings mappings")
	return settings, nil
}
