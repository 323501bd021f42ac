package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jask/packagebuilder/internal/storage"
)

// MaintenanceService houses destructive actions surfaced through the CLI and TUI.
type MaintenanceService struct {
	DB    *sql.DB
	Store *storage.Storage
	Log   *slog.Logger
}

// Reset wipes every key this tool manages. The schema and foreign keys stay intact.
func (s *MaintenanceService) Reset(ctx context.Context) (int64, error) {
	return s.clear(ctx, "")
}

// ClearPackages removes every saved package but keeps preferences.
func (s *MaintenanceService) ClearPackages(ctx context.Context) (int64, error) {
	return s.clear(ctx, storage.PackageKeyPrefix)
}

func (s *MaintenanceService) clear(ctx context.Context, prefix string) (int64, error) {
	if s.Store == nil {
		return 0, fmt.Errorf("maintenance: store not configured")
	}
	n, err := s.Store.Clear(ctx, prefix)
	if err != nil {
		return 0, err
	}
	if s.DB != nil {
		_, _ = s.DB.ExecContext(ctx, "VACUUM")
	}
	if s.Log != nil {
		s.Log.Info("storage cleared", "prefix", prefix, "removed", n)
	}
	return n, nil
}
