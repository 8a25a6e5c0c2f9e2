package storage

import (
	"context"

	"github.com/goserg/opponentanalyzer/internal/domain"
)

type PreferenceStorage interface {
	GetPreferences(ctx context.Context) (domain.Preferences, error)
	SavePreferences(ctx context.Context, prefs domain.Preferences) error
}

type ReportStorage interface {
	AddReport(ctx context.Context, report domain.Report) error
	// ListReports returns the latest entries for subject, newest first.
	ListReports(ctx context.Context, subject domain.Subject, limit int) ([]domain.HistoryEntry, error)
}
