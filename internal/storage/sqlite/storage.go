package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/goserg/opponentanalyzer/internal/domain"
	sqlite3 "github.com/goserg/opponentanalyzer/internal/migrate"
	"github.com/goserg/opponentanalyzer/internal/storage"
)

type Storage struct {
	db  *sql.DB
	log *logrus.Entry
}

var _ storage.PreferenceStorage = (*Storage)(nil)
var _ storage.ReportStorage = (*Storage)(nil)

func New(l *logrus.Logger, fileName string) (*Storage, error) {
	log := l.WithFields(map[string]interface{}{
		"from": "storage",
	})
	db, err := sql.Open("sqlite3", buildSource(fileName))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	err = sqlite3.UpAnalyzerDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, err
	}
	log.WithField("file", fileName).Info("storage connected")
	return &Storage{
		db:  db,
		log: log,
	}, nil
}

func buildSource(fileName string) string {
	return "file:" + fileName + "?cache=shared"
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) GetPreferences(ctx context.Context) (domain.Preferences, error) {
	var (
		darkMode    bool
		snoozeUntil int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT dark_mode, snooze_until FROM preferences WHERE id = 1`,
	).Scan(&darkMode, &snoozeUntil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Preferences{}, nil
		}
		return domain.Preferences{}, err
	}
	return domain.Preferences{
		DarkMode:    darkMode,
		SnoozeUntil: fromUnix(snoozeUntil),
	}, nil
}

func (s *Storage) SavePreferences(ctx context.Context, prefs domain.Preferences) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences (id, dark_mode, snooze_until) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET dark_mode = excluded.dark_mode, snooze_until = excluded.snooze_until`,
		prefs.DarkMode, toUnix(prefs.SnoozeUntil),
	)
	return err
}

func (s *Storage) AddReport(ctx context.Context, report domain.Report) error {
	e := report.HistoryEntry()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (subject, subject_key, avg_move_time, precision, move_time_games, precision_games, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Subject.String(), e.Subject.Key(),
		nullStat(e.AvgMoveTime), nullStat(e.Precision),
		e.MoveTimeGames, e.PrecisionGames,
		toUnix(e.FetchedAt),
	)
	return err
}

func (s *Storage) ListReports(ctx context.Context, subject domain.Subject, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT subject, avg_move_time, precision, move_time_games, precision_games, fetched_at
		FROM reports WHERE subject_key = ? ORDER BY fetched_at DESC, id DESC LIMIT ?`,
		subject.Key(), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.HistoryEntry, 0)
	for rows.Next() {
		var (
			e           domain.HistoryEntry
			name        string
			avg, prec   sql.NullFloat64
			fetchedUnix int64
		)
		err = rows.Scan(&name, &avg, &prec, &e.MoveTimeGames, &e.PrecisionGames, &fetchedUnix)
		if err != nil {
			return nil, err
		}
		e.Subject = domain.Subject(name)
		e.AvgMoveTime = domain.Stat{Value: avg.Float64, Valid: avg.Valid}
		e.Precision = domain.Stat{Value: prec.Float64, Valid: prec.Valid}
		e.FetchedAt = fromUnix(fetchedUnix)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullStat(s domain.Stat) sql.NullFloat64 {
	return sql.NullFloat64{Float64: s.Value, Valid: s.Valid}
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func fromUnix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
