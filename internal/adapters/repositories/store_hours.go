package repositories

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/obs"
	"storefront-delivery-service/internal/schedule"
	"time"
)

// Populate store_hours from a JSON file of sheet-shaped rows
// ({"dia","apertura","cierre","estado"}). Existing weekdays are replaced.
func SeedStoreHoursFromJSON(ctx context.Context, db *sql.DB, jsonPath string) (int, error) {
	if db == nil {
		return 0, errors.New("seed store hours: DB is nil")
	}

	week, err := ReadStoreHoursJSON(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed store hours: %w", err)
	}

	if err := SaveWeek(ctx, db, week); err != nil {
		return 0, fmt.Errorf("seed store hours: %w", err)
	}

	return len(week), nil
}

// ReadStoreHoursJSON parses a seed file of sheet-shaped rows into a Week.
func ReadStoreHoursJSON(jsonPath string) (domain.Week, error) {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", jsonPath, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	week, skipped := schedule.NormalizeRows(rows)
	if len(skipped) > 0 {
		return nil, fmt.Errorf("unknown or repeated weekdays: %v", skipped)
	}
	return week, nil
}

// SaveWeek upserts every day of week into store_hours.
func SaveWeek(ctx context.Context, db *sql.DB, week domain.Week) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save week: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO store_hours (weekday, open_minute, close_minute, is_open)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (weekday) DO UPDATE
	SET open_minute = EXCLUDED.open_minute,
		close_minute = EXCLUDED.close_minute,
		is_open = EXCLUDED.is_open;
	`)
	if err != nil {
		return fmt.Errorf("save week: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range week {
		if _, err := stmt.ExecContext(ctx, int(d.Day), d.Open.Minutes(), d.Close.Minutes(), d.IsOpenDay); err != nil {
			return fmt.Errorf("save week: insert weekday=%d: %w", d.Day, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save week: commit tx: %w", err)
	}

	return nil
}

// PostgresScheduleSource implements ScheduleSource over the store_hours table.
type PostgresScheduleSource struct{ DB *sql.DB }

func NewPostgresScheduleSource(db *sql.DB) *PostgresScheduleSource {
	return &PostgresScheduleSource{DB: db}
}

// Return the stored week ordered by weekday.
func (s *PostgresScheduleSource) FetchWeek(ctx context.Context) (_ domain.Week, err error) {
	defer obs.Time(ctx, "postgres.FetchWeek")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres schedule source: DB is nil")
	}

	query := `
	SELECT
		weekday,
		open_minute,
		close_minute,
		is_open
	FROM store_hours
	ORDER BY weekday;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch week: query store_hours table: %w", err)
	}
	defer rows.Close()

	week := make(domain.Week, 0, 7)
	for rows.Next() {
		var wd, open, closeAt int
		var isOpen bool
		if err := rows.Scan(&wd, &open, &closeAt, &isOpen); err != nil {
			return nil, fmt.Errorf("fetch week: scan row: %w", err)
		}
		week = append(week, domain.DaySchedule{
			Day:       time.Weekday(wd),
			Open:      fromMinutes(open),
			Close:     fromMinutes(closeAt),
			IsOpenDay: isOpen,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch week: row iteration: %w", err)
	}

	return week, nil
}

func fromMinutes(m int) domain.TimeOfDay {
	return domain.TimeOfDay{Hour: m / 60, Minute: m % 60}
}
