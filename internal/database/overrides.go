package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"peony/internal/models"
)

func (d *DB) GetOverride(ctx context.Context, date models.DateKey) (*models.OverrideRecord, error) {
	query := `SELECT date, slots, is_fully_booked, last_updated, version FROM overrides WHERE date = ?`

	rec, err := scanOverride(d.db.QueryRowContext(ctx, query, string(date)))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get override: %w", err)
	}
	return rec, nil
}

// PutOverride replaces the record for rec.Date as a whole. A positive
// rec.Version makes the write conditional: it succeeds only while the stored
// version still matches, otherwise ErrStaleWrite. Version 0 keeps the
// historical last-writer-wins behavior. The stored version is bumped on
// every successful write; the returned record carries the new version.
func (d *DB) PutOverride(ctx context.Context, rec *models.OverrideRecord) (*models.OverrideRecord, error) {
	slotsJSON, err := json.Marshal(rec.Slots)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal slots: %w", err)
	}

	now := time.Now().UTC()

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var stored int64
	err = tx.QueryRowContext(ctx, `SELECT version FROM overrides WHERE date = ?`, string(rec.Date)).Scan(&stored)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to read stored version: %w", err)
	}

	if rec.Version > 0 && rec.Version != stored {
		return nil, ErrStaleWrite
	}

	next := stored + 1
	_, err = tx.ExecContext(ctx, `
        INSERT INTO overrides (date, slots, is_fully_booked, last_updated, version)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(date) DO UPDATE SET
            slots = excluded.slots,
            is_fully_booked = excluded.is_fully_booked,
            last_updated = excluded.last_updated,
            version = excluded.version`,
		string(rec.Date), string(slotsJSON), rec.IsFullyBooked, now, next)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert override: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit override: %w", err)
	}

	saved := rec.Clone()
	saved.LastUpdated = now
	saved.Version = next
	return saved, nil
}

func (d *DB) ListOverrides(ctx context.Context) (models.OverrideMap, error) {
	query := `SELECT date, slots, is_fully_booked, last_updated, version FROM overrides ORDER BY date`

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list overrides: %w", err)
	}
	defer rows.Close()

	out := make(models.OverrideMap)
	for rows.Next() {
		rec, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan override: %w", err)
		}
		out[rec.Date] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate overrides: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOverride(row rowScanner) (*models.OverrideRecord, error) {
	var (
		date      string
		slotsJSON string
		rec       models.OverrideRecord
	)
	if err := row.Scan(&date, &slotsJSON, &rec.IsFullyBooked, &rec.LastUpdated, &rec.Version); err != nil {
		return nil, err
	}
	rec.Date = models.DateKey(date)
	if err := json.Unmarshal([]byte(slotsJSON), &rec.Slots); err != nil {
		return nil, fmt.Errorf("failed to unmarshal slots for %s: %w", date, err)
	}
	return &rec, nil
}
