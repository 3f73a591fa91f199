package source

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

const selectEntries = `SELECT id, name, period, period_name, medium, category4, difficulty
	FROM entries ORDER BY rowid`

// ReadSQLite reads records from the entries table of an existing SQLite file.
func ReadSQLite(ctx context.Context, path string) ([]Record, error) {
	// sql.Open would silently create a missing database.
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, selectEntries)
	if err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var (
			id, period                                  sql.NullInt64
			name, periodName, medium, cat4, difficulty sql.NullString
		)
		if err := rows.Scan(&id, &name, &period, &periodName, &medium, &cat4, &difficulty); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		records = append(records, Record{
			ID:         nullInt(id),
			Name:       nullString(name),
			Period:     nullInt(period),
			PeriodName: nullString(periodName),
			Medium:     nullString(medium),
			Category4:  nullString(cat4),
			Difficulty: nullString(difficulty),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return records, nil
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	return ptr(int(v.Int64))
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return ptr(v.String)
}
