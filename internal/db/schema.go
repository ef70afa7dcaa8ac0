package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// requiredColumns lists the tables and columns the climate queries read.
var requiredColumns = map[string][]string{
	"measurement": {"id", "station", "date", "prcp", "tobs"},
	"station":     {"id", "station", "name", "latitude", "longitude", "elevation"},
}

// VerifySchema fails when the dataset lacks a table or column the API reads.
// It never alters the dataset.
func VerifySchema(ctx context.Context, db *sql.DB) error {
	tables := make([]string, 0, len(requiredColumns))
	for t := range requiredColumns {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	var problems []string
	for _, table := range tables {
		have, err := tableColumns(ctx, db, table)
		if err != nil {
			return fmt.Errorf("inspect %s: %w", table, err)
		}
		if len(have) == 0 {
			problems = append(problems, fmt.Sprintf("missing table %q", table))
			continue
		}
		for _, col := range requiredColumns[table] {
			if !have[col] {
				problems = append(problems, fmt.Sprintf("missing column %s.%s", table, col))
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("dataset schema: %s", strings.Join(problems, "; "))
	}
	return nil
}

func tableColumns(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close table info rows", "table", table, "error", err)
		}
	}()
	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[strings.ToLower(name)] = true
	}
	return out, rows.Err()
}
