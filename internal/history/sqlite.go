package history

import (
	"database/sql"
	"fmt"
)

// loadSQLite reads the production table from a SQLite database. The table
// mirrors the CSV artifact: one row per day, Date and Production_MG columns.
func loadSQLite(path string) (*Series, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT "Date", "Production_MG" FROM production ORDER BY "Date"`)
	if err != nil {
		return nil, fmt.Errorf("query production: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var dateStr string
		var prod float64
		if err := rows.Scan(&dateStr, &prod); err != nil {
			return nil, fmt.Errorf("scan production row: %w", err)
		}
		date, err := parseDate(dateStr)
		if err != nil {
			return nil, err
		}
		records = append(records, Record{Date: date, Production: prod})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate production rows: %w", err)
	}

	return newSeries(records)
}
