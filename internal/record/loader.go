package record

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Reserved CSV columns; every other header names a field key.
const (
	ColumnPhoto     = "photo"
	ColumnTimestamp = "timestamp"
)

// LoadCSV reads one record per row. The header row holds field keys. A
// "photo" cell is a file path, relative to the CSV's directory unless
// absolute; an empty cell means no photo.
func LoadCSV(path string) ([]Record, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	r := csv.NewReader(fp)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("csv %s has no header", path)
	}
	header := rows[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	dir := filepath.Dir(path)

	out := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec := Record{Fields: map[string]string{}}
		for col, key := range header {
			if col >= len(row) {
				break
			}
			key = strings.TrimSpace(key)
			cell := strings.TrimSpace(row[col])
			switch key {
			case "":
			case ColumnPhoto:
				if cell == "" {
					continue
				}
				p := cell
				if !filepath.IsAbs(p) {
					p = filepath.Join(dir, p)
				}
				data, err := os.ReadFile(p)
				if err != nil {
					return nil, fmt.Errorf("row %d: photo: %w", i+2, err)
				}
				rec.Photo = data
			case ColumnTimestamp:
				rec.Timestamp = cell
			default:
				if cell != "" {
					rec.Fields[key] = cell
				}
			}
		}
		out = append(out, rec)
	}
	return out, nil
}
