package application

import (
	"strings"

	"github.com/prajeetp/blackhole-cli/internal/domain"
)

// MergeRows folds per-unit scraped rows into one display collection. At most
// one header row survives (the first encountered, always emitted first), and
// data rows are deduplicated by the record's ID cell, first occurrence wins.
// Overlapping IP/CIDR searches routinely return the same record, which is why
// identity, not position, is the correctness mechanism here.
func MergeRows(results []domain.Result) []domain.Row {
	var header *domain.Row
	idColumn := 0
	seen := make(map[string]struct{})
	data := make([]domain.Row, 0)

	for _, res := range results {
		for _, row := range res.Rows {
			if row.Header {
				if header == nil {
					kept := row
					header = &kept
					idColumn = idColumnIndex(row.Cells)
				}
				continue
			}
			if row.Empty() {
				continue
			}
			key := dedupKey(row, idColumn)
			if key != "" {
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
			}
			data = append(data, row)
		}
	}

	if header == nil {
		return data
	}
	merged := make([]domain.Row, 0, len(data)+1)
	merged = append(merged, *header)
	return append(merged, data...)
}

// idColumnIndex locates the column named "ID" (case-insensitive). Without one
// the first cell is the key; if the table carries no ID-like column at all,
// dedup degrades to identity on the first cell, a documented limitation.
func idColumnIndex(headers []string) int {
	for i, name := range headers {
		trimmed := strings.ToLower(strings.TrimSpace(name))
		if trimmed == "id" || strings.HasSuffix(trimmed, " id") {
			return i
		}
	}
	return 0
}

func dedupKey(row domain.Row, idColumn int) string {
	if idColumn >= len(row.Cells) {
		return ""
	}
	return strings.TrimSpace(row.Cells[idColumn])
}
