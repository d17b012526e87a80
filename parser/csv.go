package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lamorinda/sportsball/models"
)

const (
	ColumnDivision = "Division"
	ColumnTeams    = "Teams"
	ColumnDate     = "Date"
	ColumnTime     = "Time"
	ColumnLocation = "Location"
	ColumnSite     = "Site"
)

var requiredColumns = []string{ColumnDivision, ColumnTeams, ColumnDate, ColumnTime, ColumnLocation, ColumnSite}

// ParseRows reads the snapshot into game rows in file order. Columns are
// located by header name, so their order in the export does not matter.
func ParseRows(data []byte) ([]models.GameRow, error) {
	// Spreadsheet exports sometimes start with a UTF-8 BOM.
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("snapshot is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	columns, err := findColumns(headers)
	if err != nil {
		return nil, err
	}

	rows := []models.GameRow{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}

		if isBlank(record) {
			continue
		}

		line, _ := reader.FieldPos(0)
		cell := func(name string) string {
			idx := columns[name]
			if idx < len(record) {
				return record[idx]
			}
			return ""
		}

		rows = append(rows, models.GameRow{
			Line:     line,
			Division: cell(ColumnDivision),
			Teams:    cell(ColumnTeams),
			Date:     cell(ColumnDate),
			Time:     cell(ColumnTime),
			Location: cell(ColumnLocation),
			Site:     cell(ColumnSite),
		})
	}

	return rows, nil
}

// findColumns maps each required column to its index. Header cells are
// matched trimmed and case-insensitively ("Division " is common in exports).
func findColumns(headers []string) (map[string]int, error) {
	columns := make(map[string]int, len(requiredColumns))

	for i, header := range headers {
		header = strings.TrimSpace(header)
		for _, name := range requiredColumns {
			if _, seen := columns[name]; seen {
				continue
			}
			if strings.EqualFold(header, name) {
				columns[name] = i
			}
		}
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return columns, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
