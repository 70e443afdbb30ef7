package convert

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"callportal-backend/internal/importer"
)

var ErrUnknownFormat = errUnknownFormat{}

type errUnknownFormat struct{}

func (errUnknownFormat) Error() string { return "unknown source format" }

// Convert rewrites a vendor export into the canonical import layout,
// using the same header row Import expects. Columns the vendor does not
// carry are left empty so the result can be reviewed and filled in
// before import. Output is UTF-8 with a BOM so spreadsheet tools open
// it correctly.
func Convert(formatID string, raw []byte) ([]byte, error) {
	format, ok := FormatByID(formatID)
	if !ok {
		return nil, ErrUnknownFormat
	}
	text, err := importer.DecodeText(raw)
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	index := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		index[strings.TrimSpace(header)] = i
	}

	keys := importer.Keys()

	var buf bytes.Buffer
	buf.WriteString("\uFEFF")
	writer := csv.NewWriter(&buf)
	if err := writer.Write(keys); err != nil {
		return nil, err
	}
	for _, row := range rows[1:] {
		out := make([]string, len(keys))
		for i, key := range keys {
			out[i] = sourceValue(format, row, index, key)
		}
		if err := writer.Write(out); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sourceValue(format Format, row []string, index map[string]int, key string) string {
	switch {
	case key == "full_name" && format.JoinFullName[0] != "":
		return joinCells(row, index, format.JoinFullName)
	case key == "name" && format.JoinName[0] != "":
		return joinCells(row, index, format.JoinName)
	case format.SplitUniversity != "" && (key == "university" || key == "faculty" || key == "department"):
		if _, ok := index[format.SplitUniversity]; ok {
			return splitCell(row, index, format.SplitUniversity, key)
		}
	}
	for header, mapped := range format.Headers {
		if mapped == key {
			return cell(row, index, header)
		}
	}
	return ""
}

func joinCells(row []string, index map[string]int, headers [2]string) string {
	first := cell(row, index, headers[0])
	second := cell(row, index, headers[1])
	if first == "" {
		return second
	}
	if second == "" {
		return first
	}
	return first + " " + second
}

// splitCell pulls one part of an underscore-joined
// university_faculty_department value.
func splitCell(row []string, index map[string]int, header, key string) string {
	parts := strings.SplitN(cell(row, index, header), "_", 3)
	pos := map[string]int{"university": 0, "faculty": 1, "department": 2}[key]
	if pos >= len(parts) {
		return ""
	}
	return strings.TrimSpace(parts[pos])
}

func cell(row []string, index map[string]int, header string) string {
	i, ok := index[header]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
