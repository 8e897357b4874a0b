package sheet

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kbukum/startup-analyzer/errors"
)

var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// Load parses an xlsx workbook and returns its first sheet. The first
// non-empty row is the header. Bytes that are not a readable workbook fail
// with an errors.ParseError.
func Load(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.ParseError(err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.ParseError(fmt.Errorf("workbook has no sheets"))
	}
	name := sheets[0]

	formatted, err := f.GetRows(name)
	if err != nil {
		return nil, errors.ParseError(err)
	}
	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.ParseError(err)
	}

	table := &Table{Sheet: name, Columns: []string{}, Records: []Record{}}

	header := -1
	for i, row := range formatted {
		if !blank(row) {
			header = i
			break
		}
	}
	if header < 0 {
		return table, nil
	}
	table.Columns = headerNames(formatted[header])

	for i := header + 1; i < len(formatted); i++ {
		if blank(formatted[i]) {
			continue
		}
		rec := make(Record, len(table.Columns))
		for col, column := range table.Columns {
			rec[col] = Cell{
				Column: column,
				Value:  cellValue(f, name, col, i, at(raw, i, col), at(formatted, i, col)),
			}
		}
		table.Records = append(table.Records, rec)
	}

	return table, nil
}

// LoadFile opens path and calls Load.
func LoadFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sheet: open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()
	return Load(file)
}

// headerNames names blank headers column_<n> and suffixes duplicates _<k>.
func headerNames(row []string) []string {
	width := len(row)
	for width > 0 && strings.TrimSpace(row[width-1]) == "" {
		width--
	}

	names := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		name := strings.TrimSpace(row[i])
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		base := name
		for seen[name] > 0 {
			name = base + "_" + strconv.Itoa(seen[base])
			seen[base]++
		}
		seen[name]++
		names[i] = name
	}
	return names
}

// cellValue types a cell: empty cells are nil, booleans are bool, numeric
// cells shown as numbers are json.Number, everything else is the displayed text.
// Formula cells are typed by their cached result.
func cellValue(f *excelize.File, sheet string, col, row int, raw, formatted string) any {
	if strings.TrimSpace(raw) == "" && strings.TrimSpace(formatted) == "" {
		return nil
	}

	typ := excelize.CellTypeUnset
	if axis, err := excelize.CoordinatesToCellName(col+1, row+1); err == nil {
		if t, err := f.GetCellType(sheet, axis); err == nil {
			typ = t
		}
	}

	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeFormula:
		if jsonNumber.MatchString(raw) && (formatted == raw || numericDisplay(formatted)) {
			return json.Number(raw)
		}
	}
	return formatted
}

// numericDisplay reports whether a formatted value still reads as a number
// (thousands separators, currency or percent signs), as opposed to a date.
func numericDisplay(s string) bool {
	s = strings.NewReplacer(",", "", "$", "", "€", "", "£", "", "%", "", " ", "").Replace(s)
	_, err := strconv.ParseFloat(s, 64)
	return err == nil && s != "" && !strings.ContainsAny(s, "xXpPiInN_")
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func at(rows [][]string, row, col int) string {
	if row >= len(rows) || col >= len(rows[row]) {
		return ""
	}
	return rows[row][col]
}
