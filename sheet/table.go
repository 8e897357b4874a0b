package sheet

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Cell is one (column, value) pair. Value is nil, string, bool or json.Number.
type Cell struct {
	Column string
	Value  any
}

// Record is one spreadsheet row with cells in header order.
type Record []Cell

// Get returns the value of the named column.
func (r Record) Get(column string) (any, bool) {
	for _, c := range r {
		if c.Column == column {
			return c.Value, true
		}
	}
	return nil, false
}

// Strings renders every cell as display text; nulls become "".
func (r Record) Strings() []string {
	out := make([]string, len(r))
	for i, c := range r {
		if c.Value != nil {
			out[i] = fmt.Sprint(c.Value)
		}
	}
	return out
}

// MarshalJSON encodes the record as an object with keys in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encode(&buf, c.Column); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encode(&buf, c.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Table is a loaded sheet.
type Table struct {
	Sheet   string
	Columns []string
	Records []Record
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.Records)
}

// JSON serializes the records as a JSON array of objects, one per row, keys
// in header order. Numbers stay numbers and empty cells become null.
func (t *Table) JSON() (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, rec := range t.Records {
		if i > 0 {
			buf.WriteByte(',')
		}
		data, err := rec.MarshalJSON()
		if err != nil {
			return "", fmt.Errorf("sheet: encode record %d: %w", i+1, err)
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return buf.String(), nil
}

// encode writes v without HTML escaping so prompt text stays readable.
func encode(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
