package source

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/keilerkonzept/catalog-browser/internal/catalog"
	sigsyaml "sigs.k8s.io/yaml"
)

// Decode parses a JSON or YAML sequence of records. Records are decoded one
// by one so a badly typed record is reported with its position.
func Decode(data []byte) ([]Record, error) {
	var raws []json.RawMessage
	if err := sigsyaml.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}
	records := make([]Record, len(raws))
	for i, raw := range raws {
		if err := sigsyaml.Unmarshal(raw, &records[i]); err != nil {
			return nil, &catalog.EntryError{Index: i, Err: fmt.Errorf("%w: %v", catalog.ErrInvalidEntry, err)}
		}
	}
	return records, nil
}

var csvColumns = []string{"id", "name", "period", "period-name", "medium", "4cht", "difficulty"}

// DecodeCSV parses records from a CSV document with a header row. The
// separator is ';' when the header contains one, ',' otherwise. Columns may
// appear in any order; a missing column leaves the field absent.
func DecodeCSV(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	header, _, _ := bytes.Cut(data, []byte("\n"))

	cr := csv.NewReader(bytes.NewReader(data))
	if bytes.ContainsRune(header, ';') {
		cr.Comma = ';'
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	columns := map[string]int{}
	for i, name := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	records := make([]Record, 0, len(rows)-1)
	for n, row := range rows[1:] {
		cell := func(name string) (string, bool) {
			i, ok := columns[name]
			if !ok || i >= len(row) {
				return "", false
			}
			return strings.TrimSpace(row[i]), true
		}
		var rec Record
		for _, name := range csvColumns {
			v, ok := cell(name)
			if !ok {
				continue
			}
			switch name {
			case "id", "period":
				num, err := strconv.Atoi(v)
				if err != nil {
					return nil, &catalog.EntryError{Index: n, Field: name, Err: fmt.Errorf("%w: %v", catalog.ErrInvalidEntry, err)}
				}
				if name == "id" {
					rec.ID = ptr(num)
				} else {
					rec.Period = ptr(num)
				}
			case "name":
				rec.Name = ptr(v)
			case "period-name":
				rec.PeriodName = ptr(v)
			case "medium":
				rec.Medium = ptr(v)
			case "4cht":
				rec.Category4 = ptr(v)
			case "difficulty":
				rec.Difficulty = ptr(v)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
