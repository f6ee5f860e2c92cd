// Package dataset loads the labeled training table and provides the
// reproducible train/test split used by the model selection pipeline.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/socialpulse/addictml/features"
	"github.com/socialpulse/addictml/pkg/errors"
)

// Table is the loaded training corpus: one raw record per row plus the
// ground-truth addiction score.
type Table struct {
	Records []map[string]any
	Targets []float64
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Records) }

// Column collects one nominal column's raw string values, used to fit the
// field's encoder.
func (t *Table) Column(field string) ([]string, error) {
	values := make([]string, len(t.Records))
	for i, rec := range t.Records {
		v, ok := rec[field]
		if !ok {
			return nil, errors.NewMissingFieldError(field)
		}
		s, ok := v.(string)
		if !ok {
			return nil, errors.NewValueError("dataset.Column",
				"field "+field+" is not a string column")
		}
		values[i] = s
	}
	return values, nil
}

// LoadCSV reads the training table from path. The header must contain the
// ten raw feature columns under their exact names plus targetColumn; extra
// columns are ignored. Rows whose values fall outside the input form's
// ranges are kept but reported through the warning handler.
func LoadCSV(path, targetColumn string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close()

	return ReadCSV(f, targetColumn)
}

// ReadCSV parses the training table from r. See LoadCSV.
func ReadCSV(r io.Reader, targetColumn string) (*Table, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "dataset: read header")
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[name] = i
	}

	required := append(features.CanonicalOrder(), targetColumn)
	for _, name := range required {
		if _, ok := colIndex[name]; !ok {
			return nil, errors.Newf("dataset: missing required column %q", name)
		}
	}

	table := &Table{}
	row := 0
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "dataset: row %d", row)
		}

		rec, err := parseRow(fields, colIndex)
		if err != nil {
			return nil, errors.Wrapf(err, "dataset: row %d", row)
		}

		target, err := strconv.ParseFloat(fields[colIndex[targetColumn]], 64)
		if err != nil {
			return nil, errors.Newf("dataset: row %d: invalid target %q", row, fields[colIndex[targetColumn]])
		}

		// Range violations are warnings only; the form constrains live
		// input, and historical rows outside it still carry signal.
		if typed, err := features.FromMap(rec); err == nil {
			if verr := typed.Validate(); verr != nil {
				errors.Warn(errors.NewOutOfRangeWarning("record", verr.Error(), row))
			}
		}

		table.Records = append(table.Records, rec)
		table.Targets = append(table.Targets, target)
		row++
	}

	if table.Len() == 0 {
		return nil, errors.NewModelError("dataset.ReadCSV", "empty data", errors.ErrEmptyData)
	}
	return table, nil
}

func parseRow(fields []string, colIndex map[string]int) (map[string]any, error) {
	rec := make(map[string]any, 10)
	for _, name := range features.CanonicalOrder() {
		raw := fields[colIndex[name]]
		if features.IsNominal(name) {
			rec[name] = raw
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.Newf("column %q: invalid numeric value %q", name, raw)
		}
		rec[name] = v
	}
	return rec, nil
}
