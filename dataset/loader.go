// Package dataset loads the advertising CSV consumed by the model fitter.
//
// The expected layout is a header row followed by rows of four comma-separated
// numeric fields in the fixed order TV, Radio, Newspaper, Sales, all in
// thousands of currency units. Malformed rows are dropped rather than
// aborting the load.
package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/AbhayKTS/sales-prediction/pkg/errors"
	"github.com/AbhayKTS/sales-prediction/pkg/log"
)

// MinRows is the minimum number of valid rows required for a stable fit of
// the four-parameter model.
const MinRows = 10

// Table holds the parsed dataset as parallel column slices in the fixed
// channel order.
type Table struct {
	TV        []float64
	Radio     []float64
	Newspaper []float64
	Sales     []float64
}

// Len returns the number of rows in the table.
func (t *Table) Len() int {
	return len(t.Sales)
}

// Features returns the n×3 feature matrix (TV, Radio, Newspaper), without an
// intercept column.
func (t *Table) Features() *mat.Dense {
	n := t.Len()
	x := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, t.TV[i])
		x.Set(i, 1, t.Radio[i])
		x.Set(i, 2, t.Newspaper[i])
	}
	return x
}

// Target returns the sales column as a vector.
func (t *Table) Target() *mat.VecDense {
	return mat.NewVecDense(t.Len(), append([]float64(nil), t.Sales...))
}

// Load parses CSV text from r into a Table.
//
// The header row is discarded. A data row is accepted only if it has at least
// four fields and the first four all parse as finite numbers; other rows are
// dropped. Fewer than MinRows surviving rows is an insufficient-data error.
func Load(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "dataset.Load: reading CSV")
	}

	table := &Table{}
	dropped := 0
	for i, record := range records {
		if i == 0 {
			// Header row.
			continue
		}
		row, ok := parseRow(record)
		if !ok {
			dropped++
			continue
		}
		table.TV = append(table.TV, row[0])
		table.Radio = append(table.Radio, row[1])
		table.Newspaper = append(table.Newspaper, row[2])
		table.Sales = append(table.Sales, row[3])
	}

	if dropped > 0 {
		log.GetLoggerWithName("dataset").Warn("Dropped malformed rows",
			log.DroppedRowsKey, dropped,
			log.SamplesKey, table.Len(),
		)
	}

	if table.Len() < MinRows {
		return nil, errors.NewInsufficientDataError("dataset.Load", MinRows, table.Len())
	}
	return table, nil
}

// LoadFile reads and parses the CSV file at path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUpstreamUnavailable, "dataset.LoadFile: %v", err)
	}
	defer func() { _ = f.Close() }()

	return Load(f)
}

func parseRow(record []string) ([4]float64, bool) {
	var row [4]float64
	if len(record) < 4 {
		return row, false
	}
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return row, false
		}
		row[i] = v
	}
	return row, true
}
