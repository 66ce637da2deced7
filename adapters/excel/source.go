package excel

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"

	"datagraph/domain/core"
	"datagraph/domain/dataset"
	"datagraph/internal"
)

var logger = internal.NewLogger("DataReader")

// Source turns the columns of a spreadsheet or CSV file into variables
type Source struct {
	config ExcelConfig
	reader *DataReader
}

// NewSource creates a spreadsheet source
func NewSource(config ExcelConfig) *Source {
	return &Source{config: config, reader: NewDataReader(config.FilePath)}
}

// Name identifies the source
func (s *Source) Name() string {
	return "excel:" + filepath.Base(s.config.FilePath)
}

// Load reads the file and maps its columns to variables
func (s *Source) Load(ctx context.Context) ([]dataset.Variable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := s.reader.ReadData()
	if err != nil {
		return nil, err
	}

	var vars []dataset.Variable
	if s.config.BucketColumn != "" {
		vars, err = BucketVariables(data, s.config.BucketColumn)
		if err != nil {
			return nil, err
		}
	} else {
		vars = ColumnVariables(data)
	}

	for i := range vars {
		vars[i] = vars[i].WithSource(s.Name())
	}
	return vars, nil
}

// ColumnVariables maps wide-format data to one variable per column.
// Fully numeric columns become flat series; fully textual columns become
// categorical variables holding their distinct values in order of first
// appearance. Columns with gaps or mixed content are skipped.
func ColumnVariables(data *ExcelData) []dataset.Variable {
	var vars []dataset.Variable
	for _, header := range data.Headers {
		if header == "" {
			continue
		}
		cells := data.Column(header)
		if len(cells) == 0 {
			continue
		}

		values, numeric, blanks := parseNumbers(cells)
		switch {
		case blanks > 0:
			logger.Warn("Skipping column %q: %d blank cells", header, blanks)
		case numeric == len(cells):
			vars = append(vars, dataset.NewFlatVariable(core.VariableKey(header), values))
		case numeric == 0:
			vars = append(vars, dataset.NewCategoricalVariable(core.VariableKey(header), distinct(cells)))
		default:
			logger.Warn("Skipping column %q: mixed numeric and text cells", header)
		}
	}
	return vars
}

// BucketVariables maps long-format data, where bucketColumn names the bucket
// of each row, to a categorical label variable plus one bucketed variable per
// numeric column. A bucket with no observations in a column is left out of
// that variable.
func BucketVariables(data *ExcelData, bucketColumn string) ([]dataset.Variable, error) {
	if !hasHeader(data, bucketColumn) {
		return nil, fmt.Errorf("bucket column %q not found", bucketColumn)
	}

	labels := distinct(data.Column(bucketColumn))
	vars := []dataset.Variable{dataset.NewCategoricalVariable(core.VariableKey(bucketColumn), labels)}

	for _, header := range data.Headers {
		if header == "" || header == bucketColumn {
			continue
		}

		buckets := make(map[string][]float64)
		valid := true
		for _, row := range data.Rows {
			label, cell := row[bucketColumn], row[header]
			if label == "" || cell == "" {
				continue
			}
			v, ok := parseCell(cell)
			if !ok {
				valid = false
				break
			}
			buckets[label] = append(buckets[label], v)
		}

		if !valid || len(buckets) == 0 {
			logger.Warn("Skipping column %q: not numeric", header)
			continue
		}
		vars = append(vars, dataset.NewBucketedVariable(core.VariableKey(header), buckets))
	}

	logger.Info("Grouped %d rows into %d buckets by %q", len(data.Rows), len(labels), bucketColumn)
	return vars, nil
}

func parseNumbers(cells []string) (values []float64, numeric, blanks int) {
	values = make([]float64, 0, len(cells))
	for _, cell := range cells {
		if cell == "" {
			blanks++
			continue
		}
		v, ok := parseCell(cell)
		if !ok {
			continue
		}
		values = append(values, v)
		numeric++
	}
	return values, numeric, blanks
}

// parseCell accepts finite numbers only
func parseCell(cell string) (float64, bool) {
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func distinct(cells []string) []string {
	seen := make(map[string]bool, len(cells))
	var out []string
	for _, cell := range cells {
		if cell == "" || seen[cell] {
			continue
		}
		seen[cell] = true
		out = append(out, cell)
	}
	return out
}

func hasHeader(data *ExcelData, header string) bool {
	for _, h := range data.Headers {
		if h == header {
			return true
		}
	}
	return false
}
