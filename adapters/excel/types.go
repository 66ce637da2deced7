package excel

// RawRowData represents a row of raw Excel data as string key-value pairs
type RawRowData map[string]string

// ExcelData represents the complete Excel dataset
type ExcelData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}

// Column returns the cells of header in row order, with trailing blanks trimmed
func (d *ExcelData) Column(header string) []string {
	cells := make([]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		cells = append(cells, row[header])
	}
	end := len(cells)
	for end > 0 && cells[end-1] == "" {
		end--
	}
	return cells[:end]
}
