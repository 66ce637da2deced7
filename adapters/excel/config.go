package excel

// ExcelConfig holds configuration for the spreadsheet data source
type ExcelConfig struct {
	FilePath string `json:"file_path"`
	// BucketColumn switches to long format: rows are grouped by the value of
	// this column and every other numeric column becomes a bucketed variable.
	BucketColumn string `json:"bucket_column"`
}
