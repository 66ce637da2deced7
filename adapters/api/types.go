package api

import "time"

// APIDataSource describes a REST endpoint serving a dataset document
type APIDataSource struct {
	Name       string            `json:"name"`
	URL        string            `json:"url"`
	DataPath   string            `json:"data_path"`   // gjson path of the document inside the response
	AuthMethod string            `json:"auth_method"` // "", "bearer", "api_key"
	AuthToken  string            `json:"-"`
	Headers    map[string]string `json:"headers"`
	Timeout    time.Duration     `json:"timeout"`
}
