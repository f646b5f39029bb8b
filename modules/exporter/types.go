package exporter

import "context"

// ExportTasksRequest is the request for exporting all tasks as CSV.
type ExportTasksRequest struct{}

// ExportTasksResponse carries the CSV document and the number of exported
// tasks.
type ExportTasksResponse struct {
	CSV   string `json:"csv"`
	Count int    `json:"count"`
}

// ImportTasksRequest carries a CSV document to import.
type ImportTasksRequest struct {
	CSV string `json:"csv"`
}

// ImportTasksResponse reports the import outcome. Failed rows never abort
// the batch; their reasons come back in Errors.
type ImportTasksResponse struct {
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

// ExporterPort defines the interface other modules use to reach the
// exporter services.
type ExporterPort interface {
	Export(ctx context.Context) (*ExportTasksResponse, error)
	Import(ctx context.Context, csvData string) (*ImportTasksResponse, error)
}
