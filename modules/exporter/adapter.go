package exporter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// exporterAdapter wraps ServiceContainer for type-safe cross-module
// communication. This is the adapter that implements the ExporterPort
// interface.
type exporterAdapter struct {
	container mono.ServiceContainer
}

// NewExporterAdapter creates a new adapter for exporter services.
// container is the ServiceContainer from the exporter module received via
// SetDependencyServiceContainer.
func NewExporterAdapter(container mono.ServiceContainer) ExporterPort {
	if container == nil {
		panic("exporter adapter requires non-nil ServiceContainer")
	}
	return &exporterAdapter{container: container}
}

// Export renders the task collection as CSV via the export service.
func (a *exporterAdapter) Export(ctx context.Context) (*ExportTasksResponse, error) {
	req := ExportTasksRequest{}
	var resp ExportTasksResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "export", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("export service call failed: %w", err)
	}
	return &resp, nil
}

// Import loads tasks from a CSV document via the import service.
func (a *exporterAdapter) Import(ctx context.Context, csvData string) (*ImportTasksResponse, error) {
	req := ImportTasksRequest{CSV: csvData}
	var resp ImportTasksResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "import", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("import service call failed: %w", err)
	}
	return &resp, nil
}
