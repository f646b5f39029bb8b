package exporter

import (
	"context"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
)

// exportTasks handles the export service request: the current task
// collection rendered as CSV, rows in insertion order.
func (m *Module) exportTasks(ctx context.Context, _ ExportTasksRequest, _ *mono.Msg) (ExportTasksResponse, error) {
	list, err := m.taskPort.ListTasks(ctx)
	if err != nil {
		return ExportTasksResponse{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	doc, err := marshalTasks(list.Tasks)
	if err != nil {
		return ExportTasksResponse{}, err
	}

	log.Printf("[exporter] Exported %d tasks", list.Total)
	return ExportTasksResponse{CSV: doc, Count: list.Total}, nil
}

// importTasks handles the import service request. Each CSV row becomes a
// create call; rows the store rejects are counted and reported, the rest
// of the batch still imports.
func (m *Module) importTasks(ctx context.Context, req ImportTasksRequest, _ *mono.Msg) (ImportTasksResponse, error) {
	requests, rowErrors, err := parseTasks(req.CSV)
	if err != nil {
		return ImportTasksResponse{}, err
	}

	resp := ImportTasksResponse{
		Failed: len(rowErrors),
		Errors: rowErrors,
	}

	for i, createReq := range requests {
		if _, err := m.taskPort.CreateTask(ctx, &createReq); err != nil {
			resp.Failed++
			resp.Errors = append(resp.Errors, fmt.Sprintf("task %d: %v", i+1, err))
			continue
		}
		resp.Imported++
	}

	log.Printf("[exporter] Imported %d tasks (%d failed)", resp.Imported, resp.Failed)
	return resp, nil
}
