package exporter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Marksman247/task-manager-app/modules/task"
)

// csvHeader is the column layout of an exported task collection.
var csvHeader = []string{"id", "title", "description", "status", "priority", "due_date", "created_at"}

// marshalTasks renders tasks as a CSV document, one row per task in the
// given order. The due_date column is YYYY-MM-DD or empty, created_at is
// RFC 3339.
func marshalTasks(tasks []task.TaskResponse) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, t := range tasks {
		due := ""
		if t.DueDate != nil {
			due = *t.DueDate
		}
		row := []string{
			t.ID,
			t.Title,
			t.Description,
			t.Status,
			t.Priority,
			due,
			t.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}
	return b.String(), nil
}

// parseTasks reads a CSV document back into create requests. The id and
// created_at columns are ignored: imported tasks get fresh identities.
// Rows that cannot be read are reported in rowErrors without aborting the
// rest of the document; only an unusable header is fatal.
func parseTasks(data string) (requests []task.CreateTaskRequest, rowErrors []string, err error) {
	r := csv.NewReader(strings.NewReader(data))
	r.FieldsPerRecord = len(csvHeader)

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, col := range header {
		if strings.TrimSpace(strings.ToLower(col)) != csvHeader[i] {
			return nil, nil, fmt.Errorf("unexpected CSV header column %d: got %q, want %q", i+1, col, csvHeader[i])
		}
	}

	line := 1
	for {
		line++
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", line, err))
			if record == nil {
				// Reader state is unusable past a structural error.
				break
			}
			continue
		}

		requests = append(requests, task.CreateTaskRequest{
			Title:       record[1],
			Description: record[2],
			Status:      record[3],
			Priority:    record[4],
			DueDate:     record[5],
		})
	}

	return requests, rowErrors, nil
}
