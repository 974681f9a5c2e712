package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	auditUseCase "github.com/allisson/medbilling/internal/audit/usecase"
)

// RunCleanAuditEvents deletes audit events older than the specified number of days.
// Supports dry-run mode to preview deletion count and both text/JSON output formats.
//
// Requirements: Database must be migrated and accessible.
func RunCleanAuditEvents(
	ctx context.Context,
	auditEventUseCase auditUseCase.AuditEventUseCase,
	logger *slog.Logger,
	writer io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	// Validate days parameter
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	logger.Info("cleaning audit events",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	// Execute deletion or count operation
	count, err := auditEventUseCase.DeleteOlderThan(ctx, days, dryRun)
	if err != nil {
		return fmt.Errorf("failed to delete audit events: %w", err)
	}

	// Output result based on format
	if format == "json" {
		if err := outputCleanJSON(writer, count, days, dryRun); err != nil {
			return fmt.Errorf("failed to output JSON: %w", err)
		}
	} else {
		outputCleanText(writer, count, days, dryRun)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

// outputCleanText outputs the result in human-readable text format.
func outputCleanText(writer io.Writer, count int64, days int, dryRun bool) {
	if dryRun {
		_, _ = fmt.Fprintf(writer, "Dry-run mode: Would delete %d audit event(s) older than %d day(s)\n", count, days)
	} else {
		_, _ = fmt.Fprintf(writer, "Successfully deleted %d audit event(s) older than %d day(s)\n", count, days)
	}
}

// outputCleanJSON outputs the result in JSON format for machine consumption.
func outputCleanJSON(writer io.Writer, count int64, days int, dryRun bool) error {
	result := map[string]interface{}{
		"count":   count,
		"days":    days,
		"dry_run": dryRun,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
	return nil
}
