package ledgerload

import (
	"context"
	"fmt"
	"io"

	"github.com/DanielFlorido/ledgerload/model"
	"github.com/DanielFlorido/ledgerload/parser"
)

// QueueBalanceSubmission registers a job for an uploaded General
// Balance file and starts its worker. The caller gets the job id back
// immediately and polls for the outcome.
func (l *Ledgerload) QueueBalanceSubmission(ctx context.Context, filePath, sourceName, clientID, date string) (string, error) {
	jobID := model.GenerateUUIDWithSuffix("job")
	if err := l.jobs.CreateJob(ctx, model.NewSubmissionJob(jobID)); err != nil {
		return "", err
	}

	go l.runSubmission(jobID, filePath, func(ctx context.Context) error {
		return l.processBalance(ctx, jobID, filePath, sourceName, clientID, date)
	})

	return jobID, nil
}

func (l *Ledgerload) processBalance(ctx context.Context, jobID, filePath, sourceName, clientID, date string) error {
	l.updateStage(ctx, jobID, model.JobStatusProcessing, progressReading, "reading spreadsheet")

	sheet, err := parser.ReadSheet(filePath)
	if err != nil {
		return l.failJob(ctx, jobID, err.Error(), nil)
	}
	rows, err := parser.ParseBalance(sheet)
	if err != nil {
		return l.failJob(ctx, jobID, err.Error(), nil)
	}

	status := model.JobStatusProcessing
	progress := progressParsed
	message := fmt.Sprintf("parsed %d rows", len(rows))
	totalRows := len(rows)
	if err := l.jobs.UpdateJob(ctx, jobID, model.JobUpdate{
		Status:    &status,
		Progress:  &progress,
		Message:   &message,
		TotalRows: &totalRows,
	}); err != nil {
		return l.failJob(ctx, jobID, "failed to update job progress", nil)
	}

	l.updateStage(ctx, jobID, model.JobStatusValidating, progressValidated, "validating rows")
	validation := ValidateBalanceRows(rows, date, clientID)
	if !validation.Valid {
		return l.failJob(ctx, jobID, "validation failed", validation.Errors)
	}
	l.updateStage(ctx, jobID, model.JobStatusValidating, progressResolving, "validation passed")

	l.updateStage(ctx, jobID, model.JobStatusSaving, progressSaving, "saving to database")
	result, saveErr := l.datasource.SaveBalanceSubmission(ctx, rows, date, clientID)

	l.recordAudit(ctx, balanceAuditEntry(result, clientID, date, sourceName))

	if saveErr != nil {
		return l.failJob(ctx, jobID, result.Message, result.Errors)
	}

	l.completeJob(ctx, jobID, result.Message, result.RowsInserted, result)
	return nil
}

// ValidateBalance parses and validates an uploaded file without
// touching the database. Used by the synchronous validate-only
// endpoint.
func (l *Ledgerload) ValidateBalance(r io.Reader, clientID, date string) (ValidationResult, int, error) {
	sheet, err := parser.ReadSheetFrom(r)
	if err != nil {
		return ValidationResult{}, 0, err
	}
	rows, err := parser.ParseBalance(sheet)
	if err != nil {
		return ValidationResult{}, 0, err
	}
	return ValidateBalanceRows(rows, date, clientID), len(rows), nil
}

// BulkInsertBalance is the synchronous continue-on-error path: every
// valid row is committed independently and per-row failures come back
// in the result instead of rolling anything back.
func (l *Ledgerload) BulkInsertBalance(ctx context.Context, r io.Reader, clientID, date string) (model.BulkInsertResult, error) {
	sheet, err := parser.ReadSheetFrom(r)
	if err != nil {
		return model.BulkInsertResult{}, err
	}
	rows, err := parser.ParseBalance(sheet)
	if err != nil {
		return model.BulkInsertResult{}, err
	}

	validation := ValidateBalanceRows(rows, date, clientID)
	if !validation.Valid {
		return model.BulkInsertResult{}, fmt.Errorf("validation failed: %s", validation.Errors[0])
	}

	return l.datasource.InsertBalanceRows(ctx, rows, date, clientID)
}

func balanceAuditEntry(result model.BalanceSaveResult, clientID, date, sourceName string) model.AuditEntry {
	entry := model.AuditEntry{
		Kind:             "balance",
		ClientID:         clientID,
		SubmissionDate:   date,
		SourceFile:       sourceName,
		Success:          result.Success,
		Message:          result.Message,
		RowsInserted:     result.RowsInserted,
		DiscrepancyCount: result.DiscrepancyCount,
		ExecutionSeconds: result.ExecutionSeconds,
	}
	if result.Totals != nil {
		entry.TotalDebit = result.Totals.SumDebitMovement
		entry.TotalCredit = result.Totals.SumCreditMovement
	}
	if result.Equation != nil {
		entry.EquationDifference = result.Equation.Difference
	}
	return entry
}
