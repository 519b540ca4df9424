package ledgerload

import (
	"context"
	"fmt"

	"github.com/DanielFlorido/ledgerload/config"
	"github.com/DanielFlorido/ledgerload/model"
	"github.com/DanielFlorido/ledgerload/parser"
)

// QueueCashFlowSubmission registers a job for an uploaded Cash Flow
// file and starts its worker.
func (l *Ledgerload) QueueCashFlowSubmission(ctx context.Context, filePath, sourceName, clientID, date string) (string, error) {
	jobID := model.GenerateUUIDWithSuffix("job")
	if err := l.jobs.CreateJob(ctx, model.NewSubmissionJob(jobID)); err != nil {
		return "", err
	}

	go l.runSubmission(jobID, filePath, func(ctx context.Context) error {
		return l.processCashFlow(ctx, jobID, filePath, sourceName, clientID, date)
	})

	return jobID, nil
}

func (l *Ledgerload) processCashFlow(ctx context.Context, jobID, filePath, sourceName, clientID, date string) error {
	cnf, err := config.Fetch()
	if err != nil {
		return l.failJob(ctx, jobID, "configuration not loaded", nil)
	}

	l.updateStage(ctx, jobID, model.JobStatusProcessing, progressReading, "reading spreadsheet")

	sheet, err := parser.ReadSheet(filePath)
	if err != nil {
		return l.failJob(ctx, jobID, err.Error(), nil)
	}
	groups, err := parser.ParseCashFlow(sheet, parser.CashFlowOptions{
		HeaderOffset: cnf.Parser.CashFlowHeaderOffset,
	})
	if err != nil {
		return l.failJob(ctx, jobID, err.Error(), nil)
	}

	totalDetails := 0
	for _, group := range groups {
		totalDetails += len(group.Details)
	}

	status := model.JobStatusProcessing
	progress := progressParsed
	message := fmt.Sprintf("parsed %d groups with %d details", len(groups), totalDetails)
	if err := l.jobs.UpdateJob(ctx, jobID, model.JobUpdate{
		Status:    &status,
		Progress:  &progress,
		Message:   &message,
		TotalRows: &totalDetails,
	}); err != nil {
		return l.failJob(ctx, jobID, "failed to update job progress", nil)
	}

	l.updateStage(ctx, jobID, model.JobStatusValidating, progressValidated, "validating structure")
	if ok, msg := ValidateStructure(groups); !ok {
		return l.failJob(ctx, jobID, msg, nil)
	}
	l.updateStage(ctx, jobID, model.JobStatusValidating, progressResolving, "structure validated")

	l.updateStage(ctx, jobID, model.JobStatusSaving, progressSaving, "saving to database")
	result, saveErr := l.datasource.SaveCashFlow(ctx, groups, date, clientID)

	l.recordAudit(ctx, model.AuditEntry{
		Kind:           "cashflow",
		ClientID:       clientID,
		SubmissionDate: date,
		SourceFile:     sourceName,
		Success:        result.Success,
		Message:        result.Message,
		RowsInserted:   result.TotalDetails,
		TotalDebit:     result.TotalDebit,
		TotalCredit:    result.TotalCredit,
	})

	if saveErr != nil {
		return l.failJob(ctx, jobID, result.Message, nil)
	}

	l.completeJob(ctx, jobID, result.Message, result.TotalDetails, result)
	return nil
}
