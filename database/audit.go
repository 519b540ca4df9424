package database

import (
	"context"

	"github.com/DanielFlorido/ledgerload/model"
)

// RecordAudit writes one submission outcome to the audit log. It runs
// on its own connection, outside the submission's transaction, so it
// observes the final committed-or-rolled-back state. Callers swallow
// the returned error after logging it.
func (d Datasource) RecordAudit(ctx context.Context, entry model.AuditEntry) error {
	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO ledgerload.audit_log
			(kind, client_id, submission_date, source_file, success, message,
			rows_inserted, total_debit, total_credit, equation_difference,
			discrepancy_count, execution_seconds, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
	`,
		entry.Kind, entry.ClientID, entry.SubmissionDate, entry.SourceFile,
		entry.Success, entry.Message, entry.RowsInserted,
		entry.TotalDebit, entry.TotalCredit, entry.EquationDifference,
		entry.DiscrepancyCount, entry.ExecutionSeconds,
	)
	return err
}
