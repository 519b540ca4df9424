package model

import (
	"github.com/shopspring/decimal"
)

// AuditEntry records the outcome of one submission. It is written
// outside the submission's transaction, after commit or rollback, and
// a failed write never affects the primary result.
type AuditEntry struct {
	Kind               string          `json:"kind"` // "balance" or "cashflow"
	ClientID           string          `json:"client_id"`
	SubmissionDate     string          `json:"submission_date"`
	SourceFile         string          `json:"source_file"`
	Success            bool            `json:"success"`
	Message            string          `json:"message"`
	RowsInserted       int             `json:"rows_inserted"`
	TotalDebit         decimal.Decimal `json:"total_debit"`
	TotalCredit        decimal.Decimal `json:"total_credit"`
	EquationDifference decimal.Decimal `json:"equation_difference"`
	DiscrepancyCount   int             `json:"discrepancy_count"`
	ExecutionSeconds   float64         `json:"execution_seconds"`
}
