package model

import (
	"github.com/shopspring/decimal"
)

// BalanceRow is one line of a general balance export. Rows are built
// by the parser and are immutable afterwards; a row is consumed exactly
// once by the persistence engine inside a single transaction.
//
// All money amounts are exact decimals. The transactional flag is
// normalized to "Yes"/"No" at parse time, the account code to an
// integer-valued string.
type BalanceRow struct {
	Level          string          `json:"level"`
	Transactional  string          `json:"transactional"`
	AccountCode    string          `json:"account_code"`
	AccountName    string          `json:"account_name"`
	ThirdPartyID   string          `json:"third_party_id"`
	Branch         string          `json:"branch"`
	ThirdPartyName string          `json:"third_party_name"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	DebitMovement  decimal.Decimal `json:"debit_movement"`
	CreditMovement decimal.Decimal `json:"credit_movement"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// Client is the internal registry entry a submission's external
// document number resolves to. Stored rows are keyed by ClientID.
type Client struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
}

// GeneralTotals is the aggregate view over the rows of one
// client+date submission, computed inside the insert transaction.
type GeneralTotals struct {
	TotalRecords       int             `json:"total_records"`
	SumOpeningBalance  decimal.Decimal `json:"sum_opening_balance"`
	SumDebitMovement   decimal.Decimal `json:"sum_debit_movement"`
	SumCreditMovement  decimal.Decimal `json:"sum_credit_movement"`
	SumClosingBalance  decimal.Decimal `json:"sum_closing_balance"`
	SumMonthlyMovement decimal.Decimal `json:"sum_monthly_movement"`
}

// ClassTotals partitions non-transactional "Class"-level closing
// balances by the leading digit of the account code: 1 assets,
// 2 liabilities, 3 equity, 4 income, 5 expenses.
type ClassTotals struct {
	Class1 decimal.Decimal `json:"class_1"`
	Class2 decimal.Decimal `json:"class_2"`
	Class3 decimal.Decimal `json:"class_3"`
	Class4 decimal.Decimal `json:"class_4"`
	Class5 decimal.Decimal `json:"class_5"`
}

// AccountingEquation reports |Assets - (Liabilities + Equity)| for the
// submission. The difference is advisory unless strict validation is
// enabled.
type AccountingEquation struct {
	Assets      decimal.Decimal `json:"assets"`
	Liabilities decimal.Decimal `json:"liabilities"`
	Equity      decimal.Decimal `json:"equity"`
	Income      decimal.Decimal `json:"income"`
	Expenses    decimal.Decimal `json:"expenses"`
	Difference  decimal.Decimal `json:"difference"`
}

// RowDiscrepancy is a persisted row whose stated closing balance
// disagrees with opening + debit - credit beyond the tolerance.
type RowDiscrepancy struct {
	ID              int64           `json:"id"`
	Level           string          `json:"level"`
	AccountCode     string          `json:"account_code"`
	AccountName     string          `json:"account_name"`
	ThirdPartyID    string          `json:"third_party_id"`
	ThirdPartyName  string          `json:"third_party_name"`
	OpeningBalance  decimal.Decimal `json:"opening_balance"`
	DebitMovement   decimal.Decimal `json:"debit_movement"`
	CreditMovement  decimal.Decimal `json:"credit_movement"`
	ClosingBalance  decimal.Decimal `json:"closing_balance"`
	ComputedBalance decimal.Decimal `json:"computed_balance"`
	Difference      decimal.Decimal `json:"difference"`
}

// BalanceSaveResult is the outcome of one transactional balance
// submission. Totals are populated even on validation rollback so the
// caller can see what was about to be committed.
type BalanceSaveResult struct {
	Success           bool                `json:"success"`
	Message           string              `json:"message"`
	RowsInserted      int                 `json:"rows_inserted"`
	Totals            *GeneralTotals      `json:"totals,omitempty"`
	ClassTotals       *ClassTotals        `json:"class_totals,omitempty"`
	Equation          *AccountingEquation `json:"equation,omitempty"`
	DiscrepancyCount  int                 `json:"discrepancy_count"`
	Discrepancies     []RowDiscrepancy    `json:"discrepancies,omitempty"`
	Errors            []string            `json:"errors"`
	ExecutionSeconds  float64             `json:"execution_seconds"`
}

// BulkInsertResult is the outcome of the continue-on-error bulk path.
// Unlike the transactional engine it commits what it can and reports
// per-row failures.
type BulkInsertResult struct {
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors"`
}
