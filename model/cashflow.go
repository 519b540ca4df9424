package model

import (
	"github.com/shopspring/decimal"
)

// CashFlowHeader is one account's rollup row in a cash-flow export.
type CashFlowHeader struct {
	AccountCode    string          `json:"account_code"`
	AccountName    string          `json:"account_name"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// CashFlowDetail is one movement row under a header. EntryDate is kept
// in the 02/01/2006 wire form expected by the persistence layer; empty
// when the source cell was blank or unparseable.
type CashFlowDetail struct {
	AccountCode     string          `json:"account_code"`
	AccountName     string          `json:"account_name"`
	Voucher         string          `json:"voucher"`
	Sequence        string          `json:"sequence"`
	EntryDate       string          `json:"entry_date"`
	ThirdPartyID    string          `json:"third_party_id"`
	Branch          string          `json:"branch"`
	ThirdPartyName  string          `json:"third_party_name"`
	Description     string          `json:"description"`
	Detail          string          `json:"detail"`
	CostCenter      string          `json:"cost_center"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	MovementBalance decimal.Decimal `json:"movement_balance"`
}

// CashFlowGroup pairs a header with its details. Ownership is
// positional: a detail belongs to the most recently parsed header.
type CashFlowGroup struct {
	Header  CashFlowHeader   `json:"header"`
	Details []CashFlowDetail `json:"details"`
}

// CashFlowSaveResult is the outcome of one multi-group cash-flow
// submission. HeaderIDs are the generated identifiers in insertion
// order; empty when the transaction rolled back.
type CashFlowSaveResult struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	HeaderIDs    []int64         `json:"header_ids"`
	TotalDetails int             `json:"total_details"`
	TotalDebit   decimal.Decimal `json:"total_debit"`
	TotalCredit  decimal.Decimal `json:"total_credit"`
}
