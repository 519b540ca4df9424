package parser

import (
	"fmt"
	"strings"

	"github.com/DanielFlorido/ledgerload/internal/apierror"
	"github.com/DanielFlorido/ledgerload/model"
)

// headerMarker flags rollup rows in exports that repeat the account
// code in the voucher columns: an account-code cell starting with this
// text is a header regardless of the voucher/sequence rule.
const headerMarker = "total"

// entryDateLayout is the wire form the persistence layer expects for
// detail dates (day/month/year, unlike the ISO form used elsewhere).
const entryDateLayout = "02/01/2006"

// cashFlowColumns are the sixteen named columns of a Cash Flow export.
var cashFlowColumns = []string{
	"Account Code",
	"Account Name",
	"Voucher",
	"Sequence",
	"Entry Date",
	"Third Party ID",
	"Branch",
	"Third Party Name",
	"Description",
	"Detail",
	"Cost Center",
	"Opening Balance",
	"Debit",
	"Credit",
	"Movement Balance",
	"Closing Balance",
}

// RowKind tags the outcome of classifying one cash-flow row.
type RowKind int

const (
	HeaderRow RowKind = iota
	DetailRow
)

// CashFlowOptions carries the export-variant knobs. HeaderOffset is
// the number of rows above the column header: 0 for the row-1 variant,
// 7 for the row-8 variant.
type CashFlowOptions struct {
	HeaderOffset int
}

// ClassifyRow decides whether a row is a header or a detail. A row
// with neither voucher nor sequence is a header, as is any row whose
// account code starts with the marker text (case-insensitive).
func ClassifyRow(voucher, sequence, accountCode string) RowKind {
	if CleanString(voucher) == "" && CleanString(sequence) == "" {
		return HeaderRow
	}
	if strings.HasPrefix(strings.ToLower(CleanString(accountCode)), headerMarker) {
		return HeaderRow
	}
	return DetailRow
}

// ParseCashFlow reads a Cash Flow sheet into ordered header/detail
// groups. Association is purely positional: a header closes the
// previous group and opens a new one, a detail appends to the open
// group. A detail before any header is a structural error. Iteration
// stops at the first row blank across all columns, a stricter sentinel
// than the balance parser's key-field check.
func ParseCashFlow(rows [][]string, opts CashFlowOptions) ([]model.CashFlowGroup, error) {
	if len(rows) <= opts.HeaderOffset {
		return nil, apierror.NewAPIError(apierror.ErrEmptyData, "no valid data rows found in the spreadsheet", nil)
	}

	header := rows[opts.HeaderOffset]
	idx := columnIndex(header)
	if missing := missingColumns(idx, cashFlowColumns); len(missing) > 0 {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput,
			fmt.Sprintf("spreadsheet is missing required columns: %s", strings.Join(missing, ", ")), nil)
	}

	col := func(row []string, name string) string {
		return cellAt(row, idx[strings.ToLower(name)])
	}

	var groups []model.CashFlowGroup
	var current *model.CashFlowGroup

	for i, row := range rows[opts.HeaderOffset+1:] {
		if isRowBlank(row) {
			break
		}

		rowNum := i + opts.HeaderOffset + 2

		kind := ClassifyRow(col(row, "Voucher"), col(row, "Sequence"), col(row, "Account Code"))
		if kind == HeaderRow {
			if current != nil {
				groups = append(groups, *current)
			}
			current = &model.CashFlowGroup{
				Header: model.CashFlowHeader{
					AccountCode:    CleanString(col(row, "Account Code")),
					AccountName:    CleanString(col(row, "Account Name")),
					OpeningBalance: CleanNumeric(col(row, "Opening Balance")),
					Debit:          CleanNumeric(col(row, "Debit")),
					Credit:         CleanNumeric(col(row, "Credit")),
					ClosingBalance: CleanNumeric(col(row, "Closing Balance")),
				},
			}
			continue
		}

		if current == nil {
			return nil, apierror.NewAPIError(apierror.ErrInvalidInput,
				fmt.Sprintf("detail row %d has no preceding header", rowNum), nil)
		}

		current.Details = append(current.Details, model.CashFlowDetail{
			AccountCode:     CleanString(col(row, "Account Code")),
			AccountName:     CleanString(col(row, "Account Name")),
			Voucher:         CleanString(col(row, "Voucher")),
			Sequence:        CleanString(col(row, "Sequence")),
			EntryDate:       CleanDate(col(row, "Entry Date"), entryDateLayout),
			ThirdPartyID:    CleanString(col(row, "Third Party ID")),
			Branch:          CleanString(col(row, "Branch")),
			ThirdPartyName:  CleanString(col(row, "Third Party Name")),
			Description:     CleanString(col(row, "Description")),
			Detail:          CleanString(col(row, "Detail")),
			CostCenter:      CleanString(col(row, "Cost Center")),
			Debit:           CleanNumeric(col(row, "Debit")),
			Credit:          CleanNumeric(col(row, "Credit")),
			MovementBalance: CleanNumeric(col(row, "Movement Balance")),
		})
	}

	if current != nil {
		groups = append(groups, *current)
	}

	return groups, nil
}

// isRowBlank reports whether every cell in the row is empty.
func isRowBlank(row []string) bool {
	for _, cell := range row {
		if CleanString(cell) != "" {
			return false
		}
	}
	return true
}
