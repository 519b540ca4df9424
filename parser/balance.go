package parser

import (
	"fmt"
	"strings"

	"github.com/DanielFlorido/ledgerload/internal/apierror"
	"github.com/DanielFlorido/ledgerload/model"
)

// balanceHeaderOffset is the number of rows preceding the header row in
// a General Balance export: the header sits on spreadsheet row 8.
const balanceHeaderOffset = 7

// balanceColumns are the eleven named columns a General Balance export
// must carry, in file order.
var balanceColumns = []string{
	"Level",
	"Transactional",
	"Account Code",
	"Account Name",
	"Third Party ID",
	"Branch",
	"Third Party Name",
	"Opening Balance",
	"Debit Movement",
	"Credit Movement",
	"Closing Balance",
}

// ParseBalance reads a General Balance sheet. Iteration stops at the
// first row whose three key cells (level, account code, account name)
// are all blank; rows after the sentinel are never processed even when
// populated. A row that cannot be constructed aborts the whole parse
// with its spreadsheet row number.
func ParseBalance(rows [][]string) ([]model.BalanceRow, error) {
	if len(rows) <= balanceHeaderOffset {
		return nil, apierror.NewAPIError(apierror.ErrEmptyData, "no valid data rows found in the spreadsheet", nil)
	}

	header := rows[balanceHeaderOffset]
	idx := columnIndex(header)
	if missing := missingColumns(idx, balanceColumns); len(missing) > 0 {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput,
			fmt.Sprintf("spreadsheet is missing required columns: %s", strings.Join(missing, ", ")), nil)
	}

	col := func(row []string, name string) string {
		return cellAt(row, idx[strings.ToLower(name)])
	}

	var parsed []model.BalanceRow
	for i, row := range rows[balanceHeaderOffset+1:] {
		if isKeyFieldsBlank(col(row, "Level"), col(row, "Account Code"), col(row, "Account Name")) {
			break
		}

		// Matches the 1-based numbering of the source file: the first
		// data row reports as row 8 plus its zero-based index.
		rowNum := i + balanceHeaderOffset + 1

		accountCode, err := cleanAccountCode(col(row, "Account Code"))
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInvalidInput,
				fmt.Sprintf("error in row %d: invalid account code %q", rowNum, col(row, "Account Code")), err)
		}

		parsed = append(parsed, model.BalanceRow{
			Level:          CleanString(col(row, "Level")),
			Transactional:  normalizeTransactional(col(row, "Transactional")),
			AccountCode:    accountCode,
			AccountName:    CleanString(col(row, "Account Name")),
			ThirdPartyID:   CleanString(col(row, "Third Party ID")),
			Branch:         CleanString(col(row, "Branch")),
			ThirdPartyName: CleanString(col(row, "Third Party Name")),
			OpeningBalance: CleanNumeric(col(row, "Opening Balance")),
			DebitMovement:  CleanNumeric(col(row, "Debit Movement")),
			CreditMovement: CleanNumeric(col(row, "Credit Movement")),
			ClosingBalance: CleanNumeric(col(row, "Closing Balance")),
		})
	}

	if len(parsed) == 0 {
		return nil, apierror.NewAPIError(apierror.ErrEmptyData, "no valid data rows found in the spreadsheet", nil)
	}

	return parsed, nil
}

// isKeyFieldsBlank is the end-of-data sentinel for balance sheets: the
// three identifying cells all empty.
func isKeyFieldsBlank(level, accountCode, accountName string) bool {
	return CleanString(level) == "" && CleanString(accountCode) == "" && CleanString(accountName) == ""
}

// normalizeTransactional coerces the tri-state transactional flag to
// "Yes" or "No", defaulting to "No" on anything unrecognized.
func normalizeTransactional(value string) string {
	switch strings.ToLower(CleanString(value)) {
	case "yes", "y", "si", "sí":
		return "Yes"
	default:
		return "No"
	}
}
