package ledgerload

import (
	"fmt"
	"regexp"

	"github.com/DanielFlorido/ledgerload/model"
)

var submissionDatePattern = regexp.MustCompile(`^\d{8}$`)

// ValidationResult accumulates everything wrong with a submission's
// rows. Valid is true only when Errors is empty.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidateBalanceRows checks a parsed balance submission before any
// database work. Unlike ValidateStructure it accumulates: every
// violation is reported, each with the spreadsheet row it came from.
func ValidateBalanceRows(rows []model.BalanceRow, date, clientID string) ValidationResult {
	var errs []string

	if !submissionDatePattern.MatchString(date) {
		errs = append(errs, fmt.Sprintf("date %q must be an 8-digit YYYYMMDD string", date))
	}
	if clientID == "" {
		errs = append(errs, "client id must not be blank")
	}

	for i, row := range rows {
		rowNum := i + balanceDataRowStart
		if row.Level == "" {
			errs = append(errs, fmt.Sprintf("row %d: level is required", rowNum))
		}
		if row.AccountCode == "" {
			errs = append(errs, fmt.Sprintf("row %d: account code is required", rowNum))
		}
		if row.AccountName == "" {
			errs = append(errs, fmt.Sprintf("row %d: account name is required", rowNum))
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// balanceDataRowStart matches the parser's numbering: the first data
// row of a balance export reports as spreadsheet row 8.
const balanceDataRowStart = 8

// ValidateStructure checks cash-flow groups eagerly, returning the
// first violation. Balance checks between headers and details happen
// later, against persisted sums, inside the save transaction.
func ValidateStructure(groups []model.CashFlowGroup) (bool, string) {
	if len(groups) == 0 {
		return false, "no cash flow groups found in the spreadsheet"
	}

	for i, group := range groups {
		if group.Header.AccountCode == "" {
			return false, fmt.Sprintf("group %d: header has no account code", i+1)
		}
		if len(group.Details) == 0 {
			return false, fmt.Sprintf("group %d (account %s): header has no detail rows", i+1, group.Header.AccountCode)
		}
		for j, detail := range group.Details {
			if detail.AccountCode == "" {
				return false, fmt.Sprintf("group %d (account %s): detail %d has no account code", i+1, group.Header.AccountCode, j+1)
			}
		}
	}

	return true, ""
}
