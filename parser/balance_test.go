package parser

import (
	"strings"
	"testing"

	"github.com/DanielFlorido/ledgerload/internal/apierror"
	"github.com/stretchr/testify/assert"
)

var balanceHeader = []string{
	"Level", "Transactional", "Account Code", "Account Name",
	"Third Party ID", "Branch", "Third Party Name",
	"Opening Balance", "Debit Movement", "Credit Movement", "Closing Balance",
}

// balanceSheet builds raw rows shaped like a real export: seven filler
// rows, the header on row 8, then data.
func balanceSheet(data ...[]string) [][]string {
	rows := make([][]string, 0, balanceHeaderOffset+1+len(data))
	for i := 0; i < balanceHeaderOffset; i++ {
		rows = append(rows, []string{"Company Ltd"})
	}
	rows = append(rows, balanceHeader)
	rows = append(rows, data...)
	return rows
}

func balanceDataRow(level, transactional, code, name string) []string {
	return []string{level, transactional, code, name, "900123456", "01", "Acme", "100.00", "50.00", "25.00", "125.00"}
}

func TestParseBalance(t *testing.T) {
	rows := balanceSheet(
		balanceDataRow("Class", "No", "1", "Assets"),
		balanceDataRow("Account", "Yes", "1105.0", "Cash"),
	)

	parsed, err := ParseBalance(rows)
	assert.NoError(t, err)
	assert.Len(t, parsed, 2)

	assert.Equal(t, "Class", parsed[0].Level)
	assert.Equal(t, "No", parsed[0].Transactional)
	assert.Equal(t, "1", parsed[0].AccountCode)

	// Float-looking account codes are truncated to integer strings.
	assert.Equal(t, "1105", parsed[1].AccountCode)
	assert.Equal(t, "Yes", parsed[1].Transactional)
	assert.True(t, parsed[1].OpeningBalance.Equal(CleanNumeric("100.00")))
}

func TestParseBalanceStopsAtBlankSentinel(t *testing.T) {
	rows := balanceSheet(
		balanceDataRow("Class", "No", "1", "Assets"),
		[]string{"", "", "", "", "", "", "", "", "", "", ""},
		balanceDataRow("Class", "No", "2", "Liabilities"),
	)

	parsed, err := ParseBalance(rows)
	assert.NoError(t, err)
	// Rows after the sentinel are never processed, even when populated.
	assert.Len(t, parsed, 1)
	assert.Equal(t, "1", parsed[0].AccountCode)
}

func TestParseBalanceSentinelChecksKeyFieldsOnly(t *testing.T) {
	// Balances present but the three key cells blank: still a sentinel.
	rows := balanceSheet(
		balanceDataRow("Class", "No", "1", "Assets"),
		[]string{"", "", "", "", "", "", "", "999.00", "0", "0", "999.00"},
	)

	parsed, err := ParseBalance(rows)
	assert.NoError(t, err)
	assert.Len(t, parsed, 1)
}

func TestParseBalanceMissingColumns(t *testing.T) {
	rows := balanceSheet()
	rows[balanceHeaderOffset] = []string{"Level", "Account Code", "Account Name"}

	_, err := ParseBalance(rows)
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrInvalidInput, apiErr.Code)
	assert.True(t, strings.Contains(apiErr.Message, "Transactional"))
	assert.True(t, strings.Contains(apiErr.Message, "Closing Balance"))
}

func TestParseBalanceEmptySheet(t *testing.T) {
	_, err := ParseBalance(balanceSheet())
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrEmptyData, apiErr.Code)
}

func TestParseBalanceFirstRowBlankIsEmptyData(t *testing.T) {
	rows := balanceSheet(
		[]string{"", "", "", ""},
		balanceDataRow("Class", "No", "1", "Assets"),
	)

	_, err := ParseBalance(rows)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrEmptyData, apiErr.Code)
}

func TestParseBalanceBadAccountCodeIsFatal(t *testing.T) {
	rows := balanceSheet(
		balanceDataRow("Class", "No", "1", "Assets"),
		balanceDataRow("Account", "No", "twelve", "Cash"),
	)

	_, err := ParseBalance(rows)
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	// Row numbers are 1-based and offset by the header skip.
	assert.Contains(t, apiErr.Message, "row 9")
}

func TestNormalizeTransactional(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Yes", "Yes"},
		{"yes", "Yes"},
		{"Si", "Yes"},
		{"No", "No"},
		{"", "No"},
		{"nan", "No"},
		{"maybe", "No"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeTransactional(tt.input), "input %q", tt.input)
	}
}

func TestParseBalanceRaggedRows(t *testing.T) {
	// excelize drops trailing blank cells; short rows must not panic.
	rows := balanceSheet([]string{"Class", "No", "1", "Assets"})

	parsed, err := ParseBalance(rows)
	assert.NoError(t, err)
	assert.Len(t, parsed, 1)
	assert.True(t, parsed[0].OpeningBalance.IsZero())
	assert.Equal(t, "", parsed[0].ThirdPartyID)
}
