package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Spreadsheet exports are tolerant by nature: a malformed cell degrades
// to a safe default instead of aborting the parse. Rows that cannot be
// constructed at all are handled one level up, in the parsers.

// dateLayouts is the fixed priority order for textual date cells:
// day/month/year first, then year/month/day, then month/day/year.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"2006-01-02 15:04:05",
}

// CleanNumeric converts a raw cell to an exact decimal. Blank and
// nan-like cells become zero, thousands separators are stripped, and a
// value that still fails to parse becomes zero rather than an error.
func CleanNumeric(value string) decimal.Decimal {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "nan") {
		return decimal.Zero
	}

	value = strings.ReplaceAll(value, ",", "")
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// CleanString trims a raw cell, mapping nan-like values to the empty
// string sentinel. Optional fields are never null, always "".
func CleanString(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "nan") {
		return ""
	}
	return value
}

// CleanDate normalizes a raw date cell to outputLayout. Textual forms
// are tried in the fixed dateLayouts order; numeric cells are treated
// as Excel serial dates. Returns "" when nothing matches.
func CleanDate(value string, outputLayout string) string {
	value = CleanString(value)
	if value == "" {
		return ""
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(outputLayout)
		}
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.Format(outputLayout)
		}
	}

	return ""
}

// cleanAccountCode coerces an account-code cell, which may arrive as a
// floating-point-looking string ("1105.0"), to an integer-valued
// string by truncation. Unlike cell cleaning this is fatal on failure:
// a row without a readable account code cannot be constructed.
func cleanAccountCode(value string) (string, error) {
	value = CleanString(value)
	f, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(int64(f), 10), nil
}
