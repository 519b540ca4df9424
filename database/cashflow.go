package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/DanielFlorido/ledgerload/internal/apierror"
	"github.com/DanielFlorido/ledgerload/model"
)

const insertCashFlowHeaderSQL = `
	SELECT ledgerload.cashflow_header_insert($1, $2, $3, $4, $5, $6, $7, $8)
`

const insertCashFlowDetailSQL = `
	SELECT ledgerload.cashflow_detail_insert($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`

// SaveCashFlow persists all groups of a cash-flow submission in one
// transaction. Each group is inserted (header first, then its details)
// and immediately re-validated against the persisted detail sums; any
// group failing the balance check rolls back the entire submission,
// including groups that already inserted cleanly.
func (d Datasource) SaveCashFlow(ctx context.Context, groups []model.CashFlowGroup, date, clientDocument string) (model.CashFlowSaveResult, error) {
	started := time.Now()
	result := model.CashFlowSaveResult{}

	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return result, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}

	fail := func(message string, cause error) (model.CashFlowSaveResult, error) {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			logrus.WithError(rbErr).Error("rollback failed after cash flow save error")
		}
		result = model.CashFlowSaveResult{Success: false, Message: message}
		if cause != nil {
			return result, apierror.NewAPIError(apierror.ErrInternalServer, message, cause)
		}
		return result, apierror.NewAPIError(apierror.ErrValidation, message, nil)
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero

	for i, group := range groups {
		var headerID int64
		err := tx.QueryRowContext(ctx, insertCashFlowHeaderSQL,
			clientDocument, date,
			group.Header.AccountCode, group.Header.AccountName,
			group.Header.OpeningBalance, group.Header.Debit,
			group.Header.Credit, group.Header.ClosingBalance,
		).Scan(&headerID)
		if err != nil {
			return fail(fmt.Sprintf("group %d (account %s): header insert failed", i+1, group.Header.AccountCode), wrapPQError(err))
		}

		for j, detail := range group.Details {
			_, err := tx.ExecContext(ctx, insertCashFlowDetailSQL,
				headerID,
				detail.AccountCode, detail.AccountName,
				detail.Voucher, detail.Sequence, detail.EntryDate,
				detail.ThirdPartyID, detail.Branch, detail.ThirdPartyName,
				detail.Description, detail.Detail, detail.CostCenter,
				detail.Debit, detail.Credit, detail.MovementBalance,
			)
			if err != nil {
				return fail(fmt.Sprintf("group %d (account %s): detail %d insert failed", i+1, group.Header.AccountCode, j+1), wrapPQError(err))
			}
		}

		ok, message, err := validateGroupBalancesTx(ctx, tx, headerID, group.Header)
		if err != nil {
			return fail(fmt.Sprintf("group %d (account %s): balance validation failed", i+1, group.Header.AccountCode), err)
		}
		if !ok {
			return fail(message, nil)
		}

		result.HeaderIDs = append(result.HeaderIDs, headerID)
		result.TotalDetails += len(group.Details)
		totalDebit = totalDebit.Add(group.Header.Debit)
		totalCredit = totalCredit.Add(group.Header.Credit)
	}

	if err := tx.Commit(); err != nil {
		return fail("commit failed", err)
	}

	result.Success = true
	result.Message = fmt.Sprintf("inserted %d groups with %d details in %.2fs",
		len(result.HeaderIDs), result.TotalDetails, time.Since(started).Seconds())
	result.TotalDebit = totalDebit
	result.TotalCredit = totalCredit
	return result, nil
}

// validateGroupBalancesTx compares the header's declared debit and
// credit against the sums of its just-inserted details, read back from
// the uncommitted transaction so database-side rounding or defaulting
// is caught. Mismatch beyond the tolerance in either direction fails.
func validateGroupBalancesTx(ctx context.Context, tx *sql.Tx, headerID int64, header model.CashFlowHeader) (bool, string, error) {
	var sumDebit, sumCredit decimal.Decimal
	err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM ledgerload.cashflow_details
		WHERE header_id = $1
	`, headerID).Scan(&sumDebit, &sumCredit)
	if err != nil {
		return false, "", err
	}

	if header.Debit.Sub(sumDebit).Abs().GreaterThan(tolerance) {
		return false, fmt.Sprintf("account %s: header debit %s does not match detail sum %s",
			header.AccountCode, header.Debit, sumDebit), nil
	}
	if header.Credit.Sub(sumCredit).Abs().GreaterThan(tolerance) {
		return false, fmt.Sprintf("account %s: header credit %s does not match detail sum %s",
			header.AccountCode, header.Credit, sumCredit), nil
	}

	return true, "", nil
}
