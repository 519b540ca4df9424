package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/DanielFlorido/ledgerload/config"
	"github.com/DanielFlorido/ledgerload/internal/apierror"
	"github.com/DanielFlorido/ledgerload/model"
)

// tolerance is the absolute threshold below which numeric
// discrepancies are ignored, in currency units.
var tolerance = decimal.New(1, -2)

const insertBalanceRowSQL = `
	SELECT ledgerload.balance_row_insert($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

// SaveBalanceSubmission persists a general-balance submission inside a
// single transaction: insert every row, resolve the client, compute
// totals and discrepancies against the uncommitted rows, then commit
// only when the validation gates pass. The first insert failure rolls
// everything back. Discrepancies and an unbalanced accounting equation
// are advisory unless strict validation is configured.
func (d Datasource) SaveBalanceSubmission(ctx context.Context, rows []model.BalanceRow, date, clientDocument string) (model.BalanceSaveResult, error) {
	started := time.Now()
	result := model.BalanceSaveResult{Errors: []string{}}

	cnf, err := config.Fetch()
	if err != nil {
		return result, err
	}

	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return result, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}

	fail := func(message string, cause error) (model.BalanceSaveResult, error) {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			logrus.WithError(rbErr).Error("rollback failed after balance save error")
		}
		result.Success = false
		result.Message = message
		result.ExecutionSeconds = time.Since(started).Seconds()
		if cause != nil {
			result.Errors = append(result.Errors, cause.Error())
			return result, apierror.NewAPIError(apierror.ErrInternalServer, message, cause)
		}
		return result, apierror.NewAPIError(apierror.ErrValidation, message, nil)
	}

	for i, row := range rows {
		_, err := tx.ExecContext(ctx, insertBalanceRowSQL,
			clientDocument, date,
			row.Level, row.Transactional, row.AccountCode, row.AccountName,
			row.ThirdPartyID, row.Branch, row.ThirdPartyName,
			row.OpeningBalance, row.DebitMovement, row.CreditMovement, row.ClosingBalance,
		)
		if err != nil {
			return fail(fmt.Sprintf("row %d insert failed (account %s)", i+1, row.AccountCode), wrapPQError(err))
		}
	}
	result.RowsInserted = len(rows)

	client, err := resolveClientTx(ctx, tx, clientDocument)
	if err != nil {
		if apiErr, ok := err.(apierror.APIError); ok && apiErr.Code == apierror.ErrNotFound {
			return fail(fmt.Sprintf("client not found for document %s", clientDocument), nil)
		}
		return fail("client lookup failed", err)
	}

	totals, err := queryGeneralTotals(ctx, tx, client.ClientID, date)
	if err != nil {
		return fail("failed to compute general totals", err)
	}
	result.Totals = &totals

	classTotals, err := queryClassTotals(ctx, tx, client.ClientID, date)
	if err != nil {
		return fail("failed to compute class totals", err)
	}
	result.ClassTotals = &classTotals

	equation := equationFromClassTotals(classTotals)
	result.Equation = &equation

	discrepancies, err := queryRowDiscrepancies(ctx, tx, client.ClientID, date, cnf.Validation.DiscrepancyLimit)
	if err != nil {
		return fail("failed to compute row discrepancies", err)
	}
	result.Discrepancies = discrepancies
	result.DiscrepancyCount = len(discrepancies)

	if totals.TotalRecords == 0 {
		return fail(fmt.Sprintf("no rows counted for client %s on date %s", clientDocument, date), nil)
	}
	if cnf.Validation.Strict && equation.Difference.GreaterThan(tolerance) {
		return fail(fmt.Sprintf("accounting equation out of balance by %s", equation.Difference), nil)
	}

	if err := tx.Commit(); err != nil {
		return fail("commit failed", err)
	}

	result.Success = true
	result.Message = fmt.Sprintf("inserted %d rows", result.RowsInserted)
	if result.DiscrepancyCount > 0 {
		result.Message = fmt.Sprintf("inserted %d rows with %d balance discrepancies", result.RowsInserted, result.DiscrepancyCount)
	}
	result.ExecutionSeconds = time.Since(started).Seconds()
	return result, nil
}

// InsertBalanceRows is the continue-on-error bulk path: each row is
// inserted and committed independently, failures are collected and the
// loop keeps going. Used only by the synchronous bulk endpoint; the
// async pipeline always goes through SaveBalanceSubmission.
func (d Datasource) InsertBalanceRows(ctx context.Context, rows []model.BalanceRow, date, clientDocument string) (model.BulkInsertResult, error) {
	result := model.BulkInsertResult{Errors: []string{}}

	for i, row := range rows {
		_, err := d.Conn.ExecContext(ctx, insertBalanceRowSQL,
			clientDocument, date,
			row.Level, row.Transactional, row.AccountCode, row.AccountName,
			row.ThirdPartyID, row.Branch, row.ThirdPartyName,
			row.OpeningBalance, row.DebitMovement, row.CreditMovement, row.ClosingBalance,
		)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			logrus.WithError(err).WithField("row", i+1).Warn("bulk balance insert failed for row")
			continue
		}
		result.Successful++
	}

	return result, nil
}

func queryGeneralTotals(ctx context.Context, tx *sql.Tx, clientID, date string) (model.GeneralTotals, error) {
	var totals model.GeneralTotals
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(opening_balance), 0),
			COALESCE(SUM(debit_movement), 0),
			COALESCE(SUM(credit_movement), 0),
			COALESCE(SUM(closing_balance), 0),
			COALESCE(SUM(debit_movement - credit_movement), 0)
		FROM ledgerload.balance_rows
		WHERE client_id = $1 AND balance_date = $2
	`, clientID, date).Scan(
		&totals.TotalRecords,
		&totals.SumOpeningBalance,
		&totals.SumDebitMovement,
		&totals.SumCreditMovement,
		&totals.SumClosingBalance,
		&totals.SumMonthlyMovement,
	)
	return totals, err
}

// queryClassTotals partitions class-level closing balances by the
// leading digit of the account code. Only non-transactional "Class"
// rows count, matching how the export rolls its hierarchy up.
func queryClassTotals(ctx context.Context, tx *sql.Tx, clientID, date string) (model.ClassTotals, error) {
	var totals model.ClassTotals
	err := tx.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN LEFT(account_code, 1) = '1' THEN closing_balance END), 0),
			COALESCE(SUM(CASE WHEN LEFT(account_code, 1) = '2' THEN closing_balance END), 0),
			COALESCE(SUM(CASE WHEN LEFT(account_code, 1) = '3' THEN closing_balance END), 0),
			COALESCE(SUM(CASE WHEN LEFT(account_code, 1) = '4' THEN closing_balance END), 0),
			COALESCE(SUM(CASE WHEN LEFT(account_code, 1) = '5' THEN closing_balance END), 0)
		FROM ledgerload.balance_rows
		WHERE client_id = $1 AND balance_date = $2
			AND account_level = 'Class' AND transactional = 'No'
	`, clientID, date).Scan(
		&totals.Class1, &totals.Class2, &totals.Class3, &totals.Class4, &totals.Class5,
	)
	return totals, err
}

func equationFromClassTotals(totals model.ClassTotals) model.AccountingEquation {
	return model.AccountingEquation{
		Assets:      totals.Class1,
		Liabilities: totals.Class2,
		Equity:      totals.Class3,
		Income:      totals.Class4,
		Expenses:    totals.Class5,
		Difference:  totals.Class1.Sub(totals.Class2.Add(totals.Class3)).Abs(),
	}
}

func queryRowDiscrepancies(ctx context.Context, tx *sql.Tx, clientID, date string, limit int) ([]model.RowDiscrepancy, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, account_level, account_code, account_name, third_party_id, third_party_name,
			opening_balance, debit_movement, credit_movement, closing_balance,
			opening_balance + debit_movement - credit_movement AS computed_balance,
			ABS(closing_balance - (opening_balance + debit_movement - credit_movement)) AS difference
		FROM ledgerload.balance_rows
		WHERE client_id = $1 AND balance_date = $2
			AND ABS(closing_balance - (opening_balance + debit_movement - credit_movement)) > 0.01
		ORDER BY difference DESC
		LIMIT $3
	`, clientID, date, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var discrepancies []model.RowDiscrepancy
	for rows.Next() {
		var d model.RowDiscrepancy
		err = rows.Scan(
			&d.ID, &d.Level, &d.AccountCode, &d.AccountName, &d.ThirdPartyID, &d.ThirdPartyName,
			&d.OpeningBalance, &d.DebitMovement, &d.CreditMovement, &d.ClosingBalance,
			&d.ComputedBalance, &d.Difference,
		)
		if err != nil {
			return nil, err
		}
		discrepancies = append(discrepancies, d)
	}

	return discrepancies, rows.Err()
}

// wrapPQError maps driver errors into the API error taxonomy.
func wrapPQError(err error) error {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return err
	}
	switch pqErr.Code.Name() {
	case "unique_violation":
		return apierror.NewAPIError(apierror.ErrConflict, "Row already exists", err)
	case "foreign_key_violation":
		return apierror.NewAPIError(apierror.ErrBadRequest, "Row references a missing record", err)
	default:
		return apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
	}
}
