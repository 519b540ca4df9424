package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/DanielFlorido/ledgerload/model"
)

func testCashFlowGroup(code string, debit, credit string, details int) model.CashFlowGroup {
	group := model.CashFlowGroup{
		Header: model.CashFlowHeader{
			AccountCode: code,
			AccountName: "Account " + code,
			Debit:       decimal.RequireFromString(debit),
			Credit:      decimal.RequireFromString(credit),
		},
	}
	for i := 0; i < details; i++ {
		group.Details = append(group.Details, model.CashFlowDetail{
			AccountCode: code,
			Voucher:     "CE-001",
			Sequence:    "1",
			EntryDate:   "15/06/2024",
		})
	}
	return group
}

func expectGroupInsert(mock sqlmock.Sqlmock, headerID int64, details int, sumDebit, sumCredit string) {
	mock.ExpectQuery("ledgerload.cashflow_header_insert").
		WillReturnRows(sqlmock.NewRows([]string{"cashflow_header_insert"}).AddRow(headerID))
	for i := 0; i < details; i++ {
		mock.ExpectExec("ledgerload.cashflow_detail_insert").
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectQuery("FROM ledgerload.cashflow_details").
		WithArgs(headerID).
		WillReturnRows(sqlmock.NewRows([]string{"sum_debit", "sum_credit"}).AddRow(sumDebit, sumCredit))
}

func TestSaveCashFlow(t *testing.T) {
	d, mock := newTestDatasource(t)
	groups := []model.CashFlowGroup{
		testCashFlowGroup("1105", "100.00", "40.00", 2),
		testCashFlowGroup("2205", "60.00", "60.00", 1),
	}

	mock.ExpectBegin()
	expectGroupInsert(mock, 11, 2, "100.00", "40.00")
	expectGroupInsert(mock, 12, 1, "60.00", "60.00")
	mock.ExpectCommit()

	result, err := d.SaveCashFlow(context.Background(), groups, "20240630", "900123456")
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, []int64{11, 12}, result.HeaderIDs)
	assert.Equal(t, 3, result.TotalDetails)
	assert.True(t, result.TotalDebit.Equal(decimal.RequireFromString("160.00")))
	assert.True(t, result.TotalCredit.Equal(decimal.RequireFromString("100.00")))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveCashFlowGroupMismatchRollsBackEverything(t *testing.T) {
	d, mock := newTestDatasource(t)
	groups := []model.CashFlowGroup{
		testCashFlowGroup("1105", "100.00", "40.00", 1),
		testCashFlowGroup("2205", "100.00", "0", 1),
	}

	mock.ExpectBegin()
	expectGroupInsert(mock, 11, 1, "100.00", "40.00")
	// Group 2 declares debit 100.00 but its persisted details sum to 90.00.
	expectGroupInsert(mock, 12, 1, "90.00", "0")
	mock.ExpectRollback()

	result, err := d.SaveCashFlow(context.Background(), groups, "20240630", "900123456")
	assert.Error(t, err)
	// Group 1's otherwise-valid insert is undone with the rest.
	assert.False(t, result.Success)
	assert.Empty(t, result.HeaderIDs)
	assert.Contains(t, result.Message, "2205")
	assert.Contains(t, result.Message, "100")
	assert.Contains(t, result.Message, "90")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveCashFlowToleratesRounding(t *testing.T) {
	d, mock := newTestDatasource(t)
	groups := []model.CashFlowGroup{
		testCashFlowGroup("1105", "100.00", "40.00", 1),
	}

	mock.ExpectBegin()
	// Off by exactly the tolerance: still accepted.
	expectGroupInsert(mock, 11, 1, "100.01", "39.99")
	mock.ExpectCommit()

	result, err := d.SaveCashFlow(context.Background(), groups, "20240630", "900123456")
	assert.NoError(t, err)
	assert.True(t, result.Success)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveCashFlowHeaderInsertFailure(t *testing.T) {
	d, mock := newTestDatasource(t)
	groups := []model.CashFlowGroup{
		testCashFlowGroup("1105", "100.00", "40.00", 1),
	}

	mock.ExpectBegin()
	mock.ExpectQuery("ledgerload.cashflow_header_insert").
		WillReturnError(errors.New("function does not exist"))
	mock.ExpectRollback()

	result, err := d.SaveCashFlow(context.Background(), groups, "20240630", "900123456")
	assert.Error(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "header insert failed")

	assert.NoError(t, mock.ExpectationsWereMet())
}
