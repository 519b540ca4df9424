package ledgerload

import (
	"log"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/DanielFlorido/ledgerload/config"
	"github.com/DanielFlorido/ledgerload/database"
	"github.com/DanielFlorido/ledgerload/jobs"
)

var balanceSheetHeader = []interface{}{
	"Level", "Transactional", "Account Code", "Account Name",
	"Third Party ID", "Branch", "Third Party Name",
	"Opening Balance", "Debit Movement", "Credit Movement", "Closing Balance",
}

var cashFlowSheetHeader = []interface{}{
	"Account Code", "Account Name", "Voucher", "Sequence", "Entry Date",
	"Third Party ID", "Branch", "Third Party Name", "Description", "Detail",
	"Cost Center", "Opening Balance", "Debit", "Credit", "Movement Balance", "Closing Balance",
}

func newTestService(t *testing.T) (*Ledgerload, sqlmock.Sqlmock, *jobs.MemoryStore) {
	t.Helper()
	config.MockConfig(&config.Configuration{
		Validation: config.ValidationConfig{DiscrepancyLimit: config.DefaultDiscrepancyLimit},
	})

	db, mock, err := sqlmock.New()
	if err != nil {
		log.Printf("an error '%s' was not expected when opening a stub database Connection", err)
		t.FailNow()
	}
	t.Cleanup(func() { _ = db.Close() })

	store := jobs.NewMemoryStore()
	service, err := NewLedgerload(database.Datasource{Conn: db}, store)
	require.NoError(t, err)
	return service, mock, store
}

// writeSheet builds a one-sheet .xlsx file with the given rows placed
// starting at startRow (1-based).
func writeSheet(t *testing.T, startRow int, header []interface{}, rows ...[]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	cell, err := excelize.CoordinatesToCellName(1, startRow)
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow(sheet, cell, &header))

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, startRow+1+i)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "upload.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func balanceFileRow(level, transactional, code, name string) []interface{} {
	return []interface{}{level, transactional, code, name, "900123456", "01", "Acme", 100.0, 50.0, 25.0, 125.0}
}
