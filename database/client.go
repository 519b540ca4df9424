package database

import (
	"context"
	"database/sql"

	"github.com/DanielFlorido/ledgerload/internal/apierror"
	"github.com/DanielFlorido/ledgerload/model"
)

const clientByDocumentSQL = `
	SELECT client_id, name
	FROM ledgerload.clients
	WHERE document_number = $1
`

// GetClientByDocument resolves a client from its external document
// number. Stored rows are keyed by the internal ClientID, never by the
// document.
func (d Datasource) GetClientByDocument(ctx context.Context, document string) (*model.Client, error) {
	return scanClient(d.Conn.QueryRowContext(ctx, clientByDocumentSQL, document))
}

// resolveClientTx is the transaction-scoped variant used by the save
// engines, so the lookup shares the submission's connection.
func resolveClientTx(ctx context.Context, tx *sql.Tx, document string) (*model.Client, error) {
	return scanClient(tx.QueryRowContext(ctx, clientByDocumentSQL, document))
}

func scanClient(row *sql.Row) (*model.Client, error) {
	client := model.Client{}
	err := row.Scan(&client.ClientID, &client.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Client not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve client", err)
	}
	return &client, nil
}
