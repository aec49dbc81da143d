package document_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/id"
	"stockbook/internal/domain/posting"
	"stockbook/internal/infrastructure/storage/postgres"
)

// StatusStore implements posting.DocumentStore against one document
// table. The posting engine gets one per document type.
type StatusStore struct {
	txManager *postgres.TxManager
	tableName string
}

var _ posting.DocumentStore = (*StatusStore)(nil)

// NewStatusStore creates a status store for the given document table.
func NewStatusStore(txManager *postgres.TxManager, tableName string) *StatusStore {
	return &StatusStore{txManager: txManager, tableName: tableName}
}

// LockStatus locks the document row FOR UPDATE and returns its status
// and version. Concurrent posts of the same document serialize on this
// lock; the version tells the caller whether the row still matches the
// snapshot it derived its operations from.
func (s *StatusStore) LockStatus(ctx context.Context, tenantID, docID id.ID) (entity.DocumentStatus, int, error) {
	sql := fmt.Sprintf(`
		SELECT status, version FROM %s
		WHERE tenant_id = $1 AND id = $2
		FOR UPDATE
	`, s.tableName)

	var (
		status  entity.DocumentStatus
		version int
	)
	querier := s.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, tenantID, docID).Scan(&status, &version); err != nil {
		if isNoRows(err) {
			return "", 0, apperror.NewNotFound(s.tableName, docID.String())
		}
		return "", 0, postgres.MapLockError(fmt.Errorf("lock status: %w", err))
	}

	return status, version, nil
}

// SetStatus transitions the document between lifecycle states. The
// WHERE clause on the current status makes the transition atomic: zero
// rows affected means someone else moved the document first.
func (s *StatusStore) SetStatus(ctx context.Context, tenantID, docID id.ID, from, to entity.DocumentStatus) error {
	sql := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, version = version + 1, updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3 AND status = $4
	`, s.tableName)

	querier := s.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, to, tenantID, docID, from)
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(s.tableName, docID.String())
	}

	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
