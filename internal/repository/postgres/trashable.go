package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"ifinsure/internal/model"
)

// Soft-delete helpers shared by the trashable tables. Table names are
// compile-time constants, never user input.

func trashRow(ctx context.Context, db *sql.DB, table, id string, tr model.Trashable) error {
	q := fmt.Sprintf(`
		UPDATE %s
		SET trashed_at = $2, trashed_by = $3, trash_reason = $4, permanent_delete_at = $5, updated_at = now()
		WHERE id = $1 AND trashed_at IS NULL
	`, table)
	_, err := db.ExecContext(ctx, q, id, tr.TrashedAt, tr.TrashedByID, tr.TrashReason, tr.PermanentDeleteAt)
	return err
}

func restoreRow(ctx context.Context, db *sql.DB, table, id string) error {
	q := fmt.Sprintf(`
		UPDATE %s
		SET trashed_at = NULL, trashed_by = NULL, trash_reason = '', permanent_delete_at = NULL, updated_at = now()
		WHERE id = $1
	`, table)
	_, err := db.ExecContext(ctx, q, id)
	return err
}

func purgeRow(ctx context.Context, db *sql.DB, table, id string) error {
	q := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table)
	_, err := db.ExecContext(ctx, q, id)
	return err
}
