package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
)

const auditSchema = `CREATE TABLE IF NOT EXISTS staff_actions (
	id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	event_id    CHAR(36)     NOT NULL,
	action      VARCHAR(64)  NOT NULL,
	target_id   VARCHAR(64)  NOT NULL,
	admin_id    VARCHAR(64)  NOT NULL,
	admin_name  VARCHAR(255) NOT NULL DEFAULT '',
	before_json JSON         NULL,
	after_json  JSON         NULL,
	occurred_at DATETIME(3)  NOT NULL,
	UNIQUE KEY uq_staff_actions_event (event_id),
	KEY idx_staff_actions_target (target_id),
	KEY idx_staff_actions_occurred (occurred_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// AuditRepo stores staff actions in the staff_actions table.
type AuditRepo struct{ DB *sql.DB }

func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{DB: db} }

// EnsureSchema creates the table when it does not exist.
func (r *AuditRepo) EnsureSchema(ctx context.Context) error {
	if r == nil || r.DB == nil {
		return ErrUnavailable
	}
	_, err := r.DB.ExecContext(ctx, auditSchema)
	return err
}

// Record inserts one entry.  A second insert of the same event id returns
// ErrDuplicate.
func (r *AuditRepo) Record(ctx context.Context, e model.AuditEntry) error {
	if r == nil || r.DB == nil {
		return ErrUnavailable
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO staff_actions (event_id, action, target_id, admin_id, admin_name, before_json, after_json, occurred_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		e.EventID, e.Action, e.TargetID, e.AdminID, e.AdminName,
		nullJSON(e.Before), nullJSON(e.After), e.OccurredAt.UTC())
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return ErrDuplicate
	}
	return err
}

// List returns the newest entries first.  A non-empty targetID narrows the
// result to one reservation or review.
func (r *AuditRepo) List(ctx context.Context, targetID string, limit int) ([]model.AuditEntry, error) {
	if r == nil || r.DB == nil {
		return nil, ErrUnavailable
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := `SELECT event_id, action, target_id, admin_id, admin_name, before_json, after_json, occurred_at
	      FROM staff_actions`
	args := []any{}
	if targetID != "" {
		q += " WHERE target_id=?"
		args = append(args, targetID)
	}
	q += " ORDER BY occurred_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.AuditEntry, 0, limit)
	for rows.Next() {
		var (
			e             model.AuditEntry
			before, after sql.NullString
		)
		if err := rows.Scan(&e.EventID, &e.Action, &e.TargetID, &e.AdminID, &e.AdminName, &before, &after, &e.OccurredAt); err != nil {
			return nil, err
		}
		if before.Valid {
			e.Before = []byte(before.String)
		}
		if after.Valid {
			e.After = []byte(after.String)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
