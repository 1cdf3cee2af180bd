package audit

import (
	"context"
	"database/sql"

	"telephony-log/pkg/utils"
)

const Schema = `
CREATE TABLE IF NOT EXISTS audit_events (
  id              TEXT PRIMARY KEY,
  tenant_domain   TEXT NOT NULL,
  type            TEXT NOT NULL,
  conversation_id TEXT NOT NULL DEFAULT '',
  request_id      TEXT NOT NULL DEFAULT '',
  ip_address      TEXT NOT NULL DEFAULT '',
  actor           TEXT NOT NULL DEFAULT '',
  message         TEXT NOT NULL DEFAULT '',
  created_at      TIMESTAMPTZ NOT NULL
);
ALTER TABLE audit_events ADD COLUMN IF NOT EXISTS actor TEXT NOT NULL DEFAULT '';
CREATE INDEX IF NOT EXISTS audit_events_tenant_created_idx ON audit_events (tenant_domain, created_at DESC);
`

// EnsureSchema creates the audit table and index if missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	return utils.WithTx(ctx, db, nil, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, Schema)
		return err
	})
}

// PostgresRepo appends events to audit_events. It never updates or deletes.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO audit_events (
  id, tenant_domain, type, conversation_id, request_id, ip_address, actor, message, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9
)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.TenantDomain,
		string(e.Type),
		e.ConversationID,
		e.RequestID,
		e.IPAddress,
		e.Actor,
		e.Message,
		e.CreatedAt,
	)
	return err
}
