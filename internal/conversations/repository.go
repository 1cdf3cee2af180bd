package conversations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"telephony-log/pkg/utils"
)

// NOTE: PostgresStore assumes the conversations table from Schema exists.
// EnsureSchema creates it (and its indexes) idempotently.

const Schema = `
CREATE TABLE IF NOT EXISTS conversations (
  id            TEXT PRIMARY KEY,
  tenant_domain TEXT NOT NULL,
  caller_number TEXT NOT NULL,
  caller_name   TEXT NOT NULL DEFAULT '',
  callee_number TEXT NOT NULL,
  callee_name   TEXT NOT NULL DEFAULT '',
  direction     TEXT NOT NULL CHECK (direction IN ('inbound', 'outbound')),
  status        TEXT NOT NULL CHECK (status IN ('answered', 'missed', 'voicemail', 'busy')),
  start_time    TIMESTAMPTZ NOT NULL,
  end_time      TIMESTAMPTZ,
  duration      DOUBLE PRECISION CHECK (duration IS NULL OR duration >= 0),
  recording_url TEXT NOT NULL DEFAULT '',
  notes         TEXT NOT NULL DEFAULT '',
  tags          JSONB NOT NULL DEFAULT '[]'::jsonb,
  is_archived   BOOLEAN NOT NULL DEFAULT FALSE,
  metadata      JSONB,
  created_at    TIMESTAMPTZ NOT NULL,
  updated_at    TIMESTAMPTZ NOT NULL
);
ALTER TABLE conversations ALTER COLUMN duration TYPE DOUBLE PRECISION;
CREATE INDEX IF NOT EXISTS conversations_tenant_created_idx ON conversations (tenant_domain, created_at DESC);
CREATE INDEX IF NOT EXISTS conversations_direction_created_idx ON conversations (direction, created_at DESC);
CREATE INDEX IF NOT EXISTS conversations_start_time_idx ON conversations (start_time);
CREATE INDEX IF NOT EXISTS conversations_parties_idx ON conversations (caller_number, callee_number);
`

const selectColumns = `id, tenant_domain, caller_number, caller_name, callee_number, callee_name,
  direction, status, start_time, end_time, duration, recording_url, notes, tags,
  is_archived, metadata, created_at, updated_at`

// PostgresStore implements Store on database/sql with the pgx stdlib driver.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore { return &PostgresStore{db: db} }

// EnsureSchema applies Schema inside a transaction.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	return utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, Schema)
		return err
	})
}

// Ping checks connectivity for the readiness probe.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return utils.HealthCheck(ctx, s.db, 2*time.Second)
}

func (s *PostgresStore) Insert(ctx context.Context, c Conversation) error {
	const q = `
INSERT INTO conversations (
  id, tenant_domain, caller_number, caller_name, callee_number, callee_name,
  direction, status, start_time, end_time, duration, recording_url, notes, tags,
  is_archived, metadata, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18
)
`
	tags, err := marshalTags(c.Tags)
	if err != nil {
		return err
	}
	meta, err := marshalMetadata(c.Metadata)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, q,
		c.ID,
		c.TenantDomain,
		c.CallerNumber,
		c.CallerName,
		c.CalleeNumber,
		c.CalleeName,
		string(c.Direction),
		string(c.Status),
		c.StartTime,
		nullTime(c.EndTime),
		nullFloat(c.Duration),
		c.RecordingURL,
		c.Notes,
		tags,
		c.IsArchived,
		meta,
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func (s *PostgresStore) FindOne(ctx context.Context, p Predicate) (Conversation, bool, error) {
	rows, err := s.Find(ctx, p, FindOptions{Limit: 1})
	if err != nil {
		return Conversation{}, false, err
	}
	if len(rows) == 0 {
		return Conversation{}, false, nil
	}
	return rows[0], true, nil
}

func (s *PostgresStore) Find(ctx context.Context, p Predicate, opts FindOptions) ([]Conversation, error) {
	q, args, err := buildSelect(p, opts)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Conversation, 0)
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context, p Predicate) (int, error) {
	var a sqlArgs
	where, err := renderWhere(p, &a)
	if err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM conversations WHERE "+where, a.args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *PostgresStore) UpdateOne(ctx context.Context, p Predicate, patch UpdateInput, now time.Time) (Conversation, bool, error) {
	q, args, err := buildUpdate(p, patch, now)
	if err != nil {
		return Conversation{}, false, err
	}
	c, err := scanConversation(s.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Conversation{}, false, nil
		}
		return Conversation{}, false, err
	}
	return c, true, nil
}

func (s *PostgresStore) DeleteOne(ctx context.Context, p Predicate) (bool, error) {
	var a sqlArgs
	where, err := renderWhere(p, &a)
	if err != nil {
		return false, err
	}
	q := "DELETE FROM conversations WHERE id = (SELECT id FROM conversations WHERE " + where + " LIMIT 1)"
	res, err := s.db.ExecContext(ctx, q, a.args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func buildSelect(p Predicate, opts FindOptions) (string, []any, error) {
	var a sqlArgs
	where, err := renderWhere(p, &a)
	if err != nil {
		return "", nil, err
	}
	order, err := renderOrderBy(opts.Sort)
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(selectColumns)
	b.WriteString(" FROM conversations WHERE ")
	b.WriteString(where)
	b.WriteString(order)
	if opts.Limit > 0 {
		b.WriteString(" LIMIT " + a.add(opts.Limit))
	}
	if opts.Offset > 0 {
		b.WriteString(" OFFSET " + a.add(opts.Offset))
	}
	return b.String(), a.args, nil
}

// buildUpdate renders an allow-listed merge update against the first match of p.
func buildUpdate(p Predicate, patch UpdateInput, now time.Time) (string, []any, error) {
	var a sqlArgs
	var sets []string
	set := func(col string, v any) { sets = append(sets, col+" = "+a.add(v)) }

	if patch.CallerName != nil {
		set("caller_name", *patch.CallerName)
	}
	if patch.CalleeName != nil {
		set("callee_name", *patch.CalleeName)
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	if patch.EndTime != nil {
		set("end_time", *patch.EndTime)
	}
	if patch.Duration != nil {
		set("duration", *patch.Duration)
	}
	if patch.RecordingURL != nil {
		set("recording_url", *patch.RecordingURL)
	}
	if patch.Notes != nil {
		set("notes", *patch.Notes)
	}
	if patch.Tags != nil {
		tags, err := marshalTags(*patch.Tags)
		if err != nil {
			return "", nil, err
		}
		set("tags", tags)
	}
	if patch.IsArchived != nil {
		set("is_archived", *patch.IsArchived)
	}
	set("updated_at", now)

	where, err := renderWhere(p, &a)
	if err != nil {
		return "", nil, err
	}
	q := fmt.Sprintf(
		"UPDATE conversations SET %s WHERE id = (SELECT id FROM conversations WHERE %s LIMIT 1) RETURNING %s",
		strings.Join(sets, ", "), where, selectColumns,
	)
	return q, a.args, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversation(r rowScanner) (Conversation, error) {
	var (
		c         Conversation
		direction string
		status    string
		endTime   sql.NullTime
		duration  sql.NullFloat64
		tags      []byte
		meta      []byte
	)
	if err := r.Scan(
		&c.ID,
		&c.TenantDomain,
		&c.CallerNumber,
		&c.CallerName,
		&c.CalleeNumber,
		&c.CalleeName,
		&direction,
		&status,
		&c.StartTime,
		&endTime,
		&duration,
		&c.RecordingURL,
		&c.Notes,
		&tags,
		&c.IsArchived,
		&meta,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return Conversation{}, err
	}
	c.Direction = Direction(direction)
	c.Status = Status(status)
	if endTime.Valid {
		t := endTime.Time
		c.EndTime = &t
	}
	if duration.Valid {
		d := duration.Float64
		c.Duration = &d
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &c.Tags); err != nil {
			return Conversation{}, fmt.Errorf("conversations: decode tags: %w", err)
		}
		if len(c.Tags) == 0 {
			c.Tags = nil
		}
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &c.Metadata); err != nil {
			return Conversation{}, fmt.Errorf("conversations: decode metadata: %w", err)
		}
	}
	return c, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func marshalMetadata(m map[string]any) (any, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullFloat(n *float64) sql.NullFloat64 {
	if n == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *n, Valid: true}
}
