package repos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"fieldbasket/internal/domain"
)

// DraftRepo stores at most one pending order draft per session and
// clears it exactly once. It is the storage behind the commitment
// token guard: Put supersedes, Consume is a conditional single-shot
// delete so a replayed token can never be honored twice.
type DraftRepo struct{ db *sqlx.DB }

func NewDraftRepo(db *sqlx.DB) *DraftRepo { return &DraftRepo{db: db} }

// Put stores d as the session's pending draft, silently replacing any
// prior one (supersession, not queuing).
func (r *DraftRepo) Put(ctx context.Context, d domain.Draft) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pending_drafts(session_id, token, payload, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
		  token = excluded.token, payload = excluded.payload, created_at = excluded.created_at
	`, d.SessionID, d.Token, payload, d.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

// Consume atomically removes and returns the session's pending draft
// iff token matches. The conditional DELETE is a single statement, so
// two racing confirms for the same token can succeed at most once; the
// loser gets domain.ErrDuplicateSubmission.
func (r *DraftRepo) Consume(ctx context.Context, sessionID, token string) (domain.Draft, error) {
	var payload []byte
	err := r.db.QueryRowxContext(ctx, `
		DELETE FROM pending_drafts
		WHERE session_id = ? AND token = ?
		RETURNING payload
	`, sessionID, token).Scan(&payload)
	if err == sql.ErrNoRows {
		return domain.Draft{}, domain.ErrDuplicateSubmission
	}
	if err != nil {
		return domain.Draft{}, err
	}
	var d domain.Draft
	if err := json.Unmarshal(payload, &d); err != nil {
		return domain.Draft{}, err
	}
	d.SessionID = sessionID
	return d, nil
}
