package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ansshguptaaaa/AI-Resume-Pro/internal/llm"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Insert stores a new analysis record.
func (r *PGRepo) Insert(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO analyses (id, user_id, jd, score, analysis, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	analysisJSON, err := json.Marshal(rec.Analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query,
		rec.ID,
		rec.UserID,
		rec.JobDescription,
		rec.Score,
		analysisJSON,
		rec.CreatedAt,
	)
	return err
}

// ListByOwner returns the owner's records, newest first.
func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string) ([]Record, error) {
	const query = `
SELECT id, user_id, jd, score, analysis, created_at
FROM analyses
WHERE user_id = $1
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var analysisJSON []byte
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.JobDescription, &rec.Score, &analysisJSON, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if len(analysisJSON) > 0 {
			if err := json.Unmarshal(analysisJSON, &rec.Analysis); err != nil {
				rec.Analysis = llm.Result{}
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteByOwner removes the record only when owned by ownerID.
func (r *PGRepo) DeleteByOwner(ctx context.Context, ownerID, recordID string) (bool, error) {
	const query = `DELETE FROM analyses WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, recordID, ownerID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
