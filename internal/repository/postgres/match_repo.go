package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/veldtlabs/hexrift/internal/model"
)

// MatchRepo archives finished matches.
type MatchRepo struct {
	db *sql.DB
}

// NewMatchRepo creates a MatchRepo.
func NewMatchRepo(db *sql.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// RecordMatch inserts one finished match.
func (r *MatchRepo) RecordMatch(ctx context.Context, rec *model.MatchRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO matches (id, mode, player_ids, reason, turns, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.Mode, pq.Array(rec.PlayerIDs), rec.Reason, rec.Turns, rec.StartedAt, rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("record match: %w", err)
	}
	return nil
}

// RecentMatches returns the most recently finished matches, newest first.
func (r *MatchRepo) RecentMatches(ctx context.Context, limit int) ([]model.MatchRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, mode, player_ids, reason, turns, started_at, finished_at
		 FROM matches ORDER BY finished_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var recs []model.MatchRecord
	for rows.Next() {
		var rec model.MatchRecord
		if err := rows.Scan(&rec.ID, &rec.Mode, pq.Array(&rec.PlayerIDs), &rec.Reason, &rec.Turns, &rec.StartedAt, &rec.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
