package repository

import (
	"context"

	"github.com/veldtlabs/hexrift/internal/model"
)

// MatchRepository defines the archive of finished matches.
type MatchRepository interface {
	RecordMatch(ctx context.Context, rec *model.MatchRecord) error
	RecentMatches(ctx context.Context, limit int) ([]model.MatchRecord, error)
}
