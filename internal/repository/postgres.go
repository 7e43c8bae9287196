package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"ipresolver/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS resolutions (
    id          BIGSERIAL PRIMARY KEY,
    cidr        TEXT NOT NULL,
    ipv4        TEXT NOT NULL DEFAULT '',
    ipv6        TEXT NOT NULL DEFAULT '',
    error       TEXT NOT NULL DEFAULT '',
    resolved_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS resolutions_resolved_at_idx ON resolutions (resolved_at);
`

type PostgresRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPostgresRepository(db *sqlx.DB, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

func (r *PostgresRepository) SaveResolution(ctx context.Context, res model.Resolution) error {
	query := `
        INSERT INTO resolutions (cidr, ipv4, ipv6, error, resolved_at)
        VALUES (:cidr, :ipv4, :ipv6, :error, :resolved_at)
    `

	_, err := r.db.NamedExecContext(ctx, query, res)
	if err != nil {
		r.logger.Error("failed to insert resolution",
			zap.String("cidr", res.CIDR),
			zap.Error(err))
	}
	return err
}

func (r *PostgresRepository) RecentResolutions(ctx context.Context, limit int) ([]model.Resolution, error) {
	query := `
        SELECT id, cidr, ipv4, ipv6, error, resolved_at
        FROM resolutions
        ORDER BY resolved_at DESC, id DESC
        LIMIT $1
    `

	resolutions := []model.Resolution{}
	if err := r.db.SelectContext(ctx, &resolutions, query, limit); err != nil {
		r.logger.Error("failed to list resolutions", zap.Error(err))
		return nil, err
	}
	return resolutions, nil
}

func (r *PostgresRepository) PruneResolutions(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM resolutions WHERE resolved_at < $1", olderThan)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) GetResolutionCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT count(*) FROM resolutions")
	return count, err
}
