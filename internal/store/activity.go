package store

import (
	"context"
	"fmt"
	"time"

	"inkwell/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const activityTableName = "inkwell.document_activity"

type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

// Append adds one entry to an instance's audit trail. Entries are never
// updated or reordered; the id column is a bigserial.
func (r *ActivityRepository) Append(ctx context.Context, entry *types.ActivityEntry) error {
	entry.CreatedAt = time.Now()

	query, args, err := psql().
		Insert(activityTableName).
		Columns("instance_id", "action", "actor_id", "actor_type", "details", "created_at").
		Values(
			entry.InstanceID,
			entry.Action,
			nullable(entry.ActorID),
			nullable(entry.ActorType),
			entry.Details,
			entry.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate activity insert: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert activity entry: %w", err)
	}

	return nil
}

func (r *ActivityRepository) ByInstance(ctx context.Context, instanceID string) ([]types.ActivityEntry, error) {
	query, args, err := psql().
		Select("id", "instance_id", "action", "actor_id", "actor_type", "details", "created_at").
		From(activityTableName).
		Where(sq.Eq{"instance_id": instanceID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate activity query: %w", err)
	}

	var entries = make([]types.ActivityEntry, 0)
	err = pgxscan.Select(ctx, r.pool, &entries, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity entries: %w", err)
	}

	return entries, nil
}

// DeleteByDocument removes activity for every instance under a document, as
// the first step of a cascading document delete.
func (r *ActivityRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	query, args, err := psql().
		Delete(activityTableName).
		Where(sq.Expr("instance_id IN (SELECT id FROM "+instanceTableName+" WHERE document_id = ?)", documentID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate activity cascade delete: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete activity entries: %w", err)
	}

	return nil
}
