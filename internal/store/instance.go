package store

import (
	"context"
	"fmt"
	"time"

	"inkwell/internal/utils"
	"inkwell/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const instanceTableName = "inkwell.document_instances"

var instanceColumns = utils.StructTagValues(types.DocumentInstance{})

type InstanceRepository struct {
	pool *pgxpool.Pool
}

func NewInstanceRepository(pool *pgxpool.Pool) *InstanceRepository {
	return &InstanceRepository{pool: pool}
}

func (r *InstanceRepository) Instance(ctx context.Context, instanceID string) (*types.DocumentInstance, error) {
	query, args, err := psql().
		Select(instanceColumns...).
		From(instanceTableName).
		Where(sq.Eq{"id": instanceID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate instance query: %w", err)
	}

	var instance types.DocumentInstance
	err = pgxscan.Get(ctx, r.pool, &instance, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrInstanceNotFound
		}
		return nil, fmt.Errorf("failed to fetch instance: %w", err)
	}

	return &instance, nil
}

func (r *InstanceRepository) InstancesByDocument(ctx context.Context, documentID string) ([]types.DocumentInstance, error) {
	query, args, err := psql().
		Select(instanceColumns...).
		From(instanceTableName).
		Where(sq.Eq{"document_id": documentID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate instances-by-document query: %w", err)
	}

	var instances = make([]types.DocumentInstance, 0)
	err = pgxscan.Select(ctx, r.pool, &instances, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch instances by document: %w", err)
	}

	return instances, nil
}

// All returns every instance. Analytics aggregates over the full set; the
// source system never paginated here either.
func (r *InstanceRepository) All(ctx context.Context) ([]types.DocumentInstance, error) {
	query, args, err := psql().
		Select(instanceColumns...).
		From(instanceTableName).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate instance list query: %w", err)
	}

	var instances = make([]types.DocumentInstance, 0)
	err = pgxscan.Select(ctx, r.pool, &instances, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}

	return instances, nil
}

func (r *InstanceRepository) Create(ctx context.Context, instance *types.DocumentInstance) error {
	now := time.Now()
	instance.CreatedAt = now
	instance.UpdatedAt = now

	query, args, err := psql().
		Insert(instanceTableName).
		SetMap(utils.StructToMap(instance)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate instance insert: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert instance: %w", err)
	}

	return nil
}

// Update persists the full instance row. Concurrent writers race on a
// last-write-wins basis; there is no optimistic concurrency token.
func (r *InstanceRepository) Update(ctx context.Context, instance *types.DocumentInstance) error {
	instance.UpdatedAt = time.Now()

	query, args, err := psql().
		Update(instanceTableName).
		SetMap(utils.StructToMap(instance)).
		Where(sq.Eq{"id": instance.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate instance update: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update instance: %w", err)
	}

	return nil
}

func (r *InstanceRepository) DeleteByDocument(ctx context.Context, documentID string) (int64, error) {
	query, args, err := psql().
		Delete(instanceTableName).
		Where(sq.Eq{"document_id": documentID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate instance cascade delete: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete instances: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ExistsForRecipient reports whether the document already has an instance for
// the recipient email. Advisory only; creation never enforces it.
func (r *InstanceRepository) ExistsForRecipient(ctx context.Context, documentID, recipientEmail string) (bool, error) {
	query, args, err := psql().
		Select("count(*)").
		From(instanceTableName).
		Where(sq.Eq{"document_id": documentID}).
		Where(sq.Expr("lower(recipient_email) = lower(?)", recipientEmail)).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to generate recipient exists query: %w", err)
	}

	var count int
	if err := pgxscan.Get(ctx, r.pool, &count, query, args...); err != nil {
		return false, fmt.Errorf("failed to check recipient instance: %w", err)
	}

	return count > 0, nil
}

type statusCountRow struct {
	Status types.InstanceStatus `db:"status"`
	Total  int                  `db:"total"`
}

// CountByStatus tallies instances per status for one document.
func (r *InstanceRepository) CountByStatus(ctx context.Context, documentID string) (map[types.InstanceStatus]int, error) {
	query, args, err := psql().
		Select("status", "count(*) AS total").
		From(instanceTableName).
		Where(sq.Eq{"document_id": documentID}).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate status count query: %w", err)
	}

	var rows []statusCountRow
	err = pgxscan.Select(ctx, r.pool, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count instances by status: %w", err)
	}

	counts := make(map[types.InstanceStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}

	return counts, nil
}

// SentSince returns instances whose sent_at falls inside the report window.
func (r *InstanceRepository) SentSince(ctx context.Context, since time.Time) ([]types.DocumentInstance, error) {
	query, args, err := psql().
		Select(instanceColumns...).
		From(instanceTableName).
		Where(sq.GtOrEq{"sent_at": since}).
		OrderBy("sent_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate sent-since query: %w", err)
	}

	var instances = make([]types.DocumentInstance, 0)
	err = pgxscan.Select(ctx, r.pool, &instances, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch instances by sent date: %w", err)
	}

	return instances, nil
}

// SearchByRecipient matches recipient name or email by case-insensitive
// substring.
func (r *InstanceRepository) SearchByRecipient(ctx context.Context, term string) ([]types.DocumentInstance, error) {
	pattern := "%" + term + "%"

	query, args, err := psql().
		Select(instanceColumns...).
		From(instanceTableName).
		Where(sq.Or{
			sq.Expr("recipient_name ILIKE ?", pattern),
			sq.Expr("recipient_email ILIKE ?", pattern),
		}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate recipient search query: %w", err)
	}

	var instances = make([]types.DocumentInstance, 0)
	err = pgxscan.Select(ctx, r.pool, &instances, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search instances by recipient: %w", err)
	}

	return instances, nil
}

// OverdueCandidates returns non-terminal, non-expired instances whose
// expiration date has passed, for the opt-in expiration sweep.
func (r *InstanceRepository) OverdueCandidates(ctx context.Context, now time.Time) ([]types.DocumentInstance, error) {
	query, args, err := psql().
		Select(instanceColumns...).
		From(instanceTableName).
		Where(sq.Lt{"expiration_date": now}).
		Where(sq.NotEq{"status": []types.InstanceStatus{
			types.InstanceStatusSigned,
			types.InstanceStatusDeclined,
			types.InstanceStatusExpired,
		}}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate overdue query: %w", err)
	}

	var instances = make([]types.DocumentInstance, 0)
	err = pgxscan.Select(ctx, r.pool, &instances, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch overdue instances: %w", err)
	}

	return instances, nil
}
