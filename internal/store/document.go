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

const documentTableName = "inkwell.documents"

var documentColumns = utils.StructTagValues(types.Document{})

type DocumentRepository struct {
	pool *pgxpool.Pool
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

func (r *DocumentRepository) Document(ctx context.Context, documentID string) (*types.Document, error) {
	query, args, err := psql().
		Select(documentColumns...).
		From(documentTableName).
		Where(sq.Eq{"id": documentID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate document query: %w", err)
	}

	var doc types.Document
	err = pgxscan.Get(ctx, r.pool, &doc, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}

	return &doc, nil
}

func (r *DocumentRepository) DocumentsByIDs(ctx context.Context, documentIDs []string) ([]types.Document, error) {
	if len(documentIDs) == 0 {
		return []types.Document{}, nil
	}

	query, args, err := psql().
		Select(documentColumns...).
		From(documentTableName).
		Where(sq.Eq{"id": documentIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate documents-by-ids query: %w", err)
	}

	var docs []types.Document
	err = pgxscan.Select(ctx, r.pool, &docs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents by ids: %w", err)
	}

	return docs, nil
}

// List returns every document matching the filter. No pagination; callers get
// all matches.
func (r *DocumentRepository) List(ctx context.Context, filter types.DocumentFilter) ([]types.Document, error) {
	builder := psql().
		Select(documentColumns...).
		From(documentTableName).
		OrderBy("created_at DESC")

	if filter.OwnerID != "" {
		builder = builder.Where(sq.Eq{"owner_id": filter.OwnerID})
	}
	if filter.ProgramID != "" {
		builder = builder.Where(sq.Eq{"program_id": filter.ProgramID})
	}
	if filter.DocumentType != "" {
		builder = builder.Where(sq.Eq{"document_type": filter.DocumentType})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}
	if filter.IsTemplate != nil {
		builder = builder.Where(sq.Eq{"is_template": *filter.IsTemplate})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate document list query: %w", err)
	}

	var docs = make([]types.Document, 0)
	err = pgxscan.Select(ctx, r.pool, &docs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return docs, nil
}

// HasDuplicate reports whether the owner already has a document with the same
// case-insensitive title, or the same document URL when one is given.
func (r *DocumentRepository) HasDuplicate(ctx context.Context, ownerID, title, documentURL string) (bool, error) {
	match := sq.Or{sq.Expr("lower(title) = lower(?)", title)}
	if documentURL != "" {
		match = append(match, sq.Eq{"document_url": documentURL})
	}

	query, args, err := psql().
		Select("count(*)").
		From(documentTableName).
		Where(sq.Eq{"owner_id": ownerID}).
		Where(match).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to generate duplicate query: %w", err)
	}

	var count int
	if err := pgxscan.Get(ctx, r.pool, &count, query, args...); err != nil {
		return false, fmt.Errorf("failed to check for duplicates: %w", err)
	}

	return count > 0, nil
}

func (r *DocumentRepository) Create(ctx context.Context, doc *types.Document) error {
	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	query, args, err := psql().
		Insert(documentTableName).
		SetMap(utils.StructToMap(doc)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate document insert: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	return nil
}

func (r *DocumentRepository) SetStatus(ctx context.Context, documentID string, status types.DocumentStatus) error {
	query, args, err := psql().
		Update(documentTableName).
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": documentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate document status update: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update document status: %w", err)
	}

	return nil
}

func (r *DocumentRepository) SetDocumentURL(ctx context.Context, documentID, documentURL string) error {
	query, args, err := psql().
		Update(documentTableName).
		Set("document_url", documentURL).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": documentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate document url update: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update document url: %w", err)
	}

	return nil
}

// Delete removes the document row and reports whether a row was actually
// removed. Instance cleanup is the registry service's responsibility.
func (r *DocumentRepository) Delete(ctx context.Context, documentID string) (bool, error) {
	query, args, err := psql().
		Delete(documentTableName).
		Where(sq.Eq{"id": documentID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to generate document delete: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to delete document: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *DocumentRepository) Count(ctx context.Context) (int, error) {
	query, args, err := psql().
		Select("count(*)").
		From(documentTableName).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate document count query: %w", err)
	}

	var count int
	if err := pgxscan.Get(ctx, r.pool, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}

	return count, nil
}

// DocumentIDsByProgram resolves the id allow-list used by program-scoped
// reports.
func (r *DocumentRepository) DocumentIDsByProgram(ctx context.Context, programID string) ([]string, error) {
	query, args, err := psql().
		Select("id").
		From(documentTableName).
		Where(sq.Eq{"program_id": programID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate program document query: %w", err)
	}

	var ids []string
	err = pgxscan.Select(ctx, r.pool, &ids, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch program document ids: %w", err)
	}

	return ids, nil
}
