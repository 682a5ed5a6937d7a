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

const programTableName = "inkwell.programs"

var programColumns = utils.StructTagValues(types.Program{})

type ProgramRepository struct {
	pool *pgxpool.Pool
}

func NewProgramRepository(pool *pgxpool.Pool) *ProgramRepository {
	return &ProgramRepository{pool: pool}
}

func (r *ProgramRepository) Program(ctx context.Context, programID string) (*types.Program, error) {
	query, args, err := psql().
		Select(programColumns...).
		From(programTableName).
		Where(sq.Eq{"id": programID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate program query: %w", err)
	}

	var program types.Program
	err = pgxscan.Get(ctx, r.pool, &program, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to fetch program: %w", err)
	}

	return &program, nil
}

func (r *ProgramRepository) Programs(ctx context.Context) ([]types.Program, error) {
	query, args, err := psql().
		Select(programColumns...).
		From(programTableName).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate program list query: %w", err)
	}

	var programs = make([]types.Program, 0)
	err = pgxscan.Select(ctx, r.pool, &programs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}

	return programs, nil
}

func (r *ProgramRepository) Create(ctx context.Context, program *types.Program) error {
	now := time.Now()
	program.CreatedAt = now
	program.UpdatedAt = now

	query, args, err := psql().
		Insert(programTableName).
		SetMap(utils.StructToMap(program)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate program insert: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert program: %w", err)
	}

	return nil
}
