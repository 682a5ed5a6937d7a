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

const studentTableName = "inkwell.students"

var studentColumns = utils.StructTagValues(types.Student{})

type StudentRepository struct {
	pool *pgxpool.Pool
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

func (r *StudentRepository) Student(ctx context.Context, studentID string) (*types.Student, error) {
	query, args, err := psql().
		Select(studentColumns...).
		From(studentTableName).
		Where(sq.Eq{"id": studentID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate student query: %w", err)
	}

	var student types.Student
	err = pgxscan.Get(ctx, r.pool, &student, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to fetch student: %w", err)
	}

	return &student, nil
}

func (r *StudentRepository) StudentsByProgram(ctx context.Context, programID string) ([]types.Student, error) {
	query, args, err := psql().
		Select(studentColumns...).
		From(studentTableName).
		Where(sq.Eq{"program_id": programID}).
		OrderBy("last_name ASC", "first_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate roster query: %w", err)
	}

	var students = make([]types.Student, 0)
	err = pgxscan.Select(ctx, r.pool, &students, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster: %w", err)
	}

	return students, nil
}

func (r *StudentRepository) Students(ctx context.Context) ([]types.Student, error) {
	query, args, err := psql().
		Select(studentColumns...).
		From(studentTableName).
		OrderBy("last_name ASC", "first_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate student list query: %w", err)
	}

	var students = make([]types.Student, 0)
	err = pgxscan.Select(ctx, r.pool, &students, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	return students, nil
}

func (r *StudentRepository) Create(ctx context.Context, student *types.Student) error {
	now := time.Now()
	student.CreatedAt = now
	student.UpdatedAt = now

	query, args, err := psql().
		Insert(studentTableName).
		SetMap(utils.StructToMap(student)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate student insert: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert student: %w", err)
	}

	return nil
}

func (r *StudentRepository) Delete(ctx context.Context, studentID string) error {
	query, args, err := psql().
		Delete(studentTableName).
		Where(sq.Eq{"id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate student delete: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	return nil
}
