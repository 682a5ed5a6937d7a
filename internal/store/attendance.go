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

const attendanceTableName = "inkwell.attendance"

var attendanceColumns = utils.StructTagValues(types.AttendanceRecord{})

type AttendanceRepository struct {
	pool *pgxpool.Pool
}

func NewAttendanceRepository(pool *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

func (r *AttendanceRepository) Create(ctx context.Context, record *types.AttendanceRecord) error {
	record.CreatedAt = time.Now()

	query, args, err := psql().
		Insert(attendanceTableName).
		SetMap(utils.StructToMap(record)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate attendance insert: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert attendance record: %w", err)
	}

	return nil
}

func (r *AttendanceRepository) ByStudent(ctx context.Context, studentID string) ([]types.AttendanceRecord, error) {
	query, args, err := psql().
		Select(attendanceColumns...).
		From(attendanceTableName).
		Where(sq.Eq{"student_id": studentID}).
		OrderBy("date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate attendance query: %w", err)
	}

	var records = make([]types.AttendanceRecord, 0)
	err = pgxscan.Select(ctx, r.pool, &records, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendance records: %w", err)
	}

	return records, nil
}

func (r *AttendanceRepository) ByProgramAndDate(ctx context.Context, programID string, date time.Time) ([]types.AttendanceRecord, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	query, args, err := psql().
		Select(attendanceColumns...).
		From(attendanceTableName).
		Where(sq.Eq{"program_id": programID}).
		Where(sq.GtOrEq{"date": dayStart}).
		Where(sq.Lt{"date": dayStart.AddDate(0, 0, 1)}).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate attendance-by-day query: %w", err)
	}

	var records = make([]types.AttendanceRecord, 0)
	err = pgxscan.Select(ctx, r.pool, &records, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendance by day: %w", err)
	}

	return records, nil
}
