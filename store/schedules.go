package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/plutotom/ep-reader/model"
)

func (s *SQLite) CreateSchedule(ctx context.Context, sched *model.ReleaseSchedule) error {
	days, err := json.Marshal(sched.DaysOfWeek)
	if err != nil {
		return fmt.Errorf("encode days: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO release_schedules (id, book_id, schedule_type, days_of_week,
			release_time, sections_per_release, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sched.ID, sched.BookID, string(sched.ScheduleType), string(days),
		sched.ReleaseTime, sched.SectionsPerRelease, sched.IsActive,
		unix(sched.CreatedAt), unix(sched.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert schedule: %w", err)
	}
	return nil
}

func (s *SQLite) GetSchedule(ctx context.Context, id string) (*model.ReleaseSchedule, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, book_id, schedule_type, days_of_week, release_time,
			sections_per_release, is_active, created_at, updated_at
		FROM release_schedules WHERE id = ?`, id)
	return scanSchedule(row.Scan)
}

func (s *SQLite) GetScheduleByBook(ctx context.Context, bookID string) (*model.ReleaseSchedule, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, book_id, schedule_type, days_of_week, release_time,
			sections_per_release, is_active, created_at, updated_at
		FROM release_schedules WHERE book_id = ?`, bookID)
	return scanSchedule(row.Scan)
}

func (s *SQLite) UpdateSchedule(ctx context.Context, sched *model.ReleaseSchedule) error {
	days, err := json.Marshal(sched.DaysOfWeek)
	if err != nil {
		return fmt.Errorf("encode days: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE release_schedules SET schedule_type = ?, days_of_week = ?,
			release_time = ?, sections_per_release = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		string(sched.ScheduleType), string(days), sched.ReleaseTime,
		sched.SectionsPerRelease, sched.IsActive, unix(sched.UpdatedAt), sched.ID)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	return requireRow(res)
}

func (s *SQLite) DeleteSchedule(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM release_schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return requireRow(res)
}

func (s *SQLite) ListActiveSchedules(ctx context.Context, userID string) ([]model.ReleaseSchedule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rs.id, rs.book_id, rs.schedule_type, rs.days_of_week, rs.release_time,
			rs.sections_per_release, rs.is_active, rs.created_at, rs.updated_at
		FROM release_schedules rs
		JOIN books b ON b.id = rs.book_id
		WHERE rs.is_active = 1 AND b.user_id = ?
		ORDER BY rs.created_at, rs.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query schedules: %w", err)
	}
	defer rows.Close()

	var out []model.ReleaseSchedule
	for rows.Next() {
		sched, err := scanSchedule(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *sched)
	}
	return out, rowsErr(rows)
}

func scanSchedule(scan func(...any) error) (*model.ReleaseSchedule, error) {
	var sched model.ReleaseSchedule
	var stype, days string
	var created, updated int64
	err := scan(&sched.ID, &sched.BookID, &stype, &days, &sched.ReleaseTime,
		&sched.SectionsPerRelease, &sched.IsActive, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan schedule: %w", err)
	}
	sched.ScheduleType = model.ScheduleType(stype)
	if err := json.Unmarshal([]byte(days), &sched.DaysOfWeek); err != nil {
		return nil, fmt.Errorf("decode days: %w", err)
	}
	sched.CreatedAt = fromUnix(created)
	sched.UpdatedAt = fromUnix(updated)
	return &sched, nil
}
