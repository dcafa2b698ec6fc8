package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/plutotom/ep-reader/model"
)

// InsertRelease creates a release. The UNIQUE(book_id, scheduled_for)
// constraint makes concurrent schedule checks race-safe: the loser
// gets ErrConflict instead of creating a duplicate.
func (s *SQLite) InsertRelease(ctx context.Context, r *model.Release) error {
	ids, err := json.Marshal(r.SectionIDs)
	if err != nil {
		return fmt.Errorf("encode section ids: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO releases (id, book_id, section_ids, scheduled_for, released_at, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.BookID, string(ids), unix(r.ScheduledFor), unixPtr(r.ReleasedAt),
		string(r.Status), unix(r.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert release: %w", err)
	}
	return nil
}

func (s *SQLite) ListReleases(ctx context.Context, bookID string) ([]model.Release, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, book_id, section_ids, scheduled_for, released_at, status, created_at
		FROM releases WHERE book_id = ? ORDER BY scheduled_for, id`, bookID)
	if err != nil {
		return nil, fmt.Errorf("query releases: %w", err)
	}
	defer rows.Close()

	var out []model.Release
	for rows.Next() {
		rel, err := scanRelease(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *rel)
	}
	return out, rowsErr(rows)
}

func (s *SQLite) ListUserReleases(ctx context.Context, userID string, status model.ReleaseStatus) ([]model.Release, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.book_id, r.section_ids, r.scheduled_for, r.released_at, r.status, r.created_at
		FROM releases r
		JOIN books b ON b.id = r.book_id
		WHERE b.user_id = ? AND r.status = ?
		ORDER BY r.released_at DESC, r.id`, userID, string(status))
	if err != nil {
		return nil, fmt.Errorf("query user releases: %w", err)
	}
	defer rows.Close()

	var out []model.Release
	for rows.Next() {
		rel, err := scanRelease(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *rel)
	}
	return out, rowsErr(rows)
}

func (s *SQLite) GetRelease(ctx context.Context, id string) (*model.Release, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, book_id, section_ids, scheduled_for, released_at, status, created_at
		FROM releases WHERE id = ?`, id)
	return scanRelease(row.Scan)
}

func (s *SQLite) UpdateRelease(ctx context.Context, r *model.Release) error {
	ids, err := json.Marshal(r.SectionIDs)
	if err != nil {
		return fmt.Errorf("encode section ids: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE releases SET section_ids = ?, scheduled_for = ?, released_at = ?, status = ?
		WHERE id = ?`,
		string(ids), unix(r.ScheduledFor), unixPtr(r.ReleasedAt), string(r.Status), r.ID)
	if err != nil {
		return fmt.Errorf("update release: %w", err)
	}
	return requireRow(res)
}

func scanRelease(scan func(...any) error) (*model.Release, error) {
	var r model.Release
	var ids, status string
	var scheduled, created int64
	var released sql.NullInt64
	err := scan(&r.ID, &r.BookID, &ids, &scheduled, &released, &status, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan release: %w", err)
	}
	if err := json.Unmarshal([]byte(ids), &r.SectionIDs); err != nil {
		return nil, fmt.Errorf("decode section ids: %w", err)
	}
	r.ScheduledFor = fromUnix(scheduled)
	r.ReleasedAt = fromUnixPtr(released)
	r.Status = model.ReleaseStatus(status)
	r.CreatedAt = fromUnix(created)
	return &r, nil
}

// isUniqueViolation matches the driver's constraint error without
// depending on its error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
