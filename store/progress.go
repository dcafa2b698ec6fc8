package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/plutotom/ep-reader/model"
)

// UpsertProgress writes a progress row, updating in place when one
// already exists for (user, section). The single statement keeps rapid
// consecutive updates from losing writes. Full progress always carries
// the read flag, whatever the caller set.
func (s *SQLite) UpsertProgress(ctx context.Context, p *model.ReadingProgress) error {
	if p.ProgressPercentage >= 100 && !p.IsRead {
		p.IsRead = true
		if p.ReadAt == nil {
			t := p.UpdatedAt
			p.ReadAt = &t
		}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reading_progress (id, user_id, book_id, section_id, release_id,
			progress_percentage, last_paragraph_index, is_read, read_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, section_id) DO UPDATE SET
			release_id = excluded.release_id,
			progress_percentage = excluded.progress_percentage,
			last_paragraph_index = excluded.last_paragraph_index,
			is_read = excluded.is_read,
			read_at = excluded.read_at,
			updated_at = excluded.updated_at`,
		p.ID, p.UserID, p.BookID, p.SectionID, p.ReleaseID,
		p.ProgressPercentage, p.LastParagraphIndex, p.IsRead,
		unixPtr(p.ReadAt), unix(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

func (s *SQLite) GetProgress(ctx context.Context, userID, sectionID string) (*model.ReadingProgress, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, book_id, section_id, release_id, progress_percentage,
			last_paragraph_index, is_read, read_at, updated_at
		FROM reading_progress WHERE user_id = ? AND section_id = ?`, userID, sectionID)
	return scanProgress(row.Scan)
}

func (s *SQLite) ListProgressByBook(ctx context.Context, userID, bookID string) ([]model.ReadingProgress, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, book_id, section_id, release_id, progress_percentage,
			last_paragraph_index, is_read, read_at, updated_at
		FROM reading_progress WHERE user_id = ? AND book_id = ?
		ORDER BY updated_at DESC, id`, userID, bookID)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	var out []model.ReadingProgress
	for rows.Next() {
		p, err := scanProgress(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rowsErr(rows)
}

func scanProgress(scan func(...any) error) (*model.ReadingProgress, error) {
	var p model.ReadingProgress
	var readAt sql.NullInt64
	var updated int64
	err := scan(&p.ID, &p.UserID, &p.BookID, &p.SectionID, &p.ReleaseID,
		&p.ProgressPercentage, &p.LastParagraphIndex, &p.IsRead, &readAt, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan progress: %w", err)
	}
	p.ReadAt = fromUnixPtr(readAt)
	p.UpdatedAt = fromUnix(updated)
	return &p, nil
}
