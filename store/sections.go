package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/plutotom/ep-reader/model"
)

// InsertSections writes a parsed book's sections in one transaction, so
// a failed upload never leaves a partial book behind.
func (s *SQLite) InsertSections(ctx context.Context, sections []model.Section) error {
	if len(sections) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sections (id, book_id, chapter_number, section_number, title,
			content, word_count, estimated_read_time, order_index, header_level, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, sec := range sections {
		if _, err := stmt.ExecContext(ctx,
			sec.ID, sec.BookID, sec.ChapterNumber, sec.SectionNumber, sec.Title,
			sec.Content, sec.WordCount, sec.EstimatedReadTime, sec.OrderIndex,
			sec.HeaderLevel, unix(sec.CreatedAt)); err != nil {
			return fmt.Errorf("insert section %d: %w", sec.OrderIndex, err)
		}
	}
	return tx.Commit()
}

func (s *SQLite) ListSections(ctx context.Context, bookID string) ([]model.Section, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, book_id, chapter_number, section_number, title, content,
			word_count, estimated_read_time, order_index, header_level, created_at
		FROM sections WHERE book_id = ? ORDER BY order_index`, bookID)
	if err != nil {
		return nil, fmt.Errorf("query sections: %w", err)
	}
	defer rows.Close()

	var out []model.Section
	for rows.Next() {
		var sec model.Section
		var created int64
		if err := rows.Scan(&sec.ID, &sec.BookID, &sec.ChapterNumber, &sec.SectionNumber,
			&sec.Title, &sec.Content, &sec.WordCount, &sec.EstimatedReadTime,
			&sec.OrderIndex, &sec.HeaderLevel, &created); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sec.CreatedAt = fromUnix(created)
		out = append(out, sec)
	}
	return out, rowsErr(rows)
}

func (s *SQLite) GetSection(ctx context.Context, id string) (*model.Section, error) {
	var sec model.Section
	var created int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, book_id, chapter_number, section_number, title, content,
			word_count, estimated_read_time, order_index, header_level, created_at
		FROM sections WHERE id = ?`, id).
		Scan(&sec.ID, &sec.BookID, &sec.ChapterNumber, &sec.SectionNumber,
			&sec.Title, &sec.Content, &sec.WordCount, &sec.EstimatedReadTime,
			&sec.OrderIndex, &sec.HeaderLevel, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan section: %w", err)
	}
	sec.CreatedAt = fromUnix(created)
	return &sec, nil
}
