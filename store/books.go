package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/plutotom/ep-reader/model"
)

func (s *SQLite) CreateBook(ctx context.Context, b *model.Book) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (id, user_id, title, author, file_path, cover_image,
			total_chapters, total_sections, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.Title, b.Author, b.FilePath, b.CoverImage,
		b.TotalChapters, b.TotalSections, string(b.Status), unix(b.CreatedAt), unix(b.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (s *SQLite) GetBook(ctx context.Context, id string) (*model.Book, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, author, file_path, cover_image,
			total_chapters, total_sections, status, created_at, updated_at
		FROM books WHERE id = ?`, id)
	return scanBook(row)
}

func (s *SQLite) ListBooks(ctx context.Context, userID string) ([]model.Book, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, author, file_path, cover_image,
			total_chapters, total_sections, status, created_at, updated_at
		FROM books WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	var books []model.Book
	for rows.Next() {
		var b model.Book
		var status string
		var created, updated int64
		if err := rows.Scan(&b.ID, &b.UserID, &b.Title, &b.Author, &b.FilePath, &b.CoverImage,
			&b.TotalChapters, &b.TotalSections, &status, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		b.Status = model.BookStatus(status)
		b.CreatedAt = fromUnix(created)
		b.UpdatedAt = fromUnix(updated)
		books = append(books, b)
	}
	return books, rowsErr(rows)
}

func (s *SQLite) UpdateBook(ctx context.Context, b *model.Book) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE books SET title = ?, author = ?, file_path = ?, cover_image = ?,
			total_chapters = ?, total_sections = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		b.Title, b.Author, b.FilePath, b.CoverImage,
		b.TotalChapters, b.TotalSections, string(b.Status), unix(b.UpdatedAt), b.ID)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return requireRow(res)
}

func (s *SQLite) DeleteBook(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return requireRow(res)
}

func scanBook(row *sql.Row) (*model.Book, error) {
	var b model.Book
	var status string
	var created, updated int64
	err := row.Scan(&b.ID, &b.UserID, &b.Title, &b.Author, &b.FilePath, &b.CoverImage,
		&b.TotalChapters, &b.TotalSections, &status, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan book: %w", err)
	}
	b.Status = model.BookStatus(status)
	b.CreatedAt = fromUnix(created)
	b.UpdatedAt = fromUnix(updated)
	return &b, nil
}

// requireRow maps a zero-row write to ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
