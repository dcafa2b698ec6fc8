// Package store persists books, sections, schedules, releases, and
// reading progress. The Store interface is what the rest of the
// application programs against; SQLite is the shipped implementation.
package store

import (
	"context"
	"errors"

	"github.com/plutotom/ep-reader/model"
)

var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrConflict means an insert collided with an existing row on a
	// uniqueness constraint. Callers that want idempotency treat it as
	// a no-op.
	ErrConflict = errors.New("store: conflict")
)

// Store is the persistence surface of the application.
type Store interface {
	CreateBook(ctx context.Context, b *model.Book) error
	GetBook(ctx context.Context, id string) (*model.Book, error)
	ListBooks(ctx context.Context, userID string) ([]model.Book, error)
	UpdateBook(ctx context.Context, b *model.Book) error
	DeleteBook(ctx context.Context, id string) error

	InsertSections(ctx context.Context, sections []model.Section) error
	// ListSections returns a book's sections ordered by order index.
	ListSections(ctx context.Context, bookID string) ([]model.Section, error)
	GetSection(ctx context.Context, id string) (*model.Section, error)

	CreateSchedule(ctx context.Context, s *model.ReleaseSchedule) error
	GetSchedule(ctx context.Context, id string) (*model.ReleaseSchedule, error)
	GetScheduleByBook(ctx context.Context, bookID string) (*model.ReleaseSchedule, error)
	UpdateSchedule(ctx context.Context, s *model.ReleaseSchedule) error
	DeleteSchedule(ctx context.Context, id string) error
	// ListActiveSchedules returns the active schedules of all books
	// owned by userID.
	ListActiveSchedules(ctx context.Context, userID string) ([]model.ReleaseSchedule, error)

	// InsertRelease creates a release. Returns ErrConflict when a
	// release for the same (book, scheduledFor) instant already exists.
	InsertRelease(ctx context.Context, r *model.Release) error
	ListReleases(ctx context.Context, bookID string) ([]model.Release, error)
	// ListUserReleases returns releases with the given status across
	// every book owned by userID, newest release first.
	ListUserReleases(ctx context.Context, userID string, status model.ReleaseStatus) ([]model.Release, error)
	GetRelease(ctx context.Context, id string) (*model.Release, error)
	UpdateRelease(ctx context.Context, r *model.Release) error

	UpsertProgress(ctx context.Context, p *model.ReadingProgress) error
	GetProgress(ctx context.Context, userID, sectionID string) (*model.ReadingProgress, error)
	ListProgressByBook(ctx context.Context, userID, bookID string) ([]model.ReadingProgress, error)

	GetSettings(ctx context.Context, userID string) (*model.UserSettings, error)
	UpsertSettings(ctx context.Context, s *model.UserSettings) error
}
