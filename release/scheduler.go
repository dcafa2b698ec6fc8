// Package release implements the release scheduling state machine:
// deciding, per active schedule, whether a new batch of sections is
// due, and creating it exactly once per release instant.
package release

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/plutotom/ep-reader/model"
	"github.com/plutotom/ep-reader/store"
)

// backpressureLimit pauses a schedule while this many releases sit in
// released status. The count is cumulative over the book's whole
// history, not a recent window.
const backpressureLimit = 2

// Store is the persistence surface the scheduler needs.
type Store interface {
	ListActiveSchedules(ctx context.Context, userID string) ([]model.ReleaseSchedule, error)
	ListSections(ctx context.Context, bookID string) ([]model.Section, error)
	ListReleases(ctx context.Context, bookID string) ([]model.Release, error)
	ListUserReleases(ctx context.Context, userID string, status model.ReleaseStatus) ([]model.Release, error)
	InsertRelease(ctx context.Context, r *model.Release) error
	GetRelease(ctx context.Context, id string) (*model.Release, error)
	UpdateRelease(ctx context.Context, r *model.Release) error
	UpsertProgress(ctx context.Context, p *model.ReadingProgress) error
}

// Scheduler evaluates release schedules and creates releases.
type Scheduler struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewScheduler creates a Scheduler. A nil logger falls back to the
// process default.
func NewScheduler(st Store, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{store: st, logger: logger, now: time.Now}
}

// CheckAndCreateReleases runs the state machine once for every active
// schedule of the user's books. Per-schedule problems (malformed time,
// nothing due, exhausted book) never fail the whole pass; only store
// errors do.
func (s *Scheduler) CheckAndCreateReleases(ctx context.Context, userID string) error {
	schedules, err := s.store.ListActiveSchedules(ctx, userID)
	if err != nil {
		return fmt.Errorf("list schedules: %w", err)
	}
	for _, sched := range schedules {
		if err := s.processSchedule(ctx, &sched); err != nil {
			return fmt.Errorf("schedule %s: %w", sched.ID, err)
		}
	}
	return nil
}

func (s *Scheduler) processSchedule(ctx context.Context, sched *model.ReleaseSchedule) error {
	now := s.now()

	if !containsDay(sched.DaysOfWeek, isoWeekday(now)) {
		return nil
	}

	instant, ok := releaseInstant(now, sched.ReleaseTime)
	if !ok {
		s.logger.Warn("skipping schedule with malformed release time",
			"schedule", sched.ID, "releaseTime", sched.ReleaseTime)
		return nil
	}
	if now.Before(instant) {
		return nil
	}

	releases, err := s.store.ListReleases(ctx, sched.BookID)
	if err != nil {
		return fmt.Errorf("list releases: %w", err)
	}

	for _, r := range releases {
		if r.ScheduledFor.Equal(instant) {
			return nil // already created for this instant
		}
	}

	unread := 0
	for _, r := range releases {
		if r.Status == model.ReleaseReleased {
			unread++
		}
	}
	if unread >= backpressureLimit {
		s.logger.Debug("schedule paused by unread releases",
			"schedule", sched.ID, "unread", unread)
		return nil
	}

	return s.createRelease(ctx, sched, releases, instant, now)
}

// CreateImmediateRelease creates a release right now, ignoring the
// schedule's day set and time of day. Used to seed the first batch
// when a schedule is created.
func (s *Scheduler) CreateImmediateRelease(ctx context.Context, sched *model.ReleaseSchedule) error {
	now := s.now()
	releases, err := s.store.ListReleases(ctx, sched.BookID)
	if err != nil {
		return fmt.Errorf("list releases: %w", err)
	}
	return s.createRelease(ctx, sched, releases, now, now)
}

// createRelease selects the next unreleased sections and inserts the
// release. An empty selection (book exhausted) and an insert conflict
// (another invocation won the race) are both quiet no-ops.
func (s *Scheduler) createRelease(ctx context.Context, sched *model.ReleaseSchedule, releases []model.Release, instant, now time.Time) error {
	ids, err := s.nextSectionIDs(ctx, sched.BookID, releases, sched.SectionsPerRelease)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	releasedAt := now
	rel := &model.Release{
		ID:           uuid.NewString(),
		BookID:       sched.BookID,
		SectionIDs:   ids,
		ScheduledFor: instant,
		ReleasedAt:   &releasedAt,
		Status:       model.ReleaseReleased,
		CreatedAt:    now,
	}
	if err := s.store.InsertRelease(ctx, rel); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil
		}
		return fmt.Errorf("insert release: %w", err)
	}

	s.logger.Info("release created",
		"book", sched.BookID, "release", rel.ID, "sections", len(ids))
	return nil
}

// nextSectionIDs returns the next contiguous order-index slice of
// sections that appear in no prior release, regardless of that
// release's status. A section is released at most once, ever.
func (s *Scheduler) nextSectionIDs(ctx context.Context, bookID string, releases []model.Release, count int) ([]string, error) {
	sections, err := s.store.ListSections(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}

	taken := make(map[string]bool)
	for _, r := range releases {
		for _, id := range r.SectionIDs {
			taken[id] = true
		}
	}

	var ids []string
	for _, sec := range sections {
		if taken[sec.ID] {
			continue
		}
		ids = append(ids, sec.ID)
		if len(ids) == count {
			break
		}
	}
	return ids, nil
}

// AvailableReleases returns the user's released-but-unread releases,
// newest first.
func (s *Scheduler) AvailableReleases(ctx context.Context, userID string) ([]model.Release, error) {
	return s.store.ListUserReleases(ctx, userID, model.ReleaseReleased)
}

// MarkReleaseRead moves a release to read status and records full
// reading progress on every section it contains for the acting user.
func (s *Scheduler) MarkReleaseRead(ctx context.Context, releaseID, userID string) error {
	rel, err := s.store.GetRelease(ctx, releaseID)
	if err != nil {
		return fmt.Errorf("get release: %w", err)
	}

	rel.Status = model.ReleaseRead
	if err := s.store.UpdateRelease(ctx, rel); err != nil {
		return fmt.Errorf("update release: %w", err)
	}

	now := s.now()
	for _, sectionID := range rel.SectionIDs {
		readAt := now
		p := &model.ReadingProgress{
			ID:                 uuid.NewString(),
			UserID:             userID,
			BookID:             rel.BookID,
			SectionID:          sectionID,
			ReleaseID:          rel.ID,
			ProgressPercentage: 100,
			IsRead:             true,
			ReadAt:             &readAt,
			UpdatedAt:          now,
		}
		if err := s.store.UpsertProgress(ctx, p); err != nil {
			return fmt.Errorf("upsert progress for section %s: %w", sectionID, err)
		}
	}
	return nil
}

// isoWeekday maps Go's weekday to Monday=1..Sunday=7.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func containsDay(days []int, day int) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

// releaseInstant builds today's release instant from an "HH:MM"
// time-of-day string. Reports false for anything unparsable or out of
// range, which skips the schedule for this cycle.
func releaseInstant(now time.Time, hhmm string) (time.Time, bool) {
	h, m, ok := parseClock(hhmm)
	if !ok {
		return time.Time{}, false
	}
	y, mo, d := now.Date()
	return time.Date(y, mo, d, h, m, 0, 0, now.Location()), true
}

func parseClock(hhmm string) (hour, minute int, ok bool) {
	parts := strings.SplitN(hhmm, ":", 3)
	if len(parts) < 2 {
		return 0, 0, false
	}
	// Seconds, if present, are ignored ("09:00:00" from a TIME column).
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}
