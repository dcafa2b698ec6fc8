package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/plutotom/ep-reader/model"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var testTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func seedBook(t *testing.T, s *SQLite, id, userID string) *model.Book {
	t.Helper()
	b := &model.Book{
		ID:        id,
		UserID:    userID,
		Title:     "Seed Book",
		Author:    "Seed Author",
		Status:    model.StatusReady,
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
	if err := s.CreateBook(context.Background(), b); err != nil {
		t.Fatal(err)
	}
	return b
}

func seedSections(t *testing.T, s *SQLite, bookID string, n int) []model.Section {
	t.Helper()
	sections := make([]model.Section, n)
	for i := range sections {
		sections[i] = model.Section{
			ID:         fmt.Sprintf("%s-sec-%d", bookID, i),
			BookID:     bookID,
			Title:      fmt.Sprintf("Section %d", i),
			Content:    "<p>content</p>",
			OrderIndex: i,
			CreatedAt:  testTime,
		}
	}
	if err := s.InsertSections(context.Background(), sections); err != nil {
		t.Fatal(err)
	}
	return sections
}

func TestBookRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := seedBook(t, s, "b1", "u1")

	got, err := s.GetBook(ctx, "b1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != b.Title || got.Status != model.StatusReady || !got.CreatedAt.Equal(testTime) {
		t.Errorf("got %+v", got)
	}

	got.Status = model.StatusActive
	got.TotalSections = 7
	got.UpdatedAt = testTime.Add(time.Hour)
	if err := s.UpdateBook(ctx, got); err != nil {
		t.Fatal(err)
	}
	got2, err := s.GetBook(ctx, "b1")
	if err != nil {
		t.Fatal(err)
	}
	if got2.Status != model.StatusActive || got2.TotalSections != 7 {
		t.Errorf("update not persisted: %+v", got2)
	}
}

func TestGetBookNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetBook(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestListBooksScopedToUser(t *testing.T) {
	s := newTestStore(t)
	seedBook(t, s, "b1", "u1")
	seedBook(t, s, "b2", "u1")
	seedBook(t, s, "b3", "u2")

	books, err := s.ListBooks(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(books) != 2 {
		t.Errorf("got %d books, want 2", len(books))
	}
}

func TestSectionsOrderedByOrderIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedBook(t, s, "b1", "u1")

	// Insert out of order on purpose.
	sections := []model.Section{
		{ID: "s2", BookID: "b1", Title: "Two", Content: "c", OrderIndex: 2, CreatedAt: testTime},
		{ID: "s0", BookID: "b1", Title: "Zero", Content: "c", OrderIndex: 0, CreatedAt: testTime},
		{ID: "s1", BookID: "b1", Title: "One", Content: "c", OrderIndex: 1, CreatedAt: testTime},
	}
	if err := s.InsertSections(ctx, sections); err != nil {
		t.Fatal(err)
	}

	got, err := s.ListSections(ctx, "b1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d sections, want 3", len(got))
	}
	for i, sec := range got {
		if sec.OrderIndex != i {
			t.Errorf("position %d has orderIndex %d", i, sec.OrderIndex)
		}
	}
}

func TestDeleteBookCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedBook(t, s, "b1", "u1")
	seedSections(t, s, "b1", 3)

	if err := s.DeleteBook(ctx, "b1"); err != nil {
		t.Fatal(err)
	}
	secs, err := s.ListSections(ctx, "b1")
	if err != nil {
		t.Fatal(err)
	}
	if len(secs) != 0 {
		t.Errorf("sections survived book deletion: %d left", len(secs))
	}
}

func TestInsertReleaseConflictOnInstant(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedBook(t, s, "b1", "u1")

	rel := &model.Release{
		ID:           "r1",
		BookID:       "b1",
		SectionIDs:   []string{"s0", "s1"},
		ScheduledFor: testTime,
		Status:       model.ReleaseReleased,
		CreatedAt:    testTime,
	}
	if err := s.InsertRelease(ctx, rel); err != nil {
		t.Fatal(err)
	}

	dup := *rel
	dup.ID = "r2"
	if err := s.InsertRelease(ctx, &dup); !errors.Is(err, ErrConflict) {
		t.Errorf("got %v, want ErrConflict", err)
	}

	rels, err := s.ListReleases(ctx, "b1")
	if err != nil {
		t.Fatal(err)
	}
	if len(rels) != 1 {
		t.Fatalf("got %d releases, want 1", len(rels))
	}
	if len(rels[0].SectionIDs) != 2 || rels[0].SectionIDs[0] != "s0" {
		t.Errorf("section ids round trip failed: %v", rels[0].SectionIDs)
	}
	if rels[0].ReleasedAt != nil {
		t.Errorf("releasedAt = %v, want nil", rels[0].ReleasedAt)
	}
}

func TestUpdateReleaseStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedBook(t, s, "b1", "u1")

	rel := &model.Release{
		ID: "r1", BookID: "b1", SectionIDs: []string{"s0"},
		ScheduledFor: testTime, Status: model.ReleaseReleased, CreatedAt: testTime,
	}
	if err := s.InsertRelease(ctx, rel); err != nil {
		t.Fatal(err)
	}

	now := testTime.Add(2 * time.Hour)
	rel.Status = model.ReleaseRead
	rel.ReleasedAt = &now
	if err := s.UpdateRelease(ctx, rel); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetRelease(ctx, "r1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != model.ReleaseRead {
		t.Errorf("status = %q, want read", got.Status)
	}
	if got.ReleasedAt == nil || !got.ReleasedAt.Equal(now) {
		t.Errorf("releasedAt = %v, want %v", got.ReleasedAt, now)
	}
}

func TestProgressUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedBook(t, s, "b1", "u1")
	seedSections(t, s, "b1", 1)

	p := &model.ReadingProgress{
		ID: "p1", UserID: "u1", BookID: "b1", SectionID: "b1-sec-0",
		ProgressPercentage: 40, LastParagraphIndex: 3, UpdatedAt: testTime,
	}
	if err := s.UpsertProgress(ctx, p); err != nil {
		t.Fatal(err)
	}

	// Second upsert with a new row id must update the existing row.
	now := testTime.Add(time.Minute)
	p2 := &model.ReadingProgress{
		ID: "p2", UserID: "u1", BookID: "b1", SectionID: "b1-sec-0",
		ProgressPercentage: 100, LastParagraphIndex: 9, IsRead: true,
		ReadAt: &now, UpdatedAt: now,
	}
	if err := s.UpsertProgress(ctx, p2); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetProgress(ctx, "u1", "b1-sec-0")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "p1" {
		t.Errorf("row id = %q, want original p1", got.ID)
	}
	if got.ProgressPercentage != 100 || !got.IsRead || got.LastParagraphIndex != 9 {
		t.Errorf("upsert did not update: %+v", got)
	}
	if got.ReadAt == nil || !got.ReadAt.Equal(now) {
		t.Errorf("readAt = %v, want %v", got.ReadAt, now)
	}

	all, err := s.ListProgressByBook(ctx, "u1", "b1")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("got %d progress rows, want 1", len(all))
	}
}

func TestListActiveSchedulesScopedToUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedBook(t, s, "b1", "u1")
	seedBook(t, s, "b2", "u2")

	mk := func(id, bookID string, active bool) {
		t.Helper()
		err := s.CreateSchedule(ctx, &model.ReleaseSchedule{
			ID: id, BookID: bookID, ScheduleType: model.ScheduleDaily,
			DaysOfWeek: []int{1, 2, 3, 4, 5}, ReleaseTime: "08:00",
			SectionsPerRelease: 2, IsActive: active,
			CreatedAt: testTime, UpdatedAt: testTime,
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	mk("sch1", "b1", true)
	mk("sch2", "b2", true)

	scheds, err := s.ListActiveSchedules(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(scheds) != 1 || scheds[0].ID != "sch1" {
		t.Fatalf("got %+v, want only sch1", scheds)
	}
	if len(scheds[0].DaysOfWeek) != 5 || scheds[0].DaysOfWeek[0] != 1 {
		t.Errorf("days of week round trip failed: %v", scheds[0].DaysOfWeek)
	}

	scheds[0].IsActive = false
	if err := s.UpdateSchedule(ctx, &scheds[0]); err != nil {
		t.Fatal(err)
	}
	scheds, err = s.ListActiveSchedules(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(scheds) != 0 {
		t.Errorf("deactivated schedule still listed")
	}
}

func TestSettingsUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetSettings(ctx, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound before first upsert", err)
	}

	us := &model.UserSettings{
		ID: "us1", UserID: "u1", Timezone: "UTC",
		ReadingFontSize: "medium", ReadingTheme: "light",
		CreatedAt: testTime, UpdatedAt: testTime,
	}
	if err := s.UpsertSettings(ctx, us); err != nil {
		t.Fatal(err)
	}

	us.ID = "us2"
	us.ReadingTheme = "sepia"
	if err := s.UpsertSettings(ctx, us); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetSettings(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "us1" || got.ReadingTheme != "sepia" {
		t.Errorf("got %+v", got)
	}
}
