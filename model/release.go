package model

import "time"

// ScheduleType selects how release days are interpreted.
type ScheduleType string

const (
	ScheduleDaily  ScheduleType = "daily"
	ScheduleWeekly ScheduleType = "weekly"
	ScheduleCustom ScheduleType = "custom"
)

// ReleaseSchedule describes when and how many sections of a book are
// released. At most one active schedule exists per book.
type ReleaseSchedule struct {
	ID                 string       `json:"id"`
	BookID             string       `json:"bookId"`
	ScheduleType       ScheduleType `json:"scheduleType"`
	DaysOfWeek         []int        `json:"daysOfWeek"`  // 1=Monday .. 7=Sunday
	ReleaseTime        string       `json:"releaseTime"` // "HH:MM"
	SectionsPerRelease int          `json:"sectionsPerRelease"`
	IsActive           bool         `json:"isActive"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

// ReleaseStatus tracks a release from creation to completion.
type ReleaseStatus string

const (
	ReleaseScheduled ReleaseStatus = "scheduled"
	ReleaseReleased  ReleaseStatus = "released"
	ReleaseRead      ReleaseStatus = "read"
)

// Release is a batch of sections delivered to a reader on a given day.
// Section-id sets of a book's releases never overlap: a section is
// released at most once.
type Release struct {
	ID           string        `json:"id"`
	BookID       string        `json:"bookId"`
	SectionIDs   []string      `json:"sectionIds"`
	ScheduledFor time.Time     `json:"scheduledFor"`
	ReleasedAt   *time.Time    `json:"releasedAt,omitempty"`
	Status       ReleaseStatus `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
}
