package model

import "time"

// ReadingProgress records how far a user has read into a section.
// Keyed by (UserID, SectionID); updates are upserts. A progress
// percentage of 100 or more forces IsRead true.
type ReadingProgress struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"userId"`
	BookID             string     `json:"bookId"`
	SectionID          string     `json:"sectionId"`
	ReleaseID          string     `json:"releaseId,omitempty"`
	ProgressPercentage float64    `json:"progressPercentage"` // 0-100
	LastParagraphIndex int        `json:"lastParagraphIndex"`
	IsRead             bool       `json:"isRead"`
	ReadAt             *time.Time `json:"readAt,omitempty"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}
