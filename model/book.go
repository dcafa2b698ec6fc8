// Package model defines the domain types shared across the application:
// books, sections, release schedules, releases, and reading progress.
package model

import "time"

// BookStatus tracks a book through its lifecycle.
type BookStatus string

const (
	// StatusProcessing means the upload is being parsed into sections.
	StatusProcessing BookStatus = "processing"
	// StatusReady means parsing finished and the book can be scheduled.
	StatusReady BookStatus = "ready"
	// StatusActive means a release schedule is running for the book.
	StatusActive BookStatus = "active"
	// StatusCompleted means every section has been released and read.
	StatusCompleted BookStatus = "completed"
)

// Book is an uploaded EPUB owned by a user.
type Book struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	Title         string     `json:"title"`
	Author        string     `json:"author,omitempty"`
	FilePath      string     `json:"filePath,omitempty"`
	CoverImage    string     `json:"coverImage,omitempty"`
	TotalChapters int        `json:"totalChapters"`
	TotalSections int        `json:"totalSections"`
	Status        BookStatus `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Section is a bounded chunk of book content, the atomic unit of
// scheduling and progress tracking.
//
// OrderIndex is the only field consumers may rely on for reading order;
// it is unique and densely increasing per book. ChapterNumber and
// SectionNumber are informational groupings.
type Section struct {
	ID                string    `json:"id"`
	BookID            string    `json:"bookId"`
	ChapterNumber     int       `json:"chapterNumber"`
	SectionNumber     int       `json:"sectionNumber"`
	Title             string    `json:"title"`
	Content           string    `json:"content"` // sanitized HTML
	WordCount         int       `json:"wordCount"`
	EstimatedReadTime int       `json:"estimatedReadTime"` // minutes
	OrderIndex        int       `json:"orderIndex"`
	HeaderLevel       int       `json:"headerLevel"` // 1-3
	CreatedAt         time.Time `json:"createdAt"`
}
