package model

import "time"

// UserSettings holds per-user reading preferences. One row per user.
type UserSettings struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Timezone        string    `json:"timezone"`
	ReadingFontSize string    `json:"readingFontSize"` // small, medium, large
	ReadingTheme    string    `json:"readingTheme"`    // light, dark, sepia
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
