// Package model contains domain types passed between layers.
package model

import "time"

// Category is the closed set of emergency categories an event can carry.
type Category string

// Known categories, highest urgency first.
const (
	CategoryFire     Category = "FIRE"
	CategoryViolence Category = "VIOLENCE"
	CategoryMedical  Category = "MEDICAL"
	CategoryAccident Category = "ACCIDENT"
	CategoryNormal   Category = "NORMAL"
)

// Categories returns every known category.
func Categories() []Category {
	return []Category{
		CategoryFire,
		CategoryViolence,
		CategoryMedical,
		CategoryAccident,
		CategoryNormal,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryFire, CategoryViolence, CategoryMedical, CategoryAccident, CategoryNormal:
		return true
	}
	return false
}

// Severity bounds. Every classification lands inside this range.
const (
	MinSeverity = 1
	MaxSeverity = 10
)

// Event is the immutable record of one fully processed submission.
// It is only ever constructed whole; no field is updated after creation.
// ReplyAudio is nil when synthesis failed or was skipped; Go's JSON
// encoding renders it as base64, which keeps the payload transport-safe.
type Event struct {
	ID         string    `json:"id"`
	Transcript string    `json:"transcript"`
	Category   Category  `json:"category"`
	Severity   int       `json:"severity"`
	ReplyText  string    `json:"reply_text"`
	ReplyAudio []byte    `json:"reply_audio,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Classification is the transient result of classifying a transcript.
// It is never persisted on its own, only folded into an Event.
type Classification struct {
	Category Category
	Severity int
}
