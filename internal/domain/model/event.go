// Package model contains domain models passed between layers.
package model

// Category groups announcements for filtering.
type Category string

// Known categories.
const (
	CategoryUpdate      Category = "update"
	CategoryEvent       Category = "event"
	CategoryCollab      Category = "collab"
	CategoryMaintenance Category = "maintenance"
)

// Categories lists the known categories in display order.
func Categories() []Category {
	return []Category{CategoryUpdate, CategoryEvent, CategoryCollab, CategoryMaintenance}
}

// Known reports whether c is one of the recognized categories.
func (c Category) Known() bool {
	switch c {
	case CategoryUpdate, CategoryEvent, CategoryCollab, CategoryMaintenance:
		return true
	}
	return false
}

// Status describes where an announcement sits in time.
type Status string

// Known statuses.
const (
	StatusUpcoming  Status = "upcoming"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
)

// Known reports whether s is one of the recognized statuses.
func (s Status) Known() bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted:
		return true
	}
	return false
}

// Record is one announcement shown on the board.
// Field names mirror the import/export document.
type Record struct {
	ID          int      `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Category    Category `json:"category" yaml:"category"`
	Status      Status   `json:"status" yaml:"status"`
	Date        string   `json:"date" yaml:"date"`         // free-text display date
	DateSort    string   `json:"dateSort" yaml:"dateSort"` // ISO-8601, drives ordering
	Icon        string   `json:"icon" yaml:"icon"`
	IconBg      string   `json:"iconBg" yaml:"iconBg"`
	Description string   `json:"description" yaml:"description"`
	Details     []string `json:"details" yaml:"details"`
	Note        string   `json:"note,omitempty" yaml:"note,omitempty"`
	NoteBg      string   `json:"noteBg,omitempty" yaml:"noteBg,omitempty"`
	NoteColor   string   `json:"noteColor,omitempty" yaml:"noteColor,omitempty"`
	Badge       string   `json:"badge,omitempty" yaml:"badge,omitempty"`
	BadgeBg     string   `json:"badgeBg,omitempty" yaml:"badgeBg,omitempty"`
	Animation   string   `json:"animation,omitempty" yaml:"animation,omitempty"`
}

// Clone returns a copy that shares no slices with r.
func (r Record) Clone() Record {
	if r.Details != nil {
		r.Details = append([]string(nil), r.Details...)
	}
	return r
}

// Document is the import/export envelope.
type Document struct {
	Events []Record `json:"events" yaml:"events"`
}
