package models

import "time"

type EntryStatus string

const (
	EntryStatusDraft     EntryStatus = "draft"
	EntryStatusSubmitted EntryStatus = "submitted"
)

// Entry is a user's bracket for one tournament year.
type Entry struct {
	ID          int         `json:"id" db:"id"`
	UserID      int         `json:"user_id" db:"user_id"`
	Year        int         `json:"year" db:"year"`
	Name        string      `json:"name" db:"name"`
	Status      EntryStatus `json:"status" db:"status"`
	Picks       PickSet     `json:"picks" db:"-"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	SubmittedAt *time.Time  `json:"submitted_at,omitempty" db:"submitted_at"`
}

func (e *Entry) Frozen() bool {
	return e.Status == EntryStatusSubmitted
}
