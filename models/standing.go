package models

import "time"

// Standing is one ranked row of a year's leaderboard. Computed on demand, never stored.
type Standing struct {
	Rank        int       `json:"rank"`
	EntryID     int       `json:"entry_id"`
	EntryName   string    `json:"entry_name"`
	UserID      int       `json:"user_id"`
	Total       int       `json:"total"`
	BasePoints  int       `json:"base_points"`
	BonusPoints int       `json:"bonus_points"`
	Correct     int       `json:"correct"`
	MaxPossible int       `json:"max_possible"`
	ComputedAt  time.Time `json:"computed_at"`
}
