package models

import "time"

// PickSet maps a game id to the team id chosen to win it.
type PickSet map[string]string

func (p PickSet) Clone() PickSet {
	out := make(PickSet, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// ResultSet has the same shape as PickSet but holds actual winners.
type ResultSet map[string]string

// GameResult is one persisted row of a ResultSet.
type GameResult struct {
	Year         int       `json:"year" db:"year"`
	GameID       string    `json:"game_id" db:"game_id"`
	WinnerTeamID string    `json:"winner_team_id" db:"winner_team_id"`
	RecordedAt   time.Time `json:"recorded_at" db:"recorded_at"`
}

func ResultSetFrom(results []GameResult) ResultSet {
	set := make(ResultSet, len(results))
	for _, r := range results {
		set[r.GameID] = r.WinnerTeamID
	}
	return set
}
