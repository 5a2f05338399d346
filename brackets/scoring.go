package brackets

import "github.com/Dosada05/bracket-pool/models"

// GameState is a game's position in the unplayed -> picked -> resolved -> scored
// progression as seen from one pick set.
type GameState string

const (
	StateUnplayed GameState = "unplayed"
	StatePicked   GameState = "picked"
	StateResolved GameState = "resolved"
	StateScored   GameState = "scored"
)

type SkipReason string

const (
	SkipNoPick      SkipReason = "no_pick"
	SkipInvalidPick SkipReason = "invalid_pick"
)

// GameScore explains the points one game contributed.
type GameScore struct {
	GameID        string     `json:"game_id"`
	Round         Round      `json:"round"`
	State         GameState  `json:"state"`
	PickedTeamID  string     `json:"picked_team_id,omitempty"`
	WinnerTeamID  string     `json:"winner_team_id,omitempty"`
	LoserTeamID   string     `json:"loser_team_id,omitempty"`
	Correct       bool       `json:"correct"`
	BasePoints    int        `json:"base_points"`
	UnderdogBonus int        `json:"underdog_bonus"`
	PointsAwarded int        `json:"points_awarded"`
	Skipped       bool       `json:"skipped"`
	SkipReason    SkipReason `json:"skip_reason,omitempty"`
}

type Score struct {
	Year        int         `json:"year"`
	Total       int         `json:"total"`
	BasePoints  int         `json:"base_points"`
	BonusPoints int         `json:"bonus_points"`
	Correct     int         `json:"correct"`
	Resolved    int         `json:"resolved"`
	MaxPossible int         `json:"max_possible"`
	Games       []GameScore `json:"games"`
}

// ScoreBracket scores picks against results. Results that break the
// advancement chain are refused with *InconsistentResultSetError; picks are
// scored best-effort, with invalid or missing picks flagged as skipped.
func ScoreBracket(g *Graph, picks models.PickSet, results models.ResultSet) (*Score, error) {
	resultViolations, _ := checkChain(g, results, "recorded")
	if len(resultViolations) > 0 {
		return nil, &InconsistentResultSetError{Violations: resultViolations}
	}
	_, validPick := checkChain(g, picks, "picked")

	eliminated := make(map[string]bool, len(results))
	for _, game := range g.games {
		winner, ok := results[game.ID]
		if !ok {
			continue
		}
		for _, team := range g.Contestants(game, results) {
			if team != winner {
				eliminated[team] = true
			}
		}
	}

	score := &Score{
		Year:  g.year,
		Games: make([]GameScore, 0, len(g.games)),
	}
	alive := 0

	for _, game := range g.games {
		gs := GameScore{GameID: game.ID, Round: game.Round}
		pick, picked := picks[game.ID]
		winner, resolved := results[game.ID]
		gs.PickedTeamID = pick

		if resolved {
			score.Resolved++
			gs.WinnerTeamID = winner
			for _, team := range g.Contestants(game, results) {
				if team != winner {
					gs.LoserTeamID = team
				}
			}
		}

		switch {
		case resolved && picked:
			gs.State = StateScored
		case resolved:
			gs.State = StateResolved
		case picked:
			gs.State = StatePicked
		default:
			gs.State = StateUnplayed
		}

		switch {
		case !picked:
			gs.Skipped = true
			gs.SkipReason = SkipNoPick
		case !validPick[game.ID]:
			gs.Skipped = true
			gs.SkipReason = SkipInvalidPick
			if resolved {
				gs.State = StateResolved
			}
		case resolved:
			if pick == winner {
				gs.Correct = true
				gs.BasePoints = game.Points
				gs.UnderdogBonus = g.underdogBonus(winner, gs.LoserTeamID)
				gs.PointsAwarded = gs.BasePoints + gs.UnderdogBonus
			}
		default:
			if !eliminated[pick] {
				alive += game.Points
			}
		}

		if gs.Correct {
			score.Correct++
		}
		score.BasePoints += gs.BasePoints
		score.BonusPoints += gs.UnderdogBonus
		score.Games = append(score.Games, gs)
	}

	score.Total = score.BasePoints + score.BonusPoints
	score.MaxPossible = score.Total + alive
	return score, nil
}

// underdogBonus compares the seeds of the two teams that met in this game,
// not their path through earlier rounds.
func (g *Graph) underdogBonus(winnerID, loserID string) int {
	winner, ok := g.teams[winnerID]
	if !ok {
		return 0
	}
	loser, ok := g.teams[loserID]
	if !ok {
		return 0
	}
	if winner.Seed > loser.Seed {
		return g.rules.UnderdogBonus
	}
	return 0
}
