package brackets

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Dosada05/bracket-pool/models"
)

type ViolationKind string

const (
	ViolationIncompletePickSet      ViolationKind = "incomplete_pick_set"
	ViolationBrokenAdvancementChain ViolationKind = "broken_advancement_chain"
	ViolationUnknownGameID          ViolationKind = "unknown_game_id"
	ViolationUnknownTeamID          ViolationKind = "unknown_team_id"
)

type Violation struct {
	Kind    ViolationKind `json:"kind"`
	GameID  string        `json:"game_id,omitempty"`
	TeamID  string        `json:"team_id,omitempty"`
	Message string        `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Kind, v.Message)
}

type ValidationResult struct {
	OK         bool        `json:"ok"`
	Violations []Violation `json:"violations"`
}

func (r ValidationResult) Has(kind ViolationKind) bool {
	return len(r.ByKind(kind)) > 0
}

func (r ValidationResult) ByKind(kind ViolationKind) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Kind == kind {
			out = append(out, v)
		}
	}
	return out
}

// Validate checks an in-progress pick set. Missing games are fine; every pick
// present must be justified by picks on both of its feeder games.
func Validate(g *Graph, picks models.PickSet) ValidationResult {
	violations, _ := checkChain(g, picks, "picked")
	return newValidationResult(violations)
}

// ValidateComplete is Validate plus the submission requirement that every
// game in the graph carries a pick.
func ValidateComplete(g *Graph, picks models.PickSet) ValidationResult {
	violations, _ := checkChain(g, picks, "picked")
	for _, game := range g.games {
		if _, ok := picks[game.ID]; !ok {
			violations = append(violations, Violation{
				Kind:    ViolationIncompletePickSet,
				GameID:  game.ID,
				Message: fmt.Sprintf("no pick for game %s", game.ID),
			})
		}
	}
	return newValidationResult(violations)
}

// ValidateResults applies the advancement rule to actual outcomes.
func ValidateResults(g *Graph, results models.ResultSet) ValidationResult {
	violations, _ := checkChain(g, results, "recorded")
	return newValidationResult(violations)
}

func newValidationResult(violations []Violation) ValidationResult {
	if violations == nil {
		violations = []Violation{}
	}
	return ValidationResult{OK: len(violations) == 0, Violations: violations}
}

// checkChain walks the games in play order and reports the games whose winner
// is justified all the way down to a seeded team. verb describes the winners
// in messages ("picked" or "recorded").
func checkChain(g *Graph, winners map[string]string, verb string) ([]Violation, map[string]bool) {
	var violations []Violation
	valid := make(map[string]bool, len(winners))

	unknown := make([]string, 0)
	for id := range winners {
		if _, ok := g.index[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)
	for _, id := range unknown {
		violations = append(violations, Violation{
			Kind:    ViolationUnknownGameID,
			GameID:  id,
			TeamID:  winners[id],
			Message: fmt.Sprintf("game %q is not part of the bracket", id),
		})
	}

	for _, game := range g.games {
		teamID, ok := winners[game.ID]
		if !ok {
			continue
		}
		if _, known := g.teams[teamID]; !known {
			violations = append(violations, Violation{
				Kind:    ViolationUnknownTeamID,
				GameID:  game.ID,
				TeamID:  teamID,
				Message: fmt.Sprintf("team %q is not in the field", teamID),
			})
			continue
		}

		if game.Round == RoundOf64 {
			if teamID != game.Slots[0].TeamID && teamID != game.Slots[1].TeamID {
				violations = append(violations, broken(game, teamID,
					fmt.Sprintf("team %q does not play in game %s", teamID, game.ID)))
				continue
			}
			valid[game.ID] = true
			continue
		}

		feeders := game.Feeders()
		var undecided []string
		for _, f := range feeders {
			if _, ok := winners[f]; !ok {
				undecided = append(undecided, f)
			}
		}
		if len(undecided) > 0 {
			violations = append(violations, broken(game, teamID,
				fmt.Sprintf("team %q %s in game %s before feeder game(s) %s", teamID, verb, game.ID, strings.Join(undecided, ", "))))
			continue
		}

		from := ""
		for _, f := range feeders {
			if winners[f] != teamID {
				continue
			}
			if from == "" || valid[f] {
				from = f
			}
		}
		switch {
		case from == "":
			violations = append(violations, broken(game, teamID,
				fmt.Sprintf("team %q was not %s to win %s or %s", teamID, verb, feeders[0], feeders[1])))
		case !valid[from]:
			violations = append(violations, broken(game, teamID,
				fmt.Sprintf("team %q advances from game %s, which is itself invalid", teamID, from)))
		default:
			valid[game.ID] = true
		}
	}

	return violations, valid
}

func broken(game Game, teamID, msg string) Violation {
	return Violation{
		Kind:    ViolationBrokenAdvancementChain,
		GameID:  game.ID,
		TeamID:  teamID,
		Message: msg,
	}
}
