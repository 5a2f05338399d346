package brackets

import (
	"errors"
	"fmt"

	"github.com/Dosada05/bracket-pool/models"
)

var (
	ErrInvalidScoringRules     = errors.New("invalid scoring rules")
	ErrInvalidFinalFourPairing = errors.New("invalid final four pairing")
)

// ScoringRules holds the per-round point table and the underdog bonus.
// Point values are configuration: the published rules disagree on the Final Four value.
type ScoringRules struct {
	RoundPoints   map[Round]int `json:"round_points"`
	UnderdogBonus int           `json:"underdog_bonus"`
}

func DefaultScoringRules() ScoringRules {
	return ScoringRules{
		RoundPoints: map[Round]int{
			RoundOf64:    1,
			RoundOf32:    2,
			Sweet16:      4,
			Elite8:       8,
			FinalFour:    16,
			Championship: 32,
		},
		UnderdogBonus: 2,
	}
}

func (r ScoringRules) Validate() error {
	for _, round := range Rounds {
		pts, ok := r.RoundPoints[round]
		if !ok {
			return fmt.Errorf("%w: no point value for %s", ErrInvalidScoringRules, round)
		}
		if pts < 0 {
			return fmt.Errorf("%w: negative point value %d for %s", ErrInvalidScoringRules, pts, round)
		}
	}
	if len(r.RoundPoints) != len(Rounds) {
		return fmt.Errorf("%w: point table has %d entries, expected %d", ErrInvalidScoringRules, len(r.RoundPoints), len(Rounds))
	}
	if r.UnderdogBonus < 0 {
		return fmt.Errorf("%w: negative underdog bonus %d", ErrInvalidScoringRules, r.UnderdogBonus)
	}
	return nil
}

func (r ScoringRules) clone() ScoringRules {
	pts := make(map[Round]int, len(r.RoundPoints))
	for k, v := range r.RoundPoints {
		pts[k] = v
	}
	return ScoringRules{RoundPoints: pts, UnderdogBonus: r.UnderdogBonus}
}

// FinalFourPairing names which region winners meet in final-four-1 and final-four-2.
type FinalFourPairing [2][2]models.RegionPosition

func DefaultFinalFourPairing() FinalFourPairing {
	return FinalFourPairing{
		{models.PositionTopLeft, models.PositionBottomLeft},
		{models.PositionTopRight, models.PositionBottomRight},
	}
}

// Validate checks every bracket position appears exactly once.
func (p FinalFourPairing) Validate() error {
	seen := make(map[models.RegionPosition]bool, 4)
	for _, pair := range p {
		for _, pos := range pair {
			if !pos.Valid() {
				return fmt.Errorf("%w: unknown position %q", ErrInvalidFinalFourPairing, pos)
			}
			if seen[pos] {
				return fmt.Errorf("%w: position %q paired twice", ErrInvalidFinalFourPairing, pos)
			}
			seen[pos] = true
		}
	}
	return nil
}
