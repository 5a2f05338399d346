package brackets

import (
	"encoding/json"

	"github.com/Dosada05/bracket-pool/models"
)

const (
	FinalFourGame1ID   = "final-four-1"
	FinalFourGame2ID   = "final-four-2"
	ChampionshipGameID = "championship"
)

// Slot is one side of a game. Round-of-64 slots name a team, every later
// slot names the game whose winner fills it.
type Slot struct {
	TeamID       string `json:"team_id,omitempty"`
	SourceGameID string `json:"source_game_id,omitempty"`
}

func (s Slot) IsTeam() bool { return s.TeamID != "" }

type Game struct {
	ID       string  `json:"id"`
	Round    Round   `json:"round"`
	Region   string  `json:"region,omitempty"`
	Sequence int     `json:"sequence"`
	Slots    [2]Slot `json:"slots"`
	Next     string  `json:"next,omitempty"`
	Points   int     `json:"points"`
}

// Feeders returns the ids of the two source games, or nil for a Round-of-64 game.
func (g Game) Feeders() []string {
	if g.Round == RoundOf64 {
		return nil
	}
	return []string{g.Slots[0].SourceGameID, g.Slots[1].SourceGameID}
}

// Graph is the immutable game graph of one tournament year. Games are held in
// play order so every feeder precedes the game it feeds.
type Graph struct {
	year    int
	games   []Game
	index   map[string]int
	teams   map[string]models.Team
	regions []models.Region
	rules   ScoringRules
}

func (g *Graph) Year() int { return g.year }

func (g *Graph) Len() int { return len(g.games) }

// Games returns a copy of every game in play order.
func (g *Graph) Games() []Game {
	out := make([]Game, len(g.games))
	copy(out, g.games)
	return out
}

func (g *Graph) Game(id string) (Game, bool) {
	i, ok := g.index[id]
	if !ok {
		return Game{}, false
	}
	return g.games[i], true
}

func (g *Graph) GamesInRound(r Round) []Game {
	var out []Game
	for _, game := range g.games {
		if game.Round == r {
			out = append(out, game)
		}
	}
	return out
}

func (g *Graph) Championship() Game {
	game, _ := g.Game(ChampionshipGameID)
	return game
}

func (g *Graph) Team(id string) (models.Team, bool) {
	t, ok := g.teams[id]
	return t, ok
}

func (g *Graph) TeamCount() int { return len(g.teams) }

// Rules returns a copy of the scoring rules the graph was generated with.
func (g *Graph) Rules() ScoringRules { return g.rules.clone() }

// Contestants returns the two teams that meet in a game according to the
// given winners (picks or results). A side is empty while its feeder is undecided.
func (g *Graph) Contestants(game Game, winners map[string]string) [2]string {
	var out [2]string
	for i, slot := range game.Slots {
		if slot.IsTeam() {
			out[i] = slot.TeamID
			continue
		}
		out[i] = winners[slot.SourceGameID]
	}
	return out
}

type graphJSON struct {
	Year    int             `json:"year"`
	Regions []models.Region `json:"regions"`
	Games   []Game          `json:"games"`
	Rules   ScoringRules    `json:"rules"`
}

func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(graphJSON{
		Year:    g.year,
		Regions: g.regions,
		Games:   g.games,
		Rules:   g.rules,
	})
}
