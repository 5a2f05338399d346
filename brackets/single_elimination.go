package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/bracket-pool/models"
)

// firstRoundSeeds is the standard Round-of-64 order inside a region. Adjacent
// pairs of games meet in the next round, so 1 can only see 8/9 before 4/5.
var firstRoundSeeds = [8][2]int{
	{1, 16}, {8, 9}, {5, 12}, {4, 13}, {6, 11}, {3, 14}, {7, 10}, {2, 15},
}

type node struct {
	teamID       string
	sourceGameID string
}

func (n node) slot() Slot {
	if n.teamID != "" {
		return Slot{TeamID: n.teamID}
	}
	return Slot{SourceGameID: n.sourceGameID}
}

// RegionalGenerator builds the 63-game graph of a four-region, 64-team field.
type RegionalGenerator struct {
}

func NewRegionalGenerator() BracketGenerator {
	return &RegionalGenerator{}
}

func (g *RegionalGenerator) GetName() string {
	return "Regional64"
}

func (g *RegionalGenerator) GenerateBracket(params GenerateBracketParams) (*Graph, error) {
	rules := params.Rules
	if rules.RoundPoints == nil {
		defaults := DefaultScoringRules()
		rules.RoundPoints = defaults.RoundPoints
		if rules.UnderdogBonus == 0 {
			rules.UnderdogBonus = defaults.UnderdogBonus
		}
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	pairing := params.Pairing
	if pairing == (FinalFourPairing{}) {
		pairing = DefaultFinalFourPairing()
	}
	if err := pairing.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateSeeding(params.Seeding); err != nil {
		return nil, err
	}

	regions := normalizeRegions(params.Seeding.Regions)
	graph := &Graph{
		year:    params.Seeding.Year,
		games:   make([]Game, 0, TotalGameCount),
		index:   make(map[string]int, TotalGameCount),
		teams:   make(map[string]models.Team, TotalTeamCount),
		regions: regions,
		rules:   rules.clone(),
	}

	regionWinners := make(map[models.RegionPosition]string, RegionCount)
	for _, region := range regions {
		for _, t := range region.Teams {
			graph.teams[t.ID] = t
		}
		winner, err := g.buildRegion(graph, region)
		if err != nil {
			return nil, err
		}
		regionWinners[region.Position] = winner
	}

	semis := [2]string{FinalFourGame1ID, FinalFourGame2ID}
	for i, pair := range pairing {
		graph.games = append(graph.games, Game{
			ID:       semis[i],
			Round:    FinalFour,
			Sequence: i + 1,
			Slots: [2]Slot{
				{SourceGameID: regionWinners[pair[0]]},
				{SourceGameID: regionWinners[pair[1]]},
			},
			Points: rules.RoundPoints[FinalFour],
		})
	}
	graph.games = append(graph.games, Game{
		ID:       ChampionshipGameID,
		Round:    Championship,
		Sequence: 1,
		Slots:    [2]Slot{{SourceGameID: FinalFourGame1ID}, {SourceGameID: FinalFourGame2ID}},
		Points:   rules.RoundPoints[Championship],
	})

	// Play order: by round, then bracket position, then sequence.
	regionOrder := make(map[string]int, len(regions))
	for i, r := range regions {
		regionOrder[RegionSlug(r.Name)] = i
	}
	sort.SliceStable(graph.games, func(i, j int) bool {
		a, b := graph.games[i], graph.games[j]
		if a.Round != b.Round {
			return a.Round < b.Round
		}
		if a.Region != b.Region {
			return regionOrder[a.Region] < regionOrder[b.Region]
		}
		return a.Sequence < b.Sequence
	})

	for i, game := range graph.games {
		if _, dup := graph.index[game.ID]; dup {
			return nil, fmt.Errorf("internal error: duplicate game id %q", game.ID)
		}
		graph.index[game.ID] = i
	}

	// Second pass: point each feeder at the game its winner advances to.
	for _, game := range graph.games {
		for _, src := range game.Feeders() {
			idx, ok := graph.index[src]
			if !ok {
				return nil, fmt.Errorf("internal error: game %q is fed by unknown game %q", game.ID, src)
			}
			graph.games[idx].Next = game.ID
		}
	}

	if len(graph.games) != TotalGameCount {
		return nil, fmt.Errorf("internal error: generated %d games, expected %d", len(graph.games), TotalGameCount)
	}
	return graph, nil
}

// buildRegion appends the region's fifteen games and returns the Elite 8 game id.
func (g *RegionalGenerator) buildRegion(graph *Graph, region models.Region) (string, error) {
	slug := RegionSlug(region.Name)

	current := make([]node, 0, TeamsPerRegion)
	for _, pair := range firstRoundSeeds {
		for _, seed := range pair {
			team, ok := region.TeamBySeed(seed)
			if !ok {
				return "", fmt.Errorf("internal error: region %q lost seed %d", region.Name, seed)
			}
			current = append(current, node{teamID: team.ID})
		}
	}

	for _, round := range []Round{RoundOf64, RoundOf32, Sweet16, Elite8} {
		next := make([]node, 0, len(current)/2)
		for i := 0; i < len(current); i += 2 {
			seq := i/2 + 1
			id := fmt.Sprintf("%s-%s-%d", slug, round.Code(), seq)
			graph.games = append(graph.games, Game{
				ID:       id,
				Round:    round,
				Region:   slug,
				Sequence: seq,
				Slots:    [2]Slot{current[i].slot(), current[i+1].slot()},
				Points:   graph.rules.RoundPoints[round],
			})
			next = append(next, node{sourceGameID: id})
		}
		current = next
	}

	if len(current) != 1 {
		return "", fmt.Errorf("internal error: region %q reduced to %d games, expected 1", region.Name, len(current))
	}
	return current[0].sourceGameID, nil
}
