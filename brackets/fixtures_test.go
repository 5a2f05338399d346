package brackets

import (
	"fmt"
	"testing"

	"github.com/Dosada05/bracket-pool/models"
	"github.com/stretchr/testify/require"
)

var testRegions = []struct {
	name     string
	position models.RegionPosition
}{
	{"East", models.PositionTopLeft},
	{"West", models.PositionBottomLeft},
	{"South", models.PositionTopRight},
	{"Midwest", models.PositionBottomRight},
}

// teamID follows the fixture naming: "east-01" is the East 1 seed.
func teamID(region string, seed int) string {
	return fmt.Sprintf("%s-%02d", RegionSlug(region), seed)
}

func testSeeding() models.SeedingTable {
	table := models.SeedingTable{Year: 2025}
	for _, r := range testRegions {
		region := models.Region{Name: r.name, Position: r.position}
		for seed := 1; seed <= TeamsPerRegion; seed++ {
			region.Teams = append(region.Teams, models.Team{
				ID:   teamID(r.name, seed),
				Name: fmt.Sprintf("%s Team %d", r.name, seed),
				Seed: seed,
			})
		}
		table.Regions = append(table.Regions, region)
	}
	return table
}

func testGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := Generate(testSeeding(), DefaultScoringRules(), DefaultFinalFourPairing())
	require.NoError(t, err)
	return g
}

// playOut decides every game in play order: the better seed wins unless
// overrides names the winner of that game.
func playOut(g *Graph, overrides map[string]string) map[string]string {
	winners := make(map[string]string, g.Len())
	for _, game := range g.Games() {
		if w, ok := overrides[game.ID]; ok {
			winners[game.ID] = w
			continue
		}
		sides := g.Contestants(game, winners)
		a, _ := g.Team(sides[0])
		b, _ := g.Team(sides[1])
		if b.Seed < a.Seed {
			winners[game.ID] = b.ID
		} else {
			winners[game.ID] = a.ID
		}
	}
	return winners
}

func chalkPicks(g *Graph) models.PickSet {
	return models.PickSet(playOut(g, nil))
}

func resultsFrom(winners map[string]string) models.ResultSet {
	return models.ResultSet(winners)
}
