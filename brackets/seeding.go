package brackets

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/Dosada05/bracket-pool/models"
)

const (
	RegionCount    = 4
	TeamsPerRegion = 16
	GamesPerRegion = 15
	TotalGameCount = RegionCount*GamesPerRegion + 3
	TotalTeamCount = RegionCount * TeamsPerRegion
)

// RegionSlug turns a region name into the prefix used by game ids ("Mid West" -> "mid-west").
func RegionSlug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// ValidateSeeding checks the table is exactly four regions of sixteen teams with
// seeds 1-16 each. All problems are collected into one MalformedSeedingError.
func ValidateSeeding(table models.SeedingTable) error {
	merr := &MalformedSeedingError{}

	if len(table.Regions) != RegionCount {
		merr.add("expected %d regions, got %d", RegionCount, len(table.Regions))
	}

	positions := make(map[models.RegionPosition]string)
	slugs := make(map[string]string)
	teamIDs := make(map[string]string)

	for i, region := range table.Regions {
		label := region.Name
		if strings.TrimSpace(label) == "" {
			label = "#" + strconv.Itoa(i+1)
			merr.add("region %s has no name", label)
		} else if slug := RegionSlug(region.Name); slug == "" {
			merr.add("region %q has no usable characters for a game id", region.Name)
		} else if prev, dup := slugs[slug]; dup {
			merr.add("regions %q and %q share the id prefix %q", prev, region.Name, slug)
		} else {
			slugs[slug] = region.Name
		}

		if !region.Position.Valid() {
			merr.add("region %s has unknown position %q", label, region.Position)
		} else if prev, dup := positions[region.Position]; dup {
			merr.add("regions %s and %s both claim position %s", prev, label, region.Position)
		} else {
			positions[region.Position] = label
		}

		if len(region.Teams) != TeamsPerRegion {
			merr.add("region %s has %d teams, expected %d", label, len(region.Teams), TeamsPerRegion)
		}

		seeds := make(map[int]bool, len(region.Teams))
		for _, team := range region.Teams {
			if team.Seed < 1 || team.Seed > TeamsPerRegion {
				merr.add("region %s: team %q has seed %d outside 1-%d", label, team.ID, team.Seed, TeamsPerRegion)
			} else if seeds[team.Seed] {
				merr.add("region %s: seed %d assigned more than once", label, team.Seed)
			} else {
				seeds[team.Seed] = true
			}

			if strings.TrimSpace(team.ID) == "" {
				merr.add("region %s: seed %d team has no id", label, team.Seed)
				continue
			}
			if prev, dup := teamIDs[team.ID]; dup {
				merr.add("team id %q appears in region %s and region %s", team.ID, prev, label)
			} else {
				teamIDs[team.ID] = label
			}
		}
		for seed := 1; seed <= TeamsPerRegion; seed++ {
			if !seeds[seed] {
				merr.add("region %s: seed %d is missing", label, seed)
			}
		}
	}

	if len(merr.Problems) > 0 {
		return merr
	}
	return nil
}

// normalizeRegions returns the regions ordered by bracket position with teams
// ordered by seed and stamped with their region name.
func normalizeRegions(regions []models.Region) []models.Region {
	order := make(map[models.RegionPosition]int, len(models.Positions))
	for i, p := range models.Positions {
		order[p] = i
	}

	out := make([]models.Region, len(regions))
	for i, r := range regions {
		teams := make([]models.Team, len(r.Teams))
		copy(teams, r.Teams)
		for j := range teams {
			teams[j].Region = r.Name
		}
		sort.Slice(teams, func(a, b int) bool { return teams[a].Seed < teams[b].Seed })
		out[i] = models.Region{Name: r.Name, Position: r.Position, Teams: teams}
	}
	sort.SliceStable(out, func(a, b int) bool { return order[out[a].Position] < order[out[b].Position] })
	return out
}
