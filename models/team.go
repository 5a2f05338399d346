package models

// RegionPosition is one of the four fixed quarters of the bracket.
type RegionPosition string

const (
	PositionTopLeft     RegionPosition = "top_left"
	PositionBottomLeft  RegionPosition = "bottom_left"
	PositionTopRight    RegionPosition = "top_right"
	PositionBottomRight RegionPosition = "bottom_right"
)

// Positions lists the bracket positions in drawing order.
var Positions = []RegionPosition{PositionTopLeft, PositionBottomLeft, PositionTopRight, PositionBottomRight}

func (p RegionPosition) Valid() bool {
	switch p {
	case PositionTopLeft, PositionBottomLeft, PositionTopRight, PositionBottomRight:
		return true
	}
	return false
}

// Team is a seeded participant of a tournament year. Immutable once the year is published.
type Team struct {
	ID     string `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Seed   int    `json:"seed" db:"seed"`
	Region string `json:"region" db:"region"`
}

type Region struct {
	Name     string         `json:"name" db:"name"`
	Position RegionPosition `json:"position" db:"position"`
	Teams    []Team         `json:"teams" db:"-"`
}

// TeamBySeed returns the region's team holding the given seed.
func (r Region) TeamBySeed(seed int) (Team, bool) {
	for _, t := range r.Teams {
		if t.Seed == seed {
			return t, true
		}
	}
	return Team{}, false
}

// SeedingTable is the 64-team field of one tournament year, already reduced
// to exactly four regions of sixteen (play-in games resolved upstream).
type SeedingTable struct {
	Year    int      `json:"year"`
	Regions []Region `json:"regions"`
}
