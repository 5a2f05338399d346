package brackets

import "github.com/Dosada05/bracket-pool/models"

// GenerateBracketParams is the input of a BracketGenerator. A nil point table
// takes the default one, and a zero bonus alongside it takes the default
// bonus. A zero Pairing falls back to DefaultFinalFourPairing.
type GenerateBracketParams struct {
	Seeding models.SeedingTable
	Rules   ScoringRules
	Pairing FinalFourPairing
}

type BracketGenerator interface {
	GenerateBracket(params GenerateBracketParams) (*Graph, error)

	GetName() string
}

// Generate builds the game graph with the regional generator.
func Generate(table models.SeedingTable, rules ScoringRules, pairing FinalFourPairing) (*Graph, error) {
	return NewRegionalGenerator().GenerateBracket(GenerateBracketParams{
		Seeding: table,
		Rules:   rules,
		Pairing: pairing,
	})
}
