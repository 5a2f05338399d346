package brackets

import (
	"fmt"
	"strings"
)

// MalformedSeedingError reports every structural problem found in a seeding table.
type MalformedSeedingError struct {
	Problems []string
}

func (e *MalformedSeedingError) Error() string {
	if len(e.Problems) == 1 {
		return "malformed seeding table: " + e.Problems[0]
	}
	return fmt.Sprintf("malformed seeding table: %d problems: %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

func (e *MalformedSeedingError) add(format string, args ...interface{}) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// InconsistentResultSetError is returned by Score when the results themselves
// break the advancement chain. It is distinct from a bracket that is merely unfinished.
type InconsistentResultSetError struct {
	Violations []Violation
}

func (e *InconsistentResultSetError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.String())
	}
	return "inconsistent result set: " + strings.Join(msgs, "; ")
}
