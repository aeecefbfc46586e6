package forge

import (
	"github.com/zjrosen/alloy/internal/variant"
)

// UnitEvent describes the outcome of one construction, or the eviction of a
// stored unit. Eviction events carry only Template and Unit.
type UnitEvent struct {
	Template string
	Unit     variant.ID

	// ChainID groups a generation with the nested constructions it triggered.
	ChainID string

	// Depth is 1 for a top-level generation.
	Depth int

	Err error
}
