// Package pricing computes cake prices from a configuration. The function is
// pure and total: the same tables are replicated by the web configurator, so
// any change here must stay byte-for-byte reproducible across calls or
// client-quoted and server-computed prices will diverge.
package pricing

import (
	"math"

	"cakery/internal/model"
)

// defaultBase is the 6" base price, used when the size is missing or unknown.
const defaultBase = 65

var basePriceBySize = map[model.Size]float64{
	model.Size4:  45,
	model.Size6:  65,
	model.Size8:  85,
	model.Size10: 120,
}

var multiplierByFlavor = map[model.Flavor]float64{
	model.FlavorVanilla:    1.0,
	model.FlavorStrawberry: 1.1,
	model.FlavorChocolate:  1.1,
	model.FlavorChocoMint:  1.2,
	model.FlavorMint:       1.1,
	model.FlavorBanana:     1.1,
	model.FlavorFruit:      1.3,
}

// Quote returns the price of a cake configuration in whole currency units.
//
// Multi-layer and multi-tier pricing is a binary step, not per-unit scaling:
// a 3-layer cake costs the same extra as a 2-layer one. That is a deliberate
// business rule and must not be changed without product sign-off.
func Quote(cfg model.CakeConfiguration) int64 {
	base, ok := basePriceBySize[cfg.Size]
	if !ok {
		base = defaultBase
	}

	flavor, ok := multiplierByFlavor[cfg.Flavor]
	if !ok {
		flavor = 1.0
	}

	layers := 1.0
	if cfg.Layers > 1 {
		layers = 1.2
	}

	tiers := 1.0
	if cfg.Tiers > 1 {
		tiers = 1.3
	}

	return int64(math.Round(base * flavor * layers * tiers))
}
