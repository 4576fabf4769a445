package model

import (
	"time"

	"github.com/google/uuid"
)

// Flavor is a cake flavor offered by the bakery.
type Flavor string

const (
	FlavorVanilla    Flavor = "Vanilla"
	FlavorStrawberry Flavor = "Strawberry"
	FlavorChocolate  Flavor = "Chocolate"
	FlavorChocoMint  Flavor = "Choco-mint"
	FlavorMint       Flavor = "Mint"
	FlavorBanana     Flavor = "Banana"
	FlavorFruit      Flavor = "Fruit"
)

// Size is a cake diameter.
type Size string

const (
	Size4 Size = `4"`
	Size6 Size = `6"`
	Size8 Size = `8"`
	Size10 Size = `10"`
)

// Shape is a cake base shape.
type Shape string

const (
	ShapeRound  Shape = "Round"
	ShapeSquare Shape = "Square"
	ShapeHeart  Shape = "Heart"
)

// Customization holds the optional decoration choices for a cake.
type Customization struct {
	Message     string   `json:"message,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	Decorations []string `json:"decorations,omitempty"`
}

// CakeConfiguration is the customer-chosen attribute set that fully determines
// the price and production requirements for one cake. It is treated as
// immutable once a price has been quoted for it.
type CakeConfiguration struct {
	Flavor        Flavor         `json:"flavor"`
	Size          Size           `json:"size"`
	Shape         Shape          `json:"shape,omitempty"`
	Layers        int            `json:"layers,omitempty"`
	Tiers         int            `json:"tiers,omitempty"`
	Customization *Customization `json:"customization,omitempty"`
	Occasion      string         `json:"occasion,omitempty"`
	// Servings is informational only and does not affect pricing.
	Servings int `json:"servings,omitempty"`
}

var knownFlavors = map[Flavor]bool{
	FlavorVanilla:    true,
	FlavorStrawberry: true,
	FlavorChocolate:  true,
	FlavorChocoMint:  true,
	FlavorMint:       true,
	FlavorBanana:     true,
	FlavorFruit:      true,
}

var knownSizes = map[Size]bool{
	Size4:  true,
	Size6:  true,
	Size8:  true,
	Size10: true,
}

// Validate checks the invariants required before a configuration can be
// priced: flavor and size must be set to known values, and layers/tiers must
// be within [1,3]. Zero layers/tiers are accepted and treated as 1.
func (c *CakeConfiguration) Validate() error {
	var fields []string

	if !knownFlavors[c.Flavor] {
		fields = append(fields, "flavor")
	}
	if !knownSizes[c.Size] {
		fields = append(fields, "size")
	}
	if c.Layers < 0 || c.Layers > 3 {
		fields = append(fields, "layers")
	}
	if c.Tiers < 0 || c.Tiers > 3 {
		fields = append(fields, "tiers")
	}

	if len(fields) > 0 {
		return NewValidationError("invalid cake configuration", fields...)
	}

	return nil
}

// Cake is a saved cake design owned by one customer.
type Cake struct {
	ID         uuid.UUID         `json:"id"`
	CustomerID uuid.UUID         `json:"customer_id"`
	Name       string            `json:"name"`
	Config     CakeConfiguration `json:"config"`
	PriceUnits int64             `json:"price_units"`
	PreviewURL string            `json:"preview_url,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// CakeRequest is the request payload for saving a cake design.
type CakeRequest struct {
	Name   string            `json:"name"`
	Config CakeConfiguration `json:"config"`
}

// QuoteRequest is the request payload for pricing a configuration without
// saving it.
type QuoteRequest struct {
	Config CakeConfiguration `json:"config"`
}

// QuoteResponse carries a computed price for a configuration.
type QuoteResponse struct {
	TotalAmount int64 `json:"total_amount"`
}
