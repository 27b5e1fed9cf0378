package inventory

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecipeComponent is one ingredient of a sellable item, consumed from a
// designated stock location
type RecipeComponent struct {
	ComponentItemID uuid.UUID
	LocationID      uuid.UUID
	QuantityUsed    decimal.Decimal
}

// Recipe is the bill of materials of a sellable item
type Recipe struct {
	ItemID     uuid.UUID
	Components []RecipeComponent
}

// SoldLine is the part of an order line the depletion plan needs
type SoldLine struct {
	LineID   uuid.UUID
	ItemID   uuid.UUID
	Quantity decimal.Decimal
}

// LineDemand is the share of a requirement caused by one order line
type LineDemand struct {
	LineID   uuid.UUID
	Quantity decimal.Decimal
}

// Requirement is the total quantity to deplete from one stock record
type Requirement struct {
	ComponentItemID uuid.UUID
	LocationID      uuid.UUID
	Quantity        decimal.Decimal
	Lines           []LineDemand
}

type stockKey struct {
	component uuid.UUID
	location  uuid.UUID
}

// PlanDepletion explodes sold lines into per-stock requirements using
// quantityUsed × lineQuantity. Items without a recipe contribute nothing.
// The result is ordered by (component, location) so that stock rows are
// always locked in the same order.
func PlanDepletion(lines []SoldLine, recipes map[uuid.UUID]*Recipe) []Requirement {
	byKey := make(map[stockKey]*Requirement)
	for _, line := range lines {
		recipe, ok := recipes[line.ItemID]
		if !ok || recipe == nil {
			continue
		}
		for _, c := range recipe.Components {
			qty := c.QuantityUsed.Mul(line.Quantity)
			if !qty.IsPositive() {
				continue
			}
			key := stockKey{component: c.ComponentItemID, location: c.LocationID}
			req, ok := byKey[key]
			if !ok {
				req = &Requirement{ComponentItemID: c.ComponentItemID, LocationID: c.LocationID, Quantity: decimal.Zero}
				byKey[key] = req
			}
			req.Quantity = req.Quantity.Add(qty)
			req.Lines = append(req.Lines, LineDemand{LineID: line.LineID, Quantity: qty})
		}
	}

	out := make([]Requirement, 0, len(byKey))
	for _, req := range byKey {
		out = append(out, *req)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := bytes.Compare(out[i].ComponentItemID[:], out[j].ComponentItemID[:]); c != 0 {
			return c < 0
		}
		return bytes.Compare(out[i].LocationID[:], out[j].LocationID[:]) < 0
	})
	return out
}
