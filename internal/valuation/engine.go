// Package valuation derives per-material weighted-average cost and stock
// position from the full transaction history. Everything here is a pure
// reducer over the adapter output: no period filter, no retained state, and
// no dependence on row order, because the store carries no authoritative
// sequence number.
package valuation

import (
	"math"

	"github.com/karobar-books/karobar/internal/schema"
)

// Position is the derived inventory view for one material.
type Position struct {
	MaterialID   string  `json:"material_id"`
	MaterialName string  `json:"material_name"`
	AvgCostPerKg float64 `json:"avg_cost_per_kg"`

	// Display values, clamped at zero on oversell.
	StockKg   float64 `json:"stock_kg"`
	StockBags float64 `json:"stock_bags"`

	// Signed values kept for diagnostics; negative means more kg/bags were
	// sold than ever recorded inbound.
	NetKg   float64 `json:"net_kg"`
	NetBags float64 `json:"net_bags"`
}

// Result maps material ID to its derived position.
type Result map[string]Position

// Compute recomputes every material's weighted-average cost and stock
// position from scratch. Line items referencing materials absent from the
// master list still accumulate cost internally (so a sale against them can
// be priced), but only master materials appear in the result.
func Compute(materials []schema.Material, purchaseItems []schema.PurchaseLineItem, saleItems []schema.SaleLineItem) Result {
	totalCost := make(map[string]float64)
	totalKg := make(map[string]float64)
	for _, item := range purchaseItems {
		totalCost[item.MaterialID] += item.Amount
		totalKg[item.MaterialID] += item.Kg
	}
	// Opening stock is a synthetic purchase at the material's default
	// purchase rate, counted only when both quantity and rate are positive.
	for _, mat := range materials {
		if mat.OpeningKg > 0 && mat.PurchaseRate > 0 {
			totalCost[mat.ID] += mat.OpeningKg * mat.PurchaseRate
			totalKg[mat.ID] += mat.OpeningKg
		}
	}

	avgCost := make(map[string]float64, len(totalCost))
	for id, cost := range totalCost {
		if kg := totalKg[id]; kg > 0 {
			avgCost[id] = cost / kg
		}
	}

	type flow struct{ kg, bags float64 }
	inbound := make(map[string]flow)
	outbound := make(map[string]flow)
	for _, item := range purchaseItems {
		f := inbound[item.MaterialID]
		f.kg += item.Kg
		f.bags += item.Bags
		inbound[item.MaterialID] = f
	}
	for _, item := range saleItems {
		f := outbound[item.MaterialID]
		f.kg += item.Kg
		f.bags += item.Bags
		outbound[item.MaterialID] = f
	}

	result := make(Result, len(materials))
	for _, mat := range materials {
		in := inbound[mat.ID]
		out := outbound[mat.ID]
		netKg := mat.OpeningKg + in.kg - out.kg
		netBags := mat.OpeningBags + in.bags - out.bags
		result[mat.ID] = Position{
			MaterialID:   mat.ID,
			MaterialName: mat.Name,
			AvgCostPerKg: avgCost[mat.ID],
			StockKg:      math.Max(0, netKg),
			StockBags:    math.Max(0, netBags),
			NetKg:        netKg,
			NetBags:      netBags,
		}
	}
	// Materials that only ever appear on purchase rows (missing from the
	// master) still get a costed entry so sales against them can be valued.
	for _, item := range purchaseItems {
		if _, ok := result[item.MaterialID]; ok {
			continue
		}
		in := inbound[item.MaterialID]
		out := outbound[item.MaterialID]
		result[item.MaterialID] = Position{
			MaterialID:   item.MaterialID,
			MaterialName: item.MaterialName,
			AvgCostPerKg: avgCost[item.MaterialID],
			StockKg:      math.Max(0, in.kg-out.kg),
			StockBags:    math.Max(0, in.bags-out.bags),
			NetKg:        in.kg - out.kg,
			NetBags:      in.bags - out.bags,
		}
	}
	return result
}

// AvgCostPerKg returns the weighted-average cost for a material, zero when
// the material is unknown. Dangling sale-item references therefore
// contribute zero cost instead of failing the computation.
func (r Result) AvgCostPerKg(materialID string) float64 {
	return r[materialID].AvgCostPerKg
}
