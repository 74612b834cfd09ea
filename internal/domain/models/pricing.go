package models

import (
	"errors"
	"math"
)

// PricingParameters holds the fixed price list and per-unit production costs.
type PricingParameters struct {
	FabricPrice   float64 // price of one pagne
	Yield         float64 // sellable units cut from one pagne
	PriceFan      float64
	PriceSmallBag float64
	PriceLargeBag float64
	LaborFan      float64
	LaborSmallBag float64
	LaborLargeBag float64
}

// DefaultPricing returns the price list the business currently works with.
func DefaultPricing() PricingParameters {
	return PricingParameters{
		FabricPrice:   4000,
		Yield:         6,
		PriceFan:      3000,
		PriceSmallBag: 8000,
		PriceLargeBag: 15000,
		LaborFan:      1000,
		LaborSmallBag: 3000,
		LaborLargeBag: 8000,
	}
}

// FabricUnitCost is the fabric share of a single item, rounded to the nearest unit.
func (p PricingParameters) FabricUnitCost() float64 {
	if p.Yield == 0 {
		return 0
	}
	return Round(p.FabricPrice / p.Yield)
}

// Validate rejects parameter sets that cannot price an order.
func (p PricingParameters) Validate() error {
	if p.Yield <= 0 {
		return errors.New("pricing yield must be greater than zero")
	}
	if p.FabricPrice < 0 {
		return errors.New("pricing fabric price must not be negative")
	}
	for _, v := range []float64{p.PriceFan, p.PriceSmallBag, p.PriceLargeBag, p.LaborFan, p.LaborSmallBag, p.LaborLargeBag} {
		if v < 0 {
			return errors.New("pricing prices and labor costs must not be negative")
		}
	}
	return nil
}

// Round rounds half up toward positive infinity, so 2.5 becomes 3 and -2.5 becomes -2.
func Round(v float64) float64 {
	return math.Floor(v + 0.5)
}
