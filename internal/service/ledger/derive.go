package ledger

import "github.com/mamadbah2/pagne/internal/domain/models"

// Derive computes revenue, expense and profit for one order.
func Derive(in models.OrderInput, params models.PricingParameters) models.Financials {
	revenue := float64(in.QtyFan)*params.PriceFan +
		float64(in.QtySmallBag)*params.PriceSmallBag +
		float64(in.QtyLargeBag)*params.PriceLargeBag

	fabricCost := float64(in.TotalItems()) * params.FabricUnitCost()
	laborCost := float64(in.QtyFan)*params.LaborFan +
		float64(in.QtySmallBag)*params.LaborSmallBag +
		float64(in.QtyLargeBag)*params.LaborLargeBag

	expense := models.Round(fabricCost + laborCost + in.RealExpenses())

	return models.Financials{
		TotalRevenue: revenue,
		TotalExpense: expense,
		NetProfit:    revenue - expense,
	}
}

// Aggregate sums the KPIs over the whole collection.
func Aggregate(orders []models.Order) models.Stats {
	var stats models.Stats
	for _, o := range orders {
		stats.TotalRevenue += o.TotalRevenue
		stats.TotalProfit += o.NetProfit
		stats.TotalItems += o.TotalItems()
	}
	return stats
}

// ProfitSeries returns one chart point per order, in collection order.
func ProfitSeries(orders []models.Order) []models.ProfitPoint {
	points := make([]models.ProfitPoint, 0, len(orders))
	for _, o := range orders {
		points = append(points, models.ProfitPoint{Date: o.Date, NetProfit: o.NetProfit})
	}
	return points
}
