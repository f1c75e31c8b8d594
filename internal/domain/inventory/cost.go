package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost implementa el costo promedio ponderado tras una entrada.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Un costo actual desconocido (nil) toma el costo de la entrada.
func WeightedAverageCost(stock int, current *decimal.Decimal, qtyIn int, costIn decimal.Decimal) decimal.Decimal {
	if current == nil || stock <= 0 {
		return costIn.Round(4)
	}
	sum := decimal.NewFromInt(int64(stock + qtyIn))
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := decimal.NewFromInt(int64(stock)).Mul(*current).
		Add(decimal.NewFromInt(int64(qtyIn)).Mul(costIn))
	return num.Div(sum).Round(4)
}
