package papertrade

// CostBasisPrecision is the number of decimal places kept when averaging the cost basis.
//
// It is the only rounding in the ledger: cash and totals are always exact.
const CostBasisPrecision = 16

// Position is the aggregated holding of one symbol.
type Position struct {
	Symbol   string   `json:"symbol"`
	Quantity Quantity `json:"quantity"`
	// CostBasis is the weighted average price paid per share.
	CostBasis Money `json:"cost_basis"`
	// TotalCost is what the held shares cost.
	// It is exact for buys, and CostBasis x Quantity after a sell.
	TotalCost Money `json:"total_cost"`
}

// add returns the position after buying quantity shares at price.
func (p Position) add(quantity Quantity, price Money) Position {
	if p.Quantity.IsZero() {
		return Position{
			Symbol:    p.Symbol,
			Quantity:  quantity,
			CostBasis: price,
			TotalCost: price.Mul(quantity),
		}
	}
	p.Quantity = p.Quantity.Add(quantity)
	p.TotalCost = p.TotalCost.Add(price.Mul(quantity))
	p.CostBasis = p.TotalCost.DivRound(p.Quantity, CostBasisPrecision)
	return p
}

// remove returns the position after selling quantity shares. The cost basis is unchanged.
func (p Position) remove(quantity Quantity) Position {
	p.Quantity = p.Quantity.Sub(quantity)
	p.TotalCost = p.CostBasis.Mul(p.Quantity)
	return p
}
