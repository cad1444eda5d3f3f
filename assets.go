package papertrade

// AssetLine is the valuation of one position.
type AssetLine struct {
	Symbol        string   `json:"symbol"`
	Quantity      Quantity `json:"quantity"`
	CostBasis     Money    `json:"cost_basis"`
	CurrentPrice  Money    `json:"current_price"`
	MarketValue   Money    `json:"market_value"`
	UnrealizedPnL Money    `json:"unrealized_pnl"`
	// Priced is false when no market price was available and the position is valued at its cost basis.
	Priced bool `json:"priced"`
}

// AssetsReport is the valuation of a whole ledger.
type AssetsReport struct {
	Cash           Money       `json:"cash"`
	PositionsValue Money       `json:"positions_value"`
	TotalAssets    Money       `json:"total_assets"`
	InitialCash    Money       `json:"initial_cash"`
	TotalPnL       Money       `json:"total_pnl"`
	Positions      []AssetLine `json:"positions"`
	// Unpriced lists the symbols valued at their cost basis.
	Unpriced []string `json:"unpriced,omitempty"`
}

// Stale reports whether some positions could not be valued at a market price.
func (r AssetsReport) Stale() bool { return len(r.Unpriced) > 0 }

// CalculateAssets values every position with prices.
//
// A position without a price is valued at its cost basis, and reported in Unpriced.
func (l *Ledger) CalculateAssets(prices Prices) AssetsReport {
	report := AssetsReport{
		Cash:           l.cash,
		PositionsValue: USD(0),
		InitialCash:    l.initialCash,
		Positions:      make([]AssetLine, 0, len(l.positions)),
	}
	for _, pos := range l.Positions() {
		current, priced := prices.Lookup(pos.Symbol)
		if !priced {
			current = pos.CostBasis
			report.Unpriced = append(report.Unpriced, pos.Symbol)
		}
		value := current.Mul(pos.Quantity)
		report.PositionsValue = report.PositionsValue.Add(value)
		report.Positions = append(report.Positions, AssetLine{
			Symbol:        pos.Symbol,
			Quantity:      pos.Quantity,
			CostBasis:     pos.CostBasis,
			CurrentPrice:  current,
			MarketValue:   value,
			UnrealizedPnL: current.Sub(pos.CostBasis).Mul(pos.Quantity),
			Priced:        priced,
		})
	}
	report.TotalAssets = l.cash.Add(report.PositionsValue)
	report.TotalPnL = report.TotalAssets.Sub(l.initialCash)
	return report
}

// RealizedPnL replays the order history with weighted average cost and returns
// the profit realized by sells.
func (l *Ledger) RealizedPnL() Money {
	realized := USD(0)
	held := make(map[string]Position)
	for _, o := range l.orders {
		pos := held[o.Symbol]
		pos.Symbol = o.Symbol
		switch o.Side {
		case SideBuy:
			held[o.Symbol] = pos.add(o.Quantity, o.Price)
		case SideSell:
			realized = realized.Add(o.Price.Sub(pos.CostBasis).Mul(o.Quantity))
			held[o.Symbol] = pos.remove(o.Quantity)
		}
	}
	return realized
}
