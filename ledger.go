package papertrade

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

// Ledger is the authoritative record of cash, positions and order history of a
// virtual trading account.
//
// Every successful operation keeps the cash balance non negative and removes
// positions that reach zero. Rejected operations leave the ledger untouched.
//
// A Ledger is not safe for concurrent use, see Account.
type Ledger struct {
	initialCash Money
	cash        Money
	positions   map[string]Position
	orders      []OrderRecord
	now         func() time.Time
}

// NewLedger creates an empty ledger holding initialCash in cash.
func NewLedger(initialCash Money) *Ledger {
	return &Ledger{
		initialCash: initialCash,
		cash:        initialCash,
		positions:   make(map[string]Position),
		orders:      make([]OrderRecord, 0),
		now:         time.Now,
	}
}

func (l *Ledger) InitialCash() Money { return l.initialCash }
func (l *Ledger) Cash() Money        { return l.cash }

// Position returns the position held in symbol, if any.
func (l *Ledger) Position(symbol string) (Position, bool) {
	p, ok := l.positions[symbol]
	return p, ok
}

// Symbols returns the held symbols in lexical order.
func (l *Ledger) Symbols() []string {
	return slices.Sorted(maps.Keys(l.positions))
}

// timestamp returns the time of a new order, never before the last one.
func (l *Ledger) timestamp() time.Time {
	ts := l.now()
	if n := len(l.orders); n > 0 && ts.Before(l.orders[n-1].Timestamp) {
		ts = l.orders[n-1].Timestamp
	}
	return ts
}

// validateOrder checks the inputs common to buy and sell. It returns a failure message or "".
func validateOrder(symbol string, quantity Quantity, price Money) string {
	switch {
	case symbol == "":
		return "Symbol is required"
	case !quantity.IsWhole():
		return fmt.Sprintf("Invalid quantity: %s", quantity)
	case price.IsNegative():
		return fmt.Sprintf("Invalid price: %s", price.Decimal())
	}
	return ""
}

// Buy buys quantity shares of symbol at price.
//
// It returns false and a message describing the reason when the order is rejected.
func (l *Ledger) Buy(symbol string, quantity Quantity, price Money) (bool, string) {
	if msg := validateOrder(symbol, quantity, price); msg != "" {
		return false, msg
	}
	cost := price.Mul(quantity)
	if cost.GreaterThan(l.cash) {
		return false, fmt.Sprintf("Insufficient funds. Need %s, have %s", cost, l.cash)
	}

	l.cash = l.cash.Sub(cost)
	pos := l.positions[symbol]
	pos.Symbol = symbol
	l.positions[symbol] = pos.add(quantity, price)
	l.orders = append(l.orders, OrderRecord{
		Timestamp:   l.timestamp(),
		Side:        SideBuy,
		Symbol:      symbol,
		Quantity:    quantity,
		Price:       price,
		TotalAmount: cost,
		Status:      StatusFilled,
	})
	return true, fmt.Sprintf("Bought %s shares of %s at %s", quantity, symbol, price)
}

// Sell sells quantity shares of symbol at price.
//
// Selling the whole position removes it. A partial sell keeps the cost basis.
func (l *Ledger) Sell(symbol string, quantity Quantity, price Money) (bool, string) {
	if msg := validateOrder(symbol, quantity, price); msg != "" {
		return false, msg
	}
	pos, ok := l.positions[symbol]
	if !ok {
		return false, fmt.Sprintf("No position in %s", symbol)
	}
	if quantity.GreaterThan(pos.Quantity) {
		return false, fmt.Sprintf("Insufficient shares. Have %s, trying to sell %s", pos.Quantity, quantity)
	}

	proceeds := price.Mul(quantity)
	l.cash = l.cash.Add(proceeds)
	if pos = pos.remove(quantity); pos.Quantity.IsZero() {
		delete(l.positions, symbol)
	} else {
		l.positions[symbol] = pos
	}
	l.orders = append(l.orders, OrderRecord{
		Timestamp:   l.timestamp(),
		Side:        SideSell,
		Symbol:      symbol,
		Quantity:    quantity,
		Price:       price,
		TotalAmount: proceeds,
		Status:      StatusFilled,
	})
	return true, fmt.Sprintf("Sold %s shares of %s at %s", quantity, symbol, price)
}

// AccountInfo is the overview of the account.
type AccountInfo struct {
	CashBalance Money  `json:"cash_balance"`
	InitialCash Money  `json:"initial_cash"`
	Currency    string `json:"currency"`
}

// AccountInfo returns the account overview.
func (l *Ledger) AccountInfo() AccountInfo {
	return AccountInfo{
		CashBalance: l.cash,
		InitialCash: l.initialCash,
		Currency:    DefaultCurrency,
	}
}

// Positions returns a copy of all positions sorted by symbol.
func (l *Ledger) Positions() []Position {
	result := make([]Position, 0, len(l.positions))
	for _, s := range l.Symbols() {
		result = append(result, l.positions[s])
	}
	return result
}

// OrderHistory returns the limit most recent orders, most recent first.
// A limit <= 0 returns all of them.
func (l *Ledger) OrderHistory(limit int) []OrderRecord {
	n := len(l.orders)
	if limit > 0 && limit < n {
		n = limit
	}
	result := make([]OrderRecord, 0, n)
	for i := len(l.orders) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, l.orders[i])
	}
	return result
}

// Len returns the number of orders in the history.
func (l *Ledger) Len() int { return len(l.orders) }
