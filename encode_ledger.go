package papertrade

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
)

// ErrCorruptLedger is returned when a persisted ledger exists but cannot be trusted.
var ErrCorruptLedger = errors.New("corrupt ledger")

// ledgerDocument is the persisted form of a Ledger.
type ledgerDocument struct {
	InitialCash  *Money                      `json:"initial_cash"`
	CashBalance  *Money                      `json:"cash_balance"`
	Positions    map[string]positionDocument `json:"positions"`
	OrderHistory []OrderRecord               `json:"order_history"`
}

// positionDocument is a specialized struct for decoding positions, TotalCost is
// missing in account files written before it existed.
type positionDocument struct {
	Symbol    string   `json:"symbol"`
	Quantity  Quantity `json:"quantity"`
	CostBasis Money    `json:"cost_basis"`
	TotalCost *Money   `json:"total_cost,omitempty"`
}

// EncodeLedger writes the ledger as an indented JSON document.
func EncodeLedger(w io.Writer, l *Ledger) error {
	doc := ledgerDocument{
		InitialCash:  &l.initialCash,
		CashBalance:  &l.cash,
		Positions:    make(map[string]positionDocument, len(l.positions)),
		OrderHistory: l.orders,
	}
	for s, p := range l.positions {
		doc.Positions[s] = positionDocument{
			Symbol:    p.Symbol,
			Quantity:  p.Quantity,
			CostBasis: p.CostBasis,
			TotalCost: &p.TotalCost,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}
	return nil
}

// DecodeLedger reads a ledger written by EncodeLedger.
//
// Any inconsistency is reported as an ErrCorruptLedger, the document is never
// partially loaded or silently completed with defaults.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	var doc ledgerDocument
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptLedger, err)
	}
	// the document must be the whole content.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected content after the ledger document", ErrCorruptLedger)
	}

	var errs error
	corrupt := func(format string, args ...any) {
		errs = errors.Join(errs, fmt.Errorf("%w: "+format, append([]any{ErrCorruptLedger}, args...)...))
	}

	switch {
	case doc.InitialCash == nil:
		corrupt("missing initial_cash")
	case doc.InitialCash.IsNegative():
		corrupt("negative initial_cash %s", doc.InitialCash.Decimal())
	}
	switch {
	case doc.CashBalance == nil:
		corrupt("missing cash_balance")
	case doc.CashBalance.IsNegative():
		corrupt("negative cash_balance %s", doc.CashBalance.Decimal())
	}
	if errs != nil {
		return nil, errs
	}

	l := NewLedger(*doc.InitialCash)
	l.cash = *doc.CashBalance

	for _, s := range slices.Sorted(maps.Keys(doc.Positions)) {
		p := doc.Positions[s]
		switch {
		case p.Symbol != s:
			corrupt("position %q has symbol %q", s, p.Symbol)
		case !p.Quantity.IsWhole():
			corrupt("position %q has invalid quantity %s", s, p.Quantity)
		case p.CostBasis.IsNegative():
			corrupt("position %q has negative cost basis %s", s, p.CostBasis.Decimal())
		case p.TotalCost != nil && p.TotalCost.IsNegative():
			corrupt("position %q has negative total cost %s", s, p.TotalCost.Decimal())
		default:
			pos := Position{Symbol: s, Quantity: p.Quantity, CostBasis: p.CostBasis}
			if p.TotalCost != nil {
				pos.TotalCost = *p.TotalCost
			} else {
				pos.TotalCost = p.CostBasis.Mul(p.Quantity)
			}
			l.positions[s] = pos
		}
	}

	for i, o := range doc.OrderHistory {
		switch {
		case o.Side != SideBuy && o.Side != SideSell:
			corrupt("order %d has invalid order_type %q", i, o.Side)
		case o.Symbol == "":
			corrupt("order %d has no symbol", i)
		case !o.Quantity.IsWhole():
			corrupt("order %d has invalid quantity %s", i, o.Quantity)
		case o.Price.IsNegative():
			corrupt("order %d has negative price %s", i, o.Price.Decimal())
		case o.Status != StatusFilled && o.Status != StatusPartial && o.Status != StatusRejected:
			corrupt("order %d has invalid status %q", i, o.Status)
		case !sameAmount(o.TotalAmount, o.Price.Mul(o.Quantity)):
			corrupt("order %d has total_amount %s, expected %s", i, o.TotalAmount.Decimal(), o.Price.Mul(o.Quantity).Decimal())
		case i > 0 && o.Timestamp.Before(doc.OrderHistory[i-1].Timestamp):
			corrupt("order %d is dated before the previous one", i)
		}
	}
	if errs != nil {
		return nil, errs
	}
	if doc.OrderHistory != nil {
		l.orders = doc.OrderHistory
	}
	return l, nil
}

// amountPlaces is the precision at which a persisted total_amount is checked,
// documents written with binary floats carry noise in the last digits.
const amountPlaces = 6

func sameAmount(a, b Money) bool {
	return a.Decimal().Round(amountPlaces).Equal(b.Decimal().Round(amountPlaces))
}
