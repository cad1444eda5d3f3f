package papertrade

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Action is what an instruction asks to do.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionBuy, ActionSell, ActionHold:
		return true
	}
	return false
}

// Instruction is a trade directive extracted from advisor text.
//
// Quantity and Price are nil when the advisor did not give them.
type Instruction struct {
	Action   Action
	Symbol   string
	Quantity *Quantity
	Price    *Money
	Reason   string

	// problem describes a field that was present but unreadable.
	problem string
}

// NewBuy returns a BUY instruction. A zero price means "at market".
func NewBuy(symbol string, quantity int64, price float64) Instruction {
	return newInstruction(ActionBuy, symbol, quantity, price)
}

// NewSell returns a SELL instruction. A zero price means "at market".
func NewSell(symbol string, quantity int64, price float64) Instruction {
	return newInstruction(ActionSell, symbol, quantity, price)
}

func newInstruction(a Action, symbol string, quantity int64, price float64) Instruction {
	q := Q(quantity)
	ins := Instruction{Action: a, Symbol: symbol, Quantity: &q}
	if price != 0 {
		p := USD(price)
		ins.Price = &p
	}
	return ins
}

func (i Instruction) String() string {
	var b strings.Builder
	b.WriteString(string(i.Action))
	if i.Quantity != nil {
		fmt.Fprintf(&b, " %s", i.Quantity)
	}
	if i.Symbol != "" {
		fmt.Fprintf(&b, " %s", i.Symbol)
	}
	if i.Price != nil {
		fmt.Fprintf(&b, " at %s", i.Price)
	}
	return b.String()
}

func (i Instruction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("action", i.Action)
	w.Optional("symbol", i.Symbol)
	w.Optional("quantity", i.Quantity)
	w.Optional("price", i.Price)
	w.Optional("reason", i.Reason)
	return w.MarshalJSON()
}

var errMissingAction = errors.New("missing action")

// instruction field aliases, in priority order.
var (
	symbolKeys   = []string{"symbol", "ticker", "stock"}
	quantityKeys = []string{"quantity", "qty", "shares"}
	priceKeys    = []string{"price", "limit_price"}
	reasonKeys   = []string{"reason", "rationale"}
)

// UnmarshalJSON decodes an advisor record leniently: keys are case insensitive,
// numbers can be quoted and formatted ("$1,500.00"). A record without an action
// is not an instruction.
func (i *Instruction) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fields := make(map[string]json.RawMessage, len(raw))
	for k, v := range raw {
		fields[strings.ToLower(strings.TrimSpace(k))] = v
	}

	action, ok := fields["action"]
	if !ok {
		return errMissingAction
	}
	var a string
	if err := json.Unmarshal(action, &a); err != nil {
		return fmt.Errorf("invalid action: %w", err)
	}

	*i = Instruction{Action: Action(strings.ToUpper(strings.TrimSpace(a)))}
	if v, ok := lookup(fields, symbolKeys); ok {
		i.Symbol = jsonString(v)
	}
	if v, ok := lookup(fields, reasonKeys); ok {
		i.Reason = jsonString(v)
	}
	if v, ok := lookup(fields, quantityKeys); ok {
		if d, present, err := jsonNumber(v); err != nil {
			i.problem = fmt.Sprintf("Invalid quantity: %s", v)
		} else if present {
			q := Q(d)
			i.Quantity = &q
		}
	}
	if v, ok := lookup(fields, priceKeys); ok {
		if d, present, err := jsonNumber(v); err != nil {
			if i.problem == "" {
				i.problem = fmt.Sprintf("Invalid price: %s", v)
			}
		} else if present {
			p := USD(d)
			i.Price = &p
		}
	}
	return nil
}

func lookup(fields map[string]json.RawMessage, keys []string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := fields[k]; ok {
			return v, true
		}
	}
	return nil, false
}

// jsonString returns v as a trimmed string, numbers and other scalars are kept verbatim.
func jsonString(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return strings.TrimSpace(s)
	}
	if string(v) == "null" {
		return ""
	}
	return strings.TrimSpace(string(v))
}

// jsonNumber reads a JSON number or a formatted numeric string. null is reported as absent.
func jsonNumber(v json.RawMessage) (d decimal.Decimal, present bool, err error) {
	if string(v) == "null" {
		return decimal.Zero, false, nil
	}
	var s string
	if json.Unmarshal(v, &s) == nil {
		d, err = parseNumber(s)
		return d, err == nil, err
	}
	err = d.UnmarshalJSON(v)
	return d, err == nil, err
}
