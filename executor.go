package papertrade

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Result is the outcome of one instruction.
type Result struct {
	Success bool
	Message string
	// Instruction is the instruction as executed: symbol normalized and price resolved.
	Instruction Instruction
}

func (r Result) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("success", r.Success)
	w.Append("message", r.Message)
	w.Append("instruction", r.Instruction)
	return w.MarshalJSON()
}

// Executor applies advisor instructions to a ledger.
//
// It is the only component that mutates a ledger on behalf of an advisor.
type Executor struct {
	ledger *Ledger
	log    *zap.Logger
}

// NewExecutor returns an executor working on ledger. A nil logger discards logs.
func NewExecutor(ledger *Ledger, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{ledger: ledger, log: logger}
}

// Execute parses text and applies every instruction found, in order.
//
// A failing instruction does not prevent the next ones from being attempted, and
// nothing is rolled back. The error is only returned for unusable prices, in which
// case no instruction is attempted.
func (e *Executor) Execute(text string, prices Prices) ([]Result, error) {
	return e.ExecuteInstructions(ParseInstructions(text), prices)
}

// ExecuteInstructions applies instructions in order and returns one result per instruction.
func (e *Executor) ExecuteInstructions(instructions []Instruction, prices Prices) ([]Result, error) {
	if err := prices.Validate(); err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(instructions))
	for _, ins := range instructions {
		r := e.apply(ins, prices)
		if r.Success {
			e.log.Info("instruction executed", zap.Stringer("instruction", r.Instruction), zap.String("message", r.Message))
		} else {
			e.log.Debug("instruction rejected", zap.Stringer("instruction", r.Instruction), zap.String("message", r.Message))
		}
		results = append(results, r)
	}
	return results, nil
}

func (e *Executor) apply(ins Instruction, prices Prices) Result {
	ins.Symbol = strings.ToUpper(strings.TrimSpace(ins.Symbol))
	reject := func(format string, args ...any) Result {
		return Result{Message: fmt.Sprintf(format, args...), Instruction: ins}
	}

	switch {
	case !ins.Action.Valid():
		return reject("Invalid action: %s", ins.Action)
	case ins.Action == ActionHold:
		msg := "Hold"
		if ins.Symbol != "" {
			msg = "Hold " + ins.Symbol
		}
		return Result{Success: true, Message: msg, Instruction: ins}
	case ins.Symbol == "":
		return reject("Symbol is required")
	case ins.problem != "":
		return reject("%s", ins.problem)
	case ins.Quantity == nil:
		return reject("Invalid quantity: missing")
	case !ins.Quantity.IsWhole():
		return reject("Invalid quantity: %s", ins.Quantity)
	}

	if ins.Price == nil {
		price, ok := prices.Lookup(ins.Symbol)
		if !ok {
			return reject("No price available for %s", ins.Symbol)
		}
		ins.Price = &price
	}

	var ok bool
	var msg string
	switch ins.Action {
	case ActionBuy:
		ok, msg = e.ledger.Buy(ins.Symbol, *ins.Quantity, *ins.Price)
	case ActionSell:
		ok, msg = e.ledger.Sell(ins.Symbol, *ins.Quantity, *ins.Price)
	}
	return Result{Success: ok, Message: msg, Instruction: ins}
}
