package papertrade

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestExecutorScenario(t *testing.T) {
	l := NewLedger(USD(100000))
	e := NewExecutor(l, nil)

	results, err := e.Execute(`{"action":"BUY","symbol":"AAPL.US","quantity":100,"price":150.0}`, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success, results[0].Message)
	assert.True(t, l.Cash().Equal(USD(85000)))
	pos, _ := l.Position("AAPL.US")
	assert.True(t, pos.Quantity.Equal(Q(100)))
	assert.True(t, pos.CostBasis.Equal(USD(150)))

	results, err = e.Execute(`{"action":"BUY","symbol":"AAPL.US","quantity":50,"price":160.0}`, nil)
	require.NoError(t, err)
	assert.True(t, results[0].Success, results[0].Message)
	assert.True(t, l.Cash().Equal(USD(77000)))
	basis := USD(decimal.RequireFromString("153.3333333333333333"))
	pos, _ = l.Position("AAPL.US")
	assert.True(t, pos.Quantity.Equal(Q(150)))
	assert.True(t, pos.CostBasis.Equal(basis), "cost basis %s", pos.CostBasis.Decimal())

	results, err = e.Execute(`{"action":"SELL","symbol":"AAPL.US","quantity":50,"price":160.0}`, nil)
	require.NoError(t, err)
	assert.True(t, results[0].Success, results[0].Message)
	assert.True(t, l.Cash().Equal(USD(85000)))
	pos, _ = l.Position("AAPL.US")
	assert.True(t, pos.Quantity.Equal(Q(100)))
	assert.True(t, pos.CostBasis.Equal(basis))
}

func TestExecutorBatch(t *testing.T) {
	l := NewLedger(USD(1000))
	prices := Prices{"AAPL": USD(100), "MSFT": USD(300)}

	results, err := NewExecutor(l, nil).Execute(`[
		{"action":"BUY","symbol":"aapl","quantity":5},
		{"action":"BUY","symbol":"MSFT","quantity":2},
		{"action":"SELL","symbol":"AAPL","quantity":2,"price":110},
		{"action":"HOLD","symbol":"TSLA"},
		{"action":"BUY","symbol":"NVDA","quantity":1},
		{"action":"SHORT","symbol":"AAPL","quantity":1},
		{"action":"BUY","quantity":1},
		{"action":"BUY","symbol":"AAPL"},
		{"action":"BUY","symbol":"AAPL","quantity":2.5},
		{"action":"BUY","symbol":"AAPL","quantity":"lots"},
		{"action":"SELL","symbol":"AAPL","quantity":3}
	]`, prices)
	require.NoError(t, err)

	want := []struct {
		success bool
		message string
	}{
		{true, "Bought 5 shares of AAPL at $100.00"},
		{false, "Insufficient funds. Need $600.00, have $500.00"},
		{true, "Sold 2 shares of AAPL at $110.00"},
		{true, "Hold TSLA"},
		{false, "No price available for NVDA"},
		{false, "Invalid action: SHORT"},
		{false, "Symbol is required"},
		{false, "Invalid quantity: missing"},
		{false, "Invalid quantity: 2.5"},
		{false, `Invalid quantity: "lots"`},
		{true, "Sold 3 shares of AAPL at $100.00"},
	}
	require.Len(t, results, len(want))
	for i, w := range want {
		assert.Equal(t, w.success, results[i].Success, "result %d", i)
		assert.Equal(t, w.message, results[i].Message, "result %d", i)
	}

	// the executed instruction carries the normalized symbol and the resolved price.
	assert.Equal(t, "AAPL", results[0].Instruction.Symbol)
	require.NotNil(t, results[0].Instruction.Price)
	assert.True(t, results[0].Instruction.Price.Equal(USD(100)))

	assert.True(t, l.Cash().Equal(USD(1000-500+220+300)))
	assert.Empty(t, l.Positions())
	assert.Equal(t, 3, l.Len())
}

func TestExecutorNothingToDo(t *testing.T) {
	l := NewLedger(USD(1000))
	results, err := NewExecutor(l, nil).Execute("I would rather wait.", Prices{})
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
	assert.Equal(t, 0, l.Len())
}

func TestExecutorInvalidPrices(t *testing.T) {
	l := NewLedger(USD(1000))
	results, err := NewExecutor(l, nil).Execute("BUY 1 AAPL", Prices{"AAPL": USD(-1)})
	assert.True(t, errors.Is(err, ErrInvalidPrices))
	assert.Nil(t, results)
	assert.Equal(t, 0, l.Len())
}

func TestExecutorLogs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewLedger(USD(1000))
	_, err := NewExecutor(l, zap.New(core)).Execute("BUY 1 AAPL at $10\nSELL 1 MSFT at $10", nil)
	require.NoError(t, err)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, "instruction executed", entries[0].Message)
	assert.Equal(t, zap.DebugLevel, entries[1].Level)
	assert.Equal(t, "instruction rejected", entries[1].Message)
}

func TestResultJSON(t *testing.T) {
	data, err := Result{Success: true, Message: "ok", Instruction: NewSell("AAPL", 1, 10)}.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"message":"ok","instruction":{"action":"SELL","symbol":"AAPL","quantity":1,"price":10}}`, string(data))
}
