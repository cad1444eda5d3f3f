package papertrade

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeLedgerFormat(t *testing.T) {
	l := NewLedger(USD(1000))
	l.now = func() time.Time { return time.Date(2024, 3, 4, 5, 6, 7, 800, time.UTC) }
	l.Buy("AAPL", Q(3), USD(100))
	l.Buy("AAPL", Q(3), USD(100.01))

	want := `{
  "initial_cash": 1000,
  "cash_balance": 399.97,
  "positions": {
    "AAPL": {
      "symbol": "AAPL",
      "quantity": 6,
      "cost_basis": 100.005,
      "total_cost": 600.03
    }
  },
  "order_history": [
    {
      "timestamp": "2024-03-04T05:06:07.0000008Z",
      "order_type": "BUY",
      "symbol": "AAPL",
      "quantity": 3,
      "price": 100,
      "total_amount": 300,
      "status": "FILLED"
    },
    {
      "timestamp": "2024-03-04T05:06:07.0000008Z",
      "order_type": "BUY",
      "symbol": "AAPL",
      "quantity": 3,
      "price": 100.01,
      "total_amount": 300.03,
      "status": "FILLED"
    }
  ]
}
`
	assert.Equal(t, want, snapshot(t, l))
}

func TestLedgerRoundTrip(t *testing.T) {
	l := NewLedger(USD(100000))
	l.Buy("AAPL", Q(7), USD(151.37))
	l.Buy("AAPL", Q(11), USD(149.99))
	l.Buy("MSFT", Q(3), USD(410))
	l.Sell("AAPL", Q(5), USD(160.5))
	l.Buy("NVDA", Q(1), USD(0.01))
	l.Sell("NVDA", Q(1), USD(0.02))

	before := snapshot(t, l)
	decoded, err := DecodeLedger(strings.NewReader(before))
	require.NoError(t, err)
	assert.Equal(t, before, snapshot(t, decoded))

	assert.True(t, decoded.Cash().Equal(l.Cash()))
	assert.True(t, decoded.InitialCash().Equal(l.InitialCash()))
	assert.Equal(t, len(l.Positions()), len(decoded.Positions()))
	for i, p := range l.Positions() {
		q := decoded.Positions()[i]
		assert.Equal(t, p.Symbol, q.Symbol)
		assert.True(t, p.Quantity.Equal(q.Quantity))
		assert.True(t, p.CostBasis.Equal(q.CostBasis))
		assert.True(t, p.TotalCost.Equal(q.TotalCost))
	}
	for i, o := range l.OrderHistory(0) {
		d := decoded.OrderHistory(0)[i]
		assert.True(t, o.Timestamp.Equal(d.Timestamp))
		assert.Equal(t, o.Side, d.Side)
		assert.True(t, o.TotalAmount.Equal(d.TotalAmount))
	}
	assert.True(t, decoded.RealizedPnL().Equal(l.RealizedPnL()))
}

func TestDecodeLedgerOlderDocument(t *testing.T) {
	// no total_cost, no status, naive timestamps.
	doc := `{
		"initial_cash": 100000.0,
		"cash_balance": 85000.0,
		"positions": {"AAPL.US": {"symbol": "AAPL.US", "quantity": 100, "cost_basis": 150.0}},
		"order_history": [{"timestamp": "2024-05-01T10:30:00.123456", "order_type": "BUY",
			"symbol": "AAPL.US", "quantity": 100, "price": 150.0, "total_amount": 15000.0}]
	}`
	l, err := DecodeLedger(strings.NewReader(doc))
	require.NoError(t, err)

	pos, ok := l.Position("AAPL.US")
	require.True(t, ok)
	assert.True(t, pos.TotalCost.Equal(USD(15000)))

	h := l.OrderHistory(0)
	require.Len(t, h, 1)
	assert.Equal(t, StatusFilled, h[0].Status)
	assert.Equal(t, 123456000, h[0].Timestamp.Nanosecond())

	ok, msg := l.Buy("AAPL.US", Q(50), USD(160))
	require.True(t, ok, msg)
	pos, _ = l.Position("AAPL.US")
	assert.Equal(t, "153.3333333333333333", pos.CostBasis.Decimal().String())
}

func TestDecodeLedgerEmptyCollections(t *testing.T) {
	l, err := DecodeLedger(strings.NewReader(`{"initial_cash": 10, "cash_balance": 0}`))
	require.NoError(t, err)
	assert.True(t, l.Cash().IsZero())
	assert.Empty(t, l.Positions())
	assert.Equal(t, 0, l.Len())
}

func TestDecodeLedgerTolerance(t *testing.T) {
	// written by binary floats, then by an editor adding a trailing newline.
	doc := `{"initial_cash": 1, "cash_balance": 0.7,
		"order_history": [{"timestamp": "2024-05-01T10:30:00Z", "order_type": "BUY", "symbol": "A",
			"quantity": 3, "price": 0.1, "total_amount": 0.30000000000000004}]}` + "\n\n"
	l, err := DecodeLedger(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, l.Len())
}

func TestDecodeLedgerCorrupt(t *testing.T) {
	order := func(fields string) string {
		return `{"initial_cash": 10, "cash_balance": 10, "order_history": [{` + fields + `}]}`
	}
	valid := `"timestamp": "2024-05-01T10:30:00Z", "order_type": "BUY", "symbol": "A", "quantity": 1, "price": 1, "total_amount": 1`

	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `initial_cash = 10`},
		{"truncated", `{"initial_cash": 10, "cash_balance": `},
		{"missing initial cash", `{"cash_balance": 10}`},
		{"missing cash balance", `{"initial_cash": 10}`},
		{"negative cash", `{"initial_cash": 10, "cash_balance": -1}`},
		{"cash is text", `{"initial_cash": 10, "cash_balance": "ten"}`},
		{"key is not symbol", `{"initial_cash": 10, "cash_balance": 10, "positions": {"A": {"symbol": "B", "quantity": 1, "cost_basis": 1}}}`},
		{"zero quantity", `{"initial_cash": 10, "cash_balance": 10, "positions": {"A": {"symbol": "A", "quantity": 0, "cost_basis": 1}}}`},
		{"fractional quantity", `{"initial_cash": 10, "cash_balance": 10, "positions": {"A": {"symbol": "A", "quantity": 1.5, "cost_basis": 1}}}`},
		{"negative cost basis", `{"initial_cash": 10, "cash_balance": 10, "positions": {"A": {"symbol": "A", "quantity": 1, "cost_basis": -1}}}`},
		{"unknown order type", order(strings.Replace(valid, `"BUY"`, `"SHORT"`, 1))},
		{"bad timestamp", order(strings.Replace(valid, `2024-05-01T10:30:00Z`, `yesterday`, 1))},
		{"order without symbol", order(strings.Replace(valid, `"symbol": "A"`, `"symbol": ""`, 1))},
		{"order negative price", order(strings.Replace(valid, `"price": 1`, `"price": -1`, 1))},
		{"order unknown status", order(valid + `, "status": "LOST"`)},
		{"order total is not quantity times price", order(strings.Replace(valid, `"total_amount": 1`, `"total_amount": 2`, 1))},
		{"orders out of time order", `{"initial_cash": 10, "cash_balance": 10, "order_history": [{` + valid + `}, {` +
			strings.Replace(valid, `2024-05-01T10:30:00Z`, `2024-04-30T10:30:00Z`, 1) + `}]}`},
		{"trailing garbage", `{"initial_cash": 10, "cash_balance": 10} this is not json {{{`},
		{"two documents", `{"initial_cash": 10, "cash_balance": 10}{"initial_cash": 10, "cash_balance": 5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeLedger(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCorruptLedger), "%v", err)
		})
	}
}

func TestLoadLedger(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file is a fresh ledger", func(t *testing.T) {
		l, err := LoadLedger(filepath.Join(dir, "missing.json"), USD(5000))
		require.NoError(t, err)
		assert.True(t, l.Cash().Equal(USD(5000)))
		assert.True(t, l.InitialCash().Equal(USD(5000)))
	})

	t.Run("corrupt file is an error", func(t *testing.T) {
		path := filepath.Join(dir, "corrupt.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"initial_cash": 1`), 0644))
		_, err := LoadLedger(path, USD(5000))
		assert.True(t, errors.Is(err, ErrCorruptLedger))
	})

	t.Run("save then load", func(t *testing.T) {
		path := filepath.Join(dir, "nested", "ledger.json")
		l := NewLedger(USD(1000))
		l.Buy("AAPL", Q(2), USD(99.5))
		require.NoError(t, SaveLedger(path, l))

		loaded, err := LoadLedger(path, USD(1))
		require.NoError(t, err)
		assert.Equal(t, snapshot(t, l), snapshot(t, loaded))

		// no temporary file is left behind.
		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("save replaces", func(t *testing.T) {
		path := filepath.Join(dir, "replace.json")
		require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))
		require.NoError(t, SaveLedger(path, NewLedger(USD(7))))
		loaded, err := LoadLedger(path, USD(1))
		require.NoError(t, err)
		assert.True(t, loaded.Cash().Equal(USD(7)))
	})

	t.Run("save through a symlink", func(t *testing.T) {
		target := filepath.Join(dir, "target.json")
		link := filepath.Join(dir, "link.json")
		require.NoError(t, SaveLedger(target, NewLedger(USD(1))))
		require.NoError(t, os.Symlink(target, link))

		require.NoError(t, SaveLedger(link, NewLedger(USD(9))))
		fi, err := os.Lstat(link)
		require.NoError(t, err)
		assert.True(t, fi.Mode()&os.ModeSymlink != 0)
		loaded, err := LoadLedger(target, USD(1))
		require.NoError(t, err)
		assert.True(t, loaded.Cash().Equal(USD(9)))
	})
}
