package papertrade

import (
	"encoding/json"
	"fmt"
	"time"
)

// Side is the direction of an order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Status is the state of an order record.
//
// Only FILLED records are ever appended to a ledger, rejected attempts leave no trace.
type Status string

const (
	StatusFilled   Status = "FILLED"
	StatusPartial  Status = "PARTIAL"
	StatusRejected Status = "REJECTED"
)

// timestampLayouts are accepted when reading order records. The last two are the
// naive ISO-8601 forms written by older account files.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// OrderRecord is the immutable fact of an executed fill.
type OrderRecord struct {
	Timestamp   time.Time
	Side        Side
	Symbol      string
	Quantity    Quantity
	Price       Money
	TotalAmount Money
	Status      Status
}

func (o OrderRecord) String() string {
	return fmt.Sprintf("%s %s %s x %s @ %s", o.Timestamp.Format(time.RFC3339), o.Side, o.Symbol, o.Quantity, o.Price)
}

// MarshalJSON writes the record with keys in the account file order.
func (o OrderRecord) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("timestamp", o.Timestamp.Format(time.RFC3339Nano))
	w.Append("order_type", o.Side)
	w.Append("symbol", o.Symbol)
	w.Append("quantity", o.Quantity)
	w.Append("price", o.Price)
	w.Append("total_amount", o.TotalAmount)
	w.Append("status", o.Status)
	return w.MarshalJSON()
}

func (o *OrderRecord) UnmarshalJSON(data []byte) error {
	var temp struct {
		Timestamp   string   `json:"timestamp"`
		OrderType   Side     `json:"order_type"`
		Symbol      string   `json:"symbol"`
		Quantity    Quantity `json:"quantity"`
		Price       Money    `json:"price"`
		TotalAmount Money    `json:"total_amount"`
		Status      Status   `json:"status"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	ts, err := parseTimestamp(temp.Timestamp)
	if err != nil {
		return err
	}
	if temp.Status == "" {
		temp.Status = StatusFilled
	}
	*o = OrderRecord{
		Timestamp:   ts,
		Side:        temp.OrderType,
		Symbol:      temp.Symbol,
		Quantity:    temp.Quantity,
		Price:       temp.Price,
		TotalAmount: temp.TotalAmount,
		Status:      temp.Status,
	}
	return nil
}
