package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// OrderID identifies an order. Upstream datasets use both numeric and string
// identifiers, so the canonical form is the string representation.
type OrderID string

// UnmarshalJSON accepts a JSON number or a JSON string.
func (id *OrderID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return eris.New("order_id: null or empty")
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return eris.Wrap(err, "order_id: decode string")
		}
		*id = OrderID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return eris.Wrap(err, "order_id: expected number or string")
	}
	*id = OrderID(n.String())
	return nil
}

// Int returns the numeric value of the id when it is an integer.
func (id OrderID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Less orders ids numerically when both are integers and lexicographically
// otherwise. Integer ids sort before non-integer ids.
func (id OrderID) Less(other OrderID) bool {
	a, aok := id.Int()
	b, bok := other.Int()
	switch {
	case aok && bok:
		return a < b
	case aok != bok:
		return aok
	default:
		return strings.Compare(string(id), string(other)) < 0
	}
}

// Order is one upstream order: a set of line items shipped from a single
// warehouse at a single highway cost.
type Order struct {
	OrderID       OrderID    `json:"order_id"`
	WarehouseName string     `json:"warehouse_name"`
	HighwayCost   float64    `json:"highway_cost"` // signed; negative by upstream convention
	Products      []LineItem `json:"products"`
}

// LineItem is one product line within an order.
type LineItem struct {
	Product  string  `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"` // unit price
}

// LineItemRow is a line item flattened together with its parent order.
type LineItemRow struct {
	OrderID       OrderID `json:"order_id"`
	WarehouseName string  `json:"warehouse_name"`
	HighwayCost   float64 `json:"highway_cost"`
	Product       string  `json:"product"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
	Expenses      float64 `json:"expenses"` // Quantity × HighwayCost
}

// Income is Quantity × Price.
func (r LineItemRow) Income() float64 {
	return float64(r.Quantity) * r.Price
}
