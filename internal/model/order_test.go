package model

import (
	"encoding/json"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderID_UnmarshalNumberAndString(t *testing.T) {
	var o struct {
		A OrderID `json:"a"`
		B OrderID `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 42, "b": "ord-7"}`), &o))
	assert.Equal(t, OrderID("42"), o.A)
	assert.Equal(t, OrderID("ord-7"), o.B)
}

func TestOrderID_UnmarshalRejectsNull(t *testing.T) {
	var id OrderID
	assert.Error(t, id.UnmarshalJSON([]byte(`null`)))
	assert.Error(t, id.UnmarshalJSON([]byte(``)))
	assert.Equal(t, OrderID(""), id)
}

func TestOrderID_UnmarshalRejectsObject(t *testing.T) {
	var id OrderID
	err := json.Unmarshal([]byte(`{"x":1}`), &id)
	assert.Error(t, err)
}

func TestOrderID_Less(t *testing.T) {
	tests := []struct {
		a, b OrderID
		want bool
	}{
		{"2", "10", true},
		{"10", "2", false},
		{"abc", "abd", true},
		{"5", "abc", true},
		{"abc", "5", false},
		{"7", "7", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.a)+"<"+string(tt.b), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Less(tt.b))
		})
	}
}

func TestLineItemRow_Income(t *testing.T) {
	r := LineItemRow{Quantity: 3, Price: 2.5}
	assert.InDelta(t, 7.5, r.Income(), 1e-9)
}

func TestNetProfit_SubtractsMagnitude(t *testing.T) {
	assert.InDelta(t, -10.0, NetProfit(10, -20), 1e-9)
	assert.InDelta(t, -10.0, NetProfit(10, 20), 1e-9)
	assert.InDelta(t, 10.0, NetProfit(10, 0), 1e-9)
}

func TestZeroProfitPolicy_Valid(t *testing.T) {
	assert.True(t, ZeroProfitAsZero.Valid())
	assert.True(t, ZeroProfitAsError.Valid())
	assert.False(t, ZeroProfitPolicy("nan").Valid())
}

func TestMalformedInputError(t *testing.T) {
	err := eris.Wrap(NewMalformedItem(1, 2, "quantity", "must be >= 0"), "analysis: flatten")
	assert.True(t, IsMalformedInput(err))
	assert.False(t, IsDivisionUndefined(err))
	assert.Contains(t, err.Error(), "order 1 product 2: quantity")

	orderErr := NewMalformedOrder(0, "warehouse_name", "required")
	assert.Equal(t, "malformed input: order 0: warehouse_name: required", orderErr.Error())
}

func TestDivisionUndefinedError(t *testing.T) {
	err := eris.Wrap(&DivisionUndefinedError{WarehouseName: "W1"}, "analysis: aggregate")
	assert.True(t, IsDivisionUndefined(err))
	assert.Contains(t, err.Error(), `"W1"`)
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []Category{"A", "B", "C"}, Categories())
}
