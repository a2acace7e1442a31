package model

import (
	"errors"
	"fmt"
)

// MalformedInputError reports an order that is missing a required field or
// carries a value the pipeline cannot use.
type MalformedInputError struct {
	OrderIndex int    // position of the order in the dataset, -1 for the document itself
	ItemIndex  int    // position of the line item, -1 for order-level fields
	Field      string // JSON field name
	Reason     string
}

func (e *MalformedInputError) Error() string {
	if e.OrderIndex < 0 {
		return fmt.Sprintf("malformed input: %s: %s", e.Field, e.Reason)
	}
	if e.ItemIndex >= 0 {
		return fmt.Sprintf("malformed input: order %d product %d: %s: %s", e.OrderIndex, e.ItemIndex, e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed input: order %d: %s: %s", e.OrderIndex, e.Field, e.Reason)
}

// NewMalformedDocument reports input that is not an array of orders.
func NewMalformedDocument(reason string) *MalformedInputError {
	return &MalformedInputError{OrderIndex: -1, ItemIndex: -1, Field: "document", Reason: reason}
}

// NewMalformedOrder reports an order-level field.
func NewMalformedOrder(orderIdx int, field, reason string) *MalformedInputError {
	return &MalformedInputError{OrderIndex: orderIdx, ItemIndex: -1, Field: field, Reason: reason}
}

// NewMalformedItem reports a line-item field.
func NewMalformedItem(orderIdx, itemIdx int, field, reason string) *MalformedInputError {
	return &MalformedInputError{OrderIndex: orderIdx, ItemIndex: itemIdx, Field: field, Reason: reason}
}

// IsMalformedInput returns true if err (or any error in its chain) is a
// MalformedInputError.
func IsMalformedInput(err error) bool {
	var me *MalformedInputError
	return errors.As(err, &me)
}

// DivisionUndefinedError reports a warehouse whose total profit is zero, so
// per-product shares are undefined.
type DivisionUndefinedError struct {
	WarehouseName string
}

func (e *DivisionUndefinedError) Error() string {
	return fmt.Sprintf("division undefined: warehouse %q has zero total profit", e.WarehouseName)
}

// IsDivisionUndefined returns true if err (or any error in its chain) is a
// DivisionUndefinedError.
func IsDivisionUndefined(err error) bool {
	var de *DivisionUndefinedError
	return errors.As(err, &de)
}
