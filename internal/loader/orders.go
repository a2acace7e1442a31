package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/warehouse-cli/internal/model"
)

// rawOrder mirrors the upstream JSON with pointer fields so a missing key is
// distinguishable from a zero value.
type rawOrder struct {
	OrderID       *model.OrderID `json:"order_id" validate:"required,nonblank"`
	WarehouseName *string        `json:"warehouse_name" validate:"required,nonblank"`
	HighwayCost   *float64       `json:"highway_cost" validate:"required"`
	Products      []rawLineItem  `json:"products" validate:"required"`
}

type rawLineItem struct {
	Product  *string  `json:"product" validate:"required,nonblank"`
	Quantity *int     `json:"quantity" validate:"required,min=0"`
	Price    *float64 `json:"price" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Identifiers must carry something besides whitespace.
	_ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// LoadOrders reads an order dataset from a JSON file.
func LoadOrders(ctx context.Context, path string) ([]model.Order, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	orders, err := ReadOrders(ctx, f)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: read %s", path)
	}
	return orders, nil
}

// ReadOrders decodes a JSON array of orders. Every order and line item must
// carry all fields; the first violation is returned as a
// model.MalformedInputError.
func ReadOrders(ctx context.Context, r io.Reader) ([]model.Order, error) {
	elemCh, errCh := DecodeJSONArray[rawOrder](ctx, r)

	var orders []model.Order
	var convErr error
	for el := range elemCh {
		if convErr != nil {
			continue // drain
		}
		o, err := toOrder(el.Index, el.Value)
		if err != nil {
			convErr = err
			continue
		}
		orders = append(orders, o)
	}

	for err := range errCh {
		if convErr == nil {
			convErr = classifyDecodeError(ctx, err)
		}
	}
	if convErr != nil {
		return nil, convErr
	}

	zap.L().Debug("loader: orders decoded", zap.Int("orders", len(orders)))
	return orders, nil
}

func toOrder(idx int, raw rawOrder) (model.Order, error) {
	if err := validate.Struct(raw); err != nil {
		return model.Order{}, fieldErrorToMalformed(err, func(field, reason string) *model.MalformedInputError {
			return model.NewMalformedOrder(idx, field, reason)
		})
	}

	o := model.Order{
		OrderID:       *raw.OrderID,
		WarehouseName: *raw.WarehouseName,
		HighwayCost:   *raw.HighwayCost,
		Products:      make([]model.LineItem, 0, len(raw.Products)),
	}

	for j, item := range raw.Products {
		if err := validate.Struct(item); err != nil {
			return model.Order{}, fieldErrorToMalformed(err, func(field, reason string) *model.MalformedInputError {
				return model.NewMalformedItem(idx, j, field, reason)
			})
		}
		o.Products = append(o.Products, model.LineItem{
			Product:  *item.Product,
			Quantity: *item.Quantity,
			Price:    *item.Price,
		})
	}

	return o, nil
}

func fieldErrorToMalformed(err error, build func(field, reason string) *model.MalformedInputError) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return eris.Wrap(err, "loader: validate")
	}

	fe := verrs[0]
	return build(fe.Field(), describeFieldError(fe))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "nonblank":
		return "must not be empty"
	case "min":
		if fe.Kind() == reflect.String {
			return "must not be empty"
		}
		return fmt.Sprintf("must be >= %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// classifyDecodeError reports undecodable input as a MalformedInputError.
// Cancellation is returned unchanged.
func classifyDecodeError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return err
	}

	var de *decodeError
	if !errors.As(err, &de) {
		return model.NewMalformedDocument(err.Error())
	}

	var ute *json.UnmarshalTypeError
	if errors.As(de.err, &ute) {
		field := ute.Field
		if field == "" {
			field = "order"
		}
		return model.NewMalformedOrder(de.index, field, fmt.Sprintf("expected %s, got JSON %s", ute.Type, ute.Value))
	}

	return model.NewMalformedOrder(de.index, "order", de.err.Error())
}
