package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// amountTolerance is the largest accepted gap between the claimed and computed total.
var amountTolerance = decimal.New(1, -2)

// Validator wraps go-playground/validator and satisfies echo.Validator.
type Validator struct {
	v           *validatorv10.Validate
	shippingFee decimal.Decimal
}

// New returns a validator whose order total rule includes shippingFee.
func New(shippingFee decimal.Decimal) *Validator {
	v := validatorv10.New()
	v.RegisterTagNameFunc(jsonFieldName)

	val := &Validator{v: v, shippingFee: shippingFee}
	v.RegisterStructValidation(val.createOrderStructValidation, CreateOrderRequest{})
	return val
}

func (v *Validator) Validate(i interface{}) error {
	return v.v.Struct(i)
}

// ShippingFee is the flat fee added to non-empty orders.
func (v *Validator) ShippingFee() decimal.Decimal { return v.shippingFee }

// ExpectedTotal returns sum(price*quantity) plus the shipping fee when the subtotal is positive.
func ExpectedTotal(items []ItemInput, shippingFee decimal.Decimal) decimal.Decimal {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	if subtotal.IsPositive() {
		return subtotal.Add(shippingFee)
	}
	return subtotal
}

// createOrderStructValidation verifies the claimed total against the items within one paisa.
func (v *Validator) createOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CreateOrderRequest)

	expected := ExpectedTotal(req.Items, v.shippingFee)
	if decimal.NewFromFloat(req.TotalAmount).Sub(expected).Abs().GreaterThan(amountTolerance) {
		sl.ReportError(req.TotalAmount, "totalAmount", "TotalAmount", "total_matches_items", expected.StringFixed(2))
	}
}

// Describe flattens validation errors into a single readable message.
func Describe(err error) string {
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, describeField(fe))
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

func describeField(fe validatorv10.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "total_matches_items":
		return fmt.Sprintf("%s does not match items, expected %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
