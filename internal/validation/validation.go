package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// locationBody marks where a failing field came from. Only request
// bodies are validated.
const locationBody = "body"

var validate = validator.New()

// FieldError describes a single failing field rule.
type FieldError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param"`
	Location string `json:"location"`
}

// Errors is the full list of failing fields for a request. It
// implements error so services can return it through their normal
// error path.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fmt.Sprintf("%s: %s", fe.Param, fe.Msg)
	}
	return strings.Join(msgs, "; ")
}

// Rule checks one field. It returns a FieldError when the field fails,
// or a non-nil error when the check itself could not run (store
// failure).
type Rule func(ctx context.Context) (*FieldError, error)

// Chain is an ordered list of rules. Run evaluates every rule, never
// short-circuiting, so the caller gets all failing fields together.
type Chain []Rule

// Run evaluates the chain. It returns Errors when at least one rule
// failed, or the first underlying check error.
func (c Chain) Run(ctx context.Context) error {
	var errs Errors
	for _, rule := range c {
		fe, err := rule(ctx)
		if err != nil {
			return err
		}
		if fe != nil {
			errs = append(errs, *fe)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func fail(param, msg string) *FieldError {
	return &FieldError{Msg: msg, Param: param, Location: locationBody}
}

// Single builds an Errors list with one failing field. Services use it
// to map store-level constraint violations onto the same shape the
// rule chains produce.
func Single(param, msg string) Errors {
	return Errors{*fail(param, msg)}
}

// Email requires value to be a well-formed email address.
func Email(param, value, msg string) Rule {
	return func(context.Context) (*FieldError, error) {
		if err := validate.Var(value, "required,email"); err != nil {
			return fail(param, msg), nil
		}
		return nil, nil
	}
}

// Length requires the trimmed value to be between min and max runes.
func Length(param, value string, min, max int, msg string) Rule {
	return func(context.Context) (*FieldError, error) {
		tag := fmt.Sprintf("min=%d,max=%d", min, max)
		if err := validate.Var(strings.TrimSpace(value), tag); err != nil {
			return fail(param, msg), nil
		}
		return nil, nil
	}
}

// MinLength requires the trimmed value to be at least min runes.
func MinLength(param, value string, min int, msg string) Rule {
	return func(context.Context) (*FieldError, error) {
		if err := validate.Var(strings.TrimSpace(value), fmt.Sprintf("min=%d", min)); err != nil {
			return fail(param, msg), nil
		}
		return nil, nil
	}
}

// MaxLength requires the trimmed value to be at most max runes.
func MaxLength(param, value string, max int, msg string) Rule {
	return func(context.Context) (*FieldError, error) {
		if err := validate.Var(strings.TrimSpace(value), fmt.Sprintf("max=%d", max)); err != nil {
			return fail(param, msg), nil
		}
		return nil, nil
	}
}

// Equals requires value to match other, e.g. password confirmation.
func Equals(param, value, other, msg string) Rule {
	return func(context.Context) (*FieldError, error) {
		if strings.TrimSpace(value) != other {
			return fail(param, msg), nil
		}
		return nil, nil
	}
}

// Required fails when the field was absent from the request body.
func Required(param string, present bool, msg string) Rule {
	return func(context.Context) (*FieldError, error) {
		if !present {
			return fail(param, msg), nil
		}
		return nil, nil
	}
}

// OneOf requires value to be one of the allowed literals.
func OneOf(param, value string, allowed []string, msg string) Rule {
	return func(context.Context) (*FieldError, error) {
		tag := "oneof=" + strings.Join(allowed, " ")
		if err := validate.Var(value, tag); err != nil {
			return fail(param, msg), nil
		}
		return nil, nil
	}
}

// ISO8601 requires value to be an ISO-8601 date, with or without a
// time component.
func ISO8601(param, value, msg string) Rule {
	return func(context.Context) (*FieldError, error) {
		if validate.Var(value, "datetime=2006-01-02T15:04:05Z07:00") == nil {
			return nil, nil
		}
		if validate.Var(value, "datetime=2006-01-02") == nil {
			return nil, nil
		}
		return fail(param, msg), nil
	}
}

// Numeric requires raw to hold a number, bare or quoted. Absent fields
// fail too, so one rule covers missing and malformed input alike.
func Numeric(param string, raw json.RawMessage, msg string) Rule {
	return func(context.Context) (*FieldError, error) {
		if _, ok := ParseDecimal(raw); !ok {
			return fail(param, msg), nil
		}
		return nil, nil
	}
}

// NumericID requires raw to hold a positive integer id.
func NumericID(param string, raw json.RawMessage, msg string) Rule {
	return func(context.Context) (*FieldError, error) {
		if _, ok := ParseUint(raw); !ok {
			return fail(param, msg), nil
		}
		return nil, nil
	}
}

// ParseDecimal reads a decimal out of a raw JSON value. Bare numbers
// and numeric strings are both accepted.
func ParseDecimal(raw json.RawMessage) (decimal.Decimal, bool) {
	s, ok := rawScalar(raw)
	if !ok {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ParseUint reads a positive integer id out of a raw JSON value.
func ParseUint(raw json.RawMessage) (uint, bool) {
	s, ok := rawScalar(raw)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func rawScalar(raw json.RawMessage) (string, bool) {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return "", false
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
	}
	return strings.TrimSpace(s), true
}

// Unique is a store-backed rule: taken reports whether the scoped key
// is already in use. Store failures abort the chain rather than
// surfacing as a field error.
func Unique(param string, taken func(ctx context.Context) (bool, error), msg string) Rule {
	return func(ctx context.Context) (*FieldError, error) {
		inUse, err := taken(ctx)
		if err != nil {
			return nil, fmt.Errorf("uniqueness check for %s: %w", param, err)
		}
		if inUse {
			return fail(param, msg), nil
		}
		return nil, nil
	}
}
