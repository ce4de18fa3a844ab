// Package validator provides declarative, rule-based validation of decoded
// request payloads. Rules are small tagged values (a Kind plus an optional
// numeric parameter) evaluated by a table of check functions, and every
// violation is accumulated per field in declaration order.
package validator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DecimalRX matches a non-negative decimal with at most two fractional digits.
var DecimalRX = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// numericRX mirrors what a numeric string may look like: optional sign,
// digits with an optional fraction, and an optional exponent.
var numericRX = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Kind identifies a single validation directive.
type Kind int

const (
	KindRequired Kind = iota
	KindString
	KindNumeric
	KindMin
	KindMax
	KindPositive
	KindDecimal
	KindOptional
)

// String returns the directive name, e.g. "min" or "required".
func (k Kind) String() string {
	switch k {
	case KindRequired:
		return "required"
	case KindString:
		return "string"
	case KindNumeric:
		return "numeric"
	case KindMin:
		return "min"
	case KindMax:
		return "max"
	case KindPositive:
		return "positive"
	case KindDecimal:
		return "decimal"
	case KindOptional:
		return "optional"
	}
	return "unknown"
}

// Rule is one directive applied to a field. Param is only meaningful for
// KindMin and KindMax.
type Rule struct {
	Kind  Kind
	Param float64
}

func Required() Rule     { return Rule{Kind: KindRequired} }
func IsString() Rule     { return Rule{Kind: KindString} }
func Numeric() Rule      { return Rule{Kind: KindNumeric} }
func Min(n float64) Rule { return Rule{Kind: KindMin, Param: n} }
func Max(n float64) Rule { return Rule{Kind: KindMax, Param: n} }
func Positive() Rule     { return Rule{Kind: KindPositive} }
func Decimal() Rule      { return Rule{Kind: KindDecimal} }
func Optional() Rule     { return Rule{Kind: KindOptional} }

// FieldRules binds an ordered list of rules to a payload key.
type FieldRules struct {
	Field string
	Rules []Rule
}

// Field is shorthand for building a FieldRules entry.
func Field(name string, rules ...Rule) FieldRules {
	return FieldRules{Field: name, Rules: rules}
}

// Errors maps a field name to its violation messages, in the order the
// rules were evaluated.
type Errors map[string][]string

// Validator accumulates field-level validation errors.
// A Validator with an empty Errors map is considered valid.
type Validator struct {
	Errors Errors
}

// New creates and returns a fresh, empty Validator.
func New() *Validator {
	return &Validator{Errors: make(Errors)}
}

// Valid returns true if no errors have been recorded.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError appends message to the list of errors recorded for key.
func (v *Validator) AddError(key, message string) {
	v.Errors[key] = append(v.Errors[key], message)
}

// Check adds an error for key with message only when ok is false.
//
//	v.Check(len(name) > 0, "name", "name is required")
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// checkFunc evaluates one rule against value. It returns the violation
// message (empty when the rule holds) and whether the remaining rules of
// the field must be skipped.
type checkFunc func(field string, value any, param float64) (message string, stop bool)

var checks = map[Kind]checkFunc{
	KindRequired: checkRequired,
	KindString:   checkString,
	KindNumeric:  checkNumeric,
	KindMin:      checkMin,
	KindMax:      checkMax,
	KindPositive: checkPositive,
	KindDecimal:  checkDecimal,
	KindOptional: checkOptional,
}

// Apply evaluates every rule set against data. Absent keys and JSON nulls
// are both seen as a nil value.
func (v *Validator) Apply(data map[string]any, rules []FieldRules) {
	for _, fr := range rules {
		value := data[fr.Field]
		for _, rule := range fr.Rules {
			check, ok := checks[rule.Kind]
			if !ok {
				panic(fmt.Sprintf("validator: no check registered for rule kind %d", rule.Kind))
			}
			message, stop := check(fr.Field, value, rule.Param)
			if message != "" {
				v.AddError(fr.Field, message)
			}
			if stop {
				break
			}
		}
	}
}

// Validate is a convenience wrapper returning the errors produced by
// applying rules to data. An empty map means the payload is valid.
func Validate(data map[string]any, rules []FieldRules) Errors {
	v := New()
	v.Apply(data, rules)
	return v.Errors
}

func checkRequired(field string, value any, _ float64) (string, bool) {
	if isEmpty(value) {
		return field + " is required", false
	}
	return "", false
}

func checkString(field string, value any, _ float64) (string, bool) {
	if value == nil {
		return "", false
	}
	if _, ok := value.(string); !ok {
		return field + " must be a string", false
	}
	return "", false
}

func checkNumeric(field string, value any, _ float64) (string, bool) {
	if value == nil {
		return "", false
	}
	if _, ok := AsNumber(value); !ok {
		return field + " must be numeric", false
	}
	return "", false
}

func checkMin(field string, value any, param float64) (string, bool) {
	if s, ok := value.(string); ok {
		if float64(utf8.RuneCountInString(s)) < param {
			return fmt.Sprintf("%s must be at least %s characters", field, formatParam(param)), false
		}
		return "", false
	}
	if n, ok := AsNumber(value); ok && n < param {
		return fmt.Sprintf("%s must be at least %s", field, formatParam(param)), false
	}
	return "", false
}

func checkMax(field string, value any, param float64) (string, bool) {
	if s, ok := value.(string); ok {
		if float64(utf8.RuneCountInString(s)) > param {
			return fmt.Sprintf("%s must not exceed %s characters", field, formatParam(param)), false
		}
		return "", false
	}
	if n, ok := AsNumber(value); ok && n > param {
		return fmt.Sprintf("%s must not exceed %s", field, formatParam(param)), false
	}
	return "", false
}

func checkPositive(field string, value any, _ float64) (string, bool) {
	if n, ok := AsNumber(value); ok && n <= 0 {
		return field + " must be positive", false
	}
	return "", false
}

func checkDecimal(field string, value any, _ float64) (string, bool) {
	if value == nil {
		return "", false
	}
	if !Matches(Text(value), DecimalRX) {
		return field + " must be a valid decimal with max 2 decimal places", false
	}
	return "", false
}

func checkOptional(_ string, value any, _ float64) (string, bool) {
	return "", isEmpty(value)
}

// isEmpty treats nil and the empty string as missing. Zero values such as
// 0 or "0" count as present.
func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

// AsNumber reports the numeric value of v when v is a number or a string
// holding a number.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.TrimSpace(n)
		if !numericRX.MatchString(s) {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

// Text renders v the way it would be written as a plain value: strings as
// they are, numbers in their shortest decimal form.
func Text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		if t {
			return "1"
		}
		return ""
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

func formatParam(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// In returns true if value is present in the list slice.
func In(value string, list ...string) bool {
	for _, item := range list {
		if value == item {
			return true
		}
	}
	return false
}

// Matches returns true if value matches the provided compiled regexp.
func Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}
