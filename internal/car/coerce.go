package car

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"carnorm/internal/errors"
)

// Each coercer takes one decoded JSON value (nil for a missing key or JSON
// null) and returns the typed field value. Values of the wrong JSON type fall
// back to the field default; only CoerceAcceleration and CoerceModelYear can
// fail, and only on strings that no rule can turn into a value.

// CoerceName accepts a JSON string.
func CoerceName(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// CoerceEfficiency accepts any JSON number.
func CoerceEfficiency(v interface{}) float64 {
	n, ok := number(v)
	if !ok {
		return 0
	}
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}

// CoerceDisplacement keeps JSON strings only. Numbers are discarded, not
// converted.
func CoerceDisplacement(v interface{}) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

// CoerceHorsepower accepts a JSON integer in [0, 255]. Missing and
// out-of-range values both yield 0.
func CoerceHorsepower(v interface{}) uint8 {
	lit, ok := integerLiteral(v)
	if !ok {
		return 0
	}
	hp, err := strconv.ParseUint(lit, 10, 8)
	if err != nil {
		return 0
	}
	return uint8(hp)
}

// CoerceWeight accepts a JSON integer in [0, 65535].
func CoerceWeight(v interface{}) uint16 {
	lit, ok := integerLiteral(v)
	if !ok {
		return 0
	}
	w, err := strconv.ParseUint(lit, 10, 16)
	if err != nil {
		return 0
	}
	return uint16(w)
}

// CoerceCylinders accepts a JSON integer in int32 range.
func CoerceCylinders(v interface{}) int32 {
	lit, ok := integerLiteral(v)
	if !ok {
		return 0
	}
	c, err := strconv.ParseInt(lit, 10, 32)
	if err != nil {
		return 0
	}
	return int32(c)
}

// CoerceAcceleration accepts a string, a float or an integer:
//   - strings keep only their ASCII digits, which must be non-empty
//   - floats truncate toward zero
//   - integers are used as is
//
// Missing values and other JSON types yield 0.
func CoerceAcceleration(v interface{}) (int64, error) {
	if s, ok := v.(string); ok {
		digits := stripNonDigits(s)
		if digits == "" {
			return 0, errors.NewMalformedField(FieldAcceleration.Key, fmt.Sprintf("no digits in %q", s), nil)
		}
		a, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return 0, errors.NewMalformedField(FieldAcceleration.Key, fmt.Sprintf("%q is out of range", digits), err)
		}
		return a, nil
	}

	n, ok := number(v)
	if !ok {
		return 0, nil
	}
	if lit := n.String(); isIntegerLiteral(lit) {
		if a, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return a, nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return 0, errors.NewMalformedField(FieldAcceleration.Key, fmt.Sprintf("%s is not a number", n), err)
	}
	t := math.Trunc(f)
	// float64(math.MaxInt64) rounds up to 2^63, which is already out of range.
	if t < math.MinInt64 || t >= math.MaxInt64 {
		return 0, errors.NewMalformedField(FieldAcceleration.Key, fmt.Sprintf("%s is out of range", n), nil)
	}
	return int64(t), nil
}

// CoerceModelYear accepts a YYYY-MM-DD string. A malformed string is an
// error; a missing value or any other JSON type is absent.
func CoerceModelYear(v interface{}) (ModelYear, error) {
	s, ok := v.(string)
	if !ok {
		return NoModelYear(), nil
	}
	y, err := ParseModelYear(s)
	if err != nil {
		return NoModelYear(), errors.NewMalformedField(FieldModelYear.Key, fmt.Sprintf("%q is not a YYYY-MM-DD date", s), err)
	}
	return y, nil
}

// number extracts a JSON number. float64 is accepted for values decoded
// without UseNumber.
func number(v interface{}) (json.Number, bool) {
	switch n := v.(type) {
	case json.Number:
		return n, true
	case float64:
		return json.Number(strconv.FormatFloat(n, 'f', -1, 64)), true
	}
	return "", false
}

// integerLiteral returns the literal of a JSON number written without a
// fraction or exponent.
func integerLiteral(v interface{}) (string, bool) {
	n, ok := number(v)
	if !ok {
		return "", false
	}
	lit := n.String()
	if !isIntegerLiteral(lit) {
		return "", false
	}
	return lit, true
}

func isIntegerLiteral(lit string) bool {
	return lit != "" && !strings.ContainsAny(lit, ".eE")
}

func stripNonDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
