package vals

import (
	"math"
	"strconv"
	"strings"

	"src.rvim.sh/pkg/vim/errs"
)

// ParseNum parses a numeric literal. Integers are decimal unless prefixed with
// 0x, 0o or 0b; a leading zero does not make a literal octal. A literal
// containing a '.' or an exponent is a Number.
func ParseNum(s string) (any, error) {
	digits := strings.ReplaceAll(s, "_", "")
	if len(digits) > 2 && digits[0] == '0' {
		base := 0
		switch digits[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			i, err := strconv.ParseInt(digits[2:], base, 0)
			if err != nil {
				return nil, errs.ErrInvalidExpression
			}
			return int(i), nil
		}
	}
	if i, err := strconv.ParseInt(digits, 10, 0); err == nil {
		return int(i), nil
	}
	if f, err := strconv.ParseFloat(digits, 64); err == nil {
		return f, nil
	}
	return nil, errs.ErrInvalidExpression
}

// An arithmetic operator applied either to two Integers or to two Numbers.
type arith struct {
	ints   func(a, b int) (int, error)
	floats func(a, b float64) (float64, error)
}

func (op arith) apply(a, b any) (any, error) {
	if ai, ok := a.(int); ok {
		if bi, ok := b.(int); ok {
			r, err := op.ints(ai, bi)
			if err != nil {
				return nil, err
			}
			return r, nil
		}
	}
	af, err := ToNum(a)
	if err != nil {
		return nil, err
	}
	bf, err := ToNum(b)
	if err != nil {
		return nil, err
	}
	r, err := op.floats(af, bf)
	if err != nil {
		return nil, err
	}
	return r, nil
}

var (
	addOp = arith{
		func(a, b int) (int, error) { return a + b, nil },
		func(a, b float64) (float64, error) { return a + b, nil }}
	subOp = arith{
		func(a, b int) (int, error) { return a - b, nil },
		func(a, b float64) (float64, error) { return a - b, nil }}
	mulOp = arith{
		func(a, b int) (int, error) { return a * b, nil },
		func(a, b float64) (float64, error) { return a * b, nil }}
	divOp = arith{
		func(a, b int) (int, error) {
			if b == 0 {
				return 0, errs.ErrDivideByZero
			}
			return a / b, nil
		},
		func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, errs.ErrDivideByZero
			}
			return a / b, nil
		}}
	modOp = arith{
		func(a, b int) (int, error) {
			if b == 0 {
				return 0, errs.ErrDivideByZero
			}
			return a % b, nil
		},
		func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, errs.ErrDivideByZero
			}
			return math.Mod(a, b), nil
		}}
)

// Add adds two values. Two Integers give an Integer; any other pairing is
// promoted to Number.
func Add(a, b any) (any, error) { return addOp.apply(a, b) }

// Sub subtracts b from a, with the same promotion as Add.
func Sub(a, b any) (any, error) { return subOp.apply(a, b) }

// Mul multiplies two values, with the same promotion as Add.
func Mul(a, b any) (any, error) { return mulOp.apply(a, b) }

// Div divides a by b. Integer division truncates. Dividing by zero is an
// error for both Integers and Numbers.
func Div(a, b any) (any, error) { return divOp.apply(a, b) }

// Mod returns the remainder of a divided by b.
func Mod(a, b any) (any, error) { return modOp.apply(a, b) }

// Negate returns -v.
func Negate(v any) (any, error) {
	switch v := v.(type) {
	case int:
		return -v, nil
	case float64:
		return -v, nil
	}
	return Sub(0, v)
}

// Concat joins the string forms of two values.
func Concat(a, b any) string {
	return ToString(a) + ToString(b)
}
