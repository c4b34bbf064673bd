package eval

import (
	"math"

	"src.rvim.sh/pkg/vim/errs"
	"src.rvim.sh/pkg/vim/vals"
)

// Numeric functions.

var (
	posInf = math.Inf(1)
	nan    = math.NaN()
)

func addNumBuiltins[S State](c *Ctx[S]) {
	addGoFns(c,
		NewGoFn[S]("abs", abs),
		NewGoFn[S]("float2nr", float2nr),
		NewGoFn[S]("round", math.Round),
		NewGoFn[S]("ceil", math.Ceil),
		NewGoFn[S]("floor", math.Floor),
		NewGoFn[S]("trunc", math.Trunc),
		NewGoFn[S]("fmod", math.Mod),
		NewGoFn[S]("exp", math.Exp),
		NewGoFn[S]("log", math.Log),
		NewGoFn[S]("log10", math.Log10),
		NewGoFn[S]("pow", math.Pow),
		NewGoFn[S]("sqrt", math.Sqrt),
		NewGoFn[S]("sin", math.Sin),
		NewGoFn[S]("cos", math.Cos),
		NewGoFn[S]("tan", math.Tan),
		NewGoFn[S]("asin", math.Asin),
		NewGoFn[S]("acos", math.Acos),
		NewGoFn[S]("atan", math.Atan),
		NewGoFn[S]("atan2", math.Atan2),
		NewGoFn[S]("sinh", math.Sinh),
		NewGoFn[S]("cosh", math.Cosh),
		NewGoFn[S]("tanh", math.Tanh),
		NewGoFn[S]("isnan", math.IsNaN),
		NewGoFn[S]("isinf", isinf),
		NewGoFn[S]("and", func(a, b int) int { return a & b }),
		NewGoFn[S]("or", func(a, b int) int { return a | b }),
		NewGoFn[S]("xor", func(a, b int) int { return a ^ b }),
		NewGoFn[S]("invert", func(a int) int { return ^a }),
	)
}

// abs keeps the kind of its argument: an Integer stays an Integer.
func abs(v any) (any, error) {
	switch v := v.(type) {
	case int:
		if v < 0 {
			return -v, nil
		}
		return v, nil
	case float64:
		return math.Abs(v), nil
	}
	return nil, errs.ExpectedType{Kind: "number", Got: vals.Kind(v)}
}

// float2nr truncates toward zero, saturating at the Integer range.
func float2nr(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int(f)
}

// isinf returns 1 for positive infinity, -1 for negative infinity and 0
// otherwise.
func isinf(f float64) int {
	switch {
	case math.IsInf(f, 1):
		return 1
	case math.IsInf(f, -1):
		return -1
	}
	return 0
}
