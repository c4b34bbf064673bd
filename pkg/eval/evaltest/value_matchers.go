package evaltest

import (
	"fmt"
	"math"
	"regexp"

	"src.rvim.sh/pkg/vim/vals"
)

// ValueMatcher is a value that can be passed to [Case.Returns] and has its own
// matching semantics.
type ValueMatcher interface {
	matchValue(any) bool
	String() string
}

// Anything matches anything. It is useful when the value contains information
// that is useful when the test fails.
var Anything ValueMatcher = anything{}

type anything struct{}

func (anything) matchValue(any) bool { return true }
func (anything) String() string      { return "anything" }

// ApproximatelyThreshold defines the threshold for matching float64 values when
// using [Approximately].
const ApproximatelyThreshold = 1e-15

// Approximately matches a float64 within the threshold defined by
// [ApproximatelyThreshold].
func Approximately(f float64) ValueMatcher { return approximately{f} }

type approximately struct{ value float64 }

func (a approximately) matchValue(value any) bool {
	if value, ok := value.(float64); ok {
		return matchFloat64(a.value, value, ApproximatelyThreshold)
	}
	return false
}

func (a approximately) String() string { return fmt.Sprintf("approximately %v", a.value) }

func matchFloat64(a, b, threshold float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	if math.IsInf(a, 0) && math.IsInf(b, 0) &&
		math.Signbit(a) == math.Signbit(b) {
		return true
	}
	return math.Abs(a-b) <= threshold
}

// StringMatching matches any string matching a regexp pattern. If the pattern
// is not a valid regexp, the function panics.
func StringMatching(p string) ValueMatcher { return stringMatching{regexp.MustCompile(p)} }

type stringMatching struct{ pattern *regexp.Regexp }

func (s stringMatching) matchValue(value any) bool {
	if value, ok := value.(string); ok {
		return s.pattern.MatchString(value)
	}
	return false
}

func (s stringMatching) String() string { return "string matching " + s.pattern.String() }

// ObjectContaining matches any dict that contains all the given key-value
// pairs. The values can also be [ValueMatcher]s.
func ObjectContaining(kvs ...any) ValueMatcher {
	return objectContaining{kvs}
}

type objectContaining struct{ kvs []any }

func (m objectContaining) matchValue(value any) bool {
	o, ok := value.(*vals.Object)
	if !ok {
		return false
	}
	for i := 0; i+1 < len(m.kvs); i += 2 {
		got, ok := o.Get(vals.ToString(m.kvs[i]))
		if !ok || !match(got, m.kvs[i+1]) {
			return false
		}
	}
	return true
}

func (m objectContaining) String() string { return fmt.Sprint("dict containing ", m.kvs) }
