// Package evaltest provides a framework for testing Vim script.
//
// The entry point for the framework is the Test function, which accepts a
// *testing.T and any number of test cases.
//
// Test cases are constructed using the That function, followed by method calls
// that add additional information to it.
//
// Example:
//
//	Test(t,
//	    That("echo 'x'").Echoes("x"),
//	    That("let x = 1").Eval("x + 1").Returns(2),
//	    That("Test").Invokes(1))
//
// Each case runs on a fresh Ctx with a recording State. The State has a Test
// command that counts how many times it runs.
package evaltest

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"src.rvim.sh/pkg/eval"
	"src.rvim.sh/pkg/vim/errs"
	"src.rvim.sh/pkg/vim/parse"
	"src.rvim.sh/pkg/vim/vals"
)

// State is a host state that records what a script does.
type State struct {
	// Messages passed to Echo.
	Echoes []string
	// The last value passed to SetSilent.
	Silent bool
	// Values returned by GetOption.
	Options map[string]any
	// Number of times the Test command ran.
	Invocations int
}

// NewState returns a State with the ignorecase option off.
func NewState() *State {
	return &State{Options: map[string]any{"ignorecase": false}}
}

func (s *State) SetSilent(silent bool) { s.Silent = silent }

func (s *State) Echo(msg string) { s.Echoes = append(s.Echoes, msg) }

func (s *State) GetOption(name string) (any, error) {
	if _, key, ok := strings.Cut(name, ":"); ok {
		name = key
	}
	v, ok := s.Options[name]
	if !ok {
		return nil, errs.VariableUndefined{Name: "&" + name}
	}
	return v, nil
}

// Ctx is the interpreter context the cases run on.
type Ctx = eval.Ctx[*State]

// NewCtx returns a Ctx with the Test command registered.
func NewCtx(cfg eval.Config) *eval.Ctx[*State] {
	c := eval.New[*State](cfg)
	c.Command("Test", eval.CommandFunc[*State](
		func(_ *eval.Ctx[*State], s *State, _ parse.Range, _ bool, _ string) error {
			s.Invocations++
			return nil
		}))
	return c
}

// Case is a test case that can be used in Test.
type Case struct {
	codes  []string
	expr   string
	cfg    eval.Config
	setup  func(c *eval.Ctx[*State], s *State)
	verify func(t *testing.T, c *eval.Ctx[*State], s *State)
	want   result
}

type result struct {
	Echoes      []string
	Value       any
	Invocations int
	Error       error
}

// That returns a new Case with the specified source code. Multiple arguments
// are joined with newlines. To specify multiple pieces of code that are
// executed separately, use the Then method to append code pieces.
//
// When combined with subsequent method calls, a test case reads like English.
// For example, a test for the fact that "echo 1" echoes "1" reads:
//
//	That("echo 1").Echoes("1")
func That(lines ...string) Case {
	return Case{codes: []string{strings.Join(lines, "\n")}}
}

// Expr returns a new Case that evaluates an expression. Use Returns to
// specify its value.
func Expr(expr string) Case {
	return Case{expr: expr}
}

// Then returns a new Case that executes the given code in addition. Multiple
// arguments are joined with newlines.
func (c Case) Then(lines ...string) Case {
	c.codes = append(c.codes, strings.Join(lines, "\n"))
	return c
}

// Eval returns a new Case that evaluates an expression after running the
// code. Use Returns to specify its value.
func (c Case) Eval(expr string) Case {
	c.expr = expr
	return c
}

// WithSetup returns a new Case with the given setup function executed on the
// Ctx and State before the code is executed.
func (c Case) WithSetup(f func(*eval.Ctx[*State], *State)) Case {
	c.setup = f
	return c
}

// WithTimeout returns a new Case that runs with the given timeout.
func (c Case) WithTimeout(d time.Duration) Case {
	c.cfg.Timeout = d
	return c
}

// DoesNothing returns c unchanged. It is useful to mark tests that don't have
// any side effects, for example:
//
//	That("let x = 1").DoesNothing()
func (c Case) DoesNothing() Case {
	return c
}

// Passes returns an altered Case that runs an additional verification
// function.
func (c Case) Passes(f func(t *testing.T, c *eval.Ctx[*State], s *State)) Case {
	c.verify = f
	return c
}

// Echoes returns an altered Case that requires the code to echo exactly the
// given messages.
func (c Case) Echoes(msgs ...string) Case {
	c.want.Echoes = msgs
	return c
}

// Returns returns an altered Case that requires the expression to evaluate to
// the given value. The value may be a ValueMatcher.
func (c Case) Returns(v any) Case {
	c.want.Value = v
	return c
}

// Invokes returns an altered Case that requires the Test command to run n
// times.
func (c Case) Invokes(n int) Case {
	c.want.Invocations = n
	return c
}

// Throws returns an altered Case that requires the code to fail with the
// given error. A plain error matches if it is in the chain of the actual
// error; matchers constructed by functions like ErrorWithType have their own
// semantics.
func (c Case) Throws(err error) Case {
	c.want.Error = err
	return c
}

// Test runs test cases. For each test case, a new Ctx is created with NewCtx.
func Test(t *testing.T, tests ...Case) {
	t.Helper()
	TestWithSetup(t, func(*eval.Ctx[*State], *State) {}, tests...)
}

// TestWithSetup runs test cases. For each test case, a new Ctx is created
// with NewCtx and passed to the setup function.
func TestWithSetup(t *testing.T, setup func(*eval.Ctx[*State], *State), tests ...Case) {
	t.Helper()
	for _, tc := range tests {
		name := strings.Join(tc.codes, "\n")
		if tc.expr != "" {
			name += " => " + tc.expr
		}
		t.Run(name, func(t *testing.T) {
			t.Helper()
			c := NewCtx(tc.cfg)
			s := NewState()
			setup(c, s)
			if tc.setup != nil {
				tc.setup(c, s)
			}

			r := evalAndCollect(c, s, tc.codes, tc.expr)

			if tc.verify != nil {
				tc.verify(t, c, s)
			}
			if !(len(tc.want.Echoes) == 0 && len(r.Echoes) == 0) &&
				!cmp.Equal(tc.want.Echoes, r.Echoes) {
				t.Errorf("got echoes (-want +got):\n%s", cmp.Diff(tc.want.Echoes, r.Echoes))
			}
			if tc.expr != "" && r.Error == nil && !match(r.Value, tc.want.Value) {
				t.Errorf("got value %s, want %s", vals.Repr(r.Value), reprWant(tc.want.Value))
			}
			if r.Invocations != tc.want.Invocations {
				t.Errorf("got %d invocations, want %d", r.Invocations, tc.want.Invocations)
			}
			if !matchErr(tc.want.Error, r.Error) {
				t.Errorf("got error %T: %v", r.Error, r.Error)
				t.Errorf("want: %v", tc.want.Error)
			}
		})
	}
}

func evalAndCollect(c *eval.Ctx[*State], s *State, codes []string, expr string) result {
	var r result
	for _, code := range codes {
		if err := c.Run(code, s); err != nil {
			// NOTE: If multiple code pieces fail, only the last error is
			// saved.
			r.Error = err
		}
	}
	if expr != "" && r.Error == nil {
		r.Value, r.Error = c.Eval(expr, s)
	}
	r.Echoes = s.Echoes
	r.Invocations = s.Invocations
	return r
}

func reprWant(v any) string {
	if m, ok := v.(ValueMatcher); ok {
		return m.String()
	}
	return vals.Repr(v)
}

func match(got, want any) bool {
	if m, ok := want.(ValueMatcher); ok {
		return m.matchValue(got)
	}
	if got, ok := got.(float64); ok {
		if want, ok := want.(float64); ok {
			return matchFloat64(got, want, 0)
		}
	}
	return vals.Equal(got, want)
}
