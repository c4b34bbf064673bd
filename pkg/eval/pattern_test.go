package eval

import (
	"testing"

	"src.rvim.sh/pkg/tt"
	"src.rvim.sh/pkg/vim/errs"
)

// translate returns the RE2 form of a pattern, or the error.
func translate(pattern string, ignoreCase bool) (string, error) {
	re, err := compilePattern(pattern, ignoreCase)
	if err != nil {
		return "", err
	}
	return re.String(), nil
}

func TestCompilePattern(t *testing.T) {
	tt.Test(t, tt.Fn("compilePattern", translate), tt.Table{
		tt.Args("abc", false).Rets("abc", nil),
		tt.Args("abc", true).Rets("(?i)abc", nil),
		// Grouping and repetition need a backslash; the bare forms are
		// literals.
		tt.Args(`\(a\|b\)\+`, false).Rets("(a|b)+", nil),
		tt.Args("(a|b)+", false).Rets(`\(a\|b\)\+`, nil),
		tt.Args(`a\=`, false).Rets("a?", nil),
		tt.Args(`a\?`, false).Rets("a?", nil),
		tt.Args("a.*", false).Rets("a.*", nil),
		// Counted repetition.
		tt.Args(`a\{2}`, false).Rets("a{2}", nil),
		tt.Args(`a\{2,3\}`, false).Rets("a{2,3}", nil),
		tt.Args(`a\{,3}`, false).Rets("a{0,3}", nil),
		tt.Args(`a\{}`, false).Rets("a*", nil),
		tt.Args(`a\{-}`, false).Rets("a*?", nil),
		tt.Args(`a\{-1,}`, false).Rets("a{1,}?", nil),
		tt.Args(`a\{2`, false).Rets("", errs.InvalidArgument{
			Func: "pattern", Message: `unmatched \{`}),
		// Word boundaries and case flags.
		tt.Args(`\<foo\>`, false).Rets(`\bfoo\b`, nil),
		tt.Args(`\cfoo`, false).Rets("(?i)foo", nil),
		tt.Args(`\Cfoo`, true).Rets("foo", nil),
		// Character classes pass through.
		tt.Args(`\d\s\w`, false).Rets(`\d\s\w`, nil),
		tt.Args(`\e`, false).Rets(`\x1b`, nil),
		tt.Args(`a\.b`, false).Rets(`a\.b`, nil),
		tt.Args(`a\`, false).Rets("", tt.Any),
	})
}

func TestCompilePattern_Errors(t *testing.T) {
	for _, pattern := range []string{`\(`, `a\)`, `\1`} {
		if _, err := compilePattern(pattern, false); err == nil {
			t.Errorf("compilePattern(%q) -> nil error, want error", pattern)
		}
	}
}

func TestExpandReplacement(t *testing.T) {
	tt.Test(t, tt.Fn("expandReplacement", expandReplacement), tt.Table{
		tt.Args("x").Rets("x"),
		tt.Args("[&]").Rets("[${0}]"),
		tt.Args(`\0\1\9`).Rets("${0}${1}${9}"),
		tt.Args(`\&`).Rets("&"),
		tt.Args(`\n\t`).Rets("\n\t"),
		tt.Args("$1").Rets("$$1"),
		tt.Args(`a\`).Rets(`a\`),
	})
}

func TestRegexpCache(t *testing.T) {
	c := New[*nopState](Config{})
	a, err := c.regexp("a+", false)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := c.regexp("a+", false)
	if a != b {
		t.Errorf("regexp not cached")
	}
	folded, _ := c.regexp("a+", true)
	if folded == a {
		t.Errorf("case-insensitive regexp shares a cache entry")
	}
}
