package eval

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"src.rvim.sh/pkg/tt"
	"src.rvim.sh/pkg/vim/errs"
	"src.rvim.sh/pkg/vim/ns"
)

func TestParseHeader(t *testing.T) {
	tt.Test(t, tt.Fn("parseHeader", parseHeader).Opts(cmpopts.EquateErrors()), tt.Table{
		tt.Args("F()").Rets(&Function{Name: "F", Script: ns.NoID}, nil),
		tt.Args("g:F(a, b)").Rets(
			&Function{Name: "g:F", Params: []string{"a", "b"}, Script: ns.NoID}, nil),
		tt.Args("s:F(...) abort").Rets(
			&Function{Name: "s:F", Variadic: true, Script: ns.NoID}, nil),
		tt.Args("F(a, ...) range dict closure").Rets(
			&Function{Name: "F", Params: []string{"a"}, Variadic: true, Script: ns.NoID}, nil),
		tt.Args("lib#F()").Rets(&Function{Name: "lib#F", Script: ns.NoID}, nil),
		tt.Args("F").Rets((*Function)(nil), errs.Expected{Token: "("}),
		tt.Args("F)(").Rets((*Function)(nil), errs.Expected{Token: ")"}),
		tt.Args("F(..., a)").Rets((*Function)(nil), errs.Expected{Token: ")"}),
		tt.Args("F(a:b)").Rets((*Function)(nil), errs.ErrUnexpectedSymbol),
		tt.Args("1F()").Rets((*Function)(nil), errs.ErrUnexpectedSymbol),
		tt.Args("F() bogus").Rets((*Function)(nil), errs.ErrUnexpectedSymbol),
	})
}

func TestSuggest(t *testing.T) {
	candidates := []string{"strlen", "strwidth", "split", "sort", "Test"}
	tt.Test(t, tt.Fn("suggest", suggest), tt.Table{
		tt.Args("strln", candidates).Rets("strlen"),
		tt.Args("splt", candidates).Rets("split"),
		tt.Args("test", candidates).Rets("Test"),
		// A candidate whose letters the name contains.
		tt.Args("sortt", candidates).Rets("sort"),
		tt.Args("xyz", candidates).Rets(""),
		tt.Args("x", nil).Rets(""),
	})
}

func TestCaptureBody(t *testing.T) {
	c := New[*nopState](Config{})
	err := c.Run("function! Outer()\nfunction! Inner()\necho 1\nendfunction\nendfunction", &nopState{})
	if err != nil {
		t.Fatal(err)
	}
	fn, ok, _ := c.funcs.Get("Outer")
	if !ok {
		t.Fatal("Outer not defined")
	}
	var got []string
	for _, line := range fn.Body {
		got = append(got, line.Keyword())
	}
	want := []string{"function", "echo", "endfunction"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("body keywords (-want +got):\n%s", diff)
	}
	if _, ok, _ := c.funcs.Get("Inner"); ok {
		t.Errorf("Inner defined before Outer is called")
	}
}
