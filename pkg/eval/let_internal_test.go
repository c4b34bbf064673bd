package eval

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"src.rvim.sh/pkg/tt"
	"src.rvim.sh/pkg/vim/errs"
)

func TestSplitAssignment(t *testing.T) {
	tt.Test(t, tt.Fn("splitAssignment", splitAssignment), tt.Table{
		tt.Args("x = 1").Rets("x ", "", " 1", true),
		tt.Args("x += 1").Rets("x ", "+", " 1", true),
		tt.Args("x .= 'a'").Rets("x ", ".", " 'a'", true),
		tt.Args("x ..= 'a'").Rets("x ", "..", " 'a'", true),
		tt.Args("x=1==1").Rets("x", "", "1==1", true),
		tt.Args("d['a=b'] = 1").Rets("d['a=b'] ", "", " 1", true),
		tt.Args("l[f(a=1)] = 1").Rets("l[f(a=1)] ", "", " 1", true),
		tt.Args(`x = "="`).Rets("x ", "", ` "="`, true),
		tt.Args("x == 1").Rets("", "", "", false),
		tt.Args("x =~ 1").Rets("", "", "", false),
		tt.Args("x != 1").Rets("", "", "", false),
		tt.Args("x <= 1").Rets("", "", "", false),
		tt.Args("x").Rets("", "", "", false),
	})
}

func TestParsePattern(t *testing.T) {
	tt.Test(t, tt.Fn("parsePattern", parsePattern).Opts(
		cmp.AllowUnexported(pattern{}), cmpopts.EquateErrors()), tt.Table{
		tt.Args("x").Rets(pattern{name: "x"}, nil),
		tt.Args("[a, b]").Rets(pattern{isList: true,
			list: []pattern{{name: "a"}, {name: "b"}}}, nil),
		tt.Args("[a; rest]").Rets(pattern{isList: true,
			list: []pattern{{name: "a"}}, rest: "rest"}, nil),
		tt.Args("[a, [b, c]]").Rets(pattern{isList: true,
			list: []pattern{{name: "a"}, {isList: true,
				list: []pattern{{name: "b"}, {name: "c"}}}}}, nil),
		tt.Args("{a, b}").Rets(pattern{isDict: true, dict: []string{"a", "b"}}, nil),
		tt.Args("[a b]").Rets(pattern{}, errs.Expected{Token: "]"}),
		tt.Args("{a b}").Rets(pattern{}, errs.Expected{Token: "}"}),
		tt.Args("[a;]").Rets(pattern{}, errs.ErrUnexpectedSymbol),
		tt.Args("x y").Rets(pattern{}, errs.ErrUnexpectedSymbol),
		tt.Args("1").Rets(pattern{}, errs.ErrUnexpectedSymbol),
	})
}

func TestMatchingBracket(t *testing.T) {
	tt.Test(t, tt.Fn("matchingBracket", matchingBracket), tt.Table{
		tt.Args("[0]").Rets(2),
		tt.Args("[a[0]]x").Rets(5),
		tt.Args("[']']").Rets(4),
		tt.Args("[0").Rets(-1),
	})
}
