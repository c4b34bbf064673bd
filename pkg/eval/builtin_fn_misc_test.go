package eval_test

import (
	"testing"

	. "src.rvim.sh/pkg/eval/evaltest"
	"src.rvim.sh/pkg/vim/errs"
	"src.rvim.sh/pkg/vim/vals"
)

func TestType(t *testing.T) {
	Test(t,
		Expr("type(1) == v:t_number").Returns(true),
		Expr("type('') == v:t_string").Returns(true),
		Expr("type(1.0) == v:t_float").Returns(true),
		Expr("type([]) == v:t_list").Returns(true),
		Expr("type({}) == v:t_dict").Returns(true),
		Expr("type(v:true) == v:t_bool").Returns(true),
		Expr("type(v:null) == v:t_none").Returns(true),
		Expr("type(function('len')) == v:t_func").Returns(true),
		Expr("type(1) == type('1')").Returns(false),
	)
}

func TestExists(t *testing.T) {
	Test(t,
		That("let x = 1").Eval("exists('x')").Returns(true),
		Expr("exists('x')").Returns(false),
		Expr("exists('v:true')").Returns(true),
		Expr("exists('b:x')").Returns(false),
		Expr("exists('*len')").Returns(true),
		That("function! F()", "endfunction").Eval("exists('*F')").Returns(true),
		Expr("exists('*Nosuch')").Returns(false),
		Expr("exists(':Test')").Returns(true),
		Expr("exists(':echo')").Returns(true),
		Expr("exists(':Nosuch')").Returns(false),
		Expr("exists('&ignorecase')").Returns(true),
		Expr("exists('&nosuch')").Returns(false),
	)
}

func TestEvalFn(t *testing.T) {
	Test(t,
		Expr("eval('1 + 2')").Returns(3),
		That("let x = [1]").Eval("eval('x')").Returns(vals.NewList(1)),
		Expr("eval('1 +')").Throws(errs.ErrInvalidExpression),
		Expr("garbagecollect()").Returns(0),
	)
}

func TestExecuteFn(t *testing.T) {
	Test(t,
		Expr("execute('echo 1')").Returns("\n1"),
		Expr("execute(['echo 1', 'echo 2'])").Returns("\n1\n2"),
		Expr("execute('let x = 1')").Returns(""),
		// Messages are captured instead of shown.
		That("let out = execute('echo \"hi\"')").Eval("out").Returns("\nhi").Echoes(),
		That("echo execute('echo 1')").Echoes("\n1"),
		Expr("execute('Test')").Returns("").Invokes(1),
		Expr("execute(1)").Throws(ErrorWithType(errs.ExpectedType{})),
		Expr("execute('echo undefined')").Throws(errs.VariableUndefined{Name: "undefined"}),
	)
}

func TestCallFn(t *testing.T) {
	Test(t,
		Expr("call('len', [[1, 2]])").Returns(2),
		Expr("call(function('add'), [[], 1])").Returns(vals.NewList(1)),
		That("function! Sum(...)", "let s = 0", "for x in a:000", "let s += x", "endfor",
			"return s", "endfunction").Eval("call('Sum', [1, 2, 3])").Returns(6),
		Expr("call('len', 1)").Throws(ErrorWithType(errs.ExpectedType{})),
		Expr("call('Nosuch', [])").Throws(errs.FunctionUndefined{Name: "Nosuch"}),
	)
}

func TestAssertions(t *testing.T) {
	Test(t,
		Expr("assert_equal(1, 1)").Returns(0),
		Expr("assert_equal([1], [1])").Returns(0),
		Expr("assert_equal(1, 2)").Throws(errs.AssertionFailed{
			Message: "expected 1 but got 2"}),
		Expr("assert_equal('a', 'b', 'custom')").Throws(errs.AssertionFailed{
			Message: "custom"}),
		Expr("assert_notequal(1, 2)").Returns(0),
		Expr("assert_notequal('a', 'a')").Throws(errs.AssertionFailed{
			Message: "expected not equal to 'a'"}),
		Expr("assert_true(1)").Returns(0),
		Expr("assert_true(0)").Throws(errs.AssertionFailed{
			Message: "expected true but got 0"}),
		Expr("assert_false([])").Returns(0),
		Expr("assert_false('x')").Throws(errs.AssertionFailed{
			Message: "expected false but got 'x'"}),
		That("call assert_true(v:false)").Throws(ErrorAtLine(1,
			errs.AssertionFailed{Message: "expected true but got v:false"})),
	)
}
