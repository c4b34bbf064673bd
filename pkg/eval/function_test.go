package eval_test

import (
	"testing"

	. "src.rvim.sh/pkg/eval/evaltest"
	"src.rvim.sh/pkg/vim/errs"
	"src.rvim.sh/pkg/vim/vals"
)

func TestFunctionDefinition(t *testing.T) {
	Test(t,
		// Defining a function does not run it.
		That("function g:Build()", "Test", "endfunction").Invokes(0),
		That("function g:Build()", "Test", "endfunction", "call g:Build()").Invokes(1),
		// Unqualified function names are global.
		That("function Build()", "Test", "endfunction", "call g:Build()").Invokes(1),
		That("function g:Build()", "Test", "endfunction", "call Build()").Invokes(1),
		That("function! F() abort", "Test", "endfunction", "call F() | call F()").Invokes(2),
		// Nested definitions are captured with the body.
		That("function! Outer()", "function! Inner()", "Test", "endfunction", "endfunction",
			"call Outer()", "call Inner()").Invokes(1),
		That("function! F()", "Test").Throws(errs.ErrUnexpectedEOF),
		That("function! F", "endfunction").Throws(errs.Expected{Token: "("}),
		That("function! F(a b)", "endfunction").Throws(errs.ErrUnexpectedSymbol),
		That("function! F(..., a)", "endfunction").Throws(errs.Expected{Token: ")"}),
		That("function! F() bogus", "endfunction").Throws(errs.ErrUnexpectedSymbol),
		// A function in a skipped branch is not defined.
		That("if 0", "function! F()", "endfunction", "endif", "call F()").
			Throws(errs.FunctionUndefined{Name: "F"}),
	)
}

func TestFunctionListing(t *testing.T) {
	Test(t,
		That("function! B()", "endfunction", "function! A()", "endfunction", "function").
			Echoes("function A()", "function B()"),
	)
}

func TestFunctionCalls(t *testing.T) {
	Test(t,
		That("function! Add(a, b)", "return a:a + a:b", "endfunction").
			Eval("Add(1, 2)").Returns(3),
		That("function! Nothing()", "endfunction").Eval("Nothing()").Returns(0),
		That("function! Bare()", "return", "endfunction").Eval("Bare()").Returns(0),
		That("function! F(a)", "endfunction").Eval("F()").
			Throws(errs.WrongArgCount{Expected: 1}),
		That("function! F(a)", "endfunction").Eval("F(1, 2)").
			Throws(errs.WrongArgCount{Expected: 1}),
		That("function! V(a, ...)", "return [a:a, a:0, a:000]", "endfunction").
			Eval("V(1, 2, 3)").Returns(vals.NewList(1, 2, vals.NewList(2, 3))),
		That("function! V(...)", "return a:0", "endfunction").Eval("V()").Returns(0),
		That("function! V(...)", "return a:2", "endfunction").Eval("V('x', 'y')").Returns("y"),
		// Locals of a function do not leak.
		That("function! F()", "let x = 1", "endfunction", "call F()").
			Eval("x").Throws(errs.VariableUndefined{Name: "x"}),
		// Locals of a function that fails do not leak either.
		That("function! F()", "let y = 1", "echo undefined", "endfunction").
			Eval("F()").Throws(errs.VariableUndefined{Name: "undefined"}),
		That("function! F()", "let y = 1", "echo undefined", "endfunction", "silent! call F()").
			Eval("y").Throws(errs.VariableUndefined{Name: "y"}),
		// Script-level names are not visible as locals inside functions,
		// but g: names are.
		That("let x = 5", "function! F()", "return x", "endfunction").Eval("F()").
			Throws(errs.VariableUndefined{Name: "x"}),
		That("let x = 5", "function! F()", "return g:x", "endfunction").Eval("F()").Returns(5),
		That("let x = 5", "function! F()", "for i in [1]", "return x", "endfor", "endfunction").
			Eval("F()").Throws(errs.VariableUndefined{Name: "x"}),
		That("let g:n = 0", "function! Inc()", "let g:n += 1", "endfunction",
			"call Inc() | call Inc()").Eval("g:n").Returns(2),
		// A return inside a loop ends the function.
		That("function! First(l)", "for x in a:l", "if x > 1", "return x", "endif", "endfor",
			"return -1", "endfunction").Eval("First([1, 2, 3])").Returns(2),
		// break in a function does not see loops of the caller.
		That("function! F()", "break", "endfunction", "for x in [1]", "call F()", "endfor").
			Throws(errs.UnexpectedKeyword{Keyword: "break"}),
	)
}

func TestRecursion(t *testing.T) {
	Test(t,
		That("function! Fact(n)",
			"if a:n <= 1",
			"return 1",
			"endif",
			"return a:n * Fact(a:n - 1)",
			"endfunction").Eval("Fact(10)").Returns(3628800),
		That("function! Forever()", "return Forever()", "endfunction").
			Eval("Forever()").Throws(errs.ErrMaxDepth),
	)
}

func TestFuncrefs(t *testing.T) {
	Test(t,
		That("let F = function('len')").Eval("F([1, 2])").Returns(2),
		That("let F = funcref('toupper')").Eval("F('a')").Returns("A"),
		That("function! Twice(x)", "return a:x * 2", "endfunction",
			"let F = function('Twice')").Eval("call(F, [4])").Returns(8),
		That("let F = function('len')").Eval("type(F) == v:t_func").Returns(true),
		That("let F = function('len')").Eval("string(F)").Returns("function('len')"),
		Expr("function('Nosuch')").Throws(errs.FunctionUndefined{Name: "Nosuch"}),
		Expr("call('len', [[1]])").Returns(1),
	)
}

func TestUndefinedFunctionSuggestion(t *testing.T) {
	Test(t,
		Expr("strln('x')").Throws(ErrorWithMessage(
			"unknown function: strln (did you mean strlen?)")),
		That("Tst").Throws(ErrorWithMessage(
			"not an editor command: Tst (did you mean Test?)")),
	)
}
