package eval_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"src.rvim.sh/pkg/eval"
	. "src.rvim.sh/pkg/eval/evaltest"
	"src.rvim.sh/pkg/vim/errs"
	"src.rvim.sh/pkg/vim/parse"
	"src.rvim.sh/pkg/vim/vals"
)

func TestIf(t *testing.T) {
	Test(t,
		That("if v:false | Test | endif").Invokes(0),
		That("if v:true | Test | endif").Invokes(1),
		That("if v:false | else | Test | endif").Invokes(1),
		That("if 1", "Test", "else", "Test", "Test", "endif").Invokes(1),
		That("if 0", "Test", "elseif 1", "Test", "Test", "else", "Test", "endif").Invokes(2),
		That("if 0", "Test", "elseif 0", "Test", "else", "Test", "Test", "Test", "endif").Invokes(3),
		// Branches of a skipped if are not taken.
		That("if 0", "if 1", "Test", "else", "Test", "endif", "else", "Test", "endif").Invokes(1),
		That("if 1", "if 0", "Test", "endif", "Test", "endif").Invokes(1),
		// Conditions of skipped branches are not evaluated.
		That("if 1", "elseif undefined_var", "endif").DoesNothing(),
		That("if 'x' | Test | endif").Invokes(1),
		That("if [] | Test | endif").Invokes(0),
		That("if function('len') | Test | endif").Invokes(1),
	)
}

func TestBlockErrors(t *testing.T) {
	Test(t,
		That("if 1", "Test").Throws(errs.ErrUnexpectedEOF),
		That("while 0").Throws(errs.ErrUnexpectedEOF),
		That("endif").Throws(errs.UnexpectedKeyword{Keyword: "endif"}),
		That("else").Throws(errs.UnexpectedKeyword{Keyword: "else"}),
		That("if 1", "endwhile").Throws(errs.UnexpectedKeyword{Keyword: "endwhile"}),
		That("for x in [1]", "endif").Throws(errs.UnexpectedKeyword{Keyword: "endif"}),
		That("break").Throws(errs.UnexpectedKeyword{Keyword: "break"}),
		That("return 1").Throws(errs.UnexpectedKeyword{Keyword: "return"}),
		That("Nosuchcmd").Throws(errs.CommandUndefined{Name: "Nosuchcmd"}),
	)
}

func TestWhile(t *testing.T) {
	Test(t,
		That("let g:a = 0 | while g:a < 4 | Test | let g:a = g:a + 1 | endwhile").
			Invokes(4),
		That("let i = 0", "while i < 4", "let i += 1", "endwhile").Eval("i").Returns(4),
		That("while 0", "Test", "endwhile").Invokes(0),
		That("let i = 0", "while 1", "let i += 1", "if i == 3", "break", "endif", "Test", "endwhile").
			Invokes(2),
		That("let i = 0", "while i < 5", "let i += 1", "if i % 2", "continue", "endif", "Test", "endwhile").
			Invokes(2),
		// Nested loops.
		That("let i = 0", "while i < 2", "let j = 0", "while j < 3", "Test", "let j += 1",
			"endwhile", "let i += 1", "endwhile").Invokes(6),
		// A loop after a loop that breaks.
		That("while 1 | break | endwhile | Test").Invokes(1),
	)
}

func TestFor(t *testing.T) {
	Test(t,
		That("for a in [0] | Test | endfor").Invokes(1),
		That("for a in [0] | let g:seen = a | endfor").Eval("g:seen").Returns(0),
		// The loop variable is only visible inside the body.
		That("for a in [0] | endfor").Eval("a").Throws(errs.VariableUndefined{Name: "a"}),
		That("for a in [1, 2, 3] | Test | endfor").Invokes(3),
		That("for a in [] | Test | endfor").Invokes(0),
		That("let s = ''", "for c in 'abc'", "let s .= c . '-'", "endfor").
			Eval("s").Returns("a-b-c-"),
		That("let s = 0", "for [k, v] in items({'a': 1, 'b': 2})", "let s += v", "endfor").
			Eval("s").Returns(3),
		That("let n = 0", "for [a, b] in [[1, 2], [3, 4]]", "let n += a * b", "endfor").
			Eval("n").Returns(14),
		That("for x in range(10)", "if x == 2", "break", "endif", "Test", "endfor").Invokes(2),
		That("for x in [1, 2]").Throws(errs.ErrUnexpectedEOF),
		That("for x [1, 2]", "endfor").Throws(errs.Expected{Token: "in"}),
		That("for [a, b] in [[1]]", "endfor").Throws(ErrorWithType(errs.ExpectedType{})),
	)
}

func TestFinish(t *testing.T) {
	Test(t,
		That("Test | finish | Test").Invokes(1),
		That("if 1", "Test", "exit", "endif", "Test").Invokes(1),
	)
}

func TestTimeout(t *testing.T) {
	Test(t,
		That("while v:true | endwhile").
			WithTimeout(50*time.Millisecond).Throws(errs.ErrTimeout),
		That("function! Loop()", "while 1", "endwhile", "endfunction", "call Loop()").
			WithTimeout(50*time.Millisecond).Throws(errs.ErrTimeout),
		// Each run gets a fresh budget.
		That("while 0 | endwhile").Then("Test").WithTimeout(time.Second).Invokes(1),
	)
}

func TestErrorLocation(t *testing.T) {
	Test(t,
		That("Test", "", "echo undefined").
			Invokes(1).
			Throws(ErrorAtLine(3, errs.VariableUndefined{Name: "undefined"})),
		That("if 1", "  let x = 1 +", "endif").
			Throws(ErrorAtLine(2, errs.ErrInvalidExpression)),
		That("function! F()", "  return undefined", "endfunction", "call F()").
			Throws(ErrorAtLine(2, errs.VariableUndefined{Name: "undefined"})),
	)
}

func TestSilent(t *testing.T) {
	Test(t,
		That("silent! echo undefined", "Test").Invokes(1),
		That("silent echo undefined").Throws(errs.VariableUndefined{Name: "undefined"}),
		That("silent! Nosuchcmd").DoesNothing(),
		That("silent Test").Invokes(1).
			Passes(func(t *testing.T, _ *Ctx, s *State) {
				if s.Silent {
					t.Errorf("silence not lifted after :silent")
				}
			}),
		// :silent! does not swallow :finish.
		That("silent! finish", "Test").Invokes(0),
	)
}

func TestSilenceRestoredOnError(t *testing.T) {
	notSilent := func(t *testing.T, c *Ctx, s *State) {
		t.Helper()
		if s.Silent || c.Silent() {
			t.Errorf("silence not lifted: state %v, ctx %v", s.Silent, c.Silent())
		}
	}
	Test(t,
		That("silent silent echo undefined").
			Throws(errs.VariableUndefined{Name: "undefined"}).Passes(notSilent),
		That("silent! silent echo undefined", "Test").Invokes(1).Passes(notSilent),
		That("silent unsilent echo undefined").
			Throws(errs.VariableUndefined{Name: "undefined"}).Passes(notSilent),
	)
}

func TestUnsilentInsideSilent(t *testing.T) {
	var seen []bool
	record := func(c *Ctx, _ *State) {
		seen = nil
		c.Command("Record", eval.CommandFunc[*State](
			func(c *Ctx, _ *State, _ parse.Range, _ bool, _ string) error {
				seen = append(seen, c.Silent())
				return nil
			}))
	}
	sees := func(want ...bool) func(*testing.T, *Ctx, *State) {
		return func(t *testing.T, c *Ctx, s *State) {
			if diff := cmp.Diff(want, seen); diff != "" {
				t.Errorf("silence seen by the command (-want +got):\n%s", diff)
			}
			if c.Silent() || s.Silent {
				t.Errorf("silence not lifted")
			}
		}
	}
	TestWithSetup(t, record,
		That("Record").Passes(sees(false)),
		That("silent Record").Passes(sees(true)),
		That("silent unsilent Record").Passes(sees(false)),
		That("silent silent unsilent Record").Passes(sees(false)),
		That("silent Record", "Record").Passes(sees(true, false)),
	)
}

func TestExecute(t *testing.T) {
	Test(t,
		That("execute 'Test'").Invokes(1),
		That("execute 'let x =' 1 + 1").Eval("x").Returns(2),
		That("let cmd = 'Test'", "execute cmd '|' cmd").Invokes(2),
		That("execute 'if 1'").Throws(errs.ErrUnexpectedEOF),
	)
}

func TestEcho(t *testing.T) {
	Test(t,
		That("echo 1 'a' [1, 'b']").Echoes("1 a [1, 'b']"),
		That("echo {'k': v:null}").Echoes("{'k': v:null}"),
		That("echo").Echoes(""),
		That("echomsg 'x'", "echomsg 'y'", "messages").Echoes("x", "y", "x", "y"),
		That("echomsg 'x'", "messages!", "messages").Echoes("x"),
		That("echo 1 +").Throws(errs.ErrInvalidExpression),
	)
}

func TestCall(t *testing.T) {
	Test(t,
		That("call add(g:l, 1)").
			WithSetup(func(c *Ctx, _ *State) { c.InsertVar("g:l", vals.NewList()) }).
			Eval("g:l").Returns(vals.NewList(1)),
		That("call").Throws(errs.Expected{Token: "function call"}),
	)
}
