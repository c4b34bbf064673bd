package errs

import (
	"errors"
	"fmt"
	"testing"
)

var errorMessageTests = []struct {
	err     error
	wantMsg string
}{
	{UnexpectedKeyword{"endif"}, "unexpected keyword: endif"},
	{Expected{")"}, `expected ")"`},
	{NamespaceNotDefined{"buffer"}, "namespace not defined: buffer"},
	{ExpectedType{Kind: "number"}, "expected number"},
	{ExpectedType{Kind: "number", Got: "list"}, "expected number, got list"},
	{VariableUndefined{"g:x"}, "undefined variable: g:x"},
	{FunctionUndefined{Name: "Foo"}, "unknown function: Foo"},
	{CommandUndefined{Name: "ech", Suggestion: "echo"},
		"not an editor command: ech (did you mean echo?)"},
	{WrongArgCount{1}, "wrong number of arguments: expected 1 argument"},
	{WrongArgCount{3}, "wrong number of arguments: expected 3 arguments"},
	{IO{"a.vim", errors.New("denied")}, "cannot read a.vim: denied"},
	{AssertionFailed{"1 != 2"}, "assertion failed: 1 != 2"},
	{InvalidArgument{"range", "stride is zero"}, "range: stride is zero"},
}

func TestErrorMessages(t *testing.T) {
	for _, test := range errorMessageTests {
		if gotMsg := test.err.Error(); gotMsg != test.wantMsg {
			t.Errorf("got message %v, want %v", gotMsg, test.wantMsg)
		}
	}
}

func TestMatching(t *testing.T) {
	wrapped := fmt.Errorf("line 3: %w", ExpectedType{Kind: "number", Got: "string"})
	if !errors.Is(wrapped, ExpectedType{Kind: "number"}) {
		t.Errorf("ExpectedType should match on kind alone")
	}
	if errors.Is(wrapped, ExpectedType{Kind: "string"}) {
		t.Errorf("ExpectedType should not match a different kind")
	}
	if !errors.Is(CommandUndefined{Name: "x", Suggestion: "y"}, CommandUndefined{Name: "x"}) {
		t.Errorf("CommandUndefined should ignore the suggestion when matching")
	}
	if !errors.Is(IO{"f", ErrExit}, ErrExit) {
		t.Errorf("IO should unwrap to its cause")
	}
}
