// Package errs contains the error values produced by the Vim script runtime.
//
// Faults without parameters are sentinel values that can be compared with
// errors.Is; faults that carry data are struct types that can be extracted
// with errors.As.
package errs

import (
	"errors"
	"fmt"
)

// Structural faults.
var (
	// ErrUnexpectedEOF is returned when a block (if, while, for, function)
	// is not closed before the end of the script.
	ErrUnexpectedEOF = errors.New("unexpected end of script")
)

// Value faults.
var (
	ErrUnterminatedString = errors.New("unterminated string")
	ErrUnexpectedSymbol   = errors.New("unexpected symbol")
	ErrInvalidExpression  = errors.New("invalid expression")
	ErrNotABool           = errors.New("not a boolean")
	ErrDivideByZero       = errors.New("division by zero")
	// ErrSelfReference is returned when inserting a container into itself.
	ErrSelfReference = errors.New("cannot insert a container into itself")
)

// ErrUnknownNamespace is returned for a name with an unrecognized sigil.
var ErrUnknownNamespace = errors.New("unknown namespace")

// ErrTimeout is returned when a script runs past its deadline.
var ErrTimeout = errors.New("script timed out")

// ErrExit is the sentinel raised by :finish and :exit. It is not a user error;
// Run converts it into success.
var ErrExit = errors.New("exit")

// UnexpectedKeyword is returned when a block keyword appears outside of the
// block it belongs to, like an endif without an if.
type UnexpectedKeyword struct {
	Keyword string
}

func (e UnexpectedKeyword) Error() string {
	return "unexpected keyword: " + e.Keyword
}

// Expected is returned when a specific token is required but missing.
type Expected struct {
	Token string
}

func (e Expected) Error() string {
	return fmt.Sprintf("expected %q", e.Token)
}

// NamespaceNotDefined is returned when accessing a buffer, window or script
// variable before the host has selected the corresponding object.
type NamespaceNotDefined struct {
	Scope string
}

func (e NamespaceNotDefined) Error() string {
	return "namespace not defined: " + e.Scope
}

// ExpectedType is returned when a value cannot be coerced to the required
// kind.
type ExpectedType struct {
	Kind string
	Got  string
}

func (e ExpectedType) Error() string {
	if e.Got == "" {
		return "expected " + e.Kind
	}
	return fmt.Sprintf("expected %s, got %s", e.Kind, e.Got)
}

// Is matches on Kind only, so that callers can test for ExpectedType{Kind: k}.
func (e ExpectedType) Is(target error) bool {
	t, ok := target.(ExpectedType)
	return ok && t.Kind == e.Kind && (t.Got == "" || t.Got == e.Got)
}

// VariableUndefined is returned when looking up a variable that does not exist.
type VariableUndefined struct {
	Name string
}

func (e VariableUndefined) Error() string {
	return "undefined variable: " + e.Name
}

// FunctionUndefined is returned when calling a function that does not exist.
// Suggestion, when not empty, is the closest known function name.
type FunctionUndefined struct {
	Name       string
	Suggestion string
}

func (e FunctionUndefined) Error() string {
	return withSuggestion("unknown function: "+e.Name, e.Suggestion)
}

func (e FunctionUndefined) Is(target error) bool {
	t, ok := target.(FunctionUndefined)
	return ok && t.Name == e.Name
}

// CommandUndefined is returned when running a command that is neither a
// keyword nor registered.
type CommandUndefined struct {
	Name       string
	Suggestion string
}

func (e CommandUndefined) Error() string {
	return withSuggestion("not an editor command: "+e.Name, e.Suggestion)
}

func (e CommandUndefined) Is(target error) bool {
	t, ok := target.(CommandUndefined)
	return ok && t.Name == e.Name
}

func withSuggestion(msg, suggestion string) string {
	if suggestion == "" {
		return msg
	}
	return msg + " (did you mean " + suggestion + "?)"
}

// WrongArgCount is returned when a function is called with the wrong number of
// arguments. Expected is the number of declared parameters.
type WrongArgCount struct {
	Expected int
}

func (e WrongArgCount) Error() string {
	if e.Expected == 1 {
		return "wrong number of arguments: expected 1 argument"
	}
	return fmt.Sprintf("wrong number of arguments: expected %d arguments", e.Expected)
}

// IO wraps a failure to read a script from the file system.
type IO struct {
	Path string
	Err  error
}

func (e IO) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e IO) Unwrap() error { return e.Err }

// AssertionFailed is returned by the assert_* builtins.
type AssertionFailed struct {
	Message string
}

func (e AssertionFailed) Error() string {
	return "assertion failed: " + e.Message
}

// ErrMaxDepth is returned when user functions nest deeper than the runtime
// allows, which usually means unbounded recursion.
var ErrMaxDepth = errors.New("function call nesting too deep")

// InvalidArgument is returned by builtins for arguments of the right kind but
// an unusable value, like a zero stride or a malformed pattern.
type InvalidArgument struct {
	Func    string
	Message string
}

func (e InvalidArgument) Error() string {
	return e.Func + ": " + e.Message
}
