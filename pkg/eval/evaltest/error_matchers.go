package evaltest

import (
	"errors"
	"fmt"
	"reflect"

	"src.rvim.sh/pkg/diag"
)

type errorMatcher interface{ matchError(error) bool }

// AnyError is an error that can be passed to Case.Throws to match any error.
var AnyError anyError

type anyError struct{}

func (anyError) Error() string           { return "any error" }
func (anyError) matchError(e error) bool { return e != nil }

// ErrorWithType returns an error that can be passed to Case.Throws to match
// any error whose chain has an error with the same type as the argument.
func ErrorWithType(v error) error { return errWithType{v} }

// An errorMatcher for any error with the given type.
type errWithType struct{ v error }

func (e errWithType) Error() string { return fmt.Sprintf("error with type %T", e.v) }

func (e errWithType) matchError(e2 error) bool {
	for ; e2 != nil; e2 = errors.Unwrap(e2) {
		if reflect.TypeOf(e.v) == reflect.TypeOf(e2) {
			return true
		}
	}
	return false
}

// ErrorWithMessage returns an error that can be passed to Case.Throws to match
// any error whose chain has an error with the given message.
func ErrorWithMessage(msg string) error { return errWithMessage{msg} }

// An errorMatcher for any error with the given message.
type errWithMessage struct{ msg string }

func (e errWithMessage) Error() string { return "error with message " + e.msg }

func (e errWithMessage) matchError(e2 error) bool {
	for ; e2 != nil; e2 = errors.Unwrap(e2) {
		if e.msg == e2.Error() {
			return true
		}
	}
	return false
}

// ErrorAtLine returns an error that can be passed to Case.Throws to match a
// source-located error on the given 1-based line whose chain contains cause.
func ErrorAtLine(line int, cause error) error { return errAtLine{line, cause} }

type errAtLine struct {
	line  int
	cause error
}

func (e errAtLine) Error() string {
	return fmt.Sprintf("error on line %d with cause %v", e.line, e.cause)
}

func (e errAtLine) matchError(e2 error) bool {
	var d *diag.Error
	if !errors.As(e2, &d) {
		return false
	}
	line, _ := d.Context.LineCol()
	return line == e.line && matchErr(e.cause, d.Cause)
}

type errOneOf struct{ errs []error }

// OneOfErrors returns an error that can be passed to Case.Throws to match any
// of the given errors.
func OneOfErrors(errs ...error) error { return errOneOf{errs} }

func (e errOneOf) Error() string { return fmt.Sprint("one of", e.errs) }

func (e errOneOf) matchError(gotError error) bool {
	for _, want := range e.errs {
		if matchErr(want, gotError) {
			return true
		}
	}
	return false
}

func matchErr(want, got error) bool {
	if want == nil {
		return got == nil
	}
	if matcher, ok := want.(errorMatcher); ok {
		return matcher.matchError(got)
	}
	return errors.Is(got, want)
}
