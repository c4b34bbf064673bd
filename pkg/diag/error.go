package diag

import (
	"fmt"
	"strings"
)

// Error represents an error with context that can be showed. Cause, when not
// nil, is the underlying error and is reachable with errors.Is and errors.As.
type Error struct {
	Type    string
	Message string
	Context Context
	Cause   error
}

// Variables controlling the style of the message.
var (
	messageStart = "\033[31;1m"
	messageEnd   = "\033[m"
)

// Wrap returns an Error of the given type, using the message of cause.
func Wrap(typ string, cause error, ctx *Context) *Error {
	return &Error{Type: typ, Message: cause.Error(), Context: *ctx, Cause: cause}
}

// Error returns a plain text representation of the error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Type, e.Context.Position(), e.Message)
}

// Unwrap returns the cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// Range returns the range of the error.
func (e *Error) Range() Ranging {
	return e.Context.Range()
}

// Show shows the error.
func (e *Error) Show(indent string) string {
	header := fmt.Sprintf("%s: %s%s%s\n", title(e.Type), messageStart, e.Message, messageEnd)
	return header + indent + "  " + e.Context.Position() + ": " +
		e.Context.relevantSource(indent+"  ")
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
