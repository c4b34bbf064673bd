package eval

import (
	"src.rvim.sh/pkg/vim/parse"
)

// Command is an Ex command registered with a Ctx.
type Command[S State] interface {
	// Execute runs the command with the range, bang and argument text of the
	// line that invoked it.
	Execute(c *Ctx[S], state S, r parse.Range, bang bool, args string) error
}

// CommandFunc adapts an ordinary function to a Command.
type CommandFunc[S State] func(c *Ctx[S], state S, r parse.Range, bang bool, args string) error

// Execute calls f.
func (f CommandFunc[S]) Execute(c *Ctx[S], state S, r parse.Range, bang bool, args string) error {
	return f(c, state, r, bang, args)
}

// Builtin is a function implemented by the host or the interpreter.
type Builtin[S State] interface {
	// Call calls the function. Implementations check the number of arguments
	// themselves.
	Call(c *Ctx[S], state S, args []any) (any, error)
}

// BuiltinFunc adapts an ordinary function to a Builtin.
type BuiltinFunc[S State] func(c *Ctx[S], state S, args []any) (any, error)

// Call calls f.
func (f BuiltinFunc[S]) Call(c *Ctx[S], state S, args []any) (any, error) {
	return f(c, state, args)
}
