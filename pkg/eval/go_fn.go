package eval

import (
	"fmt"
	"reflect"

	"src.rvim.sh/pkg/vim/errs"
	"src.rvim.sh/pkg/vim/vals"
)

// GoFn is a builtin function implemented by a Go function, with arguments
// converted using reflection.
type GoFn[S State] struct {
	name string
	impl any

	// If true, pass the context as a *Ctx[S] argument.
	ctx bool
	// If true, pass the host state as an S argument.
	state bool
	// Types of the ordinary arguments.
	normalArgs []reflect.Type
	// If not nil, type of variadic arguments.
	variadicArg reflect.Type
	// Number of trailing ordinary arguments that may be omitted.
	optional int
}

// error(nil) is treated as nil by reflect.TypeOf, so we first get the type of
// *error and use Elem to obtain type of error.
var errorType = reflect.TypeOf((*error)(nil)).Elem()

// NewGoFn wraps a Go function into a builtin using reflection.
//
// Parameters are passed following these rules:
//
// 1. If the first parameter of function has type *Ctx[S], it gets the
// interpreter context.
//
// 2. After the potential *Ctx[S] argument, if the next parameter has type S,
// it gets the host state.
//
// 3. Other parameters are converted using vals.ScanToGo. If the function is
// variadic, the extra arguments are converted to the element type.
//
// The function may return a value, an error, or a value and an error. The value
// is converted using vals.FromGo; a function that returns no value returns 0,
// like Vim functions without :return do.
func NewGoFn[S State](name string, impl any) *GoFn[S] {
	implType := reflect.TypeOf(impl)
	b := &GoFn[S]{name: name, impl: impl}

	i := 0
	if i < implType.NumIn() && implType.In(i) == reflect.TypeOf((*Ctx[S])(nil)) {
		b.ctx = true
		i++
	}
	if i < implType.NumIn() && implType.In(i) == reflect.TypeOf((*S)(nil)).Elem() {
		b.state = true
		i++
	}
	for ; i < implType.NumIn(); i++ {
		paramType := implType.In(i)
		if i == implType.NumIn()-1 && implType.IsVariadic() {
			b.variadicArg = paramType.Elem()
			break
		}
		b.normalArgs = append(b.normalArgs, paramType)
	}
	return b
}

// Optional marks the last n ordinary parameters as optional. Omitted arguments
// get the zero value of their type, so an omitted any argument is nil.
func (b *GoFn[S]) Optional(n int) *GoFn[S] {
	if n > len(b.normalArgs) {
		panic(fmt.Sprintf("%s has only %d parameters", b.name, len(b.normalArgs)))
	}
	b.optional = n
	return b
}

// Name returns the name the function was created with.
func (b *GoFn[S]) Name() string { return b.name }

// Call calls the implementation using reflection.
func (b *GoFn[S]) Call(c *Ctx[S], state S, args []any) (any, error) {
	required := len(b.normalArgs) - b.optional
	if len(args) < required {
		return nil, errs.WrongArgCount{Expected: required}
	}
	if b.variadicArg == nil && len(args) > len(b.normalArgs) {
		return nil, errs.WrongArgCount{Expected: len(b.normalArgs)}
	}

	var in []reflect.Value
	if b.ctx {
		in = append(in, reflect.ValueOf(c))
	}
	if b.state {
		in = append(in, reflect.ValueOf(&state).Elem())
	}
	for i, arg := range args {
		typ := b.variadicArg
		if i < len(b.normalArgs) {
			typ = b.normalArgs[i]
		}
		ptr := reflect.New(typ)
		if err := vals.ScanToGo(arg, ptr.Interface()); err != nil {
			return nil, fmt.Errorf("argument %d of %s: %w", i+1, b.name, err)
		}
		in = append(in, ptr.Elem())
	}
	for i := len(args); i < len(b.normalArgs); i++ {
		in = append(in, reflect.Zero(b.normalArgs[i]))
	}

	outs := reflect.ValueOf(b.impl).Call(in)

	if len(outs) > 0 && outs[len(outs)-1].Type() == errorType {
		err := outs[len(outs)-1].Interface()
		if err != nil {
			return nil, err.(error)
		}
		outs = outs[:len(outs)-1]
	}
	if len(outs) == 0 {
		return 0, nil
	}
	return vals.FromGo(outs[0].Interface()), nil
}
