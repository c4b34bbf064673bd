package eval

import (
	"fmt"
	"strings"

	"src.rvim.sh/pkg/vim/errs"
	"src.rvim.sh/pkg/vim/ns"
	"src.rvim.sh/pkg/vim/vals"
)

// Introspection, evaluation and assertions.

func addMiscBuiltins[S State](c *Ctx[S]) {
	addGoFns(c,
		NewGoFn[S]("type", vals.Type),
		NewGoFn[S]("function", function[S]),
		NewGoFn[S]("funcref", function[S]),
		NewGoFn[S]("exists", exists[S]),
		NewGoFn[S]("garbagecollect", func() {}),
		NewGoFn[S]("eval", evalFn[S]),
		NewGoFn[S]("execute", executeFn[S]),
		NewGoFn[S]("call", callFn[S]),
		NewGoFn[S]("assert_equal", assertEqual).Optional(1),
		NewGoFn[S]("assert_notequal", assertNotEqual).Optional(1),
		NewGoFn[S]("assert_true", assertTrue).Optional(1),
		NewGoFn[S]("assert_false", assertFalse).Optional(1),
	)
}

// function returns a reference to a function, which must exist.
func function[S State](c *Ctx[S], name any) (vals.Funcref, error) {
	switch name := name.(type) {
	case vals.Funcref:
		return name, nil
	case string:
		f := vals.NewFuncref(name, c.ScriptID())
		if !c.funcExists(f) {
			if _, ok, _ := c.vars.Get(name); !ok {
				return vals.Funcref{}, errs.FunctionUndefined{
					Name: name, Suggestion: suggest(name, c.functionNames())}
			}
		}
		return f, nil
	}
	return vals.Funcref{}, errs.ExpectedType{Kind: "string or funcref", Got: vals.Kind(name)}
}

// exists reports whether a variable, a function (*name), a command (:name)
// or an option (&name) exists.
func exists[S State](c *Ctx[S], state S, name string) bool {
	switch {
	case strings.HasPrefix(name, "*"):
		return c.funcExists(vals.NewFuncref(name[1:], c.ScriptID()))
	case strings.HasPrefix(name, ":"):
		return c.HasCommand(name[1:])
	case strings.HasPrefix(name, "&"):
		_, err := state.GetOption(name[1:])
		return err == nil
	}
	_, ok, err := c.vars.Get(name)
	return err == nil && ok
}

func evalFn[S State](c *Ctx[S], state S, expr string) (any, error) {
	return c.eval(expr, state)
}

// executeFn runs commands, given as a string or a list of strings, and
// returns what they echo. Each message is preceded by a newline.
func executeFn[S State](c *Ctx[S], state S, cmds any) (string, error) {
	var texts []string
	switch cmds := cmds.(type) {
	case string:
		texts = []string{cmds}
	case *vals.List:
		for _, e := range cmds.Elems() {
			texts = append(texts, vals.ToString(e))
		}
	default:
		return "", errs.ExpectedType{Kind: "string or list", Got: vals.Kind(cmds)}
	}
	var out []string
	saved := c.capture
	c.capture = &out
	defer func() { c.capture = saved }()
	for _, text := range texts {
		if err := c.execute(text, state); err != nil {
			return "", err
		}
	}
	if len(out) == 0 {
		return "", nil
	}
	return "\n" + strings.Join(out, "\n"), nil
}

func callFn[S State](c *Ctx[S], state S, f vals.Funcref, args *vals.List) (any, error) {
	if f.Script == ns.NoID {
		f = vals.NewFuncref(f.Name, c.ScriptID())
	}
	return c.callFuncref(f, args.Elems(), state)
}

func assertionMessage(msg any, format string, args ...any) string {
	if msg != nil {
		return vals.ToString(msg)
	}
	return fmt.Sprintf(format, args...)
}

func assertEqual(expected, actual, msg any) error {
	if vals.Equal(expected, actual) {
		return nil
	}
	return errs.AssertionFailed{Message: assertionMessage(msg,
		"expected %s but got %s", vals.Repr(expected), vals.Repr(actual))}
}

func assertNotEqual(expected, actual, msg any) error {
	if !vals.Equal(expected, actual) {
		return nil
	}
	return errs.AssertionFailed{Message: assertionMessage(msg,
		"expected not equal to %s", vals.Repr(expected))}
}

func assertBool(v, msg any, want bool) error {
	b, err := vals.Bool(v, nil)
	if err == nil && b == want {
		return nil
	}
	return errs.AssertionFailed{Message: assertionMessage(msg,
		"expected %v but got %s", want, vals.Repr(v))}
}

func assertTrue(v, msg any) error { return assertBool(v, msg, true) }

func assertFalse(v, msg any) error { return assertBool(v, msg, false) }
