package options

import (
	"strconv"
	"strings"
	"unicode"

	"src.rvim.sh/pkg/eval"
	"src.rvim.sh/pkg/vim/errs"
	"src.rvim.sh/pkg/vim/parse"
)

// Register adds the :set command, operating on opts, to the interpreter.
func Register[S eval.State](c *eval.Ctx[S], opts *Options) {
	c.Command("set", eval.CommandFunc[S](
		func(c *eval.Ctx[S], state S, _ parse.Range, _ bool, args string) error {
			return opts.set(args, func(msg string) { c.Echo(state, msg) })
		}))
}

// set implements :set. Each whitespace-separated argument is one of:
//
//	all         show every option
//	name        switch a boolean option on, or show any other option
//	noname      switch a boolean option off
//	invname     toggle a boolean option; name! does the same
//	name?       show an option
//	name&       reset an option to its default
//	name=value  set an option; name:value does the same
//	name+=n     add to a number option or append to a string option
//	name-=n     subtract from a number option
//
// Without arguments, the options that differ from their defaults are shown.
// Processing stops at the first failing argument.
func (o *Options) set(args string, echo func(string)) error {
	parts := splitArgs(args)
	if len(parts) == 0 {
		for _, line := range o.NonDefault() {
			echo(line)
		}
		return nil
	}
	for _, part := range parts {
		if err := o.setPart(part, echo); err != nil {
			return err
		}
	}
	return nil
}

func (o *Options) setPart(arg string, echo func(string)) error {
	if arg == "all" {
		for _, line := range o.All() {
			echo(line)
		}
		return nil
	}
	if i := strings.IndexAny(arg, "=:"); i > 0 {
		name, value := arg[:i], arg[i+1:]
		if arg[i] == '=' && (arg[i-1] == '+' || arg[i-1] == '-' || arg[i-1] == '^') {
			return o.adjust(arg[:i-1], arg[i-1], value)
		}
		return o.Set(name, value)
	}
	switch last := arg[len(arg)-1]; last {
	case '?':
		return o.show(arg[:len(arg)-1], echo)
	case '&':
		return o.Reset(arg[:len(arg)-1])
	case '!':
		return o.toggle(arg[:len(arg)-1])
	}
	if opt, ok := Lookup(arg); ok {
		if opt.Kind == Bool {
			return o.SetBool(arg, true)
		}
		return o.show(arg, echo)
	}
	if name, ok := strings.CutPrefix(arg, "no"); ok {
		if _, ok := Lookup(name); ok {
			return o.SetBool(name, false)
		}
	}
	if name, ok := strings.CutPrefix(arg, "inv"); ok {
		if _, ok := Lookup(name); ok {
			return o.toggle(name)
		}
	}
	return errs.VariableUndefined{Name: "&" + arg}
}

func (o *Options) show(name string, echo func(string)) error {
	s, err := o.Format(name)
	if err != nil {
		return err
	}
	echo(s)
	return nil
}

func (o *Options) toggle(name string) error {
	v, err := o.Get(name)
	if err != nil {
		return err
	}
	b, ok := v.(bool)
	if !ok {
		return errs.ErrNotABool
	}
	return o.SetBool(name, !b)
}

// adjust implements +=, -= and ^=. For strings, += appends and ^= prepends;
// for numbers, += adds, -= subtracts and ^= multiplies.
func (o *Options) adjust(name string, op byte, value string) error {
	opt, err := lookup(name)
	if err != nil {
		return err
	}
	switch opt.Kind {
	case Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return errs.ExpectedType{Kind: "number", Got: "string"}
		}
		old := o.values[opt.Name].(int)
		switch op {
		case '+':
			o.values[opt.Name] = old + n
		case '-':
			o.values[opt.Name] = old - n
		default:
			o.values[opt.Name] = old * n
		}
		return nil
	case String:
		old := o.values[opt.Name].(string)
		switch op {
		case '+':
			o.values[opt.Name] = old + value
		case '-':
			o.values[opt.Name] = strings.Replace(old, value, "", 1)
		default:
			o.values[opt.Name] = value + old
		}
		return nil
	}
	return errs.ExpectedType{Kind: "number or string option", Got: opt.Kind.String()}
}

// splitArgs splits on whitespace not preceded by a backslash, and removes the
// backslash from escaped characters.
func splitArgs(s string) []string {
	var (
		parts []string
		sb    strings.Builder
		inArg bool
	)
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == '\\' && i+1 < len(rs):
			i++
			sb.WriteRune(rs[i])
			inArg = true
		case unicode.IsSpace(r):
			if inArg {
				parts = append(parts, sb.String())
				sb.Reset()
				inArg = false
			}
		default:
			sb.WriteRune(r)
			inArg = true
		}
	}
	if inArg {
		parts = append(parts, sb.String())
	}
	return parts
}
