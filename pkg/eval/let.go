package eval

import (
	"fmt"
	"strings"

	"src.rvim.sh/pkg/vim/errs"
	"src.rvim.sh/pkg/vim/ns"
	"src.rvim.sh/pkg/vim/parse"
	"src.rvim.sh/pkg/vim/vals"
)

// A pattern is the target of a for loop or of a :let with a list on the left:
// a name, a list of patterns with an optional ";rest" name, or a dict of
// names.
type pattern struct {
	name string
	list []pattern
	rest string
	dict []string
	// Whether this is a list or dict pattern.
	isList, isDict bool
}

func parsePattern(s string) (pattern, error) {
	p, rest, err := parsePatternPrefix(s)
	if err != nil {
		return pattern{}, err
	}
	if strings.TrimSpace(rest) != "" {
		return pattern{}, errs.ErrUnexpectedSymbol
	}
	return p, nil
}

func parsePatternPrefix(s string) (pattern, string, error) {
	s = strings.TrimLeft(s, " \t")
	switch {
	case strings.HasPrefix(s, "["):
		p := pattern{isList: true}
		s = s[1:]
		for {
			elem, rest, err := parsePatternPrefix(s)
			if err != nil {
				return pattern{}, "", err
			}
			p.list = append(p.list, elem)
			s = strings.TrimLeft(rest, " \t")
			switch {
			case strings.HasPrefix(s, ","):
				s = s[1:]
				continue
			case strings.HasPrefix(s, ";"):
				name, rest := splitName(strings.TrimLeft(s[1:], " \t"))
				if name == "" {
					return pattern{}, "", errs.ErrUnexpectedSymbol
				}
				p.rest = name
				s = strings.TrimLeft(rest, " \t")
			}
			if !strings.HasPrefix(s, "]") {
				return pattern{}, "", errs.Expected{Token: "]"}
			}
			return p, s[1:], nil
		}
	case strings.HasPrefix(s, "{"):
		p := pattern{isDict: true}
		s = s[1:]
		for {
			name, rest := splitName(strings.TrimLeft(s, " \t"))
			if name == "" {
				return pattern{}, "", errs.ErrUnexpectedSymbol
			}
			p.dict = append(p.dict, name)
			s = strings.TrimLeft(rest, " \t")
			if strings.HasPrefix(s, ",") {
				s = s[1:]
				continue
			}
			if !strings.HasPrefix(s, "}") {
				return pattern{}, "", errs.Expected{Token: "}"}
			}
			return p, s[1:], nil
		}
	}
	name, rest := splitName(s)
	if name == "" {
		return pattern{}, "", errs.ErrUnexpectedSymbol
	}
	return pattern{name: name}, rest, nil
}

// splitName splits a variable name off the start of s.
func splitName(s string) (string, string) {
	if s == "" || !isNameStart(s[0]) {
		return "", s
	}
	i := 1
	for i < len(s) && isNameChar(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

// bind destructures v according to p, storing each part with set.
func (c *Ctx[S]) bind(p pattern, v any, set func(string, any) error) error {
	switch {
	case p.isList:
		l, err := vals.ToList(v)
		if err != nil {
			return err
		}
		elems := l.Elems()
		n := len(p.list)
		if len(elems) < n || p.rest == "" && len(elems) > n {
			return errs.ExpectedType{
				Kind: fmt.Sprintf("list of %d items", n),
				Got:  fmt.Sprintf("list of %d items", len(elems))}
		}
		for i, sub := range p.list {
			if err := c.bind(sub, elems[i], set); err != nil {
				return err
			}
		}
		if p.rest != "" {
			return set(p.rest, vals.NewList(elems[n:]...))
		}
		return nil
	case p.isDict:
		o, err := vals.ToObject(v)
		if err != nil {
			return err
		}
		for _, name := range p.dict {
			_, key, err := ns.Resolve(name)
			if err != nil {
				return err
			}
			e, _ := o.Get(key)
			if err := set(name, e); err != nil {
				return err
			}
		}
		return nil
	}
	return set(p.name, v)
}

func (c *Ctx[S]) assign(name string, v any) error {
	_, _, err := c.vars.Insert(name, v)
	return err
}

// let handles a :let line.
func (c *Ctx[S]) let(args string, state S) error {
	if strings.TrimSpace(args) == "" {
		for _, name := range c.vars.Names() {
			v, _, _ := c.vars.Get(name)
			c.echo(state, name+"\t"+vals.Repr(v))
		}
		return nil
	}
	lhs, op, rhs, ok := splitAssignment(args)
	if !ok {
		return errs.Expected{Token: "="}
	}
	v, err := c.eval(rhs, state)
	if err != nil {
		return err
	}
	lhs = strings.TrimSpace(lhs)
	switch {
	case strings.HasPrefix(lhs, "["):
		if op != "" {
			return errs.Expected{Token: "="}
		}
		p, err := parsePattern(lhs)
		if err != nil {
			return err
		}
		return c.bind(p, v, c.assign)
	case strings.HasPrefix(lhs, "&"):
		return c.letOption(lhs[1:], op, v, state)
	}
	target, err := c.parseTarget(lhs, state)
	if err != nil {
		return err
	}
	if op != "" {
		old, err := c.getTarget(target)
		if err != nil {
			return err
		}
		if v, err = compound(op, old, v); err != nil {
			return err
		}
	}
	return c.setTarget(target, v)
}

// splitAssignment splits "lhs op= rhs" at the first "=" that is not part of a
// comparison operator and is outside of brackets and strings.
func splitAssignment(s string) (lhs, op, rhs string, ok bool) {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '[' || c == '{' || c == '(':
			depth++
		case c == ']' || c == '}' || c == ')':
			depth--
		case c == '=' && depth == 0:
			if i+1 < len(s) && (s[i+1] == '=' || s[i+1] == '~') {
				return "", "", "", false
			}
			lhs = s[:i]
			switch {
			case strings.HasSuffix(lhs, ".."):
				op = ".."
			case lhs != "" && strings.IndexByte("+-*/%.", lhs[len(lhs)-1]) >= 0:
				op = lhs[len(lhs)-1:]
			case lhs != "" && strings.IndexByte("!<>", lhs[len(lhs)-1]) >= 0:
				return "", "", "", false
			}
			return lhs[:len(lhs)-len(op)], op, s[i+1:], true
		}
	}
	return "", "", "", false
}

func compound(op string, old, v any) (any, error) {
	switch op {
	case "+":
		if l, ok := old.(*vals.List); ok {
			if other, ok := v.(*vals.List); ok {
				return l, l.Extend(other, l.Len())
			}
		}
		return vals.Add(old, v)
	case "-":
		return vals.Sub(old, v)
	case "*":
		return vals.Mul(old, v)
	case "/":
		return vals.Div(old, v)
	case "%":
		return vals.Mod(old, v)
	case ".", "..":
		return vals.Concat(old, v), nil
	}
	return nil, errs.ErrUnexpectedSymbol
}

// letOption handles :let &name = value by running :set.
func (c *Ctx[S]) letOption(name, op string, v any, state S) error {
	if op != "" {
		old, err := state.GetOption(name)
		if err != nil {
			return err
		}
		if v, err = compound(op, old, v); err != nil {
			return err
		}
	}
	set, ok := c.commands["set"]
	if !ok {
		return errs.CommandUndefined{Name: "set"}
	}
	if b, ok := v.(bool); ok {
		if b {
			v = 1
		} else {
			v = 0
		}
	}
	_, key, _ := strings.Cut(name, ":")
	if key == "" {
		key = name
	}
	return set.Execute(c, state, parse.Range{}, false, key+"="+setEscaper.Replace(vals.ToString(v)))
}

// :set separates its arguments with unescaped whitespace.
var setEscaper = strings.NewReplacer(`\`, `\\`, " ", `\ `, "\t", "\\\t")

// A target is a variable, possibly indexed: name[i][j].
type target struct {
	name    string
	indices []any
}

func (c *Ctx[S]) parseTarget(s string, state S) (target, error) {
	name, rest := splitName(s)
	if name == "" {
		return target{}, errs.ErrUnexpectedSymbol
	}
	t := target{name: name}
	for rest = strings.TrimSpace(rest); rest != ""; rest = strings.TrimSpace(rest) {
		if rest[0] != '[' {
			return target{}, errs.ErrUnexpectedSymbol
		}
		end := matchingBracket(rest)
		if end == -1 {
			return target{}, errs.Expected{Token: "]"}
		}
		idx, err := c.eval(rest[1:end], state)
		if err != nil {
			return target{}, err
		}
		t.indices = append(t.indices, idx)
		rest = rest[end+1:]
	}
	return t, nil
}

// matchingBracket returns the index of the "]" matching the "[" at the start
// of s, or -1.
func matchingBracket(s string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '[':
			depth++
		case c == ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func (c *Ctx[S]) lookup(name string) (any, error) {
	v, ok, err := c.vars.Get(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.VariableUndefined{Name: name}
	}
	return v, nil
}

func (c *Ctx[S]) getTarget(t target) (any, error) {
	v, err := c.lookup(t.name)
	if err != nil {
		return nil, err
	}
	for _, idx := range t.indices {
		v = vals.Index(v, idx)
	}
	return v, nil
}

// container returns the list or dict that the last index of t applies to.
func (c *Ctx[S]) container(t target) (any, error) {
	v, err := c.lookup(t.name)
	if err != nil {
		return nil, err
	}
	for _, idx := range t.indices[:len(t.indices)-1] {
		v = vals.Index(v, idx)
	}
	return v, nil
}

func (c *Ctx[S]) setTarget(t target, v any) error {
	if len(t.indices) == 0 {
		return c.assign(t.name, v)
	}
	container, err := c.container(t)
	if err != nil {
		return err
	}
	idx := t.indices[len(t.indices)-1]
	switch container := container.(type) {
	case *vals.List:
		i, err := vals.ToInt(idx)
		if err != nil {
			return err
		}
		return container.Set(i, v)
	case *vals.Object:
		return container.Set(vals.ToString(idx), v)
	}
	return errs.ExpectedType{Kind: "list or dict", Got: vals.Kind(container)}
}

// unset removes a variable, or an element of a list or dict.
func (c *Ctx[S]) unset(t target) (bool, error) {
	if len(t.indices) == 0 {
		_, ok, err := c.vars.Remove(t.name)
		return ok, err
	}
	container, err := c.container(t)
	if err != nil {
		return false, err
	}
	idx := t.indices[len(t.indices)-1]
	switch container := container.(type) {
	case *vals.List:
		i, err := vals.ToInt(idx)
		if err != nil {
			return false, err
		}
		_, err = container.Remove(i)
		return err == nil, err
	case *vals.Object:
		_, ok := container.Delete(vals.ToString(idx))
		return ok, nil
	}
	return false, errs.ExpectedType{Kind: "list or dict", Got: vals.Kind(container)}
}
