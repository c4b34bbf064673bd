package eval

import (
	"strings"

	"src.rvim.sh/pkg/vim/errs"
	"src.rvim.sh/pkg/vim/vals"
)

// Expressions are evaluated by reducing their tokens. Each cycle applies the
// passes below in order; a pass rewrites every site it can reduce. The order
// of the passes, together with the neighbour checks of the operator passes,
// gives the operators their precedence.
//
// Evaluation stops when a single value is left. A cycle that makes no
// progress means the expression is malformed.

// Binding strength of operators. Unary operators bind tighter than every
// binary one.
const (
	precOr = iota
	precAnd
	precCompare
	precConcat
	precAdd
	precMul
	precUnary
)

type binaryOp func(a, b any) (any, error)

func binaryPrec(op string) (int, bool) {
	switch strings.TrimRight(op, "#?") {
	case "*", "/", "%":
		return precMul, true
	case "+", "-":
		return precAdd, true
	case ".", "..":
		return precConcat, true
	case "==", "!=", "<", "<=", ">", ">=", "=~", "!~":
		return precCompare, true
	case "&&":
		return precAnd, true
	case "||":
		return precOr, true
	}
	return 0, false
}

type reducer[S State] struct {
	c     *Ctx[S]
	state S
	ts    []token
}

// eval evaluates an expression to a single value.
func (c *Ctx[S]) eval(expr string, state S) (any, error) {
	vs, err := c.evalAll(expr, state, false)
	if err != nil {
		return nil, err
	}
	return vs[0], nil
}

// evalMany evaluates a sequence of expressions separated by whitespace, as
// taken by :echo and :execute.
func (c *Ctx[S]) evalMany(expr string, state S) ([]any, error) {
	return c.evalAll(expr, state, true)
}

func (c *Ctx[S]) evalAll(expr string, state S, many bool) ([]any, error) {
	tokens, err := lex(expr)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		if many {
			return nil, nil
		}
		return nil, errs.ErrInvalidExpression
	}
	r := &reducer[S]{c: c, state: state, ts: tokens}
	if err := r.resolve(); err != nil {
		return nil, err
	}
	return r.reduce(many)
}

// evalBool evaluates an expression and converts it to a boolean.
func (c *Ctx[S]) evalBool(expr string, state S) (bool, error) {
	v, err := c.eval(expr, state)
	if err != nil {
		return false, err
	}
	return vals.Bool(v, c.funcExists)
}

// resolve replaces names with the values of the variables they name, and
// option reads with the values of the options.
func (r *reducer[S]) resolve() error {
	for i, t := range r.ts {
		switch t.kind {
		case nameTok:
			v, ok, err := r.c.vars.Get(t.text)
			if err != nil {
				return err
			}
			if !ok {
				return errs.VariableUndefined{Name: t.text}
			}
			r.ts[i] = valueToken(v)
		case optionTok:
			v, err := r.state.GetOption(t.text)
			if err != nil {
				return err
			}
			r.ts[i] = valueToken(v)
		}
	}
	return nil
}

func (r *reducer[S]) reduce(many bool) ([]any, error) {
	passes := []func() (bool, error){
		r.funcrefCalls,
		r.directCalls,
		r.listLiterals,
		r.indexing,
		r.objectLiterals,
		r.parens,
		r.unary,
		r.binary(precMul, arithOps),
		r.binary(precAdd, arithOps),
		r.binary(precConcat, concatOps),
		r.binary(precCompare, nil),
		r.binary(precAnd, logicOps(r.c)),
		r.binary(precOr, logicOps(r.c)),
	}
	for len(r.ts) > 1 || !r.ts[0].isValue() {
		progress := false
		for _, pass := range passes {
			changed, err := pass()
			if err != nil {
				return nil, err
			}
			progress = progress || changed
		}
		if !progress {
			if many && r.allValues() {
				break
			}
			return nil, errs.ErrInvalidExpression
		}
	}
	vs := make([]any, len(r.ts))
	for i, t := range r.ts {
		vs[i] = t.val
	}
	return vs, nil
}

func (r *reducer[S]) allValues() bool {
	for _, t := range r.ts {
		if !t.isValue() {
			return false
		}
	}
	return true
}

// replace substitutes the tokens in [from, to) with a value.
func (r *reducer[S]) replace(from, to int, v any) {
	r.ts = append(append(r.ts[:from:from], valueToken(v)), r.ts[to:]...)
}

// at returns the token at i, or a zero token if i is out of range.
func (r *reducer[S]) at(i int) token {
	if i < 0 || i >= len(r.ts) {
		return token{kind: -1}
	}
	return r.ts[i]
}

// startsOperand reports whether the token at i can only be followed by the
// start of an operand: it is the beginning of the expression or an operator
// other than a closing bracket.
func (r *reducer[S]) startsOperand(i int) bool {
	if i < 0 {
		return true
	}
	t := r.ts[i]
	return t.kind == opTok && !t.isOp(")", "]", "}")
}

// values collects values separated by sep, starting at i and ending with
// closing. It returns the values and the index of the closing token. The
// second return value is false if the sequence has anything else in it,
// which means some of the values are not reduced yet.
func (r *reducer[S]) values(i int, sep, closing string) ([]any, int, bool) {
	var vs []any
	for {
		if r.at(i).isOp(closing) {
			return vs, i, true
		}
		if !r.at(i).isValue() {
			return nil, 0, false
		}
		vs = append(vs, r.ts[i].val)
		i++
		switch {
		case r.at(i).isOp(sep):
			i++
		case r.at(i).isOp(closing):
			return vs, i, true
		default:
			return nil, 0, false
		}
	}
}

func (r *reducer[S]) funcrefCalls() (bool, error) {
	changed := false
	for i := 0; i < len(r.ts); i++ {
		f, ok := r.ts[i].val.(vals.Funcref)
		if !r.ts[i].isValue() || !ok || !r.at(i+1).isOp("(") {
			continue
		}
		args, end, ok := r.values(i+2, ",", ")")
		if !ok {
			continue
		}
		v, err := r.c.callFuncref(f, args, r.state)
		if err != nil {
			return false, err
		}
		r.replace(i, end+1, v)
		changed = true
	}
	return changed, nil
}

func (r *reducer[S]) directCalls() (bool, error) {
	changed := false
	for i := 0; i < len(r.ts); i++ {
		if r.ts[i].kind != callTok {
			continue
		}
		args, end, ok := r.values(i+2, ",", ")")
		if !ok {
			continue
		}
		v, err := r.c.call(r.ts[i].text, args, r.state)
		if err != nil {
			return false, err
		}
		r.replace(i, end+1, v)
		changed = true
	}
	return changed, nil
}

func (r *reducer[S]) listLiterals() (bool, error) {
	changed := false
	for i := 0; i < len(r.ts); i++ {
		if !r.ts[i].isOp("[") || !r.startsOperand(i-1) {
			continue
		}
		vs, end, ok := r.values(i+1, ",", "]")
		if !ok {
			continue
		}
		r.replace(i, end+1, vals.NewList(vs...))
		changed = true
	}
	return changed, nil
}

func (r *reducer[S]) indexing() (bool, error) {
	changed := false
	for i := 0; i < len(r.ts); i++ {
		if !r.ts[i].isValue() || !r.at(i+1).isOp("[") {
			continue
		}
		v := r.ts[i].val
		switch {
		case r.at(i+2).isValue() && r.at(i+3).isOp("]"):
			r.replace(i, i+4, vals.Index(v, r.ts[i+2].val))
		case r.at(i+2).isOp(":") || r.at(i+2).isValue() && r.at(i+3).isOp(":"):
			j := i + 2
			var from, to any
			if r.ts[j].isValue() {
				from = r.ts[j].val
				j++
			}
			j++
			if r.at(j).isValue() {
				to = r.ts[j].val
				j++
			}
			if !r.at(j).isOp("]") {
				continue
			}
			r.replace(i, j+1, vals.Slice(v, from, to))
		default:
			continue
		}
		changed = true
	}
	return changed, nil
}

func (r *reducer[S]) objectLiterals() (bool, error) {
	changed := false
	for i := 0; i < len(r.ts); i++ {
		if !r.ts[i].isOp("{") {
			continue
		}
		o := vals.NewObject()
		j := i + 1
		ok := true
		for ok && !r.at(j).isOp("}") {
			if !r.at(j).isValue() || !r.at(j+1).isOp(":") || !r.at(j+2).isValue() {
				ok = false
				break
			}
			if err := o.Set(vals.ToString(r.ts[j].val), r.ts[j+2].val); err != nil {
				return false, err
			}
			j += 3
			switch {
			case r.at(j).isOp(","):
				j++
			case !r.at(j).isOp("}"):
				ok = false
			}
		}
		if !ok {
			continue
		}
		r.replace(i, j+1, o)
		changed = true
	}
	return changed, nil
}

func (r *reducer[S]) parens() (bool, error) {
	changed := false
	for i := 0; i < len(r.ts); i++ {
		if r.ts[i].isOp("(") && r.startsOperand(i-1) &&
			r.at(i+1).isValue() && r.at(i+2).isOp(")") {
			r.replace(i, i+3, r.ts[i+1].val)
			changed = true
		}
	}
	return changed, nil
}

// postfixFollows reports whether the token at i starts an index or a call
// that has to be applied first.
func (r *reducer[S]) postfixFollows(i int) bool {
	return r.at(i).isOp("[", "(")
}

func (r *reducer[S]) unary() (bool, error) {
	changed := false
	for i := len(r.ts) - 1; i >= 0; i-- {
		t := r.ts[i]
		if !t.isOp("-", "+", "!") || !r.startsOperand(i-1) ||
			!r.at(i+1).isValue() || r.postfixFollows(i+2) {
			continue
		}
		v := r.ts[i+1].val
		var err error
		switch t.text {
		case "-":
			v, err = vals.Negate(v)
		case "+":
			v, err = vals.Add(0, v)
		case "!":
			var b bool
			b, err = vals.Bool(v, r.c.funcExists)
			v = !b
		}
		if err != nil {
			return false, err
		}
		r.replace(i, i+2, v)
		changed = true
	}
	return changed, nil
}

// binary returns a pass that reduces the binary operators of one precedence
// level, left to right. A site is left alone while one of its operands still
// belongs to a tighter operator. Comparisons are evaluated by compare and
// take no ops.
func (r *reducer[S]) binary(level int, ops map[string]binaryOp) func() (bool, error) {
	return func() (bool, error) {
		changed := false
		for i := 1; i+1 < len(r.ts); i++ {
			t := r.ts[i]
			if t.kind != opTok {
				continue
			}
			prec, ok := binaryPrec(t.text)
			if !ok || prec != level {
				continue
			}
			if !r.ts[i-1].isValue() || !r.ts[i+1].isValue() ||
				r.leftBinds(i-2, level) || r.rightBinds(i+2, level) {
				continue
			}
			a, b := r.ts[i-1].val, r.ts[i+1].val
			var v any
			var err error
			if level == precCompare {
				v, err = r.compare(t.text, a, b)
			} else {
				v, err = ops[t.text](a, b)
			}
			if err != nil {
				return false, err
			}
			r.replace(i-1, i+2, v)
			changed = true
			i--
		}
		return changed, nil
	}
}

// leftBinds reports whether the operator at i, to the left of an operand,
// binds it at least as tightly as level.
func (r *reducer[S]) leftBinds(i, level int) bool {
	t := r.at(i)
	if t.kind != opTok || t.isOp("(", "[", "{", ",", ":") {
		return false
	}
	if !r.at(i - 1).isValue() && !r.at(i-1).isOp(")", "]", "}") {
		// A prefix operator.
		return true
	}
	prec, ok := binaryPrec(t.text)
	return ok && prec >= level
}

// rightBinds reports whether the token at i, to the right of an operand,
// binds it more tightly than level.
func (r *reducer[S]) rightBinds(i, level int) bool {
	t := r.at(i)
	if r.postfixFollows(i) {
		return true
	}
	if t.kind != opTok {
		return false
	}
	prec, ok := binaryPrec(t.text)
	return ok && prec > level
}

var arithOps = map[string]binaryOp{
	"*": vals.Mul,
	"/": vals.Div,
	"%": vals.Mod,
	"+": vals.Add,
	"-": vals.Sub,
}

func concat(a, b any) (any, error) { return vals.Concat(a, b), nil }

var concatOps = map[string]binaryOp{".": concat, "..": concat}

func logicOps[S State](c *Ctx[S]) map[string]binaryOp {
	bools := func(a, b any) (bool, bool, error) {
		x, err := vals.Bool(a, c.funcExists)
		if err != nil {
			return false, false, err
		}
		y, err := vals.Bool(b, c.funcExists)
		return x, y, err
	}
	return map[string]binaryOp{
		"&&": func(a, b any) (any, error) {
			x, y, err := bools(a, b)
			return x && y, err
		},
		"||": func(a, b any) (any, error) {
			x, y, err := bools(a, b)
			return x || y, err
		},
	}
}

// compare evaluates a comparison. A trailing # matches case and a trailing ?
// ignores it; without either, string comparisons follow the ignorecase
// option.
func (r *reducer[S]) compare(op string, a, b any) (any, error) {
	base := strings.TrimRight(op, "#?")
	ignoreCase := strings.HasSuffix(op, "?")
	if !strings.HasSuffix(op, "#") && !ignoreCase {
		ignoreCase = r.ignoreCase(a, b)
	}
	if ignoreCase {
		if as, ok := a.(string); ok {
			if bs, ok := b.(string); ok && base != "=~" && base != "!~" {
				a, b = strings.ToLower(as), strings.ToLower(bs)
			}
		}
	}
	switch base {
	case "==":
		return vals.Equal(a, b), nil
	case "!=":
		return !vals.Equal(a, b), nil
	case "<":
		return vals.Less(a, b), nil
	case "<=":
		return vals.LessEq(a, b), nil
	case ">":
		return vals.Less(b, a), nil
	case ">=":
		return vals.LessEq(b, a), nil
	case "=~", "!~":
		re, err := r.c.regexp(vals.ToString(b), ignoreCase)
		if err != nil {
			return nil, err
		}
		return re.MatchString(vals.ToString(a)) == (base == "=~"), nil
	}
	return nil, errs.ErrInvalidExpression
}

// ignoreCase reports whether a comparison of a and b should ignore case by
// default. Only comparisons involving strings consult the option.
func (r *reducer[S]) ignoreCase(a, b any) bool {
	_, aStr := a.(string)
	_, bStr := b.(string)
	if !aStr || !bStr {
		return false
	}
	v, err := r.state.GetOption("ignorecase")
	if err != nil {
		return false
	}
	ic, _ := vals.Bool(v, nil)
	return ic
}
