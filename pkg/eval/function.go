package eval

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"src.rvim.sh/pkg/vim/errs"
	"src.rvim.sh/pkg/vim/ns"
	"src.rvim.sh/pkg/vim/parse"
	"src.rvim.sh/pkg/vim/vals"
)

// Function is a user-defined function. Its body is captured when the function
// is defined and replayed on every call.
type Function struct {
	Name     string
	Params   []string
	Variadic bool
	Body     []parse.Line
	// The script active when the function was defined; s: names in the body
	// refer to it.
	Script ns.ID
}

// Attributes accepted after the parameter list. They do not change how the
// function runs.
var functionAttrs = map[string]bool{
	"abort": true, "range": true, "dict": true, "closure": true,
}

// parseHeader parses the "Name(a, b, ...) attrs" part of a :function line.
func parseHeader(s string) (*Function, error) {
	open := strings.IndexByte(s, '(')
	if open == -1 {
		return nil, errs.Expected{Token: "("}
	}
	close := strings.IndexByte(s, ')')
	if close < open {
		return nil, errs.Expected{Token: ")"}
	}
	fn := &Function{Name: strings.TrimSpace(s[:open]), Script: ns.NoID}
	if !isFunctionName(fn.Name) {
		return nil, errs.ErrUnexpectedSymbol
	}
	if params := strings.TrimSpace(s[open+1 : close]); params != "" {
		for i, p := range strings.Split(params, ",") {
			p = strings.TrimSpace(p)
			if p == "..." {
				if i != strings.Count(params, ",") {
					return nil, errs.Expected{Token: ")"}
				}
				fn.Variadic = true
				continue
			}
			if !isParamName(p) {
				return nil, errs.ErrUnexpectedSymbol
			}
			fn.Params = append(fn.Params, p)
		}
	}
	for _, attr := range strings.Fields(s[close+1:]) {
		if !functionAttrs[attr] {
			return nil, errs.ErrUnexpectedSymbol
		}
	}
	return fn, nil
}

func isFunctionName(s string) bool {
	if s == "" || !isNameStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isNameChar(s[i]) {
			return false
		}
	}
	return true
}

func isParamName(s string) bool {
	if s == "" || !isNameStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isNameStart(s[i]) && !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// defineFunction handles a :function line. With a header, it captures the
// body from lines and stores the function; without, it lists the user
// functions.
func (c *Ctx[S]) defineFunction(line parse.Line, lines parse.Lines, state S) error {
	if line.Args == "" {
		for _, name := range c.userFunctionNames() {
			c.echo(state, "function "+name+"()")
		}
		return nil
	}
	fn, err := parseHeader(line.Args)
	if err != nil {
		return err
	}
	body, err := captureBody(lines)
	if err != nil {
		return err
	}
	fn.Body = body
	fn.Script = c.ScriptID()
	name := fn.Name
	if scope, _, err := ns.Resolve(name); err != nil {
		return err
	} else if scope == ns.Local {
		name = "g:" + name
	}
	if _, _, err := c.funcs.Insert(name, fn); err != nil {
		return err
	}
	logger.Printf("defined function %s with %d lines", fn.Name, len(body))
	return nil
}

// captureBody collects the lines up to the :endfunction that matches the
// current :function, without running them.
func captureBody(lines parse.Lines) ([]parse.Line, error) {
	var body []parse.Line
	depth := 0
	for {
		line, ok, err := lines.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errs.ErrUnexpectedEOF
		}
		switch line.Keyword() {
		case "function":
			if strings.Contains(line.Args, "(") {
				depth++
			}
		case "endfunction":
			if depth == 0 {
				return body, nil
			}
			depth--
		}
		body = append(body, line)
	}
}

// call calls a function by name: a user function, a builtin, or the function
// a variable of that name refers to.
func (c *Ctx[S]) call(name string, args []any, state S) (any, error) {
	fn, ok, err := c.funcs.Get(name)
	if err != nil {
		return nil, err
	}
	if ok {
		return c.callUser(fn, args, state)
	}
	if b, ok := c.builtins[name]; ok {
		return b.Call(c, state, args)
	}
	if v, ok, _ := c.vars.Get(name); ok {
		if f, ok := v.(vals.Funcref); ok {
			return c.callFuncref(f, args, state)
		}
	}
	return nil, errs.FunctionUndefined{Name: name, Suggestion: suggest(name, c.functionNames())}
}

// callFuncref calls the function a reference names, resolving s: names in
// the script the reference was taken in.
func (c *Ctx[S]) callFuncref(f vals.Funcref, args []any, state S) (any, error) {
	if c.depth >= maxCallDepth {
		return nil, errs.ErrMaxDepth
	}
	c.depth++
	defer func() { c.depth-- }()
	if f.Script != ns.NoID {
		saved := c.ScriptID()
		c.SetScript(f.Script)
		defer c.SetScript(saved)
	}
	return c.call(f.Name, args, state)
}

// callUser calls a user function in a new local frame.
func (c *Ctx[S]) callUser(fn *Function, args []any, state S) (any, error) {
	if len(args) < len(fn.Params) || !fn.Variadic && len(args) > len(fn.Params) {
		return nil, errs.WrongArgCount{Expected: len(fn.Params)}
	}
	if c.depth >= maxCallDepth {
		return nil, errs.ErrMaxDepth
	}
	c.depth++
	loops := c.loops
	c.loops = 0
	script := c.ScriptID()
	c.vars.EnterLocal()
	defer func() {
		c.vars.LeaveLocal()
		c.SetScript(script)
		c.loops = loops
		c.depth--
	}()
	if fn.Script != ns.NoID {
		c.SetScript(fn.Script)
	}

	for i, p := range fn.Params {
		c.vars.Define("a:"+p, args[i])
	}
	if fn.Variadic {
		rest := args[len(fn.Params):]
		c.vars.Define("a:000", vals.NewList(rest...))
		c.vars.Define("a:0", len(rest))
		for i, v := range rest {
			c.vars.Define("a:"+strconv.Itoa(i+1), v)
		}
	}

	// The body was captured between :function and :endfunction, so it is
	// balanced and can be run as a script.
	err := c.exec(parse.NewReplay(fn.Body), secScript, runNow, state)
	var ret returnSignal
	if errors.As(err, &ret) {
		return ret.value, nil
	}
	if err != nil {
		return nil, err
	}
	return 0, nil
}

// funcExists reports whether a function reference resolves.
func (c *Ctx[S]) funcExists(f vals.Funcref) bool {
	if _, ok := c.builtins[f.Name]; ok {
		return true
	}
	if f.Script != ns.NoID {
		saved := c.funcs.ScriptID()
		c.funcs.SetScript(f.Script)
		defer c.funcs.SetScript(saved)
	}
	_, ok, _ := c.funcs.Get(f.Name)
	return ok
}

// userFunctionNames returns the names of the visible user functions, with
// global functions unqualified.
func (c *Ctx[S]) userFunctionNames() []string {
	names := c.funcs.Names()
	for i, name := range names {
		names[i] = strings.TrimPrefix(name, "g:")
	}
	return names
}

func (c *Ctx[S]) functionNames() []string {
	return append(c.userFunctionNames(), c.BuiltinNames()...)
}

// suggest returns the candidate closest to a misspelt name, or "" if none is
// close. Candidates containing the letters of name in order are preferred;
// failing that, candidates whose letters name contains in order.
func suggest(name string, candidates []string) string {
	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) == 0 {
		for _, cand := range candidates {
			if len(cand) > 1 && fuzzy.MatchFold(cand, name) {
				ranks = append(ranks, fuzzy.Rank{
					Source: cand, Target: cand,
					Distance: fuzzy.LevenshteinDistance(cand, name)})
			}
		}
	}
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}
