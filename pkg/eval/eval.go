// Package eval implements the Vim script interpreter.
//
// A Ctx owns the variable and function namespaces, the registries of commands
// and builtin functions, and the execution deadline. It is parameterized over
// the type of the host state that commands and builtins operate on.
//
// Scripts are not compiled: the interpreter reads logical lines from a
// parse.Lines source and acts on them as they come. Function and loop bodies
// are captured as lines once and replayed.
package eval

import (
	"errors"
	"regexp"
	"time"

	"src.rvim.sh/pkg/logutil"
	"src.rvim.sh/pkg/vim/errs"
	"src.rvim.sh/pkg/vim/ns"
	"src.rvim.sh/pkg/vim/parse"
	"src.rvim.sh/pkg/vim/vals"
)

var logger = logutil.GetLogger("[eval] ")

// State is the capability the host provides to the interpreter.
type State interface {
	// SetSilent is called when the script enters or leaves a :silent region.
	SetSilent(silent bool)
	// Echo shows a message to the user.
	Echo(msg string)
	// GetOption returns the value of an option, for &name expressions.
	GetOption(name string) (any, error)
}

// DefaultTimeout is the budget of a top-level run when Config.Timeout is zero.
const DefaultTimeout = 5 * time.Second

// Maximum nesting of user function calls.
const maxCallDepth = 200

// Config keeps configuration for a Ctx.
type Config struct {
	// How long a top-level Run, Eval or RunFunction may take. Zero means
	// DefaultTimeout.
	Timeout time.Duration
}

// Ctx is an interpreter context. It is not safe for concurrent use.
type Ctx[S State] struct {
	vars  *ns.Namespaced[any]
	funcs *ns.Namespaced[*Function]

	commands map[string]Command[S]
	builtins map[string]Builtin[S]

	timeout  time.Duration
	deadline time.Time
	// Nesting of Run, Eval and RunFunction calls; the deadline is only reset
	// by the outermost one.
	level int

	silent int
	depth  int
	loops  int

	// Non-nil while execute() collects messages instead of echoing them.
	capture *[]string
	// Messages kept by :echomsg.
	messages []string

	regexps map[string]*regexp.Regexp
}

// New creates a Ctx with the builtin commands, functions and v: variables.
func New[S State](cfg Config) *Ctx[S] {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	c := &Ctx[S]{
		vars:     ns.New[any](),
		funcs:    ns.New[*Function](),
		commands: make(map[string]Command[S]),
		builtins: make(map[string]Builtin[S]),
		timeout:  timeout,
		regexps:  make(map[string]*regexp.Regexp),
	}
	for name, v := range builtinVars {
		c.vars.InsertBuiltin(name, v)
	}
	addBuiltinCmds(c)
	addStrBuiltins(c)
	addContainerBuiltins(c)
	addNumBuiltins(c)
	addMiscBuiltins(c)
	return c
}

var builtinVars = map[string]any{
	"true":     true,
	"false":    false,
	"null":     nil,
	"none":     nil,
	"t_number": vals.TypeInteger,
	"t_string": vals.TypeStr,
	"t_func":   vals.TypeFuncref,
	"t_list":   vals.TypeList,
	"t_dict":   vals.TypeObject,
	"t_float":  vals.TypeNumber,
	"t_bool":   vals.TypeBool,
	"t_none":   vals.TypeNil,
	"version":  900,
	"key":      nil,
	"val":      nil,
}

// Command registers a command. A command with the same name is replaced.
func (c *Ctx[S]) Command(name string, cmd Command[S]) {
	c.commands[name] = cmd
}

// Builtin registers a builtin function. A function with the same name is
// replaced.
func (c *Ctx[S]) Builtin(name string, fn Builtin[S]) {
	c.builtins[name] = fn
}

// HasCommand reports whether a command is registered under name.
func (c *Ctx[S]) HasCommand(name string) bool {
	_, ok := c.commands[name]
	return ok
}

// CommandNames returns the names of all registered commands.
func (c *Ctx[S]) CommandNames() []string { return sortedKeys(c.commands) }

// BuiltinNames returns the names of all builtin functions.
func (c *Ctx[S]) BuiltinNames() []string { return sortedKeys(c.builtins) }

// SetBuffer selects the buffer b: names refer to.
func (c *Ctx[S]) SetBuffer(id ns.ID) {
	c.vars.SetBuffer(id)
	c.funcs.SetBuffer(id)
}

// SetWindow selects the window w: names refer to.
func (c *Ctx[S]) SetWindow(id ns.ID) {
	c.vars.SetWindow(id)
	c.funcs.SetWindow(id)
}

// SetScript selects the script s: names refer to.
func (c *Ctx[S]) SetScript(id ns.ID) {
	c.vars.SetScript(id)
	c.funcs.SetScript(id)
}

// ScriptID returns the active script.
func (c *Ctx[S]) ScriptID() ns.ID { return c.vars.ScriptID() }

// InsertVar stores a variable under a qualified name.
func (c *Ctx[S]) InsertVar(name string, v any) error {
	_, _, err := c.vars.Insert(name, v)
	return err
}

// RemoveVar removes a variable, returning its value.
func (c *Ctx[S]) RemoveVar(name string) (any, bool, error) {
	return c.vars.Remove(name)
}

// Lookup returns the value of a variable.
func (c *Ctx[S]) Lookup(name string) (any, bool, error) {
	return c.vars.Get(name)
}

// VarNames returns the names of the visible variables.
func (c *Ctx[S]) VarNames() []string { return c.vars.Names() }

// Messages returns the messages kept by :echomsg, oldest first.
func (c *Ctx[S]) Messages() []string {
	return append([]string(nil), c.messages...)
}

// Run runs a script. A :finish or :exit ends it successfully.
func (c *Ctx[S]) Run(code string, state S) error {
	return c.RunSource(&parse.Source{Name: "[script]", Code: code}, state)
}

// RunSource runs a script read from src.
func (c *Ctx[S]) RunSource(src *parse.Source, state S) error {
	defer c.enter()()
	err := c.exec(parse.NewTokenizer(src), secScript, runNow, state)
	if errors.Is(err, errs.ErrExit) {
		return nil
	}
	return err
}

// Eval evaluates an expression.
func (c *Ctx[S]) Eval(expr string, state S) (any, error) {
	defer c.enter()()
	return c.eval(expr, state)
}

// RunFunction calls a function by name, like a call expression would.
func (c *Ctx[S]) RunFunction(name string, args []any, state S) (any, error) {
	defer c.enter()()
	return c.call(name, args, state)
}

// enter starts a possibly nested entry into the interpreter, resetting the
// deadline if it is the outermost one. The returned function ends it.
func (c *Ctx[S]) enter() func() {
	if c.level == 0 {
		c.deadline = time.Now().Add(c.timeout)
	}
	c.level++
	return func() { c.level-- }
}

func (c *Ctx[S]) checkDeadline() error {
	if time.Now().After(c.deadline) {
		logger.Println("script timed out after", c.timeout)
		return errs.ErrTimeout
	}
	return nil
}

// echo shows a message, or collects it while execute() is running.
func (c *Ctx[S]) echo(state S, msg string) {
	if c.capture != nil {
		*c.capture = append(*c.capture, msg)
		return
	}
	state.Echo(msg)
}

// Echo shows a message the way :echo does. Commands registered by the host
// should use it so that their output can be captured by execute().
func (c *Ctx[S]) Echo(state S, msg string) { c.echo(state, msg) }

// enterSilent increments the silence depth and returns a function that
// decrements it.
func (c *Ctx[S]) enterSilent(state S) func() {
	c.silent++
	state.SetSilent(true)
	return func() {
		c.silent--
		state.SetSilent(c.silent > 0)
	}
}

// enterUnsilent zeroes the silence depth and returns a function that restores
// it.
func (c *Ctx[S]) enterUnsilent(state S) func() {
	saved := c.silent
	c.silent = 0
	state.SetSilent(false)
	return func() {
		c.silent = saved
		state.SetSilent(saved > 0)
	}
}

// Silent reports whether a :silent region is active.
func (c *Ctx[S]) Silent() bool { return c.silent > 0 }

// regexp compiles a Vim pattern, caching the result.
func (c *Ctx[S]) regexp(pattern string, ignoreCase bool) (*regexp.Regexp, error) {
	key := pattern
	if ignoreCase {
		key = "\\c" + pattern
	}
	if re, ok := c.regexps[key]; ok {
		return re, nil
	}
	re, err := compilePattern(pattern, ignoreCase)
	if err != nil {
		return nil, err
	}
	c.regexps[key] = re
	return re, nil
}
