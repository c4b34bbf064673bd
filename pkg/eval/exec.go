package eval

import (
	"errors"
	"strings"

	"src.rvim.sh/pkg/diag"
	"src.rvim.sh/pkg/vim/errs"
	"src.rvim.sh/pkg/vim/parse"
	"src.rvim.sh/pkg/vim/vals"
)

// The kind of block being run.
type section int

const (
	secScript section = iota
	secFunction
	secIf
	secWhile
	secFor
)

var closers = map[section]string{
	secFunction: "endfunction",
	secIf:       "endif",
	secWhile:    "endwhile",
	secFor:      "endfor",
}

type runMode int

const (
	// Run lines.
	runNow runMode = iota
	// Skip lines, but keep track of nested blocks and branches.
	runSkip
	// Skip to the end of the current if, a branch of which has already run.
	runSkipEndIf
)

// Control flow signals. They travel as errors until the construct they
// belong to.
type returnSignal struct{ value any }

func (returnSignal) Error() string { return "return" }

var (
	errBreak    = errors.New("break")
	errContinue = errors.New("continue")
)

func isSignal(err error) bool {
	var ret returnSignal
	return errors.As(err, &ret) || errors.Is(err, errBreak) || errors.Is(err, errContinue) ||
		errors.Is(err, errs.ErrExit)
}

// exec runs lines until the end of the section. It returns nil at the line
// that closes the section, or at the end of lines for a script.
func (c *Ctx[S]) exec(lines parse.Lines, sec section, mode runMode, state S) error {
	for {
		line, ok, err := lines.Next()
		if err != nil {
			return err
		}
		if !ok {
			if sec == secScript {
				return nil
			}
			return errs.ErrUnexpectedEOF
		}
		if err := c.checkDeadline(); err != nil {
			return wrap(line, err)
		}
		done, err := c.dispatch(line, lines, sec, &mode, state)
		if err != nil {
			return wrap(line, err)
		}
		if done {
			return nil
		}
	}
}

// wrap attaches the source context of a line to an error, unless it is a
// signal or already has one.
func wrap(line parse.Line, err error) error {
	var d *diag.Error
	if isSignal(err) || errors.As(err, &d) {
		return err
	}
	ctx := line.Context()
	if ctx == nil {
		return err
	}
	return diag.Wrap("vim script error", err, ctx)
}

// dispatch handles one line. It returns true if the line closes the section.
func (c *Ctx[S]) dispatch(line parse.Line, lines parse.Lines, sec section, mode *runMode, state S) (bool, error) {
	kw := line.Keyword()
	switch kw {
	case "if":
		if *mode != runNow {
			return false, c.exec(lines, secIf, runSkipEndIf, state)
		}
		cond, err := c.evalBool(line.Args, state)
		if err != nil {
			return false, err
		}
		branch := runSkip
		if cond {
			branch = runNow
		}
		return false, c.exec(lines, secIf, branch, state)
	case "elseif", "else":
		if sec != secIf {
			return false, errs.UnexpectedKeyword{Keyword: kw}
		}
		switch *mode {
		case runNow:
			*mode = runSkipEndIf
		case runSkip:
			cond := true
			if kw == "elseif" {
				var err error
				if cond, err = c.evalBool(line.Args, state); err != nil {
					return false, err
				}
			}
			if cond {
				*mode = runNow
			}
		}
		return false, nil
	case "endif", "endwhile", "endfor", "endfunction":
		if closers[sec] != kw {
			return false, errs.UnexpectedKeyword{Keyword: kw}
		}
		return true, nil
	case "while":
		if *mode != runNow {
			return false, c.exec(lines, secWhile, runSkip, state)
		}
		return false, c.execWhile(line.Args, lines, state)
	case "for":
		if *mode != runNow {
			return false, c.exec(lines, secFor, runSkip, state)
		}
		return false, c.execFor(line.Args, lines, state)
	case "function":
		if *mode != runNow {
			if !strings.Contains(line.Args, "(") {
				return false, nil
			}
			return false, c.exec(lines, secFunction, runSkip, state)
		}
		return false, c.defineFunction(line, lines, state)
	}
	if *mode != runNow {
		return false, nil
	}
	return false, c.execSimple(kw, line, state)
}

// execSimple runs a line that does not open or close a block.
func (c *Ctx[S]) execSimple(kw string, line parse.Line, state S) error {
	switch kw {
	case "let":
		if !line.Range.IsCurrentLine() || line.Bang {
			return errs.ErrUnexpectedSymbol
		}
		return c.let(line.Args, state)
	case "silent", "unsilent":
		return c.execSilent(kw == "silent", line, state)
	case "execute":
		vs, err := c.evalMany(line.Args, state)
		if err != nil {
			return err
		}
		parts := make([]string, len(vs))
		for i, v := range vs {
			parts[i] = vals.ToString(v)
		}
		return c.execute(strings.Join(parts, " "), state)
	case "finish", "exit":
		return errs.ErrExit
	case "return":
		if c.depth == 0 {
			return errs.UnexpectedKeyword{Keyword: kw}
		}
		var v any = 0
		if line.Args != "" {
			var err error
			if v, err = c.eval(line.Args, state); err != nil {
				return err
			}
		}
		return returnSignal{v}
	case "break", "continue":
		if c.loops == 0 {
			return errs.UnexpectedKeyword{Keyword: kw}
		}
		if kw == "break" {
			return errBreak
		}
		return errContinue
	}
	cmd, ok := c.commands[kw]
	if !ok {
		cmd, ok = c.commands[line.Command]
	}
	if !ok {
		return errs.CommandUndefined{Name: line.Command,
			Suggestion: suggest(line.Command, c.CommandNames())}
	}
	err := cmd.Execute(c, state, line.Range, line.Bang, line.Args)
	if err != nil && !isSignal(err) {
		logger.Printf("command %s failed: %v", line.Command, err)
	}
	return err
}

// execute runs text as a nested script. Variables it defines go to the
// current scope.
func (c *Ctx[S]) execute(text string, state S) error {
	logger.Printf("execute %q", text)
	src := &parse.Source{Name: "[execute]", Code: text}
	return c.exec(parse.NewTokenizer(src), secScript, runNow, state)
}

// execSilent runs the rest of a :silent or :unsilent line as a line of its
// own. With :silent!, ordinary errors of that line are ignored.
func (c *Ctx[S]) execSilent(silent bool, line parse.Line, state S) error {
	nested, ok, err := parse.ParseLine(line.Args)
	if err != nil || !ok {
		return err
	}
	nested.Src, nested.From, nested.To = line.Src, line.From, line.To
	if silent {
		defer c.enterSilent(state)()
	} else {
		defer c.enterUnsilent(state)()
	}
	err = c.exec(parse.NewReplay([]parse.Line{nested}), secScript, runNow, state)
	if err != nil && silent && line.Bang && !isSignal(err) && !errors.Is(err, errs.ErrTimeout) {
		logger.Println("silenced error:", err)
		return nil
	}
	return err
}

// execWhile runs a while loop whose body starts at lines.
func (c *Ctx[S]) execWhile(cond string, lines parse.Lines, state S) error {
	for {
		ok, err := c.evalBool(cond, state)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		err = c.execBody(lines.Clone(), secWhile, state, nil)
		if errors.Is(err, errBreak) {
			break
		}
		if err != nil && !errors.Is(err, errContinue) {
			return err
		}
	}
	return c.exec(lines, secWhile, runSkip, state)
}

// execFor runs a for loop whose body starts at lines.
func (c *Ctx[S]) execFor(header string, lines parse.Lines, state S) error {
	target, iterable, ok := strings.Cut(header, " in ")
	if !ok {
		return errs.Expected{Token: "in"}
	}
	pat, err := parsePattern(strings.TrimSpace(target))
	if err != nil {
		return err
	}
	v, err := c.eval(iterable, state)
	if err != nil {
		return err
	}
	for _, elem := range vals.Collect(v) {
		err := c.execBody(lines.Clone(), secFor, state, func() error {
			return c.bind(pat, elem, c.vars.Define)
		})
		if errors.Is(err, errBreak) {
			break
		}
		if err != nil && !errors.Is(err, errContinue) {
			return err
		}
	}
	return c.exec(lines, secFor, runSkip, state)
}

// execBody runs one iteration of a loop body in a new block frame, after
// calling setup if it is not nil.
func (c *Ctx[S]) execBody(lines parse.Lines, sec section, state S, setup func() error) error {
	c.vars.EnterBlock()
	c.loops++
	defer func() {
		c.loops--
		c.vars.LeaveLocal()
	}()
	if setup != nil {
		if err := setup(); err != nil {
			return err
		}
	}
	return c.exec(lines, sec, runNow, state)
}
