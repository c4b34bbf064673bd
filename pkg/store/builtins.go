package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"src.rvim.sh/pkg/eval"
	"src.rvim.sh/pkg/store/storedefs"
	"src.rvim.sh/pkg/vim/errs"
	"src.rvim.sh/pkg/vim/parse"
	"src.rvim.sh/pkg/vim/vals"
)

// Register adds builtins for shared variables and the history command to the
// interpreter.
func Register[S eval.State](c *eval.Ctx[S], st storedefs.Store) {
	c.Builtin("shared_get", eval.NewGoFn[S]("shared_get",
		func(name string, dflt ...any) (any, error) {
			if len(dflt) > 1 {
				return nil, errs.WrongArgCount{Expected: 2}
			}
			v, err := st.SharedVar(name)
			if errors.Is(err, storedefs.ErrNoVar) {
				if len(dflt) == 1 {
					return dflt[0], nil
				}
				return nil, errs.VariableUndefined{Name: name}
			}
			return v, err
		}))
	c.Builtin("shared_set", eval.NewGoFn[S]("shared_set", st.SetSharedVar))
	c.Builtin("shared_del", eval.NewGoFn[S]("shared_del", st.DelSharedVar))
	c.Builtin("shared_names", eval.NewGoFn[S]("shared_names",
		func() (*vals.List, error) {
			names, err := st.SharedVarNames()
			if err != nil {
				return nil, err
			}
			l := vals.NewList()
			for _, name := range names {
				l.Append(name)
			}
			return l, nil
		}))
	c.Command("history", eval.CommandFunc[S](
		func(c *eval.Ctx[S], state S, _ parse.Range, _ bool, args string) error {
			return history(c, state, st, args)
		}))
}

// history shows the last n entries of the command history, or all of them
// when no count is given.
func history[S eval.State](c *eval.Ctx[S], state S, st storedefs.Store, args string) error {
	next, err := st.NextCmdSeq()
	if err != nil {
		return err
	}
	from := 0
	if args = strings.TrimSpace(args); args != "" {
		n, err := strconv.Atoi(args)
		if err != nil || n < 0 {
			return errs.InvalidArgument{Func: "history", Message: "count must be a non-negative number"}
		}
		from = next - n
	}
	cmds, err := st.Cmds(from, next)
	if err != nil {
		return err
	}
	for _, cmd := range cmds {
		c.Echo(state, fmt.Sprintf("%5d  %s", cmd.Seq, cmd.Text))
	}
	return nil
}
