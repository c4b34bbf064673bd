package eval

import (
	"strings"

	"src.rvim.sh/pkg/vim/errs"
	"src.rvim.sh/pkg/vim/parse"
	"src.rvim.sh/pkg/vim/vals"
)

// Builtin commands.

func addBuiltinCmds[S State](c *Ctx[S]) {
	c.Command("call", CommandFunc[S](callCmd[S]))
	c.Command("echo", CommandFunc[S](echoCmd[S]))
	c.Command("echomsg", CommandFunc[S](echomsgCmd[S]))
	c.Command("unlet", CommandFunc[S](unletCmd[S]))
	c.Command("messages", CommandFunc[S](messagesCmd[S]))
}

func callCmd[S State](c *Ctx[S], state S, _ parse.Range, _ bool, args string) error {
	if strings.TrimSpace(args) == "" {
		return errs.Expected{Token: "function call"}
	}
	_, err := c.eval(args, state)
	return err
}

// echoText evaluates the arguments of :echo and joins their string forms.
func echoText[S State](c *Ctx[S], state S, args string) (string, error) {
	vs, err := c.evalMany(args, state)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = vals.ToString(v)
	}
	return strings.Join(parts, " "), nil
}

func echoCmd[S State](c *Ctx[S], state S, _ parse.Range, _ bool, args string) error {
	msg, err := echoText(c, state, args)
	if err != nil {
		return err
	}
	c.echo(state, msg)
	return nil
}

// Number of messages :echomsg keeps.
const maxMessages = 200

func echomsgCmd[S State](c *Ctx[S], state S, _ parse.Range, _ bool, args string) error {
	msg, err := echoText(c, state, args)
	if err != nil {
		return err
	}
	c.messages = append(c.messages, msg)
	if len(c.messages) > maxMessages {
		c.messages = c.messages[len(c.messages)-maxMessages:]
	}
	c.echo(state, msg)
	return nil
}

func messagesCmd[S State](c *Ctx[S], state S, _ parse.Range, bang bool, _ string) error {
	if bang {
		c.messages = nil
		return nil
	}
	for _, msg := range c.messages {
		c.echo(state, msg)
	}
	return nil
}

// unletCmd removes variables, or elements of lists and dicts. With a bang,
// names that do not exist are ignored.
func unletCmd[S State](c *Ctx[S], state S, _ parse.Range, bang bool, args string) error {
	names := strings.Fields(args)
	if len(names) == 0 {
		return errs.Expected{Token: "variable name"}
	}
	for _, name := range names {
		t, err := c.parseTarget(name, state)
		if err != nil {
			return err
		}
		ok, err := c.unset(t)
		if err != nil && !bang {
			return err
		}
		if !ok && !bang {
			return errs.VariableUndefined{Name: name}
		}
	}
	return nil
}
