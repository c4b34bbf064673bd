package shell

import (
	"fmt"
	"io"

	"src.rvim.sh/pkg/options"
)

// Terminal is the State scripts run against in the vimscript command. Messages
// go to a writer, usually stdout, and options are kept in an options.Options.
type Terminal struct {
	out    io.Writer
	opts   *options.Options
	silent bool
}

// NewTerminal creates a Terminal.
func NewTerminal(out io.Writer, opts *options.Options) *Terminal {
	return &Terminal{out: out, opts: opts}
}

// SetSilent implements eval.State.
func (t *Terminal) SetSilent(silent bool) { t.silent = silent }

// Echo implements eval.State. Nothing is written inside a :silent region.
func (t *Terminal) Echo(msg string) {
	if t.silent {
		return
	}
	fmt.Fprintln(t.out, msg)
}

// GetOption implements eval.State.
func (t *Terminal) GetOption(name string) (any, error) {
	return t.opts.Get(name)
}

// Options returns the options of the terminal.
func (t *Terminal) Options() *options.Options { return t.opts }
