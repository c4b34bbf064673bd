// Package shell is the script runner and interactive interface of the
// vimscript command.
package shell

import (
	"fmt"
	"os"
	"time"

	"src.rvim.sh/pkg/eval"
	"src.rvim.sh/pkg/logutil"
	"src.rvim.sh/pkg/prog"
)

var logger = logutil.GetLogger("[shell] ")

// Program is the shell subprogram. It runs a script given as an argument or
// with -c, and runs an interactive session otherwise.
type Program struct {
	codeInArg bool
	check     bool
	watch     bool
	noRC      bool
	rc        string
	options   string
	timeout   time.Duration
	json      *bool
	db        *string

	// Closing it ends -watch mode. Only set in tests.
	stopWatch <-chan struct{}
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.codeInArg, "c", false,
		"Take the first argument as code to run")
	fs.BoolVar(&p.check, "check", false,
		"Check the script for problems without running it")
	fs.BoolVar(&p.watch, "watch", false,
		"Run the script again each time the file changes")
	fs.BoolVar(&p.noRC, "norc", false,
		"Don't source ~/.vimscriptrc in interactive mode")
	fs.StringVar(&p.rc, "rc", "",
		"Path to the file to source in interactive mode, instead of ~/.vimscriptrc")
	fs.StringVar(&p.options, "options", "",
		"Path to a YAML or TOML file with initial values of options")
	fs.DurationVar(&p.timeout, "timeout", eval.DefaultTimeout,
		"How long each script or interactive command may run")
	p.json = fs.JSON()
	p.db = fs.DB()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if p.timeout <= 0 {
		return prog.BadUsage("-timeout must be positive")
	}
	if len(args) == 0 {
		switch {
		case p.codeInArg:
			return prog.BadUsage("-c requires an argument")
		case p.check:
			return prog.BadUsage("-check requires a script")
		case p.watch:
			return prog.BadUsage("-watch requires a script")
		}
	}
	if p.watch && p.codeInArg {
		return prog.BadUsage("-watch cannot be used with -c")
	}
	if *p.json && !p.check {
		return prog.BadUsage("-json can only be used with -check")
	}

	s, err := NewSession(SessionConfig{
		Out: fds[1], Timeout: p.timeout, OptionsFile: p.options, DB: *p.db})
	if err != nil {
		return err
	}
	defer s.Close()

	switch {
	case p.watch:
		return watch(s, fds, args[0], p.stopWatch)
	case len(args) > 0:
		return prog.Exit(script(s, fds, args,
			&scriptCfg{Cmd: p.codeInArg, Check: p.check, JSON: *p.json}))
	}

	rc := p.rc
	if rc == "" && !p.noRC {
		rc, err = RCPath()
		if err != nil {
			fmt.Fprintln(fds[2], "Warning:", err)
		}
	}
	Interact(s, fds, &InteractConfig{RC: rc})
	return nil
}
