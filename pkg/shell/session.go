package shell

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"src.rvim.sh/pkg/eval"
	"src.rvim.sh/pkg/options"
	"src.rvim.sh/pkg/store"
	"src.rvim.sh/pkg/store/storedefs"
	"src.rvim.sh/pkg/vim/errs"
	"src.rvim.sh/pkg/vim/parse"
)

// Session is an interpreter context set up with the commands of the vimscript
// command, together with the state it runs against.
type Session struct {
	Ctx   *eval.Ctx[*Terminal]
	Term  *Terminal
	Store storedefs.Store

	ids ids
}

// SessionConfig keeps configuration for NewSession.
type SessionConfig struct {
	// Where messages are written.
	Out io.Writer
	// Budget of each top-level run; zero means eval.DefaultTimeout.
	Timeout time.Duration
	// If not empty, a YAML or TOML file to load options from.
	OptionsFile string
	// If not empty, the path of the database. Without a database, shared
	// variables and the command history are not available.
	DB string
}

// NewSession creates a Session. The caller should call Close when done.
func NewSession(cfg SessionConfig) (*Session, error) {
	opts := options.New()
	if cfg.OptionsFile != "" {
		if err := opts.LoadFile(cfg.OptionsFile); err != nil {
			return nil, err
		}
	}
	s := &Session{
		Ctx:  eval.New[*Terminal](eval.Config{Timeout: cfg.Timeout}),
		Term: NewTerminal(cfg.Out, opts),
	}
	s.Ctx.SetBuffer(mainBuffer)
	s.Ctx.SetWindow(mainWindow)
	options.Register(s.Ctx, opts)
	s.Ctx.Command("source", eval.CommandFunc[*Terminal](s.source))
	s.Ctx.Command("scriptnames", eval.CommandFunc[*Terminal](s.scriptnames))

	if cfg.DB != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.DB), 0700); err != nil {
			return nil, err
		}
		st, err := store.NewStore(cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("cannot open database: %w", err)
		}
		s.Store = st
		store.Register(s.Ctx, st)
	}
	return s, nil
}

// Close releases the resources held by the session.
func (s *Session) Close() error {
	if s.Store != nil {
		return s.Store.Close()
	}
	return nil
}

// Run runs a piece of code as a new script.
func (s *Session) Run(src *parse.Source) error {
	defer s.enterScript(src.Name)()
	start := time.Now()
	err := s.Ctx.RunSource(src, s.Term)
	logger.Printf("ran %s in %v", src.Name, time.Since(start))
	return err
}

// SourceFile reads a file and runs it as a new script. Failures to read the
// file are reported as errs.IO.
func (s *Session) SourceFile(path string) error {
	code, err := readFileUTF8(path)
	if err != nil {
		return errs.IO{Path: path, Err: err}
	}
	return s.Run(&parse.Source{Name: path, Code: code})
}

func (s *Session) enterScript(name string) func() {
	saved := s.Ctx.ScriptID()
	s.Ctx.SetScript(s.ids.newScript(name))
	return func() { s.Ctx.SetScript(saved) }
}

func (s *Session) source(c *eval.Ctx[*Terminal], t *Terminal, _ parse.Range, _ bool, args string) error {
	path := strings.TrimSpace(args)
	if path == "" {
		return errs.InvalidArgument{Func: "source", Message: "file name required"}
	}
	return s.SourceFile(expandHome(path))
}

func (s *Session) scriptnames(c *eval.Ctx[*Terminal], t *Terminal, _ parse.Range, _ bool, args string) error {
	if strings.TrimSpace(args) != "" {
		return errs.InvalidArgument{Func: "scriptnames", Message: "no arguments allowed"}
	}
	for i, name := range s.ids.names() {
		c.Echo(t, fmt.Sprintf("%3d: %s", i+1, name))
	}
	return nil
}
