package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"src.rvim.sh/pkg/diag"
	"src.rvim.sh/pkg/vim/errs"
	"src.rvim.sh/pkg/vim/parse"
)

const (
	prompt         = "vim> "
	continuePrompt = "...> "
	// Number of history entries loaded into the line editor.
	historyLoad = 1000
)

// InteractConfig keeps configuration for the interactive mode.
type InteractConfig struct {
	// If not empty, a file to source before reading any command.
	RC string
}

// Interact runs an interactive session.
func Interact(s *Session, fds [3]*os.File, cfg *InteractConfig) {
	var ed editor
	if useLineEditor(fds) {
		ed = newLineEditor(loadHistory(s))
	} else {
		ed = newMinEditor(fds[0], fds[2])
	}
	defer func() { ed.Close() }()

	if cfg.RC != "" {
		err := sourceRC(s, cfg.RC)
		if err != nil {
			diag.ShowError(fds[2], err)
		}
	}

	cooldown := time.Second
	cmdNum := 0
	var pending []string

	for {
		p := prompt
		if len(pending) > 0 {
			p = continuePrompt
		}
		line, err := ed.ReadCode(p)

		if err == io.EOF {
			if len(pending) > 0 {
				fmt.Fprintln(fds[2])
			}
			break
		} else if err != nil {
			fmt.Fprintln(fds[2], "Editor error:", err)
			if _, isMinEditor := ed.(*minEditor); !isMinEditor {
				fmt.Fprintln(fds[2], "Falling back to basic line editor")
				ed.Close()
				ed = newMinEditor(fds[0], fds[2])
			} else {
				fmt.Fprintln(fds[2], "Don't know what to do, pid is", os.Getpid())
				fmt.Fprintln(fds[2], "Restarting editor in", cooldown)
				time.Sleep(cooldown)
				if cooldown < time.Minute {
					cooldown *= 2
				}
			}
			continue
		}

		// No error; reset cooldown.
		cooldown = time.Second

		if len(pending) == 0 && strings.TrimSpace(line) == "" {
			continue
		}
		pending = append(pending, line)
		cmdNum++
		src := &parse.Source{
			Name: fmt.Sprintf("[tty %v]", cmdNum), Code: strings.Join(pending, "\n")}
		if incomplete(src) {
			continue
		}
		pending = nil

		ed.AddHistory(src.Code)
		if s.Store != nil {
			if _, err := s.Store.AddCmd(src.Code); err != nil {
				logger.Println("cannot add command to history:", err)
			}
		}
		if err := s.Run(src); err != nil {
			diag.ShowError(fds[2], err)
		}
	}
}

func useLineEditor(fds [3]*os.File) bool {
	return fds[0] == os.Stdin && fds[1] == os.Stdout &&
		isatty.IsTerminal(fds[0].Fd()) && liner.TerminalSupported()
}

// Reports whether the only problem with the code is a block that is not
// closed yet, in which case more lines should be read.
func incomplete(src *parse.Source) bool {
	diags := parse.Check(src)
	if len(diags) == 0 {
		return false
	}
	for _, d := range diags {
		if !errors.Is(d, errs.ErrUnexpectedEOF) {
			return false
		}
	}
	return true
}

func loadHistory(s *Session) []string {
	if s.Store == nil {
		return nil
	}
	upto, err := s.Store.NextCmdSeq()
	if err != nil {
		logger.Println("cannot read history:", err)
		return nil
	}
	cmds, err := s.Store.Cmds(upto-historyLoad, upto)
	if err != nil {
		logger.Println("cannot read history:", err)
		return nil
	}
	lines := make([]string, len(cmds))
	for i, cmd := range cmds {
		lines[i] = cmd.Text
	}
	return lines
}

func sourceRC(s *Session, rcPath string) error {
	err := s.SourceFile(rcPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
