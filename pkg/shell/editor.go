package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

// The interface the line editor has to satisfy.
type editor interface {
	ReadCode(prompt string) (string, error)
	AddHistory(line string)
	Close() error
}

// lineEditor edits lines with liner. liner always works on the process's own
// stdin and stdout, so it is only used when those are the files the program
// is given.
type lineEditor struct {
	*liner.State
}

func newLineEditor(history []string) *lineEditor {
	st := liner.NewLiner()
	st.SetCtrlCAborts(true)
	st.SetMultiLineMode(true)
	for _, line := range history {
		st.AppendHistory(line)
	}
	return &lineEditor{st}
}

func (ed *lineEditor) ReadCode(prompt string) (string, error) {
	line, err := ed.Prompt(prompt)
	if err == liner.ErrPromptAborted {
		// Ctrl-C discards the current line.
		return "", nil
	}
	return line, err
}

func (ed *lineEditor) AddHistory(line string) { ed.AppendHistory(line) }

type minEditor struct {
	in  *bufio.Reader
	out io.Writer
}

func newMinEditor(in, out *os.File) *minEditor {
	return &minEditor{bufio.NewReader(in), out}
}

func (ed *minEditor) ReadCode(prompt string) (string, error) {
	fmt.Fprint(ed.out, prompt)
	line, err := ed.in.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	return strings.TrimRight(line, "\r\n"), err
}

func (ed *minEditor) AddHistory(string) {}

func (ed *minEditor) Close() error { return nil }
