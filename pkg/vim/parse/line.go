// Package parse splits Vim script text into logical lines.
//
// A logical line is one statement: a range prefix, a command name, an optional
// bang and the remaining argument text. Lines are separated by newlines and
// bars. The separators are not recognized inside quoted strings, after a
// backslash, or as part of the "||" operator. A line whose first character is
// a double quote is a comment.
package parse

import (
	"strings"
	"unicode"

	"src.rvim.sh/pkg/diag"
)

// Source is the text of a script and its name, used in error messages.
type Source struct {
	Name string
	Code string
}

// Line is one logical statement.
//
// Lines do not share memory with any mutable state, so a captured Line can be
// replayed any number of times.
type Line struct {
	Range   Range
	Command string
	Bang    bool
	Args    string

	// Src is the source the line was read from, and From and To the byte range
	// of the line within Src.Code. Src is nil for lines built by ParseLine.
	Src      *Source
	From, To int
}

// ParseLine decomposes the text of one logical line. The second return value
// is false for lines that carry no statement: blank lines, comments and lines
// with only a range.
func ParseLine(text string) (Line, bool, error) {
	text = strings.TrimLeftFunc(text, unicode.IsSpace)
	text = strings.TrimLeft(text, ":")
	if strings.HasPrefix(text, `"`) {
		return Line{}, false, nil
	}
	r, text, err := splitRange(text)
	if err != nil {
		return Line{}, false, err
	}
	command, text := splitCommand(text)
	bang := strings.HasPrefix(text, "!")
	if bang {
		text = text[1:]
	}
	if command == "" && !bang {
		return Line{}, false, nil
	}
	args := strings.TrimLeftFunc(text, unicode.IsSpace)
	return Line{Range: r, Command: command, Bang: bang, Args: args}, true, nil
}

// splitCommand splits off the maximal alphanumeric prefix.
func splitCommand(s string) (string, string) {
	for i, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return s[:i], s[i:]
		}
	}
	return s, ""
}

// Keyword returns the full name of the command, expanding abbreviations of
// the commands the engine knows about. Other names are returned unchanged.
func (l Line) Keyword() string { return Keyword(l.Command) }

// Context returns the source context of the line, or nil if the line was not
// read from a source.
func (l Line) Context() *diag.Context {
	if l.Src == nil {
		return nil
	}
	return diag.NewContext(l.Src.Name, l.Src.Code, diag.Ranging{From: l.From, To: l.To})
}

// String returns the line in its canonical textual form.
func (l Line) String() string {
	var sb strings.Builder
	sb.WriteString(l.Range.String())
	sb.WriteString(l.Command)
	if l.Bang {
		sb.WriteByte('!')
	}
	if l.Args != "" {
		sb.WriteByte(' ')
		sb.WriteString(l.Args)
	}
	return sb.String()
}

// Abbreviation table: a command may be shortened to any prefix that is at
// least min bytes long.
var keywords = []struct {
	name string
	min  int
}{
	{"function", 2},
	{"endfunction", 4},
	{"if", 2},
	{"elseif", 5},
	{"else", 2},
	{"endif", 2},
	{"while", 2},
	{"endwhile", 4},
	{"for", 3},
	{"endfor", 5},
	{"let", 3},
	{"unlet", 3},
	{"call", 3},
	{"echo", 2},
	{"echomsg", 5},
	{"execute", 3},
	{"finish", 4},
	{"exit", 3},
	{"return", 4},
	{"silent", 3},
	{"unsilent", 3},
	{"break", 4},
	{"continue", 3},
	{"source", 2},
	{"set", 2},
}

// Keyword expands an abbreviated command name.
func Keyword(name string) string {
	for _, kw := range keywords {
		if len(name) >= kw.min && strings.HasPrefix(kw.name, name) {
			return kw.name
		}
	}
	return name
}

// Keywords returns the full names of the commands that can be abbreviated.
func Keywords() []string {
	names := make([]string, len(keywords))
	for i, kw := range keywords {
		names[i] = kw.name
	}
	return names
}
