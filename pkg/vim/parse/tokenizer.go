package parse

import (
	"strings"

	"src.rvim.sh/pkg/diag"
)

// Lines is a source of logical lines. Next returns false when the source is
// exhausted. Clone returns an independent cursor at the same position, which
// is how loop bodies are run more than once.
type Lines interface {
	Next() (Line, bool, error)
	Clone() Lines
}

// Tokenizer reads logical lines from script text.
type Tokenizer struct {
	src *Source
	pos int
}

// NewTokenizer creates a Tokenizer at the start of src.
func NewTokenizer(src *Source) *Tokenizer {
	return &Tokenizer{src: src}
}

// Next returns the next line that carries a statement. Errors are returned as
// *diag.Error pointing at the offending line.
func (t *Tokenizer) Next() (Line, bool, error) {
	for t.pos < len(t.src.Code) {
		from, to, text := t.scan()
		line, ok, err := ParseLine(text)
		if err != nil {
			ctx := diag.NewContext(t.src.Name, t.src.Code, diag.Ranging{From: from, To: to})
			return Line{}, false, diag.Wrap("parse error", err, ctx)
		}
		if ok {
			line.Src, line.From, line.To = t.src, from, to
			return line, true, nil
		}
	}
	return Line{}, false, nil
}

// Clone returns a Tokenizer at the same position.
func (t *Tokenizer) Clone() Lines {
	c := *t
	return &c
}

// scan reads the raw text of the next logical line, with continuations joined
// and escaped bars unescaped, and advances past its terminator.
func (t *Tokenizer) scan() (from, to int, text string) {
	code := t.src.Code
	i := t.pos
	for i < len(code) && isSpace(code[i]) {
		i++
	}
	from = i
	if i < len(code) && code[i] == '"' {
		end := strings.IndexByte(code[i:], '\n')
		if end == -1 {
			t.pos = len(code)
			return from, len(code), code[from:]
		}
		t.pos = i + end + 1
		return from, i + end, code[from : i+end]
	}

	var sb strings.Builder
	var quote byte
	var last byte
	for i < len(code) {
		c := code[i]
		if quote != 0 && c != '\n' {
			switch {
			case c == '\\' && i+1 < len(code) && code[i+1] != '\n':
				sb.WriteString(code[i : i+2])
				i += 2
				continue
			case c == quote:
				quote = 0
			}
			sb.WriteByte(c)
			last = c
			i++
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '|':
			if last == '\\' {
				dropBackslash(&sb, false)
				sb.WriteByte('|')
				last = '|'
				i++
				continue
			}
			if i+1 < len(code) && code[i+1] == '|' {
				sb.WriteString("||")
				last = '|'
				i += 2
				continue
			}
			t.pos = i + 1
			return t.trim(from, i, sb.String())
		case '\n':
			quote = 0
			if last == '\\' {
				dropBackslash(&sb, true)
				sb.WriteByte(' ')
				last = ' '
				i++
				continue
			}
			if j := continuation(code, i+1); j > 0 {
				sb.WriteByte(' ')
				i = j
				continue
			}
			t.pos = i + 1
			return t.trim(from, i, sb.String())
		}
		sb.WriteByte(c)
		if !isSpace(c) {
			last = c
		}
		i++
	}
	t.pos = len(code)
	return t.trim(from, len(code), sb.String())
}

// trim strips trailing whitespace from a line, in both its text and its range.
func (t *Tokenizer) trim(from, to int, text string) (int, int, string) {
	for to > from && isSpace(t.src.Code[to-1]) {
		to--
	}
	return from, to, strings.TrimRight(text, " \t\r")
}

// dropBackslash removes the last backslash written to sb, along with any
// whitespace after it and, if before is true, before it.
func dropBackslash(sb *strings.Builder, before bool) {
	s := strings.TrimRight(sb.String(), " \t\r")
	s = s[:len(s)-1]
	if before {
		s = strings.TrimRight(s, " \t")
	}
	sb.Reset()
	sb.WriteString(s)
}

// continuation returns the index after the leading backslash of the line
// starting at i, or -1 if that line does not start with a backslash.
func continuation(code string, i int) int {
	for i < len(code) && (code[i] == ' ' || code[i] == '\t') {
		i++
	}
	if i < len(code) && code[i] == '\\' && (i+1 == len(code) || code[i+1] != '|') {
		return i + 1
	}
	return -1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Replay yields previously captured lines.
type Replay struct {
	lines []Line
	i     int
}

// NewReplay creates a Replay over lines. The slice is not copied and must not
// be modified afterwards.
func NewReplay(lines []Line) *Replay {
	return &Replay{lines: lines}
}

// Next returns the next captured line.
func (r *Replay) Next() (Line, bool, error) {
	if r.i >= len(r.lines) {
		return Line{}, false, nil
	}
	r.i++
	return r.lines[r.i-1], true, nil
}

// Clone returns a Replay at the same position.
func (r *Replay) Clone() Lines {
	c := *r
	return &c
}

// All reads all remaining lines from a source.
func All(ls Lines) ([]Line, error) {
	var lines []Line
	for {
		line, ok, err := ls.Next()
		if err != nil {
			return lines, err
		}
		if !ok {
			return lines, nil
		}
		lines = append(lines, line)
	}
}
