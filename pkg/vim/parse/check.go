package parse

import (
	"errors"

	"src.rvim.sh/pkg/diag"
	"src.rvim.sh/pkg/vim/errs"
)

// Block openers and the keywords that close them.
var closers = map[string]string{
	"if":       "endif",
	"while":    "endwhile",
	"for":      "endfor",
	"function": "endfunction",
}

// Keywords whose arguments are an expression.
var exprKeywords = map[string]bool{
	"if": true, "elseif": true, "while": true, "for": true, "let": true,
	"call": true, "echo": true, "echomsg": true, "return": true, "execute": true,
}

// Check reports the structural problems of a script without running it:
// blocks that are not closed, closing or branch keywords outside of their
// block, and unterminated strings in expressions. Parsing continues after an
// error, so all problems are reported.
func Check(src *Source) []*diag.Error {
	var (
		diags  []*diag.Error
		opened []Line
	)
	report := func(l Line, err error) {
		diags = append(diags, diag.Wrap("parse error", err, l.Context()))
	}
	t := NewTokenizer(src)
	for {
		line, ok, err := t.Next()
		if err != nil {
			diags = append(diags, asDiag(err))
			continue
		}
		if !ok {
			break
		}
		kw := line.Keyword()
		if exprKeywords[kw] && unterminatedString(line.Args) {
			report(line, errs.ErrUnterminatedString)
		}
		switch kw {
		case "if", "while", "for", "function":
			opened = append(opened, line)
		case "elseif", "else":
			if len(opened) == 0 || opened[len(opened)-1].Keyword() != "if" {
				report(line, errs.UnexpectedKeyword{Keyword: kw})
			}
		case "endif", "endwhile", "endfor", "endfunction":
			if len(opened) == 0 || closers[opened[len(opened)-1].Keyword()] != kw {
				report(line, errs.UnexpectedKeyword{Keyword: kw})
				continue
			}
			opened = opened[:len(opened)-1]
		}
	}
	for _, line := range opened {
		report(line, errs.ErrUnexpectedEOF)
	}
	return diags
}

func asDiag(err error) *diag.Error {
	var d *diag.Error
	if errors.As(err, &d) {
		return d
	}
	return &diag.Error{Type: "parse error", Message: err.Error(),
		Context: diag.Context{Ranging: diag.Ranging{From: -1, To: -1}}, Cause: err}
}

// unterminatedString reports whether s has a quote that is never closed.
func unterminatedString(s string) bool {
	var quote byte
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case quote == 0 && (c == '\'' || c == '"'):
			quote = c
		case quote != 0 && c == '\\':
			i++
		case c == quote:
			quote = 0
		}
	}
	return quote != 0
}
