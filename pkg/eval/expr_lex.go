package eval

import (
	"strings"

	"src.rvim.sh/pkg/vim/errs"
	"src.rvim.sh/pkg/vim/vals"
)

type tokenKind int

const (
	// A value: a literal, or a name that has been looked up.
	valueTok tokenKind = iota
	// An operator or punctuation.
	opTok
	// A name that is yet to be looked up.
	nameTok
	// A name followed by "(", to be called.
	callTok
	// An &option read, yet to be looked up.
	optionTok
)

type token struct {
	kind tokenKind
	// The operator or the name, for tokens other than values.
	text string
	val  any
}

func valueToken(v any) token { return token{kind: valueTok, val: v} }

func (t token) isValue() bool { return t.kind == valueTok }

func (t token) isOp(ops ...string) bool {
	if t.kind != opTok {
		return false
	}
	for _, op := range ops {
		if t.text == op {
			return true
		}
	}
	return false
}

// Operators of two characters. The comparison operators may be followed by #
// (match case) or ? (ignore case).
var twoCharOps = []string{"==", "!=", "<=", ">=", "=~", "!~", "..", "&&", "||"}

const oneCharOps = "+-*/%.!<>,[]{}():"

func isComparison(op string) bool {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=", "=~", "!~":
		return true
	}
	return false
}

func isNameStart(c byte) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isNameChar(c byte) bool {
	return isNameStart(c) || isDigit(c) || c == ':' || c == '#'
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// lex splits an expression into tokens. Names followed by "(" become call
// sites.
func lex(s string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '\'':
			str, n, err := lexSingleQuoted(s[i:])
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, valueToken(str))
			i += n
		case c == '"':
			str, n, err := lexDoubleQuoted(s[i:])
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, valueToken(str))
			i += n
		case isDigit(c):
			n := lexNumber(s[i:])
			v, err := vals.ParseNum(s[i : i+n])
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, valueToken(v))
			i += n
		case isNameStart(c):
			j := i + 1
			for j < len(s) && isNameChar(s[j]) {
				j++
			}
			tokens = append(tokens, token{kind: nameTok, text: s[i:j]})
			i = j
		case c == '&' && i+1 < len(s) && isNameStart(s[i+1]):
			j := i + 1
			for j < len(s) && (isNameStart(s[j]) || s[j] == ':') {
				j++
			}
			tokens = append(tokens, token{kind: optionTok, text: s[i+1 : j]})
			i = j
		default:
			op := lexOp(s[i:])
			if op == "" {
				return nil, errs.ErrUnexpectedSymbol
			}
			tokens = append(tokens, token{kind: opTok, text: op})
			i += len(op)
		}
	}
	for i := range tokens {
		if tokens[i].kind == nameTok && i+1 < len(tokens) && tokens[i+1].isOp("(") {
			tokens[i].kind = callTok
		}
	}
	return tokens, nil
}

// lexOp returns the operator at the start of s, or "" if there is none.
func lexOp(s string) string {
	op := ""
	for _, two := range twoCharOps {
		if strings.HasPrefix(s, two) {
			op = two
			break
		}
	}
	if op == "" && strings.IndexByte(oneCharOps, s[0]) >= 0 {
		op = s[:1]
	}
	if isComparison(op) && len(s) > len(op) && (s[len(op)] == '#' || s[len(op)] == '?') {
		op = s[:len(op)+1]
	}
	return op
}

// lexSingleQuoted lexes a single-quoted string at the start of s, returning
// its value and length. Only \' is an escape sequence.
func lexSingleQuoted(s string) (string, int, error) {
	var sb strings.Builder
	for i := 1; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s) && s[i+1] == '\'':
			sb.WriteByte('\'')
			i++
		case s[i] == '\'':
			return sb.String(), i + 1, nil
		default:
			sb.WriteByte(s[i])
		}
	}
	return "", 0, errs.ErrUnterminatedString
}

var doubleQuotedEscapes = map[byte]string{
	'n': "\n", 't': "\t", 'r': "\r", 'e': "\x1b", '\\': "\\", '"': "\"",
}

// lexDoubleQuoted lexes a double-quoted string at the start of s, returning
// its value and length. Backslashes before other characters are dropped.
func lexDoubleQuoted(s string) (string, int, error) {
	var sb strings.Builder
	for i := 1; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s):
			i++
			if e, ok := doubleQuotedEscapes[s[i]]; ok {
				sb.WriteString(e)
			} else {
				sb.WriteByte(s[i])
			}
		case s[i] == '"':
			return sb.String(), i + 1, nil
		default:
			sb.WriteByte(s[i])
		}
	}
	return "", 0, errs.ErrUnterminatedString
}

// lexNumber returns the length of the numeric literal at the start of s.
func lexNumber(s string) int {
	if len(s) > 2 && s[0] == '0' {
		var ok func(byte) bool
		switch s[1] {
		case 'x', 'X':
			ok = func(c byte) bool {
				return isDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
			}
		case 'o', 'O':
			ok = func(c byte) bool { return '0' <= c && c <= '7' }
		case 'b', 'B':
			ok = func(c byte) bool { return c == '0' || c == '1' }
		}
		if ok != nil {
			i := 2
			for i < len(s) && (ok(s[i]) || s[i] == '_') {
				i++
			}
			return i
		}
	}
	i := 0
	for i < len(s) && (isDigit(s[i]) || s[i] == '_') {
		i++
	}
	if i+1 < len(s) && s[i] == '.' && isDigit(s[i+1]) {
		i += 2
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return i
}
