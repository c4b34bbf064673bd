package eval

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mattn/go-runewidth"
	"src.rvim.sh/pkg/vim/errs"
	"src.rvim.sh/pkg/vim/vals"
)

// String functions.

func addGoFns[S State](c *Ctx[S], fns ...*GoFn[S]) {
	for _, fn := range fns {
		c.Builtin(fn.Name(), fn)
	}
}

func addStrBuiltins[S State](c *Ctx[S]) {
	addGoFns(c,
		NewGoFn[S]("char2nr", char2nr),
		NewGoFn[S]("nr2char", nr2char),
		NewGoFn[S]("tolower", strings.ToLower),
		NewGoFn[S]("toupper", strings.ToUpper),
		NewGoFn[S]("strlen", strlen),
		NewGoFn[S]("strchars", utf8.RuneCountInString),
		NewGoFn[S]("strwidth", runewidth.StringWidth),
		NewGoFn[S]("stridx", stridx).Optional(1),
		NewGoFn[S]("strridx", strridx).Optional(1),
		NewGoFn[S]("strpart", strpart).Optional(1),
		NewGoFn[S]("str2nr", str2nr).Optional(1),
		NewGoFn[S]("str2float", str2float),
		NewGoFn[S]("trim", trim).Optional(2),
		NewGoFn[S]("repeat", repeat),
		NewGoFn[S]("split", split[S]).Optional(2),
		NewGoFn[S]("join", join).Optional(1),
		NewGoFn[S]("escape", escape),
		NewGoFn[S]("match", match[S]).Optional(1),
		NewGoFn[S]("matchstr", matchstr[S]).Optional(1),
		NewGoFn[S]("substitute", substitute[S]),
		NewGoFn[S]("matchfuzzy", matchfuzzy),
		NewGoFn[S]("sha256", sha256Hex),
		NewGoFn[S]("string", vals.Repr),
		NewGoFn[S]("printf", printf),
	)
}

func char2nr(s string) int {
	if s == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s)
	return int(r)
}

func nr2char(n int) string { return string(rune(n)) }

func strlen(s string) int { return len(s) }

func stridx(haystack, needle string, start int) int {
	if start < 0 {
		start = 0
	}
	if start > len(haystack) {
		return -1
	}
	i := strings.Index(haystack[start:], needle)
	if i == -1 {
		return -1
	}
	return start + i
}

func strridx(haystack, needle string, start any) (int, error) {
	end := len(haystack)
	if start != nil {
		s, err := vals.ToInt(start)
		if err != nil {
			return 0, err
		}
		if s < 0 {
			return -1, nil
		}
		end = min(s+len(needle), len(haystack))
	}
	return strings.LastIndex(haystack[:end], needle), nil
}

// strpart returns the bytes of s from start, length bytes long or to the
// end. Parts outside of s are ignored.
func strpart(s string, start int, length any) (string, error) {
	end := len(s)
	if length != nil {
		n, err := vals.ToInt(length)
		if err != nil {
			return "", err
		}
		end = start + n
	}
	start = max(start, 0)
	end = min(end, len(s))
	if start >= end {
		return "", nil
	}
	return s[start:end], nil
}

// str2nr parses the number at the start of s. Anything after it is ignored,
// and a string without a number gives 0.
func str2nr(s string, base any) (int, error) {
	b := 10
	if base != nil {
		var err error
		if b, err = vals.ToInt(base); err != nil {
			return 0, err
		}
	}
	switch b {
	case 2, 8, 10, 16:
	default:
		return 0, errs.InvalidArgument{Func: "str2nr", Message: "base must be 2, 8, 10 or 16"}
	}
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if len(s) > 1 && s[0] == '0' {
		prefix := strings.ToLower(s[1:2])
		if b == 16 && prefix == "x" || b == 2 && prefix == "b" || b == 8 && prefix == "o" {
			s = s[2:]
		}
	}
	n := 0
	for n < len(s) && digitValue(s[n]) < b {
		n++
	}
	if n == 0 {
		return 0, nil
	}
	i, err := strconv.ParseInt(s[:n], b, 0)
	if err != nil {
		return 0, errs.InvalidArgument{Func: "str2nr", Message: err.Error()}
	}
	if neg {
		i = -i
	}
	return int(i), nil
}

func digitValue(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10
	}
	return 99
}

// str2float parses the floating point number at the start of s.
func str2float(s string) float64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	sign := 1.0
	if s != "" && (s[0] == '-' || s[0] == '+') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	switch lower := strings.ToLower(s); {
	case strings.HasPrefix(lower, "inf"):
		return sign * posInf
	case strings.HasPrefix(lower, "nan"):
		return nan
	}
	n := 0
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	if n == 0 {
		return 0
	}
	n = lexNumber(s)
	f, err := strconv.ParseFloat(strings.ReplaceAll(s[:n], "_", ""), 64)
	if err != nil {
		return 0
	}
	return sign * f
}

const defaultTrimMask = " \t\r\n\v\f "

// trim removes the characters in mask from the ends of s. dir selects the
// ends: 0 for both, 1 for the start, 2 for the end.
func trim(s string, mask any, dir any) (string, error) {
	m := defaultTrimMask
	if mask != nil && vals.ToString(mask) != "" {
		m = vals.ToString(mask)
	}
	d := 0
	if dir != nil {
		var err error
		if d, err = vals.ToInt(dir); err != nil {
			return "", err
		}
	}
	switch d {
	case 0:
		return strings.Trim(s, m), nil
	case 1:
		return strings.TrimLeft(s, m), nil
	case 2:
		return strings.TrimRight(s, m), nil
	}
	return "", errs.InvalidArgument{Func: "trim", Message: "direction must be 0, 1 or 2"}
}

// Longest string, in bytes, repeat() builds.
const maxRepeat = 1 << 28

func repeat(v any, n int) (any, error) {
	n = max(n, 0)
	if l, ok := v.(*vals.List); ok {
		elems := l.Elems()
		if n > 0 && len(elems) > maxRange/n {
			return nil, errs.InvalidArgument{Func: "repeat", Message: "result too long"}
		}
		out := make([]any, 0, len(elems)*n)
		for i := 0; i < n; i++ {
			out = append(out, elems...)
		}
		return vals.NewList(out...), nil
	}
	s := vals.ToString(v)
	if n > 0 && len(s) > maxRepeat/n {
		return nil, errs.InvalidArgument{Func: "repeat", Message: "result too long"}
	}
	return strings.Repeat(s, n), nil
}

// split splits s at the matches of a pattern, whitespace by default. Empty
// items at the ends are dropped unless keepEmpty is true.
func split[S State](c *Ctx[S], s string, pattern any, keepEmpty bool) (*vals.List, error) {
	pat := `\s\+`
	if pattern != nil {
		pat = vals.ToString(pattern)
	}
	var parts []string
	if pat == "" {
		for _, r := range s {
			parts = append(parts, string(r))
		}
	} else {
		re, err := c.regexp(pat, false)
		if err != nil {
			return nil, err
		}
		parts = re.Split(s, -1)
	}
	if !keepEmpty {
		if len(parts) > 0 && parts[0] == "" {
			parts = parts[1:]
		}
		if len(parts) > 0 && parts[len(parts)-1] == "" {
			parts = parts[:len(parts)-1]
		}
	}
	l := vals.NewList()
	for _, p := range parts {
		l.Append(p)
	}
	return l, nil
}

func join(l *vals.List, sep any) string {
	sepStr := " "
	if sep != nil {
		sepStr = vals.ToString(sep)
	}
	elems := l.Elems()
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = vals.ToString(e)
	}
	return strings.Join(parts, sepStr)
}

func escape(s, chars string) string {
	var sb strings.Builder
	for _, r := range s {
		if strings.ContainsRune(chars, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func matchFrom(start any, s string) (int, error) {
	if start == nil {
		return 0, nil
	}
	i, err := vals.ToInt(start)
	if err != nil {
		return 0, err
	}
	return min(max(i, 0), len(s)), nil
}

// match returns the byte index of the first match of pattern in s, or -1.
func match[S State](c *Ctx[S], s, pattern string, start any) (int, error) {
	from, err := matchFrom(start, s)
	if err != nil {
		return 0, err
	}
	re, err := c.regexp(pattern, false)
	if err != nil {
		return 0, err
	}
	loc := re.FindStringIndex(s[from:])
	if loc == nil {
		return -1, nil
	}
	return from + loc[0], nil
}

func matchstr[S State](c *Ctx[S], s, pattern string, start any) (string, error) {
	from, err := matchFrom(start, s)
	if err != nil {
		return "", err
	}
	re, err := c.regexp(pattern, false)
	if err != nil {
		return "", err
	}
	return re.FindString(s[from:]), nil
}

// substitute replaces the first match of pattern in s, or every match if
// flags contains "g".
func substitute[S State](c *Ctx[S], s, pattern, sub, flags string) (string, error) {
	re, err := c.regexp(pattern, false)
	if err != nil {
		return "", err
	}
	template := expandReplacement(sub)
	if strings.Contains(flags, "g") {
		return re.ReplaceAllString(s, template), nil
	}
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s, nil
	}
	dst := re.ExpandString(nil, template, s, loc)
	return s[:loc[0]] + string(dst) + s[loc[1]:], nil
}

// matchfuzzy returns the items of l that contain the characters of str in
// order, best matches first.
func matchfuzzy(l *vals.List, str string) *vals.List {
	elems := l.Elems()
	targets := make([]string, len(elems))
	for i, e := range elems {
		targets[i] = vals.ToString(e)
	}
	ranks := fuzzy.RankFindFold(str, targets)
	sort.Stable(ranks)
	out := vals.NewList()
	for _, r := range ranks {
		out.Append(elems[r.OriginalIndex])
	}
	return out
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// printf formats its arguments like the C function. The conversions d, i, o,
// x, X, c, s, S, f, F, e, E, g and G are supported, with flags, width and
// precision; a * takes the width or precision from the arguments.
func printf(format string, args ...any) (string, error) {
	var sb strings.Builder
	next := func() (any, error) {
		if len(args) == 0 {
			return nil, errs.InvalidArgument{Func: "printf", Message: "not enough arguments"}
		}
		v := args[0]
		args = args[1:]
		return v, nil
	}
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			sb.WriteByte(format[i])
			continue
		}
		spec := "%"
		for i++; i < len(format); i++ {
			c := format[i]
			if c == '*' {
				v, err := next()
				if err != nil {
					return "", err
				}
				n, err := vals.ToInt(v)
				if err != nil {
					return "", err
				}
				spec += strconv.Itoa(n)
				continue
			}
			if strings.IndexByte("-+ #0123456789.", c) == -1 {
				break
			}
			spec += string(c)
		}
		if i == len(format) {
			return "", errs.InvalidArgument{Func: "printf", Message: "incomplete format"}
		}
		conv := format[i]
		if conv == '%' {
			sb.WriteByte('%')
			continue
		}
		v, err := next()
		if err != nil {
			return "", err
		}
		switch conv {
		case 'd', 'i', 'o', 'x', 'X', 'c':
			n, err := vals.ToInt(v)
			if err != nil {
				return "", err
			}
			if conv == 'i' {
				conv = 'd'
			}
			if conv == 'c' {
				fmt.Fprintf(&sb, spec+"c", rune(n))
			} else {
				fmt.Fprintf(&sb, spec+string(conv), n)
			}
		case 's', 'S':
			fmt.Fprintf(&sb, spec+"s", vals.ToString(v))
		case 'f', 'F', 'e', 'E', 'g', 'G':
			f, err := vals.ToNum(v)
			if err != nil {
				return "", err
			}
			if conv == 'F' {
				conv = 'f'
			}
			fmt.Fprintf(&sb, spec+string(conv), f)
		default:
			return "", errs.InvalidArgument{Func: "printf", Message: "unknown conversion %" + string(conv)}
		}
	}
	if len(args) > 0 {
		return "", errs.InvalidArgument{Func: "printf", Message: "too many arguments"}
	}
	return sb.String(), nil
}
