package parse

import (
	"strconv"

	"src.rvim.sh/pkg/vim/errs"
)

// RangeKind is the shape of a command range.
type RangeKind int

// Range kinds.
const (
	// CurrentLine is the default when no range is given. A bare line number
	// "N" is also a CurrentLine range, with Start set to N.
	CurrentLine RangeKind = iota
	// Whole is "%" or a bare ",".
	Whole
	// Select is "/pattern/".
	Select
	// RangeFrom is "N,".
	RangeFrom
	// RangeTo is ",N".
	RangeTo
	// Span is "N,M".
	Span
)

// Range is the range prefix of a command.
type Range struct {
	Kind    RangeKind
	Pattern string
	Start   int
	End     int
}

func (r Range) String() string {
	switch r.Kind {
	case Whole:
		return "%"
	case Select:
		return "/" + r.Pattern + "/"
	case CurrentLine:
		if r.Start > 0 {
			return strconv.Itoa(r.Start)
		}
	case RangeFrom:
		return strconv.Itoa(r.Start) + ","
	case RangeTo:
		return "," + strconv.Itoa(r.End)
	case Span:
		return strconv.Itoa(r.Start) + "," + strconv.Itoa(r.End)
	}
	return ""
}

// IsCurrentLine reports whether no range, or only a bare line number, was
// given.
func (r Range) IsCurrentLine() bool { return r.Kind == CurrentLine }

// splitRange parses the range prefix of a line, returning the range and the
// rest of the line.
func splitRange(s string) (Range, string, error) {
	if s == "" {
		return Range{}, s, nil
	}
	switch s[0] {
	case '/':
		for i := 1; i < len(s); i++ {
			switch s[i] {
			case '\\':
				i++
			case '/':
				return Range{Kind: Select, Pattern: s[1:i]}, s[i+1:], nil
			}
		}
		return Range{}, "", errs.Expected{Token: "/"}
	case '%':
		return Range{Kind: Whole}, s[1:], nil
	case ',':
		n, rest := leadingInt(s[1:])
		if n < 0 {
			return Range{Kind: Whole}, rest, nil
		}
		return Range{Kind: RangeTo, End: n}, rest, nil
	}
	start, rest := leadingInt(s)
	if start < 0 {
		return Range{}, s, nil
	}
	if rest == "" || rest[0] != ',' {
		return Range{Kind: CurrentLine, Start: start}, rest, nil
	}
	end, rest := leadingInt(rest[1:])
	if end < 0 {
		return Range{Kind: RangeFrom, Start: start}, rest, nil
	}
	return Range{Kind: Span, Start: start, End: end}, rest, nil
}

// leadingInt parses the decimal digits at the start of s. It returns -1 if s
// does not start with a digit.
func leadingInt(s string) (int, string) {
	i := 0
	for i < len(s) && '0' <= s[i] && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return -1, s
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return -1, s
	}
	return n, s[i:]
}
