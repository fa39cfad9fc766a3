package lines

import "strings"

// State is the block comment state carried between lines.
type State int

const (
	// Normal is outside of any block comment.
	Normal State = iota
	// InBlockComment is inside an unterminated block comment.
	InBlockComment
)

// Kind is the classification of a single line.
type Kind int

const (
	// Code is a line containing code.
	Code Kind = iota
	// Comment is a line inside or starting a comment.
	Comment
	// Blank is an empty or whitespace-only line.
	Blank
)

func (k Kind) String() string {
	switch k {
	case Code:
		return "code"
	case Comment:
		return "comment"
	case Blank:
		return "blank"
	default:
		return "unknown"
	}
}

// blockMarkers pairs block comment openers with their terminators.
//
//nolint:gochecknoglobals // Fixed marker table
var blockMarkers = []struct{ start, end string }{
	{"/*", "*/"},
	{"<!--", "-->"},
	{`"""`, `"""`},
	{"'''", "'''"},
}

// lineMarkers are single-line comment prefixes.
//
//nolint:gochecknoglobals // Fixed marker table
var lineMarkers = []string{"//", "#", "--", ";", "'", "*"}

// Step classifies line given the current state and returns the next state.
func Step(state State, line string) (Kind, State) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Blank, state
	}

	if state == InBlockComment {
		if closesBlock(trimmed) {
			return Comment, Normal
		}

		return Comment, InBlockComment
	}

	for _, m := range blockMarkers {
		if rest, ok := strings.CutPrefix(trimmed, m.start); ok {
			if closesBlock(rest) {
				return Comment, Normal
			}

			return Comment, InBlockComment
		}
	}

	for _, marker := range lineMarkers {
		if strings.HasPrefix(trimmed, marker) {
			return Comment, Normal
		}
	}

	return Code, Normal
}

// closesBlock reports whether s contains any block terminator.
func closesBlock(s string) bool {
	for _, m := range blockMarkers {
		if strings.Contains(s, m.end) {
			return true
		}
	}

	return false
}
