package rewrite

import (
	"fmt"
	"regexp"
	"strings"
)

// Mode selects how the end of a catch block is located.
type Mode int

const (
	// ModeShallow ends a block at the first closing brace after the clause,
	// even when that brace closes a nested block.
	ModeShallow Mode = iota
	// ModeBalanced ends a block at the brace that matches the clause's own
	// opening brace.
	ModeBalanced
)

func (m Mode) String() string {
	switch m {
	case ModeShallow:
		return "shallow"
	case ModeBalanced:
		return "balanced"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a flag value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "shallow":
		return ModeShallow, nil
	case "balanced":
		return ModeBalanced, nil
	}
	return ModeShallow, fmt.Errorf("unknown match mode %q (want 'shallow' or 'balanced')", s)
}

// Span is a half-open byte range [Start, End) of a matched catch block.
type Span struct {
	Start int
	End   int
}

// shallowBlockRegex matches the clause and the shortest text up to the next '}'.
var shallowBlockRegex = regexp.MustCompile(regexp.QuoteMeta(ClauseAny) + `[\s\S]*?\}`)

// FindBlocks returns the non-overlapping catch blocks in content, in order.
func FindBlocks(content string, mode Mode) []Span {
	if mode == ModeBalanced {
		return findBalanced(content)
	}

	var spans []Span
	for _, loc := range shallowBlockRegex.FindAllStringIndex(content, -1) {
		spans = append(spans, Span{Start: loc[0], End: loc[1]})
	}
	return spans
}

func findBalanced(content string) []Span {
	var spans []Span
	offset := 0
	for {
		idx := strings.Index(content[offset:], ClauseAny)
		if idx < 0 {
			return spans
		}
		start := offset + idx
		bodyStart := start + len(ClauseAny)
		end := matchingBrace(content, bodyStart)
		if end < 0 {
			// Unterminated block; look for the next clause past this one.
			offset = bodyStart
			continue
		}
		spans = append(spans, Span{Start: start, End: end})
		offset = end
	}
}

// matchingBrace scans from pos, just inside an opening brace, and returns the
// index after the brace that closes it, or -1. Braces in string literals,
// template literals and comments are skipped.
func matchingBrace(s string, pos int) int {
	depth := 1
	for i := pos; i < len(s); i++ {
		switch c := s[i]; c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		case '"', '\'', '`':
			i = skipQuoted(s, i, c)
		case '/':
			if i+1 >= len(s) {
				break
			}
			switch s[i+1] {
			case '/':
				nl := strings.IndexByte(s[i:], '\n')
				if nl < 0 {
					return -1
				}
				i += nl
			case '*':
				end := strings.Index(s[i+2:], "*/")
				if end < 0 {
					return -1
				}
				i += end + 3
			}
		}
	}
	return -1
}

// skipQuoted returns the index of the quote that terminates the literal
// opened at s[start], or len(s)-1 if it never closes.
func skipQuoted(s string, start int, quote byte) int {
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case quote:
			return i
		case '\n':
			if quote != '`' {
				// Plain string literals cannot span lines.
				return i
			}
		}
	}
	return len(s) - 1
}
