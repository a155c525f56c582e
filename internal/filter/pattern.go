package filter

import (
	"regexp"
	"strings"
)

// compiledPattern is a glob compiled to a regular expression.
type compiledPattern struct {
	re       *regexp.Regexp
	original string
	anchored bool // leading "/" or an inner "/"
	dirOnly  bool // trailing "/"
}

// compilePattern compiles an rsync-style glob.
func compilePattern(pattern string) (*compiledPattern, error) {
	cp := &compiledPattern{original: pattern}

	if trimmed, ok := strings.CutSuffix(pattern, "/"); ok {
		cp.dirOnly = true
		pattern = trimmed
	}

	if trimmed, ok := strings.CutPrefix(pattern, "/"); ok {
		cp.anchored = true
		pattern = trimmed
	} else if strings.Contains(pattern, "/") {
		cp.anchored = true
	}

	expr := globToRegex(pattern) + "$"
	if cp.anchored {
		expr = "^" + expr
	} else {
		expr = "(^|/)" + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	cp.re = re
	return cp, nil
}

func (cp *compiledPattern) match(relPath string, isDir bool) bool {
	if cp.dirOnly && !isDir {
		return false
	}
	return cp.re.MatchString(relPath)
}

// globToRegex translates glob syntax: "*" stays within a segment, "**"
// crosses segments, "?" is one non-separator byte, "[...]" is a class
// with "!" for negation.
//
//nolint:gocyclo,revive // cognitive-complexity: character-by-character glob parser
func globToRegex(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		c := pattern[i]
		switch {
		case strings.HasPrefix(pattern[i:], "**/"):
			b.WriteString("(.*/)?")
			i += 3
		case strings.HasPrefix(pattern[i:], "**"):
			b.WriteString(".*")
			i += 2
		case c == '*':
			b.WriteString("[^/]*")
			i++
		case c == '?':
			b.WriteString("[^/]")
			i++
		case c == '[':
			end := classEnd(pattern, i)
			if end < 0 {
				b.WriteString(`\[`)
				i++
				continue
			}
			class := pattern[i+1 : end]
			if rest, ok := strings.CutPrefix(class, "!"); ok {
				class = "^" + rest
			}
			b.WriteString("[" + class + "]")
			i = end + 1
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
			i++
		}
	}
	return b.String()
}

// classEnd returns the index of the "]" closing the class opened at
// start, or -1. A "]" right after "[" or "[!" is a literal member.
func classEnd(pattern string, start int) int {
	j := start + 1
	if j < len(pattern) && pattern[j] == '!' {
		j++
	}
	if j < len(pattern) && pattern[j] == ']' {
		j++
	}
	for ; j < len(pattern); j++ {
		if pattern[j] == ']' {
			return j
		}
	}
	return -1
}
