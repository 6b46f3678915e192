package classify

import "regexp"

// Progressively shorter dotted-number prefixes: "2.1.3.4" before "2.1.3"
// before "2.1" before "2".
var numberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d+\.\d+\.\d+\.\d+)`),
	regexp.MustCompile(`^(\d+\.\d+\.\d+)`),
	regexp.MustCompile(`^(\d+\.\d+)`),
	regexp.MustCompile(`^(\d+)`),
}

var fasePattern = regexp.MustCompile(`(?i)^fase\s+(\d+)`)

// Strips a leading numeric/punctuation prefix ("2.1.3 - " or "04: ") so the
// descriptive remainder of a folder name can be compared on its own.
var barePrefixPattern = regexp.MustCompile(`^\d+[.\d]*\s*[-:]?\s*`)

// extractNumber pulls a leading dotted-numeric token out of text and
// resolves it through the alias table. An alias hit short-circuits the
// shorter patterns, including explicit no-match aliases that yield "".
// Without an alias, the token must be an exact vocabulary key; otherwise
// the next (shorter) pattern is tried.
func (c *Classifier) extractNumber(text string) string {
	for _, pattern := range numberPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		num := m[1]
		if target, ok := c.aliases[num]; ok {
			return target
		}
		if c.index.Has(num) {
			return num
		}
	}
	return ""
}
