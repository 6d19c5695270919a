package core

import "regexp"

// Amount patterns tried in priority order. Only the first pattern that
// matches anywhere in the text is used, and only its first match counts.
// The final catch-all matches any bare number, including ones embedded in
// unrelated words or IDs; that imprecision is accepted.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$(\d+\.?\d*)`),              // $10.50
	regexp.MustCompile(`(?i)(\d+\.?\d*)\s*dollars?`), // 10 dollars
	regexp.MustCompile(`(?i)(\d+\.?\d*)\s*usd`),      // 10 USD
	regexp.MustCompile(`(\d+\.?\d*)`),                // any bare number
}

// ExtractAmount pulls a monetary amount out of free text. Negative numbers
// are never recognized (the patterns match digits only) and zero is returned
// as-is: positivity is validated at the orchestration layer, not here. The
// second return value reports whether any pattern matched. If a matched
// substring cannot be parsed, the next pattern is tried.
func ExtractAmount(text string) (Money, bool) {
	for _, re := range amountPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		cents, err := parseCents(m[1])
		if err != nil {
			continue
		}
		return Money{Cents: cents}, true
	}
	return Money{}, false
}
