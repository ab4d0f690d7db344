// Package reference extracts message identifiers from reply-linkage headers.
package reference

import (
	"regexp"
	"strings"
)

var msgidPattern = regexp.MustCompile(`<(.*?)>`)

// ParseMessageIDs returns the message identifiers found in an In-Reply-To
// header value, in order of appearance. Identifiers are the contents of
// angle-bracket tokens with no further normalization. Input with no bracket
// matches yields an empty result.
func ParseMessageIDs(raw string) []string {
	matches := msgidPattern.FindAllStringSubmatch(raw, -1)
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m[1])
	}
	return ids
}

// ParseReferences returns the de-duplicated, order-preserving message
// identifiers from a References header value. All whitespace is collapsed
// first so identifiers split across folded lines are rejoined.
func ParseReferences(raw string) []string {
	joined := strings.Join(strings.Fields(raw), "")
	matches := msgidPattern.FindAllStringSubmatch(joined, -1)
	ids := make([]string, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		ids = append(ids, m[1])
	}
	return ids
}
