package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMessageIDs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"single id", "<a@example.com>", []string{"a@example.com"}},
		{"multiple ids in order", "<a@x> <b@y>", []string{"a@x", "b@y"}},
		{"surrounding text", "Your message <a@x> of Monday", []string{"a@x"}},
		{"duplicates preserved", "<a@x> <a@x>", []string{"a@x", "a@x"}},
		{"empty input", "", []string{}},
		{"no brackets", "a@example.com", []string{}},
		{"unclosed bracket", "<a@example.com", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMessageIDs(tt.raw))
		})
	}
}

func TestParseReferences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"simple sequence", "<a@x> <b@y>", []string{"a@x", "b@y"}},
		{"folded line rejoined", "<a@x>\n <b@y>", []string{"a@x", "b@y"}},
		{"id split across fold", "<a@\n x> <b@y>", []string{"a@x", "b@y"}},
		{"de-duplicated", "<a@x> <a@x> <b@y>", []string{"a@x", "b@y"}},
		{"order preserved", "<c@z> <a@x> <c@z>", []string{"c@z", "a@x"}},
		{"empty input", "", []string{}},
		{"malformed input", "no brackets here", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseReferences(tt.raw))
		})
	}
}

func TestParseReferencesWhitespaceIdempotent(t *testing.T) {
	folded := ParseReferences("<a@x>\n <b@y>")
	flat := ParseReferences("<a@x> <b@y>")
	assert.Equal(t, flat, folded)
}
