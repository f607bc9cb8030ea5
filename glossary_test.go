package treedex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlossary_LoadIsBidirectional(t *testing.T) {
	g := NewGlossary()
	g.Load(map[string][]string{"js": {"javascript"}})

	assert.Equal(t, []string{"javascript"}, g.Expansions("js"))
	assert.Equal(t, []string{"js"}, g.Expansions("javascript"))
}

func TestGlossary_ExpandTerms_KeepsOriginalsEvenWithoutEntry(t *testing.T) {
	g := NewGlossary()
	expanded := g.ExpandTerms([]string{"orphan"})
	assert.Equal(t, []string{"orphan"}, expanded)
}

func TestGlossary_ExpandTerms_AddsStemmedExpansionTokens(t *testing.T) {
	g := NewGlossary()
	g.Load(map[string][]string{"ml": {"machine learning"}})

	expanded := g.ExpandTerms([]string{"ml"})
	assert.Contains(t, expanded, "ml")
	assert.Contains(t, expanded, "machine")
	assert.Contains(t, expanded, "learn") // "learning" stems via the ing-removal rule
}

func TestGlossary_ExpandTerms_Deduplicates(t *testing.T) {
	g := NewGlossary()
	g.Load(map[string][]string{"aa": {"bb"}, "cc": {"bb"}})

	expanded := g.ExpandTerms([]string{"aa", "cc"})
	count := 0
	for _, t := range expanded {
		if t == "bb" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestGlossary_ExpandTerms_MatchesMultiWordPhraseKeyBothDirections(t *testing.T) {
	g := NewGlossary()
	g.Load(map[string][]string{"CLI": {"command line interface"}})

	// Query "CLI" must expand to the tokenized+stemmed phrase.
	fromAcronym := g.ExpandTerms(TokenizeAndStem("CLI"))
	assert.Contains(t, fromAcronym, "cli")
	assert.Contains(t, fromAcronym, "command")
	assert.Contains(t, fromAcronym, "line")
	assert.Contains(t, fromAcronym, "interface")

	// Query "command line interface" must expand back to "cli", matched
	// as a contiguous window rather than against the literal phrase.
	fromPhrase := g.ExpandTerms(TokenizeAndStem("command line interface"))
	assert.Contains(t, fromPhrase, "command")
	assert.Contains(t, fromPhrase, "line")
	assert.Contains(t, fromPhrase, "interface")
	assert.Contains(t, fromPhrase, "cli")
}

func TestGlossary_Load_ReplacesPriorContents(t *testing.T) {
	g := NewGlossary()
	g.Load(map[string][]string{"aa": {"bb"}})
	g.Load(map[string][]string{"cc": {"dd"}})

	assert.Empty(t, g.Expansions("aa"))
	assert.Equal(t, []string{"dd"}, g.Expansions("cc"))
}
