package treedex

import "strings"

// Glossary holds a bidirectional term-expansion table: if A expands to
// B, then B also expands to A (§4.5, §3). Entries are keyed on their
// tokenized+stemmed form rather than the raw phrase, so a multi-word
// key like "command line interface" matches the same token sequence a
// query produces, not the literal untokenized string. Values stay the
// raw phrases as supplied by the caller; those are tokenized+stemmed
// again at expansion time.
type Glossary struct {
	expansions   map[string][]string
	maxKeyTokens int
}

// NewGlossary returns an empty glossary.
func NewGlossary() *Glossary {
	return &Glossary{expansions: make(map[string][]string)}
}

// glossaryKey normalizes a raw term or phrase into the space-joined
// stemmed tokens used as the lookup key, so storage and query-time
// lookups agree regardless of how many words the entry spans.
func glossaryKey(phrase string) string {
	return strings.Join(TokenizeAndStem(phrase), " ")
}

// Load replaces the glossary's contents with entries, making every
// mapping bidirectional: entries["A"] = []string{"B"} also installs
// B -> A.
func (g *Glossary) Load(entries map[string][]string) {
	g.expansions = make(map[string][]string)
	g.maxKeyTokens = 0
	for term, phrases := range entries {
		for _, phrase := range phrases {
			g.add(glossaryKey(term), phrase)
			g.add(glossaryKey(phrase), term)
		}
	}
}

func (g *Glossary) add(key, value string) {
	if key == "" {
		return
	}
	for _, existing := range g.expansions[key] {
		if existing == value {
			return
		}
	}
	g.expansions[key] = append(g.expansions[key], value)
	if n := strings.Count(key, " ") + 1; n > g.maxKeyTokens {
		g.maxKeyTokens = n
	}
}

// Expansions returns the raw phrases term expands to, if any.
func (g *Glossary) Expansions(term string) []string {
	return g.expansions[glossaryKey(term)]
}

// ExpandTerms takes a set of already tokenized+stemmed query terms and
// returns the union of the original terms with every glossary expansion
// (tokenized and stemmed in turn), de-duplicated. Original terms are
// always present in the result even if the glossary has no entry for
// them. Glossary keys may span multiple tokens (e.g. "command line
// interface"), so every contiguous window of originalTerms up to the
// widest stored key is checked, not just single terms.
func (g *Glossary) ExpandTerms(originalTerms []string) []string {
	seen := make(map[string]struct{}, len(originalTerms))
	out := make([]string, 0, len(originalTerms))

	add := func(t string) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	for _, term := range originalTerms {
		add(term)
	}

	n := len(originalTerms)
	for size := 1; size <= g.maxKeyTokens && size <= n; size++ {
		for start := 0; start+size <= n; start++ {
			key := strings.Join(originalTerms[start:start+size], " ")
			for _, phrase := range g.expansions[key] {
				for _, expanded := range TokenizeAndStem(phrase) {
					add(expanded)
				}
			}
		}
	}

	return out
}
