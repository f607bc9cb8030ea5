package treedex

import "strings"

// Tokenize splits text into lowercase tokens. A character is kept as part
// of a token if it is a letter, digit, underscore, hyphen, period, or
// forward slash; every other character is a delimiter. Tokens shorter
// than two characters are discarded.
//
//	"Parse-Tree.go"   -> ["parse-tree.go"]
//	"user@email.com"  -> ["user", "email.com"]
//	"a b cc"          -> ["cc"]
func Tokenize(text string) []string {
	lower := strings.ToLower(text)

	raw := strings.FieldsFunc(lower, func(r rune) bool {
		return !isTokenRune(r)
	})

	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if len(tok) >= 2 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func isTokenRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-' || r == '.' || r == '/':
		return true
	default:
		return false
	}
}

// Stem reduces a token to its root form via a fixed, deterministic
// sequence of suffix rewrites. Unlike a Snowball/Porter2 stemmer this
// has no language-model heuristics: the same input always rewrites the
// same way, which is required for round-tripping query terms back onto
// the terms stored at index time.
//
// Tokens shorter than four characters are returned unchanged. Rules are
// tried in this fixed order:
//
//	ies -> y
//	ied -> y
//	trailing es/s dropped (a trailing ss is kept)
//	ing dropped, but only when the remaining stem is longer than 4 chars
//	tion -> t, then: ment, ness, able, ible, ally, ful, ous, ive, ly
//
// The first four rules end stemming when one fires. Removing ing does
// not: the result still goes through the suffix list, of which only the
// first matching entry is applied.
func Stem(token string) string {
	if len(token) < 4 {
		return token
	}

	switch {
	case strings.HasSuffix(token, "ies"):
		return token[:len(token)-3] + "y"
	case strings.HasSuffix(token, "ied"):
		return token[:len(token)-3] + "y"
	case strings.HasSuffix(token, "es"):
		return token[:len(token)-2]
	case strings.HasSuffix(token, "s") && !strings.HasSuffix(token, "ss"):
		return token[:len(token)-1]
	}

	if strings.HasSuffix(token, "ing") {
		stem := token[:len(token)-3]
		if len(stem) > 4 {
			token = stem
		}
	}

	suffixRewrites := []struct {
		suffix      string
		replacement string
	}{
		{"tion", "t"},
		{"ment", ""},
		{"ness", ""},
		{"able", ""},
		{"ible", ""},
		{"ally", ""},
		{"ful", ""},
		{"ous", ""},
		{"ive", ""},
		{"ly", ""},
	}

	for _, rewrite := range suffixRewrites {
		if strings.HasSuffix(token, rewrite.suffix) {
			return token[:len(token)-len(rewrite.suffix)] + rewrite.replacement
		}
	}

	return token
}

// TokenizeAndStem runs Tokenize followed by Stem on every resulting
// token. It is the single pipeline used for both indexing and querying,
// so that a term survives matchable on both sides.
func TokenizeAndStem(text string) []string {
	tokens := Tokenize(text)
	stemmed := make([]string, len(tokens))
	for i, tok := range tokens {
		stemmed[i] = Stem(tok)
	}
	return stemmed
}
