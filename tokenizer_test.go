package treedex

import "testing"

import "github.com/stretchr/testify/assert"

func TestTokenize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"lowercases", "Quick Brown Fox", []string{"quick", "brown", "fox"}},
		{"keeps intra-token punctuation", "parse-tree.go", []string{"parse-tree.go"}},
		{"splits on at and keeps dotted domain", "user@email.com", []string{"user", "email.com"}},
		{"discards short tokens", "a b cc", []string{"cc"}},
		{"keeps underscores", "snake_case_name", []string{"snake_case_name"}},
		{"splits on slash boundary characters kept", "pkg/sub dir", []string{"pkg/sub", "dir"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Tokenize(tc.in))
		})
	}
}

func TestStem(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"cat", "cat"},      // too short, untouched
		{"cats", "cat"},     // trailing s
		{"boxes", "box"},    // trailing es
		{"puppies", "puppy"}, // ies -> y
		{"tried", "try"},    // ied -> y
		{"running", "running"}, // ing remainder "runn" is only 4 chars, not >4, so left alone
		{"jumping", "jumping"}, // ing remainder "jump" is only 4 chars, not >4, so left alone
		{"relation", "relat"}, // tion -> t
		{"argument", "argu"}, // ends in "ment", stripped like any other ment-suffixed token
		{"movement", "move"}, // ment stripped
		{"darkness", "dark"}, // ness stripped
		{"readable", "read"}, // able stripped
		{"horrible", "horr"}, // ible stripped
		{"naturally", "natur"}, // ally stripped
		{"careful", "care"}, // ful stripped
		{"dangerous", "danger"}, // ous stripped
		{"active", "act"}, // ive stripped
		{"quickly", "quick"}, // ly stripped
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Stem(tc.in))
		})
	}
}

func TestStem_IngBoundaryKeepsRemainderLongerThanFour(t *testing.T) {
	// "jumping" -> strip "s"? no trailing s. strip "ing" -> "jump" (4 chars, not >4, so ing NOT removed)
	got := Stem("jumping")
	assert.Equal(t, "jumping", got)
}

func TestStem_IngRemovedWhenRemainderExceedsFour(t *testing.T) {
	// "trampling" -> strip "ing" -> "trampl" (6 chars, >4, removed)
	got := Stem("trampling")
	assert.Equal(t, "trampl", got)
}

func TestTokenizeAndStem_RoundTripsQueryAndIndexTerms(t *testing.T) {
	indexed := TokenizeAndStem("Running Quickly Through The Forest")
	queried := TokenizeAndStem("running quickly through the forest")
	assert.Equal(t, indexed, queried)
}

func TestStem_Deterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		assert.Equal(t, Stem("compilation"), Stem("compilation"))
	}
}
