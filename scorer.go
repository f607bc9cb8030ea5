package treedex

import "math"

// termHit is one term's contribution to a section's score: which
// original query term it traces back to (itself, for a non-prefix
// match), and whether it arrived via prefix expansion (§4.6).
type termHit struct {
	originalTerm string
	isPrefixHit  bool
}

// sectionAccumulator collects a section's running score and the
// bookkeeping needed for the co-occurrence and full-coverage bonuses.
type sectionAccumulator struct {
	score        float64
	matchedTerms map[string]struct{}
	positions    map[int]struct{}
}

func newSectionAccumulator() *sectionAccumulator {
	return &sectionAccumulator{
		matchedTerms: make(map[string]struct{}),
		positions:    make(map[int]struct{}),
	}
}

// Scorer computes BM25 scores with the boosts, bonuses, and collection
// weighting defined in §4.4.
type Scorer struct {
	params            RankingParams
	collectionWeights map[string]float64
}

// NewScorer returns a scorer using the given ranking parameters and an
// empty (all-1.0) collection weight table.
func NewScorer(params RankingParams) *Scorer {
	return &Scorer{
		params:            params,
		collectionWeights: make(map[string]float64),
	}
}

// SetCollectionWeight installs a score multiplier for collection. A
// negative weight is rejected by the caller (Engine.SetCollectionWeights),
// not here.
func (s *Scorer) SetCollectionWeight(collection string, weight float64) {
	s.collectionWeights[collection] = weight
}

func (s *Scorer) collectionWeight(collection string) float64 {
	if w, ok := s.collectionWeights[collection]; ok {
		return w
	}
	return 1.0
}

// idf computes ln((N - n_t + 0.5)/(n_t + 0.5) + 1).
func idf(totalSections, docFreq int) float64 {
	n := float64(totalSections)
	nt := float64(docFreq)
	return math.Log((n-nt+0.5)/(nt+0.5) + 1.0)
}

// lengthNorm computes 1 - b + b*(L_d/avgL).
func lengthNorm(b float64, sectionLen int, avgLen float64) float64 {
	if avgLen == 0 {
		return 1 - b
	}
	return 1 - b + b*(float64(sectionLen)/avgLen)
}

// tfNorm computes tf*(k1+1)/(tf + k1*lengthNorm).
func tfNorm(k1, tf, norm float64) float64 {
	return tf * (k1 + 1) / (tf + k1*norm)
}

// ScoreTerm computes one term's contribution (§4.4's score_td) for a
// single posting.
func (s *Scorer) ScoreTerm(totalSections int, docFreq int, sectionLen int, avgLen float64, posting *Posting) float64 {
	tf := float64(posting.TermFrequency())
	norm := lengthNorm(s.params.B, sectionLen, avgLen)
	return idf(totalSections, docFreq) * tfNorm(s.params.K1, tf, norm) * posting.Weight
}

// ScoreSections runs the full per-section accumulation described by
// §4.4 and §4.8 steps 4-6: for every expanded query term (and every
// qualifying prefix hit), accumulate weighted BM25 contributions per
// section, then apply the co-occurrence and full-coverage bonuses and
// the collection weight multiplier.
//
// collectionOf resolves a document id to its collection name, and
// sectionLenOf/docFreqOf/postingsOf expose the index's internal state
// without this package depending on the index's concrete storage.
func (s *Scorer) ScoreSections(
	originalTerms []string,
	expandedTerms []string,
	totalSections int,
	avgLen float64,
	docFreqOf func(term string) int,
	postingsOf func(term string) map[postingKey]*Posting,
	sectionLenOf func(key postingKey) int,
	collectionOf func(docID string) string,
	prefixTermsOf func(term string) []string,
	whitelistAllows func(docID string) bool,
) map[postingKey]*sectionAccumulator {
	acc := make(map[postingKey]*sectionAccumulator)

	accumulate := func(term string, originalTerm string, penalty float64) {
		docFreq := docFreqOf(term)
		if docFreq == 0 {
			return
		}
		for key, posting := range postingsOf(term) {
			if whitelistAllows != nil && !whitelistAllows(key.docID) {
				continue
			}
			a, ok := acc[key]
			if !ok {
				a = newSectionAccumulator()
				acc[key] = a
			}
			sectionLen := sectionLenOf(key)
			score := s.ScoreTerm(totalSections, docFreq, sectionLen, avgLen, posting) * penalty
			a.score += score
			a.matchedTerms[originalTerm] = struct{}{}
			for _, p := range posting.Positions {
				a.positions[p] = struct{}{}
			}
		}
	}

	for _, term := range expandedTerms {
		accumulate(term, term, 1.0)

		if len(term) >= 3 {
			for _, prefixed := range prefixTermsOf(term) {
				accumulate(prefixed, term, s.params.PrefixPenalty)
			}
		}
	}

	originalSet := make(map[string]struct{}, len(originalTerms))
	for _, t := range originalTerms {
		originalSet[t] = struct{}{}
	}

	for key, a := range acc {
		matchCount := 0
		for t := range a.matchedTerms {
			if _, ok := originalSet[t]; ok {
				matchCount++
			}
		}

		if matchCount >= 2 {
			a.score += float64(matchCount-1) * s.params.TermProximityBonus
		}
		if len(originalSet) >= 2 && matchCount == len(originalSet) {
			a.score += s.params.FullCoverageBonus
		}

		a.score *= s.collectionWeight(collectionOf(key.docID))
	}

	return acc
}
