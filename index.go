package treedex

// postingKey identifies one (document, section) pair within a term's
// posting list.
type postingKey struct {
	docID  string
	nodeID string
}

// InvertedIndex maps terms to the sections that contain them, keeping
// positions and a per-term/per-section weight as required by §4.2. A
// sorted term dictionary is maintained alongside for prefix scans
// (§4.6).
type InvertedIndex struct {
	postings map[string]map[postingKey]*Posting
	dict     *TermDict
	nodeLen  map[postingKey]NodeStats
	stats    CorpusStats
}

// NewInvertedIndex returns an empty index.
func NewInvertedIndex() *InvertedIndex {
	return &InvertedIndex{
		postings: make(map[string]map[postingKey]*Posting),
		dict:     NewTermDict(1),
		nodeLen:  make(map[postingKey]NodeStats),
	}
}

// weightedToken is one tokenized position together with the raw (not
// stemmed) surface token, used to decide weighting per §4.2.
type weightedToken struct {
	stem     string
	raw      string
	position int
	inTitle  bool
}

// IndexSection tokenizes and indexes one section's content, applying
// the weight-precedence rules of §4.2: title position beats description
// match beats code-token match beats the 1.0 base weight. The weights
// are the fixed values 3.0 (title), 2.0 (description) and 1.5 (code);
// RankingParams' TitleWeight, DescriptionWeight and CodeWeight are not
// consulted.
func (idx *InvertedIndex) IndexSection(docID string, node TreeNode, description string, isFirstSection bool) {
	key := postingKey{docID: docID, nodeID: node.NodeID}

	titleTokens := Tokenize(node.Title)
	bodyTokens := Tokenize(node.Content)

	stream := make([]weightedToken, 0, len(titleTokens)+len(bodyTokens))
	for i, raw := range titleTokens {
		stream = append(stream, weightedToken{stem: Stem(raw), raw: raw, position: i, inTitle: true})
	}
	for i, raw := range bodyTokens {
		stream = append(stream, weightedToken{stem: Stem(raw), raw: raw, position: len(titleTokens) + i, inTitle: false})
	}

	idx.nodeLen[key] = NodeStats{TotalTokens: len(stream)}

	descTerms := make(map[string]struct{})
	if isFirstSection && description != "" {
		for _, t := range TokenizeAndStem(description) {
			descTerms[t] = struct{}{}
		}
	}

	type accum struct {
		positions []int
		weight    float64
	}
	perTerm := make(map[string]*accum)

	for _, wt := range stream {
		a, ok := perTerm[wt.stem]
		if !ok {
			a = &accum{}
			perTerm[wt.stem] = a
		}
		a.positions = append(a.positions, wt.position)

		weight := 1.0
		if wt.inTitle {
			weight = 3.0
		} else if _, ok := descTerms[wt.stem]; ok {
			weight = 2.0
		} else if node.CodeTokens != nil {
			if _, ok := node.CodeTokens[wt.raw]; ok {
				weight = 1.5
			}
		}
		if weight > a.weight {
			a.weight = weight
		}
	}

	for term, a := range perTerm {
		idx.upsertPosting(term, key, a.positions, a.weight)
	}

	idx.recomputeStats()
}

func (idx *InvertedIndex) upsertPosting(term string, key postingKey, positions []int, weight float64) {
	byKey, ok := idx.postings[term]
	if !ok {
		byKey = make(map[postingKey]*Posting)
		idx.postings[term] = byKey
		idx.dict.Insert(term)
	}
	byKey[key] = &Posting{
		DocID:     key.docID,
		NodeID:    key.nodeID,
		Positions: positions,
		Weight:    weight,
	}
}

// RemoveDocument deletes every posting and NodeStats entry belonging to
// docID, pruning empty term buckets (and their term-dictionary entry).
func (idx *InvertedIndex) RemoveDocument(docID string, nodeIDs []string) {
	for _, nodeID := range nodeIDs {
		key := postingKey{docID: docID, nodeID: nodeID}
		delete(idx.nodeLen, key)
	}

	for term, byKey := range idx.postings {
		for _, nodeID := range nodeIDs {
			delete(byKey, postingKey{docID: docID, nodeID: nodeID})
		}
		if len(byKey) == 0 {
			delete(idx.postings, term)
			idx.dict.Delete(term)
		}
	}

	idx.recomputeStats()
}

// DocFrequency returns n_t: the number of distinct sections containing
// term.
func (idx *InvertedIndex) DocFrequency(term string) int {
	return len(idx.postings[term])
}

// Postings returns every posting for term, or nil if the term is not
// indexed.
func (idx *InvertedIndex) Postings(term string) map[postingKey]*Posting {
	return idx.postings[term]
}

// PrefixTerms returns every indexed term that starts with prefix,
// excluding prefix itself (§4.6). Empty for prefixes shorter than 3
// characters, per the caller-enforced minimum in §4.6/§4.8.
func (idx *InvertedIndex) PrefixTerms(prefix string) []string {
	if len(prefix) < 3 {
		return nil
	}
	return idx.dict.PrefixScan(prefix)
}

// Stats returns the current corpus-wide statistics.
func (idx *InvertedIndex) Stats() CorpusStats {
	return idx.stats
}

// TermCount returns the number of distinct indexed terms.
func (idx *InvertedIndex) TermCount() int {
	return len(idx.postings)
}

func (idx *InvertedIndex) recomputeStats() {
	total := len(idx.nodeLen)
	var sum int
	for _, ns := range idx.nodeLen {
		sum += ns.TotalTokens
	}
	idx.stats.TotalSections = total
	if total == 0 {
		idx.stats.AverageSecLen = 0
		return
	}
	idx.stats.AverageSecLen = float64(sum) / float64(total)
}

func (idx *InvertedIndex) sectionLength(key postingKey) int {
	return idx.nodeLen[key].TotalTokens
}
