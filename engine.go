package treedex

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring"
)

// Engine is the retrieval engine's single entry point: it owns one
// DocumentStore, one InvertedIndex, one FilterIndex, one Glossary, and
// one Scorer behind a single sync.RWMutex (§5's single-writer/
// many-reader model — no sub-component takes its own lock).
type Engine struct {
	mu        sync.RWMutex
	store     *DocumentStore
	index     *InvertedIndex
	filter    *FilterIndex
	glossary  *Glossary
	scorer    *Scorer
	handles   *handleRegistry
	hashes    map[string]string // docID -> last-indexed content hash
	logger    *slog.Logger
	limit     int
}

// NewEngine returns an empty engine using default ranking parameters.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:    NewDocumentStore(),
		index:    NewInvertedIndex(),
		filter:   NewFilterIndex(),
		glossary: NewGlossary(),
		scorer:   NewScorer(DefaultRankingParams()),
		handles:  newHandleRegistry(),
		hashes:   make(map[string]string),
		logger:   logger,
		limit:    20,
	}
}

// Load replaces all engine state with documents.
func (e *Engine) Load(documents []IndexedDocument) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, doc := range documents {
		if err := Validate(doc); err != nil {
			e.logger.Warn("rejected document during load", "doc_id", doc.Meta.DocID, "error", err)
			return err
		}
	}

	e.store = NewDocumentStore()
	e.index = NewInvertedIndex()
	e.filter = NewFilterIndex()
	e.handles = newHandleRegistry()
	e.hashes = make(map[string]string)

	for _, doc := range documents {
		if err := e.addLocked(doc); err != nil {
			e.logger.Warn("rejected document during load", "doc_id", doc.Meta.DocID, "error", err)
			return err
		}
	}
	return nil
}

// Add inserts or replaces one document.
func (e *Engine) Add(doc IndexedDocument) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addLocked(doc)
}

func (e *Engine) addLocked(doc IndexedDocument) error {
	if err := Validate(doc); err != nil {
		e.logger.Warn("rejected document", "doc_id", doc.Meta.DocID, "error", err)
		return err
	}

	if prev := e.store.Get(doc.Meta.DocID); prev != nil {
		e.removeLocked(doc.Meta.DocID)
	}

	e.store.Put(doc)

	handle := e.handles.handleFor(doc.Meta.DocID)
	e.filter.InsertDocumentFacets(doc.Meta, handle)

	for i, node := range doc.Nodes {
		e.index.IndexSection(doc.Meta.DocID, node, doc.Meta.Description, i == 0)
	}

	e.hashes[doc.Meta.DocID] = doc.Meta.ContentHash
	return nil
}

// Remove deletes a document and all of its postings/filter entries.
func (e *Engine) Remove(docID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.removeLocked(docID)
}

func (e *Engine) removeLocked(docID string) error {
	rec := e.store.Get(docID)
	if rec == nil {
		return ErrDocumentNotFound
	}

	nodeIDs := make([]string, 0, len(rec.nodes))
	for id := range rec.nodes {
		nodeIDs = append(nodeIDs, id)
	}
	e.index.RemoveDocument(docID, nodeIDs)

	if handle, ok := e.handles.lookup(docID); ok {
		e.filter.RemoveDocumentFacets(rec.meta, handle)
		e.handles.forget(docID)
	}

	e.store.Delete(docID)
	delete(e.hashes, docID)
	return nil
}

// NeedsReindex reports whether docID's last-indexed hash differs from
// hash (or is absent entirely), per §4.10's content-hash skip. The
// lookup is by document id; DocumentMeta.Path is not consulted.
func (e *Engine) NeedsReindex(docID, hash string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	stored, ok := e.hashes[docID]
	return !ok || stored != hash
}

// Search runs the full pipeline of §4.8.
func (e *Engine) Search(query string, opts SearchOptions) []SearchResult {
	e.mu.RLock()
	defer e.mu.RUnlock()

	original := TokenizeAndStem(query)
	if len(original) == 0 {
		return nil
	}

	expanded := e.glossary.ExpandTerms(original)

	constraints := make(map[string][]string, len(opts.Filters)+2)
	for k, v := range opts.Filters {
		constraints[k] = v
	}
	if opts.Collection != "" {
		constraints["collection"] = []string{opts.Collection}
	}

	whitelist := e.filter.Resolve(constraints)
	if whitelist != nil && whitelist.IsEmpty() {
		return nil
	}

	whitelistAllows := func(docID string) bool {
		if opts.DocID != "" && docID != opts.DocID {
			return false
		}
		if whitelist == nil {
			return true
		}
		handle, ok := e.handles.lookup(docID)
		if !ok {
			return false
		}
		return whitelist.Contains(handle)
	}

	stats := e.index.Stats()
	accum := e.scorer.ScoreSections(
		original,
		expanded,
		stats.TotalSections,
		stats.AverageSecLen,
		e.index.DocFrequency,
		e.index.Postings,
		e.index.sectionLength,
		func(docID string) string {
			if rec := e.store.Get(docID); rec != nil {
				return rec.meta.Collection
			}
			return ""
		},
		e.index.PrefixTerms,
		whitelistAllows,
	)

	originalSet := make(map[string]struct{}, len(original))
	for _, t := range original {
		originalSet[t] = struct{}{}
	}

	results := make([]SearchResult, 0, len(accum))
	for key, a := range accum {
		rec := e.store.Get(key.docID)
		if rec == nil {
			continue
		}
		node, ok := rec.nodes[key.nodeID]
		if !ok {
			continue
		}

		positions := make([]int, 0, len(a.positions))
		for p := range a.positions {
			positions = append(positions, p)
		}
		sort.Ints(positions)

		titleLen := len(Tokenize(node.Title))
		bodyPositions := make([]int, 0, len(positions))
		for _, p := range positions {
			if p >= titleLen {
				bodyPositions = append(bodyPositions, p-titleLen)
			}
		}

		matched := make([]string, 0, len(a.matchedTerms))
		for t := range a.matchedTerms {
			if _, ok := originalSet[t]; ok {
				matched = append(matched, t)
			}
		}
		sort.Strings(matched)

		results = append(results, SearchResult{
			DocID:        key.docID,
			DocTitle:     rec.meta.Title,
			Path:         rec.meta.Path,
			NodeID:       node.NodeID,
			NodeTitle:    node.Title,
			Level:        node.Level,
			Snippet:      BuildSnippet(node.Title, node.Content, bodyPositions, defaultSnippetLen),
			Score:        a.score,
			Positions:    positions,
			MatchedTerms: matched,
			Collection:   rec.meta.Collection,
			Facets:       rec.meta.Facets,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = e.limit
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// List runs the catalog listing of §4.9.
func (e *Engine) List(opts ListOptions) ListResult {
	e.mu.RLock()
	defer e.mu.RUnlock()

	constraints := make(map[string][]string, len(opts.Filters)+2)
	for k, v := range opts.Filters {
		constraints[k] = v
	}
	if opts.Collection != "" {
		constraints["collection"] = []string{opts.Collection}
	}

	var whitelist = e.filter.Resolve(constraints)

	query := strings.ToLower(opts.Query)

	matches := make([]DocumentMeta, 0)
	for _, meta := range e.store.All() {
		if whitelist != nil {
			handle, ok := e.handles.lookup(meta.DocID)
			if !ok || !whitelist.Contains(handle) {
				continue
			}
		}
		if opts.Tag != "" && !containsFold(meta.Tags, opts.Tag) {
			continue
		}
		if query != "" {
			hay := strings.ToLower(meta.Title + " " + meta.Description + " " + meta.Path)
			if !strings.Contains(hay, query) {
				continue
			}
		}
		matches = append(matches, meta)
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Title < matches[j].Title })

	total := len(matches)
	offset := opts.Offset
	if offset > total {
		offset = total
	}
	end := total
	if opts.Limit > 0 && offset+opts.Limit < end {
		end = offset + opts.Limit
	}
	page := matches[offset:end]

	candidateHandles := roaring.New()
	for _, meta := range matches {
		if handle, ok := e.handles.lookup(meta.DocID); ok {
			candidateHandles.Add(handle)
		}
	}
	return ListResult{
		Total:       total,
		Documents:   page,
		FacetCounts: e.filter.Counts(candidateHandles),
	}
}

// GetTree returns doc's tree summary, or nil if unknown.
func (e *Engine) GetTree(docID string) *TreeSummary {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.Tree(docID)
}

// GetNodeContent returns the requested nodes of doc, or nil if doc is
// unknown.
func (e *Engine) GetNodeContent(docID string, nodeIDs []string) *NodeContentResult {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.NodeContent(docID, nodeIDs)
}

// GetSubtree returns nodeID and its descendants, or nil if unknown.
func (e *Engine) GetSubtree(docID, nodeID string) *NodeContentResult {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.Subtree(docID, nodeID)
}

// GetStats returns process-wide aggregate statistics.
func (e *Engine) GetStats() EngineStats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	stats := e.index.Stats()
	var totalWords int
	collectionsSeen := make(map[string]struct{})
	facetKeysSeen := make(map[string]struct{})
	totalNodes := 0

	for _, meta := range e.store.All() {
		totalWords += meta.WordCount
		if meta.Collection != "" {
			collectionsSeen[meta.Collection] = struct{}{}
		}
		for key := range meta.Facets {
			facetKeysSeen[key] = struct{}{}
		}
		if rec := e.store.Get(meta.DocID); rec != nil {
			totalNodes += len(rec.nodes)
		}
	}

	return EngineStats{
		DocumentCount: e.store.Count(),
		TotalNodes:    totalNodes,
		TotalWords:    totalWords,
		IndexedTerms:  e.index.TermCount(),
		AvgNodeLength: stats.AverageSecLen,
		FacetKeys:     sortedKeys(facetKeysSeen),
		Collections:   sortedKeys(collectionsSeen),
	}
}

// GetFacets returns facet value counts across the whole corpus.
func (e *Engine) GetFacets() FacetCounts {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.filter.Counts(nil)
}

// SetRanking validates and installs new ranking parameters. On
// validation failure the previous parameters are retained.
func (e *Engine) SetRanking(params RankingParams) error {
	if params.K1 < 0 || params.B < 0 || params.B > 1 {
		return ErrInvalidRankingParam
	}
	if params.TitleWeight < 0 || params.CodeWeight < 0 || params.DescriptionWeight < 0 {
		return ErrInvalidRankingParam
	}
	if params.TermProximityBonus < 0 || params.FullCoverageBonus < 0 || params.PrefixPenalty < 0 {
		return ErrInvalidRankingParam
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.scorer.params = params
	return nil
}

// SetCollectionWeights validates and installs collection score
// multipliers. Weights not present in the map are left at their
// current value.
func (e *Engine) SetCollectionWeights(weights map[string]float64) error {
	for _, w := range weights {
		if w < 0 {
			return ErrInvalidCollectionWeight
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for collection, w := range weights {
		e.scorer.SetCollectionWeight(collection, w)
	}
	return nil
}

// LoadGlossary replaces the glossary with entries (made bidirectional,
// §4.5).
func (e *Engine) LoadGlossary(entries map[string][]string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.glossary.Load(entries)
}

func containsFold(tags []string, tag string) bool {
	tag = strings.ToLower(tag)
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), tag) {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
