package treedex

import "time"

// TreeNode is one section of one document: the span of content between
// its heading and the next heading at the same or higher level.
type TreeNode struct {
	NodeID   string
	Title    string
	Level    int
	ParentID string // empty for a root node
	Children []string
	Content  string
	Summary  string
	Words    int
	LineFrom int
	LineTo   int

	// CodeTokens holds the raw (pre-stem) tokens found inside fenced code
	// regions of Content, used to decide code weighting at index time. Populated by the indexer, not recomputed here.
	CodeTokens map[string]struct{}
}

// DocumentMeta is the document-level record stored alongside its tree.
type DocumentMeta struct {
	DocID       string
	Path        string
	Title       string
	Description string
	WordCount   int
	HeadingCount int
	MaxDepth    int
	ModifiedAt  time.Time
	Tags        []string
	ContentHash string
	Collection  string
	Facets      map[string][]string
}

// IndexedDocument is a document handed to the store by an external
// indexer. The store takes exclusive ownership of it on Add/Load.
type IndexedDocument struct {
	Meta  DocumentMeta
	Nodes []TreeNode
	Roots []string
}

// Posting is one (term, document, section) occurrence record.
type Posting struct {
	DocID     string
	NodeID    string
	Positions []int
	Weight    float64
}

// TermFrequency is the number of occurrences recorded by a posting.
func (p Posting) TermFrequency() int {
	return len(p.Positions)
}

// NodeStats holds the per-section token count used for BM25 length
// normalization (title tokens plus body tokens).
type NodeStats struct {
	TotalTokens int
}

// CorpusStats is process-wide aggregate state recomputed on every
// mutation.
type CorpusStats struct {
	TotalSections   int
	AverageSecLen   float64
}

// RankingParams are the tunable BM25 and bonus coefficients.
// TitleWeight, CodeWeight and DescriptionWeight are validated and stored
// but not consulted: InvertedIndex.IndexSection applies the fixed
// weights 3.0, 1.5 and 2.0.
type RankingParams struct {
	K1                  float64
	B                   float64
	TitleWeight         float64
	CodeWeight          float64
	DescriptionWeight   float64
	TermProximityBonus  float64
	FullCoverageBonus   float64
	PrefixPenalty       float64
}

// DefaultRankingParams returns the spec-mandated default coefficients.
func DefaultRankingParams() RankingParams {
	return RankingParams{
		K1:                 1.2,
		B:                  0.75,
		TitleWeight:        3.0,
		CodeWeight:         1.5,
		DescriptionWeight:  2.0,
		TermProximityBonus: 2.0,
		FullCoverageBonus:  5.0,
		PrefixPenalty:      0.5,
	}
}

// SearchResult is one ranked hit returned by Engine.Search.
type SearchResult struct {
	DocID        string
	DocTitle     string
	Path         string
	NodeID       string
	NodeTitle    string
	Level        int
	Snippet      string
	Score        float64
	Positions    []int
	MatchedTerms []string
	Collection   string
	Facets       map[string][]string
}

// SearchOptions narrows a search to a subset of the corpus before
// scoring (§4.3 pre-score whitelisting).
type SearchOptions struct {
	Limit      int
	DocID      string
	Collection string
	Filters    map[string][]string
}

// ListOptions controls catalog listing (§4.9).
type ListOptions struct {
	Tag        string
	Query      string
	Collection string
	Filters    map[string][]string
	Limit      int
	Offset     int
}

// ListResult is the page of documents returned by Engine.List.
type ListResult struct {
	Total       int
	Documents   []DocumentMeta
	FacetCounts map[string]map[string]int
}

// TreeSummary is the shape returned by Engine.GetTree.
type TreeSummary struct {
	DocID string
	Title string
	Nodes []TreeNodeSummary
}

// TreeNodeSummary is a lightweight, content-free view of a TreeNode.
type TreeNodeSummary struct {
	NodeID   string
	Title    string
	Level    int
	Children []string
	Words    int
	Summary  string
}

// NodeContentResult is the shape returned by Engine.GetNodeContent and
// Engine.GetSubtree.
type NodeContentResult struct {
	DocID string
	Nodes []TreeNode
}

// EngineStats is the shape returned by Engine.GetStats.
type EngineStats struct {
	DocumentCount   int
	TotalNodes      int
	TotalWords      int
	IndexedTerms    int
	AvgNodeLength   float64
	FacetKeys       []string
	Collections     []string
}

// FacetCounts is the shape returned by Engine.GetFacets: facet key ->
// facet value -> document count.
type FacetCounts map[string]map[string]int
