package treedex

import "errors"

// Indexer-surface errors: returned by Add/Load when a document's tree
// violates the data model's invariants. The index is left unchanged.
var (
	ErrDanglingParent   = errors.New("treedex: node references a parent id not present in the document")
	ErrDuplicateNodeID  = errors.New("treedex: duplicate node id within a document")
	ErrOrphanRoot       = errors.New("treedex: root node declares a parent id")
	ErrEmptyDocID       = errors.New("treedex: document id is empty")
)

// Configuration errors: returned by SetRanking/SetCollectionWeights when
// a supplied value is out of range. Previous values are retained.
var (
	ErrInvalidRankingParam    = errors.New("treedex: ranking parameter out of range")
	ErrInvalidCollectionWeight = errors.New("treedex: collection weight must be non-negative")
)

// ErrDocumentNotFound is returned by Remove when no document with the
// given id is present.
var ErrDocumentNotFound = errors.New("treedex: document not found")
