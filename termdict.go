package treedex

import (
	"math/rand"
)

// TermDictMaxHeight bounds the tower height of a term dictionary node.
const TermDictMaxHeight = 32

// termNode is one entry in the sorted term dictionary: a term string and
// its tower of forward pointers, one per skip-list level.
type termNode struct {
	key   string
	tower [TermDictMaxHeight]*termNode
}

// TermDict is a probabilistic skip list keyed by term string, kept in
// sorted order so that prefix range scans (§4.6 prefix matching) can be
// answered by a single descent to the first key >= prefix followed by a
// forward scan while keys share that prefix, instead of scanning the full
// vocabulary.
//
// Adapted from a position-keyed skip list design: same tower/level
// structure, a string key instead of a (document, offset) pair, and no
// BOF/EOF sentinels (those exist only to bound position iteration, not a
// plain sorted dictionary).
type TermDict struct {
	head   *termNode
	height int
	rng    *rand.Rand
}

// NewTermDict returns an empty term dictionary.
func NewTermDict(seed int64) *TermDict {
	return &TermDict{
		head:   &termNode{},
		height: 1,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

func (d *TermDict) search(key string) (*termNode, [TermDictMaxHeight]*termNode) {
	var journey [TermDictMaxHeight]*termNode
	current := d.head

	for level := d.height - 1; level >= 0; level-- {
		next := current.tower[level]
		for next != nil && next.key < key {
			current = next
			next = current.tower[level]
		}
		journey[level] = current
	}

	next := current.tower[0]
	if next != nil && next.key == key {
		return next, journey
	}
	return nil, journey
}

// Contains reports whether term is present in the dictionary.
func (d *TermDict) Contains(term string) bool {
	found, _ := d.search(term)
	return found != nil
}

// Insert adds term to the dictionary. A no-op if term is already present.
func (d *TermDict) Insert(term string) {
	found, journey := d.search(term)
	if found != nil {
		return
	}

	height := d.randomHeight()
	node := &termNode{key: term}

	for level := 0; level < height; level++ {
		pred := journey[level]
		if pred == nil {
			pred = d.head
		}
		node.tower[level] = pred.tower[level]
		pred.tower[level] = node
	}

	if height > d.height {
		d.height = height
	}
}

// Delete removes term from the dictionary, reporting whether it was present.
func (d *TermDict) Delete(term string) bool {
	found, journey := d.search(term)
	if found == nil {
		return false
	}

	for level := 0; level < d.height; level++ {
		if journey[level].tower[level] != found {
			break
		}
		journey[level].tower[level] = found.tower[level]
	}

	for level := d.height - 1; level > 0; level-- {
		if d.head.tower[level] == nil {
			d.height--
		} else {
			break
		}
	}
	return true
}

// PrefixScan returns every distinct term in the dictionary that starts
// with prefix, in sorted order, excluding prefix itself. Empty prefixes
// match nothing (callers enforce the minimum length of 3, §4.6).
func (d *TermDict) PrefixScan(prefix string) []string {
	if prefix == "" {
		return nil
	}

	_, journey := d.search(prefix)
	current := journey[0]

	var out []string
	for next := current.tower[0]; next != nil; next = next.tower[0] {
		if next.key == prefix {
			continue
		}
		if !hasPrefix(next.key, prefix) {
			break
		}
		out = append(out, next.key)
	}
	return out
}

func hasPrefix(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return s[:len(prefix)] == prefix
}

func (d *TermDict) randomHeight() int {
	height := 1
	for d.rng.Float64() < 0.5 && height < TermDictMaxHeight {
		height++
	}
	return height
}
