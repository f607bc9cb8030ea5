package treedex

import (
	"github.com/RoaringBitmap/roaring"
)

// handleRegistry assigns a stable, monotonically increasing uint32
// handle to each external document id, so that facet membership can be
// stored in Roaring bitmaps (which index uint32 values) without ever
// exposing the handle across the Engine API. Handles are never reused,
// even after a document is removed, so a stale bitmap reference can
// never alias a different document.
type handleRegistry struct {
	next     uint32
	toHandle map[string]uint32
	toDocID  map[uint32]string
}

func newHandleRegistry() *handleRegistry {
	return &handleRegistry{
		toHandle: make(map[string]uint32),
		toDocID:  make(map[uint32]string),
	}
}

// handleFor returns the existing handle for docID, or mints a new one.
func (r *handleRegistry) handleFor(docID string) uint32 {
	if h, ok := r.toHandle[docID]; ok {
		return h
	}
	h := r.next
	r.next++
	r.toHandle[docID] = h
	r.toDocID[h] = docID
	return h
}

func (r *handleRegistry) lookup(docID string) (uint32, bool) {
	h, ok := r.toHandle[docID]
	return h, ok
}

func (r *handleRegistry) docIDFor(handle uint32) (string, bool) {
	id, ok := r.toDocID[handle]
	return id, ok
}

// forget removes docID's handle mapping. The handle itself is never
// reissued: r.next only ever increases.
func (r *handleRegistry) forget(docID string) {
	if h, ok := r.toHandle[docID]; ok {
		delete(r.toHandle, docID)
		delete(r.toDocID, h)
	}
}

// FilterIndex maps facet key -> facet value -> set of document handles,
// backed by Roaring bitmaps so that whitelist resolution (union within a
// key, intersection across keys) is cheap regardless of corpus size.
type FilterIndex struct {
	values map[string]map[string]*roaring.Bitmap
}

// NewFilterIndex returns an empty filter index.
func NewFilterIndex() *FilterIndex {
	return &FilterIndex{values: make(map[string]map[string]*roaring.Bitmap)}
}

// Insert records that document handle belongs to facet key=value.
func (fi *FilterIndex) Insert(key, value string, handle uint32) {
	byValue, ok := fi.values[key]
	if !ok {
		byValue = make(map[string]*roaring.Bitmap)
		fi.values[key] = byValue
	}
	bm, ok := byValue[value]
	if !ok {
		bm = roaring.New()
		byValue[value] = bm
	}
	bm.Add(handle)
}

// Remove erases handle from the key=value set; an emptied value set is
// pruned, and so is a key left with no values.
func (fi *FilterIndex) Remove(key, value string, handle uint32) {
	byValue, ok := fi.values[key]
	if !ok {
		return
	}
	bm, ok := byValue[value]
	if !ok {
		return
	}
	bm.Remove(handle)
	if bm.IsEmpty() {
		delete(byValue, value)
	}
	if len(byValue) == 0 {
		delete(fi.values, key)
	}
}

// InsertDocumentFacets registers every facet in meta (explicit facets,
// tags, and collection) against handle, per §4.3.
func (fi *FilterIndex) InsertDocumentFacets(meta DocumentMeta, handle uint32) {
	for key, values := range meta.Facets {
		for _, v := range values {
			fi.Insert(key, v, handle)
		}
	}
	for _, tag := range meta.Tags {
		fi.Insert("tags", tag, handle)
	}
	if meta.Collection != "" {
		fi.Insert("collection", meta.Collection, handle)
	}
}

// RemoveDocumentFacets erases handle's entries for every facet in meta.
func (fi *FilterIndex) RemoveDocumentFacets(meta DocumentMeta, handle uint32) {
	for key, values := range meta.Facets {
		for _, v := range values {
			fi.Remove(key, v, handle)
		}
	}
	for _, tag := range meta.Tags {
		fi.Remove("tags", tag, handle)
	}
	if meta.Collection != "" {
		fi.Remove("collection", meta.Collection, handle)
	}
}

// Resolve computes the pre-score whitelist for a set of key -> allowed
// values constraints: union within each key, intersect across keys. A
// key absent from the index yields an empty bitmap for that key, and
// therefore an empty whitelist overall. A nil/empty constraints map
// means "no restriction" and returns nil (the caller interprets nil as
// unrestricted, distinct from an empty-but-present bitmap).
func (fi *FilterIndex) Resolve(constraints map[string][]string) *roaring.Bitmap {
	if len(constraints) == 0 {
		return nil
	}

	var result *roaring.Bitmap
	for key, values := range constraints {
		union := roaring.New()
		byValue, ok := fi.values[key]
		if ok {
			for _, v := range values {
				if bm, ok := byValue[v]; ok {
					union.Or(bm)
				}
			}
		}

		if result == nil {
			result = union
		} else {
			result = roaring.And(result, union)
		}
	}
	return result
}

// Counts computes, for a given set of candidate handles, a count of how
// many of them carry each facet value under each key (§4.9).
func (fi *FilterIndex) Counts(candidates *roaring.Bitmap) FacetCounts {
	out := make(FacetCounts)
	for key, byValue := range fi.values {
		for value, bm := range byValue {
			var count uint64
			if candidates == nil {
				count = bm.GetCardinality()
			} else {
				count = roaring.And(bm, candidates).GetCardinality()
			}
			if count == 0 {
				continue
			}
			if out[key] == nil {
				out[key] = make(map[string]int)
			}
			out[key][value] = int(count)
		}
	}
	return out
}
