package treedex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterIndex_InsertAndResolve_UnionWithinKey(t *testing.T) {
	fi := NewFilterIndex()
	fi.Insert("tags", "go", 1)
	fi.Insert("tags", "rust", 2)

	got := fi.Resolve(map[string][]string{"tags": {"go", "rust"}})
	assert.True(t, got.Contains(1))
	assert.True(t, got.Contains(2))
	assert.Equal(t, uint64(2), got.GetCardinality())
}

func TestFilterIndex_Resolve_IntersectsAcrossKeys(t *testing.T) {
	fi := NewFilterIndex()
	fi.Insert("tags", "go", 1)
	fi.Insert("tags", "go", 2)
	fi.Insert("collection", "docs", 1)
	fi.Insert("collection", "blog", 2)

	got := fi.Resolve(map[string][]string{
		"tags":       {"go"},
		"collection": {"docs"},
	})
	assert.True(t, got.Contains(1))
	assert.False(t, got.Contains(2))
}

func TestFilterIndex_Resolve_UnknownKeyYieldsEmptyWhitelist(t *testing.T) {
	fi := NewFilterIndex()
	fi.Insert("tags", "go", 1)

	got := fi.Resolve(map[string][]string{"nonexistent": {"anything"}})
	assert.True(t, got.IsEmpty())
}

func TestFilterIndex_Resolve_NoConstraintsReturnsNilMeaningUnrestricted(t *testing.T) {
	fi := NewFilterIndex()
	fi.Insert("tags", "go", 1)

	got := fi.Resolve(nil)
	assert.Nil(t, got)
}

func TestFilterIndex_RemovePrunesEmptyValueSets(t *testing.T) {
	fi := NewFilterIndex()
	fi.Insert("tags", "go", 1)
	fi.Remove("tags", "go", 1)

	_, hasKey := fi.values["tags"]
	assert.False(t, hasKey)
}

func TestFilterIndex_InsertDocumentFacets_CoversTagsAndCollection(t *testing.T) {
	fi := NewFilterIndex()
	meta := DocumentMeta{
		Collection: "docs",
		Tags:       []string{"go", "search"},
		Facets:     map[string][]string{"lang": {"go"}},
	}
	fi.InsertDocumentFacets(meta, 7)

	assert.True(t, fi.Resolve(map[string][]string{"collection": {"docs"}}).Contains(7))
	assert.True(t, fi.Resolve(map[string][]string{"tags": {"search"}}).Contains(7))
	assert.True(t, fi.Resolve(map[string][]string{"lang": {"go"}}).Contains(7))
}

func TestFilterIndex_RemoveDocumentFacets_FullyErasesMembership(t *testing.T) {
	fi := NewFilterIndex()
	meta := DocumentMeta{
		Collection: "docs",
		Tags:       []string{"go"},
		Facets:     map[string][]string{"lang": {"go"}},
	}
	fi.InsertDocumentFacets(meta, 7)
	fi.RemoveDocumentFacets(meta, 7)

	assert.True(t, fi.Resolve(map[string][]string{"collection": {"docs"}}).IsEmpty())
	assert.True(t, fi.Resolve(map[string][]string{"tags": {"go"}}).IsEmpty())
	assert.True(t, fi.Resolve(map[string][]string{"lang": {"go"}}).IsEmpty())
}

func TestFilterIndex_Counts(t *testing.T) {
	fi := NewFilterIndex()
	fi.Insert("tags", "go", 1)
	fi.Insert("tags", "go", 2)
	fi.Insert("tags", "rust", 2)

	counts := fi.Counts(nil)
	assert.Equal(t, 2, counts["tags"]["go"])
	assert.Equal(t, 1, counts["tags"]["rust"])
}

func TestHandleRegistry_NeverReusesHandles(t *testing.T) {
	r := newHandleRegistry()
	h1 := r.handleFor("doc-a")
	r.forget("doc-a")
	h2 := r.handleFor("doc-b")

	assert.NotEqual(t, h1, h2)
}
