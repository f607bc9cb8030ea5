package treedex

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoDocEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(nil)
	err := e.Load([]IndexedDocument{
		{
			Meta: DocumentMeta{
				DocID: "guide", Title: "Guide", Description: "An intro", Collection: "docs",
				Tags: []string{"go"}, Facets: map[string][]string{"lang": {"go"}},
			},
			Nodes: []TreeNode{
				{NodeID: "root", Title: "Guide", Level: 1, Children: []string{"child"}, Content: "overview of the guide", Words: 4},
				{NodeID: "child", Title: "Details", Level: 2, ParentID: "root", Content: "more detail here", Words: 3},
			},
			Roots: []string{"root"},
		},
		{
			Meta: DocumentMeta{
				DocID: "reference", Title: "Reference", Collection: "blog",
				Tags: []string{"rust"}, Facets: map[string][]string{"lang": {"rust"}},
			},
			Nodes: []TreeNode{
				{NodeID: "root", Title: "Reference", Level: 1, Content: "reference material", Words: 2},
			},
			Roots: []string{"root"},
		},
	})
	require.NoError(t, err)
	return e
}

func TestEngine_GetTree(t *testing.T) {
	e := twoDocEngine(t)
	tree := e.GetTree("guide")
	require.NotNil(t, tree)
	assert.Equal(t, "Guide", tree.Title)
	assert.Len(t, tree.Nodes, 2)

	assert.Nil(t, e.GetTree("missing"))
}

func TestEngine_GetNodeContent(t *testing.T) {
	e := twoDocEngine(t)
	res := e.GetNodeContent("guide", []string{"child", "root"})
	require.NotNil(t, res)
	assert.Len(t, res.Nodes, 2)
}

func TestEngine_GetSubtree(t *testing.T) {
	e := twoDocEngine(t)
	res := e.GetSubtree("guide", "root")
	require.NotNil(t, res)
	assert.Len(t, res.Nodes, 2)
}

func TestEngine_List_FiltersByCollection(t *testing.T) {
	e := twoDocEngine(t)
	result := e.List(ListOptions{Collection: "docs"})
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, "guide", result.Documents[0].DocID)
}

func TestEngine_List_FiltersByTag(t *testing.T) {
	e := twoDocEngine(t)
	result := e.List(ListOptions{Tag: "rust"})
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, "reference", result.Documents[0].DocID)
}

func TestEngine_List_FreeTextQueryMatchesTitleOrDescription(t *testing.T) {
	e := twoDocEngine(t)
	result := e.List(ListOptions{Query: "intro"})
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, "guide", result.Documents[0].DocID)
}

func TestEngine_List_SortsByTitleAscending(t *testing.T) {
	e := twoDocEngine(t)
	result := e.List(ListOptions{})
	require.Len(t, result.Documents, 2)
	assert.Equal(t, "Guide", result.Documents[0].Title)
	assert.Equal(t, "Reference", result.Documents[1].Title)
}

func TestEngine_List_Pagination(t *testing.T) {
	e := twoDocEngine(t)
	result := e.List(ListOptions{Limit: 1, Offset: 1})
	assert.Equal(t, 2, result.Total)
	require.Len(t, result.Documents, 1)
	assert.Equal(t, "Reference", result.Documents[0].Title)
}

func TestEngine_List_FacetCountsReflectFilteredSet(t *testing.T) {
	e := twoDocEngine(t)
	result := e.List(ListOptions{Collection: "docs"})
	assert.Equal(t, 1, result.FacetCounts["lang"]["go"])
	assert.Equal(t, 0, result.FacetCounts["lang"]["rust"])
}

func TestEngine_GetFacets_CoversWholeCorpus(t *testing.T) {
	e := twoDocEngine(t)
	facets := e.GetFacets()
	assert.Equal(t, 1, facets["lang"]["go"])
	assert.Equal(t, 1, facets["lang"]["rust"])
	assert.Equal(t, 1, facets["collection"]["docs"])
	assert.Equal(t, 1, facets["collection"]["blog"])
}

func TestEngine_GetStats(t *testing.T) {
	e := twoDocEngine(t)
	stats := e.GetStats()
	assert.Equal(t, 2, stats.DocumentCount)
	assert.Equal(t, 3, stats.TotalNodes)
	assert.Contains(t, stats.Collections, "docs")
	assert.Contains(t, stats.Collections, "blog")
	assert.Contains(t, stats.FacetKeys, "lang")
}

func TestEngine_Remove_ReturnsErrorForUnknownDoc(t *testing.T) {
	e := twoDocEngine(t)
	err := e.Remove("missing")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestEngine_Remove_ClearsFromListAndStats(t *testing.T) {
	e := twoDocEngine(t)
	require.NoError(t, e.Remove("guide"))

	assert.Equal(t, 1, e.GetStats().DocumentCount)
	result := e.List(ListOptions{})
	assert.Len(t, result.Documents, 1)
}

func TestEngine_Add_RejectsInvalidTreeWithoutMutatingState(t *testing.T) {
	e := twoDocEngine(t)
	before := e.GetStats().DocumentCount

	err := e.Add(IndexedDocument{
		Meta:  DocumentMeta{DocID: "bad"},
		Nodes: []TreeNode{{NodeID: "n1", ParentID: "ghost"}},
	})

	assert.ErrorIs(t, err, ErrDanglingParent)
	assert.Equal(t, before, e.GetStats().DocumentCount)
}

func TestEngine_ConcurrentReadsDoNotRace(t *testing.T) {
	e := twoDocEngine(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Search("guide", SearchOptions{})
			e.List(ListOptions{})
			e.GetStats()
		}()
	}
	wg.Wait()
}
