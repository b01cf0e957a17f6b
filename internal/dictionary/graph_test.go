package dictionary

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLinks(t *testing.T) {
	def := Definition("A branch of mathematics concerning symbols and the rules for manipulating them.")
	links := BuildLinks("Algebra", def)

	require.Len(t, links.TermLinks, 1)
	assert.Equal(t, Link{Text: "Algebra", Href: "/d/Algebra"}, links.TermLinks[0])

	words := def.Words()
	require.Len(t, links.DefLinks, len(words))
	for i, link := range links.DefLinks {
		assert.Equal(t, words[i], link.Text)
		require.True(t, strings.HasPrefix(link.Href, ClickRoutePrefix))

		raw, err := url.PathUnescape(strings.TrimPrefix(link.Href, ClickRoutePrefix))
		require.NoError(t, err)
		want, err := BuildClickedSpanKey(def, i)
		require.NoError(t, err)
		assert.Equal(t, string(want), raw)
	}
}

func TestBuildLinks_MultiWordTerm(t *testing.T) {
	links := BuildLinks("Tree data structure", "A hierarchy")

	require.Len(t, links.TermLinks, 3)
	assert.Equal(t, "/d/Tree", links.TermLinks[0].Href)
	assert.Equal(t, "/d/data", links.TermLinks[1].Href)
	assert.Equal(t, "/d/structure", links.TermLinks[2].Href)
}

func TestBuildLinks_Escaping(t *testing.T) {
	links := BuildLinks("Input/output", "A x? 50% rate")

	assert.Equal(t, "/d/Input%2Foutput", links.TermLinks[0].Href)
	assert.Equal(t, "/c/%5BA%5D%20x%3F%2050%25%20rate", links.DefLinks[0].Href)
	for _, l := range links.DefLinks {
		assert.NotContains(t, strings.TrimPrefix(l.Href, ClickRoutePrefix), "/")
	}
}

func TestBuildLinks_Deterministic(t *testing.T) {
	def := Definition("A tree data structure in which each internal node has four children")
	assert.Equal(t, BuildLinks("Quadtree", def), BuildLinks("Quadtree", def))
}

func TestBuildLinks_Empty(t *testing.T) {
	links := BuildLinks("", "")
	assert.Empty(t, links.TermLinks)
	assert.Empty(t, links.DefLinks)
}
