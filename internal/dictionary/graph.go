package dictionary

import "net/url"

// Route prefixes for page-graph navigation.
const (
	TermRoutePrefix  = "/d/"
	ClickRoutePrefix = "/c/"
)

// Link is an outgoing edge of a page: the visible word and its target.
type Link struct {
	Text string `json:"text" yaml:"text"`
	Href string `json:"href" yaml:"href"`
}

// Links are the outgoing edges of a (term, definition) page.
type Links struct {
	TermLinks []Link `json:"term_links" yaml:"term_links"`
	DefLinks  []Link `json:"def_links" yaml:"def_links"`
}

// TermRoute returns the term-lookup route for word.
func TermRoute(word string) string {
	return TermRoutePrefix + url.PathEscape(word)
}

// ClickRoute returns the click-lookup route for key.
func ClickRoute(key ClickedSpanKey) string {
	return ClickRoutePrefix + url.PathEscape(string(key))
}

// BuildLinks returns one link per word of term, each routed to a term lookup
// of that single word, and one link per word of definition, each routed to a
// click lookup with that word marked. Links follow word order.
func BuildLinks(term Term, definition Definition) Links {
	links := Links{}

	if term != "" {
		words := term.Words()
		links.TermLinks = make([]Link, 0, len(words))
		for _, w := range words {
			links.TermLinks = append(links.TermLinks, Link{Text: w, Href: TermRoute(w)})
		}
	}

	if definition != "" {
		words := definition.Words()
		links.DefLinks = make([]Link, 0, len(words))
		for i, w := range words {
			span := ClickedSpan{Words: words, Index: i}
			links.DefLinks = append(links.DefLinks, Link{Text: w, Href: ClickRoute(span.Key())})
		}
	}

	return links
}
