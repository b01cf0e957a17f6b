package dictionary

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Term is the subject of a definition: one or more space-separated words.
type Term string

// Definition is the prose answer for a term. Words are separated by single
// spaces and it never contains the span delimiters.
type Definition string

// Words splits the term on single spaces.
func (t Term) Words() []string {
	return strings.Split(string(t), " ")
}

// Words splits the definition on single spaces. Joining the result with a
// single space reproduces the definition exactly.
func (d Definition) Words() []string {
	return strings.Split(string(d), " ")
}

// NormalizeTerm canonicalizes a raw term into a cache key.
//
// Surrounding whitespace is trimmed, inner whitespace runs collapse to a
// single space, the first rune is upper-cased and the rest of the term is
// lower-cased, so "TREE", "tree" and "Tree" all map to "Tree".
func NormalizeTerm(raw string) (Term, error) {
	collapsed := strings.Join(strings.Fields(raw), " ")
	if collapsed == "" {
		return "", fmt.Errorf("%w: empty term", ErrInvalidInput)
	}
	return Term(upperFirst(strings.ToLower(collapsed))), nil
}

// upperFirst upper-cases the first rune of s and leaves the rest untouched.
func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
