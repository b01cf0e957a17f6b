package dictionary

import (
	"fmt"
	"strings"
)

const (
	spanOpen  = "["
	spanClose = "]"
)

// ClickedSpanKey is a definition with exactly one word wrapped in brackets.
// Two keys are equal iff their strings are byte-identical, so the same word
// at a different position yields a different key.
type ClickedSpanKey string

// ClickedSpan is the structured form of a clicked-span key: the words of the
// source definition and the index of the clicked word.
type ClickedSpan struct {
	Words []string
	Index int
}

// NewClickedSpan marks the word at index within definition as clicked.
func NewClickedSpan(definition Definition, index int) (ClickedSpan, error) {
	words := definition.Words()
	if definition == "" || index < 0 || index >= len(words) {
		return ClickedSpan{}, fmt.Errorf("%w: index %d, %d words", ErrIndexOutOfRange, index, wordCount(definition))
	}
	return ClickedSpan{Words: words, Index: index}, nil
}

// BuildClickedSpanKey returns the cache key for clicking the word at
// wordIndex in definition. The input is not modified.
func BuildClickedSpanKey(definition Definition, wordIndex int) (ClickedSpanKey, error) {
	span, err := NewClickedSpan(definition, wordIndex)
	if err != nil {
		return "", err
	}
	return span.Key(), nil
}

// Key serializes the span into its delimited string form.
func (s ClickedSpan) Key() ClickedSpanKey {
	var b strings.Builder
	for i, w := range s.Words {
		if i > 0 {
			b.WriteByte(' ')
		}
		if i == s.Index {
			b.WriteString(spanOpen)
			b.WriteString(w)
			b.WriteString(spanClose)
			continue
		}
		b.WriteString(w)
	}
	return ClickedSpanKey(b.String())
}

// ClickedWord returns the word the user clicked.
func (s ClickedSpan) ClickedWord() string {
	return s.Words[s.Index]
}

// Context returns the source definition without delimiters.
func (s ClickedSpan) Context() Definition {
	return Definition(strings.Join(s.Words, " "))
}

// ParseClickedSpan parses an inbound clicked-span key. The key must contain
// exactly one bracketed, non-empty word and no empty words.
func ParseClickedSpan(raw string) (ClickedSpan, error) {
	if raw == "" {
		return ClickedSpan{}, fmt.Errorf("%w: empty clicked-span key", ErrInvalidInput)
	}

	words := strings.Split(raw, " ")
	index := -1
	for i, w := range words {
		if w == "" {
			return ClickedSpan{}, fmt.Errorf("%w: empty word at position %d", ErrInvalidInput, i)
		}
		opened := strings.HasPrefix(w, spanOpen)
		closed := strings.HasSuffix(w, spanClose)
		inner := w
		if opened && closed && len(w) >= 2 {
			inner = w[1 : len(w)-1]
		}
		if opened && closed && len(w) >= 2 && !strings.ContainsAny(inner, spanOpen+spanClose) {
			if inner == "" {
				return ClickedSpan{}, fmt.Errorf("%w: empty clicked word", ErrInvalidInput)
			}
			if index >= 0 {
				return ClickedSpan{}, fmt.Errorf("%w: more than one clicked word", ErrInvalidInput)
			}
			index = i
			words[i] = inner
			continue
		}
		if strings.ContainsAny(w, spanOpen+spanClose) {
			return ClickedSpan{}, fmt.Errorf("%w: stray delimiter in %q", ErrInvalidInput, w)
		}
	}
	if index < 0 {
		return ClickedSpan{}, fmt.Errorf("%w: no clicked word", ErrInvalidInput)
	}
	return ClickedSpan{Words: words, Index: index}, nil
}

func wordCount(d Definition) int {
	if d == "" {
		return 0
	}
	return len(d.Words())
}
