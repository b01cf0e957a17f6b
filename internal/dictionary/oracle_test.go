package dictionary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/hidef/internal/llmcall"
	"github.com/jackzampolin/hidef/internal/providers"
)

func newTestOracle(t *testing.T, respond func(req *providers.ChatRequest) (string, error)) (*LLMOracle, *providers.MockClient, *llmcall.Recorder) {
	t.Helper()
	client := providers.NewMockClient()
	client.Latency = 0
	client.Respond = respond
	recorder := llmcall.NewRecorder(10)
	o, err := NewLLMOracle(LLMOracleConfig{Client: client, Recorder: recorder})
	require.NoError(t, err)
	return o, client, recorder
}

func reply(text string) func(*providers.ChatRequest) (string, error) {
	return func(*providers.ChatRequest) (string, error) { return text, nil }
}

func TestLLMOracle_DefineTerm(t *testing.T) {
	o, client, recorder := newTestOracle(t, reply("A branch of mathematics concerning symbols and the rules for manipulating them."))

	def, err := o.DefineTerm(context.Background(), "Algebra")
	require.NoError(t, err)
	assert.Equal(t, Definition("A branch of mathematics concerning symbols and the rules for manipulating them."), def)

	reqs := client.Requests()
	require.Len(t, reqs, 1)
	require.Len(t, reqs[0].Messages, 2)
	assert.Equal(t, providers.RoleSystem, reqs[0].Messages[0].Role)
	assert.Contains(t, reqs[0].Messages[0].Content, "formal definition")
	assert.Equal(t, "Algebra", reqs[0].Messages[1].Content)
	require.NotNil(t, reqs[0].Temperature)
	assert.Equal(t, 0.0, *reqs[0].Temperature)

	calls := recorder.List(llmcall.QueryFilter{})
	require.Len(t, calls, 1)
	assert.Equal(t, PromptKeyDefineTerm, calls[0].PromptKey)
	assert.Equal(t, "Algebra", calls[0].Subject)
	assert.True(t, calls[0].Success)
}

func TestLLMOracle_StripsBrackets(t *testing.T) {
	o, _, _ := newTestOracle(t, reply("A [quadtree] structure"))

	def, err := o.DefineTerm(context.Background(), "Thing")
	require.NoError(t, err)
	assert.Equal(t, Definition("A quadtree structure"), def)
	assert.NotContains(t, string(def), "[")
	assert.NotContains(t, string(def), "]")
}

func TestLLMOracle_DefinitionWordSplitIsLossless(t *testing.T) {
	responses := []string{
		"Definition: A hierarchical\n\nstructure   of nodes.\n",
		"  \"A quoted answer\"  ",
		"A line\twith\ttabs",
		"Output: A [bracketed] [[nested]] answer",
	}
	for _, resp := range responses {
		o, _, _ := newTestOracle(t, reply(resp))
		def, err := o.DefineTerm(context.Background(), "Thing")
		require.NoError(t, err)

		words := def.Words()
		assert.Equal(t, string(def), strings.Join(words, " "))
		for _, w := range words {
			assert.NotEmpty(t, w, "response %q produced an empty word", resp)
		}
		assert.NotContains(t, string(def), "\n")
		assert.False(t, strings.ContainsAny(string(def), "[]"))
	}
}

func TestLLMOracle_EmptyResponse(t *testing.T) {
	o, _, _ := newTestOracle(t, reply(" \n [] "))

	_, err := o.DefineTerm(context.Background(), "Thing")
	require.Error(t, err)
	var oe *OracleError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, OpDefineTerm, oe.Op)
}

func TestLLMOracle_TransportFailure(t *testing.T) {
	o, _, recorder := newTestOracle(t, func(*providers.ChatRequest) (string, error) {
		return "", errors.New("connection refused")
	})

	_, err := o.DefineTerm(context.Background(), "Thing")
	assert.True(t, IsOracleError(err))

	calls := recorder.List(llmcall.QueryFilter{})
	require.Len(t, calls, 1)
	assert.False(t, calls[0].Success)
	assert.Equal(t, "connection refused", calls[0].Error)
}

func TestLLMOracle_DisambiguateClick(t *testing.T) {
	span, err := ParseClickedSpan("A [tree] data structure in which each internal node has four children")
	require.NoError(t, err)

	o, client, _ := newTestOracle(t, reply("tree data structure"))
	term, err := o.DisambiguateClick(context.Background(), span)
	require.NoError(t, err)
	assert.Equal(t, Term("Tree data structure"), term)

	reqs := client.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "A [tree] data structure in which each internal node has four children", reqs[0].Messages[1].Content)
}

func TestLLMOracle_DisambiguateClick_Cleanup(t *testing.T) {
	span, err := ParseClickedSpan("The skillful handling of a difficult or [delicate] situation without arousing hostility.")
	require.NoError(t, err)

	tests := map[string]Term{
		"Output: delicate":                           "Delicate",
		"\"Delicate situation\"":                     "Delicate situation",
		"delicate situation.":                        "Delicate situation",
		"Delicate situation\nThe word refers to ...": "Delicate situation",
		"[delicate] situation":                       "Delicate situation",
		"Hostility.":                                 "Hostility",
	}
	for resp, want := range tests {
		t.Run(resp, func(t *testing.T) {
			o, _, _ := newTestOracle(t, reply(resp))
			term, err := o.DisambiguateClick(context.Background(), span)
			require.NoError(t, err)
			assert.Equal(t, want, term)
		})
	}
}

func TestLLMOracle_DisambiguateClick_RejectsForeignWords(t *testing.T) {
	span, err := ParseClickedSpan("A [tree] data structure")
	require.NoError(t, err)

	tests := map[string]string{
		"unknown word":     "Binary search tree",
		"reordered words":  "structure data tree",
		"punctuation only": "— …",
		"repeated word":    "tree tree",
	}
	for name, resp := range tests {
		t.Run(name, func(t *testing.T) {
			o, _, _ := newTestOracle(t, reply(resp))
			_, err := o.DisambiguateClick(context.Background(), span)
			var oe *OracleError
			require.ErrorAs(t, err, &oe)
			assert.Equal(t, OpDisambiguateClick, oe.Op)
		})
	}
}

func TestLLMOracle_DisambiguateClick_RepeatedDefinitionWords(t *testing.T) {
	span, err := ParseClickedSpan("A tree of a [tree] data structure")
	require.NoError(t, err)

	o, _, _ := newTestOracle(t, reply("a tree data structure"))
	term, err := o.DisambiguateClick(context.Background(), span)
	require.NoError(t, err)
	assert.Equal(t, Term("A tree data structure"), term)
}

func TestLLMOracle_KeepsInnerQuotes(t *testing.T) {
	tests := map[string]Definition{
		`"Yes" is an answer opposite to "no"`: `"Yes" is an answer opposite to "no"`,
		`"An affirmative answer"`:             "An affirmative answer",
		`“Yes” is the opposite of “no”`:       `“Yes” is the opposite of “no”`,
		`'tis a contraction of 'it is'`:       `'tis a contraction of 'it is'`,
		`Definition: "A formal reply"`:        "A formal reply",
	}
	for resp, want := range tests {
		t.Run(resp, func(t *testing.T) {
			o, _, _ := newTestOracle(t, reply(resp))
			def, err := o.DefineTerm(context.Background(), "Yes")
			require.NoError(t, err)
			assert.Equal(t, want, def)
		})
	}
}

func TestLLMOracle_DefineInContext(t *testing.T) {
	span, err := ParseClickedSpan("A [tree] data structure in which each internal node has four children")
	require.NoError(t, err)

	o, client, _ := newTestOracle(t, reply("A hierarchical arrangement of [nodes] linked by edges."))
	def, err := o.DefineInContext(context.Background(), "Tree data structure", span)
	require.NoError(t, err)
	assert.Equal(t, Definition("A hierarchical arrangement of nodes linked by edges."), def)

	reqs := client.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Term: \"Tree data structure\"\nContext: A [tree] data structure in which each internal node has four children", reqs[0].Messages[1].Content)
	assert.Equal(t, 400, reqs[0].MaxTokens)
}

func TestLLMOracle_UpdateSettings(t *testing.T) {
	o, client, _ := newTestOracle(t, reply("A definition"))
	o.UpdateSettings(OracleSettings{Model: "gpt-4o-mini", Temperature: providers.Float(0.7)})

	_, err := o.DefineTerm(context.Background(), "Thing")
	require.NoError(t, err)

	reqs := client.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "gpt-4o-mini", reqs[0].Model)
	assert.Equal(t, 0.7, *reqs[0].Temperature)
}

func TestNewLLMOracle_RequiresClient(t *testing.T) {
	_, err := NewLLMOracle(LLMOracleConfig{})
	assert.Error(t, err)
}
