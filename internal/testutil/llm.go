package testutil

import (
	"strings"

	"github.com/jackzampolin/hidef/internal/providers"
)

// NewDictionaryLLM returns a mock LLM that answers the three oracle prompts
// deterministically:
//
//   - a term gets "A test definition of <term>."
//   - a bracketed definition gets its clicked word
//   - a "Term: ... Context: ..." request gets "A contextual definition of <term>."
func NewDictionaryLLM() *providers.MockClient {
	client := providers.NewMockClient()
	client.Latency = 0
	client.Respond = func(req *providers.ChatRequest) (string, error) {
		user := lastUserMessage(req)
		switch {
		case strings.HasPrefix(user, "Term: "):
			term, _, _ := strings.Cut(strings.TrimPrefix(user, "Term: "), "\n")
			return "A contextual definition of " + strings.Trim(term, `"`) + ".", nil
		case strings.Contains(user, "["):
			_, rest, _ := strings.Cut(user, "[")
			word, _, _ := strings.Cut(rest, "]")
			return word, nil
		default:
			return "A test definition of " + user + ".", nil
		}
	}
	return client
}

// NewMockRegistry returns a registry whose default provider is client.
func NewMockRegistry(client providers.LLMClient) *providers.Registry {
	registry := providers.NewRegistry()
	registry.SetLogger(Logger())
	registry.RegisterLLM(client.Name(), client)
	registry.SetDefaultLLM(client.Name())
	return registry
}

func lastUserMessage(req *providers.ChatRequest) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == providers.RoleUser {
			return req.Messages[i].Content
		}
	}
	return ""
}
