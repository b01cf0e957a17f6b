package dictionary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"unicode"

	"github.com/jackzampolin/hidef/internal/llmcall"
	"github.com/jackzampolin/hidef/internal/providers"
)

// Oracle operation names, used in OracleError.Op.
const (
	OpDefineTerm        = "define_term"
	OpDisambiguateClick = "disambiguate_click"
	OpDefineInContext   = "define_in_context"
)

// Oracle resolves terms and clicks into definitions. Implementations cache
// nothing and must return text free of span delimiters.
type Oracle interface {
	// DefineTerm returns a formal definition of term that does not use term.
	DefineTerm(ctx context.Context, term Term) (Definition, error)

	// DisambiguateClick returns the minimal span of words from the clicked
	// definition that identifies what the clicked word refers to.
	DisambiguateClick(ctx context.Context, span ClickedSpan) (Term, error)

	// DefineInContext defines term in the sense used by the clicked definition.
	DefineInContext(ctx context.Context, term Term, span ClickedSpan) (Definition, error)
}

// OracleSettings are the generation parameters applied to every oracle call.
type OracleSettings struct {
	Model string
	// Temperature is pinned to 0 when nil.
	Temperature *float64
	// ContextMaxTokens bounds DefineInContext responses.
	ContextMaxTokens int
}

// LLMOracleConfig configures an LLMOracle.
type LLMOracleConfig struct {
	Client   providers.LLMClient
	Settings OracleSettings
	Recorder *llmcall.Recorder
	Logger   *slog.Logger
}

// LLMOracle implements Oracle with chat completions against a fixed system
// prompt per operation.
type LLMOracle struct {
	client   providers.LLMClient
	recorder *llmcall.Recorder
	logger   *slog.Logger
	settings atomic.Pointer[OracleSettings]
}

// NewLLMOracle creates an oracle backed by an LLM client.
func NewLLMOracle(cfg LLMOracleConfig) (*LLMOracle, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("LLM client is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	o := &LLMOracle{
		client:   cfg.Client,
		recorder: cfg.Recorder,
		logger:   cfg.Logger,
	}
	o.UpdateSettings(cfg.Settings)
	return o, nil
}

// UpdateSettings replaces the generation parameters for subsequent calls.
func (o *LLMOracle) UpdateSettings(s OracleSettings) {
	if s.Temperature == nil {
		s.Temperature = providers.Float(0)
	}
	if s.ContextMaxTokens <= 0 {
		s.ContextMaxTokens = 400
	}
	o.settings.Store(&s)
}

// Settings returns the current generation parameters.
func (o *LLMOracle) Settings() OracleSettings {
	return *o.settings.Load()
}

// DefineTerm asks for a formal definition of term.
func (o *LLMOracle) DefineTerm(ctx context.Context, term Term) (Definition, error) {
	content, err := o.complete(ctx, PromptKeyDefineTerm, string(term), defineTermSystemPrompt, string(term), 0)
	if err != nil {
		return "", oracleErr(OpDefineTerm, err)
	}
	def, err := cleanDefinition(content)
	if err != nil {
		return "", oracleErr(OpDefineTerm, err)
	}
	return def, nil
}

// DisambiguateClick asks which words around the clicked word name the object
// the user wants defined.
func (o *LLMOracle) DisambiguateClick(ctx context.Context, span ClickedSpan) (Term, error) {
	key := span.Key()
	content, err := o.complete(ctx, PromptKeyDisambiguateClick, string(key), disambiguateClickSystemPrompt, string(key), 0)
	if err != nil {
		return "", oracleErr(OpDisambiguateClick, err)
	}
	term, err := cleanSpanTerm(content, span)
	if err != nil {
		return "", oracleErr(OpDisambiguateClick, err)
	}
	return term, nil
}

// DefineInContext asks for the definition of term in the sense implied by
// the clicked definition.
func (o *LLMOracle) DefineInContext(ctx context.Context, term Term, span ClickedSpan) (Definition, error) {
	key := span.Key()
	maxTokens := o.Settings().ContextMaxTokens
	content, err := o.complete(ctx, PromptKeyDefineInContext, string(key), defineInContextSystemPrompt, defineInContextUserPrompt(term, key), maxTokens)
	if err != nil {
		return "", oracleErr(OpDefineInContext, err)
	}
	def, err := cleanDefinition(content)
	if err != nil {
		return "", oracleErr(OpDefineInContext, err)
	}
	return def, nil
}

func (o *LLMOracle) complete(ctx context.Context, promptKey, subject, system, user string, maxTokens int) (string, error) {
	settings := o.Settings()
	req := &providers.ChatRequest{
		Model:       settings.Model,
		Temperature: settings.Temperature,
		MaxTokens:   maxTokens,
		Messages: []providers.Message{
			{Role: providers.RoleSystem, Content: system},
			{Role: providers.RoleUser, Content: user},
		},
	}

	result, err := o.client.Chat(ctx, req)
	o.recorder.Record(result, llmcall.RecordOptions{
		Subject:     subject,
		PromptKey:   promptKey,
		Temperature: settings.Temperature,
		Err:         err,
	})
	if err != nil {
		o.logger.Debug("oracle call failed", "prompt_key", promptKey, "subject", subject, "error", err)
		return "", err
	}
	if result == nil || !result.Success {
		msg := "unsuccessful response"
		if result != nil && result.ErrorMessage != "" {
			msg = result.ErrorMessage
		}
		return "", errors.New(msg)
	}
	return result.Content, nil
}

// responseLabels are prefixes models sometimes echo back from the prompt.
var responseLabels = []string{"output:", "definition:", "term:", "answer:"}

// sanitize strips span delimiters, collapses every whitespace run to a
// single space, and removes echoed labels and wrapping quotes.
func sanitize(s string) string {
	s = strings.NewReplacer(spanOpen, "", spanClose, "").Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	for _, label := range responseLabels {
		if len(s) >= len(label) && strings.EqualFold(s[:len(label)], label) {
			s = strings.TrimSpace(s[len(label):])
			break
		}
	}
	s = trimWrappingQuotes(s)
	return strings.Join(strings.Fields(s), " ")
}

// trimWrappingQuotes removes one pair of quotes around the whole response.
// Quotes that open and close separate quoted words are left alone.
func trimWrappingQuotes(s string) string {
	pairs := [][2]string{{`"`, `"`}, {"“", "”"}, {"'", "'"}}
	for _, p := range pairs {
		if len(s) < len(p[0])+len(p[1]) || !strings.HasPrefix(s, p[0]) || !strings.HasSuffix(s, p[1]) {
			continue
		}
		inner := s[len(p[0]) : len(s)-len(p[1])]
		if strings.Contains(inner, p[0]) || strings.Contains(inner, p[1]) {
			return s
		}
		return inner
	}
	return s
}

func cleanDefinition(content string) (Definition, error) {
	def := sanitize(content)
	if def == "" {
		return "", fmt.Errorf("empty definition in response")
	}
	return Definition(def), nil
}

// cleanSpanTerm validates a disambiguation response: a single line whose
// words appear in the clicked definition, in the definition's order.
func cleanSpanTerm(content string, span ClickedSpan) (Term, error) {
	line := firstLine(content)
	text := strings.TrimRight(sanitize(line), ".")
	if text == "" {
		return "", fmt.Errorf("empty span in response")
	}

	next, matched := 0, 0
	for _, w := range strings.Fields(text) {
		folded := foldWord(w)
		if folded == "" {
			continue
		}
		for next < len(span.Words) && foldWord(span.Words[next]) != folded {
			next++
		}
		if next == len(span.Words) {
			return "", fmt.Errorf("span word %q does not follow the clicked definition's word order", w)
		}
		next++
		matched++
	}
	if matched == 0 {
		return "", fmt.Errorf("span %q contains no words", text)
	}

	return Term(upperFirst(text)), nil
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}

// foldWord lower-cases w and trims surrounding punctuation.
func foldWord(w string) string {
	return strings.ToLower(strings.TrimFunc(w, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}))
}

var _ Oracle = (*LLMOracle)(nil)
