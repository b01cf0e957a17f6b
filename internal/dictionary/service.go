package dictionary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultOracleTimeout bounds each oracle call when no timeout is configured.
const DefaultOracleTimeout = 60 * time.Second

// Resolution is a resolved (term, definition) node of the page graph.
type Resolution struct {
	Term       Term       `json:"term" yaml:"term"`
	Definition Definition `json:"definition" yaml:"definition"`
	Cached     bool       `json:"cached" yaml:"cached"`
}

// Page is a resolution together with its outgoing links.
type Page struct {
	Resolution `yaml:",inline"`
	Links      `yaml:",inline"`
}

// NewPage builds the page for a resolution.
func NewPage(res Resolution) Page {
	return Page{Resolution: res, Links: BuildLinks(res.Term, res.Definition)}
}

// String renders the page as plain text.
func (p Page) String() string {
	return string(p.Term) + "\n\n" + string(p.Definition)
}

// Config configures a Service.
type Config struct {
	Oracle Oracle
	// Terms and Clicks default to fresh empty caches.
	Terms  *TermCache
	Clicks *ClickCache
	// OracleTimeout bounds every individual oracle call.
	OracleTimeout time.Duration
	Logger        *slog.Logger
}

// Service resolves term and click lookups through the caches, falling back
// to the oracle on a miss. It holds no lock across the check, call and write
// sequence; concurrent misses for one key may both reach the oracle and the
// first write wins.
type Service struct {
	oracle  Oracle
	terms   *TermCache
	clicks  *ClickCache
	timeout atomic.Int64
	logger  *slog.Logger
}

// NewService creates a resolution service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Oracle == nil {
		return nil, fmt.Errorf("oracle is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Terms == nil {
		cfg.Terms = NewTermCache(cfg.Logger)
	}
	if cfg.Clicks == nil {
		cfg.Clicks = NewClickCache(cfg.Logger)
	}

	s := &Service{
		oracle: cfg.Oracle,
		terms:  cfg.Terms,
		clicks: cfg.Clicks,
		logger: cfg.Logger,
	}
	s.SetOracleTimeout(cfg.OracleTimeout)
	return s, nil
}

// SetOracleTimeout changes the per-call oracle timeout.
func (s *Service) SetOracleTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultOracleTimeout
	}
	s.timeout.Store(int64(d))
}

// OracleTimeout returns the per-call oracle timeout.
func (s *Service) OracleTimeout() time.Duration {
	return time.Duration(s.timeout.Load())
}

// Terms returns the term cache.
func (s *Service) Terms() *TermCache { return s.terms }

// Clicks returns the click cache.
func (s *Service) Clicks() *ClickCache { return s.clicks }

// ResolveByTerm resolves a raw term lookup.
func (s *Service) ResolveByTerm(ctx context.Context, raw string) (Resolution, error) {
	term, err := NormalizeTerm(raw)
	if err != nil {
		return Resolution{}, err
	}

	if def, ok := s.terms.Get(term); ok {
		return Resolution{Term: term, Definition: def, Cached: true}, nil
	}

	def, err := withTimeout(ctx, s.OracleTimeout(), OpDefineTerm, func(ctx context.Context) (Definition, error) {
		return s.oracle.DefineTerm(ctx, term)
	})
	if err != nil {
		s.logger.Warn("term resolution failed", "term", term, "error", err)
		return Resolution{}, err
	}

	stored := s.terms.Put(term, def)
	s.logger.Info("resolved term", "term", term, "words", wordCount(stored))
	return Resolution{Term: term, Definition: stored}, nil
}

// ResolveByClick resolves a raw clicked-span key lookup.
func (s *Service) ResolveByClick(ctx context.Context, raw string) (Resolution, error) {
	span, err := ParseClickedSpan(raw)
	if err != nil {
		return Resolution{}, err
	}
	key := span.Key()

	if entry, ok := s.clicks.Get(key); ok {
		return Resolution{Term: entry.Term, Definition: entry.Definition, Cached: true}, nil
	}

	term, err := withTimeout(ctx, s.OracleTimeout(), OpDisambiguateClick, func(ctx context.Context) (Term, error) {
		return s.oracle.DisambiguateClick(ctx, span)
	})
	if err != nil {
		s.logger.Warn("click disambiguation failed", "word", span.ClickedWord(), "error", err)
		return Resolution{}, err
	}

	def, err := withTimeout(ctx, s.OracleTimeout(), OpDefineInContext, func(ctx context.Context) (Definition, error) {
		return s.oracle.DefineInContext(ctx, term, span)
	})
	if err != nil {
		s.logger.Warn("contextual definition failed", "term", term, "error", err)
		return Resolution{}, err
	}

	stored := s.clicks.Put(key, ClickEntry{Term: term, Definition: def})
	s.logger.Info("resolved click", "word", span.ClickedWord(), "term", stored.Term)
	return Resolution{Term: stored.Term, Definition: stored.Definition}, nil
}

// Seed resolves every term concurrently so they are cached before the first
// request. It returns the joined errors of the terms that failed.
func (s *Service) Seed(ctx context.Context, terms []string) error {
	var (
		g    errgroup.Group
		errs = make([]error, len(terms))
	)
	g.SetLimit(4)
	for i, raw := range terms {
		g.Go(func() error {
			if _, err := s.ResolveByTerm(ctx, raw); err != nil {
				errs[i] = fmt.Errorf("seed %q: %w", raw, err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// withTimeout runs an oracle call under its own deadline and reports any
// failure, including expiry, as an *OracleError.
func withTimeout[T any](ctx context.Context, timeout time.Duration, op string, call func(context.Context) (T, error)) (T, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	v, err := call(callCtx)
	if err != nil {
		var zero T
		return zero, oracleErr(op, err)
	}
	return v, nil
}
