package llmcall

import (
	"strings"
	"time"
)

// QueryFilter specifies filters for listing LLM calls.
type QueryFilter struct {
	Subject   string
	PromptKey string
	Provider  string
	Model     string
	After     *time.Time
	Before    *time.Time
	Success   *bool
	Limit     int
	Offset    int
}

// Get retrieves a single LLM call by ID. Returns nil if not found.
func (r *Recorder) Get(id string) *Call {
	for _, c := range r.snapshot() {
		if c.ID == id {
			call := c
			return &call
		}
	}
	return nil
}

// List retrieves LLM calls matching the filter, newest first.
func (r *Recorder) List(filter QueryFilter) []Call {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}

	var matched []Call
	skipped := 0
	for _, c := range r.snapshot() {
		if !filter.matches(c) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		matched = append(matched, c)
		if len(matched) >= filter.Limit {
			break
		}
	}
	return matched
}

// CountByPromptKey returns the number of held calls per prompt key.
func (r *Recorder) CountByPromptKey() map[string]int {
	counts := make(map[string]int)
	for _, c := range r.snapshot() {
		counts[c.PromptKey]++
	}
	return counts
}

func (f QueryFilter) matches(c Call) bool {
	if f.Subject != "" && !strings.EqualFold(f.Subject, c.Subject) {
		return false
	}
	if f.PromptKey != "" && f.PromptKey != c.PromptKey {
		return false
	}
	if f.Provider != "" && f.Provider != c.Provider {
		return false
	}
	if f.Model != "" && f.Model != c.Model {
		return false
	}
	if f.After != nil && !c.Timestamp.After(*f.After) {
		return false
	}
	if f.Before != nil && !c.Timestamp.Before(*f.Before) {
		return false
	}
	if f.Success != nil && *f.Success != c.Success {
		return false
	}
	return true
}
