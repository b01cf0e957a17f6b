// Package metrics aggregates recorded oracle calls into latency and token
// statistics.
package metrics

import (
	"sort"

	"github.com/jackzampolin/hidef/internal/llmcall"
)

// Stats provides latency percentiles and token totals for a set of calls.
type Stats struct {
	// Basic counts
	Count        int `json:"count" yaml:"count"`
	SuccessCount int `json:"success_count" yaml:"success_count"`
	ErrorCount   int `json:"error_count" yaml:"error_count"`

	// Latency percentiles (milliseconds)
	LatencyP50 float64 `json:"latency_p50_ms" yaml:"latency_p50_ms"`
	LatencyP95 float64 `json:"latency_p95_ms" yaml:"latency_p95_ms"`
	LatencyP99 float64 `json:"latency_p99_ms" yaml:"latency_p99_ms"`
	LatencyAvg float64 `json:"latency_avg_ms" yaml:"latency_avg_ms"`
	LatencyMin float64 `json:"latency_min_ms" yaml:"latency_min_ms"`
	LatencyMax float64 `json:"latency_max_ms" yaml:"latency_max_ms"`

	// Token stats
	TotalInputTokens  int     `json:"total_input_tokens" yaml:"total_input_tokens"`
	TotalOutputTokens int     `json:"total_output_tokens" yaml:"total_output_tokens"`
	AvgInputTokens    float64 `json:"avg_input_tokens" yaml:"avg_input_tokens"`
	AvgOutputTokens   float64 `json:"avg_output_tokens" yaml:"avg_output_tokens"`
}

// Compute returns statistics over calls.
func Compute(calls []llmcall.Call) *Stats {
	stats := &Stats{Count: len(calls)}
	if len(calls) == 0 {
		return stats
	}

	var latencies []float64
	for _, c := range calls {
		if c.Success {
			stats.SuccessCount++
		} else {
			stats.ErrorCount++
		}
		stats.TotalInputTokens += c.InputTokens
		stats.TotalOutputTokens += c.OutputTokens
		if c.LatencyMs > 0 {
			latencies = append(latencies, float64(c.LatencyMs))
		}
	}

	count := float64(stats.Count)
	stats.AvgInputTokens = float64(stats.TotalInputTokens) / count
	stats.AvgOutputTokens = float64(stats.TotalOutputTokens) / count

	if len(latencies) > 0 {
		sort.Float64s(latencies)
		stats.LatencyMin = latencies[0]
		stats.LatencyMax = latencies[len(latencies)-1]
		var sum float64
		for _, l := range latencies {
			sum += l
		}
		stats.LatencyAvg = sum / float64(len(latencies))
		stats.LatencyP50 = percentile(latencies, 50)
		stats.LatencyP95 = percentile(latencies, 95)
		stats.LatencyP99 = percentile(latencies, 99)
	}

	return stats
}

// GroupBy computes statistics per group, keyed by key(call).
// Calls with an empty key are skipped.
func GroupBy(calls []llmcall.Call, key func(llmcall.Call) string) map[string]*Stats {
	groups := make(map[string][]llmcall.Call)
	for _, c := range calls {
		if k := key(c); k != "" {
			groups[k] = append(groups[k], c)
		}
	}

	result := make(map[string]*Stats, len(groups))
	for k, group := range groups {
		result[k] = Compute(group)
	}
	return result
}

// ByPromptKey groups statistics by oracle operation.
func ByPromptKey(calls []llmcall.Call) map[string]*Stats {
	return GroupBy(calls, func(c llmcall.Call) string { return c.PromptKey })
}

// ByProvider groups statistics by LLM provider.
func ByProvider(calls []llmcall.Call) map[string]*Stats {
	return GroupBy(calls, func(c llmcall.Call) string { return c.Provider })
}

// percentile calculates the p-th percentile from a sorted slice of values.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	// Calculate the index
	n := float64(len(sorted))
	idx := (p / 100.0) * (n - 1)

	// Interpolate between floor and ceil indices
	lower := int(idx)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := idx - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
