package metrics

import (
	"math"
	"testing"

	"github.com/jackzampolin/hidef/internal/llmcall"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		p      float64
		want   float64
	}{
		{"empty", nil, 50, 0},
		{"single", []float64{7}, 99, 7},
		{"median odd", []float64{1, 2, 3}, 50, 2},
		{"median even interpolates", []float64{1, 2, 3, 4}, 50, 2.5},
		{"p100 is max", []float64{1, 2, 3, 4}, 100, 4},
		{"p0 is min", []float64{1, 2, 3, 4}, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percentile(tt.values, tt.p); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("percentile(%v, %v) = %v, want %v", tt.values, tt.p, got, tt.want)
			}
		})
	}
}

func TestCompute(t *testing.T) {
	calls := []llmcall.Call{
		{PromptKey: "a", Provider: "openai", LatencyMs: 100, InputTokens: 10, OutputTokens: 20, Success: true},
		{PromptKey: "a", Provider: "openai", LatencyMs: 300, InputTokens: 30, OutputTokens: 40, Success: true},
		{PromptKey: "b", Provider: "openrouter", LatencyMs: 0, Success: false},
	}

	s := Compute(calls)
	if s.Count != 3 || s.SuccessCount != 2 || s.ErrorCount != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/2/1", s.Count, s.SuccessCount, s.ErrorCount)
	}
	if s.TotalInputTokens != 40 || s.TotalOutputTokens != 60 {
		t.Errorf("tokens = %d/%d, want 40/60", s.TotalInputTokens, s.TotalOutputTokens)
	}
	if s.AvgOutputTokens != 20 {
		t.Errorf("AvgOutputTokens = %v, want 20", s.AvgOutputTokens)
	}
	// Zero latencies (failed before a response) are excluded.
	if s.LatencyMin != 100 || s.LatencyMax != 300 || s.LatencyAvg != 200 || s.LatencyP50 != 200 {
		t.Errorf("latency min/max/avg/p50 = %v/%v/%v/%v, want 100/300/200/200",
			s.LatencyMin, s.LatencyMax, s.LatencyAvg, s.LatencyP50)
	}
}

func TestCompute_Empty(t *testing.T) {
	s := Compute(nil)
	if s.Count != 0 || s.AvgInputTokens != 0 || s.LatencyP99 != 0 {
		t.Errorf("Compute(nil) = %+v, want zero stats", s)
	}
}

func TestGroupBy(t *testing.T) {
	calls := []llmcall.Call{
		{PromptKey: "a", Provider: "openai", Success: true},
		{PromptKey: "a", Provider: "openrouter", Success: true},
		{PromptKey: "b", Provider: "openai", Success: false},
		{PromptKey: "", Provider: "openai", Success: true},
	}

	byKey := ByPromptKey(calls)
	if len(byKey) != 2 {
		t.Fatalf("ByPromptKey groups = %d, want 2", len(byKey))
	}
	if byKey["a"].Count != 2 || byKey["b"].ErrorCount != 1 {
		t.Errorf("ByPromptKey = a:%+v b:%+v", byKey["a"], byKey["b"])
	}

	byProvider := ByProvider(calls)
	if byProvider["openai"].Count != 3 || byProvider["openrouter"].Count != 1 {
		t.Errorf("ByProvider counts = %d/%d, want 3/1", byProvider["openai"].Count, byProvider["openrouter"].Count)
	}
}
