package llmcall

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackzampolin/hidef/internal/providers"
)

func result(content string, success bool) *providers.ChatResult {
	return &providers.ChatResult{
		Content:          content,
		Provider:         "mock",
		ModelUsed:        "mock-model",
		PromptTokens:     12,
		CompletionTokens: 8,
		ExecutionTime:    25 * time.Millisecond,
		Success:          success,
	}
}

func TestFromChatResult(t *testing.T) {
	temp := providers.Float(0)
	call := FromChatResult(result("A plant", true), RecordOptions{
		Subject:     "Tree",
		PromptKey:   "dictionary.define_term",
		Temperature: temp,
	})

	if call.ID == "" {
		t.Error("expected generated ID")
	}
	if call.Subject != "Tree" || call.PromptKey != "dictionary.define_term" {
		t.Errorf("unexpected traceability fields: %+v", call)
	}
	if call.LatencyMs != 25 || call.InputTokens != 12 || call.OutputTokens != 8 {
		t.Errorf("unexpected metrics: %+v", call)
	}
	if !call.Success || call.Error != "" {
		t.Errorf("expected success, got %+v", call)
	}
	if call.Temperature == nil || *call.Temperature != 0 {
		t.Error("expected temperature 0 to be recorded")
	}

	if FromChatResult(nil, RecordOptions{}) != nil {
		t.Error("expected nil call for nil result")
	}
}

func TestFromChatResult_Failure(t *testing.T) {
	call := FromChatResult(result("", true), RecordOptions{Err: errors.New("context deadline exceeded")})
	if call.Success {
		t.Error("call with error should not be successful")
	}
	if call.Error != "context deadline exceeded" {
		t.Errorf("expected error message, got %q", call.Error)
	}

	failed := result("", false)
	failed.ErrorMessage = "rate limited"
	call = FromChatResult(failed, RecordOptions{})
	if call.Error != "rate limited" {
		t.Errorf("expected provider error message, got %q", call.Error)
	}
}

func TestRecorder_Ring(t *testing.T) {
	r := NewRecorder(3)
	for i := 0; i < 5; i++ {
		r.Record(result(fmt.Sprintf("def %d", i), true), RecordOptions{Subject: fmt.Sprintf("term %d", i)})
	}

	if r.Len() != 3 {
		t.Fatalf("expected 3 held calls, got %d", r.Len())
	}

	calls := r.List(QueryFilter{})
	if len(calls) != 3 {
		t.Fatalf("expected 3 listed calls, got %d", len(calls))
	}
	for i, want := range []string{"term 4", "term 3", "term 2"} {
		if calls[i].Subject != want {
			t.Errorf("calls[%d].Subject = %q, want %q", i, calls[i].Subject, want)
		}
	}
}

func TestRecorder_NilSafe(t *testing.T) {
	var r *Recorder
	if r.Record(result("x", true), RecordOptions{}) != nil {
		t.Error("nil recorder should not return a call")
	}
	r.RecordCall(&Call{})
}

func TestRecorder_ListFilter(t *testing.T) {
	r := NewRecorder(10)
	r.Record(result("a", true), RecordOptions{Subject: "Tree", PromptKey: "dictionary.define_term"})
	r.Record(result("", false), RecordOptions{Subject: "A [tree] x", PromptKey: "dictionary.disambiguate_click"})
	r.Record(result("b", true), RecordOptions{Subject: "Algebra", PromptKey: "dictionary.define_term"})

	if got := r.List(QueryFilter{PromptKey: "dictionary.define_term"}); len(got) != 2 {
		t.Errorf("expected 2 define_term calls, got %d", len(got))
	}
	if got := r.List(QueryFilter{Subject: "tree"}); len(got) != 1 || got[0].Subject != "Tree" {
		t.Errorf("expected case-insensitive subject match, got %+v", got)
	}

	failed := false
	if got := r.List(QueryFilter{Success: &failed}); len(got) != 1 {
		t.Errorf("expected 1 failed call, got %d", len(got))
	}
	if got := r.List(QueryFilter{Limit: 1, Offset: 1}); len(got) != 1 || got[0].Subject != "A [tree] x" {
		t.Errorf("unexpected page: %+v", got)
	}

	future := time.Now().Add(time.Hour)
	if got := r.List(QueryFilter{After: &future}); len(got) != 0 {
		t.Errorf("expected no calls after the future, got %d", len(got))
	}

	counts := r.CountByPromptKey()
	if counts["dictionary.define_term"] != 2 || counts["dictionary.disambiguate_click"] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestRecorder_Get(t *testing.T) {
	r := NewRecorder(10)
	call := r.Record(result("a", true), RecordOptions{Subject: "Tree"})

	got := r.Get(call.ID)
	if got == nil || got.Subject != "Tree" {
		t.Fatalf("expected recorded call, got %+v", got)
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unknown ID")
	}
}
