package chat

import (
	"sync"
	"testing"
)

func TestRequestUsage_Add(t *testing.T) {
	got := RequestUsage{PromptTokens: 10, CompletionTokens: 5}.Add(RequestUsage{PromptTokens: 20, CompletionTokens: 3})
	want := RequestUsage{PromptTokens: 30, CompletionTokens: 8}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestUsageTracker_ConcurrentAdds(t *testing.T) {
	var tracker UsageTracker
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			tracker.Add(RequestUsage{PromptTokens: 10, CompletionTokens: 5})
		}()
		go func() {
			defer wg.Done()
			tracker.Add(RequestUsage{PromptTokens: 20, CompletionTokens: 3})
		}()
	}
	wg.Wait()

	want := RequestUsage{PromptTokens: 3000, CompletionTokens: 800}
	if got := tracker.Total(); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}
