package models

import (
	"testing"
	"time"
)

func TestQuote_Status(t *testing.T) {
	tests := []struct {
		name    string
		status  QuoteStatus
		isDraft bool
	}{
		{"draft", QuoteStatusDraft, true},
		{"generated", QuoteStatusGenerated, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &Quote{Status: tt.status}
			if got := q.IsDraft(); got != tt.isDraft {
				t.Errorf("IsDraft() = %v, want %v", got, tt.isDraft)
			}
		})
	}
}

func TestQuote_ValidUntil(t *testing.T) {
	q := &Quote{IssueDate: time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC), ValidityDays: 15}
	want := time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)
	if got := q.ValidUntil(); !got.Equal(want) {
		t.Errorf("ValidUntil() = %v, want %v", got, want)
	}
}

func TestCounter_Format(t *testing.T) {
	tests := []struct {
		name    string
		counter Counter
		n       int64
		want    string
	}{
		{"default padding", Counter{Prefix: "COT-"}, 7, "COT-2025007"},
		{"six digits", Counter{Prefix: "Q", Padding: 6}, 123, "Q2025000123"},
		{"suffix", Counter{Prefix: "COT-", Suffix: "-L", Padding: 3}, 42, "COT-2025042-L"},
		{"overflow", Counter{Prefix: "COT-", Padding: 2}, 1234, "COT-20251234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.counter.Format(2025, tt.n); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}
