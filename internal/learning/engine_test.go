package learning

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/leadpilot/leadpilot/pkg/models"
)

// fakeMetrics is a slice-backed MetricSource.
type fakeMetrics struct {
	emails []models.EmailEvent
}

func (f *fakeMetrics) EmailEvents() []models.EmailEvent {
	return f.emails
}

// emailBatch builds n email events with the given subject, converting
// the first convertedCount of them.
func emailBatch(subject string, n, convertedCount int) []models.EmailEvent {
	events := make([]models.EmailEvent, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, models.EmailEvent{
			EmailID:   fmt.Sprintf("%s-%d", subject, i),
			Subject:   subject,
			Converted: i < convertedCount,
		})
	}
	return events
}

func TestUpdateWeightsNoOpBelowSampleFloor(t *testing.T) {
	metrics := &fakeMetrics{emails: emailBatch("Quick question", 49, 49)}
	engine := NewEngine(metrics, nil)

	weights := engine.UpdateWeights()
	if weights[FactorSubjectLine] != defaultWeight {
		t.Errorf("expected untouched weight %v, got %v", defaultWeight, weights[FactorSubjectLine])
	}
}

func TestUpdateWeightsNoOpBelowConversionFloor(t *testing.T) {
	metrics := &fakeMetrics{emails: emailBatch("Quick question", 60, 4)}
	engine := NewEngine(metrics, nil)

	weights := engine.UpdateWeights()
	if weights[FactorSubjectLine] != defaultWeight {
		t.Errorf("expected untouched weight %v, got %v", defaultWeight, weights[FactorSubjectLine])
	}
}

func TestUpdateWeightsReinforcesWinningWord(t *testing.T) {
	// "Free" converts at 0.5, well above the 0.3 gate.
	emails := append(emailBatch("Free audit today", 10, 5), emailBatch("Meeting request", 50, 1)...)
	metrics := &fakeMetrics{emails: emails}
	engine := NewEngine(metrics, nil)

	weights := engine.UpdateWeights()
	want := defaultWeight + learningStep
	if weights[FactorSubjectLine] != want {
		t.Errorf("expected weight %v after step, got %v", want, weights[FactorSubjectLine])
	}
	if got := engine.BestSubjectWord(); got != "free" {
		t.Errorf("expected best word 'free', got %q", got)
	}

	// Other weights never move.
	for _, f := range []Factor{FactorSendTime, FactorOfferPrice, FactorContentQuality} {
		if weights[f] != defaultWeight {
			t.Errorf("factor %s moved to %v", f, weights[f])
		}
	}
}

func TestUpdateWeightsCapsAtHalf(t *testing.T) {
	emails := append(emailBatch("Free audit today", 10, 5), emailBatch("Meeting request", 50, 1)...)
	engine := NewEngine(&fakeMetrics{emails: emails}, nil)

	for i := 0; i < 5; i++ {
		engine.UpdateWeights()
	}
	weights := engine.Weights()
	if weights[FactorSubjectLine] != weightCap {
		t.Errorf("expected weight capped at %v, got %v", weightCap, weights[FactorSubjectLine])
	}
}

func TestUpdateWeightsBelowRateGate(t *testing.T) {
	// Best group converts at 0.2, below the 0.3 gate: the best word is
	// still recorded but the weight stays put.
	emails := append(emailBatch("Free audit today", 10, 2), emailBatch("Meeting request", 50, 3)...)
	engine := NewEngine(&fakeMetrics{emails: emails}, nil)

	weights := engine.UpdateWeights()
	if weights[FactorSubjectLine] != defaultWeight {
		t.Errorf("expected untouched weight, got %v", weights[FactorSubjectLine])
	}
	if got := engine.BestSubjectWord(); got != "free" {
		t.Errorf("expected best word 'free', got %q", got)
	}
}

func TestUpdateWeightsTieBreakFirstSeen(t *testing.T) {
	// Two groups with identical rates; the first-seen group wins.
	emails := append(emailBatch("Alpha offer", 10, 4), emailBatch("Beta offer", 10, 4)...)
	emails = append(emails, emailBatch("Filler line", 40, 1)...)
	engine := NewEngine(&fakeMetrics{emails: emails}, nil)

	engine.UpdateWeights()
	if got := engine.BestSubjectWord(); got != "alpha" {
		t.Errorf("expected first-seen tie-break 'alpha', got %q", got)
	}
}

func TestUpdateWeightsSkipsSmallGroups(t *testing.T) {
	// Two perfect conversions is below the 3-sample group floor.
	emails := append(emailBatch("Rare gem", 2, 2), emailBatch("Meeting request", 60, 20)...)
	engine := NewEngine(&fakeMetrics{emails: emails}, nil)

	engine.UpdateWeights()
	if got := engine.BestSubjectWord(); got != "meeting" {
		t.Errorf("expected 'meeting' (only group above floor), got %q", got)
	}
}

// fakeGenerator records calls and returns a canned subject or error.
type fakeGenerator struct {
	subject string
	err     error
	calls   int
	winners []string
}

func (f *fakeGenerator) GenerateSubject(_ context.Context, _ string, _ models.Lead, winners []string) (string, error) {
	f.calls++
	f.winners = winners
	return f.subject, f.err
}

func TestOptimizedSubjectFallsBackWithoutGenerator(t *testing.T) {
	engine := NewEngine(&fakeMetrics{}, nil)

	subject := engine.OptimizedSubject(context.Background(), "saas", models.Lead{})
	if !inPool("saas", subject) {
		t.Errorf("expected subject from saas pool, got %q", subject)
	}
}

func TestOptimizedSubjectUnknownTypeUsesGeneralPool(t *testing.T) {
	engine := NewEngine(&fakeMetrics{}, nil)

	subject := engine.OptimizedSubject(context.Background(), "bakery", models.Lead{})
	if !inPool("general", subject) {
		t.Errorf("expected subject from general pool, got %q", subject)
	}
}

func TestOptimizedSubjectDelegatesWithEnoughWinners(t *testing.T) {
	metrics := &fakeMetrics{emails: emailBatch("Winning line", 15, 12)}
	gen := &fakeGenerator{subject: "Generated subject"}
	engine := NewEngine(metrics, gen)

	subject := engine.OptimizedSubject(context.Background(), "saas", models.Lead{Name: "Pat"})
	if subject != "Generated subject" {
		t.Errorf("expected delegated subject, got %q", subject)
	}
	if gen.calls != 1 {
		t.Errorf("expected 1 generator call, got %d", gen.calls)
	}
	if len(gen.winners) != 12 {
		t.Errorf("expected 12 winners passed, got %d", len(gen.winners))
	}
}

func TestOptimizedSubjectSkipsGeneratorBelowWinnerFloor(t *testing.T) {
	metrics := &fakeMetrics{emails: emailBatch("Winning line", 15, 9)}
	gen := &fakeGenerator{subject: "Generated subject"}
	engine := NewEngine(metrics, gen)

	subject := engine.OptimizedSubject(context.Background(), "saas", models.Lead{})
	if gen.calls != 0 {
		t.Errorf("expected no generator call below floor, got %d", gen.calls)
	}
	if !inPool("saas", subject) {
		t.Errorf("expected template fallback, got %q", subject)
	}
}

func TestOptimizedSubjectFallsBackOnGeneratorFailure(t *testing.T) {
	metrics := &fakeMetrics{emails: emailBatch("Winning line", 60, 50)}
	gen := &fakeGenerator{err: errors.New("timeout")}
	engine := NewEngine(metrics, gen)

	subject := engine.OptimizedSubject(context.Background(), "agency", models.Lead{})
	if !inPool("agency", subject) {
		t.Errorf("expected template fallback on failure, got %q", subject)
	}
}

func TestConvertedSubjectsWindow(t *testing.T) {
	metrics := &fakeMetrics{emails: emailBatch("Winning line", 120, 120)}
	engine := NewEngine(metrics, nil)

	winners := engine.convertedSubjects()
	if len(winners) != winnerWindow {
		t.Errorf("expected window of %d, got %d", winnerWindow, len(winners))
	}
}

func TestFirstToken(t *testing.T) {
	tests := []struct {
		subject string
		want    string
	}{
		{"Free audit today", "free"},
		{"  Spaced   out  ", "spaced"},
		{"", ""},
		{"ONE", "one"},
	}
	for _, tt := range tests {
		if got := firstToken(tt.subject); got != tt.want {
			t.Errorf("firstToken(%q) = %q, want %q", tt.subject, got, tt.want)
		}
	}
}

func inPool(businessType, subject string) bool {
	for _, s := range subjectTemplates[businessType] {
		if s == subject {
			return true
		}
	}
	return false
}
