package tracking

import (
	"errors"
	"sync"
	"testing"

	"github.com/leadpilot/leadpilot/internal/learning"
	"github.com/leadpilot/leadpilot/pkg/models"
)

// fakeAppender records appended events; failAll makes every append fail.
type fakeAppender struct {
	mu          sync.Mutex
	emails      []models.EmailEvent
	conversions []models.ConversionEvent
	pricing     []models.PricingEvent
	content     []models.ContentEvent
	failAll     bool
}

func (f *fakeAppender) AppendEmail(e models.EmailEvent) error {
	if f.failAll {
		return errors.New("disk full")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emails = append(f.emails, e)
	return nil
}

func (f *fakeAppender) AppendConversion(e models.ConversionEvent) error {
	if f.failAll {
		return errors.New("disk full")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conversions = append(f.conversions, e)
	return nil
}

func (f *fakeAppender) AppendPricing(e models.PricingEvent) error {
	if f.failAll {
		return errors.New("disk full")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pricing = append(f.pricing, e)
	return nil
}

func (f *fakeAppender) AppendContent(e models.ContentEvent) error {
	if f.failAll {
		return errors.New("disk full")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.content = append(f.content, e)
	return nil
}

// fakeUpdater counts weight update calls and can panic on demand.
type fakeUpdater struct {
	mu       sync.Mutex
	calls    int
	panicMsg string
}

func (f *fakeUpdater) UpdateWeights() map[learning.Factor]float64 {
	f.mu.Lock()
	f.calls++
	msg := f.panicMsg
	f.mu.Unlock()
	if msg != "" {
		panic(msg)
	}
	return nil
}

func (f *fakeUpdater) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestTrackEmailFillsDefaults(t *testing.T) {
	store := &fakeAppender{}
	tracker := NewTracker(store, nil, nil)

	if err := tracker.TrackEmail(models.EmailEvent{Subject: "Hello"}); err != nil {
		t.Fatalf("track email: %v", err)
	}

	if len(store.emails) != 1 {
		t.Fatalf("expected 1 email appended, got %d", len(store.emails))
	}
	e := store.emails[0]
	if e.EmailID == "" {
		t.Error("expected generated email id")
	}
	if e.SentAt.IsZero() {
		t.Error("expected sent_at default")
	}
	if e.Opened || e.Clicked || e.Replied || e.Converted {
		t.Error("expected boolean fields to default to false")
	}
}

func TestTrackEmailTriggersAsyncWeightUpdate(t *testing.T) {
	store := &fakeAppender{}
	updater := &fakeUpdater{}
	tracker := NewTracker(store, updater, nil)

	if err := tracker.TrackEmail(models.EmailEvent{Subject: "Hello"}); err != nil {
		t.Fatalf("track email: %v", err)
	}
	tracker.Wait()

	if updater.callCount() != 1 {
		t.Errorf("expected 1 weight update, got %d", updater.callCount())
	}
}

func TestTrackEmailSurvivesWeightUpdatePanic(t *testing.T) {
	store := &fakeAppender{}
	updater := &fakeUpdater{panicMsg: "boom"}
	tracker := NewTracker(store, updater, nil)

	if err := tracker.TrackEmail(models.EmailEvent{Subject: "Hello"}); err != nil {
		t.Fatalf("expected tracking to succeed despite update panic, got %v", err)
	}
	tracker.Wait()

	if len(store.emails) != 1 {
		t.Errorf("expected event persisted, got %d", len(store.emails))
	}
}

func TestTrackEmailReportsAppendFailure(t *testing.T) {
	store := &fakeAppender{failAll: true}
	updater := &fakeUpdater{}
	tracker := NewTracker(store, updater, nil)

	if err := tracker.TrackEmail(models.EmailEvent{}); err == nil {
		t.Error("expected append failure to surface to the caller")
	}
}

func TestTrackOtherCategories(t *testing.T) {
	store := &fakeAppender{}
	tracker := NewTracker(store, nil, nil)

	if err := tracker.TrackConversion(models.ConversionEvent{LeadID: "l1", Outcome: models.OutcomeSale, Revenue: 100}); err != nil {
		t.Fatalf("track conversion: %v", err)
	}
	if err := tracker.TrackPricing(models.PricingEvent{Price: 49, Outcome: models.PriceCountered}); err != nil {
		t.Fatalf("track pricing: %v", err)
	}
	if err := tracker.TrackContent(models.ContentEvent{ContentID: "c1", Type: "blog", Views: 500}); err != nil {
		t.Fatalf("track content: %v", err)
	}

	if len(store.conversions) != 1 || len(store.pricing) != 1 || len(store.content) != 1 {
		t.Error("expected one event per category")
	}
}

func TestTrackConversionAcceptsNegativeRevenue(t *testing.T) {
	store := &fakeAppender{}
	tracker := NewTracker(store, nil, nil)

	// No validation beyond type coercion: bad numbers pass through.
	if err := tracker.TrackConversion(models.ConversionEvent{Revenue: -50}); err != nil {
		t.Fatalf("expected negative revenue accepted, got %v", err)
	}
	if store.conversions[0].Revenue != -50 {
		t.Errorf("expected -50 stored as-is, got %v", store.conversions[0].Revenue)
	}
}
