package predict

import (
	"fmt"
	"testing"
	"time"

	"github.com/leadpilot/leadpilot/pkg/models"
)

// sentEmails builds n opened emails sent at the given time.
func sentEmails(n int, sentAt time.Time, opened bool) []models.EmailEvent {
	events := make([]models.EmailEvent, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, models.EmailEvent{
			EmailID: fmt.Sprintf("e-%d-%d", sentAt.Hour(), i),
			SentAt:  sentAt,
			Opened:  opened,
		})
	}
	return events
}

func TestBestSendTimeColdStart(t *testing.T) {
	p := NewPredictor(&fakeMetrics{emails: sentEmails(99, time.Now(), true)}, nil)

	got := p.BestSendTime()
	if got.BestTime != "10:00" || got.Day != "Tuesday" || got.Confidence != models.ConfidenceLow {
		t.Errorf("expected fixed default, got %+v", got)
	}
}

func TestBestSendTimePicksBusiestSlot(t *testing.T) {
	// 2024-01-03 is a Wednesday.
	wednesday14 := time.Date(2024, 1, 3, 14, 0, 0, 0, time.UTC)
	monday9 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	emails := append(sentEmails(80, wednesday14, true), sentEmails(40, monday9, true)...)
	p := NewPredictor(&fakeMetrics{emails: emails}, nil)

	got := p.BestSendTime()
	if got.BestTime != "14:00" {
		t.Errorf("expected best time 14:00, got %s", got.BestTime)
	}
	if got.Day != "Wednesday" {
		t.Errorf("expected Wednesday, got %s", got.Day)
	}
	if got.Confidence != models.ConfidenceMedium {
		t.Errorf("expected medium confidence at 120 records, got %s", got.Confidence)
	}
}

func TestBestSendTimeIgnoresUnopened(t *testing.T) {
	wednesday14 := time.Date(2024, 1, 3, 14, 0, 0, 0, time.UTC)
	monday9 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	// The larger batch was never opened; the smaller opened batch wins.
	emails := append(sentEmails(90, wednesday14, false), sentEmails(30, monday9, true)...)
	p := NewPredictor(&fakeMetrics{emails: emails}, nil)

	got := p.BestSendTime()
	if got.BestTime != "09:00" || got.Day != "Monday" {
		t.Errorf("expected 09:00 Monday, got %s %s", got.BestTime, got.Day)
	}
}

func TestBestSendTimeTieBreakFirstSeen(t *testing.T) {
	wednesday14 := time.Date(2024, 1, 3, 14, 0, 0, 0, time.UTC)
	monday9 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	// Equal counts: the hour seen first in insertion order wins.
	emails := append(sentEmails(60, wednesday14, true), sentEmails(60, monday9, true)...)
	p := NewPredictor(&fakeMetrics{emails: emails}, nil)

	got := p.BestSendTime()
	if got.BestTime != "14:00" || got.Day != "Wednesday" {
		t.Errorf("expected first-seen slot 14:00 Wednesday, got %s %s", got.BestTime, got.Day)
	}
}

func TestBestSendTimeHighConfidence(t *testing.T) {
	wednesday14 := time.Date(2024, 1, 3, 14, 0, 0, 0, time.UTC)
	p := NewPredictor(&fakeMetrics{emails: sentEmails(500, wednesday14, true)}, nil)

	got := p.BestSendTime()
	if got.Confidence != models.ConfidenceHigh {
		t.Errorf("expected high confidence at 500 records, got %s", got.Confidence)
	}
}
