package training

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leadpilot/leadpilot/internal/store"
	"github.com/leadpilot/leadpilot/pkg/models"
)

// newTestStore creates a temporary Store for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "leadpilot-training-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	s, err := store.Open(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return s
}

func seedEmails(t *testing.T, s *store.Store, subject string, n, converted int) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := s.AppendEmail(models.EmailEvent{
			EmailID:   fmt.Sprintf("%s-%d", subject, i),
			Subject:   subject,
			Converted: i < converted,
		})
		if err != nil {
			t.Fatalf("seed email: %v", err)
		}
	}
}

func seedConversions(t *testing.T, s *store.Store, outcome models.ConversionOutcome, touchpoints, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := s.AppendConversion(models.ConversionEvent{
			LeadID:      fmt.Sprintf("%s-%d", outcome, i),
			Outcome:     outcome,
			Touchpoints: touchpoints,
		})
		if err != nil {
			t.Fatalf("seed conversion: %v", err)
		}
	}
}

func TestShouldTrainLifecycle(t *testing.T) {
	s := newTestStore(t)
	p := NewPipeline(s, 24*time.Hour, nil)

	if !p.ShouldTrain() {
		t.Error("expected ShouldTrain true on first call")
	}

	if _, err := p.Train(); err != nil {
		t.Fatalf("train: %v", err)
	}
	if p.ShouldTrain() {
		t.Error("expected ShouldTrain false immediately after a run")
	}

	// Move the clock past the cooldown.
	p.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	if !p.ShouldTrain() {
		t.Error("expected ShouldTrain true after the interval elapses")
	}
}

func TestTrainEmptyStoreReportsInsufficientData(t *testing.T) {
	s := newTestStore(t)
	p := NewPipeline(s, 0, nil)

	report, err := p.Train()
	if err != nil {
		t.Fatalf("train: %v", err)
	}

	for _, name := range []models.ModelName{models.ModelSubjectLine, models.ModelPricing, models.ModelContent, models.ModelLeadScoring} {
		if report.Statuses[name] != models.TrainStatusInsufficientData {
			t.Errorf("%s: expected insufficient_data, got %s", name, report.Statuses[name])
		}
	}

	// The run still completes and marks the timestamp.
	if s.LastTrainedAt().IsZero() {
		t.Error("expected run timestamp after completed run")
	}
}

func TestTrainSubjectLineModel(t *testing.T) {
	s := newTestStore(t)
	seedEmails(t, s, "Free audit today", 10, 6)
	seedEmails(t, s, "Meeting request follow-up", 50, 5)
	p := NewPipeline(s, 0, nil)

	report, err := p.Train()
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if report.Statuses[models.ModelSubjectLine] != models.TrainStatusTrained {
		t.Fatalf("expected trained, got %s", report.Statuses[models.ModelSubjectLine])
	}

	var model models.SubjectLineModel
	if _, ok := s.LoadModel(models.ModelSubjectLine, &model); !ok {
		t.Fatal("expected subject line model persisted")
	}
	if len(model.Patterns) == 0 || model.Patterns[0].Word != "free" {
		t.Errorf("expected 'free' as top pattern, got %+v", model.Patterns)
	}
	if model.Patterns[0].Rate != 0.6 {
		t.Errorf("expected rate 0.6, got %v", model.Patterns[0].Rate)
	}
	if model.SampleSize != 60 {
		t.Errorf("expected sample size 60, got %d", model.SampleSize)
	}
	if model.AvgConvertedLength <= 0 {
		t.Errorf("expected positive average converted length, got %v", model.AvgConvertedLength)
	}
}

func TestTrainPricingModel(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 20; i++ {
		if err := s.AppendPricing(models.PricingEvent{Price: float64(100 + i*10), Outcome: models.PriceAccepted}); err != nil {
			t.Fatalf("seed pricing: %v", err)
		}
	}
	for i := 0; i < 15; i++ {
		if err := s.AppendPricing(models.PricingEvent{Price: float64(400 + i*10), Outcome: models.PriceRejected}); err != nil {
			t.Fatalf("seed pricing: %v", err)
		}
	}
	p := NewPipeline(s, 0, nil)

	if _, err := p.Train(); err != nil {
		t.Fatalf("train: %v", err)
	}

	var model models.PricingModel
	if _, ok := s.LoadModel(models.ModelPricing, &model); !ok {
		t.Fatal("expected pricing model persisted")
	}
	if model.MinAccepted != 100 || model.MaxAccepted != 290 {
		t.Errorf("expected accepted band [100,290], got [%v,%v]", model.MinAccepted, model.MaxAccepted)
	}
	if model.AvgAccepted != 195 {
		t.Errorf("expected average accepted 195, got %v", model.AvgAccepted)
	}
	if model.RejectionThreshold != 540 {
		t.Errorf("expected rejection threshold 540, got %v", model.RejectionThreshold)
	}
	if model.Accepted != 20 || model.Rejected != 15 {
		t.Errorf("expected counts 20/15, got %d/%d", model.Accepted, model.Rejected)
	}
}

func TestTrainContentModel(t *testing.T) {
	s := newTestStore(t)
	seed := []struct {
		typ         string
		conversions int
		n           int
	}{
		{"video", 10, 6},
		{"blog", 4, 6},
		{"case_study", 8, 6},
		{"infographic", 1, 6},
	}
	for _, sd := range seed {
		for i := 0; i < sd.n; i++ {
			err := s.AppendContent(models.ContentEvent{
				ContentID:   fmt.Sprintf("%s-%d", sd.typ, i),
				Type:        sd.typ,
				Conversions: sd.conversions,
			})
			if err != nil {
				t.Fatalf("seed content: %v", err)
			}
		}
	}
	p := NewPipeline(s, 0, nil)

	if _, err := p.Train(); err != nil {
		t.Fatalf("train: %v", err)
	}

	var model models.ContentModel
	if _, ok := s.LoadModel(models.ModelContent, &model); !ok {
		t.Fatal("expected content model persisted")
	}
	if len(model.Best) != 3 || model.Best[0].Type != "video" || model.Best[1].Type != "case_study" {
		t.Errorf("unexpected best ranking: %+v", model.Best)
	}
	if len(model.Worst) != 2 || model.Worst[0].Type != "infographic" {
		t.Errorf("unexpected worst ranking: %+v", model.Worst)
	}
}

func TestTrainLeadScoringModel(t *testing.T) {
	s := newTestStore(t)
	seedConversions(t, s, models.OutcomeSale, 6, 20)
	seedConversions(t, s, models.OutcomeNoResponse, 4, 30)
	p := NewPipeline(s, 0, nil)

	if _, err := p.Train(); err != nil {
		t.Fatalf("train: %v", err)
	}

	var model models.LeadScoringModel
	if _, ok := s.LoadModel(models.ModelLeadScoring, &model); !ok {
		t.Fatal("expected lead scoring model persisted")
	}
	if model.AvgTouchpointsSale != 6 {
		t.Errorf("expected sale average 6, got %v", model.AvgTouchpointsSale)
	}
	if model.AvgTouchpointsNoSale != 4 {
		t.Errorf("expected non-sale average 4, got %v", model.AvgTouchpointsNoSale)
	}
	if model.StopThreshold != 6 {
		t.Errorf("expected stop threshold 6, got %v", model.StopThreshold)
	}
}

// failingStore wraps a real store but fails every model save.
type failingStore struct {
	*store.Store
}

func (f *failingStore) SaveModel(models.ModelName, time.Time, interface{}) error {
	return errors.New("disk full")
}

func TestTrainSaveFailureLeavesTimestampUntouched(t *testing.T) {
	s := newTestStore(t)
	seedEmails(t, s, "Free audit today", 60, 10)
	p := NewPipeline(&failingStore{s}, 0, nil)

	if _, err := p.Train(); err == nil {
		t.Fatal("expected train to surface the save failure")
	}
	if !s.LastTrainedAt().IsZero() {
		t.Error("expected no run timestamp after failed run")
	}
	if !p.ShouldTrain() {
		t.Error("expected failed run to re-trigger training")
	}
}

func TestABTester(t *testing.T) {
	s := newTestStore(t)
	ab := NewABTester(s)

	if _, err := ab.Run("t1", "Subject A", "Subject B"); err != nil {
		t.Fatalf("run ab test: %v", err)
	}
	ab.RecordResult("t1", "A", true)
	ab.RecordResult("t1", "A", true)
	ab.RecordResult("t1", "B", false)

	test, ok := ab.Get("t1")
	if !ok {
		t.Fatal("expected ledger entry")
	}
	if test.A != 2 || test.AConversions != 2 || test.B != 1 || test.BConversions != 0 {
		t.Errorf("unexpected counters: %+v", test)
	}

	// Unknown ids are ignored without error.
	if err := ab.RecordResult("nope", "A", true); err != nil {
		t.Errorf("expected unknown id ignored, got %v", err)
	}
}

func TestABTesterGeneratesID(t *testing.T) {
	s := newTestStore(t)
	ab := NewABTester(s)

	test, err := ab.Run("", "A", "B")
	if err != nil {
		t.Fatalf("run ab test: %v", err)
	}
	if test.ID == "" {
		t.Error("expected generated test id")
	}
}
