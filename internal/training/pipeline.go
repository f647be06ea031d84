// Package training runs the cooldown-gated batch pipeline that fits
// the derived models from accumulated history, and owns the A/B test
// ledger operations.
package training

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/leadpilot/leadpilot/internal/logging"
	"github.com/leadpilot/leadpilot/pkg/models"
)

// Per-model minimum sample floors.
const (
	subjectLineFloor = 50
	pricingFloor     = 30
	contentFloor     = 20
	leadScoringFloor = 50
)

const defaultInterval = 24 * time.Hour

// leadScoringStopFactor scales the non-sale touchpoint average into
// the stop-chasing threshold.
const leadScoringStopFactor = 1.5

// Store is the pipeline's view of persistence: event history in,
// model snapshots and the run timestamp out.
type Store interface {
	EmailEvents() []models.EmailEvent
	ConversionEvents() []models.ConversionEvent
	PricingEvents() []models.PricingEvent
	ContentEvents() []models.ContentEvent
	SaveModel(name models.ModelName, trainedAt time.Time, payload interface{}) error
	LastTrainedAt() time.Time
	SetLastTrainedAt(t time.Time) error
}

// Pipeline fits the four derived models on a cooldown timer.
type Pipeline struct {
	store    Store
	logger   *logging.DebugLogger
	interval time.Duration
	now      func() time.Time
}

// NewPipeline creates a pipeline with the given cooldown interval.
// A zero interval uses the 24 hour default; logger may be nil.
func NewPipeline(store Store, interval time.Duration, logger *logging.DebugLogger) *Pipeline {
	if interval == 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Pipeline{
		store:    store,
		logger:   logger,
		interval: interval,
		now:      time.Now,
	}
}

// ShouldTrain reports whether the cooldown has elapsed since the last
// completed run. True when no run has ever completed.
func (p *Pipeline) ShouldTrain() bool {
	last := p.store.LastTrainedAt()
	if last.IsZero() {
		return true
	}
	return p.now().Sub(last) > p.interval
}

// Train runs the four sub-trainers in a fixed sequence and persists
// each fitted model by name. The run timestamp is updated only after
// every sub-trainer has finished; a crash mid-run leaves partial
// models written but the timestamp untouched, so the next ShouldTrain
// re-triggers a full re-run.
func (p *Pipeline) Train() (models.TrainReport, error) {
	ranAt := p.now()
	report := models.TrainReport{
		RanAt:    ranAt,
		Statuses: make(map[models.ModelName]models.TrainStatus, 4),
	}

	steps := []struct {
		name models.ModelName
		fit  func(time.Time) (models.TrainStatus, error)
	}{
		{models.ModelSubjectLine, p.trainSubjectLine},
		{models.ModelPricing, p.trainPricing},
		{models.ModelContent, p.trainContent},
		{models.ModelLeadScoring, p.trainLeadScoring},
	}

	for _, step := range steps {
		status, err := step.fit(ranAt)
		if err != nil {
			return report, fmt.Errorf("train %s: %w", step.name, err)
		}
		report.Statuses[step.name] = status
		p.logger.Log("trained %s: %s", step.name, status)
	}

	if err := p.store.SetLastTrainedAt(ranAt); err != nil {
		return report, fmt.Errorf("mark training run: %w", err)
	}
	return report, nil
}

func (p *Pipeline) trainSubjectLine(ranAt time.Time) (models.TrainStatus, error) {
	emails := p.store.EmailEvents()
	if len(emails) < subjectLineFloor {
		return models.TrainStatusInsufficientData, nil
	}

	type group struct {
		total     int
		converted int
	}
	groups := make(map[string]*group)
	var order []string
	convertedCount := 0
	convertedLength := 0
	for _, e := range emails {
		word := firstWord(e.Subject)
		g, ok := groups[word]
		if !ok {
			g = &group{}
			groups[word] = g
			order = append(order, word)
		}
		g.total++
		if e.Converted {
			g.converted++
			convertedCount++
			convertedLength += len(e.Subject)
		}
	}

	var patterns []models.SubjectPattern
	for _, word := range order {
		g := groups[word]
		if g.total < 3 {
			continue
		}
		patterns = append(patterns, models.SubjectPattern{
			Word:    word,
			Rate:    float64(g.converted) / float64(g.total),
			Samples: g.total,
		})
	}
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Rate > patterns[j].Rate
	})
	if len(patterns) > 5 {
		patterns = patterns[:5]
	}

	avgLength := 0.0
	if convertedCount > 0 {
		avgLength = float64(convertedLength) / float64(convertedCount)
	}

	model := models.SubjectLineModel{
		Patterns:           patterns,
		AvgConvertedLength: avgLength,
		SampleSize:         len(emails),
	}
	if err := p.store.SaveModel(models.ModelSubjectLine, ranAt, model); err != nil {
		return "", err
	}
	return models.TrainStatusTrained, nil
}

func (p *Pipeline) trainPricing(ranAt time.Time) (models.TrainStatus, error) {
	events := p.store.PricingEvents()
	if len(events) < pricingFloor {
		return models.TrainStatusInsufficientData, nil
	}

	model := models.PricingModel{}
	acceptedSum := 0.0
	for _, e := range events {
		switch e.Outcome {
		case models.PriceAccepted:
			if model.Accepted == 0 || e.Price < model.MinAccepted {
				model.MinAccepted = e.Price
			}
			if e.Price > model.MaxAccepted {
				model.MaxAccepted = e.Price
			}
			acceptedSum += e.Price
			model.Accepted++
		case models.PriceRejected:
			if e.Price > model.RejectionThreshold {
				model.RejectionThreshold = e.Price
			}
			model.Rejected++
		}
	}
	if model.Accepted > 0 {
		model.AvgAccepted = acceptedSum / float64(model.Accepted)
	}

	if err := p.store.SaveModel(models.ModelPricing, ranAt, model); err != nil {
		return "", err
	}
	return models.TrainStatusTrained, nil
}

func (p *Pipeline) trainContent(ranAt time.Time) (models.TrainStatus, error) {
	events := p.store.ContentEvents()
	if len(events) < contentFloor {
		return models.TrainStatusInsufficientData, nil
	}

	type agg struct {
		conversions int
		samples     int
	}
	byType := make(map[string]*agg)
	var order []string
	for _, e := range events {
		a, ok := byType[e.Type]
		if !ok {
			a = &agg{}
			byType[e.Type] = a
			order = append(order, e.Type)
		}
		a.conversions += e.Conversions
		a.samples++
	}

	stats := make([]models.ContentTypeStat, 0, len(order))
	for _, typ := range order {
		a := byType[typ]
		stats = append(stats, models.ContentTypeStat{
			Type:           typ,
			AvgConversions: float64(a.conversions) / float64(a.samples),
			Samples:        a.samples,
		})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].AvgConversions > stats[j].AvgConversions
	})

	model := models.ContentModel{}
	if len(stats) > 3 {
		model.Best = stats[:3]
	} else {
		model.Best = stats
	}
	// Bottom two, worst first.
	for i := len(stats) - 1; i >= 0 && len(model.Worst) < 2; i-- {
		model.Worst = append(model.Worst, stats[i])
	}

	if err := p.store.SaveModel(models.ModelContent, ranAt, model); err != nil {
		return "", err
	}
	return models.TrainStatusTrained, nil
}

func (p *Pipeline) trainLeadScoring(ranAt time.Time) (models.TrainStatus, error) {
	events := p.store.ConversionEvents()
	if len(events) < leadScoringFloor {
		return models.TrainStatusInsufficientData, nil
	}

	saleTouchpoints, saleCount := 0, 0
	otherTouchpoints, otherCount := 0, 0
	for _, e := range events {
		if e.Outcome == models.OutcomeSale {
			saleTouchpoints += e.Touchpoints
			saleCount++
		} else {
			otherTouchpoints += e.Touchpoints
			otherCount++
		}
	}

	model := models.LeadScoringModel{}
	if saleCount > 0 {
		model.AvgTouchpointsSale = float64(saleTouchpoints) / float64(saleCount)
	}
	if otherCount > 0 {
		model.AvgTouchpointsNoSale = float64(otherTouchpoints) / float64(otherCount)
	}
	model.StopThreshold = model.AvgTouchpointsNoSale * leadScoringStopFactor

	if err := p.store.SaveModel(models.ModelLeadScoring, ranAt, model); err != nil {
		return "", err
	}
	return models.TrainStatusTrained, nil
}

// firstWord returns the lower-cased first whitespace-delimited token
// of a subject line, mirroring the grouping the weight engine uses.
func firstWord(subject string) string {
	fields := strings.Fields(subject)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
