// Package tracking is the write path: it builds typed event records
// from caller-supplied fields and appends them to the metric store.
// Malformed numeric fields are accepted as-is; the store is the system
// of record for what actually happened, not a validator.
package tracking

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leadpilot/leadpilot/internal/learning"
	"github.com/leadpilot/leadpilot/internal/logging"
	"github.com/leadpilot/leadpilot/pkg/models"
)

// Appender is the write surface of the metric store.
type Appender interface {
	AppendEmail(models.EmailEvent) error
	AppendConversion(models.ConversionEvent) error
	AppendPricing(models.PricingEvent) error
	AppendContent(models.ContentEvent) error
}

// WeightUpdater recomputes weights from accumulated history.
type WeightUpdater interface {
	UpdateWeights() map[learning.Factor]float64
}

// Tracker appends events and opportunistically triggers weight
// recomputation after email events.
type Tracker struct {
	store  Appender
	engine WeightUpdater
	logger *logging.DebugLogger
	wg     sync.WaitGroup
}

// NewTracker creates a tracker. engine may be nil to disable the
// opportunistic update; logger may be nil.
func NewTracker(store Appender, engine WeightUpdater, logger *logging.DebugLogger) *Tracker {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Tracker{
		store:  store,
		engine: engine,
		logger: logger,
	}
}

// TrackEmail appends an email performance event and fires an
// asynchronous weight update. The update cannot fail the tracking
// call; its errors are logged and dropped.
func (t *Tracker) TrackEmail(e models.EmailEvent) error {
	if e.EmailID == "" {
		e.EmailID = uuid.New().String()
	}
	if e.SentAt.IsZero() {
		e.SentAt = time.Now()
	}

	if err := t.store.AppendEmail(e); err != nil {
		return fmt.Errorf("track email: %w", err)
	}

	if t.engine != nil {
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					t.logger.Log("weight update panicked: %v", r)
				}
			}()
			t.engine.UpdateWeights()
		}()
	}

	return nil
}

// TrackConversion appends a conversion event.
func (t *Tracker) TrackConversion(e models.ConversionEvent) error {
	if err := t.store.AppendConversion(e); err != nil {
		return fmt.Errorf("track conversion: %w", err)
	}
	return nil
}

// TrackPricing appends a pricing event.
func (t *Tracker) TrackPricing(e models.PricingEvent) error {
	if err := t.store.AppendPricing(e); err != nil {
		return fmt.Errorf("track pricing: %w", err)
	}
	return nil
}

// TrackContent appends a content performance event.
func (t *Tracker) TrackContent(e models.ContentEvent) error {
	if err := t.store.AppendContent(e); err != nil {
		return fmt.Errorf("track content: %w", err)
	}
	return nil
}

// Wait blocks until all in-flight weight updates finish. Used at
// shutdown and in tests.
func (t *Tracker) Wait() {
	t.wg.Wait()
}
