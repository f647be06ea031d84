// Package learning maintains the adaptive weight set and the
// best-known subject summaries derived from email performance history.
package learning

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/leadpilot/leadpilot/pkg/models"
)

// Factor names a decision factor carrying an advisory weight.
type Factor string

const (
	// FactorSubjectLine weights subject line choice.
	FactorSubjectLine Factor = "subjectLine"
	// FactorSendTime weights send time choice.
	FactorSendTime Factor = "sendTime"
	// FactorOfferPrice weights price point choice.
	FactorOfferPrice Factor = "offerPrice"
	// FactorContentQuality weights content selection.
	FactorContentQuality Factor = "contentQuality"
)

// Learning rule constants. The rule is a single-variable reinforcement
// step: when a subject first-word shows a conversion rate above the
// gate, the subjectLine weight moves up one step, capped.
const (
	minEmailSamples     = 50
	minConvertedSamples = 5
	minGroupSamples     = 3
	rateGate            = 0.3
	learningStep        = 0.1
	weightCap           = 0.5
	defaultWeight       = 0.25
)

// minWinnersForGeneration is the floor of converted subjects required
// before subject generation is delegated to the collaborator.
const minWinnersForGeneration = 10

// winnerWindow is the trailing window of converted subjects considered.
const winnerWindow = 50

// MetricSource is the read-only view of the metric store the engine needs.
type MetricSource interface {
	EmailEvents() []models.EmailEvent
}

// SubjectGenerator is the external text-generation collaborator.
// A nil generator means unavailable; the engine then always uses the
// template pool.
type SubjectGenerator interface {
	GenerateSubject(ctx context.Context, businessType string, lead models.Lead, winners []string) (string, error)
}

// Engine owns the mutable weight state. Construct one per process and
// hand it to every consumer; a fresh instance per test keeps tests
// deterministic.
type Engine struct {
	metrics MetricSource
	gen     SubjectGenerator

	mu       sync.Mutex
	weights  map[Factor]float64
	bestWord string
	rng      *rand.Rand
}

// NewEngine creates an engine with default weights. gen may be nil.
func NewEngine(metrics MetricSource, gen SubjectGenerator) *Engine {
	return &Engine{
		metrics: metrics,
		gen:     gen,
		weights: map[Factor]float64{
			FactorSubjectLine:    defaultWeight,
			FactorSendTime:       defaultWeight,
			FactorOfferPrice:     defaultWeight,
			FactorContentQuality: defaultWeight,
		},
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// UpdateWeights recomputes the weight set from email history. It is a
// no-op until the collection has at least 50 records of which 5
// converted. Returns the resulting weights either way.
func (e *Engine) UpdateWeights() map[Factor]float64 {
	emails := e.metrics.EmailEvents()

	e.mu.Lock()
	defer e.mu.Unlock()

	if len(emails) < minEmailSamples {
		return e.snapshotLocked()
	}
	converted := 0
	for _, em := range emails {
		if em.Converted {
			converted++
		}
	}
	if converted < minConvertedSamples {
		return e.snapshotLocked()
	}

	type group struct {
		total     int
		converted int
	}
	groups := make(map[string]*group)
	var order []string
	for _, em := range emails {
		word := firstToken(em.Subject)
		g, ok := groups[word]
		if !ok {
			g = &group{}
			groups[word] = g
			order = append(order, word)
		}
		g.total++
		if em.Converted {
			g.converted++
		}
	}

	// First-seen order breaks ties: the champion is only replaced on
	// a strictly greater rate.
	bestWord := ""
	bestRate := -1.0
	for _, word := range order {
		g := groups[word]
		if g.total < minGroupSamples {
			continue
		}
		rate := float64(g.converted) / float64(g.total)
		if rate > bestRate {
			bestRate = rate
			bestWord = word
		}
	}

	if bestRate >= 0 {
		e.bestWord = bestWord
	}
	if bestRate > rateGate {
		w := e.weights[FactorSubjectLine] + learningStep
		if w > weightCap {
			w = weightCap
		}
		e.weights[FactorSubjectLine] = w
	}

	return e.snapshotLocked()
}

// Weights returns a copy of the current weight set.
func (e *Engine) Weights() map[Factor]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// BestSubjectWord returns the best known subject first-word, or empty
// if no group has met the sample floor yet.
func (e *Engine) BestSubjectWord() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bestWord
}

// OptimizedSubject returns a subject line for the lead. With enough
// converted history and an available collaborator it delegates
// generation; otherwise, and on any collaborator failure, it picks
// uniformly from the static template pool for the business type.
func (e *Engine) OptimizedSubject(ctx context.Context, businessType string, lead models.Lead) string {
	winners := e.convertedSubjects()

	if e.gen != nil && len(winners) >= minWinnersForGeneration {
		subject, err := e.gen.GenerateSubject(ctx, businessType, lead, winners)
		if err == nil && subject != "" {
			return subject
		}
	}

	return e.templateSubject(businessType)
}

// convertedSubjects gathers up to the last 50 subjects from converted
// emails, in insertion order.
func (e *Engine) convertedSubjects() []string {
	emails := e.metrics.EmailEvents()

	var winners []string
	for i := len(emails) - 1; i >= 0 && len(winners) < winnerWindow; i-- {
		if emails[i].Converted {
			winners = append(winners, emails[i].Subject)
		}
	}
	// Restore chronological order after the reverse scan.
	for i, j := 0, len(winners)-1; i < j; i, j = i+1, j-1 {
		winners[i], winners[j] = winners[j], winners[i]
	}
	return winners
}

func (e *Engine) snapshotLocked() map[Factor]float64 {
	out := make(map[Factor]float64, len(e.weights))
	for k, v := range e.weights {
		out[k] = v
	}
	return out
}

// firstToken returns the lower-cased first whitespace-delimited token.
func firstToken(subject string) string {
	fields := strings.Fields(subject)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
