// Package predict answers forward-looking questions over the metric
// store: conversion probability, lifetime value, churn risk, best send
// time, next-best action, and anomaly flags. The predictor is
// stateless; every call reads the store fresh.
package predict

import (
	"context"
	"math"
	"time"

	"github.com/leadpilot/leadpilot/pkg/models"
)

// Sample-size floors and blend constants.
const (
	minConversionSamples = 10
	mediumSampleFloor    = 50
	highSampleFloor      = 100

	coldProbability  = 0.1
	touchpointBoost  = 0.1
	probabilityCeil  = 0.9
	avgOrderValue    = 99
	purchasesPerYear = 12
	clvPriorityFloor = 50
)

// MetricSource is the read-only store view the predictor consumes.
type MetricSource interface {
	EmailEvents() []models.EmailEvent
	ConversionEvents() []models.ConversionEvent
}

// LeadScorer is the optional external scoring collaborator. A nil
// scorer and a failed scorer call are treated identically: the blend
// step is skipped.
type LeadScorer interface {
	ScoreLead(ctx context.Context, lead models.Lead) (models.LeadScore, error)
}

// Predictor answers prediction queries over the metric store.
type Predictor struct {
	metrics MetricSource
	scorer  LeadScorer
	now     func() time.Time
}

// NewPredictor creates a predictor. scorer may be nil.
func NewPredictor(metrics MetricSource, scorer LeadScorer) *Predictor {
	return &Predictor{
		metrics: metrics,
		scorer:  scorer,
		now:     time.Now,
	}
}

// PredictConversion estimates the probability that the lead converts.
// Below 10 conversion records the answer is a fixed cold-start value.
func (p *Predictor) PredictConversion(ctx context.Context, lead models.Lead) models.ConversionPrediction {
	conversions := p.metrics.ConversionEvents()
	total := len(conversions)

	if total < minConversionSamples {
		return models.ConversionPrediction{
			Probability: coldProbability,
			Confidence:  models.ConfidenceLow,
		}
	}

	sales := 0
	for _, c := range conversions {
		if c.Outcome == models.OutcomeSale {
			sales++
		}
	}
	baseRate := float64(sales) / float64(total)

	probability := baseRate
	if lead.Touchpoints > 0 {
		boosted := baseRate * (1 + float64(lead.Touchpoints)*touchpointBoost)
		probability = math.Min(probabilityCeil, boosted)
	}

	if p.scorer != nil {
		if score, err := p.scorer.ScoreLead(ctx, lead); err == nil {
			probability = (probability + score.Score/100) / 2
		}
	}

	return models.ConversionPrediction{
		Probability: probability,
		Confidence:  confidenceFor(total),
	}
}

// PredictCLV estimates customer lifetime value from the conversion
// probability and a fixed average order value.
func (p *Predictor) PredictCLV(ctx context.Context, lead models.Lead) models.CLVPrediction {
	conv := p.PredictConversion(ctx, lead)

	purchases := conv.Probability * purchasesPerYear
	clv := round2(conv.Probability * avgOrderValue * purchases)

	recommendation := models.CLVStandard
	if clv > clvPriorityFloor {
		recommendation = models.CLVHighPriority
	}

	return models.CLVPrediction{
		Probability:        conv.Probability,
		PredictedPurchases: purchases,
		CLV:                clv,
		Recommendation:     recommendation,
	}
}

// Churn risk contributions and level cutoffs.
const (
	inactivityRisk   = 30
	inactivityWindow = 30 * 24 * time.Hour
	lowOpenRateRisk  = 20
	lowOpenRateFloor = 20
	noPurchaseRisk   = 40
	purchaseWindow   = 60 * 24 * time.Hour

	churnHighCutoff   = 60
	churnMediumCutoff = 30
)

// PredictChurn scores churn risk additively from engagement signals
// and clamps the result to [0,100]. Unknown timestamps count as risk;
// an unknown open rate does not.
func (p *Predictor) PredictChurn(customerID string, m models.EngagementMetrics) models.ChurnPrediction {
	now := p.now()
	risk := 0

	if m.LastActive == nil || now.Sub(*m.LastActive) > inactivityWindow {
		risk += inactivityRisk
	}
	if m.OpenRate != nil && *m.OpenRate < lowOpenRateFloor {
		risk += lowOpenRateRisk
	}
	if m.LastPurchase == nil || now.Sub(*m.LastPurchase) > purchaseWindow {
		risk += noPurchaseRisk
	}

	if risk < 0 {
		risk = 0
	}
	if risk > 100 {
		risk = 100
	}

	level, action := "low", models.ChurnActionContinue
	switch {
	case risk > churnHighCutoff:
		level, action = "high", models.ChurnActionImmediate
	case risk > churnMediumCutoff:
		level, action = "medium", models.ChurnActionReengage
	}

	return models.ChurnPrediction{
		CustomerID: customerID,
		RiskScore:  risk,
		Level:      level,
		Action:     action,
	}
}

// confidenceFor maps a sample size onto the coarse confidence tiers.
func confidenceFor(total int) models.Confidence {
	switch {
	case total >= highSampleFloor:
		return models.ConfidenceHigh
	case total >= mediumSampleFloor:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
