package predict

import (
	"sort"

	"github.com/leadpilot/leadpilot/pkg/models"
)

// Next-action catalogue with base expected-conversion rates. Scores
// are rate x 100 before penalties.
var actionCatalogue = []struct {
	action string
	rate   float64
}{
	{"email", 0.15},
	{"call", 0.25},
	{"discount", 0.35},
	{"wait", 0.05},
}

// Penalty multipliers.
const (
	emailFatiguePenalty   = 0.5
	emailFatigueThreshold = 3
	repeatDiscountPenalty = 0.3
)

// RecommendNextAction scores the action catalogue against the lead's
// history, applies penalties, and returns the ranked result with a
// fixed reasoning line.
func (p *Predictor) RecommendNextAction(leadID string, history models.LeadHistory) models.ActionRecommendation {
	scores := make([]models.ActionScore, 0, len(actionCatalogue))
	for _, entry := range actionCatalogue {
		score := entry.rate * 100

		if entry.action == "email" && history.EmailsSent > emailFatigueThreshold {
			score *= emailFatiguePenalty
		}
		if entry.action == "discount" && history.LastAction == "discount" {
			score *= repeatDiscountPenalty
		}

		scores = append(scores, models.ActionScore{Action: entry.action, Score: score})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})

	return models.ActionRecommendation{
		Recommended:  scores[0],
		Alternatives: scores[1:],
		Reasoning:    reasoningFor(history),
	}
}

// reasoningFor is a fixed decision table over the lead's history.
func reasoningFor(history models.LeadHistory) string {
	switch {
	case history.EmailsSent > emailFatigueThreshold && history.LastAction == "discount":
		return "This lead has seen heavy outreach and a recent discount; a direct call avoids both fatigue and margin erosion."
	case history.EmailsSent > emailFatigueThreshold:
		return "Several emails have already gone out; further email is discounted in favor of a channel change."
	case history.LastAction == "discount":
		return "A discount was just offered; stacking another would erode the deal, so other touches rank higher."
	case history.LastResponse == "positive":
		return "The last touch got a positive response; strike while the interest is warm."
	case history.LastResponse == "negative":
		return "The last touch got a negative response; a lighter follow-up keeps the door open."
	default:
		return "No strong signal in the history; the standard cadence ordering applies."
	}
}
