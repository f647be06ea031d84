package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/leadpilot/leadpilot/pkg/models"
)

const scorerSystemPrompt = `You score sales leads for conversion likelihood.
Respond with JSON only: {"score": <0-100>, "confidence": "low"|"medium"|"high"}`

// ScoreLead asks the collaborator for a conversion-likelihood score in
// [0,100]. Any parse failure is an error; the predictor treats it as
// "collaborator unavailable" and skips the blend.
func (c *Client) ScoreLead(ctx context.Context, lead models.Lead) (models.LeadScore, error) {
	attrs, err := json.Marshal(lead)
	if err != nil {
		return models.LeadScore{}, fmt.Errorf("marshal lead: %w", err)
	}

	resp, err := c.complete(ctx, scorerSystemPrompt, fmt.Sprintf("Lead attributes:\n%s", attrs))
	if err != nil {
		return models.LeadScore{}, err
	}

	var score models.LeadScore
	if err := json.Unmarshal([]byte(stripFences(resp)), &score); err != nil {
		return models.LeadScore{}, fmt.Errorf("parse score response: %w", err)
	}

	if score.Score < 0 {
		score.Score = 0
	}
	if score.Score > 100 {
		score.Score = 100
	}
	if score.Confidence == "" {
		score.Confidence = models.ConfidenceLow
	}
	return score, nil
}
