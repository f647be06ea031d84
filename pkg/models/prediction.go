package models

import "time"

// Confidence qualifies a prediction by the amount of data behind it.
type Confidence string

const (
	// ConfidenceLow indicates the sample-size floor was not met.
	ConfidenceLow Confidence = "low"
	// ConfidenceMedium indicates a moderate sample size.
	ConfidenceMedium Confidence = "medium"
	// ConfidenceHigh indicates a large sample size.
	ConfidenceHigh Confidence = "high"
)

// Lead carries the attributes prediction operations read.
type Lead struct {
	ID           string `json:"id,omitempty"`
	Email        string `json:"email,omitempty"`
	Name         string `json:"name,omitempty"`
	BusinessType string `json:"business_type,omitempty"`
	// Touchpoints is the number of interactions so far. Zero means
	// no touchpoints and leaves the base rate unchanged.
	Touchpoints int `json:"touchpoints,omitempty"`
}

// ConversionPrediction is the answer to "will this lead convert".
type ConversionPrediction struct {
	Probability float64    `json:"probability"`
	Confidence  Confidence `json:"confidence"`
}

// CLVPrediction estimates customer lifetime value for a lead.
type CLVPrediction struct {
	Probability        float64 `json:"probability"`
	PredictedPurchases float64 `json:"predicted_purchases"`
	CLV                float64 `json:"clv"`
	Recommendation     string  `json:"recommendation"`
}

// CLV recommendation tiers.
const (
	CLVHighPriority = "high_priority"
	CLVStandard     = "standard"
)

// EngagementMetrics are the signals predictChurn reads. Nil fields
// mean the signal is unknown; unknown timestamps count as risk,
// an unknown open rate does not.
type EngagementMetrics struct {
	LastActive   *time.Time `json:"last_active,omitempty"`
	OpenRate     *float64   `json:"open_rate,omitempty"`
	LastPurchase *time.Time `json:"last_purchase,omitempty"`
}

// ChurnPrediction is an additive risk assessment for a customer.
type ChurnPrediction struct {
	CustomerID string `json:"customer_id"`
	RiskScore  int    `json:"risk_score"`
	Level      string `json:"level"`
	Action     string `json:"action"`
}

// Churn actions, one per risk level.
const (
	ChurnActionImmediate = "immediate_outreach"
	ChurnActionReengage  = "send_reengagement"
	ChurnActionContinue  = "continue_normal"
)

// SendTimePrediction is the best known hour and weekday to send.
type SendTimePrediction struct {
	BestTime   string     `json:"best_time"`
	Day        string     `json:"day"`
	Confidence Confidence `json:"confidence"`
}

// LeadHistory summarizes prior actions taken on a lead.
type LeadHistory struct {
	EmailsSent   int    `json:"emails_sent"`
	LastAction   string `json:"last_action,omitempty"`
	LastResponse string `json:"last_response,omitempty"`
}

// ActionScore is one candidate next action with its penalized score.
type ActionScore struct {
	Action string  `json:"action"`
	Score  float64 `json:"score"`
}

// ActionRecommendation ranks the next-best actions for a lead.
type ActionRecommendation struct {
	Recommended  ActionScore   `json:"recommended"`
	Alternatives []ActionScore `json:"alternatives"`
	Reasoning    string        `json:"reasoning"`
}

// MetricsSnapshot is the input to anomaly detection. Change fields
// are percentages relative to the prior period.
type MetricsSnapshot struct {
	RevenueChange float64 `json:"revenue_change"`
	BounceRate    float64 `json:"bounce_rate"`
	TrafficChange float64 `json:"traffic_change"`
}

// Anomaly is one triggered threshold check.
type Anomaly struct {
	Type           string `json:"type"`
	Severity       string `json:"severity"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation"`
}

// LeadScore is the result of the external scoring collaborator.
type LeadScore struct {
	// Score is in [0,100].
	Score float64 `json:"score"`
	// Confidence is the collaborator's own qualifier.
	Confidence Confidence `json:"confidence"`
}
