package predict

import "github.com/leadpilot/leadpilot/pkg/models"

// Anomaly thresholds.
const (
	revenueDropThreshold  = -50
	highBounceThreshold   = 10
	trafficSpikeThreshold = 200
)

// DetectAnomalies runs the independent threshold checks in fixed order
// and returns every one that fires. Identical input yields identical
// output.
func (p *Predictor) DetectAnomalies(m models.MetricsSnapshot) []models.Anomaly {
	var anomalies []models.Anomaly

	if m.RevenueChange < revenueDropThreshold {
		anomalies = append(anomalies, models.Anomaly{
			Type:           "revenue_drop",
			Severity:       "high",
			Message:        "Revenue dropped more than 50% against the prior period.",
			Recommendation: "Review recent pricing and campaign changes immediately.",
		})
	}

	if m.BounceRate > highBounceThreshold {
		anomalies = append(anomalies, models.Anomaly{
			Type:           "high_bounce",
			Severity:       "medium",
			Message:        "Email bounce rate is above 10%.",
			Recommendation: "Clean the lead list and verify addresses before the next send.",
		})
	}

	if m.TrafficChange > trafficSpikeThreshold {
		anomalies = append(anomalies, models.Anomaly{
			Type:           "traffic_spike",
			Severity:       "low",
			Message:        "Traffic is up more than 200% against the prior period.",
			Recommendation: "Identify the source and prepare follow-up content while attention lasts.",
		})
	}

	return anomalies
}
