package predict

import (
	"fmt"

	"github.com/leadpilot/leadpilot/pkg/models"
)

const (
	minSendTimeSamples  = 100
	highSendTimeSamples = 500
)

// Fixed cold-start answer below the sample floor.
var defaultSendTime = models.SendTimePrediction{
	BestTime:   "10:00",
	Day:        "Tuesday",
	Confidence: models.ConfidenceLow,
}

// BestSendTime tallies opened emails by hour-of-day and day-of-week
// and returns the busiest of each. Ties go to the slot seen first in
// insertion order.
func (p *Predictor) BestSendTime() models.SendTimePrediction {
	emails := p.metrics.EmailEvents()
	if len(emails) < minSendTimeSamples {
		return defaultSendTime
	}

	hourCounts := make(map[int]int)
	var hourOrder []int
	dayCounts := make(map[string]int)
	var dayOrder []string

	for _, e := range emails {
		if !e.Opened {
			continue
		}
		hour := e.SentAt.Hour()
		if _, ok := hourCounts[hour]; !ok {
			hourOrder = append(hourOrder, hour)
		}
		hourCounts[hour]++

		day := e.SentAt.Weekday().String()
		if _, ok := dayCounts[day]; !ok {
			dayOrder = append(dayOrder, day)
		}
		dayCounts[day]++
	}

	if len(hourOrder) == 0 {
		return defaultSendTime
	}

	bestHour, bestHourCount := hourOrder[0], hourCounts[hourOrder[0]]
	for _, h := range hourOrder[1:] {
		if hourCounts[h] > bestHourCount {
			bestHour, bestHourCount = h, hourCounts[h]
		}
	}

	bestDay, bestDayCount := dayOrder[0], dayCounts[dayOrder[0]]
	for _, d := range dayOrder[1:] {
		if dayCounts[d] > bestDayCount {
			bestDay, bestDayCount = d, dayCounts[d]
		}
	}

	confidence := models.ConfidenceMedium
	if len(emails) >= highSendTimeSamples {
		confidence = models.ConfidenceHigh
	}

	return models.SendTimePrediction{
		BestTime:   fmt.Sprintf("%02d:00", bestHour),
		Day:        bestDay,
		Confidence: confidence,
	}
}
