package models

import "time"

// ModelName identifies a persisted model snapshot.
type ModelName string

const (
	// ModelSubjectLine is the subject-line pattern model.
	ModelSubjectLine ModelName = "subject_line"
	// ModelPricing is the pricing band model.
	ModelPricing ModelName = "pricing"
	// ModelContent is the content-type ranking model.
	ModelContent ModelName = "content"
	// ModelLeadScoring is the lead-scoring threshold model.
	ModelLeadScoring ModelName = "lead_scoring"
)

// TrainStatus is the per-model outcome of a training run.
type TrainStatus string

const (
	// TrainStatusTrained indicates the model was fitted and persisted.
	TrainStatusTrained TrainStatus = "trained"
	// TrainStatusInsufficientData indicates the sample floor was unmet.
	TrainStatusInsufficientData TrainStatus = "insufficient_data"
)

// TrainReport summarizes one pipeline run.
type TrainReport struct {
	RanAt    time.Time                 `json:"ran_at"`
	Statuses map[ModelName]TrainStatus `json:"statuses"`
}

// SubjectPattern is one subject first-word with its conversion rate.
type SubjectPattern struct {
	Word    string  `json:"word"`
	Rate    float64 `json:"rate"`
	Samples int     `json:"samples"`
}

// SubjectLineModel holds the fitted subject-line statistics.
type SubjectLineModel struct {
	// Patterns are the top first-words by conversion rate.
	Patterns []SubjectPattern `json:"patterns"`
	// AvgConvertedLength is the mean subject length among converted emails.
	AvgConvertedLength float64 `json:"avg_converted_length"`
	// SampleSize is the number of email events the fit saw.
	SampleSize int `json:"sample_size"`
}

// PricingModel holds the fitted price band.
type PricingModel struct {
	MinAccepted float64 `json:"min_accepted"`
	MaxAccepted float64 `json:"max_accepted"`
	AvgAccepted float64 `json:"avg_accepted"`
	// RejectionThreshold is the highest rejected price seen.
	RejectionThreshold float64 `json:"rejection_threshold"`
	Accepted           int     `json:"accepted"`
	Rejected           int     `json:"rejected"`
}

// ContentTypeStat is one content type with its average conversions.
type ContentTypeStat struct {
	Type           string  `json:"type"`
	AvgConversions float64 `json:"avg_conversions"`
	Samples        int     `json:"samples"`
}

// ContentModel ranks content types by average conversions.
type ContentModel struct {
	// Best are the top three types, descending.
	Best []ContentTypeStat `json:"best"`
	// Worst are the bottom two types, ascending.
	Worst []ContentTypeStat `json:"worst"`
}

// LeadScoringModel holds touchpoint thresholds derived from outcomes.
type LeadScoringModel struct {
	AvgTouchpointsSale   float64 `json:"avg_touchpoints_sale"`
	AvgTouchpointsNoSale float64 `json:"avg_touchpoints_no_sale"`
	// StopThreshold is 1.5x the non-sale average; past it, stop chasing.
	StopThreshold float64 `json:"stop_threshold"`
}

// ABTest is one entry in the A/B test ledger. Counters are raw;
// rates are computed at display time.
type ABTest struct {
	ID           string    `json:"id"`
	VariantA     string    `json:"variant_a"`
	VariantB     string    `json:"variant_b"`
	Started      time.Time `json:"started"`
	Status       string    `json:"status"`
	A            int       `json:"a"`
	B            int       `json:"b"`
	AConversions int       `json:"a_conversions"`
	BConversions int       `json:"b_conversions"`
}
