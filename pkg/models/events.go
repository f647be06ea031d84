package models

import "time"

// Category identifies a metric collection.
type Category string

const (
	// CategoryEmail holds per-email outreach outcomes.
	CategoryEmail Category = "email_performance"
	// CategoryConversions holds lead conversion outcomes.
	CategoryConversions Category = "conversions"
	// CategoryPricing holds pricing offer outcomes.
	CategoryPricing Category = "pricing"
	// CategoryContent holds content piece outcomes.
	CategoryContent Category = "content_performance"
)

// Valid returns true if the category is a known value.
func (c Category) Valid() bool {
	switch c {
	case CategoryEmail, CategoryConversions, CategoryPricing, CategoryContent:
		return true
	default:
		return false
	}
}

// EmailEvent records the outcome of a single outreach email.
// Fields are immutable once the event has been appended.
type EmailEvent struct {
	// EmailID is the unique identifier for the email.
	EmailID string `json:"email_id"`
	// LeadID identifies the lead the email was sent to.
	LeadID string `json:"lead_id"`
	// Subject is the subject line as sent.
	Subject string `json:"subject"`
	// SentAt is when the email left the system.
	SentAt time.Time `json:"sent_at"`
	// Opened indicates the recipient opened the email.
	Opened bool `json:"opened"`
	// Clicked indicates the recipient clicked a link.
	Clicked bool `json:"clicked"`
	// Replied indicates the recipient replied.
	Replied bool `json:"replied"`
	// Converted indicates the email led to a sale.
	Converted bool `json:"converted"`
	// RecordedAt is set by the store at insertion.
	RecordedAt time.Time `json:"recorded_at"`
}

// ConversionOutcome is the terminal state of a lead.
type ConversionOutcome string

const (
	// OutcomeSale indicates the lead purchased.
	OutcomeSale ConversionOutcome = "sale"
	// OutcomeNoResponse indicates the lead went quiet.
	OutcomeNoResponse ConversionOutcome = "no_response"
	// OutcomeNotInterested indicates the lead declined.
	OutcomeNotInterested ConversionOutcome = "not_interested"
)

// ConversionEvent records how a lead's journey ended.
type ConversionEvent struct {
	// LeadID identifies the lead.
	LeadID string `json:"lead_id"`
	// Touchpoints is the number of interactions before the outcome.
	Touchpoints int `json:"touchpoints"`
	// Outcome is the terminal state.
	Outcome ConversionOutcome `json:"outcome"`
	// Revenue is the sale amount, zero for non-sales.
	Revenue float64 `json:"revenue"`
	// RecordedAt is set by the store at insertion.
	RecordedAt time.Time `json:"recorded_at"`
}

// PricingOutcome is the response to a quoted price.
type PricingOutcome string

const (
	// PriceAccepted indicates the quote was accepted as-is.
	PriceAccepted PricingOutcome = "accepted"
	// PriceRejected indicates the quote was declined.
	PriceRejected PricingOutcome = "rejected"
	// PriceCountered indicates the prospect countered.
	PriceCountered PricingOutcome = "countered"
)

// PricingEvent records the outcome of a single price quote.
type PricingEvent struct {
	// Price is the quoted amount.
	Price float64 `json:"price"`
	// Outcome is the prospect's response.
	Outcome PricingOutcome `json:"outcome"`
	// RecordedAt is set by the store at insertion.
	RecordedAt time.Time `json:"recorded_at"`
}

// ContentEvent records how a content piece performed.
type ContentEvent struct {
	// ContentID identifies the piece.
	ContentID string `json:"content_id"`
	// Type is the content format (blog, video, case_study, ...).
	Type string `json:"type"`
	// Views is the view count at recording time.
	Views int `json:"views"`
	// Engagement is the engagement score reported by the channel.
	Engagement float64 `json:"engagement"`
	// Conversions is the number of conversions attributed to the piece.
	Conversions int `json:"conversions"`
	// RecordedAt is set by the store at insertion.
	RecordedAt time.Time `json:"recorded_at"`
}
