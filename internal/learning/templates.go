package learning

// Static subject template pools, keyed by business type. The general
// pool serves unknown types.
var subjectTemplates = map[string][]string{
	"saas": {
		"Quick question about your workflow",
		"Cut your team's busywork in half",
		"How {{company}} teams save 5 hours a week",
		"A faster way to handle onboarding",
	},
	"ecommerce": {
		"Your store's conversion rate, fixed",
		"Turn abandoned carts into orders",
		"What top stores do differently",
		"Free audit of your checkout flow",
	},
	"agency": {
		"More retainers, fewer cold calls",
		"A referral engine for your agency",
		"How agencies double their close rate",
		"Your pipeline, filled on autopilot",
	},
	"consulting": {
		"Book more discovery calls this month",
		"A question about your client intake",
		"How consultants stay fully booked",
		"One change that wins bigger contracts",
	},
	"general": {
		"Quick question",
		"An idea for your business",
		"Worth 2 minutes of your time",
		"Saw something that made me think of you",
		"Can I help with this?",
	},
}

// templateSubject picks uniformly from the pool for the business type,
// falling back to the general pool.
func (e *Engine) templateSubject(businessType string) string {
	pool, ok := subjectTemplates[businessType]
	if !ok || len(pool) == 0 {
		pool = subjectTemplates["general"]
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return pool[e.rng.Intn(len(pool))]
}
