package training

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/leadpilot/leadpilot/pkg/models"
)

// ABLedger is the persisted A/B test ledger.
type ABLedger interface {
	CreateABTest(id, variantA, variantB string) (models.ABTest, error)
	RecordABResult(id, variant string, converted bool) error
	GetABTest(id string) (models.ABTest, bool)
	ABTests() []models.ABTest
}

// ABTester runs subject-line experiments against the ledger.
type ABTester struct {
	ledger ABLedger
}

// NewABTester creates a tester over the given ledger.
func NewABTester(ledger ABLedger) *ABTester {
	return &ABTester{ledger: ledger}
}

// Run creates a ledger entry with zeroed counters and status running.
// An empty id gets a generated one.
func (t *ABTester) Run(id, variantA, variantB string) (models.ABTest, error) {
	if id == "" {
		id = uuid.New().String()
	}
	test, err := t.ledger.CreateABTest(id, variantA, variantB)
	if err != nil {
		return models.ABTest{}, fmt.Errorf("run ab test: %w", err)
	}
	return test, nil
}

// RecordResult increments the exposure counter for the variant, and
// the conversion counter when converted is true. Unknown test ids are
// silently ignored.
func (t *ABTester) RecordResult(id, variant string, converted bool) error {
	return t.ledger.RecordABResult(id, variant, converted)
}

// Get returns the ledger entry for the given id.
func (t *ABTester) Get(id string) (models.ABTest, bool) {
	return t.ledger.GetABTest(id)
}

// All returns every ledger entry, oldest first.
func (t *ABTester) All() []models.ABTest {
	return t.ledger.ABTests()
}
