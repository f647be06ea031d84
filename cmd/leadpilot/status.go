package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leadpilot/leadpilot/internal/learning"
	"github.com/leadpilot/leadpilot/pkg/models"
)

var statusYAML bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored metrics, weights, and model state",
	Long: `Display the state of the local learning store.

Shows:
  - Recorded event counts per collection
  - Current decision weights
  - Trained models and when they were last fitted`,
	RunE: runStatus,
}

// statusReport is the yaml shape of the status output.
type statusReport struct {
	Store struct {
		Path   string         `yaml:"path"`
		Counts map[string]int `yaml:"counts"`
	} `yaml:"store"`
	Weights       map[string]float64 `yaml:"weights"`
	Models        map[string]string  `yaml:"models"`
	LastTrainedAt string             `yaml:"last_trained_at,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	engine := a.engine()
	weights := engine.UpdateWeights()
	counts := a.store.Counts()
	modelTimes := a.store.ModelNames()
	lastTrained := a.store.LastTrainedAt()

	if statusYAML {
		var report statusReport
		report.Store.Path = a.store.Path()
		report.Store.Counts = make(map[string]int, len(counts))
		for category, n := range counts {
			report.Store.Counts[string(category)] = n
		}
		report.Weights = make(map[string]float64, len(weights))
		for factor, w := range weights {
			report.Weights[string(factor)] = w
		}
		report.Models = make(map[string]string, len(modelTimes))
		for name, trainedAt := range modelTimes {
			report.Models[string(name)] = trainedAt.Format(time.RFC3339)
		}
		if !lastTrained.IsZero() {
			report.LastTrainedAt = lastTrained.Format(time.RFC3339)
		}
		out, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("marshal status: %w", err)
		}
		fmt.Print(string(out))
		return nil
	}

	fmt.Printf("Store: %s\n", a.store.Path())
	categories := []models.Category{
		models.CategoryEmail,
		models.CategoryConversions,
		models.CategoryPricing,
		models.CategoryContent,
	}
	for _, category := range categories {
		fmt.Printf("  %-20s %d\n", category, counts[category])
	}

	fmt.Println()
	fmt.Println("Weights:")
	for _, factor := range sortedFactors(weights) {
		fmt.Printf("  %-15s %.2f\n", factor, weights[factor])
	}
	if word := engine.BestSubjectWord(); word != "" {
		fmt.Printf("  best subject word: %q\n", word)
	}

	fmt.Println()
	if len(modelTimes) == 0 {
		fmt.Println("No trained models. Run 'leadpilot train' once enough data is recorded.")
		return nil
	}
	fmt.Println("Models:")
	names := make([]string, 0, len(modelTimes))
	for name := range modelTimes {
		names = append(names, string(name))
	}
	sort.Strings(names)
	for _, name := range names {
		color.Green("  %-13s trained %s", name, modelTimes[models.ModelName(name)].Format("2006-01-02 15:04"))
	}
	if !lastTrained.IsZero() {
		fmt.Printf("Last pipeline run: %s\n", lastTrained.Format("2006-01-02 15:04"))
	}
	return nil
}

// sortedFactors returns the weight factors in stable name order.
func sortedFactors(weights map[learning.Factor]float64) []learning.Factor {
	factors := make([]learning.Factor, 0, len(weights))
	for factor := range weights {
		factors = append(factors, factor)
	}
	sort.Slice(factors, func(i, j int) bool { return factors[i] < factors[j] })
	return factors
}

func init() {
	statusCmd.Flags().BoolVar(&statusYAML, "yaml", false, "Emit machine-readable yaml")
}
