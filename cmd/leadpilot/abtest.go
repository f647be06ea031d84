package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leadpilot/leadpilot/internal/training"
	"github.com/leadpilot/leadpilot/pkg/models"
)

var (
	abtestID        string
	abtestVariantA  string
	abtestVariantB  string
	abtestVariant   string
	abtestConverted bool
)

var abtestCmd = &cobra.Command{
	Use:   "abtest",
	Short: "Manage subject-line A/B tests",
	Long: `Start A/B subject tests, record exposures and conversions against
the persisted ledger, and inspect per-variant results.`,
}

var abtestStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new A/B test",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		tester := training.NewABTester(a.store)
		test, err := tester.Run(abtestID, abtestVariantA, abtestVariantB)
		if err != nil {
			return fmt.Errorf("start test: %w", err)
		}
		fmt.Printf("Started test %s\n", test.ID)
		fmt.Printf("  A: %s\n", test.VariantA)
		fmt.Printf("  B: %s\n", test.VariantB)
		return nil
	},
}

var abtestRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record an exposure for a test variant",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		tester := training.NewABTester(a.store)
		if err := tester.RecordResult(abtestID, abtestVariant, abtestConverted); err != nil {
			return fmt.Errorf("record result: %w", err)
		}
		fmt.Println("Result recorded.")
		return nil
	},
}

var abtestShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show test results",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		tester := training.NewABTester(a.store)
		if len(args) == 1 {
			test, ok := tester.Get(args[0])
			if !ok {
				return fmt.Errorf("no test with id %q", args[0])
			}
			printABTest(test)
			return nil
		}

		tests := tester.All()
		if len(tests) == 0 {
			fmt.Println("No tests recorded.")
			return nil
		}
		for i, test := range tests {
			if i > 0 {
				fmt.Println()
			}
			printABTest(test)
		}
		return nil
	},
}

func printABTest(t models.ABTest) {
	fmt.Printf("Test %s (%s, started %s)\n", t.ID, t.Status, t.Started.Format("2006-01-02"))
	fmt.Printf("  A: %-40q %s\n", t.VariantA, variantLine(t.A, t.AConversions))
	fmt.Printf("  B: %-40q %s\n", t.VariantB, variantLine(t.B, t.BConversions))
}

func variantLine(exposures, conversions int) string {
	if exposures == 0 {
		return "0 sent"
	}
	rate := float64(conversions) / float64(exposures) * 100
	return fmt.Sprintf("%d sent, %d converted (%.1f%%)", exposures, conversions, rate)
}

func init() {
	abtestStartCmd.Flags().StringVar(&abtestID, "id", "", "Test id (generated when omitted)")
	abtestStartCmd.Flags().StringVar(&abtestVariantA, "a", "", "Variant A subject line")
	abtestStartCmd.Flags().StringVar(&abtestVariantB, "b", "", "Variant B subject line")

	abtestRecordCmd.Flags().StringVar(&abtestID, "id", "", "Test id")
	abtestRecordCmd.Flags().StringVar(&abtestVariant, "variant", "", "A or B")
	abtestRecordCmd.Flags().BoolVar(&abtestConverted, "converted", false, "The exposure converted")

	abtestCmd.AddCommand(abtestStartCmd)
	abtestCmd.AddCommand(abtestRecordCmd)
	abtestCmd.AddCommand(abtestShowCmd)
}
