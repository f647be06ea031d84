package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/leadpilot/leadpilot/pkg/models"
)

var (
	predictLeadID       string
	predictBusinessType string
	predictTouchpoints  int
	predictLastActive   string
	predictOpenRate     float64
	predictLastPurchase string
	predictEmailsSent   int
	predictLastAction   string
	predictLastResponse string
	predictRevenue      float64
	predictBounce       float64
	predictTraffic      float64
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run predictions against the recorded history",
	Long: `Run a prediction against the locally recorded outcome history.
Predictions degrade gracefully: with little data they return
conservative defaults at low confidence instead of failing.`,
}

var predictConversionCmd = &cobra.Command{
	Use:   "conversion",
	Short: "Predict the conversion probability for a lead",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.AI.Timeout)
		defer cancel()

		pred := a.predictor().PredictConversion(ctx, models.Lead{
			ID:           predictLeadID,
			BusinessType: predictBusinessType,
			Touchpoints:  predictTouchpoints,
		})
		fmt.Printf("Probability: %.2f\n", pred.Probability)
		fmt.Printf("Confidence:  %s\n", colorConfidence(pred.Confidence))
		return nil
	},
}

var predictCLVCmd = &cobra.Command{
	Use:   "clv",
	Short: "Estimate lifetime value for a lead",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.AI.Timeout)
		defer cancel()

		pred := a.predictor().PredictCLV(ctx, models.Lead{
			ID:           predictLeadID,
			BusinessType: predictBusinessType,
			Touchpoints:  predictTouchpoints,
		})
		fmt.Printf("Probability:         %.2f\n", pred.Probability)
		fmt.Printf("Predicted purchases: %.2f\n", pred.PredictedPurchases)
		fmt.Printf("CLV:                 $%.2f\n", pred.CLV)
		if pred.Recommendation == models.CLVHighPriority {
			color.Green("Recommendation:      %s", pred.Recommendation)
		} else {
			fmt.Printf("Recommendation:      %s\n", pred.Recommendation)
		}
		return nil
	},
}

var predictChurnCmd = &cobra.Command{
	Use:   "churn",
	Short: "Assess churn risk for a customer",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		var m models.EngagementMetrics
		if predictLastActive != "" {
			t, err := time.Parse(time.RFC3339, predictLastActive)
			if err != nil {
				return fmt.Errorf("parse --last-active: %w", err)
			}
			m.LastActive = &t
		}
		if cmd.Flags().Changed("open-rate") {
			m.OpenRate = &predictOpenRate
		}
		if predictLastPurchase != "" {
			t, err := time.Parse(time.RFC3339, predictLastPurchase)
			if err != nil {
				return fmt.Errorf("parse --last-purchase: %w", err)
			}
			m.LastPurchase = &t
		}

		pred := a.predictor().PredictChurn(predictLeadID, m)
		fmt.Printf("Risk score: %d\n", pred.RiskScore)
		switch pred.Level {
		case "high":
			color.Red("Level:      %s", pred.Level)
		case "medium":
			color.Yellow("Level:      %s", pred.Level)
		default:
			fmt.Printf("Level:      %s\n", pred.Level)
		}
		fmt.Printf("Action:     %s\n", pred.Action)
		return nil
	},
}

var predictSendTimeCmd = &cobra.Command{
	Use:   "send-time",
	Short: "Find the best hour and weekday to send",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		pred := a.predictor().BestSendTime()
		fmt.Printf("Best time:  %s\n", pred.BestTime)
		fmt.Printf("Day:        %s\n", pred.Day)
		fmt.Printf("Confidence: %s\n", colorConfidence(pred.Confidence))
		return nil
	},
}

var predictNextActionCmd = &cobra.Command{
	Use:   "next-action",
	Short: "Recommend the next-best action for a lead",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		rec := a.predictor().RecommendNextAction(predictLeadID, models.LeadHistory{
			EmailsSent:   predictEmailsSent,
			LastAction:   predictLastAction,
			LastResponse: predictLastResponse,
		})
		color.Green("Recommended: %s (%.1f)", rec.Recommended.Action, rec.Recommended.Score)
		for _, alt := range rec.Alternatives {
			fmt.Printf("  then:      %s (%.1f)\n", alt.Action, alt.Score)
		}
		fmt.Printf("Reasoning:   %s\n", rec.Reasoning)
		return nil
	},
}

var predictAnomaliesCmd = &cobra.Command{
	Use:   "anomalies",
	Short: "Check a metrics snapshot for anomalies",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		anomalies := a.predictor().DetectAnomalies(models.MetricsSnapshot{
			RevenueChange: predictRevenue,
			BounceRate:    predictBounce,
			TrafficChange: predictTraffic,
		})
		if len(anomalies) == 0 {
			fmt.Println("No anomalies detected.")
			return nil
		}
		for _, an := range anomalies {
			switch an.Severity {
			case "high":
				color.Red("[%s] %s", an.Severity, an.Message)
			case "medium":
				color.Yellow("[%s] %s", an.Severity, an.Message)
			default:
				fmt.Printf("[%s] %s\n", an.Severity, an.Message)
			}
			fmt.Printf("  %s\n", an.Recommendation)
		}
		return nil
	},
}

func colorConfidence(c models.Confidence) string {
	switch c {
	case models.ConfidenceHigh:
		return color.GreenString(string(c))
	case models.ConfidenceMedium:
		return color.YellowString(string(c))
	default:
		return color.RedString(string(c))
	}
}

func init() {
	for _, cmd := range []*cobra.Command{predictConversionCmd, predictCLVCmd} {
		cmd.Flags().StringVar(&predictLeadID, "lead", "", "Lead id")
		cmd.Flags().StringVar(&predictBusinessType, "business-type", "", "Lead business type")
		cmd.Flags().IntVar(&predictTouchpoints, "touchpoints", 0, "Interactions so far")
	}

	predictChurnCmd.Flags().StringVar(&predictLeadID, "customer", "", "Customer id")
	predictChurnCmd.Flags().StringVar(&predictLastActive, "last-active", "", "Last activity (RFC3339)")
	predictChurnCmd.Flags().Float64Var(&predictOpenRate, "open-rate", 0, "Recent open rate percentage")
	predictChurnCmd.Flags().StringVar(&predictLastPurchase, "last-purchase", "", "Last purchase (RFC3339)")

	predictNextActionCmd.Flags().StringVar(&predictLeadID, "lead", "", "Lead id")
	predictNextActionCmd.Flags().IntVar(&predictEmailsSent, "emails-sent", 0, "Emails already sent")
	predictNextActionCmd.Flags().StringVar(&predictLastAction, "last-action", "", "Most recent action taken")
	predictNextActionCmd.Flags().StringVar(&predictLastResponse, "last-response", "", "positive or negative")

	predictAnomaliesCmd.Flags().Float64Var(&predictRevenue, "revenue-change", 0, "Revenue change percentage")
	predictAnomaliesCmd.Flags().Float64Var(&predictBounce, "bounce-rate", 0, "Bounce rate percentage")
	predictAnomaliesCmd.Flags().Float64Var(&predictTraffic, "traffic-change", 0, "Traffic change percentage")

	predictCmd.AddCommand(predictConversionCmd)
	predictCmd.AddCommand(predictCLVCmd)
	predictCmd.AddCommand(predictChurnCmd)
	predictCmd.AddCommand(predictSendTimeCmd)
	predictCmd.AddCommand(predictNextActionCmd)
	predictCmd.AddCommand(predictAnomaliesCmd)
}
