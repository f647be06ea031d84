package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/leadpilot/leadpilot/internal/tracking"
	"github.com/leadpilot/leadpilot/pkg/models"
)

var (
	trackEmailID          string
	trackLeadID           string
	trackSubject          string
	trackSentAt           string
	trackOpened           bool
	trackClicked          bool
	trackReplied          bool
	trackConverted        bool
	trackTouchpoints      int
	trackConversionResult string
	trackPricingResult    string
	trackRevenue          float64
	trackPrice            float64
	trackContentID        string
	trackContentType      string
	trackViews            int
	trackEngagement       float64
	trackConversions      int
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Record an outcome event",
	Long: `Record the outcome of an email, conversion, pricing offer, or
content piece. Events are appended to the local metric store; each
collection keeps a bounded window of the most recent records.`,
}

var trackEmailCmd = &cobra.Command{
	Use:   "email",
	Short: "Record an email performance event",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		event := models.EmailEvent{
			EmailID:   trackEmailID,
			LeadID:    trackLeadID,
			Subject:   trackSubject,
			Opened:    trackOpened,
			Clicked:   trackClicked,
			Replied:   trackReplied,
			Converted: trackConverted,
		}
		if trackSentAt != "" {
			sentAt, err := time.Parse(time.RFC3339, trackSentAt)
			if err != nil {
				return fmt.Errorf("parse --sent-at: %w", err)
			}
			event.SentAt = sentAt
		}

		tracker := tracking.NewTracker(a.store, a.engine(), a.logger)
		if err := tracker.TrackEmail(event); err != nil {
			return err
		}
		tracker.Wait()
		fmt.Println("Email event recorded.")
		return nil
	},
}

var trackConversionCmd = &cobra.Command{
	Use:   "conversion",
	Short: "Record a conversion outcome",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		tracker := tracking.NewTracker(a.store, nil, a.logger)
		err = tracker.TrackConversion(models.ConversionEvent{
			LeadID:      trackLeadID,
			Touchpoints: trackTouchpoints,
			Outcome:     models.ConversionOutcome(trackConversionResult),
			Revenue:     trackRevenue,
		})
		if err != nil {
			return err
		}
		fmt.Println("Conversion recorded.")
		return nil
	},
}

var trackPricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "Record a pricing offer outcome",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		tracker := tracking.NewTracker(a.store, nil, a.logger)
		err = tracker.TrackPricing(models.PricingEvent{
			Price:   trackPrice,
			Outcome: models.PricingOutcome(trackPricingResult),
		})
		if err != nil {
			return err
		}
		fmt.Println("Pricing outcome recorded.")
		return nil
	},
}

var trackContentCmd = &cobra.Command{
	Use:   "content",
	Short: "Record a content performance event",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		tracker := tracking.NewTracker(a.store, nil, a.logger)
		err = tracker.TrackContent(models.ContentEvent{
			ContentID:   trackContentID,
			Type:        trackContentType,
			Views:       trackViews,
			Engagement:  trackEngagement,
			Conversions: trackConversions,
		})
		if err != nil {
			return err
		}
		fmt.Println("Content event recorded.")
		return nil
	},
}

func init() {
	trackEmailCmd.Flags().StringVar(&trackEmailID, "id", "", "Email id (generated when omitted)")
	trackEmailCmd.Flags().StringVar(&trackLeadID, "lead", "", "Lead id")
	trackEmailCmd.Flags().StringVar(&trackSubject, "subject", "", "Subject line as sent")
	trackEmailCmd.Flags().StringVar(&trackSentAt, "sent-at", "", "Send time (RFC3339, defaults to now)")
	trackEmailCmd.Flags().BoolVar(&trackOpened, "opened", false, "Email was opened")
	trackEmailCmd.Flags().BoolVar(&trackClicked, "clicked", false, "A link was clicked")
	trackEmailCmd.Flags().BoolVar(&trackReplied, "replied", false, "The lead replied")
	trackEmailCmd.Flags().BoolVar(&trackConverted, "converted", false, "The email led to a sale")

	trackConversionCmd.Flags().StringVar(&trackLeadID, "lead", "", "Lead id")
	trackConversionCmd.Flags().IntVar(&trackTouchpoints, "touchpoints", 0, "Interactions before the outcome")
	trackConversionCmd.Flags().StringVar(&trackConversionResult, "outcome", "no_response", "sale, no_response, or not_interested")
	trackConversionCmd.Flags().Float64Var(&trackRevenue, "revenue", 0, "Sale amount")

	trackPricingCmd.Flags().Float64Var(&trackPrice, "price", 0, "Quoted price")
	trackPricingCmd.Flags().StringVar(&trackPricingResult, "outcome", "rejected", "accepted, rejected, or countered")

	trackContentCmd.Flags().StringVar(&trackContentID, "id", "", "Content id")
	trackContentCmd.Flags().StringVar(&trackContentType, "type", "", "Content type (blog, video, ...)")
	trackContentCmd.Flags().IntVar(&trackViews, "views", 0, "View count")
	trackContentCmd.Flags().Float64Var(&trackEngagement, "engagement", 0, "Engagement score")
	trackContentCmd.Flags().IntVar(&trackConversions, "conversions", 0, "Attributed conversions")

	trackCmd.AddCommand(trackEmailCmd)
	trackCmd.AddCommand(trackConversionCmd)
	trackCmd.AddCommand(trackPricingCmd)
	trackCmd.AddCommand(trackContentCmd)
}
