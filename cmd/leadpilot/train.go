package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/leadpilot/leadpilot/internal/training"
	"github.com/leadpilot/leadpilot/pkg/models"
)

var trainForce bool

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Retrain models from the recorded history",
	Long: `Fit the subject-line, pricing, content, and lead-scoring models
from the recorded history and persist the results. Runs are rate
limited by the configured cooldown; use --force to bypass it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		pipeline := training.NewPipeline(a.store, a.cfg.Training.Interval, a.logger)
		if !trainForce && !pipeline.ShouldTrain() {
			fmt.Printf("Models were trained %s; next run after the %s cooldown. Use --force to retrain now.\n",
				a.store.LastTrainedAt().Format("2006-01-02 15:04"), a.cfg.Training.Interval)
			return nil
		}

		report, err := pipeline.Train()
		if err != nil {
			return fmt.Errorf("train models: %w", err)
		}

		names := []models.ModelName{
			models.ModelSubjectLine,
			models.ModelPricing,
			models.ModelContent,
			models.ModelLeadScoring,
		}
		for _, name := range names {
			status := report.Statuses[name]
			if status == models.TrainStatusTrained {
				color.Green("%-13s %s", name, status)
			} else {
				color.Yellow("%-13s %s", name, status)
			}
		}
		return nil
	},
}

func init() {
	trainCmd.Flags().BoolVar(&trainForce, "force", false, "Ignore the training cooldown")
}
