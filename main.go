// humanloopml serves a text classifier, collects human corrections for
// its predictions and retrains new model versions from the accumulated
// feedback.
//
// Usage:
//
//	humanloopml serve     - run the prediction and feedback API
//	humanloopml train     - train the baseline model (version 1)
//	humanloopml retrain   - retrain with accumulated feedback
//	humanloopml compare   - compare metrics across versions
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshibibhushan/HumanLoopML/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "humanloopml",
		Short: "Human-in-the-loop text classification service",
		Long: `humanloopml is a human-in-the-loop ML system for text
classification: it serves predictions, collects human corrections for
wrong or uncertain ones, and periodically retrains the classifier by
blending the original corpus with the accumulated feedback.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		cli.NewServeCmd(),
		cli.NewTrainCmd(),
		cli.NewRetrainCmd(),
		cli.NewCompareCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
