package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshibibhushan/HumanLoopML/internal/config"
	"github.com/joshibibhushan/HumanLoopML/internal/repository"
)

// NewCompareCmd creates the 'compare' command printing metric
// summaries for the given versions side by side.
func NewCompareCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "compare <version> [version...]",
		Short: "Compare evaluation metrics across model versions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			versions := make([]int, 0, len(args))
			for _, arg := range args {
				version, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("bad version %q", arg)
				}
				versions = append(versions, version)
			}
			return runCompare(configPath, versions)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", defaultConfigPath, "path to config file")
	return cmd
}

func runCompare(configPath string, versions []int) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := openDatabase(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	comparison, err := repository.NewMetricsRepository(db, logger).Compare(versions)
	if err != nil {
		return err
	}
	if len(comparison) == 0 {
		fmt.Println("No metrics stored for the requested versions.")
		return nil
	}

	found := make([]int, 0, len(comparison))
	for version := range comparison {
		found = append(found, version)
	}
	sort.Ints(found)

	fmt.Printf("%-8s %-10s %-10s %-11s\n", "version", "accuracy", "f1_macro", "f1_weighted")
	for _, version := range found {
		summary := comparison[version]
		fmt.Printf("v%-7d %-10.4f %-10.4f %-11.4f\n", version, summary.Accuracy, summary.F1Macro, summary.F1Weighted)
	}
	return nil
}
