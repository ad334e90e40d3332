// Package main provides the CLI entry point for inclearn-go.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SmallPigPeppa/PODNet/cmd/inclearn/commands"
	"github.com/SmallPigPeppa/PODNet/pkg/inclearn"
)

var (
	version = "1.0.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "inclearn",
	Short: "Inclearn - Class-incremental learning framework",
	Long: `Inclearn trains a classifier over a stream of tasks that each introduce
new classes, without revisiting full data from earlier tasks.

It provides:
  - Exemplar memory with herding selection under a fixed budget
  - Knowledge distillation against the previous task's model
  - Classifier head growth with configurable weight generation
  - Nearest-class-mean evaluation over exemplar means
  - Checkpoint snapshots in SQLite or Postgres`,
	Version: version,
}

// ============================================================================
// Demo Command
// ============================================================================

var demoTasks int
var demoIncrement int

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a short incremental demo",
	Long:  `Run a short class-incremental demo on synthetic data with default settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config := inclearn.DefaultConfig()
		config.MemorySize = 20 * demoIncrement
		config.Increment = demoIncrement
		config.Epochs = 5
		config.Seed = 1
		config.Optimizer.LearningRate = 0.1
		config.Scheduler.Milestones = []int{3}

		learner, err := inclearn.New(config)
		if err != nil {
			return fmt.Errorf("failed to create learner: %w", err)
		}

		fmt.Printf("Running %d tasks, %d classes each\n", demoTasks, demoIncrement)

		for task := 0; task < demoTasks; task++ {
			train := inclearn.NewSyntheticSource(task*demoIncrement, (task+1)*demoIncrement, 50, 16, 1)
			eval := inclearn.NewSyntheticSource(0, (task+1)*demoIncrement, 50, 16, 1)

			report, err := learner.RunTask(train, nil, eval, eval)
			if err != nil {
				return fmt.Errorf("task %d failed: %w", task, err)
			}
			fmt.Printf("Task %d: accuracy %.3f\n", report.Task, report.Accuracy.Total)
		}
		return nil
	},
}

// ============================================================================
// Command Registration
// ============================================================================

func init() {
	demoCmd.Flags().IntVar(&demoTasks, "tasks", 3, "Number of demo tasks")
	demoCmd.Flags().IntVar(&demoIncrement, "increment", 2, "Classes per demo task")

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(commands.TrainCmd)
	rootCmd.AddCommand(commands.StoreCmd)
}
