// Package commands provides CLI command implementations.
package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	appLearner "github.com/SmallPigPeppa/PODNet/internal/application/learner"
	"github.com/SmallPigPeppa/PODNet/internal/domain/learner"
	"github.com/SmallPigPeppa/PODNet/internal/infrastructure/checkpoint"
	"github.com/SmallPigPeppa/PODNet/internal/infrastructure/dataset"
	"github.com/SmallPigPeppa/PODNet/internal/infrastructure/features"
	infraLearner "github.com/SmallPigPeppa/PODNet/internal/infrastructure/learner"
)

// Flag variables for the train command
var (
	trainTasks      int
	trainIncrement  int
	trainMemorySize int
	trainEpochs     int
	trainLR         float64
	trainBatchSize  int
	trainPerClass   int
	trainInputDim   int
	trainEmbedDim   int
	trainSeed       int64
	trainWeightGen  string
	trainProxies    int
	trainDBPath     string
)

// TrainCmd runs a synthetic class-incremental stream end to end.
var TrainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train over a class-incremental stream",
	Long: `Train a class-incremental learner over a synthetic stream of disjoint
class groups, with herding-based exemplar memory, distillation against the
previous task's model, and nearest-class-mean evaluation after each task.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config := learner.Config{
			MemorySize: trainMemorySize,
			Increment:  trainIncrement,
			Epochs:     trainEpochs,
			Seed:       trainSeed,
			WeightGeneration: learner.WeightGenerationConfig{
				Type:          learner.WeightGeneration(trainWeightGen),
				ProxyPerClass: trainProxies,
			},
			Optimizer: optimizerConfig(trainLR),
			Scheduler: schedulerConfig(trainEpochs),
		}
		if err := config.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		controller, err := infraLearner.NewController(config, features.NewHashingExtractor(trainEmbedDim))
		if err != nil {
			return fmt.Errorf("failed to initialize learner: %w", err)
		}

		var store checkpoint.Store
		if trainDBPath != "" {
			sqliteStore := checkpoint.NewSQLiteStore(trainDBPath)
			if err := sqliteStore.Initialize(); err != nil {
				return fmt.Errorf("failed to initialize checkpoint store: %w", err)
			}
			defer sqliteStore.Close()
			store = sqliteStore
		}

		service, err := appLearner.NewService(controller, store, trainIncrement)
		if err != nil {
			return fmt.Errorf("failed to initialize service: %w", err)
		}

		fmt.Printf("Training %d tasks of %d classes each (memory budget %d)\n",
			trainTasks, trainIncrement, trainMemorySize)
		fmt.Println(strings.Repeat("-", 50))

		var seen []dataset.Sample
		for task := 0; task < trainTasks; task++ {
			samples := dataset.SyntheticSamples(dataset.SyntheticConfig{
				ClassLo:        task * trainIncrement,
				ClassHi:        (task + 1) * trainIncrement,
				PerClass:       trainPerClass,
				InputDimension: trainInputDim,
				Seed:           trainSeed,
				FirstID:        task * trainIncrement * trainPerClass,
			})
			seen = append(seen, samples...)

			train := dataset.NewSliceDataset(samples, trainBatchSize)
			memory := dataset.NewSliceDataset(seen, trainBatchSize)

			report, err := service.RunTask(train, nil, memory, memory)
			if err != nil {
				return fmt.Errorf("task %d failed: %w", task, err)
			}

			fmt.Printf("Task %d: accuracy %.3f over %d samples, %d exemplars stored\n",
				report.Task, report.Accuracy.Total, report.EvalSize, report.ExemplarsStored)
		}

		fmt.Println(strings.Repeat("-", 50))
		printReports(service.Reports())

		if store != nil {
			fmt.Printf("\nCheckpoints saved under run %s\n", service.RunID())
		}
		return nil
	},
}

// printReports renders the per-task accuracy table.
func printReports(reports []appLearner.TaskReport) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TASK\tTOTAL\tBUCKETS\tEXEMPLARS")
	for _, report := range reports {
		buckets := make([]string, 0, len(report.Accuracy.PerBucket))
		for label, acc := range report.Accuracy.PerBucket {
			buckets = append(buckets, fmt.Sprintf("%s=%.3f", label, acc))
		}
		fmt.Fprintf(w, "%d\t%.3f\t%s\t%d\n",
			report.Task, report.Accuracy.Total, strings.Join(buckets, " "), report.ExemplarsStored)
	}
	w.Flush()
}

func init() {
	TrainCmd.Flags().IntVar(&trainTasks, "tasks", 5, "Number of tasks in the stream")
	TrainCmd.Flags().IntVar(&trainIncrement, "increment", 2, "Classes introduced per task")
	TrainCmd.Flags().IntVar(&trainMemorySize, "memory-size", 200, "Global exemplar budget")
	TrainCmd.Flags().IntVar(&trainEpochs, "epochs", 10, "Training epochs per task")
	TrainCmd.Flags().Float64Var(&trainLR, "lr", 0.1, "Initial learning rate")
	TrainCmd.Flags().IntVar(&trainBatchSize, "batch-size", 32, "Mini-batch size")
	TrainCmd.Flags().IntVar(&trainPerClass, "per-class", 100, "Synthetic samples per class")
	TrainCmd.Flags().IntVar(&trainInputDim, "input-dim", 16, "Synthetic input dimensionality")
	TrainCmd.Flags().IntVar(&trainEmbedDim, "embed-dim", 64, "Embedding dimensionality")
	TrainCmd.Flags().Int64Var(&trainSeed, "seed", 1, "Random seed")
	TrainCmd.Flags().StringVar(&trainWeightGen, "weight-generation", "basic", "Head growth policy: basic, embedding, imprinted")
	TrainCmd.Flags().IntVar(&trainProxies, "proxy-per-class", 1, "Proxies per class for the embedding policy")
	TrainCmd.Flags().StringVar(&trainDBPath, "db", "", "SQLite checkpoint path (empty disables checkpointing)")
}
