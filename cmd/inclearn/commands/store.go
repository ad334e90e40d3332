package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/SmallPigPeppa/PODNet/internal/infrastructure/checkpoint"
	"github.com/SmallPigPeppa/PODNet/internal/shared"
)

// Flag variables for the store command
var (
	storeDBPath  string
	storeBackend string
	storeRunID   string
)

// StoreCmd groups checkpoint store inspection commands.
var StoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Inspect checkpoint snapshots",
	Long:  `Inspect snapshots persisted by training runs: list them per run or show the latest one.`,
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots for a run",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		snapshots, err := store.ListSnapshots(storeRunID)
		if err != nil {
			return fmt.Errorf("failed to list snapshots: %w", err)
		}
		if len(snapshots) == 0 {
			fmt.Printf("No snapshots found for run %s\n", storeRunID)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TASK\tCLASSES\tEXEMPLAR CLASSES\tCREATED\tID")
		for _, snapshot := range snapshots {
			fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\n",
				snapshot.Task, snapshot.NClasses, len(snapshot.Exemplars),
				snapshot.CreatedAt.Format(time.RFC3339), snapshot.ID)
		}
		return w.Flush()
	},
}

var storeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the latest snapshot for a run",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		snapshot, found, err := store.LoadLatest(storeRunID)
		if err != nil {
			return fmt.Errorf("failed to load snapshot: %w", err)
		}
		if !found {
			fmt.Printf("No snapshots found for run %s\n", storeRunID)
			return nil
		}

		exemplarTotal := 0
		for _, ids := range snapshot.Exemplars {
			exemplarTotal += len(ids)
		}

		fmt.Printf("Snapshot %s\n", snapshot.ID)
		fmt.Printf("  Run:        %s\n", snapshot.RunID)
		fmt.Printf("  Task:       %d\n", snapshot.Task)
		fmt.Printf("  Classes:    %d\n", snapshot.NClasses)
		fmt.Printf("  Head rows:  %d\n", len(snapshot.HeadWeights))
		fmt.Printf("  Exemplars:  %d across %d classes\n", exemplarTotal, len(snapshot.Exemplars))
		fmt.Printf("  Means:      %d\n", len(snapshot.Means))
		fmt.Printf("  Created:    %s\n", snapshot.CreatedAt.Format(time.RFC3339))
		return nil
	},
}

// openStore opens the configured checkpoint backend and initializes it.
func openStore() (checkpoint.Store, error) {
	switch shared.CheckpointBackend(storeBackend) {
	case shared.CheckpointBackendSQLite:
		store := checkpoint.NewSQLiteStore(storeDBPath)
		if err := store.Initialize(); err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return store, nil
	case shared.CheckpointBackendPostgres:
		store := checkpoint.NewPostgresStore(checkpoint.PostgresConfig{})
		if err := store.Initialize(); err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown checkpoint backend: %q", storeBackend)
	}
}

func init() {
	StoreCmd.PersistentFlags().StringVar(&storeDBPath, "db", "inclearn.db", "SQLite checkpoint path")
	StoreCmd.PersistentFlags().StringVar(&storeBackend, "backend", "sqlite", "Checkpoint backend: sqlite or postgres")
	StoreCmd.PersistentFlags().StringVar(&storeRunID, "run", "", "Run identifier")

	StoreCmd.AddCommand(storeListCmd)
	StoreCmd.AddCommand(storeShowCmd)
}
