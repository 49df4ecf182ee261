package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/hydrotools/summaflow/cmd/watch_tui"
	"github.com/hydrotools/summaflow/pkg/ensemble"
	"github.com/hydrotools/summaflow/pkg/history"
	"github.com/hydrotools/summaflow/pkg/sim"
)

var (
	ensembleWatch     bool
	ensembleMerge     bool
	ensembleNoHistory bool
)

// NewEnsembleCmd creates the `ensemble` command.
func NewEnsembleCmd() *cobra.Command {
	ensembleCmd := &cobra.Command{
		Use:   "ensemble <manifest.yaml>",
		Short: "Run a parameter-sweep ensemble",
		Long: `Run the ensemble described by a manifest: the sweeps are expanded into
their Cartesian product, every member gets an isolated copy of the model
configuration, and the members run through a bounded worker pool. One
member failing never stops the others.

Example manifest:
  executable: /opt/summa/bin/summa.exe
  file_manager: settings/fileManager.txt
  workers: 4
  sweeps:
    albedoMax: [0.7, 0.8, 0.9]
    stomResist: [BallBerry, Jarvis]`,
		Args: cobra.ExactArgs(1),
		RunE: runEnsemble,
	}
	ensembleCmd.Flags().BoolVarP(&ensembleWatch, "watch", "w", false, "Watch progress in an interactive view")
	ensembleCmd.Flags().BoolVar(&ensembleMerge, "merge", false, "Merge successful output after the run and report the merged dimensions")
	ensembleCmd.Flags().BoolVar(&ensembleNoHistory, "no-history", false, "Skip recording the runs in the history ledger")
	return ensembleCmd
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	manifest, err := ensemble.LoadManifest(args[0])
	if err != nil {
		return err
	}
	if manifest.Executable == "" {
		manifest.Executable = resolveExecutable("")
	}
	ens, err := manifest.Build()
	if err != nil {
		return err
	}

	started := time.Now()
	if ensembleWatch && isatty.IsTerminal(os.Stdout.Fd()) {
		if err := watch_tui.Run(ens); err != nil {
			return err
		}
	} else {
		ens.Run(context.Background())
	}

	mode, _ := sim.ParseMode(manifest.Mode)
	ensembleID := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	if !ensembleNoHistory {
		recordEnsemble(ens, mode, ensembleID, started)
	}

	failed := printEnsembleSummary(ens)
	if ensembleMerge {
		if err := printMergedOutput(ens); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d members failed", failed, len(ens.Members()))
	}
	return nil
}

func printEnsembleSummary(ens *ensemble.Ensemble) int {
	failed := 0
	fmt.Println()
	for _, s := range ens.Summary() {
		fmt.Printf("%s  %s  (%s)\n", statusLabel(s.Status), s.Identifier, formatDuration(s.Duration))
		if s.Status != sim.StatusSuccess {
			failed++
			if s.Error != "" {
				fmt.Println(dimStyle.Sprint("    " + s.Error))
			}
		}
	}
	return failed
}

func printMergedOutput(ens *ensemble.Ensemble) error {
	merged, err := ens.MergeOutput()
	if err != nil {
		var none *ensemble.NoSuccessfulRunsError
		if errors.As(err, &none) {
			return fmt.Errorf("nothing to merge: %w", err)
		}
		return err
	}
	fmt.Println("\nmerged output:")
	for dim, labels := range merged.Labels {
		fmt.Printf("  %s: %s\n", dim, strings.Join(labels, ", "))
	}
	fmt.Printf("  variables: %s\n", strings.Join(merged.VarNames(), ", "))
	return nil
}

func recordEnsemble(ens *ensemble.Ensemble, mode sim.Mode, ensembleID string, started time.Time) {
	store, err := history.Open(history.DefaultPath())
	if err != nil {
		fmt.Println(dimStyle.Sprintf("history unavailable: %v", err))
		return
	}
	defer store.Close()
	for _, m := range ens.Members() {
		if _, err := store.RecordSimulation(context.Background(), m.Sim, mode, ensembleID, started); err != nil {
			fmt.Println(dimStyle.Sprintf("history write failed for %s: %v", m.Identifier, err))
		}
	}
}
