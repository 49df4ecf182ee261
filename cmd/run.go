package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hydrotools/summaflow/pkg/history"
	"github.com/hydrotools/summaflow/pkg/sim"
)

var (
	runExecutable string
	runMode       string
	runSuffix     string
	runImage      string
	runNoHistory  bool
	runShowOutput bool
)

// NewRunCmd creates the `run` command for a single simulation.
func NewRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run <file-manager>",
		Short: "Run a single simulation",
		Long: `Run one simulation against the given file manager.

The run succeeds only when the model exits cleanly and prints its
completion banner; anything else is reported as a failure with the
model's stderr.

Examples:
  summaflow run settings/fileManager.txt
  summaflow run settings/fileManager.txt --mode docker --image summa:develop
  summaflow run settings/fileManager.txt --suffix trial1`,
		Args: cobra.ExactArgs(1),
		RunE: runRun,
	}
	runCmd.Flags().StringVarP(&runExecutable, "executable", "e", "", "Path to the model executable (default: $SUMMAFLOW_EXE or summa.exe)")
	runCmd.Flags().StringVarP(&runMode, "mode", "m", "local", "Execution mode: local, docker or slurm")
	runCmd.Flags().StringVarP(&runSuffix, "suffix", "s", "", "Run suffix naming the output files (default: generated)")
	runCmd.Flags().StringVar(&runImage, "image", "", "Docker image for --mode docker")
	runCmd.Flags().BoolVar(&runNoHistory, "no-history", false, "Skip recording the run in the history ledger")
	runCmd.Flags().BoolVar(&runShowOutput, "show-output", false, "Print the model's stdout after the run")
	return runCmd
}

func runRun(cmd *cobra.Command, args []string) error {
	mode, err := sim.ParseMode(runMode)
	if err != nil {
		return err
	}
	s, err := sim.NewSimulation(resolveExecutable(runExecutable), args[0])
	if err != nil {
		return err
	}

	started := time.Now()
	err = s.Run(context.Background(), sim.RunOptions{
		Mode:        mode,
		Suffix:      runSuffix,
		DockerImage: runImage,
	})
	if err != nil {
		return err
	}

	if !runNoHistory {
		recordRun(s, mode, "", started)
	}

	fmt.Printf("%s  %s  (%s)\n", statusLabel(s.Status()), s.Suffix(), formatDuration(s.Duration()))
	if runShowOutput && s.Stdout() != "" {
		fmt.Print(s.Stdout())
	}
	if s.Status() != sim.StatusSuccess {
		if stderr := s.Stderr(); stderr != "" {
			fmt.Println(dimStyle.Sprint(stderr))
		}
		return fmt.Errorf("simulation %s failed", s.Suffix())
	}
	fmt.Printf("output: %s\n", s.OutputFilePath())
	return nil
}

// recordRun appends to the history ledger, logging rather than failing when
// the ledger is unavailable.
func recordRun(s *sim.Simulation, mode sim.Mode, ensembleID string, started time.Time) {
	store, err := history.Open(history.DefaultPath())
	if err != nil {
		fmt.Println(dimStyle.Sprintf("history unavailable: %v", err))
		return
	}
	defer store.Close()
	if _, err := store.RecordSimulation(context.Background(), s, mode, ensembleID, started); err != nil {
		fmt.Println(dimStyle.Sprintf("history write failed: %v", err))
	}
}
