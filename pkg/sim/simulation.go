// Package sim runs a single model simulation: it loads the configuration
// behind a file manager, launches the executable in one of several modes and
// classifies the result from the exit code and the model's completion banner.
package sim

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hydrotools/summaflow/pkg/config"
	"github.com/hydrotools/summaflow/pkg/dataset"
	sfexec "github.com/hydrotools/summaflow/pkg/exec"
	"github.com/hydrotools/summaflow/pkg/logging"
)

// Status is the lifecycle state of a simulation.
type Status string

const (
	StatusNotRun  Status = "not_run"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// successMarker is the line the model prints on a clean finish. An exit code
// of zero alone is not enough: the executable exits zero on some internal
// failures, so both signals are required.
const successMarker = "finished simulation successfully."

// OutputNotAvailableError reports an attempt to read output from a simulation
// that has not completed successfully.
type OutputNotAvailableError struct {
	Status Status
}

func (e *OutputNotAvailableError) Error() string {
	return fmt.Sprintf("simulation output not available (status: %s)", e.Status)
}

// RunOptions controls a single invocation of the executable.
type RunOptions struct {
	// Mode selects local, docker or slurm execution. Empty means local.
	Mode Mode
	// Suffix distinguishes this run's output files. A fresh identifier is
	// generated when empty.
	Suffix string
	// DockerImage overrides the image used in docker mode.
	DockerImage string
}

// Simulation wraps one model run: the executable, the parsed configuration
// files behind its file manager, and the state of the most recent invocation.
type Simulation struct {
	Executable      string
	FileManagerPath string

	FileManager   *config.FileManager
	Decisions     *config.Decisions
	OutputControl *config.OutputControl
	LocalParams   *config.TrialParams
	BasinParams   *config.TrialParams

	executor   sfexec.CommandExecutor
	openOutput func(string) (*dataset.Dataset, error)
	log        logging.Logger

	mu       sync.Mutex
	status   Status
	suffix   string
	stdout   string
	stderr   string
	duration time.Duration
	output   *dataset.Dataset
}

// NewSimulation loads every configuration file referenced by the file manager
// at fmPath. Missing files surface as *config.ConfigNotFoundError.
func NewSimulation(executable, fmPath string) (*Simulation, error) {
	fm, err := config.LoadFileManager(fmPath)
	if err != nil {
		return nil, err
	}
	if err := fm.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		Executable:      executable,
		FileManagerPath: fmPath,
		FileManager:     fm,
		executor:        &sfexec.RealCommandExecutor{},
		openOutput:      dataset.Open,
		log:             logging.Default("sim"),
		status:          StatusNotRun,
	}

	if path := fm.DecisionsPath(); path != "" {
		if s.Decisions, err = config.LoadDecisions(path); err != nil {
			return nil, err
		}
	}
	if path := fm.OutputControlPath(); path != "" {
		if s.OutputControl, err = config.LoadOutputControl(path); err != nil {
			return nil, err
		}
	}
	if path := fm.LocalParamsPath(); path != "" {
		if s.LocalParams, err = config.LoadTrialParams(path); err != nil {
			return nil, err
		}
	}
	if path := fm.BasinParamsPath(); path != "" {
		if s.BasinParams, err = config.LoadTrialParams(path); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SetExecutor replaces the command executor, for tests.
func (s *Simulation) SetExecutor(executor sfexec.CommandExecutor) {
	s.executor = executor
}

// SetDatasetOpener replaces the output reader, for tests.
func (s *Simulation) SetDatasetOpener(open func(string) (*dataset.Dataset, error)) {
	s.openOutput = open
}

// Status returns the lifecycle state of the most recent run.
func (s *Simulation) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Suffix returns the run suffix of the most recent run.
func (s *Simulation) Suffix() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suffix
}

// Stdout returns the captured standard output of the most recent run.
func (s *Simulation) Stdout() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stdout
}

// Stderr returns the captured standard error of the most recent run.
func (s *Simulation) Stderr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stderr
}

// Duration returns the wall-clock time of the most recent run.
func (s *Simulation) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.duration
}

// ApplyOverrides sets trial parameter or decision values by name. Parameter
// names are looked up in the local table first, then the basin table, then
// the decisions file.
func (s *Simulation) ApplyOverrides(overrides map[string]interface{}) error {
	for name, value := range overrides {
		if err := s.applyOverride(name, value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulation) applyOverride(name string, value interface{}) error {
	if s.LocalParams != nil {
		if err := s.LocalParams.Set(name, value); err == nil {
			return nil
		} else if _, unknown := err.(*config.UnknownOptionError); !unknown {
			return err
		}
	}
	if s.BasinParams != nil {
		if err := s.BasinParams.Set(name, value); err == nil {
			return nil
		} else if _, unknown := err.(*config.UnknownOptionError); !unknown {
			return err
		}
	}
	if s.Decisions != nil {
		if err := s.Decisions.Set(name, value); err == nil {
			return nil
		} else if _, unknown := err.(*config.UnknownOptionError); !unknown {
			return err
		}
	}
	return &config.UnknownOptionError{Name: name}
}

// Run persists any in-memory configuration edits and executes the model.
// A run that launches but does not finish cleanly is reported through
// Status, not as an error; the returned error covers launch failures only.
func (s *Simulation) Run(ctx context.Context, opts RunOptions) error {
	mode := opts.Mode
	if mode == "" {
		mode = ModeLocal
	}
	suffix := opts.Suffix
	if suffix == "" {
		suffix = "run-" + uuid.NewString()[:8]
	}

	if err := s.saveConfigs(); err != nil {
		return err
	}

	name, args, err := buildCommand(mode, s.Executable, opts.DockerImage, s.FileManager, s.FileManagerPath, suffix)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.status = StatusRunning
	s.suffix = suffix
	s.stdout = ""
	s.stderr = ""
	s.output = nil
	s.mu.Unlock()

	s.log.Info("starting simulation", "mode", string(mode), "suffix", suffix, "command", name)
	start := time.Now()
	result, runErr := s.executor.Run(ctx, filepath.Dir(s.FileManagerPath), name, args...)
	elapsed := time.Since(start)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.duration = elapsed
	if runErr != nil {
		s.status = StatusFailed
		s.stderr = runErr.Error()
		s.log.Error("simulation failed to launch", "suffix", suffix, "error", runErr)
		return fmt.Errorf("launching simulation %s: %w", suffix, runErr)
	}
	s.stdout = result.Stdout
	s.stderr = result.Stderr
	if result.ExitCode == 0 && strings.Contains(result.Stdout, successMarker) {
		s.status = StatusSuccess
		s.log.Info("simulation finished", "suffix", suffix, "duration", elapsed.String())
	} else {
		s.status = StatusFailed
		s.log.Error("simulation failed", "suffix", suffix, "exitCode", result.ExitCode)
	}
	return nil
}

// saveConfigs writes every loaded configuration file back to disk so the
// executable sees the current in-memory state.
func (s *Simulation) saveConfigs() error {
	if err := s.FileManager.Save(); err != nil {
		return err
	}
	if s.Decisions != nil {
		if err := s.Decisions.Save(); err != nil {
			return err
		}
	}
	if s.OutputControl != nil {
		if err := s.OutputControl.Save(); err != nil {
			return err
		}
	}
	if s.LocalParams != nil {
		if err := s.LocalParams.Save(); err != nil {
			return err
		}
	}
	if s.BasinParams != nil {
		if err := s.BasinParams.Save(); err != nil {
			return err
		}
	}
	return nil
}
