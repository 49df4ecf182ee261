// Package ensemble coordinates a batch of simulations over a parameter
// sweep: it expands sweeps into members, gives each member an isolated copy
// of the model configuration, runs them through a bounded worker pool without
// stopping on individual failures, and merges the surviving output along a
// new labeled dimension.
package ensemble

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/hydrotools/summaflow/pkg/config"
	"github.com/hydrotools/summaflow/pkg/dataset"
	"github.com/hydrotools/summaflow/pkg/logging"
	"github.com/hydrotools/summaflow/pkg/sim"
)

// Options configures an ensemble before members are materialized.
type Options struct {
	// Executable is the model binary every member runs.
	Executable string
	// FileManagerPath is the template configuration members are cloned from.
	FileManagerPath string
	// WorkDir receives one subdirectory per member. Defaults to a directory
	// next to the template's output path.
	WorkDir string
	// Workers bounds concurrent runs. Defaults to the number of CPUs.
	Workers int
	// Mode and DockerImage are passed through to every member's run.
	Mode        sim.Mode
	DockerImage string
}

// Member is one simulation in the ensemble.
type Member struct {
	Identifier string
	Overrides  OverrideSet
	Sim        *sim.Simulation

	mu     sync.Mutex
	runErr error
}

// RunError returns the launch error of the member's run, if any.
func (m *Member) RunError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runErr
}

func (m *Member) setRunError(err error) {
	m.mu.Lock()
	m.runErr = err
	m.mu.Unlock()
}

// MemberSummary is one row of an ensemble report. Output and Error hold the
// tail of the member's stdout and stderr for post-hoc triage.
type MemberSummary struct {
	Identifier string
	Status     sim.Status
	Duration   time.Duration
	Output     string
	Error      string
}

// Ensemble owns the members of one sweep.
type Ensemble struct {
	opts    Options
	members []*Member
	log     logging.Logger
}

// New materializes one member per override set: each gets a private copy of
// the settings directory under WorkDir, retargeted output, and its overrides
// applied. Colliding identifiers return *DuplicateMemberError.
func New(opts Options, sets []OverrideSet) (*Ensemble, error) {
	if len(sets) == 0 {
		return nil, fmt.Errorf("ensemble has no members")
	}
	template, err := config.LoadFileManager(opts.FileManagerPath)
	if err != nil {
		return nil, err
	}
	if opts.WorkDir == "" {
		opts.WorkDir = filepath.Join(filepath.Dir(template.OutputPath()), "ensemble")
	}

	e := &Ensemble{
		opts: opts,
		log:  logging.Default("ensemble"),
	}
	seen := make(map[string]bool)
	for _, set := range sets {
		id := set.Identifier()
		if seen[id] {
			return nil, &DuplicateMemberError{Identifier: id}
		}
		seen[id] = true

		member, err := e.materialize(id, set, template)
		if err != nil {
			return nil, fmt.Errorf("preparing member %s: %w", id, err)
		}
		e.members = append(e.members, member)
	}
	return e, nil
}

// materialize clones the template configuration into the member's directory
// and builds its simulation.
func (e *Ensemble) materialize(id string, set OverrideSet, template *config.FileManager) (*Member, error) {
	memberDir := filepath.Join(e.opts.WorkDir, id)
	settingsDir := filepath.Join(memberDir, "settings")
	outputDir := filepath.Join(memberDir, "output")
	if err := copyDir(template.SettingsPath(), settingsDir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, err
	}

	// Reload the template rather than mutating the shared instance, and
	// write it into the member's settings directory; the original may live
	// outside settingsPath.
	fmPath := filepath.Join(settingsDir, filepath.Base(e.opts.FileManagerPath))
	fm, err := config.LoadFileManager(e.opts.FileManagerPath)
	if err != nil {
		return nil, err
	}
	if err := fm.SaveAs(fmPath); err != nil {
		return nil, err
	}
	if err := fm.Set(config.KeySettingsPath, settingsDir+"/"); err != nil {
		return nil, err
	}
	if err := fm.Set(config.KeyOutputPath, outputDir+"/"); err != nil {
		return nil, err
	}
	if err := fm.Save(); err != nil {
		return nil, err
	}

	s, err := sim.NewSimulation(e.opts.Executable, fmPath)
	if err != nil {
		return nil, err
	}
	if err := s.ApplyOverrides(set.Overrides()); err != nil {
		return nil, err
	}
	return &Member{Identifier: id, Overrides: set, Sim: s}, nil
}

// Members returns the members in declaration order.
func (e *Ensemble) Members() []*Member {
	out := make([]*Member, len(e.members))
	copy(out, e.members)
	return out
}

// Run executes every member through a pool of at most Workers goroutines.
// A member failing, or failing to launch, never stops the others; failures
// are reported through Summary.
func (e *Ensemble) Run(ctx context.Context) {
	workers := e.opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(e.members) {
		workers = len(e.members)
	}
	e.log.Info("starting ensemble", "members", len(e.members), "workers", workers)

	jobs := make(chan *Member)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range jobs {
				err := m.Sim.Run(ctx, sim.RunOptions{
					Mode:        e.opts.Mode,
					Suffix:      m.Identifier,
					DockerImage: e.opts.DockerImage,
				})
				m.setRunError(err)
				if err != nil {
					e.log.Error("member failed to launch", "member", m.Identifier, "error", err)
				}
			}
		}()
	}
	for _, m := range e.members {
		jobs <- m
	}
	close(jobs)
	wg.Wait()
	e.log.Info("ensemble finished", "members", len(e.members))
}

// Summary reports every member's outcome, in declaration order.
func (e *Ensemble) Summary() []MemberSummary {
	out := make([]MemberSummary, 0, len(e.members))
	for _, m := range e.members {
		s := MemberSummary{
			Identifier: m.Identifier,
			Status:     m.Sim.Status(),
			Duration:   m.Sim.Duration(),
			Output:     lastLine(m.Sim.Stdout()),
		}
		if err := m.RunError(); err != nil {
			s.Error = err.Error()
		} else if s.Status == sim.StatusFailed {
			s.Error = lastLine(m.Sim.Stderr())
		}
		out = append(out, s)
	}
	return out
}

// MergeOutput stacks the output of every successful member along a new
// dimension. When exactly one option varies across the ensemble the
// dimension is named after it and labeled with its values; otherwise the
// dimension is "run" and the labels are full member identifiers. Failed
// members are skipped; no successes at all returns *NoSuccessfulRunsError.
func (e *Ensemble) MergeOutput() (*dataset.Dataset, error) {
	var succeeded []*Member
	for _, m := range e.members {
		if m.Sim.Status() == sim.StatusSuccess {
			succeeded = append(succeeded, m)
		}
	}
	if len(succeeded) == 0 {
		return nil, &NoSuccessfulRunsError{}
	}

	dim, labels := mergeLabels(succeeded)
	sets := make([]*dataset.Dataset, 0, len(succeeded))
	for _, m := range succeeded {
		ds, err := m.Sim.Output()
		if err != nil {
			return nil, fmt.Errorf("output of member %s: %w", m.Identifier, err)
		}
		sets = append(sets, ds)
	}
	return dataset.Concat(dim, labels, sets)
}

// mergeLabels picks the merged dimension name and per-member labels.
func mergeLabels(members []*Member) (string, []string) {
	varying := varyingNames(members)
	if len(varying) == 1 {
		name := varying[0]
		labels := make([]string, len(members))
		for i, m := range members {
			for _, kv := range m.Overrides {
				if kv.Name == name {
					labels[i] = fmt.Sprintf("%v", kv.Value)
				}
			}
		}
		return name, labels
	}
	labels := make([]string, len(members))
	for i, m := range members {
		labels[i] = m.Identifier
	}
	return "run", labels
}

// varyingNames returns the override names that take more than one distinct
// value across the given members, in override order.
func varyingNames(members []*Member) []string {
	values := make(map[string]map[string]bool)
	var order []string
	for _, m := range members {
		for _, kv := range m.Overrides {
			if values[kv.Name] == nil {
				values[kv.Name] = make(map[string]bool)
				order = append(order, kv.Name)
			}
			values[kv.Name][fmt.Sprintf("%v", kv.Value)] = true
		}
	}
	var varying []string
	for _, name := range order {
		if len(values[name]) > 1 {
			varying = append(varying, name)
		}
	}
	return varying
}

func lastLine(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

// copyDir recursively copies a directory tree. Symlinked files are copied by
// content; symlinked directories are not descended into.
func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			resolved, err := os.Stat(path)
			if err != nil {
				return err
			}
			if resolved.IsDir() {
				return nil
			}
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
