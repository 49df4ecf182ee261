package sim

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrotools/summaflow/pkg/config"
	"github.com/hydrotools/summaflow/pkg/config/configtest"
	"github.com/hydrotools/summaflow/pkg/dataset"
	sfexec "github.com/hydrotools/summaflow/pkg/exec"
)

func newTestSimulation(t *testing.T) (*Simulation, *sfexec.MockCommandExecutor) {
	t.Helper()
	fmPath := configtest.WriteSettings(t)
	s, err := NewSimulation("/opt/summa/bin/summa.exe", fmPath)
	require.NoError(t, err)
	mock := &sfexec.MockCommandExecutor{}
	s.SetExecutor(mock)
	return s, mock
}

func successResult() *sfexec.Result {
	return &sfexec.Result{
		Stdout:   "initializing...\nfinished simulation successfully.\n",
		ExitCode: 0,
	}
}

func TestNewSimulationLoadsReferencedConfigs(t *testing.T) {
	s, _ := newTestSimulation(t)
	assert.NotNil(t, s.FileManager)
	assert.NotNil(t, s.Decisions)
	assert.NotNil(t, s.OutputControl)
	assert.NotNil(t, s.LocalParams)
	assert.NotNil(t, s.BasinParams)
	assert.Equal(t, StatusNotRun, s.Status())
}

func TestNewSimulationMissingFileManager(t *testing.T) {
	_, err := NewSimulation("summa.exe", filepath.Join(t.TempDir(), "absent.txt"))
	var notFound *config.ConfigNotFoundError
	assert.True(t, errors.As(err, &notFound), "expected ConfigNotFoundError, got %v", err)
}

func TestRunSuccess(t *testing.T) {
	s, mock := newTestSimulation(t)
	mock.RunFunc = func(ctx context.Context, dir, name string, arg ...string) (*sfexec.Result, error) {
		return successResult(), nil
	}

	require.NoError(t, s.Run(context.Background(), RunOptions{Suffix: "trial1"}))
	assert.Equal(t, StatusSuccess, s.Status())
	assert.Equal(t, "trial1", s.Suffix())
	assert.Contains(t, s.Stdout(), "finished simulation successfully.")

	require.Len(t, mock.Commands, 1)
	assert.Equal(t, "/opt/summa/bin/summa.exe -s trial1 -m "+s.FileManagerPath, mock.Commands[0])
}

func TestRunGeneratesSuffix(t *testing.T) {
	s, mock := newTestSimulation(t)
	mock.RunFunc = func(ctx context.Context, dir, name string, arg ...string) (*sfexec.Result, error) {
		return successResult(), nil
	}
	require.NoError(t, s.Run(context.Background(), RunOptions{}))
	assert.True(t, strings.HasPrefix(s.Suffix(), "run-"), "generated suffix %q", s.Suffix())
}

func TestRunExitZeroWithoutMarkerFails(t *testing.T) {
	s, mock := newTestSimulation(t)
	mock.RunFunc = func(ctx context.Context, dir, name string, arg ...string) (*sfexec.Result, error) {
		// Some failure paths still exit zero; the completion banner is the
		// authoritative signal.
		return &sfexec.Result{Stdout: "FATAL ERROR: in vegPhenlgy\n", ExitCode: 0}, nil
	}
	require.NoError(t, s.Run(context.Background(), RunOptions{Suffix: "bad"}))
	assert.Equal(t, StatusFailed, s.Status())
}

func TestRunNonZeroExitFails(t *testing.T) {
	s, mock := newTestSimulation(t)
	mock.RunFunc = func(ctx context.Context, dir, name string, arg ...string) (*sfexec.Result, error) {
		return &sfexec.Result{Stdout: "finished simulation successfully.\n", Stderr: "segfault", ExitCode: 139}, nil
	}
	require.NoError(t, s.Run(context.Background(), RunOptions{Suffix: "crash"}))
	assert.Equal(t, StatusFailed, s.Status())
	assert.Equal(t, "segfault", s.Stderr())
}

func TestRunLaunchFailure(t *testing.T) {
	s, mock := newTestSimulation(t)
	mock.RunFunc = func(ctx context.Context, dir, name string, arg ...string) (*sfexec.Result, error) {
		return nil, errors.New("executable file not found")
	}
	err := s.Run(context.Background(), RunOptions{Suffix: "nope"})
	assert.Error(t, err)
	assert.Equal(t, StatusFailed, s.Status())
}

func TestRunDockerMode(t *testing.T) {
	s, mock := newTestSimulation(t)
	mock.RunFunc = func(ctx context.Context, dir, name string, arg ...string) (*sfexec.Result, error) {
		return successResult(), nil
	}
	require.NoError(t, s.Run(context.Background(), RunOptions{
		Mode:        ModeDocker,
		Suffix:      "docked",
		DockerImage: "summa:develop",
	}))

	require.Len(t, mock.Commands, 1)
	cmd := mock.Commands[0]
	assert.True(t, strings.HasPrefix(cmd, "docker run --rm"), "command %q", cmd)
	assert.Contains(t, cmd, "-v "+s.FileManager.SettingsPath()+":"+s.FileManager.SettingsPath())
	assert.Contains(t, cmd, "summa:develop -s docked -m "+s.FileManagerPath)
}

func TestRunSlurmMode(t *testing.T) {
	s, mock := newTestSimulation(t)
	mock.RunFunc = func(ctx context.Context, dir, name string, arg ...string) (*sfexec.Result, error) {
		return successResult(), nil
	}
	require.NoError(t, s.Run(context.Background(), RunOptions{Mode: ModeSlurm, Suffix: "hpc"}))
	require.Len(t, mock.Commands, 1)
	assert.Equal(t, "srun /opt/summa/bin/summa.exe -s hpc -m "+s.FileManagerPath, mock.Commands[0])
}

func TestRunPersistsConfigEdits(t *testing.T) {
	s, mock := newTestSimulation(t)
	mock.RunFunc = func(ctx context.Context, dir, name string, arg ...string) (*sfexec.Result, error) {
		return successResult(), nil
	}
	require.NoError(t, s.Decisions.Set("stomResist", "Jarvis"))
	require.NoError(t, s.Run(context.Background(), RunOptions{Suffix: "edited"}))

	reloaded, err := config.LoadDecisions(s.FileManager.DecisionsPath())
	require.NoError(t, err)
	v, err := reloaded.Get("stomResist")
	require.NoError(t, err)
	assert.Equal(t, "Jarvis", v)
}

func TestApplyOverrides(t *testing.T) {
	s, _ := newTestSimulation(t)
	require.NoError(t, s.ApplyOverrides(map[string]interface{}{
		"albedoMax":  0.9,
		"stomResist": "simpleResistance",
	}))

	v, err := s.LocalParams.Get("albedoMax")
	require.NoError(t, err)
	assert.InDelta(t, 0.9, v.(float64), 1e-12)

	d, err := s.Decisions.Get("stomResist")
	require.NoError(t, err)
	assert.Equal(t, "simpleResistance", d)

	err = s.ApplyOverrides(map[string]interface{}{"noSuchParam": 1.0})
	var unknown *config.UnknownOptionError
	assert.True(t, errors.As(err, &unknown), "expected UnknownOptionError, got %v", err)
}

func TestOutputBeforeSuccess(t *testing.T) {
	s, mock := newTestSimulation(t)

	_, err := s.Output()
	var notAvail *OutputNotAvailableError
	require.True(t, errors.As(err, &notAvail), "expected OutputNotAvailableError, got %v", err)
	assert.Equal(t, StatusNotRun, notAvail.Status)

	mock.RunFunc = func(ctx context.Context, dir, name string, arg ...string) (*sfexec.Result, error) {
		return &sfexec.Result{ExitCode: 1}, nil
	}
	require.NoError(t, s.Run(context.Background(), RunOptions{Suffix: "fail"}))
	_, err = s.Output()
	require.True(t, errors.As(err, &notAvail))
	assert.Equal(t, StatusFailed, notAvail.Status)
}

func TestOutputPathAndLazyLoad(t *testing.T) {
	s, mock := newTestSimulation(t)
	mock.RunFunc = func(ctx context.Context, dir, name string, arg ...string) (*sfexec.Result, error) {
		return successResult(), nil
	}

	opened := 0
	s.SetDatasetOpener(func(path string) (*dataset.Dataset, error) {
		opened++
		ds := dataset.New()
		ds.Path = path
		return ds, nil
	})

	require.NoError(t, s.Run(context.Background(), RunOptions{Suffix: "trial2"}))
	want := filepath.Join(s.FileManager.OutputPath(), "reynolds_trial2_timestep.nc")
	assert.Equal(t, want, s.OutputFilePath())

	ds, err := s.Output()
	require.NoError(t, err)
	assert.Equal(t, want, ds.Path)

	// Repeated access reuses the cached dataset.
	_, err = s.Output()
	require.NoError(t, err)
	assert.Equal(t, 1, opened)
}
