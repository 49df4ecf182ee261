package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/hydrotools/summaflow/pkg/sim"
)

var (
	successStyle = color.New(color.FgGreen, color.Bold)
	failureStyle = color.New(color.FgRed, color.Bold)
	pendingStyle = color.New(color.FgYellow)
	dimStyle     = color.New(color.Faint)
)

func init() {
	// Honor NO_COLOR and non-terminal output.
	if !isatty.IsTerminal(os.Stdout.Fd()) || termenv.EnvNoColor() {
		color.NoColor = true
	}
}

// statusLabel renders a run status with its color.
func statusLabel(status sim.Status) string {
	switch status {
	case sim.StatusSuccess:
		return successStyle.Sprint("success")
	case sim.StatusFailed:
		return failureStyle.Sprint("failed")
	case sim.StatusRunning:
		return pendingStyle.Sprint("running")
	default:
		return dimStyle.Sprint("not run")
	}
}

// formatDuration trims sub-millisecond noise from run durations.
func formatDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	return d.Round(time.Millisecond).String()
}

// resolveExecutable finds the model binary: an explicit flag wins, then
// SUMMAFLOW_EXE, then summa.exe on PATH.
func resolveExecutable(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv("SUMMAFLOW_EXE"); env != "" {
		return env
	}
	return "summa.exe"
}

// configKind guesses which configuration format a file holds from its name.
func configKind(path string) string {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.Contains(name, "filemanager"), strings.Contains(name, "file_manager"):
		return "filemanager"
	case strings.Contains(name, "decision"):
		return "decisions"
	case strings.Contains(name, "outputcontrol"), strings.Contains(name, "output_control"):
		return "output"
	case strings.Contains(name, "param"):
		return "params"
	}
	return ""
}
