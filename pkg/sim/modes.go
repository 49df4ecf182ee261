package sim

import (
	"fmt"

	"github.com/hydrotools/summaflow/pkg/config"
)

// Mode selects how the model executable is invoked.
type Mode string

const (
	// ModeLocal runs the executable as a direct subprocess.
	ModeLocal Mode = "local"
	// ModeDocker wraps the same arguments in a docker run, mounting the
	// settings, forcing and output directories into the container.
	ModeDocker Mode = "docker"
	// ModeSlurm submits the run through srun and blocks until the job
	// completes.
	ModeSlurm Mode = "slurm"
)

// DefaultDockerImage is used when no image is configured for docker mode.
const DefaultDockerImage = "summa:latest"

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLocal, ModeDocker, ModeSlurm:
		return Mode(s), nil
	case "":
		return ModeLocal, nil
	}
	return "", fmt.Errorf("unknown run mode %q (valid: local, docker, slurm)", s)
}

// buildCommand translates a run request into the command name and argument
// list for the chosen mode. The model's own contract is always
// `-s <suffix> -m <fileManager>`; modes only change the wrapping.
func buildCommand(mode Mode, executable, image string, fm *config.FileManager, fmPath, suffix string) (string, []string, error) {
	modelArgs := []string{"-s", suffix, "-m", fmPath}
	switch mode {
	case ModeLocal:
		return executable, modelArgs, nil
	case ModeSlurm:
		return "srun", append([]string{executable}, modelArgs...), nil
	case ModeDocker:
		if image == "" {
			image = DefaultDockerImage
		}
		args := []string{"run", "--rm"}
		mounts := []string{fm.SettingsPath(), fm.ForcingPath(), fm.OutputPath()}
		seen := make(map[string]bool)
		for _, dir := range mounts {
			if dir == "" || seen[dir] {
				continue
			}
			seen[dir] = true
			args = append(args, "-v", dir+":"+dir)
		}
		args = append(args, image)
		args = append(args, modelArgs...)
		return "docker", args, nil
	}
	return "", nil, fmt.Errorf("unknown run mode %q", mode)
}
