package sim

import (
	"path/filepath"

	"github.com/hydrotools/summaflow/pkg/dataset"
)

// OutputFilePath returns where the model writes the timestep output for the
// most recent run: <outputPath>/<outFilePrefix>_<suffix>_timestep.nc.
func (s *Simulation) OutputFilePath() string {
	s.mu.Lock()
	suffix := s.suffix
	s.mu.Unlock()
	if suffix == "" {
		return ""
	}
	name := s.FileManager.OutFilePrefix() + "_" + suffix + "_timestep.nc"
	return filepath.Join(s.FileManager.OutputPath(), name)
}

// Output loads the timestep output of a successful run, caching the dataset
// for repeated access. Calling it before a successful run returns
// *OutputNotAvailableError.
func (s *Simulation) Output() (*dataset.Dataset, error) {
	s.mu.Lock()
	status := s.status
	cached := s.output
	s.mu.Unlock()

	if status != StatusSuccess {
		return nil, &OutputNotAvailableError{Status: status}
	}
	if cached != nil {
		return cached, nil
	}

	ds, err := s.openOutput(s.OutputFilePath())
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.output = ds
	s.mu.Unlock()
	return ds, nil
}
