package ensemble

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hydrotools/summaflow/pkg/sim"
)

// Manifest is the on-disk description of an ensemble. Sweeps is kept as a
// raw YAML node so the declared option order survives into identifiers and
// directory names.
type Manifest struct {
	Executable  string    `yaml:"executable" json:"executable" jsonschema:"description=Path to the model executable"`
	FileManager string    `yaml:"file_manager" json:"file_manager" jsonschema:"description=Template file manager the members are cloned from"`
	WorkDir     string    `yaml:"work_dir,omitempty" json:"work_dir,omitempty" jsonschema:"description=Directory receiving one working copy per member"`
	Workers     int       `yaml:"workers,omitempty" json:"workers,omitempty" jsonschema:"minimum=0,description=Maximum concurrent runs (0 means one per CPU)"`
	Mode        string    `yaml:"mode,omitempty" json:"mode,omitempty" jsonschema:"enum=local,enum=docker,enum=slurm"`
	DockerImage string    `yaml:"docker_image,omitempty" json:"docker_image,omitempty"`
	Sweeps      yaml.Node `yaml:"sweeps" json:"-"`
}

// LoadManifest reads and parses an ensemble manifest.
func LoadManifest(path string) (*Manifest, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return ParseManifest(text)
}

// ParseManifest parses manifest YAML.
func ParseManifest(text []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(text, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if m.Executable == "" {
		return nil, fmt.Errorf("manifest: executable is required")
	}
	if m.FileManager == "" {
		return nil, fmt.Errorf("manifest: file_manager is required")
	}
	return &m, nil
}

// SweepList decodes the sweeps mapping in declaration order.
func (m *Manifest) SweepList() ([]Sweep, error) {
	if m.Sweeps.Kind == 0 {
		return nil, fmt.Errorf("manifest: sweeps is required")
	}
	if m.Sweeps.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("manifest: sweeps must be a mapping of option name to value list")
	}
	var sweeps []Sweep
	for i := 0; i+1 < len(m.Sweeps.Content); i += 2 {
		key := m.Sweeps.Content[i]
		val := m.Sweeps.Content[i+1]
		var values []interface{}
		if err := val.Decode(&values); err != nil {
			return nil, fmt.Errorf("manifest: sweep %s: %w", key.Value, err)
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("manifest: sweep %s has no values", key.Value)
		}
		sweeps = append(sweeps, Sweep{Name: key.Value, Values: values})
	}
	if len(sweeps) == 0 {
		return nil, fmt.Errorf("manifest: sweeps is empty")
	}
	return sweeps, nil
}

// Build materializes the ensemble the manifest describes.
func (m *Manifest) Build() (*Ensemble, error) {
	sweeps, err := m.SweepList()
	if err != nil {
		return nil, err
	}
	mode, err := sim.ParseMode(m.Mode)
	if err != nil {
		return nil, err
	}
	return New(Options{
		Executable:      m.Executable,
		FileManagerPath: m.FileManager,
		WorkDir:         m.WorkDir,
		Workers:         m.Workers,
		Mode:            mode,
		DockerImage:     m.DockerImage,
	}, Product(sweeps))
}
