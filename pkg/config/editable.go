// Package config parses, edits and renders SUMMA's text configuration files:
// the file manager, model decisions, trial-parameter tables and the output
// control file. Parsing is round-trip faithful: rendering an unmodified file
// reproduces its text byte for byte.
package config

// Editable is the capability shared by every text configuration file that
// supports keyed edits. Files the model reads as raw datasets (attributes,
// forcing, initial conditions) are not Editable; they are referenced by path
// only, and callers branch on this capability rather than on file type.
type Editable interface {
	// Get returns the current value for name. The concrete type depends on
	// the file kind: string for the file manager and decisions, []float64
	// for trial-parameter rows, []int for output-control rows.
	Get(name string) (interface{}, error)

	// Set validates value against the option's choice set, if any, and
	// replaces the value in place, preserving the file's option ordering.
	Set(name string, value interface{}) error

	// Remove deletes the option line.
	Remove(name string) error

	// Render produces the textual serialization SUMMA expects.
	Render() string

	// Path returns the file path this configuration was parsed from.
	Path() string
}
