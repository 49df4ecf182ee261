package config

import (
	"fmt"
	"strings"
)

// ConfigNotFoundError reports a missing or unreadable configuration file,
// either the file manager itself or one of the files it references.
type ConfigNotFoundError struct {
	Path string
	Err  error
}

func (e *ConfigNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration file not found: %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("configuration file not found: %s", e.Path)
}

func (e *ConfigNotFoundError) Unwrap() error { return e.Err }

// UnknownOptionError reports a get/set/remove against an option name that is
// not present in the file.
type UnknownOptionError struct {
	File string
	Name string
}

func (e *UnknownOptionError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("unknown option %q in %s", e.Name, e.File)
	}
	return fmt.Sprintf("unknown option %q", e.Name)
}

// InvalidValueError reports a set with a value outside the option's declared
// choice set. The prior value is left unchanged.
type InvalidValueError struct {
	Name    string
	Value   interface{}
	Choices []string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %v for option %q (valid choices: %s)",
		e.Value, e.Name, strings.Join(e.Choices, ", "))
}

// LayerConfigError reports snow-layer thresholds that do not form a
// monotonic, non-overlapping partition.
type LayerConfigError struct {
	Layer  int
	Reason string
}

func (e *LayerConfigError) Error() string {
	return fmt.Sprintf("invalid layer configuration at layer %d: %s", e.Layer, e.Reason)
}
