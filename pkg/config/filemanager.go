package config

import (
	"os"
	"path/filepath"
	"strings"
)

// File manager keys for the paths and files a simulation needs.
const (
	KeyControlVersion    = "controlVersion"
	KeySimStartTime      = "simStartTime"
	KeySimEndTime        = "simEndTime"
	KeySettingsPath      = "settingsPath"
	KeyForcingPath       = "forcingPath"
	KeyOutputPath        = "outputPath"
	KeyDecisionsFile     = "decisionsFile"
	KeyOutputControlFile = "outputControlFile"
	KeyHruParamFile      = "globalHruParamFile"
	KeyGruParamFile      = "globalGruParamFile"
	KeyAttributeFile     = "attributeFile"
	KeyTrialParamFile    = "trialParamFile"
	KeyForcingListFile   = "forcingListFile"
	KeyInitConditionFile = "initConditionFile"
	KeyOutFilePrefix     = "outFilePrefix"
)

// referencedFiles are the file manager keys that must resolve to an existing
// file under settingsPath for a run to be possible.
var referencedFiles = []string{
	KeyDecisionsFile,
	KeyOutputControlFile,
	KeyHruParamFile,
	KeyGruParamFile,
	KeyAttributeFile,
	KeyTrialParamFile,
	KeyForcingListFile,
	KeyInitConditionFile,
}

// FileManager is SUMMA's master configuration file: `key 'value'` lines
// naming every other configuration file and directory the model reads.
type FileManager struct {
	tf      *textFile
	order   []string
	entries map[string]*fmEntry
}

type fmEntry struct {
	lineIdx int
	value   string
}

// LoadFileManager reads and parses a file manager file.
func LoadFileManager(path string) (*FileManager, error) {
	text, err := readFileText(path)
	if err != nil {
		return nil, err
	}
	return ParseFileManager(path, text), nil
}

// ParseFileManager parses file manager text.
func ParseFileManager(path, text string) *FileManager {
	fm := &FileManager{
		tf:      newTextFile(path, text),
		entries: make(map[string]*fmEntry),
	}
	for i, line := range fm.tf.lines {
		if isCommentOrBlank(line) {
			continue
		}
		payload, _ := splitComment(line)
		fields := strings.Fields(payload)
		if len(fields) < 2 {
			continue
		}
		name := fields[0]
		if _, dup := fm.entries[name]; dup {
			continue
		}
		fm.entries[name] = &fmEntry{lineIdx: i, value: unquote(payload)}
		fm.order = append(fm.order, name)
	}
	return fm
}

// Path returns the source file path.
func (fm *FileManager) Path() string { return fm.tf.path }

// Names returns the file manager keys in file order.
func (fm *FileManager) Names() []string {
	out := make([]string, len(fm.order))
	copy(out, fm.order)
	return out
}

// Get returns the unquoted value for a key.
func (fm *FileManager) Get(name string) (interface{}, error) {
	entry, ok := fm.entries[name]
	if !ok {
		return nil, &UnknownOptionError{File: fm.tf.path, Name: name}
	}
	return entry.value, nil
}

// GetString is Get for callers that know file manager values are strings.
func (fm *FileManager) GetString(name string) (string, error) {
	v, err := fm.Get(name)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Set replaces the quoted value of a key in place.
func (fm *FileManager) Set(name string, value interface{}) error {
	entry, ok := fm.entries[name]
	if !ok {
		return &UnknownOptionError{File: fm.tf.path, Name: name}
	}
	str, ok := value.(string)
	if !ok {
		return &InvalidValueError{Name: name, Value: value}
	}
	fm.tf.lines[entry.lineIdx] = spliceQuoted(fm.tf.lines[entry.lineIdx], str)
	entry.value = str
	return nil
}

// Remove deletes a key line.
func (fm *FileManager) Remove(name string) error {
	entry, ok := fm.entries[name]
	if !ok {
		return &UnknownOptionError{File: fm.tf.path, Name: name}
	}
	fm.tf.removeLine(entry.lineIdx)
	delete(fm.entries, name)
	for i, n := range fm.order {
		if n == name {
			fm.order = append(fm.order[:i], fm.order[i+1:]...)
			break
		}
	}
	for _, e := range fm.entries {
		if e.lineIdx > entry.lineIdx {
			e.lineIdx--
		}
	}
	return nil
}

// Render serializes the file manager.
func (fm *FileManager) Render() string { return fm.tf.render() }

// Save writes the rendered file back to its source path.
func (fm *FileManager) Save() error { return writeFileText(fm.tf.path, fm.Render()) }

// SaveAs writes the rendered file to a new path and retargets the file there.
func (fm *FileManager) SaveAs(path string) error {
	if err := writeFileText(path, fm.Render()); err != nil {
		return err
	}
	fm.tf.path = path
	return nil
}

func (fm *FileManager) lookup(name string) string {
	if entry, ok := fm.entries[name]; ok {
		return entry.value
	}
	return ""
}

// SettingsPath returns the directory holding the model configuration files.
func (fm *FileManager) SettingsPath() string { return fm.lookup(KeySettingsPath) }

// ForcingPath returns the directory holding the forcing datasets.
func (fm *FileManager) ForcingPath() string { return fm.lookup(KeyForcingPath) }

// OutputPath returns the directory the model writes output into.
func (fm *FileManager) OutputPath() string { return fm.lookup(KeyOutputPath) }

// OutFilePrefix returns the prefix for the model's output file names.
func (fm *FileManager) OutFilePrefix() string { return fm.lookup(KeyOutFilePrefix) }

// ResolvePath resolves a referenced file key against settingsPath. Absolute
// values are returned as-is.
func (fm *FileManager) ResolvePath(name string) string {
	value := fm.lookup(name)
	if value == "" {
		return ""
	}
	if filepath.IsAbs(value) {
		return value
	}
	return filepath.Join(fm.SettingsPath(), value)
}

// DecisionsPath returns the resolved path of the decisions file.
func (fm *FileManager) DecisionsPath() string { return fm.ResolvePath(KeyDecisionsFile) }

// OutputControlPath returns the resolved path of the output control file.
func (fm *FileManager) OutputControlPath() string { return fm.ResolvePath(KeyOutputControlFile) }

// LocalParamsPath returns the resolved path of the local (HRU) parameter table.
func (fm *FileManager) LocalParamsPath() string { return fm.ResolvePath(KeyHruParamFile) }

// BasinParamsPath returns the resolved path of the basin (GRU) parameter table.
func (fm *FileManager) BasinParamsPath() string { return fm.ResolvePath(KeyGruParamFile) }

// Validate checks that the settings directory and every referenced
// configuration file exist, returning ConfigNotFoundError for the first
// missing one.
func (fm *FileManager) Validate() error {
	if settings := fm.SettingsPath(); settings != "" {
		if _, err := os.Stat(settings); err != nil {
			return &ConfigNotFoundError{Path: settings, Err: err}
		}
	}
	for _, key := range referencedFiles {
		if fm.lookup(key) == "" {
			continue
		}
		resolved := fm.ResolvePath(key)
		if _, err := os.Stat(resolved); err != nil {
			return &ConfigNotFoundError{Path: resolved, Err: err}
		}
	}
	return nil
}

// unquote extracts the first single-quoted value of a payload, or the second
// whitespace token when the value is unquoted.
func unquote(payload string) string {
	if open := strings.Index(payload, "'"); open >= 0 {
		rest := payload[open+1:]
		if close := strings.Index(rest, "'"); close >= 0 {
			return rest[:close]
		}
	}
	fields := strings.Fields(payload)
	if len(fields) >= 2 {
		return fields[1]
	}
	return ""
}

// spliceQuoted replaces the first single-quoted value of a line, keeping the
// key column and any comment. Unquoted values fall back to token splicing.
func spliceQuoted(line, newValue string) string {
	payload, comment := splitComment(line)
	open := strings.Index(payload, "'")
	if open < 0 {
		return spliceValue(line, newValue)
	}
	rest := payload[open+1:]
	close := strings.Index(rest, "'")
	if close < 0 {
		return spliceValue(line, newValue)
	}
	return payload[:open+1] + newValue + rest[close:] + comment
}
