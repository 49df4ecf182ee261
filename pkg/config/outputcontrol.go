package config

import (
	"fmt"
	"strconv"
	"strings"
)

// OutputControl selects which model variables are written and how they are
// aggregated. Each row is `name | outFreq | inst | sum | mean | var | min |
// max | mode`, with trailing columns optional and defaulting to zero.
type OutputControl struct {
	tf      *textFile
	order   []string
	entries map[string]*outputEntry
}

type outputEntry struct {
	lineIdx int
	values  []int
}

// maxOutputColumns is the output frequency plus the seven statistic flags.
const maxOutputColumns = 8

// LoadOutputControl reads and parses an output control file.
func LoadOutputControl(path string) (*OutputControl, error) {
	text, err := readFileText(path)
	if err != nil {
		return nil, err
	}
	return ParseOutputControl(path, text), nil
}

// ParseOutputControl parses output control text.
func ParseOutputControl(path, text string) *OutputControl {
	oc := &OutputControl{
		tf:      newTextFile(path, text),
		entries: make(map[string]*outputEntry),
	}
	for i, line := range oc.tf.lines {
		if isCommentOrBlank(line) {
			continue
		}
		payload, _ := splitComment(line)
		segments := strings.Split(payload, "|")
		name := strings.TrimSpace(segments[0])
		if name == "" {
			continue
		}
		if _, dup := oc.entries[name]; dup {
			continue
		}
		entry := &outputEntry{lineIdx: i}
		for _, seg := range segments[1:] {
			v, err := strconv.Atoi(strings.TrimSpace(seg))
			if err != nil {
				v = 0
			}
			entry.values = append(entry.values, v)
		}
		oc.entries[name] = entry
		oc.order = append(oc.order, name)
	}
	return oc
}

// Path returns the source file path.
func (oc *OutputControl) Path() string { return oc.tf.path }

// Names returns the output variable names in file order.
func (oc *OutputControl) Names() []string {
	out := make([]string, len(oc.order))
	copy(out, oc.order)
	return out
}

// Get returns the row's numeric columns: output frequency followed by the
// statistic flags.
func (oc *OutputControl) Get(name string) (interface{}, error) {
	entry, ok := oc.entries[name]
	if !ok {
		return nil, &UnknownOptionError{File: oc.tf.path, Name: name}
	}
	out := make([]int, len(entry.values))
	copy(out, entry.values)
	return out, nil
}

// Set fully overwrites a row with up to eight numeric columns.
func (oc *OutputControl) Set(name string, value interface{}) error {
	entry, ok := oc.entries[name]
	if !ok {
		return &UnknownOptionError{File: oc.tf.path, Name: name}
	}
	var cols []int
	switch v := value.(type) {
	case int:
		cols = []int{v}
	case []int:
		cols = v
	default:
		return fmt.Errorf("output variable %q: value must be int or []int, got %T", name, value)
	}
	if len(cols) == 0 || len(cols) > maxOutputColumns {
		return fmt.Errorf("output variable %q: expected 1 to %d columns, got %d",
			name, maxOutputColumns, len(cols))
	}
	entry.values = make([]int, len(cols))
	copy(entry.values, cols)

	payload, comment := splitComment(oc.tf.lines[entry.lineIdx])
	segments := strings.Split(payload, "|")
	parts := []string{segments[0]}
	for _, c := range cols {
		parts = append(parts, " "+strconv.Itoa(c)+" ")
	}
	line := strings.Join(parts, "|")
	oc.tf.lines[entry.lineIdx] = strings.TrimRight(line, " ") + comment
	return nil
}

// Remove deletes an output variable row.
func (oc *OutputControl) Remove(name string) error {
	entry, ok := oc.entries[name]
	if !ok {
		return &UnknownOptionError{File: oc.tf.path, Name: name}
	}
	oc.tf.removeLine(entry.lineIdx)
	delete(oc.entries, name)
	for i, n := range oc.order {
		if n == name {
			oc.order = append(oc.order[:i], oc.order[i+1:]...)
			break
		}
	}
	for _, e := range oc.entries {
		if e.lineIdx > entry.lineIdx {
			e.lineIdx--
		}
	}
	return nil
}

// Render serializes the output control file.
func (oc *OutputControl) Render() string { return oc.tf.render() }

// Save writes the rendered file back to its source path.
func (oc *OutputControl) Save() error { return writeFileText(oc.tf.path, oc.Render()) }

// SaveAs writes the rendered file to a new path and retargets the file there.
func (oc *OutputControl) SaveAs(path string) error {
	if err := writeFileText(path, oc.Render()); err != nil {
		return err
	}
	oc.tf.path = path
	return nil
}
