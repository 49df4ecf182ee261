package config

import (
	"fmt"
	"strconv"
	"strings"
)

// TrialParams is a SUMMA parameter table (local or basin): one row per
// parameter, pipe-delimited as `name | default | lower | upper`. Only the
// first value column is operative; the lower/upper columns are reserved for
// calibration ranges and round-trip untouched unless explicitly overwritten.
type TrialParams struct {
	tf      *textFile
	order   []string
	entries map[string]*paramEntry
}

type paramEntry struct {
	lineIdx int
	values  []float64
}

// LoadTrialParams reads and parses a parameter table.
func LoadTrialParams(path string) (*TrialParams, error) {
	text, err := readFileText(path)
	if err != nil {
		return nil, err
	}
	return ParseTrialParams(path, text), nil
}

// ParseTrialParams parses parameter table text.
func ParseTrialParams(path, text string) *TrialParams {
	p := &TrialParams{
		tf:      newTextFile(path, text),
		entries: make(map[string]*paramEntry),
	}
	for i, line := range p.tf.lines {
		if isCommentOrBlank(line) {
			continue
		}
		payload, _ := splitComment(line)
		segments := strings.Split(payload, "|")
		if len(segments) < 2 {
			continue
		}
		name := strings.TrimSpace(segments[0])
		if name == "" {
			continue
		}
		if _, dup := p.entries[name]; dup {
			continue
		}
		entry := &paramEntry{lineIdx: i}
		for _, seg := range segments[1:] {
			v, err := parseFortranFloat(strings.TrimSpace(seg))
			if err != nil {
				v = 0
			}
			entry.values = append(entry.values, v)
		}
		p.entries[name] = entry
		p.order = append(p.order, name)
	}
	return p
}

// Path returns the source file path.
func (p *TrialParams) Path() string { return p.tf.path }

// Names returns the parameter names in file order.
func (p *TrialParams) Names() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Get returns the operative (first-column) value of a parameter.
func (p *TrialParams) Get(name string) (interface{}, error) {
	entry, ok := p.entries[name]
	if !ok {
		return nil, &UnknownOptionError{File: p.tf.path, Name: name}
	}
	if len(entry.values) == 0 {
		return 0.0, nil
	}
	return entry.values[0], nil
}

// Values returns every value column of a parameter row, operative value
// first, then the reserved calibration bounds.
func (p *TrialParams) Values(name string) ([]float64, error) {
	entry, ok := p.entries[name]
	if !ok {
		return nil, &UnknownOptionError{File: p.tf.path, Name: name}
	}
	out := make([]float64, len(entry.values))
	copy(out, entry.values)
	return out, nil
}

// Set replaces parameter values. A float64 replaces only the operative
// column; a []float64 of up to three values overwrites the given columns.
func (p *TrialParams) Set(name string, value interface{}) error {
	entry, ok := p.entries[name]
	if !ok {
		return &UnknownOptionError{File: p.tf.path, Name: name}
	}
	var cols []float64
	switch v := value.(type) {
	case float64:
		cols = []float64{v}
	case int:
		cols = []float64{float64(v)}
	case []float64:
		if len(v) == 0 || len(v) > 3 {
			return fmt.Errorf("parameter %q: expected 1 to 3 value columns, got %d", name, len(v))
		}
		cols = v
	default:
		return fmt.Errorf("parameter %q: value must be float64 or []float64, got %T", name, value)
	}
	for len(entry.values) < len(cols) {
		entry.values = append(entry.values, 0)
	}
	copy(entry.values, cols)
	p.tf.lines[entry.lineIdx] = spliceColumns(p.tf.lines[entry.lineIdx], cols)
	return nil
}

// Remove deletes a parameter row.
func (p *TrialParams) Remove(name string) error {
	entry, ok := p.entries[name]
	if !ok {
		return &UnknownOptionError{File: p.tf.path, Name: name}
	}
	p.tf.removeLine(entry.lineIdx)
	delete(p.entries, name)
	for i, n := range p.order {
		if n == name {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	for _, e := range p.entries {
		if e.lineIdx > entry.lineIdx {
			e.lineIdx--
		}
	}
	return nil
}

// Render serializes the parameter table.
func (p *TrialParams) Render() string { return p.tf.render() }

// Save writes the rendered table back to its source path.
func (p *TrialParams) Save() error { return writeFileText(p.tf.path, p.Render()) }

// SaveAs writes the rendered table to a new path and retargets the file there.
func (p *TrialParams) SaveAs(path string) error {
	if err := writeFileText(path, p.Render()); err != nil {
		return err
	}
	p.tf.path = path
	return nil
}

// spliceColumns rewrites the first len(cols) value columns of a row,
// preserving the name column, untouched trailing columns and any comment.
func spliceColumns(line string, cols []float64) string {
	payload, comment := splitComment(line)
	segments := strings.Split(payload, "|")
	for i, v := range cols {
		seg := i + 1
		if seg >= len(segments) {
			segments = append(segments, "")
		}
		formatted := formatParamValue(v)
		if w := len(segments[seg]); w > len(formatted)+1 {
			formatted = fmt.Sprintf("%*s ", w-1, formatted)
		} else {
			formatted = " " + formatted + " "
		}
		segments[seg] = formatted
	}
	return strings.Join(segments, "|") + comment
}

func formatParamValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseFortranFloat accepts both standard notation and the Fortran d-exponent
// form used throughout SUMMA's parameter files (e.g. 0.7500000000d+00).
func parseFortranFloat(s string) (float64, error) {
	s = strings.NewReplacer("d", "e", "D", "E").Replace(s)
	return strconv.ParseFloat(s, 64)
}
