package config

import (
	"strings"
	"unicode"
)

// Decisions is the SUMMA model-decisions file: one `keyword value` pair per
// line, each keyword selecting a physical parameterization scheme from a
// small closed set of choices. Unknown values are rejected when set, not at
// run time.
type Decisions struct {
	tf      *textFile
	order   []string
	entries map[string]*decisionEntry
}

type decisionEntry struct {
	lineIdx int
	value   string
}

// LoadDecisions reads and parses a decisions file.
func LoadDecisions(path string) (*Decisions, error) {
	text, err := readFileText(path)
	if err != nil {
		return nil, err
	}
	return ParseDecisions(path, text), nil
}

// ParseDecisions parses decisions file text. The path is retained for
// error messages and Save.
func ParseDecisions(path, text string) *Decisions {
	d := &Decisions{
		tf:      newTextFile(path, text),
		entries: make(map[string]*decisionEntry),
	}
	for i, line := range d.tf.lines {
		if isCommentOrBlank(line) {
			continue
		}
		payload, _ := splitComment(line)
		fields := strings.Fields(payload)
		if len(fields) < 2 {
			continue
		}
		name := fields[0]
		if _, dup := d.entries[name]; dup {
			continue
		}
		d.entries[name] = &decisionEntry{lineIdx: i, value: fields[1]}
		d.order = append(d.order, name)
	}
	return d
}

// Path returns the source file path.
func (d *Decisions) Path() string { return d.tf.path }

// Names returns the decision keywords in file order.
func (d *Decisions) Names() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Get returns the current value of a decision.
func (d *Decisions) Get(name string) (interface{}, error) {
	entry, ok := d.entries[name]
	if !ok {
		return nil, &UnknownOptionError{File: d.tf.path, Name: name}
	}
	return entry.value, nil
}

// Choices returns the closed set of valid values for a decision keyword, or
// nil when the keyword is not constrained.
func (d *Decisions) Choices(name string) []string {
	return decisionChoices[name]
}

// Set replaces the value of a decision in place. The value must be a string
// and, for constrained keywords, a member of the keyword's choice set.
func (d *Decisions) Set(name string, value interface{}) error {
	entry, ok := d.entries[name]
	if !ok {
		return &UnknownOptionError{File: d.tf.path, Name: name}
	}
	str, ok := value.(string)
	if !ok {
		return &InvalidValueError{Name: name, Value: value, Choices: decisionChoices[name]}
	}
	if choices := decisionChoices[name]; len(choices) > 0 && !containsString(choices, str) {
		return &InvalidValueError{Name: name, Value: str, Choices: choices}
	}
	d.tf.lines[entry.lineIdx] = spliceValue(d.tf.lines[entry.lineIdx], str)
	entry.value = str
	return nil
}

// Remove deletes a decision line.
func (d *Decisions) Remove(name string) error {
	entry, ok := d.entries[name]
	if !ok {
		return &UnknownOptionError{File: d.tf.path, Name: name}
	}
	d.tf.removeLine(entry.lineIdx)
	delete(d.entries, name)
	for i, n := range d.order {
		if n == name {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	for _, e := range d.entries {
		if e.lineIdx > entry.lineIdx {
			e.lineIdx--
		}
	}
	return nil
}

// Render serializes the decisions file.
func (d *Decisions) Render() string { return d.tf.render() }

// Save writes the rendered file back to its source path.
func (d *Decisions) Save() error { return writeFileText(d.tf.path, d.Render()) }

// SaveAs writes the rendered file to a new path and retargets the file there.
func (d *Decisions) SaveAs(path string) error {
	if err := writeFileText(path, d.Render()); err != nil {
		return err
	}
	d.tf.path = path
	return nil
}

// spliceValue replaces the second whitespace token of a line, keeping the
// keyword column, any trailing spacing and the '!' comment intact.
func spliceValue(line, newValue string) string {
	payload, comment := splitComment(line)
	runes := []rune(payload)
	i := 0
	skipSpace := func() {
		for i < len(runes) && unicode.IsSpace(runes[i]) {
			i++
		}
	}
	skipToken := func() {
		for i < len(runes) && !unicode.IsSpace(runes[i]) {
			i++
		}
	}
	skipSpace()
	skipToken() // keyword
	skipSpace()
	start := i
	skipToken()
	end := i
	return string(runes[:start]) + newValue + string(runes[end:]) + comment
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
