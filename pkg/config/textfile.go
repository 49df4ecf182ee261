package config

import (
	"os"
	"strings"
)

// textFile is the shared line model for SUMMA's plain-text configuration
// files. Every line keeps its original text; only mutated option lines are
// re-rendered, so comments, blank lines and column alignment survive a
// parse/render cycle untouched.
type textFile struct {
	path            string
	lines           []string
	trailingNewline bool
}

func newTextFile(path, text string) *textFile {
	tf := &textFile{path: path}
	tf.trailingNewline = strings.HasSuffix(text, "\n")
	tf.lines = strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	return tf
}

func (tf *textFile) render() string {
	out := strings.Join(tf.lines, "\n")
	if tf.trailingNewline {
		out += "\n"
	}
	return out
}

func (tf *textFile) removeLine(idx int) {
	tf.lines = append(tf.lines[:idx], tf.lines[idx+1:]...)
}

// isCommentOrBlank reports whether a line carries no option. SUMMA comments
// start with '!'.
func isCommentOrBlank(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "!")
}

// splitComment separates the payload of a line from its trailing '!' comment
// (including the '!').
func splitComment(line string) (payload, comment string) {
	if idx := strings.Index(line, "!"); idx >= 0 {
		return line[:idx], line[idx:]
	}
	return line, ""
}

func readFileText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ConfigNotFoundError{Path: path, Err: err}
	}
	return string(data), nil
}

func writeFileText(path, text string) error {
	return os.WriteFile(path, []byte(text), 0644)
}
