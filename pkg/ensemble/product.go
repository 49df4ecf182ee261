package ensemble

import (
	"fmt"
	"strings"
)

// KV is one configuration override: a decision or trial parameter name and
// the value a member applies for it.
type KV struct {
	Name  string
	Value interface{}
}

// OverrideSet is the ordered list of overrides defining one ensemble member.
// Order follows the sweep declaration order, so identifiers are stable.
type OverrideSet []KV

// Identifier renders the set as "name=value++name=value". It names the
// member's working directory and its run suffix.
func (s OverrideSet) Identifier() string {
	parts := make([]string, len(s))
	for i, kv := range s {
		parts[i] = fmt.Sprintf("%s=%v", kv.Name, kv.Value)
	}
	return strings.Join(parts, "++")
}

// Overrides returns the set as a map for applying to a simulation.
func (s OverrideSet) Overrides() map[string]interface{} {
	out := make(map[string]interface{}, len(s))
	for _, kv := range s {
		out[kv.Name] = kv.Value
	}
	return out
}

// Sweep is one swept option: a name and the values to try for it.
type Sweep struct {
	Name   string
	Values []interface{}
}

// Product expands sweeps into the Cartesian product of their values, one
// OverrideSet per combination. Sets are ordered with the last sweep varying
// fastest, and the overrides inside each set follow sweep order.
func Product(sweeps []Sweep) []OverrideSet {
	if len(sweeps) == 0 {
		return nil
	}
	sets := []OverrideSet{{}}
	for _, sw := range sweeps {
		next := make([]OverrideSet, 0, len(sets)*len(sw.Values))
		for _, base := range sets {
			for _, v := range sw.Values {
				set := make(OverrideSet, len(base), len(base)+1)
				copy(set, base)
				next = append(next, append(set, KV{Name: sw.Name, Value: v}))
			}
		}
		sets = next
	}
	return sets
}
