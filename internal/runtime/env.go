// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"strings"

	"golang.org/x/exp/slices"

	"github.com/studiotools/stlaunch/pkg/platform"
)

const (
	// EnvSet replaces any existing value.
	EnvSet EnvMode = iota
	// EnvAppend adds the value after the existing one, joined by the path-list separator.
	EnvAppend
	// EnvPrepend adds the value before the existing one, joined by the path-list separator.
	EnvPrepend
)

type (
	// EnvMode selects how an EnvEntry combines with an existing value.
	EnvMode int

	// EnvEntry is a single environment modification.
	EnvEntry struct {
		Name  string
		Value string
		Mode  EnvMode
	}

	// Overlay is an ordered list of environment modifications for one child process.
	// Entries are applied in insertion order, so a later Set wins over an earlier
	// Append of the same variable.
	Overlay struct {
		entries []EnvEntry
	}

	// envTable is an ordered view of an environment slice with OS-aware key matching.
	envTable struct {
		goos   string
		order  []string
		values map[string]string
		names  map[string]string
	}
)

// String returns the lowercase name of the mode.
func (m EnvMode) String() string {
	switch m {
	case EnvSet:
		return "set"
	case EnvAppend:
		return "append"
	case EnvPrepend:
		return "prepend"
	default:
		return "unknown"
	}
}

// AppendEnvVar returns the value name should have after appending value to it.
// When the variable is unset or empty the result is exactly value. Otherwise it
// is existing + separator + value, where separator is ";" on Windows and ":"
// elsewhere.
func AppendEnvVar(lookup func(string) (string, bool), name, value, goos string) string {
	existing, ok := lookup(name)
	if !ok || existing == "" {
		return value
	}
	return existing + platform.PathListSeparator(goos) + value
}

// PrependEnvVar is the mirror of AppendEnvVar: value comes first.
func PrependEnvVar(lookup func(string) (string, bool), name, value, goos string) string {
	existing, ok := lookup(name)
	if !ok || existing == "" {
		return value
	}
	return value + platform.PathListSeparator(goos) + existing
}

// Set records a replacement of name.
func (o *Overlay) Set(name, value string) *Overlay {
	return o.add(EnvEntry{Name: name, Value: value, Mode: EnvSet})
}

// Append records an append to name.
func (o *Overlay) Append(name, value string) *Overlay {
	return o.add(EnvEntry{Name: name, Value: value, Mode: EnvAppend})
}

// Prepend records a prepend to name.
func (o *Overlay) Prepend(name, value string) *Overlay {
	return o.add(EnvEntry{Name: name, Value: value, Mode: EnvPrepend})
}

// SetAll records a Set for each key of vars in sorted key order.
func (o *Overlay) SetAll(vars map[string]string) *Overlay {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		o.Set(k, vars[k])
	}
	return o
}

// Merge appends other's entries after o's.
func (o *Overlay) Merge(other Overlay) *Overlay {
	o.entries = append(o.entries, other.entries...)
	return o
}

// Entries returns a copy of the recorded entries.
func (o Overlay) Entries() []EnvEntry {
	return slices.Clone(o.entries)
}

// Len returns the number of recorded entries.
func (o Overlay) Len() int { return len(o.entries) }

// IsEmpty reports whether the overlay has no entries.
func (o Overlay) IsEmpty() bool { return len(o.entries) == 0 }

// Clone returns an independent copy of the overlay.
func (o Overlay) Clone() Overlay {
	return Overlay{entries: slices.Clone(o.entries)}
}

// Apply returns a new environment slice: environ with the overlay applied.
// environ itself is not modified. Variables untouched by the overlay keep their
// original position; new variables are appended in the order they were first set.
func (o Overlay) Apply(environ []string, goos string) []string {
	table := newEnvTable(environ, goos)
	for _, e := range o.entries {
		table.apply(e)
	}
	return table.environ()
}

// Resolve returns the final values of only the variables the overlay touches,
// computed against environ. Keys use the overlay's spelling.
func (o Overlay) Resolve(environ []string, goos string) map[string]string {
	table := newEnvTable(environ, goos)
	touched := make(map[string]string, len(o.entries))
	for _, e := range o.entries {
		table.apply(e)
		touched[table.key(e.Name)] = e.Name
	}
	out := make(map[string]string, len(touched))
	for key, name := range touched {
		out[name] = table.values[key]
	}
	return out
}

func (o *Overlay) add(e EnvEntry) *Overlay {
	o.entries = append(o.entries, e)
	return o
}

func newEnvTable(environ []string, goos string) *envTable {
	t := &envTable{
		goos:   goos,
		order:  make([]string, 0, len(environ)),
		values: make(map[string]string, len(environ)),
		names:  make(map[string]string, len(environ)),
	}
	for _, entry := range environ {
		idx := findEnvSeparator(entry)
		if idx == -1 {
			continue
		}
		t.set(entry[:idx], entry[idx+1:])
	}
	return t
}

// key normalizes a variable name for lookup. Windows names are case-insensitive.
func (t *envTable) key(name string) string {
	if platform.IsWindows(t.goos) {
		return strings.ToUpper(name)
	}
	return name
}

func (t *envTable) lookup(name string) (string, bool) {
	v, ok := t.values[t.key(name)]
	return v, ok
}

func (t *envTable) set(name, value string) {
	k := t.key(name)
	if _, exists := t.values[k]; !exists {
		t.order = append(t.order, k)
		t.names[k] = name
	}
	t.values[k] = value
}

func (t *envTable) apply(e EnvEntry) {
	switch e.Mode {
	case EnvAppend:
		t.set(e.Name, AppendEnvVar(t.lookup, e.Name, e.Value, t.goos))
	case EnvPrepend:
		t.set(e.Name, PrependEnvVar(t.lookup, e.Name, e.Value, t.goos))
	default:
		t.set(e.Name, e.Value)
	}
}

func (t *envTable) environ() []string {
	out := make([]string, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.names[k]+"="+t.values[k])
	}
	return out
}

// findEnvSeparator returns the index of the '=' separating name from value.
// Windows keeps per-drive working directories in entries such as "=C:=C:\dir",
// so a leading '=' is part of the name.
func findEnvSeparator(entry string) int {
	if entry == "" {
		return -1
	}
	idx := strings.IndexByte(entry[1:], '=')
	if idx == -1 {
		return -1
	}
	return idx + 1
}

// EnvironMap converts an environment slice to a map. Later duplicates win.
func EnvironMap(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, entry := range environ {
		idx := findEnvSeparator(entry)
		if idx == -1 {
			continue
		}
		out[entry[:idx]] = entry[idx+1:]
	}
	return out
}
