package layout

import (
	"fmt"
	"sort"
	"strings"
)

// UnknownSubprojectError reports a changed path whose first component is not
// present in the subproject configuration. This is fatal for the affected
// changeset; there is no partial-subproject fallback.
type UnknownSubprojectError struct {
	Name string
}

func (e *UnknownSubprojectError) Error() string {
	return fmt.Sprintf("unknown subproject %q: not present in configuration", e.Name)
}

// Layout maps subproject names to their relative paths inside the target
// working tree. It is built once from configuration and read-only afterwards.
type Layout struct {
	targets map[string]string
}

// New creates a Layout from the subproject-name to target-subdirectory table.
func New(subprojects map[string]string) *Layout {
	targets := make(map[string]string, len(subprojects))
	for name, rel := range subprojects {
		targets[name] = rel
	}
	return &Layout{targets: targets}
}

// SubprojectOf returns the subproject a changed file path belongs to: its
// first path component.
func SubprojectOf(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}

// Partition groups changed file paths by subproject. The union of the
// resulting groups is exactly the input, with no duplicates and no omissions.
func Partition(paths []string) map[string][]string {
	groups := make(map[string][]string)
	for _, p := range paths {
		name := SubprojectOf(p)
		groups[name] = append(groups[name], p)
	}
	return groups
}

// TargetPath returns the target working-tree subdirectory for a subproject.
func (l *Layout) TargetPath(name string) (string, error) {
	rel, ok := l.targets[name]
	if !ok {
		return "", &UnknownSubprojectError{Name: name}
	}
	return rel, nil
}

// Names returns the configured subproject names in sorted order.
func (l *Layout) Names() []string {
	names := make([]string, 0, len(l.targets))
	for name := range l.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
