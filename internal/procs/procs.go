// Package procs enumerates the executables owning visible windows, for
// building process filter lists.
package procs

import (
	"sort"
	"strings"

	"github.com/WKDev/Glide/internal/platform"
)

// WindowLister is the slice of the platform backend Names consumes.
type WindowLister interface {
	ListWindows() ([]platform.Window, error)
}

// Names returns the distinct executable names owning visible top-level
// windows, sorted case-insensitively. Windows without a resolvable
// process are skipped.
func Names(backend WindowLister) ([]string, error) {
	windows, err := backend.ListWindows()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	names := make([]string, 0, len(windows))
	for _, w := range windows {
		if w.Process == "" {
			continue
		}
		key := strings.ToLower(w.Process)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, w.Process)
	}

	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names, nil
}
