//go:build !linux && !windows

package hook

import (
	"fmt"

	"github.com/WKDev/Glide/internal/platform"
)

// NewSource has no implementation on this platform.
func NewSource(_ platform.Backend) (Source, error) {
	return nil, fmt.Errorf("no input hook for this platform")
}
