//go:build !linux && !windows

package platform

import "fmt"

// NewBackend has no implementation on this platform.
func NewBackend() (Backend, error) {
	return nil, fmt.Errorf("no window-system backend for this platform")
}
