package platform

import (
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

// processName resolves a PID to its executable name, "" when the
// process cannot be inspected.
func processName(pid int) string {
	if pid <= 0 {
		return ""
	}
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return ""
	}
	name, err := proc.Name()
	if err != nil {
		return ""
	}
	return name
}

// IsOwnProcess reports whether the PID belongs to this daemon. The
// engine never grabs its own windows.
func IsOwnProcess(pid int) bool {
	return pid != 0 && pid == os.Getpid()
}
