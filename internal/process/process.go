package process

import (
	"strings"

	"github.com/mitchellh/go-ps"
)

// ProcessInfo is a small struct representing a running process.
// It is intentionally minimal to keep cross-platform compatibility.
type ProcessInfo struct {
	PID  int
	Name string
}

// GetProcesses returns a list of running processes in a platform-agnostic format.
// It wraps github.com/mitchellh/go-ps internally and normalizes the result.
func GetProcesses() ([]ProcessInfo, error) {
	procs, err := ps.Processes()
	if err != nil {
		return nil, err
	}
	out := make([]ProcessInfo, 0, len(procs))
	for _, p := range procs {
		out = append(out, ProcessInfo{PID: p.Pid(), Name: p.Executable()})
	}
	return out, nil
}

// CountByName returns how many running processes carry the given executable
// name. Matching ignores case and a trailing ".exe" so the same binary name
// matches on every platform.
func CountByName(name string) (int, error) {
	procs, err := GetProcesses()
	if err != nil {
		return 0, err
	}
	want := normalizeExecName(name)
	count := 0
	for _, p := range procs {
		if normalizeExecName(p.Name) == want {
			count++
		}
	}
	return count, nil
}

func normalizeExecName(name string) string {
	return strings.TrimSuffix(strings.ToLower(name), ".exe")
}
