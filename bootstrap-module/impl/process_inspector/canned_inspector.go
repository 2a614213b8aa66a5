package process_inspector

import (
	"github.com/kurtosis-tech/stacktrace"
)

// CannedInspector serves fixture data so the lifecycle manager can be tested
// without real processes. Terminated PIDs are recorded and removed from the
// discovery set.
type CannedInspector struct {
	Pids         []int
	CommandLines map[int][]string
	CommandNames map[int]string

	TerminatedPids []int
}

func NewCannedInspector() *CannedInspector {
	return &CannedInspector{
		Pids:         []int{},
		CommandLines: map[int][]string{},
		CommandNames: map[int]string{},
	}
}

func (inspector *CannedInspector) AddProcess(pid int, commandName string, commandLine []string) {
	inspector.Pids = append(inspector.Pids, pid)
	inspector.CommandNames[pid] = commandName
	inspector.CommandLines[pid] = commandLine
}

func (inspector *CannedInspector) ListByName(programName string) ([]int, error) {
	result := []int{}
	result = append(result, inspector.Pids...)
	return result, nil
}

func (inspector *CannedInspector) GetCommandLine(pid int) ([]string, error) {
	commandLine, found := inspector.CommandLines[pid]
	if !found {
		return nil, stacktrace.NewError("No canned command line for process %v", pid)
	}
	return commandLine, nil
}

func (inspector *CannedInspector) GetCommandName(pid int) (string, error) {
	commandName, found := inspector.CommandNames[pid]
	if !found {
		return "", stacktrace.NewError("No canned command name for process %v", pid)
	}
	return commandName, nil
}

func (inspector *CannedInspector) Terminate(pid int) error {
	inspector.TerminatedPids = append(inspector.TerminatedPids, pid)
	remaining := []int{}
	for _, existing := range inspector.Pids {
		if existing != pid {
			remaining = append(remaining, existing)
		}
	}
	inspector.Pids = remaining
	return nil
}
