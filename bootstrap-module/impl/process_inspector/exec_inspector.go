package process_inspector

import (
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"

	"github.com/kurtosis-tech/stacktrace"
)

const (
	pgrepCommand = "pgrep"
	psCommand    = "ps"

	pidIntBase = 10
	pidIntBits = 32

	// pgrep exits 1 when nothing matched, which isn't an error for us
	pgrepNoMatchExitCode = 1
)

// ExecInspector queries the process table by shelling out to pgrep and ps.
type ExecInspector struct{}

func NewExecInspector() *ExecInspector {
	return &ExecInspector{}
}

func (inspector *ExecInspector) ListByName(programName string) ([]int, error) {
	output, err := exec.Command(pgrepCommand, "-f", programName).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == pgrepNoMatchExitCode {
			return []int{}, nil
		}
		return nil, stacktrace.Propagate(err, "An error occurred running '%v -f %v'", pgrepCommand, programName)
	}

	pids := []int{}
	for _, line := range strings.Fields(string(output)) {
		pid, err := strconv.ParseInt(line, pidIntBase, pidIntBits)
		if err != nil {
			return nil, stacktrace.Propagate(err, "An error occurred parsing PID '%v' from %v output", line, pgrepCommand)
		}
		pids = append(pids, int(pid))
	}
	return pids, nil
}

func (inspector *ExecInspector) GetCommandLine(pid int) ([]string, error) {
	output, err := exec.Command(psCommand, "-p", strconv.Itoa(pid), "-o", "command=").Output()
	if err != nil {
		return nil, stacktrace.Propagate(err, "An error occurred reading the command line of process %v", pid)
	}
	return splitCommandLine(string(output)), nil
}

// splitCommandLine tokenizes a ps command line the way a shell would read it,
// honoring single quotes, double quotes, and backslash escapes, so an
// executable path or bind argument containing spaces isn't mis-tokenized.
func splitCommandLine(commandLine string) []string {
	tokens := []string{}
	current := strings.Builder{}
	inToken := false
	escaped := false
	var quote byte

	for i := 0; i < len(commandLine); i++ {
		char := commandLine[i]
		switch {
		case escaped:
			current.WriteByte(char)
			escaped = false
		case quote == '\'':
			if char == '\'' {
				quote = 0
			} else {
				current.WriteByte(char)
			}
		case char == '\\':
			escaped = true
			inToken = true
		case quote == '"':
			if char == '"' {
				quote = 0
			} else {
				current.WriteByte(char)
			}
		case char == '\'' || char == '"':
			quote = char
			inToken = true
		case char == ' ' || char == '\t' || char == '\n' || char == '\r':
			if inToken {
				tokens = append(tokens, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteByte(char)
			inToken = true
		}
	}
	if inToken {
		tokens = append(tokens, current.String())
	}
	return tokens
}

func (inspector *ExecInspector) GetCommandName(pid int) (string, error) {
	output, err := exec.Command(psCommand, "-p", strconv.Itoa(pid), "-o", "comm=").Output()
	if err != nil {
		return "", stacktrace.Propagate(err, "An error occurred reading the command name of process %v", pid)
	}
	return strings.TrimSpace(string(output)), nil
}

func (inspector *ExecInspector) Terminate(pid int) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return stacktrace.Propagate(err, "An error occurred finding process %v", pid)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return stacktrace.Propagate(err, "An error occurred sending SIGTERM to process %v", pid)
	}
	return nil
}
