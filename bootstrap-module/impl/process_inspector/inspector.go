package process_inspector

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// The argument the launcher service binds its HTTP server with
	httpServerAddressFlag = "--http-server-address"

	portUintBase = 10
	portUintBits = 16
)

// Inspector is the capability the lifecycle manager needs from the local
// process table: discovery by program name, command-line introspection, and
// termination.
type Inspector interface {
	// ListByName returns the PIDs of every process whose command matches the
	// given program name; zero, one, or many results are all valid.
	ListByName(programName string) ([]int, error)

	// GetCommandLine returns the full invocation arguments of the process.
	GetCommandLine(pid int) ([]string, error)

	// GetCommandName returns the command name the process was started as.
	GetCommandName(pid int) (string, error)

	// Terminate sends the process a termination signal.
	Terminate(pid int) error
}

// A running process's command line lacks an argument we expected to read
// configuration from. Retrying won't change a fixed process state, so this is
// fatal to the attach path.
type ConfigExtractionError struct {
	Pid        int
	MissingArg string
}

func (err *ConfigExtractionError) Error() string {
	return fmt.Sprintf("process %v has no '%v' argument on its command line", err.Pid, err.MissingArg)
}

// ExtractListeningPort finds the HTTP server bind specification of the form
// 'host:port' among the process's invocation arguments and returns the port.
// Both '--http-server-address=host:port' and the two-token form are accepted.
func ExtractListeningPort(pid int, commandLine []string) (uint16, error) {
	for i, arg := range commandLine {
		var bindSpec string
		if strings.HasPrefix(arg, httpServerAddressFlag+"=") {
			bindSpec = strings.TrimPrefix(arg, httpServerAddressFlag+"=")
		} else if arg == httpServerAddressFlag && i+1 < len(commandLine) {
			bindSpec = commandLine[i+1]
		} else {
			continue
		}

		colonIdx := strings.LastIndex(bindSpec, ":")
		if colonIdx < 0 {
			continue
		}
		port, err := strconv.ParseUint(bindSpec[colonIdx+1:], portUintBase, portUintBits)
		if err != nil {
			continue
		}
		return uint16(port), nil
	}
	return 0, &ConfigExtractionError{Pid: pid, MissingArg: httpServerAddressFlag}
}
