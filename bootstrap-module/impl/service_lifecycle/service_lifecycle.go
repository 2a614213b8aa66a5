package service_lifecycle

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/eosio-testing/cluster-bootstrap-module/bootstrap-module/impl/module_io"
	"github.com/eosio-testing/cluster-bootstrap-module/bootstrap-module/impl/process_inspector"
	"github.com/kurtosis-tech/stacktrace"
	"github.com/sirupsen/logrus"
)

const (
	// The launcher service is identified in the process table by this fixed
	// program name
	ProgramName = "eosio-launcher-service"

	// A freshly started service listens on all interfaces
	httpServerBindHost = "0.0.0.0"
	httpThreadsArg     = "--http-threads=4"
)

// Attaching to a launcher service on a non-loopback address is not yet
// implemented.
var ErrRemoteAttachNotSupported = errors.New("connecting to a remote launcher service is not supported")

// A spawned launcher service could not be confirmed running afterward.
type StartupError struct {
	ExecutablePath string
}

func (err *StartupError) Error() string {
	return fmt.Sprintf("launcher service '%v' was spawned but could not be confirmed running", err.ExecutablePath)
}

// SpawnFunc launches the launcher service executable with the given arguments.
type SpawnFunc func(executablePath string, args ...string) error

// DefaultSpawn starts the process detached in its own process group so it
// survives this client exiting.
func DefaultSpawn(executablePath string, args ...string) error {
	command := exec.Command(executablePath, args...)
	command.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
	if err := command.Start(); err != nil {
		return stacktrace.Propagate(err, "An error occurred starting '%v'", executablePath)
	}
	return nil
}

// Manager decides whether to attach to an existing local launcher service,
// start a new one, or kill existing ones, based on the configured flags and
// the discovered process state.
type Manager struct {
	inspector process_inspector.Inspector
	spawn     SpawnFunc
}

func NewManager(inspector process_inspector.Inspector, spawn SpawnFunc) *Manager {
	return &Manager{
		inspector: inspector,
		spawn:     spawn,
	}
}

// Ensure makes a launcher service reachable under the given params and
// returns the params that actually describe it. When attaching to a running
// instance whose port or executable path differ from the requested values,
// the running process's reality wins: a warning is logged and the returned
// copy carries the discovered values.
func (manager *Manager) Ensure(params *module_io.ServiceParams) (*module_io.ServiceParams, error) {
	if params.Remote {
		// No behavior is guessed for the remote path; it fails explicitly
		return nil, ErrRemoteAttachNotSupported
	}

	if err := os.Chdir(params.Dir); err != nil {
		return nil, stacktrace.Propagate(err, "An error occurred changing into working directory '%v'", params.Dir)
	}
	if cwd, err := os.Getwd(); err == nil {
		logrus.Infof("Current working directory: %v", cwd)
	}

	pids, err := manager.inspector.ListByName(ProgramName)
	if err != nil {
		return nil, stacktrace.Propagate(err, "An error occurred discovering running '%v' processes", ProgramName)
	}
	logDiscovery(pids)

	if params.Kill {
		for _, pid := range pids {
			logrus.Warnf("Killing existing launcher service with process ID %v", pid)
			if err := manager.inspector.Terminate(pid); err != nil {
				return nil, stacktrace.Propagate(err, "An error occurred terminating launcher service process %v", pid)
			}
		}
		pids = []int{}
	}

	if len(pids) > 0 && !params.Start {
		return manager.attach(params, pids[0])
	}
	return manager.start(params)
}

func (manager *Manager) attach(params *module_io.ServiceParams, pid int) (*module_io.ServiceParams, error) {
	commandLine, err := manager.inspector.GetCommandLine(pid)
	if err != nil {
		return nil, stacktrace.Propagate(err, "An error occurred reading the command line of launcher service process %v", pid)
	}
	currentPort, err := process_inspector.ExtractListeningPort(pid, commandLine)
	if err != nil {
		// A fixed process state won't change on re-inspection; no retry
		return nil, err
	}
	currentFile, err := manager.inspector.GetCommandName(pid)
	if err != nil {
		return nil, stacktrace.Propagate(err, "An error occurred reading the command name of launcher service process %v", pid)
	}

	logrus.Infof("Connecting to existing launcher service with process ID %v; no new launcher service will be started", pid)

	resolved := *params
	if params.Port != currentPort {
		logrus.Warnf("Port setting (port = %v) ignored; the running launcher service listens on %v", params.Port, currentPort)
		resolved.Port = currentPort
	}
	if params.File != currentFile {
		logrus.Warnf("File setting (file = %v) ignored; the running launcher service is '%v'", params.File, currentFile)
		resolved.File = currentFile
	}
	return &resolved, nil
}

func (manager *Manager) start(params *module_io.ServiceParams) (*module_io.ServiceParams, error) {
	logrus.Infof("Starting a new launcher service from '%v' on port %v", params.File, params.Port)
	bindArg := fmt.Sprintf("--http-server-address=%v:%v", httpServerBindHost, params.Port)
	if err := manager.spawn(params.File, bindArg, httpThreadsArg); err != nil {
		return nil, stacktrace.Propagate(err, "An error occurred spawning the launcher service")
	}

	// No readiness signal exists; the process table is re-queried immediately
	// after the spawn, so a slow-starting service can still race this check
	pids, err := manager.inspector.ListByName(ProgramName)
	if err != nil {
		return nil, stacktrace.Propagate(err, "An error occurred verifying the launcher service started")
	}
	if len(pids) == 0 {
		return nil, &StartupError{ExecutablePath: params.File}
	}

	resolved := *params
	return &resolved, nil
}

func logDiscovery(pids []int) {
	switch len(pids) {
	case 0:
		logrus.Infof("No launcher service is running currently")
	case 1:
		logrus.Infof("Launcher service is running with process ID %v", pids[0])
	default:
		logrus.Infof("Multiple launcher services are running with process IDs %v", pids)
	}
}
