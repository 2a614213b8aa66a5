package module_io

import (
	"github.com/kurtosis-tech/stacktrace"
)

const (
	DefaultAddress    = "127.0.0.1"
	DefaultPort       = uint16(1234)
	DefaultDir        = "../build"
	DefaultFile       = "./programs/eosio-launcher-service/eosio-launcher-service"
	DefaultStart      = false
	DefaultKill       = false
	DefaultVerbosity  = 1
	DefaultMonochrome = false
)

// The loopback names the launcher service is considered local under
var loopbackAddresses = map[string]bool{
	"127.0.0.1": true,
	"localhost": true,
}

// Connection and lifecycle settings for the launcher service. Immutable after
// construction; the lifecycle manager returns a fresh copy when the running
// service's reality differs from what was requested.
type ServiceParams struct {
	// Address the launcher service listens on
	Address string `json:"address"`

	// Listening port of the launcher service
	Port uint16 `json:"port"`

	// Working directory to run from
	Dir string `json:"dir"`

	// Path to the local launcher service executable
	File string `json:"file"`

	// Always start a new launcher service
	Start bool `json:"start"`

	// Kill existing launcher services first
	Kill bool `json:"kill"`

	// Verbosity level (0 = silent)
	Verbosity int `json:"verbosity"`

	// Print in black and white instead of colors
	Monochrome bool `json:"monochrome"`

	// True iff the address is not loopback; derived, never set directly
	Remote bool `json:"remote"`
}

// The caller-value and CLI-value layers of the override chain; nil means the
// layer doesn't set the field.
type OptionalServiceParams struct {
	Address    *string
	Port       *uint16
	Dir        *string
	File       *string
	Start      *bool
	Kill       *bool
	Verbosity  *int
	Monochrome *bool
}

// NewServiceParams resolves every service setting through the override chain
// and derives the remote flag. A remote launcher service cannot be locally
// started, reused by PID, or killed, so File/Start/Kill are forced to
// empty/false when the address isn't loopback.
func NewServiceParams(callerValues *OptionalServiceParams, cliValues *OptionalServiceParams) (*ServiceParams, error) {
	if callerValues == nil {
		callerValues = &OptionalServiceParams{}
	}
	if cliValues == nil {
		cliValues = &OptionalServiceParams{}
	}

	params := &ServiceParams{
		Address:    Resolve(DefaultAddress, callerValues.Address, cliValues.Address),
		Port:       Resolve(DefaultPort, callerValues.Port, cliValues.Port),
		Dir:        Resolve(DefaultDir, callerValues.Dir, cliValues.Dir),
		File:       Resolve(DefaultFile, callerValues.File, cliValues.File),
		Start:      Resolve(DefaultStart, callerValues.Start, cliValues.Start),
		Kill:       Resolve(DefaultKill, callerValues.Kill, cliValues.Kill),
		Verbosity:  Resolve(DefaultVerbosity, callerValues.Verbosity, cliValues.Verbosity),
		Monochrome: Resolve(DefaultMonochrome, callerValues.Monochrome, cliValues.Monochrome),
	}

	if params.Port == 0 {
		return nil, stacktrace.NewError("The launcher service port must be in range 1-65535")
	}
	if params.Verbosity < 0 {
		return nil, stacktrace.NewError("The verbosity level '%v' must not be negative", params.Verbosity)
	}

	params.Remote = !loopbackAddresses[params.Address]
	if params.Remote {
		params.File = ""
		params.Start = false
		params.Kill = false
	}

	return params, nil
}
