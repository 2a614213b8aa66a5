package module_io

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testDefault     = "default"
	testCallerValue = "caller"
	testCliValue    = "cli"
)

// All 8 set/unset combinations of (caller value, CLI value) against the
// priority order: CLI beats caller beats default.
func TestResolvePriorityOrder(t *testing.T) {
	caller := testCallerValue
	cli := testCliValue

	require.Equal(t, testDefault, Resolve(testDefault, nil, nil))
	require.Equal(t, testCallerValue, Resolve(testDefault, &caller, nil))
	require.Equal(t, testCliValue, Resolve(testDefault, nil, &cli))
	require.Equal(t, testCliValue, Resolve(testDefault, &caller, &cli))
}

func TestResolveZeroValuesCountAsSet(t *testing.T) {
	zero := 0
	seven := 7

	// An explicitly-set zero must win over a nonzero default
	require.Equal(t, 0, Resolve(5, nil, &zero))
	require.Equal(t, 0, Resolve(5, &zero, nil))
	require.Equal(t, 7, Resolve(5, &zero, &seven))
	require.Equal(t, 5, Resolve(5, nil, nil))
}

func TestResolveBools(t *testing.T) {
	enabled := true
	disabled := false

	require.False(t, Resolve(false, nil, nil))
	require.True(t, Resolve(false, &enabled, nil))
	require.False(t, Resolve(true, nil, &disabled))
	require.False(t, Resolve(false, &enabled, &disabled))
}
