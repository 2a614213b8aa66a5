package process_inspector

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractListeningPortEqualsForm(t *testing.T) {
	commandLine := []string{
		"./programs/eosio-launcher-service/eosio-launcher-service",
		"--http-server-address=0.0.0.0:1234",
		"--http-threads=4",
	}
	port, err := ExtractListeningPort(42, commandLine)
	require.NoError(t, err)
	require.Equal(t, uint16(1234), port)
}

func TestExtractListeningPortTwoTokenForm(t *testing.T) {
	commandLine := []string{
		"eosio-launcher-service",
		"--http-server-address",
		"127.0.0.1:8080",
	}
	port, err := ExtractListeningPort(42, commandLine)
	require.NoError(t, err)
	require.Equal(t, uint16(8080), port)
}

func TestExtractListeningPortMissingArg(t *testing.T) {
	commandLine := []string{"eosio-launcher-service", "--http-threads=4"}
	_, err := ExtractListeningPort(42, commandLine)
	require.Error(t, err)

	extractionErr, ok := err.(*ConfigExtractionError)
	require.True(t, ok)
	require.Equal(t, 42, extractionErr.Pid)
}

func TestExtractListeningPortMalformedBindSpec(t *testing.T) {
	commandLine := []string{"eosio-launcher-service", "--http-server-address=no-port-here"}
	_, err := ExtractListeningPort(42, commandLine)
	require.Error(t, err)
}

func TestCannedInspectorTerminateRemovesFromDiscovery(t *testing.T) {
	inspector := NewCannedInspector()
	inspector.AddProcess(100, "eosio-launcher-service", []string{"eosio-launcher-service"})
	inspector.AddProcess(200, "eosio-launcher-service", []string{"eosio-launcher-service"})

	require.NoError(t, inspector.Terminate(100))

	pids, err := inspector.ListByName("eosio-launcher-service")
	require.NoError(t, err)
	require.Equal(t, []int{200}, pids)
	require.Equal(t, []int{100}, inspector.TerminatedPids)
}
