package process_inspector

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitCommandLinePlainTokens(t *testing.T) {
	tokens := splitCommandLine("./eosio-launcher-service --http-server-address=0.0.0.0:1234 --http-threads=4\n")
	require.Equal(t, []string{
		"./eosio-launcher-service",
		"--http-server-address=0.0.0.0:1234",
		"--http-threads=4",
	}, tokens)
}

func TestSplitCommandLinePreservesQuotedSpaces(t *testing.T) {
	tokens := splitCommandLine(`'/opt/my build/eosio-launcher-service' --http-server-address=0.0.0.0:1234`)
	require.Equal(t, []string{
		"/opt/my build/eosio-launcher-service",
		"--http-server-address=0.0.0.0:1234",
	}, tokens)
}

func TestSplitCommandLineDoubleQuotesAndEscapes(t *testing.T) {
	tokens := splitCommandLine(`"/opt/eos tools/launcher" --http-server-address "0.0.0.0:9876" back\ slash`)
	require.Equal(t, []string{
		"/opt/eos tools/launcher",
		"--http-server-address",
		"0.0.0.0:9876",
		"back slash",
	}, tokens)
}

func TestSplitCommandLineEmpty(t *testing.T) {
	require.Empty(t, splitCommandLine("   \n"))
}

func TestExtractListeningPortFromQuotedCommandLine(t *testing.T) {
	commandLine := splitCommandLine(`'/opt/my build/eosio-launcher-service' --http-server-address=0.0.0.0:4321`)
	port, err := ExtractListeningPort(42, commandLine)
	require.NoError(t, err)
	require.Equal(t, uint16(4321), port)
}
