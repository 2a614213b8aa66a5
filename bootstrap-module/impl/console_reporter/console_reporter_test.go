package console_reporter

import (
	"bytes"
	"testing"

	"github.com/eosio-testing/cluster-bootstrap-module/bootstrap-module/impl/launcher_rest_client"
	"github.com/stretchr/testify/require"
)

func TestVerbosityFromLevel(t *testing.T) {
	require.Equal(t, VerbositySilent, VerbosityFromLevel(0))
	require.Equal(t, VerbosityShort, VerbosityFromLevel(1))
	require.Equal(t, VerbosityPrompted, VerbosityFromLevel(2))
	require.Equal(t, VerbosityFull, VerbosityFromLevel(3))
	require.Equal(t, VerbosityFull, VerbosityFromLevel(9))
}

func TestSilentReporterEmitsNothing(t *testing.T) {
	out := &bytes.Buffer{}
	reporter := newConsoleReporter(0, true, out)

	attempt := &launcher_rest_client.Attempt{
		URL:          "http://127.0.0.1:1234/v1/launcher/get_cluster_info",
		RequestBody:  []byte(`{"cluster_id":0}`),
		StatusCode:   200,
		ResponseBody: []byte(`{}`),
	}
	reporter.Header("get_cluster_info")
	reporter.Request(attempt)
	reporter.RetryFailure(attempt)
	reporter.Response(attempt)
	reporter.Section("cluster configuration")
	reporter.SystemInfo()
	reporter.ConfigEntry("-p: port", "Listening port", 1234, 1234)

	require.Empty(t, out.String())
}

func TestShortReporterPrintsStatusOnly(t *testing.T) {
	out := &bytes.Buffer{}
	reporter := newConsoleReporter(1, true, out)

	reporter.Response(&launcher_rest_client.Attempt{
		StatusCode:    200,
		ResponseBody:  []byte(`{"transaction_id":"abc"}`),
		TransactionID: "abc",
	})

	require.Equal(t, "<Response [200]>\n", out.String())
}

func TestFullReporterPrintsBody(t *testing.T) {
	out := &bytes.Buffer{}
	reporter := newConsoleReporter(3, true, out)

	reporter.Response(&launcher_rest_client.Attempt{
		StatusCode:   200,
		ResponseBody: []byte(`{"transaction_id":"abc"}`),
	})

	require.Contains(t, out.String(), "<Response [200]>")
	require.Contains(t, out.String(), `"transaction_id": "abc"`)
}

func TestHeaderReplacesUnderscores(t *testing.T) {
	out := &bytes.Buffer{}
	reporter := newConsoleReporter(1, true, out)

	reporter.Header("create_bios_accounts")
	require.Equal(t, "create bios accounts\n", out.String())
}
