package launcher_rest_client

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	testEndpoint = "get_cluster_info"

	// Keep tests fast; the delay length doesn't change the contract
	testTimeBetweenRetries = 1 * time.Millisecond
)

type countingReporter struct {
	headers       int
	requests      int
	retryFailures int
	responses     int
}

func (reporter *countingReporter) Header(endpoint string) { reporter.headers++ }

func (reporter *countingReporter) Request(attempt *Attempt) { reporter.requests++ }

func (reporter *countingReporter) RetryFailure(attempt *Attempt) { reporter.retryFailures++ }

func (reporter *countingReporter) Response(attempt *Attempt) { reporter.responses++ }

func newTestClient(t *testing.T, handler http.HandlerFunc, reporter Reporter) (*LauncherRESTClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	serverUrl, err := url.Parse(server.URL)
	require.NoError(t, err)
	portNum, err := strconv.ParseUint(serverUrl.Port(), 10, 16)
	require.NoError(t, err)

	return NewLauncherRESTClient(serverUrl.Hostname(), uint16(portNum), reporter), server
}

func TestCallSucceedsFirstAttempt(t *testing.T) {
	numRequests := 0
	client, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		numRequests++
		require.Equal(t, "/v1/launcher/"+testEndpoint, request.URL.Path)
		fmt.Fprint(writer, `{"transaction_id": "abc123"}`)
	}, NewNopReporter())

	attempt, err := client.Call(testEndpoint, map[string]int{"cluster_id": 0}, 5, testTimeBetweenRetries)
	require.NoError(t, err)
	require.Equal(t, 1, numRequests)
	require.True(t, attempt.Succeeded())
	require.Equal(t, "abc123", attempt.TransactionID)
}

func TestCallRetriesUntilSuccess(t *testing.T) {
	numFailures := 3
	numRequests := 0
	reporter := &countingReporter{}
	client, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		numRequests++
		if numRequests <= numFailures {
			writer.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(writer, `{}`)
	}, reporter)

	attempt, err := client.Call(testEndpoint, nil, 5, testTimeBetweenRetries)
	require.NoError(t, err)
	require.True(t, attempt.Succeeded())

	// k failures then success: exactly k failed attempts were reported, with
	// one blocking delay per failure
	require.Equal(t, numFailures+1, numRequests)
	require.Equal(t, numFailures, reporter.retryFailures)
	require.Equal(t, 1, reporter.headers)
	require.Equal(t, 1, reporter.requests)
	require.Equal(t, 1, reporter.responses)
}

func TestCallExhaustsRetryBudget(t *testing.T) {
	numRetries := uint32(4)
	numRequests := 0
	client, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		numRequests++
		writer.WriteHeader(http.StatusServiceUnavailable)
	}, NewNopReporter())

	_, err := client.Call(testEndpoint, nil, numRetries, testTimeBetweenRetries)
	require.Error(t, err)
	require.Equal(t, int(numRetries), numRequests)

	rpcErr, ok := err.(*RPCFailureError)
	require.True(t, ok)
	require.Equal(t, testEndpoint, rpcErr.Endpoint)
	require.Equal(t, numRetries, rpcErr.NumAttempts)
	require.Equal(t, http.StatusServiceUnavailable, rpcErr.LastAttempt.StatusCode)
}

func TestCallMissingTransactionIDIsNotAnError(t *testing.T) {
	client, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		fmt.Fprint(writer, `{"cluster_id": 0, "nodes": []}`)
	}, NewNopReporter())

	attempt, err := client.Call(testEndpoint, nil, 1, testTimeBetweenRetries)
	require.NoError(t, err)
	require.Empty(t, attempt.TransactionID)
}

func TestCallTransportErrorIsRetried(t *testing.T) {
	client, server := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		fmt.Fprint(writer, `{}`)
	}, NewNopReporter())
	server.Close()

	_, err := client.Call(testEndpoint, nil, 2, testTimeBetweenRetries)
	require.Error(t, err)

	rpcErr, ok := err.(*RPCFailureError)
	require.True(t, ok)
	require.Error(t, rpcErr.LastAttempt.TransportErr)
}

func TestCallRejectsZeroAttemptBudget(t *testing.T) {
	client := NewLauncherRESTClient("127.0.0.1", 1234, NewNopReporter())
	_, err := client.Call(testEndpoint, nil, 0, testTimeBetweenRetries)
	require.Error(t, err)
}

func TestAttemptsAreSupersededNotMutated(t *testing.T) {
	numRequests := 0
	client, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		numRequests++
		if numRequests == 1 {
			writer.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(writer, `{"error": "not ready"}`)
			return
		}
		fmt.Fprint(writer, `{"transaction_id": "final"}`)
	}, NewNopReporter())

	var firstSeen *Attempt
	recorder := &attemptRecorder{}
	client.reporter = recorder

	attempt, err := client.Call(testEndpoint, nil, 3, testTimeBetweenRetries)
	require.NoError(t, err)

	firstSeen = recorder.retried[0]
	require.NotSame(t, firstSeen, attempt)
	require.Equal(t, http.StatusInternalServerError, firstSeen.StatusCode)
	require.Equal(t, "final", attempt.TransactionID)
}

type attemptRecorder struct {
	retried []*Attempt
}

func (recorder *attemptRecorder) Header(endpoint string) {}

func (recorder *attemptRecorder) Request(attempt *Attempt) {}

func (recorder *attemptRecorder) RetryFailure(attempt *Attempt) {
	recorder.retried = append(recorder.retried, attempt)
}

func (recorder *attemptRecorder) Response(attempt *Attempt) {}
