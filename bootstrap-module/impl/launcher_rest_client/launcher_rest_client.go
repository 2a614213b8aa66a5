package launcher_rest_client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kurtosis-tech/stacktrace"
	"github.com/sirupsen/logrus"
)

const (
	contentTypeHeader = "Content-Type"
	jsonContentType   = "application/json"
)

// Reporter is the observability strategy for a call. Implementations only gate
// progress output; the retry and success contract is identical no matter which
// reporter is installed.
type Reporter interface {
	// Header announces the call before the first attempt
	Header(endpoint string)

	// Request echoes the target URL and serialized payload
	Request(attempt *Attempt)

	// RetryFailure reports a failed attempt that will be retried
	RetryFailure(attempt *Attempt)

	// Response summarizes the final attempt
	Response(attempt *Attempt)
}

// NopReporter is the quiet mode: same control flow, no progress text.
type NopReporter struct{}

func NewNopReporter() *NopReporter { return &NopReporter{} }

func (reporter *NopReporter) Header(endpoint string) {}

func (reporter *NopReporter) Request(attempt *Attempt) {}

func (reporter *NopReporter) RetryFailure(attempt *Attempt) {}

func (reporter *NopReporter) Response(attempt *Attempt) {}

// An RPC call's retry budget was exhausted without a successful response.
type RPCFailureError struct {
	Endpoint    string
	NumAttempts uint32
	LastAttempt *Attempt
}

func (err *RPCFailureError) Error() string {
	if err.LastAttempt != nil && err.LastAttempt.TransportErr != nil {
		return fmt.Sprintf(
			"call to '%v' failed after %v attempts; last transport error: %v",
			err.Endpoint,
			err.NumAttempts,
			err.LastAttempt.TransportErr,
		)
	}
	lastStatus := 0
	if err.LastAttempt != nil {
		lastStatus = err.LastAttempt.StatusCode
	}
	return fmt.Sprintf("call to '%v' failed after %v attempts; last status code: %v", err.Endpoint, err.NumAttempts, lastStatus)
}

// The launcher service's RPC API is JSON POSTed to /v1/launcher/<endpoint>.
type LauncherRESTClient struct {
	address    string
	portNum    uint16
	httpClient *http.Client
	reporter   Reporter
}

func NewLauncherRESTClient(address string, portNum uint16, reporter Reporter) *LauncherRESTClient {
	return &LauncherRESTClient{
		address:    address,
		portNum:    portNum,
		httpClient: &http.Client{},
		reporter:   reporter,
	}
}

// Call POSTs the payload to the named endpoint, retrying with a fixed delay
// between attempts until a 2xx response arrives or the budget of numRetries
// total attempts is exhausted. Each retry issues an identical request as a
// fresh Attempt. Exhaustion returns an *RPCFailureError; this is fatal to the
// bootstrap step that issued the call.
func (client *LauncherRESTClient) Call(
	endpoint string,
	payload interface{},
	numRetries uint32,
	timeBetweenRetries time.Duration,
) (*Attempt, error) {
	if numRetries == 0 {
		return nil, stacktrace.NewError("At least one attempt is required to call '%v'", endpoint)
	}

	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, stacktrace.Propagate(err, "An error occurred serializing the payload for endpoint '%v'", endpoint)
	}
	url := client.getUrl(endpoint)

	client.reporter.Header(endpoint)

	var attempt *Attempt
	for i := uint32(0); i < numRetries; i++ {
		attempt = client.doAttempt(url, requestBody)
		if i == 0 {
			client.reporter.Request(attempt)
		}
		if attempt.Succeeded() {
			client.reporter.Response(attempt)
			return attempt, nil
		}
		if i+1 < numRetries {
			client.reporter.RetryFailure(attempt)
			time.Sleep(timeBetweenRetries)
		}
	}

	client.reporter.Response(attempt)
	return nil, &RPCFailureError{
		Endpoint:    endpoint,
		NumAttempts: numRetries,
		LastAttempt: attempt,
	}
}

func (client *LauncherRESTClient) getUrl(endpoint string) string {
	return fmt.Sprintf("http://%v:%v/v1/launcher/%v", client.address, client.portNum, endpoint)
}

func (client *LauncherRESTClient) doAttempt(url string, requestBody []byte) *Attempt {
	response, err := client.httpClient.Post(url, jsonContentType, bytes.NewReader(requestBody))
	if err != nil {
		logrus.Debugf("Transport error POSTing to '%v': %v", url, err)
		return newAttempt(url, requestBody, nil, nil, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return newAttempt(url, requestBody, response, nil, err)
	}

	logrus.Debugf("Response string from '%v': %v", url, string(responseBody))
	return newAttempt(url, requestBody, response, responseBody, nil)
}
