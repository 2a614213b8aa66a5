package launcher_rest_client

import (
	"encoding/json"
	"net/http"
)

// The launcher service reports transaction-producing operations with this
// response field; read-only endpoints omit it
type transactionIDResponse struct {
	TransactionID string `json:"transaction_id"`
}

// Attempt is one outbound try of an RPC call. Attempts are immutable; the
// retry loop creates a fresh one per try and threads the latest forward rather
// than mutating shared state.
type Attempt struct {
	// Target URL of the call
	URL string

	// Serialized JSON request body
	RequestBody []byte

	// Zero when the request never reached the service
	StatusCode int

	// Raw response body; nil on transport failure
	ResponseBody []byte

	// Transport-level failure, if any
	TransportErr error

	// Extracted from the response body when present; empty otherwise
	TransactionID string
}

func newAttempt(url string, requestBody []byte, response *http.Response, responseBody []byte, transportErr error) *Attempt {
	attempt := &Attempt{
		URL:          url,
		RequestBody:  requestBody,
		ResponseBody: responseBody,
		TransportErr: transportErr,
	}
	if response != nil {
		attempt.StatusCode = response.StatusCode
	}

	// Absence of a transaction ID is not an error; some endpoints are
	// read-only and return none
	parsed := &transactionIDResponse{}
	if len(responseBody) > 0 && json.Unmarshal(responseBody, parsed) == nil {
		attempt.TransactionID = parsed.TransactionID
	}
	return attempt
}

// Succeeded reports whether the service answered with a 2xx status.
func (attempt *Attempt) Succeeded() bool {
	return attempt.TransportErr == nil && attempt.StatusCode >= 200 && attempt.StatusCode < 300
}
