package transport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// errBodyLimit caps how much of an error body is read when decoding detail
const errBodyLimit = 1 << 16

// APIError is a non-2xx response from the backend. Detail carries the
// user-facing message from the JSON body's "detail" field, when present.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api error: %s", http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Detail)
}

// Detail extracts the server-reported message from err, falling back to
// fallback for transport failures and detail-less responses.
func Detail(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// decodeAPIError turns a failed response into an *APIError, pulling the
// "detail" field out of the JSON body when the server provided one.
func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, errBodyLimit)).Decode(&body); err != nil {
		return apiErr
	}
	if len(body.Detail) == 0 {
		return apiErr
	}

	var msg string
	if err := json.Unmarshal(body.Detail, &msg); err == nil {
		apiErr.Detail = msg
	} else {
		apiErr.Detail = string(body.Detail)
	}
	return apiErr
}
