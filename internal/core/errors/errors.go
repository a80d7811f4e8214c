package errors

const (
	HttpInternalError        = "internal_error"
	HttpEmptyBodyError       = "empty_body"
	HttpPayloadTooLargeError = "payload_too_large"
	HttpInvalidQueryError    = "invalid_query"
	HttpDuplicatePeriodError = "duplicate_period"
	HttpBatchWriteError      = "batch_write_failed"
)

// ErrorResponse is the error response body of the HTTP API.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
