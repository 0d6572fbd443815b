package types

// StatusCode is attached to status updates. StatusCodeNone means the update
// carries no code.
type StatusCode int

const (
	StatusCodeNone         StatusCode = 0
	StatusCodeInvalidInput StatusCode = 400
	StatusCodeStoreFailure StatusCode = 500
)
