package riot

import "errors"

// Classification of provider responses. Callers branch with errors.Is.
var (
	// ErrUnauthorized means the API key is invalid or expired (401/403).
	// Never retried; polling treats it as terminal for the current cycle.
	ErrUnauthorized = errors.New("riot: unauthorized")

	// ErrNotFound is an expected outcome (unknown account, player not in
	// a live game). Never retried.
	ErrNotFound = errors.New("riot: not found")

	// ErrRateLimited is returned once backoff retries for 429 are exhausted.
	ErrRateLimited = errors.New("riot: rate limited")

	// ErrTransient covers 5xx and network failures after retries.
	ErrTransient = errors.New("riot: transient error")

	// ErrMalformedResponse means a 2xx body could not be decoded.
	ErrMalformedResponse = errors.New("riot: malformed response")
)
