package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	// (for example an empty search term with no category).
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUpstreamFailure is returned when a marketplace request fails at the
	// transport level or answers with a non-2xx status.
	ErrUpstreamFailure = errors.New("marketplace request failed")

	// ErrUnsupportedSort is returned when the marketplace rejects the sort
	// parameter even after falling back to the default sort.
	ErrUnsupportedSort = errors.New("sort order not supported by marketplace")

	// ErrProductNotFound is returned when a product detail payload is missing.
	ErrProductNotFound = errors.New("product not found")

	// ErrNoQualifyingOffer is returned when a product has no option combination
	// matching the buyer's intent.
	ErrNoQualifyingOffer = errors.New("no qualifying offer")
)

// UpstreamError describes a failed marketplace request.
type UpstreamError struct {
	// StatusCode is the HTTP status, or 0 for transport failures.
	StatusCode int
	URL        string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d from %s", ErrUpstreamFailure, e.StatusCode, e.URL)
	}
	return fmt.Sprintf("%s: %s: %v", ErrUpstreamFailure, e.URL, e.Err)
}

// Unwrap exposes ErrUpstreamFailure, or the transport error when present.
func (e *UpstreamError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrUpstreamFailure, e.Err}
	}
	return []error{ErrUpstreamFailure}
}

// IsBadRequest reports whether err carries an HTTP 400 from the marketplace.
func IsBadRequest(err error) bool {
	var upstream *UpstreamError
	return errors.As(err, &upstream) && upstream.StatusCode == 400
}
