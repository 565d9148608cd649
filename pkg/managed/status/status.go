// Package status declares error constants returned by the managed data API client.
package status

import "github.com/deeporigin/deeporigin/pkg/errors"

var (
	// ErrUnauthorized indicates that the API rejected the access token
	ErrUnauthorized = errors.New("unauthorized: the access token was rejected, run \"deep-origin authenticate\"")

	// ErrForbidden indicates that the user may not access the target resource
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates that the target resource does not exist
	ErrNotFound = errors.New("not found")

	// ErrUnavailable indicates a transient failure: the API is overloaded or could not be reached
	ErrUnavailable = errors.New("managed data API unavailable")

	// ErrAPI indicates any other error reported by the API
	ErrAPI = errors.New("managed data API error")

	// ErrInvalidArgument indicates that the request could not be built from the provided arguments
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTransfer indicates a failure while uploading or downloading file contents
	ErrTransfer = errors.New("file transfer failed")
)
