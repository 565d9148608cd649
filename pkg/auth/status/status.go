// Package status declares error constants returned by the auth package.
//
// NOTE: such constants are located in a separate package so that callers
// may match them without importing the whole authentication machinery.
package status

import "github.com/deeporigin/deeporigin/pkg/errors"

var (
	// Sentinel errors returned by the authentication flow

	// ErrNotAuthenticated indicates that no usable token is available: the user must run "deep-origin authenticate"
	ErrNotAuthenticated = errors.New(`not authenticated: run "deep-origin authenticate" first`)

	// ErrAuthorizationPending indicates that the user has not yet completed the device authorization
	ErrAuthorizationPending = errors.New("authorization pending")

	// ErrSlowDown indicates that the token endpoint is polled too often
	ErrSlowDown = errors.New("polling too fast")

	// ErrExpiredToken indicates that the device code expired before the user completed the authorization
	ErrExpiredToken = errors.New("device code expired, please try again")

	// ErrAccessDenied indicates that the user declined the authorization
	ErrAccessDenied = errors.New("access denied")

	// ErrTokenEndpoint indicates any other failure while calling the identity provider
	ErrTokenEndpoint = errors.New("identity provider error")

	// ErrTokenCache indicates that the local token cache could not be read or written
	ErrTokenCache = errors.New("token cache error")
)
