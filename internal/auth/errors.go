package auth

import "errors"

var (
	ErrInvalidState = errors.New("Authentication failed: Invalid session state")
	ErrMissingCode  = errors.New("Authentication failed: No authorization code received")
	ErrInvalidCode  = errors.New("Authentication failed: Invalid authorization code format")
	ErrNoToken      = errors.New("Authentication completed but no token received")
	ErrIncomplete   = errors.New("Authentication was not completed successfully")
)
