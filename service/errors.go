package service

import "errors"

// Errors returned by the services. Handlers match them with errors.Is; the
// messages are safe to show to clients.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrCampaignNotFound   = errors.New("campaign not found")
	ErrUpstreamFailure    = errors.New("content generation failed")
	ErrEmptyResponse      = errors.New("content generation returned no text")
)
