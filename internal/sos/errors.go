package sos

import "errors"

var (
	ErrMissingUser  = errors.New("sos: user id is required")
	ErrNoRecipient  = errors.New("sos: alert email has no recipient")
	ErrSenderNotSet = errors.New("sos: email sender not configured")
)
