package services

import "errors"

var (
	ErrDuplicateCredential = errors.New("user with this email already exists")
	// ErrInvalidCredentials deliberately covers both unknown email and wrong
	// password so responses carry no user-enumeration signal.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionExpired     = errors.New("session expired, please log in again")
	ErrInvalidOTP         = errors.New("invalid or expired OTP code")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInternal           = errors.New("internal server error")
)
