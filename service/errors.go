package service

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailNotFound      = errors.New("email not found")
	ErrForbidden          = errors.New("caller may not access this resource")
	ErrArchiveDisabled    = errors.New("email archive is not configured")
	ErrArchiveNotFound    = errors.New("archived email not found")
)
