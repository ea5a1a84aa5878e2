package domain

import "errors"

var (
	ErrLocationNotFound   = errors.New("location not found")
	ErrUpstreamFailure    = errors.New("upstream failure")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
)
