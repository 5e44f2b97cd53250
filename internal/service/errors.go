package service

import "errors"

// ErrValidation marks input rejected before any remote write.
var ErrValidation = errors.New("validation failed")

// Notice is a user-facing message produced by a use case.
type Notice struct {
	Title       string
	Message     string
	Destructive bool
}

func errorNotice(title, message string) *Notice {
	return &Notice{Title: title, Message: message, Destructive: true}
}

func infoNotice(title, message string) *Notice {
	return &Notice{Title: title, Message: message}
}
