package domain

import "errors"

var (
	ErrNotFound               = errors.New("resource not found")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("forbidden")
	ErrUserInactive           = errors.New("user is inactive")
	ErrDuplicateEmail         = errors.New("email already exists")
	ErrUnsupportedFileType    = errors.New("unsupported file type")
	ErrFileTooLarge           = errors.New("file exceeds maximum allowed size")
	ErrDocumentLoad           = errors.New("document could not be loaded")
	ErrRegionOutOfBounds      = errors.New("redaction region out of bounds")
	ErrSocialAuthTokenInvalid = errors.New("social authentication token is invalid or expired")
	ErrSocialAuthDisabled     = errors.New("google sign-in is not configured")
	ErrDeliveryNotConfigured  = errors.New("delivery channel is not configured")
)
