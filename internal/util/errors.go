package util

import "errors"

var (
	ErrModuleNotFound         = errors.New("module not found")
	ErrCertificateUnavailable = errors.New("certificate not available before full completion")
	ErrProfileIncomplete      = errors.New("user profile incomplete")
	ErrInvalidAccessCode      = errors.New("invalid access code")
	ErrArtifactNotFound       = errors.New("certificate artifact not found")
)
