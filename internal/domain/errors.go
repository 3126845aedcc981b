package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound          = errors.New("not found")
	ErrEmptyMessage      = errors.New("message is empty")
	ErrBusy              = errors.New("a request is already in flight")
	ErrTransport         = errors.New("transport failure")
	ErrQuotaExceeded     = errors.New("storage quota exceeded")
	ErrSpeechUnavailable = errors.New("speech synthesis unavailable")
)
