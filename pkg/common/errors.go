package common

import "fmt"

// TransportError is a network-level failure: connection errors,
// timeouts, or a non-2xx response.
type TransportError struct {
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("transport error: %s", e.Message)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ArchiveError is a corrupt or unreadable archive payload.
type ArchiveError struct {
	Message string
	Err     error
}

func (e *ArchiveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("archive error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("archive error: %s", e.Message)
}

func (e *ArchiveError) Unwrap() error { return e.Err }

// StorageError is a filesystem failure writing output.
type StorageError struct {
	Message string
	Err     error
}

func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("storage error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("storage error: %s", e.Message)
}

func (e *StorageError) Unwrap() error { return e.Err }

func NewTransportError(message string, err error) error {
	return &TransportError{Message: message, Err: err}
}

func NewArchiveError(message string, err error) error {
	return &ArchiveError{Message: message, Err: err}
}

func NewStorageError(message string, err error) error {
	return &StorageError{Message: message, Err: err}
}
