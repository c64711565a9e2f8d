package utils

import "errors"

// Domain-level errors used by the service layer to provide
// fine-grained failure reasons.
var (
	ErrPropertyNotFound = errors.New("property_not_found")
	ErrFileNotFound     = errors.New("file_not_found")
	ErrExtractionFailed = errors.New("extraction_failure")
	ErrStorageFailure   = errors.New("storage_failure")
)
