package wfs

import (
	"errors"
	"fmt"
)

var (
	// ErrCapabilities means the capabilities document could not be fetched or read.
	// It aborts the run.
	ErrCapabilities = errors.New("capabilities failure")

	// ErrSchemaBuild means the combined schema could not be fetched, patched or
	// compiled. It aborts the run.
	ErrSchemaBuild = errors.New("schema build failure")

	// ErrTypeFetch means the feature sample of one type could not be retrieved
	ErrTypeFetch = errors.New("feature type fetch failure")

	// ErrMalformedCapabilities means a FeatureType entry has no name
	ErrMalformedCapabilities = errors.New("malformed capabilities")

	// ErrBrokenLink means an in-service href could not be fetched
	ErrBrokenLink = errors.New("broken link")

	// ErrEmptyDocument is returned when parsing a blank document
	ErrEmptyDocument = errors.New("empty document")
)

// StatusError is returned by the transport for non-2xx responses
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// SchemaBuildError records the stage at which the schema build failed
type SchemaBuildError struct {
	Stage string // fetch, patch or compile
	Err   error
}

func (e *SchemaBuildError) Error() string {
	return fmt.Sprintf("schema build failure (%s): %v", e.Stage, e.Err)
}

func (e *SchemaBuildError) Unwrap() []error {
	return []error{ErrSchemaBuild, e.Err}
}

// MalformedCapabilitiesError points at the FeatureType entry (0-based, document
// order) that lacks a name
type MalformedCapabilitiesError struct {
	Index int
}

func (e *MalformedCapabilitiesError) Error() string {
	return fmt.Sprintf("malformed capabilities: FeatureType #%d has no Name", e.Index+1)
}

func (e *MalformedCapabilitiesError) Unwrap() error {
	return ErrMalformedCapabilities
}
