package wfs

import (
	"errors"
	"fmt"
)

// ValidateFeatures validates a GetFeature response against the compiled schema
// and returns every violation in reporting order. An empty result means the
// sample is valid. Violations are a normal result; the error is reserved for a
// validation that could not run.
func ValidateFeatures(text string, schema CompiledSchema) ([]Violation, error) {
	if schema == nil {
		return nil, errors.New("schema not loaded")
	}
	violations, err := schema.Validate([]byte(text))
	if err != nil {
		return violations, fmt.Errorf("failed to validate feature response: %w", err)
	}
	return violations, nil
}
