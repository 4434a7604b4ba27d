package wfs

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteSummary(t *testing.T) {
	summary := RunSummary{
		Endpoint: testEndpoint,
		State:    StateDone,
		Malformed: []error{
			&MalformedCapabilitiesError{Index: 0},
		},
		Types: []TypeResult{
			{Name: "ns:A"},
			{Name: "ns:B", FetchErr: ErrTypeFetch},
			{Name: "ns:C", Violations: make([]Violation, 4), Hrefs: HrefReport{Checked: 2, Broken: make([]BrokenLink, 1)}},
		},
	}

	var buf bytes.Buffer
	WriteSummary(&buf, summary)
	out := buf.String()

	assert.Contains(t, out, "WFS Validation Results")
	assert.Contains(t, out, "ns:A")
	assert.Contains(t, out, "fetch-failed")
	assert.Contains(t, out, "malformed")
	assert.Contains(t, out, "FAIL")
	assert.NotContains(t, out, "PASS")
}

func TestWriteSummaryPass(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, RunSummary{Endpoint: testEndpoint, Types: []TypeResult{{Name: "ns:A"}}})
	assert.Contains(t, buf.String(), "PASS")
	assert.Contains(t, buf.String(), "valid")
}

func TestWriteSummaryFatal(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, RunSummary{Endpoint: testEndpoint, Fatal: &SchemaBuildError{Stage: "compile", Err: errors.New("bad import")}})
	assert.Contains(t, buf.String(), "(run aborted)")
	assert.Contains(t, buf.String(), "FAIL")
}
