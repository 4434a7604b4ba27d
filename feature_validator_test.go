package wfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFeaturesNoSchema(t *testing.T) {
	_, err := ValidateFeatures("<a/>", nil)
	assert.Error(t, err)
}

func TestValidateFeaturesReportsEveryViolation(t *testing.T) {
	doc := featureCollection(`<ns:A>INVALID</ns:A>`, `<ns:A/>`, `<ns:A>INVALID INVALID</ns:A>`)

	violations, err := ValidateFeatures(doc, &fakeSchema{})
	require.NoError(t, err)
	require.Len(t, violations, 3)
	assert.Equal(t, 3, violations[0].Position.Line)
	assert.Equal(t, 5, violations[1].Position.Line)

	// however many violations, the sample counts once
	result := TypeResult{Name: "ns:A", Violations: violations}
	assert.Equal(t, 1, result.Errors())
	assert.Equal(t, "invalid", result.Status())
}

func TestValidateFeaturesValid(t *testing.T) {
	violations, err := ValidateFeatures(featureCollection(`<ns:A/>`), &fakeSchema{})
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestValidateFeaturesProcessError(t *testing.T) {
	_, err := ValidateFeatures("UNVALIDATABLE", &fakeSchema{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validator crashed")
}

func TestValidateFeaturesLibxml(t *testing.T) {
	schema := compileRoads(t)

	violations, err := ValidateFeatures(`<Roads xmlns="http://ns.example"><Road><name>A1</name><lanes>-1</lanes></Road></Roads>`, schema)
	require.NoError(t, err)
	assert.NotEmpty(t, violations)
}
