package wfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const roadsSchema = `<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
           targetNamespace="http://ns.example" xmlns:ns="http://ns.example"
           elementFormDefault="qualified">
  <xs:element name="Roads">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="Road" maxOccurs="unbounded">
          <xs:complexType>
            <xs:sequence>
              <xs:element name="name" type="xs:string"/>
              <xs:element name="lanes" type="xs:positiveInteger"/>
            </xs:sequence>
          </xs:complexType>
        </xs:element>
      </xs:sequence>
    </xs:complexType>
  </xs:element>
</xs:schema>
`

func compileRoads(t *testing.T) CompiledSchema {
	t.Helper()
	compiler, err := NewLibxmlCompiler()
	require.NoError(t, err)
	schema, err := compiler.Compile([]byte(roadsSchema))
	require.NoError(t, err)
	t.Cleanup(schema.Free)
	return schema
}

func TestLibxmlCompilerRejectsBrokenSchema(t *testing.T) {
	compiler, err := NewLibxmlCompiler()
	require.NoError(t, err)

	_, err = compiler.Compile([]byte(`<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"><xs:element name="A" type="xs:nope"/></xs:schema>`))
	assert.Error(t, err)
}

func TestLibxmlSchemaValid(t *testing.T) {
	schema := compileRoads(t)

	violations, err := schema.Validate([]byte(`<Roads xmlns="http://ns.example">
  <Road><name>A1</name><lanes>4</lanes></Road>
</Roads>`))
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestLibxmlSchemaViolations(t *testing.T) {
	schema := compileRoads(t)

	violations, err := schema.Validate([]byte(`<Roads xmlns="http://ns.example">
  <Road><name>A1</name><lanes>zero</lanes></Road>
  <Road><lanes>2</lanes></Road>
</Roads>`))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(violations), 2)
	for _, v := range violations {
		assert.NotEmpty(t, v.Message)
		assert.Positive(t, v.Position.Line)
	}
	assert.Equal(t, 2, violations[0].Position.Line)
}

func TestLibxmlSchemaNotWellFormed(t *testing.T) {
	schema := compileRoads(t)

	_, err := schema.Validate([]byte(`<Roads xmlns="http://ns.example"><Road>`))
	assert.Error(t, err)
}

func TestLibxmlSchemaFreeTwice(t *testing.T) {
	compiler, err := NewLibxmlCompiler()
	require.NoError(t, err)
	schema, err := compiler.Compile([]byte(roadsSchema))
	require.NoError(t, err)

	schema.Free()
	assert.NotPanics(t, schema.Free)
}
