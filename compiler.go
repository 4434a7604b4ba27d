package wfs

import (
	"errors"
	"fmt"
	"sync"

	xsdvalidate "github.com/terminalstatic/go-xsd-validate"
)

// CompiledSchema validates documents against a compiled XML Schema. It is built
// once per run and shared read-only by every feature type check.
type CompiledSchema interface {
	// Validate returns every warning, error and fatal error in the order the
	// validator reported them. An error is returned only when validation itself
	// could not run, e.g. the document is not well-formed.
	Validate(doc []byte) ([]Violation, error)

	// Free releases the compiled schema
	Free()
}

// Compiler turns schema text into a CompiledSchema
type Compiler interface {
	Compile(schema []byte) (CompiledSchema, error)
}

var libxmlInit = sync.OnceValue(xsdvalidate.Init)

// CloseLibxml releases libxml2. Call it once at process exit, after every
// compiled schema has been freed.
func CloseLibxml() {
	xsdvalidate.Cleanup()
}

// LibxmlCompiler compiles schemas with libxml2. Imports with absolute
// schemaLocation URLs (GML, the WFS envelope, application schemas) are
// resolved by libxml2 itself.
type LibxmlCompiler struct {
	// ParseOptions are passed to the schema parser
	ParseOptions xsdvalidate.Options
}

// NewLibxmlCompiler initialises libxml2 on first use
func NewLibxmlCompiler() (*LibxmlCompiler, error) {
	if err := libxmlInit(); err != nil {
		return nil, fmt.Errorf("failed to initialise libxml2: %w", err)
	}
	return &LibxmlCompiler{ParseOptions: xsdvalidate.ParsErrVerbose}, nil
}

// Compile compiles schema text held in memory
func (c *LibxmlCompiler) Compile(schema []byte) (CompiledSchema, error) {
	if err := libxmlInit(); err != nil {
		return nil, fmt.Errorf("failed to initialise libxml2: %w", err)
	}
	opts := c.ParseOptions
	if opts == 0 {
		opts = xsdvalidate.ParsErrDefault
	}
	handler, err := xsdvalidate.NewXsdHandlerMem(schema, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &libxmlSchema{handler: handler}, nil
}

type libxmlSchema struct {
	handler *xsdvalidate.XsdHandler
	once    sync.Once
}

func (s *libxmlSchema) Validate(doc []byte) ([]Violation, error) {
	err := s.handler.ValidateMem(doc, xsdvalidate.ValidErrDefault)
	if err == nil {
		return nil, nil
	}
	var verr xsdvalidate.ValidationError
	if errors.As(err, &verr) {
		return violationsFromLibxml(verr.Errors), nil
	}
	return nil, err
}

func (s *libxmlSchema) Free() {
	s.once.Do(s.handler.Free)
}
