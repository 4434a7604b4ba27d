package wfs

import (
	"context"
	"errors"
	"strings"
	"sync"
)

const testEndpoint Endpoint = "http://wfs.example/wfs"

// fakeFetcher serves canned bodies by URL. Unknown URLs answer 404.
type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string]string
	failures  map[string]error
	calls     []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		responses: make(map[string]string),
		failures:  make(map[string]error),
	}
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, rawURL)
	if err, ok := f.failures[rawURL]; ok {
		return "", err
	}
	if body, ok := f.responses[rawURL]; ok {
		return body, nil
	}
	return "", &StatusError{URL: rawURL, StatusCode: 404}
}

func (f *fakeFetcher) callCount(match func(string) bool) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if match(c) {
			n++
		}
	}
	return n
}

func isGetFeature(u string) bool {
	return strings.Contains(u, "REQUEST=GetFeature")
}

func isDescribe(u string) bool {
	return strings.Contains(u, "REQUEST=DescribeFeatureType")
}

// fakeSchema reports one violation per occurrence of "INVALID" in a document
type fakeSchema struct {
	mu    sync.Mutex
	freed int
}

func (s *fakeSchema) Validate(doc []byte) ([]Violation, error) {
	text := string(doc)
	if strings.Contains(text, "UNVALIDATABLE") {
		return nil, errors.New("validator crashed")
	}
	var violations []Violation
	for i, line := range strings.Split(text, "\n") {
		for range strings.Count(line, "INVALID") {
			violations = append(violations, Violation{
				Severity: SeverityError,
				Code:     "cvc-complex-type.2.4",
				Message:  "unexpected element",
				Position: Position{Line: i + 1},
			})
		}
	}
	return violations, nil
}

func (s *fakeSchema) Free() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.freed++
}

type fakeCompiler struct {
	mu      sync.Mutex
	err     error
	schema  *fakeSchema
	sources []string
}

func (c *fakeCompiler) Compile(schema []byte) (CompiledSchema, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources = append(c.sources, string(schema))
	if c.err != nil {
		return nil, c.err
	}
	if c.schema == nil {
		c.schema = &fakeSchema{}
	}
	return c.schema, nil
}

func (c *fakeCompiler) compiled() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sources)
}

const testDescribeResponse = `<?xml version="1.0" encoding="UTF-8"?>
<xsd:schema xmlns:xsd="http://www.w3.org/2001/XMLSchema" targetNamespace="http://ns.example" elementFormDefault="qualified">
  <xsd:element name="A" type="xsd:string"/>
  <xsd:element name="B" type="xsd:string"/>
</xsd:schema>
`

func capabilitiesWith(names ...string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<wfs:WFS_Capabilities xmlns:wfs="http://www.opengis.net/wfs/2.0" version="2.0.0">
  <wfs:FeatureTypeList>
`)
	for _, name := range names {
		sb.WriteString("    <wfs:FeatureType><wfs:Name>" + name + "</wfs:Name><wfs:Title>t</wfs:Title></wfs:FeatureType>\n")
	}
	sb.WriteString(`  </wfs:FeatureTypeList>
</wfs:WFS_Capabilities>
`)
	return sb.String()
}

func featureCollection(members ...string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<wfs:FeatureCollection xmlns:wfs="http://www.opengis.net/wfs/2.0" xmlns:ns="http://ns.example" xmlns:xlink="http://www.w3.org/1999/xlink">
`)
	for _, m := range members {
		sb.WriteString("  <wfs:member>" + m + "</wfs:member>\n")
	}
	sb.WriteString("</wfs:FeatureCollection>\n")
	return sb.String()
}
