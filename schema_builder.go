package wfs

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// SchemaBuilder builds the combined schema of every feature type a service
// exposes. GetFeature responses are wrapped in a wfs:FeatureCollection that the
// service's own DescribeFeatureType output does not describe, so the WFS 2.0
// schema is imported into it before compiling.
type SchemaBuilder struct {
	Fetcher  Fetcher
	Compiler Compiler

	// ImportLocation is the schemaLocation of the WFS 2.0 import.
	// Defaults to DefaultWFSSchemaLocation.
	ImportLocation string
}

// Build fetches, patches and compiles the combined schema. Every failure wraps
// ErrSchemaBuild.
func (b *SchemaBuilder) Build(ctx context.Context, endpoint Endpoint) (CompiledSchema, error) {
	text, err := b.Fetcher.Fetch(ctx, endpoint.DescribeFeatureTypeURL())
	if err != nil {
		return nil, &SchemaBuildError{Stage: "fetch", Err: err}
	}

	location := b.ImportLocation
	if location == "" {
		location = DefaultWFSSchemaLocation
	}
	patched, err := PatchSchema(text, location)
	if err != nil {
		return nil, &SchemaBuildError{Stage: "patch", Err: err}
	}

	schema, err := b.Compiler.Compile([]byte(patched))
	if err != nil {
		return nil, &SchemaBuildError{Stage: "compile", Err: err}
	}
	return schema, nil
}

var schemaCloseTag = regexp.MustCompile(`</(?:([A-Za-z_][\w.-]*):)?schema\s*>`)

// PatchSchema inserts an import of the WFS 2.0 namespace immediately before the
// closing schema tag. Only the last closing tag outside comments and CDATA
// sections counts; "</schema>" appearing in documentation text is left alone.
// The import reuses the prefix of the closing tag, so </xsd:schema> gets an
// <xsd:import>.
//
// Apart from the insertion the schema text is left byte for byte as served.
func PatchSchema(schema, importLocation string) (string, error) {
	skip := markupRanges(schema)

	matches := schemaCloseTag.FindAllStringSubmatchIndex(schema, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		if inRanges(m[0], skip) {
			continue
		}
		prefix := ""
		if m[2] >= 0 {
			prefix = schema[m[2]:m[3]] + ":"
		}
		imp := fmt.Sprintf("<%simport namespace=\"%s\" schemaLocation=\"%s\"/>\n",
			prefix, WFSNamespace, attrEscaper.Replace(importLocation))
		return schema[:m[0]] + imp + schema[m[0]:], nil
	}
	return "", fmt.Errorf("no closing schema tag found")
}

var attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", `"`, "&quot;")

type textRange struct{ start, end int }

// markupRanges returns the byte ranges of comments and CDATA sections
func markupRanges(text string) []textRange {
	var ranges []textRange
	for pos := 0; pos < len(text); {
		comment := strings.Index(text[pos:], "<!--")
		cdata := strings.Index(text[pos:], "<![CDATA[")

		var open, closer string
		var start int
		switch {
		case comment < 0 && cdata < 0:
			return ranges
		case cdata < 0 || (comment >= 0 && comment < cdata):
			open, closer, start = "<!--", "-->", pos+comment
		default:
			open, closer, start = "<![CDATA[", "]]>", pos+cdata
		}

		end := strings.Index(text[start+len(open):], closer)
		if end < 0 {
			return append(ranges, textRange{start, len(text)})
		}
		end = start + len(open) + end + len(closer)
		ranges = append(ranges, textRange{start, end})
		pos = end
	}
	return ranges
}

func inRanges(offset int, ranges []textRange) bool {
	for _, r := range ranges {
		if offset >= r.start && offset < r.end {
			return true
		}
	}
	return false
}
