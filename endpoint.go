package wfs

import (
	"fmt"
	"net/url"
	"strings"
)

// WFSNamespace is the WFS 2.0 namespace that wraps every GetFeature response
const WFSNamespace = "http://www.opengis.net/wfs/2.0"

// DefaultWFSSchemaLocation is the canonical OGC location of the WFS 2.0 schema
const DefaultWFSSchemaLocation = "http://schemas.opengis.net/wfs/2.0/wfs.xsd"

// DefaultFeatureCount is the number of features requested per feature type
const DefaultFeatureCount = 10

const (
	capabilitiesQuery = "service=WFS&request=GetCapabilities"
	describeQuery     = "SERVICE=WFS&VERSION=2.0.0&REQUEST=DescribeFeatureType&OUTPUTFORMAT=text%2Fxml%3B+subtype%3Dgml%2F3.2.1"
	getFeatureQuery   = "SERVICE=WFS&VERSION=2.0.0&REQUEST=GetFeature&TYPENAMES=%s&COUNT=%d"
)

// Endpoint is the base URL of the WFS under test
type Endpoint string

// ParseEndpoint checks that raw is an absolute http(s) URL
func ParseEndpoint(raw string) (Endpoint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("missing WFS URL")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid WFS URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid WFS URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid WFS URL %q: missing host", raw)
	}
	return Endpoint(raw), nil
}

// String returns the endpoint URL
func (e Endpoint) String() string {
	return string(e)
}

// CapabilitiesURL returns the GetCapabilities request URL
func (e Endpoint) CapabilitiesURL() string {
	return e.withQuery(capabilitiesQuery)
}

// DescribeFeatureTypeURL returns the request URL for the combined schema of all
// feature types. No TYPENAME is sent.
func (e Endpoint) DescribeFeatureTypeURL() string {
	return e.withQuery(describeQuery)
}

// GetFeatureURL returns the request URL for a sample of count features of typeName
func (e Endpoint) GetFeatureURL(typeName FeatureTypeName, count int) string {
	return e.withQuery(fmt.Sprintf(getFeatureQuery, url.QueryEscape(string(typeName)), count))
}

// withQuery appends a key-value query to the endpoint. Services are often
// published with a query already attached (e.g. "?map=..."), in which case
// the parameters are appended with '&'.
func (e Endpoint) withQuery(query string) string {
	base := string(e)
	switch {
	case strings.HasSuffix(base, "?"), strings.HasSuffix(base, "&"):
		return base + query
	case strings.Contains(base, "?"):
		return base + "&" + query
	default:
		return base + "?" + query
	}
}

// FeatureTypeName is a qualified feature type name such as tn-a:AerodromeArea
type FeatureTypeName string

// Prefix returns the namespace prefix before the first colon
func (n FeatureTypeName) Prefix() string {
	prefix, _, found := strings.Cut(string(n), ":")
	if !found {
		return ""
	}
	return prefix
}

// Local returns the local part after the first colon
func (n FeatureTypeName) Local() string {
	_, local, found := strings.Cut(string(n), ":")
	if !found {
		return string(n)
	}
	return local
}

func (n FeatureTypeName) String() string {
	return string(n)
}
