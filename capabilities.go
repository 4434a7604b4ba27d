package wfs

import (
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// ReadFeatureTypes extracts the feature type names advertised in a capabilities
// document, e.g. tn-a:AerodromeArea.
//
// Every element named FeatureType contributes the text of its first Name
// element. Names are returned in document order and are not deduplicated.
// Entries without a usable name are skipped and reported as
// *MalformedCapabilitiesError values; the remaining names are still returned.
func ReadFeatureTypes(doc xmldom.Document) ([]FeatureTypeName, []error) {
	if doc == nil {
		return nil, nil
	}
	root := doc.DocumentElement()
	if root == nil {
		return nil, nil
	}

	var names []FeatureTypeName
	var errs []error
	for i, featureType := range elementsByLocalName(root, "FeatureType") {
		nameElem := firstDescendant(featureType, "Name")
		if nameElem == nil {
			errs = append(errs, &MalformedCapabilitiesError{Index: i})
			continue
		}
		name := strings.TrimSpace(string(nameElem.TextContent()))
		if name == "" {
			errs = append(errs, &MalformedCapabilitiesError{Index: i})
			continue
		}
		names = append(names, FeatureTypeName(name))
	}
	return names, errs
}
