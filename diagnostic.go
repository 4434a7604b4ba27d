package wfs

import (
	"fmt"
	"strconv"
	"strings"

	xsdvalidate "github.com/terminalstatic/go-xsd-validate"
)

// Violation is one structural mismatch between a feature sample and the schema
type Violation struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Position Position `json:"position"`
	Node     string   `json:"node,omitempty"`
}

// Severity represents the severity level reported by the validator
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeverityFatal   Severity = "fatal"
)

// Position locates a violation in the validated document
type Position struct {
	Line int `json:"line"`
}

func (v Violation) String() string {
	var sb strings.Builder
	if v.Position.Line > 0 {
		fmt.Fprintf(&sb, "line %d: ", v.Position.Line)
	}
	if v.Node != "" {
		fmt.Fprintf(&sb, "element '%s': ", v.Node)
	}
	sb.WriteString(v.Message)
	return sb.String()
}

// libxml2 schema validity error numbers mapped to the XML Schema constraint
// they report
var libxmlConstraints = map[int]string{
	1824: "cvc-datatype-valid.1.2.1",
	1839: "cvc-pattern-valid",
	1840: "cvc-enumeration-valid",
	1845: "cvc-elt.1",
	1866: "cvc-complex-type.3.2.1",
	1868: "cvc-complex-type.4",
	1871: "cvc-complex-type.2.4",
}

// violationsFromLibxml converts libxml2 structured errors, keeping their order
func violationsFromLibxml(errs []xsdvalidate.StructError) []Violation {
	violations := make([]Violation, 0, len(errs))
	for _, e := range errs {
		violations = append(violations, Violation{
			Severity: severityFromLevel(e.Level),
			Code:     constraintCode(e.Code),
			Message:  strings.TrimSpace(e.Message),
			Position: Position{Line: e.Line},
			Node:     e.NodeName,
		})
	}
	return violations
}

// severityFromLevel maps libxml2's xmlErrorLevel
func severityFromLevel(level int) Severity {
	switch level {
	case 1:
		return SeverityWarning
	case 3:
		return SeverityFatal
	default:
		return SeverityError
	}
}

func constraintCode(code int) string {
	if c, ok := libxmlConstraints[code]; ok {
		return c
	}
	return "libxml2-" + strconv.Itoa(code)
}

// ViolationFormatter renders violations with the offending source line
type ViolationFormatter struct {
	Color        bool
	ContextLines int
}

// Format formats a violation against the document it was found in
func (vf *ViolationFormatter) Format(v Violation, source string) string {
	var sb strings.Builder

	severity := string(v.Severity)
	if vf.Color {
		switch v.Severity {
		case SeverityFatal, SeverityError:
			severity = "\033[31;1m" + severity + "\033[0m"
		case SeverityWarning:
			severity = "\033[33;1m" + severity + "\033[0m"
		}
	}
	fmt.Fprintf(&sb, "%s[%s]: %s\n", severity, v.Code, v.Message)

	if v.Position.Line <= 0 || source == "" {
		return sb.String()
	}
	fmt.Fprintf(&sb, " --> line %d\n", v.Position.Line)

	lines := strings.Split(source, "\n")
	if v.Position.Line > len(lines) {
		return sb.String()
	}
	first := max(1, v.Position.Line-vf.ContextLines)
	last := min(len(lines), v.Position.Line+vf.ContextLines)
	for n := first; n <= last; n++ {
		marker := " "
		if n == v.Position.Line {
			marker = ">"
		}
		fmt.Fprintf(&sb, "%s%4d | %s\n", marker, n, strings.TrimRight(lines[n-1], "\r"))
	}
	return sb.String()
}
