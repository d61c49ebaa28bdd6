// annotations.go defines the annotation types and parser for the Oxy WGSL shader pre-processor.
// Annotations are single-line WGSL comments prefixed with @oxy: that drive struct injection,
// bind group declaration, dynamic offset marking and conditional compilation on shader defs.
package shader

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// annotationPrefix is the marker that identifies an Oxy annotation within a WGSL comment line.
// Every annotation must appear on a line beginning with "//" followed by this prefix.
const annotationPrefix = "//@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude injects the WGSL source registered under a name via RegisterInclude.
	//
	// Syntax: //@oxy:include <name>
	//
	// Example: //@oxy:include view
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a @group/@binding variable declaration whose type is the
	// struct registered under the given include name, and records the declaration.
	//
	// Syntax: //@oxy:group <group> <binding> <address_space> <var_name> <include_name>
	//
	// Example: //@oxy:group 0 0 uniform view view
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeDynamic marks a buffer binding as using dynamic offsets. It produces no WGSL output;
	// the parsed layout entry for the binding gets HasDynamicOffset set.
	//
	// Syntax: //@oxy:dynamic <group> <binding>
	AnnotationTypeDynamic AnnotationType = "dynamic"

	// annotationTypeIfdef, annotationTypeIfndef, annotationTypeElse and annotationTypeEndif bracket
	// source that is only kept when a shader def is (or is not) enabled.
	//
	// Syntax:
	//   //@oxy:ifdef <DEF>
	//   //@oxy:ifndef <DEF>
	//   //@oxy:else
	//   //@oxy:endif
	annotationTypeIfdef  AnnotationType = "ifdef"
	annotationTypeIfndef AnnotationType = "ifndef"
	annotationTypeElse   AnnotationType = "else"
	annotationTypeEndif  AnnotationType = "endif"
)

// validAddressSpaces maps the address space argument of a group annotation to WGSL var<> syntax.
var validAddressSpaces = map[string]string{
	"uniform":            "var<uniform>",
	"storage_read":       "var<storage, read>",
	"storage_read_write": "var<storage, read_write>",
}

// defNameRegex restricts shader def names to upper-case identifiers.
var defNameRegex = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// Annotation represents a single parsed @oxy: annotation from a WGSL shader source line.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments. The contents depend on Type:
	//   - include: [0] = include name
	//   - group:   [0] = address space, [1] = var name, [2] = include name
	//   - ifdef/ifndef: [0] = shader def name
	Args []string

	// Line is the 1-based source line the annotation was found on.
	Line int

	// Group and Binding are set for group and dynamic annotations.
	Group   *int
	Binding *int
}

// parseAnnotation attempts to parse a single source line as an @oxy annotation.
//
// Parameters:
//   - line: the raw source line
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	after, ok := strings.CutPrefix(strings.TrimSpace(line), annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	a := &Annotation{Type: AnnotationType(args[0]), Line: lineNum}
	switch a.Type {
	case annotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
		}
		a.Args = args[1:]
	case AnnotationTypeBindingGroup:
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: @oxy group annotation requires group, binding, address space, var name and type", lineNum)
		}
		if err := a.parseGroupBinding(args[1], args[2]); err != nil {
			return nil, err
		}
		if _, ok := validAddressSpaces[args[3]]; !ok {
			return nil, fmt.Errorf("line %d: unknown address space %q in @oxy group annotation", lineNum, args[3])
		}
		a.Args = args[3:]
	case AnnotationTypeDynamic:
		if len(args) != 3 {
			return nil, fmt.Errorf("line %d: @oxy dynamic annotation requires group and binding", lineNum)
		}
		if err := a.parseGroupBinding(args[1], args[2]); err != nil {
			return nil, err
		}
	case annotationTypeIfdef, annotationTypeIfndef:
		if len(args) != 2 || !defNameRegex.MatchString(args[1]) {
			return nil, fmt.Errorf("line %d: @oxy %s requires one upper-case shader def name", lineNum, a.Type)
		}
		a.Args = args[1:]
	case annotationTypeElse, annotationTypeEndif:
		if len(args) != 1 {
			return nil, fmt.Errorf("line %d: @oxy %s takes no arguments", lineNum, a.Type)
		}
	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
	return a, nil
}

func (a *Annotation) parseGroupBinding(group, binding string) error {
	g, err := strconv.Atoi(group)
	if err != nil {
		return fmt.Errorf("line %d: invalid group number %q: %w", a.Line, group, err)
	}
	b, err := strconv.Atoi(binding)
	if err != nil {
		return fmt.Errorf("line %d: invalid binding number %q: %w", a.Line, binding, err)
	}
	a.Group, a.Binding = &g, &b
	return nil
}
