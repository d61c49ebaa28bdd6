// pre_processor.go implements the Oxy WGSL shader pre-processor. It scans shader
// source code for @oxy: annotations, replaces them with injected struct source or generated
// declarations, strips blocks disabled by shader defs, and collects a declarations list
// used when building bind group layouts.
//
// Struct sources are contributed by the packages that own the matching Go GPU types through
// RegisterInclude, usually from an init function next to the //go:embed of the .wgsl asset.
package shader

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// registryEntry pairs a WGSL struct source string with the WGSL type name used in generated
// @group/@binding declarations.
type registryEntry struct {
	// Source is the raw WGSL struct definition text injected by @oxy:include.
	Source string

	// Type is the WGSL type name emitted in @oxy:group declarations (e.g. "View", "Globals").
	Type string
}

var (
	registryMu sync.RWMutex
	registry   = map[string]registryEntry{}
)

// RegisterInclude makes WGSL source available to //@oxy:include and //@oxy:group annotations
// under name. Registering the same name twice replaces the earlier source.
//
// Parameters:
//   - name: the include name used in annotations
//   - typeName: the WGSL struct name declared by source
//   - source: the WGSL source to inject
func RegisterInclude(name, typeName, source string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = registryEntry{Source: source, Type: typeName}
}

func lookupInclude(name string) (registryEntry, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := registry[name]
	return e, ok
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// declarations accumulates group and dynamic annotations during a Process call.
	declarations []Annotation
}

// PreProcessor processes raw WGSL shader source code containing @oxy: annotations.
type PreProcessor interface {
	// Process pre-processes WGSL source. Includes are replaced with registered struct source,
	// group annotations with generated declarations, and ifdef/ifndef blocks are kept or dropped
	// depending on defs. Included source is processed too, so includes may nest.
	//
	// The declarations list is reset at the start of each call and can be retrieved
	// via Declarations() after Process returns.
	//
	// Parameters:
	//   - source: the raw WGSL shader source code containing annotations to be processed
	//   - defs: the shader defs enabled for this variant
	//
	// Returns:
	//   - string: the processed WGSL shader source code
	//   - error: an error if any annotation is malformed, unbalanced or references an unknown include
	Process(source string, defs ...string) (string, error)

	// Declarations returns the group and dynamic annotations collected during the most recent
	// call to Process, in source order.
	//
	// Returns:
	//   - []Annotation: the declarations collected during the last Process call
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a new PreProcessor backed by the process-wide include registry.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{}
}

// condFrame tracks one open ifdef/ifndef block.
type condFrame struct {
	parentActive bool
	taken        bool
	inElse       bool
}

func (p *preProcessor) Process(source string, defs ...string) (string, error) {
	p.declarations = p.declarations[:0]
	return p.process(source, defs, nil)
}

func (p *preProcessor) process(source string, defs []string, including []string) (string, error) {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	var stack []condFrame
	active := true

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			if active {
				out = append(out, line)
			}
			continue
		}

		switch a.Type {
		case annotationTypeIfdef, annotationTypeIfndef:
			enabled := slices.Contains(defs, a.Args[0])
			if a.Type == annotationTypeIfndef {
				enabled = !enabled
			}
			stack = append(stack, condFrame{parentActive: active, taken: enabled})
			active = active && enabled
			continue
		case annotationTypeElse:
			if len(stack) == 0 || stack[len(stack)-1].inElse {
				return "", fmt.Errorf("line %d: @oxy else without matching ifdef", a.Line)
			}
			top := &stack[len(stack)-1]
			top.inElse = true
			active = top.parentActive && !top.taken
			continue
		case annotationTypeEndif:
			if len(stack) == 0 {
				return "", fmt.Errorf("line %d: @oxy endif without matching ifdef", a.Line)
			}
			active = stack[len(stack)-1].parentActive
			stack = stack[:len(stack)-1]
			continue
		}

		if !active {
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			name := a.Args[0]
			if slices.Contains(including, name) {
				return "", fmt.Errorf("line %d: include cycle through %q", a.Line, name)
			}
			entry, ok := lookupInclude(name)
			if !ok {
				return "", fmt.Errorf("line %d: unknown @oxy:include argument %q", a.Line, name)
			}
			included, err := p.process(entry.Source, defs, append(slices.Clone(including), name))
			if err != nil {
				return "", fmt.Errorf("include %q: %w", name, err)
			}
			out = append(out, included)
		case AnnotationTypeBindingGroup:
			entry, ok := lookupInclude(a.Args[2])
			if !ok {
				return "", fmt.Errorf("line %d: unknown struct type %q in @oxy group annotation", a.Line, a.Args[2])
			}
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;", *a.Group, *a.Binding, validAddressSpaces[a.Args[0]], a.Args[1], entry.Type))
			p.declarations = append(p.declarations, *a)
		case AnnotationTypeDynamic:
			p.declarations = append(p.declarations, *a)
		}
	}

	if len(stack) != 0 {
		return "", errors.New("unterminated @oxy ifdef block")
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}
