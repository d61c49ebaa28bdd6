package shader

import (
	"fmt"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader module is compiled for.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

// String returns the stage name used in labels and log lines.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// shader is the implementation of the Shader interface.
// It holds the processed source and the layout metadata required for pipeline creation.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	defs                       []string
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayouts              []wgpu.VertexBufferLayout
	entryPoint                 string
	declarations               []Annotation
}

// Shader is a pre-processed and parsed WGSL shader stage. It exposes the shader's key, processed
// source, entry point, bind group layout descriptors and vertex buffer layouts needed for pipeline
// creation and resource wiring.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and labels.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the processed WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source with annotations resolved and disabled blocks removed
	Source() string

	// ShaderType returns the stage of the shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// EntryPoint returns the entry point name for this shader.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vertex")
	EntryPoint() string

	// Defs returns the shader defs the source was processed with, sorted.
	//
	// Returns:
	//   - []string: the enabled shader defs
	Defs() []string

	// BindGroupLayoutDescriptor retrieves the bind group layout descriptor for a group index.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor for the group, or an empty descriptor if the shader declares none
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves all parsed bind group layout descriptors keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the WGSL variable name declared at a group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if nothing is declared there
	BindGroupVarName(group, binding int) string

	// VertexLayouts retrieves the vertex buffer layouts of a vertex shader in slot order.
	// Fragment shaders have none.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the layouts, one per vertex buffer slot
	VertexLayouts() []wgpu.VertexBufferLayout

	// Module builds the shader module descriptor for device creation.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor holding the processed WGSL code and key label
	Module() *wgpu.ShaderModuleDescriptor

	// Declarations returns the group and dynamic annotations found while processing the source.
	//
	// Returns:
	//   - []Annotation: the declarations in source order
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader pre-processes WGSL source with the given shader defs and parses its entry point,
// vertex layouts and bind group layouts. Bindings marked with a dynamic annotation get
// HasDynamicOffset set on their layout entry.
//
// Parameters:
//   - key: a unique identifier for the shader, used for labels
//   - shaderType: the stage the shader is compiled for
//   - source: the raw WGSL source containing @oxy annotations
//   - defs: the shader defs enabled for this variant
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if pre-processing fails, no entry point exists, or a dynamic annotation names an undeclared binding
func NewShader(key string, shaderType ShaderType, source string, defs ...string) (Shader, error) {
	pp := NewPreProcessor()
	processed, err := pp.Process(source, defs...)
	if err != nil {
		return nil, fmt.Errorf("shader %s: failed to pre-process source: %w", key, err)
	}

	s := &shader{
		key:          key,
		source:       processed,
		shaderType:   shaderType,
		defs:         slices.Sorted(slices.Values(defs)),
		declarations: slices.Clone(pp.Declarations()),
	}

	s.entryPoint = parseEntryPoint(s.source, s.shaderType)
	if s.entryPoint == "" {
		return nil, fmt.Errorf("shader %s: no @%s entry point found", key, shaderType)
	}
	if s.shaderType == ShaderTypeVertex {
		s.vertexLayouts = parseVertexLayouts(s.source)
	}

	visibility := wgpu.ShaderStageVertex
	if s.shaderType == ShaderTypeFragment {
		visibility = wgpu.ShaderStageFragment
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(s.source, visibility)

	if err := s.applyDynamicOffsets(); err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Defs() []string {
	return s.defs
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	return s.bindingVarNames[group][binding]
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}

func (s *shader) applyDynamicOffsets() error {
	for _, a := range s.declarations {
		if a.Type != AnnotationTypeDynamic {
			continue
		}
		desc, ok := s.bindGroupLayoutDescriptors[*a.Group]
		if !ok {
			return fmt.Errorf("line %d: dynamic annotation references undeclared group %d", a.Line, *a.Group)
		}
		idx := slices.IndexFunc(desc.Entries, func(e wgpu.BindGroupLayoutEntry) bool {
			return e.Binding == uint32(*a.Binding)
		})
		if idx < 0 || desc.Entries[idx].Buffer.Type == wgpu.BufferBindingTypeUndefined {
			return fmt.Errorf("line %d: dynamic annotation references non-buffer binding %d in group %d", a.Line, *a.Binding, *a.Group)
		}
		desc.Entries[idx].Buffer.HasDynamicOffset = true
	}
	return nil
}
