package bind_group_provider

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/render_resource"
	"github.com/cogentcore/webgpu/wgpu"
)

// BufferBinding describes the slice of a buffer bound at one binding index.
// A zero Size binds the remainder of the buffer starting at Offset.
type BufferBinding struct {
	Buffer *render_resource.Buffer
	Offset uint64
	Size   uint64
}

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string

	// bindGroup is the bind group assembled from the resources below, or nil until a device creates it.
	bindGroup *render_resource.BindGroup
	// buffers holds the buffer bindings for this provider, keyed by binding index.
	buffers map[int]BufferBinding
	// textureViews holds the texture views for this provider, keyed by binding index.
	textureViews map[int]*render_resource.TextureView
	// samplers holds the samplers for this provider, keyed by binding index.
	samplers map[int]*render_resource.Sampler

	// owned marks resources this provider created and must release. Borrowed resources,
	// such as the texture view of a shared image, are left alone on Release.
	owned map[render_resource.ResourceID]bool
}

// BindGroupProvider collects the GPU resources that make up one bind group and holds the bind group once
// a device has assembled it.
//
// Usage pattern:
//  1. Create a provider and attach buffers, texture views and samplers by binding index
//  2. Call RenderDevice.CreateBindGroup(provider, layout) to assemble the bind group
//  3. Read BindGroup() when recording draw commands
//  4. Call Release() when the bind group is evicted
type BindGroupProvider interface {
	// Release releases the bind group and every resource the provider owns.
	// Borrowed resources are only dropped from the provider.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the assembled bind group.
	// Returns nil if no device has created it yet.
	//
	// Returns:
	//   - *render_resource.BindGroup: the bind group or nil
	BindGroup() *render_resource.BindGroup

	// Buffer returns the buffer bound at the given binding index, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *render_resource.Buffer: the buffer or nil
	Buffer(binding int) *render_resource.Buffer

	// BufferBinding returns the buffer slice bound at the given binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - BufferBinding: the binding
	//   - bool: false if no buffer is bound at the index
	BufferBinding(binding int) (BufferBinding, bool)

	// TextureView returns the texture view for a specific binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *render_resource.TextureView: the texture view or nil
	TextureView(binding int) *render_resource.TextureView

	// Sampler returns the sampler for a specific binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *render_resource.Sampler: the sampler or nil
	Sampler(binding int) *render_resource.Sampler

	// SetBindGroup stores the bind group after a device has assembled it, releasing any previous one.
	//
	// Parameters:
	//   - bg: the created bind group
	SetBindGroup(bg *render_resource.BindGroup)

	// SetBuffer binds a whole buffer at a binding index. The provider does not take ownership.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the buffer to bind
	SetBuffer(binding int, buf *render_resource.Buffer)

	// SetBufferBinding binds a slice of a buffer at a binding index. Dynamic uniform bindings use
	// a fixed Size so per-draw offsets select the element.
	//
	// Parameters:
	//   - binding: the binding index
	//   - b: the buffer slice to bind
	SetBufferBinding(binding int, b BufferBinding)

	// SetTextureView binds a texture view at a binding index. The provider does not take ownership.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tv: the texture view to store
	SetTextureView(binding int, tv *render_resource.TextureView)

	// SetSampler binds a sampler at a binding index. The provider does not take ownership.
	//
	// Parameters:
	//   - binding: the binding index
	//   - s: the sampler to store
	SetSampler(binding int, s *render_resource.Sampler)

	// Own marks a resource as owned by this provider so Release frees it.
	//
	// Parameters:
	//   - id: the id of a resource previously bound on this provider
	Own(id render_resource.ResourceID)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: a debug label used for the bind group and any resources created for it
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		buffers:      make(map[int]BufferBinding),
		textureViews: make(map[int]*render_resource.TextureView),
		samplers:     make(map[int]*render_resource.Sampler),
		owned:        make(map[render_resource.ResourceID]bool),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *render_resource.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) Buffer(binding int) *render_resource.Buffer {
	return p.buffers[binding].Buffer
}

func (p *bindGroupProvider) BufferBinding(binding int) (BufferBinding, bool) {
	b, ok := p.buffers[binding]
	return b, ok && b.Buffer != nil
}

func (p *bindGroupProvider) TextureView(binding int) *render_resource.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) Sampler(binding int) *render_resource.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) SetBindGroup(bg *render_resource.BindGroup) {
	if p.bindGroup != nil && p.bindGroup != bg {
		p.bindGroup.Release()
	}
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *render_resource.Buffer) {
	p.buffers[binding] = BufferBinding{Buffer: buf}
}

func (p *bindGroupProvider) SetBufferBinding(binding int, b BufferBinding) {
	p.buffers[binding] = b
}

func (p *bindGroupProvider) SetTextureView(binding int, tv *render_resource.TextureView) {
	p.textureViews[binding] = tv
}

func (p *bindGroupProvider) SetSampler(binding int, s *render_resource.Sampler) {
	p.samplers[binding] = s
}

func (p *bindGroupProvider) Own(id render_resource.ResourceID) {
	p.owned[id] = true
}

func (p *bindGroupProvider) Release() {
	for i, tv := range p.textureViews {
		if tv != nil && p.owned[tv.ID()] {
			tv.Release()
		}
		delete(p.textureViews, i)
	}
	for i, s := range p.samplers {
		if s != nil && p.owned[s.ID()] {
			s.Release()
		}
		delete(p.samplers, i)
	}
	for i, b := range p.buffers {
		if b.Buffer != nil && p.owned[b.Buffer.ID()] {
			b.Buffer.Release()
		}
		delete(p.buffers, i)
	}
	clear(p.owned)

	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
}

// ResolvedEntry is one bind group entry with its resource looked up on a provider.
// Exactly one of Buffer, TextureView or Sampler is set.
type ResolvedEntry struct {
	Binding     uint32
	Buffer      *BufferBinding
	TextureView *render_resource.TextureView
	Sampler     *render_resource.Sampler
}

// ResolveEntries matches every entry of a layout descriptor to a resource bound on the provider.
// Devices call it before assembling a bind group.
//
// Parameters:
//   - p: the provider holding the resources
//   - descriptor: the layout the bind group is created against
//
// Returns:
//   - []ResolvedEntry: one entry per layout entry, in layout order
//   - error: an error naming the first binding with no matching resource
func ResolveEntries(p BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) ([]ResolvedEntry, error) {
	entries := make([]ResolvedEntry, len(descriptor.Entries))
	for i, entry := range descriptor.Entries {
		binding := int(entry.Binding)
		entries[i].Binding = entry.Binding

		switch {
		case entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
			tv := p.TextureView(binding)
			if tv == nil {
				return nil, fmt.Errorf("%s: texture binding %d has no texture view", p.Label(), binding)
			}
			entries[i].TextureView = tv
		case entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
			s := p.Sampler(binding)
			if s == nil {
				return nil, fmt.Errorf("%s: sampler binding %d has no sampler", p.Label(), binding)
			}
			entries[i].Sampler = s
		default:
			b, ok := p.BufferBinding(binding)
			if !ok {
				return nil, fmt.Errorf("%s: buffer binding %d has no buffer", p.Label(), binding)
			}
			if entry.Buffer.HasDynamicOffset && b.Size == 0 {
				b.Size = entry.Buffer.MinBindingSize
			}
			entries[i].Buffer = &b
		}
	}
	return entries, nil
}
