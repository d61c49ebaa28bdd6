package bind_group_provider

import "github.com/Carmen-Shannon/oxy-ui/engine/renderer/render_resource"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBuffer binds a whole buffer at a specific binding index.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the buffer to associate with this binding
//
// Returns:
//   - BindGroupProviderOption: a function that sets the buffer for the specified binding
func WithBuffer(binding int, buf *render_resource.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = BufferBinding{Buffer: buf}
	}
}

// WithBufferBinding binds a slice of a buffer at a specific binding index.
//
// Parameters:
//   - binding: the binding index for this buffer slice
//   - b: the buffer slice to associate with this binding
//
// Returns:
//   - BindGroupProviderOption: a function that sets the buffer slice for the specified binding
func WithBufferBinding(binding int, b BufferBinding) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = b
	}
}

// WithTextureView binds a texture view at a specific binding index.
//
// Parameters:
//   - binding: the binding index for this texture view
//   - tv: the texture view to associate with this binding
//
// Returns:
//   - BindGroupProviderOption: a function that sets the texture view for the specified binding
func WithTextureView(binding int, tv *render_resource.TextureView) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.textureViews[binding] = tv
	}
}

// WithSampler binds a sampler at a specific binding index.
//
// Parameters:
//   - binding: the binding index for this sampler
//   - s: the sampler to associate with this binding
//
// Returns:
//   - BindGroupProviderOption: a function that sets the sampler for the specified binding
func WithSampler(binding int, s *render_resource.Sampler) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.samplers[binding] = s
	}
}
