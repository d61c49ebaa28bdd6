// Package render_resource holds opaque handles to GPU objects. Each handle carries a process-unique id
// and a debug label, plus the backing wgpu object when one was created by a real device. Handles without
// a backing object are valid and are what headless devices hand out.
package render_resource

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// ResourceID uniquely identifies a GPU resource handle for the lifetime of the process.
type ResourceID uint64

var resourceCount atomic.Uint64

func nextID() ResourceID {
	return ResourceID(resourceCount.Add(1))
}

// Buffer is a handle to a GPU buffer.
type Buffer struct {
	id    ResourceID
	label string
	size  uint64
	usage wgpu.BufferUsage
	raw   *wgpu.Buffer
}

// NewBuffer wraps a buffer created by a device. raw may be nil.
func NewBuffer(label string, size uint64, usage wgpu.BufferUsage, raw *wgpu.Buffer) *Buffer {
	return &Buffer{id: nextID(), label: label, size: size, usage: usage, raw: raw}
}

func (b *Buffer) ID() ResourceID          { return b.id }
func (b *Buffer) Label() string           { return b.label }
func (b *Buffer) Size() uint64            { return b.size }
func (b *Buffer) Usage() wgpu.BufferUsage { return b.usage }
func (b *Buffer) Raw() *wgpu.Buffer       { return b.raw }

// Release frees the backing GPU buffer, if any.
func (b *Buffer) Release() {
	if b == nil {
		return
	}
	if b.raw != nil {
		b.raw.Release()
		b.raw = nil
	}
}

// TextureView is a handle to a sampled texture view together with the pixel size of the texture.
type TextureView struct {
	id      ResourceID
	label   string
	size    common.UVec2
	format  wgpu.TextureFormat
	texture *wgpu.Texture
	raw     *wgpu.TextureView
}

// NewTextureView wraps a texture and its view. texture and raw may be nil.
func NewTextureView(label string, size common.UVec2, format wgpu.TextureFormat, texture *wgpu.Texture, raw *wgpu.TextureView) *TextureView {
	return &TextureView{id: nextID(), label: label, size: size, format: format, texture: texture, raw: raw}
}

func (v *TextureView) ID() ResourceID             { return v.id }
func (v *TextureView) Label() string              { return v.label }
func (v *TextureView) Size() common.UVec2         { return v.size }
func (v *TextureView) Format() wgpu.TextureFormat { return v.format }
func (v *TextureView) Raw() *wgpu.TextureView     { return v.raw }

// Release frees the view and the texture that backs it.
func (v *TextureView) Release() {
	if v == nil {
		return
	}
	if v.raw != nil {
		v.raw.Release()
		v.raw = nil
	}
	if v.texture != nil {
		v.texture.Release()
		v.texture = nil
	}
}

// Sampler is a handle to a GPU sampler.
type Sampler struct {
	id    ResourceID
	label string
	raw   *wgpu.Sampler
}

// NewSampler wraps a sampler. raw may be nil.
func NewSampler(label string, raw *wgpu.Sampler) *Sampler {
	return &Sampler{id: nextID(), label: label, raw: raw}
}

func (s *Sampler) ID() ResourceID     { return s.id }
func (s *Sampler) Label() string      { return s.label }
func (s *Sampler) Raw() *wgpu.Sampler { return s.raw }

func (s *Sampler) Release() {
	if s == nil {
		return
	}
	if s.raw != nil {
		s.raw.Release()
		s.raw = nil
	}
}

// BindGroupLayout is a handle to a bind group layout. The descriptor it was created from is kept so
// bind groups can be assembled against it without re-parsing shader source.
type BindGroupLayout struct {
	id         ResourceID
	label      string
	descriptor wgpu.BindGroupLayoutDescriptor
	raw        *wgpu.BindGroupLayout
}

// NewBindGroupLayout wraps a layout and the descriptor used to create it. raw may be nil.
func NewBindGroupLayout(label string, descriptor wgpu.BindGroupLayoutDescriptor, raw *wgpu.BindGroupLayout) *BindGroupLayout {
	return &BindGroupLayout{id: nextID(), label: label, descriptor: descriptor, raw: raw}
}

func (l *BindGroupLayout) ID() ResourceID                             { return l.id }
func (l *BindGroupLayout) Label() string                              { return l.label }
func (l *BindGroupLayout) Descriptor() wgpu.BindGroupLayoutDescriptor { return l.descriptor }
func (l *BindGroupLayout) Raw() *wgpu.BindGroupLayout                 { return l.raw }

func (l *BindGroupLayout) Release() {
	if l == nil {
		return
	}
	if l.raw != nil {
		l.raw.Release()
		l.raw = nil
	}
}

// BindGroup is a handle to a bind group.
type BindGroup struct {
	id     ResourceID
	label  string
	layout ResourceID
	raw    *wgpu.BindGroup
}

// NewBindGroup wraps a bind group created against the given layout. raw may be nil.
func NewBindGroup(label string, layout *BindGroupLayout, raw *wgpu.BindGroup) *BindGroup {
	bg := &BindGroup{id: nextID(), label: label, raw: raw}
	if layout != nil {
		bg.layout = layout.id
	}
	return bg
}

func (b *BindGroup) ID() ResourceID       { return b.id }
func (b *BindGroup) Label() string        { return b.label }
func (b *BindGroup) LayoutID() ResourceID { return b.layout }
func (b *BindGroup) Raw() *wgpu.BindGroup { return b.raw }

func (b *BindGroup) Release() {
	if b == nil {
		return
	}
	if b.raw != nil {
		b.raw.Release()
		b.raw = nil
	}
}

// RenderPipeline is a handle to a compiled render pipeline.
type RenderPipeline struct {
	id    ResourceID
	label string
	raw   *wgpu.RenderPipeline
}

// NewRenderPipeline wraps a compiled pipeline. raw may be nil.
func NewRenderPipeline(label string, raw *wgpu.RenderPipeline) *RenderPipeline {
	return &RenderPipeline{id: nextID(), label: label, raw: raw}
}

func (p *RenderPipeline) ID() ResourceID            { return p.id }
func (p *RenderPipeline) Label() string             { return p.label }
func (p *RenderPipeline) Raw() *wgpu.RenderPipeline { return p.raw }

func (p *RenderPipeline) Release() {
	if p == nil {
		return
	}
	if p.raw != nil {
		p.raw.Release()
		p.raw = nil
	}
}
