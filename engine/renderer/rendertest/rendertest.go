// Package rendertest provides GPU-free implementations of the renderer capabilities for tests.
// Resources handed out carry real IDs and labels but no GPU objects.
package rendertest

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/render_resource"
	"github.com/cogentcore/webgpu/wgpu"
)

// Device records every resource it creates. Set a Fail field to make the matching call return it.
type Device struct {
	mu *sync.Mutex

	Buffers    []*render_resource.Buffer
	Writes     map[render_resource.ResourceID][]byte
	Layouts    int
	BindGroups int
	Pipelines  []pipeline.RenderPipelineDescriptor
	Textures   []*render_resource.TextureView
	Samplers   int

	FailBuffers    error
	FailBindGroups error
	FailPipelines  error
	FailTextures   error
}

// NewDevice creates an empty recording device.
func NewDevice() *Device {
	return &Device{
		mu:     &sync.Mutex{},
		Writes: make(map[render_resource.ResourceID][]byte),
	}
}

func (d *Device) CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (*render_resource.Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailBuffers != nil {
		return nil, d.FailBuffers
	}
	buf := render_resource.NewBuffer(label, size, usage, nil)
	d.Buffers = append(d.Buffers, buf)
	return buf, nil
}

// WriteBuffer stores a copy of data at offset, growing the recorded contents as needed.
func (d *Device) WriteBuffer(buf *render_resource.Buffer, offset uint64, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	contents := d.Writes[buf.ID()]
	if end := int(offset) + len(data); end > len(contents) {
		contents = append(contents, make([]byte, end-len(contents))...)
	}
	copy(contents[offset:], data)
	d.Writes[buf.ID()] = contents
}

func (d *Device) CreateBindGroupLayout(label string, descriptor wgpu.BindGroupLayoutDescriptor) (*render_resource.BindGroupLayout, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Layouts++
	return render_resource.NewBindGroupLayout(label, descriptor, nil), nil
}

func (d *Device) CreateBindGroup(provider bind_group_provider.BindGroupProvider, layout *render_resource.BindGroupLayout) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailBindGroups != nil {
		return d.FailBindGroups
	}
	if _, err := bind_group_provider.ResolveEntries(provider, layout.Descriptor()); err != nil {
		return err
	}
	d.BindGroups++
	provider.SetBindGroup(render_resource.NewBindGroup(provider.Label(), layout, nil))
	return nil
}

func (d *Device) CreateRenderPipeline(desc pipeline.RenderPipelineDescriptor) (*render_resource.RenderPipeline, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailPipelines != nil {
		return nil, d.FailPipelines
	}
	d.Pipelines = append(d.Pipelines, desc)
	return render_resource.NewRenderPipeline(desc.Label(), nil), nil
}

func (d *Device) CreateTexture(label string, data common.TextureStagingData) (*render_resource.TextureView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailTextures != nil {
		return nil, d.FailTextures
	}
	tv := render_resource.NewTextureView(label, data.Size(), wgpu.TextureFormatRGBA8UnormSrgb, nil, nil)
	d.Textures = append(d.Textures, tv)
	return tv, nil
}

func (d *Device) CreateSampler(label string, data common.SamplerStagingData) (*render_resource.Sampler, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Samplers++
	return render_resource.NewSampler(label, nil), nil
}

// Contents returns the bytes written to buf so far.
func (d *Device) Contents(buf *render_resource.Buffer) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Writes[buf.ID()]
}

// CommandKind names a recorded pass command.
type CommandKind int

const (
	CommandSetPipeline CommandKind = iota
	CommandSetBindGroup
	CommandSetVertexBuffer
	CommandSetIndexBuffer
	CommandDrawIndexed
)

// Command is one recorded pass command. Only the fields of its kind are set.
type Command struct {
	Kind       CommandKind
	ResourceID render_resource.ResourceID
	Index      uint32
	Offsets    []uint32
	Indices    common.Range
	BaseVertex int32
	Instances  common.Range
}

// Pass records commands without eliding redundant state.
type Pass struct {
	Commands []Command
}

func (p *Pass) SetRenderPipeline(rp *render_resource.RenderPipeline) {
	p.Commands = append(p.Commands, Command{Kind: CommandSetPipeline, ResourceID: rp.ID()})
}

func (p *Pass) SetBindGroup(index uint32, bg *render_resource.BindGroup, dynamicOffsets ...uint32) {
	p.Commands = append(p.Commands, Command{Kind: CommandSetBindGroup, ResourceID: bg.ID(), Index: index, Offsets: dynamicOffsets})
}

func (p *Pass) SetVertexBuffer(slot uint32, buf *render_resource.Buffer) {
	p.Commands = append(p.Commands, Command{Kind: CommandSetVertexBuffer, ResourceID: buf.ID(), Index: slot})
}

func (p *Pass) SetIndexBuffer(buf *render_resource.Buffer, format wgpu.IndexFormat) {
	p.Commands = append(p.Commands, Command{Kind: CommandSetIndexBuffer, ResourceID: buf.ID()})
}

func (p *Pass) DrawIndexed(indices common.Range, baseVertex int32, instances common.Range) {
	p.Commands = append(p.Commands, Command{Kind: CommandDrawIndexed, Indices: indices, BaseVertex: baseVertex, Instances: instances})
}

// Draws returns the recorded DrawIndexed commands.
func (p *Pass) Draws() []Command {
	var draws []Command
	for _, c := range p.Commands {
		if c.Kind == CommandDrawIndexed {
			draws = append(draws, c)
		}
	}
	return draws
}
