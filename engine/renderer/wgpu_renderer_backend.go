package renderer

import (
	_ "embed"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/render_resource"
	"github.com/Carmen-Shannon/oxy-ui/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// hdrBlitSource draws the HDR intermediate target onto the surface.
//
//go:embed assets/hdr_blit.wgsl
var hdrBlitSource string

// HDRFormat is the color format of the intermediate target when HDR output is enabled.
const HDRFormat = wgpu.TextureFormatRGBA16Float

// DepthFormat is the format of the main pass depth attachment.
const DepthFormat = wgpu.TextureFormatDepth24Plus

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        wgpu.TextureFormat
	msaaTextureView      *wgpu.TextureView
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode // defaults to PresentModeImmediate (Uncapped)
	sampleCount MSAASampleCount  // MSAA sample count for the main render pass
	clearColor  wgpu.Color

	// hdr renders the main pass into an RGBA16Float target that is blitted onto the surface in EndFrame
	hdr          bool
	tonemap      bool
	hdrView      *render_resource.TextureView
	blitLayout   *render_resource.BindGroupLayout
	blitPipeline *render_resource.RenderPipeline
	blitProvider bind_group_provider.BindGroupProvider

	// Frame state for batched rendering across multiple draw calls
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, cfg backendConfig) RendererBackend {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeImmediate,
		sampleCount: cfg.sampleCount,
		hdr:         cfg.hdr,
		tonemap:     cfg.tonemap,
		clearColor: wgpu.Color{
			R: float64(cfg.clearColor.R),
			G: float64(cfg.clearColor.G),
			B: float64(cfg.clearColor.B),
			A: float64(cfg.clearColor.A),
		},
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: cfg.forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		panic(err)
	}
	w.adapter = a
	common.Logger().Info("adapter acquired", "fallback", cfg.forceFallbackAdapter, "msaa", cfg.sampleCount, "hdr", cfg.hdr)

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	w.device = d
	w.queue = d.GetQueue()

	return w
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	width, height = max(width, 1), max(height, 1)
	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1
	targetFormat := b.targetFormat()

	if b.hdr {
		if err := b.configureHDRTarget(width, height); err != nil {
			panic(err)
		}
	}

	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if msaaEnabled {
		// The render pass draws into the MSAA texture and resolves into the swapchain or HDR view.
		b.msaaTextureView = b.createAttachment("MSAA Texture", width, height, count, targetFormat, wgpu.TextureUsageRenderAttachment)
	}

	// Depth texture sample count must match the color attachment.
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
	}
	b.depthTextureView = b.createAttachment("Depth Texture", width, height, count, DepthFormat, wgpu.TextureUsageRenderAttachment)

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard // Don't store MSAA data, just resolve
	}
	color := wgpu.RenderPassColorAttachment{
		View:       b.msaaTextureView, // nil when MSAA is off; set in BeginFrame unless HDR
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    storeOp,
		ClearValue: b.clearColor,
	}
	if b.hdr {
		if msaaEnabled {
			color.ResolveTarget = b.hdrView.Raw()
		} else {
			color.View = b.hdrView.Raw()
		}
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView, // Persistent until resize
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

// createAttachment creates a single-mip 2D texture and returns its default view. Failures are fatal
// since the surface cannot be rendered without its attachments.
func (b *wgpuRendererBackendImpl) createAttachment(label string, width, height int, samples uint32, format wgpu.TextureFormat, usage wgpu.TextureUsage) *wgpu.TextureView {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to create %s: %v", label, err))
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		panic(fmt.Sprintf("failed to create %s view: %v", label, err))
	}
	return view
}

// configureHDRTarget (re)creates the HDR intermediate target and the bind group the blit samples it
// through. The blit pipeline is compiled once, against the surface format.
func (b *wgpuRendererBackendImpl) configureHDRTarget(width, height int) error {
	if b.blitPipeline == nil {
		if err := b.createBlitPipeline(); err != nil {
			return err
		}
	}

	b.hdrView.Release()
	raw := b.createAttachment("HDR Target", width, height, 1, HDRFormat, wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageTextureBinding)
	b.hdrView = render_resource.NewTextureView("HDR Target", common.UVec2{X: uint32(width), Y: uint32(height)}, HDRFormat, nil, raw)

	if b.blitProvider == nil {
		samp, err := b.createSampler("HDR Blit Sampler", common.SamplerStagingData{
			AddressModeU: wgpu.AddressModeClampToEdge,
			AddressModeV: wgpu.AddressModeClampToEdge,
			AddressModeW: wgpu.AddressModeClampToEdge,
		})
		if err != nil {
			return err
		}
		b.blitProvider = bind_group_provider.NewBindGroupProvider("HDR Blit", bind_group_provider.WithSampler(1, samp))
		b.blitProvider.Own(samp.ID())
	}
	b.blitProvider.SetTextureView(0, b.hdrView)
	return b.createBindGroup(b.blitProvider, b.blitLayout)
}

func (b *wgpuRendererBackendImpl) createBlitPipeline() error {
	var defs []string
	if b.tonemap {
		defs = append(defs, "TONEMAP")
	}
	vs, err := shader.NewShader("hdr_blit_vs", shader.ShaderTypeVertex, hdrBlitSource, defs...)
	if err != nil {
		return err
	}
	fs, err := shader.NewShader("hdr_blit_fs", shader.ShaderTypeFragment, hdrBlitSource, defs...)
	if err != nil {
		return err
	}
	merged := pipeline.MergeBindGroupLayouts(vs.BindGroupLayoutDescriptors(), fs.BindGroupLayoutDescriptors())
	b.blitLayout, err = b.createBindGroupLayout("HDR Blit Layout", merged[0])
	if err != nil {
		return err
	}
	b.blitPipeline, err = b.createRenderPipeline(pipeline.NewRenderPipelineDescriptor("HDR Blit", vs, fs,
		pipeline.WithLayouts(b.blitLayout),
		pipeline.WithFormat(b.surfaceFormat),
		pipeline.WithDepthFormat(wgpu.TextureFormatUndefined),
		pipeline.WithBlendState(nil),
	))
	return err
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

func (b *wgpuRendererBackendImpl) SurfaceFormat() wgpu.TextureFormat {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surfaceFormat
}

func (b *wgpuRendererBackendImpl) TargetFormat() wgpu.TextureFormat {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.targetFormat()
}

func (b *wgpuRendererBackendImpl) targetFormat() wgpu.TextureFormat {
	if b.hdr {
		return HDRFormat
	}
	return b.surfaceFormat
}

func (b *wgpuRendererBackendImpl) SampleCount() MSAASampleCount {
	return b.sampleCount
}

func (b *wgpuRendererBackendImpl) CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (*render_resource.Buffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	raw, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             size,
		Usage:            usage,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, err
	}
	return render_resource.NewBuffer(label, size, usage, raw), nil
}

func (b *wgpuRendererBackendImpl) WriteBuffer(buf *render_resource.Buffer, offset uint64, data []byte) {
	if buf == nil || buf.Raw() == nil || len(data) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue.WriteBuffer(buf.Raw(), offset, data)
}

func (b *wgpuRendererBackendImpl) CreateBindGroupLayout(label string, descriptor wgpu.BindGroupLayoutDescriptor) (*render_resource.BindGroupLayout, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createBindGroupLayout(label, descriptor)
}

func (b *wgpuRendererBackendImpl) createBindGroupLayout(label string, descriptor wgpu.BindGroupLayoutDescriptor) (*render_resource.BindGroupLayout, error) {
	descriptor.Label = label
	raw, err := b.device.CreateBindGroupLayout(&descriptor)
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group layout %s: %w", label, err)
	}
	return render_resource.NewBindGroupLayout(label, descriptor, raw), nil
}

func (b *wgpuRendererBackendImpl) CreateBindGroup(provider bind_group_provider.BindGroupProvider, layout *render_resource.BindGroupLayout) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createBindGroup(provider, layout)
}

func (b *wgpuRendererBackendImpl) createBindGroup(provider bind_group_provider.BindGroupProvider, layout *render_resource.BindGroupLayout) error {
	if layout == nil {
		return fmt.Errorf("%s: bind group layout is nil", provider.Label())
	}
	resolved, err := bind_group_provider.ResolveEntries(provider, layout.Descriptor())
	if err != nil {
		return err
	}

	entries := make([]wgpu.BindGroupEntry, len(resolved))
	for i, r := range resolved {
		entries[i].Binding = r.Binding
		switch {
		case r.TextureView != nil:
			entries[i].TextureView = r.TextureView.Raw()
		case r.Sampler != nil:
			entries[i].Sampler = r.Sampler.Raw()
		default:
			entries[i].Buffer = r.Buffer.Buffer.Raw()
			entries[i].Offset = r.Buffer.Offset
			entries[i].Size = r.Buffer.Size
			if entries[i].Size == 0 {
				entries[i].Size = wgpu.WholeSize
			}
		}
	}

	label := provider.Label() + " Bind Group"
	raw, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   label,
		Layout:  layout.Raw(),
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("failed to create bind group %s: %w", label, err)
	}
	provider.SetBindGroup(render_resource.NewBindGroup(label, layout, raw))
	return nil
}

func (b *wgpuRendererBackendImpl) CreateRenderPipeline(desc pipeline.RenderPipelineDescriptor) (*render_resource.RenderPipeline, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createRenderPipeline(desc)
}

func (b *wgpuRendererBackendImpl) createRenderPipeline(desc pipeline.RenderPipelineDescriptor) (*render_resource.RenderPipeline, error) {
	vertexShader := desc.Shader(shader.ShaderTypeVertex)
	fragmentShader := desc.Shader(shader.ShaderTypeFragment)
	if vertexShader == nil || fragmentShader == nil {
		return nil, errors.New("both vertex and fragment shaders must be set to create a render pipeline")
	}

	vs, err := b.device.CreateShaderModule(vertexShader.Module())
	if err != nil {
		return nil, err
	}
	defer vs.Release()
	fs, err := b.device.CreateShaderModule(fragmentShader.Module())
	if err != nil {
		return nil, err
	}
	defer fs.Release()

	var bindGroupLayouts []*wgpu.BindGroupLayout
	if layouts := desc.Layouts(); len(layouts) > 0 {
		for _, l := range layouts {
			bindGroupLayouts = append(bindGroupLayouts, l.Raw())
		}
	} else {
		merged := desc.BindGroupLayoutDescriptors()
		bindGroupLayouts = make([]*wgpu.BindGroupLayout, pipeline.GroupCount(merged))
		for g, layoutDesc := range merged {
			layout, layoutErr := b.device.CreateBindGroupLayout(&layoutDesc)
			if layoutErr != nil {
				return nil, fmt.Errorf("failed to create bind group layout for group %d: %w", g, layoutErr)
			}
			defer layout.Release()
			bindGroupLayouts[g] = layout
		}
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label(),
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return nil, err
	}
	defer pipelineLayout.Release()

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  desc.Label() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
			Buffers:    vertexShader.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets:    []wgpu.ColorTargetState{desc.ColorTarget()},
		},
		Primitive: desc.Primitive(),
		Multisample: wgpu.MultisampleState{
			Count: desc.SampleCount(),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: desc.DepthStencil(),
	})
	if err != nil {
		return nil, err
	}
	return render_resource.NewRenderPipeline(desc.Label(), created), nil
}

func (b *wgpuRendererBackendImpl) CreateTexture(label string, data common.TextureStagingData) (*render_resource.TextureView, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if data.Width == 0 || data.Height == 0 {
		return nil, fmt.Errorf("%s: texture has zero extent %dx%d", label, data.Width, data.Height)
	}
	if want := int(data.Width) * int(data.Height) * 4; len(data.Pixels) != want {
		return nil, fmt.Errorf("%s: expected %d RGBA bytes, got %d", label, want, len(data.Pixels))
	}

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label,
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  data.Width * 4,
			RowsPerImage: data.Height,
		},
		&wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}
	return render_resource.NewTextureView(label, data.Size(), wgpu.TextureFormatRGBA8UnormSrgb, tex, view), nil
}

func (b *wgpuRendererBackendImpl) CreateSampler(label string, data common.SamplerStagingData) (*render_resource.Sampler, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createSampler(label, data)
}

func (b *wgpuRendererBackendImpl) createSampler(label string, data common.SamplerStagingData) (*render_resource.Sampler, error) {
	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  common.Coalesce(data.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(data.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(data.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(data.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(data.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(data.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   common.Coalesce(data.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(data.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(data.MaxAnisotropy, 1),
		Compare:       data.Compare,
	})
	if err != nil {
		return nil, err
	}
	return render_resource.NewSampler(label, samp), nil
}

func (b *wgpuRendererBackendImpl) BeginFrame() (TrackedRenderPass, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// If a previous frame's surface texture is still held, acquiring another one fails
	// with "Surface image is already acquired".
	if b.frameSurface != nil {
		return nil, errors.New("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return nil, err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return nil, err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return nil, err
	}

	// With HDR the attachments point at the intermediate target and never change per frame.
	if !b.hdr {
		if b.sampleCount > 1 {
			b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
		} else {
			b.renderPassDescriptor.ColorAttachments[0].View = view
		}
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view

	return newTrackedRenderPass(wgpuPassEncoder{raw: pass}), nil
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.End()
	b.framePass.Release()
	b.framePass = nil

	if b.hdr {
		b.encodeBlit()
	}

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		common.Logger().Warn("failed to finish frame command buffer", "error", err)
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.frameSurface = nil
		b.frameView = nil
		return
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
}

// encodeBlit resolves the HDR target onto the acquired surface view with a fullscreen triangle.
func (b *wgpuRendererBackendImpl) encodeBlit() {
	pass := b.frameEncoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       b.frameView,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{A: 1.0},
		}},
	})
	pass.SetPipeline(b.blitPipeline.Raw())
	pass.SetBindGroup(0, b.blitProvider.BindGroup().Raw(), nil)
	pass.Draw(3, 1, 0, 0)
	pass.End()
	pass.Release()
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	// If no frame surface is held, nothing to present.
	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.blitProvider != nil {
		b.blitProvider.Release()
	}
	b.blitPipeline.Release()
	b.blitLayout.Release()
	b.hdrView.Release()
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
	}
	b.queue.Release()
	b.device.Release()
	b.adapter.Release()
	b.surface.Release()
	b.instance.Release()
}
