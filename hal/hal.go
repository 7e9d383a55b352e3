package hal

import (
	"context"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// WholeSize asks for the remainder of a buffer after an offset.
const WholeSize = ^uint64(0)

// Platform is the entry point of a native layer.
type Platform interface {
	// Name returns the registry name of the platform.
	Name() string

	// RequestAdapter selects an adapter. It returns (nil, nil) when the
	// platform has no adapter to offer.
	RequestAdapter(ctx context.Context, opts Object) (Adapter, error)

	// PreferredCanvasFormat returns the WebGPU name of the swap-chain format
	// canvases should be configured with.
	PreferredCanvasFormat() string
}

// CanvasFactory is implemented by platforms that can create headless canvases.
type CanvasFactory interface {
	NewCanvas(width, height uint32) Canvas
}

// Resource is the common surface of every native object.
type Resource interface {
	Label() string
}

// Adapter is a selected physical or logical GPU.
type Adapter interface {
	// Features returns the WebGPU feature names the adapter supports.
	Features() []string
	Info() gpucontext.AdapterInfo
	// RequestDevice returns (nil, nil) when the adapter refuses to create a device.
	RequestDevice(ctx context.Context, desc Object) (Device, error)
}

// Device creates resources and owns everything it creates.
type Device interface {
	Resource
	Queue() Queue
	CreateBuffer(desc Object) (Buffer, error)
	CreateShaderModule(desc Object) (ShaderModule, error)
	CreateBindGroupLayout(desc Object) (BindGroupLayout, error)
	CreatePipelineLayout(desc Object) (PipelineLayout, error)
	CreateRenderPipeline(desc Object) (RenderPipeline, error)
	CreateCommandEncoder(desc Object) (CommandEncoder, error)
	CreateRenderBundleEncoder(desc Object) (RenderBundleEncoder, error)
	Destroy()
}

// Queue executes finished command buffers in order.
type Queue interface {
	Submit(buffers []CommandBuffer) error
}

// Buffer is a fixed-size GPU byte region.
type Buffer interface {
	Resource
	Size() uint64
	Usage() gputypes.BufferUsage
	// MapAsync maps [offset, offset+size) for CPU access and returns once the
	// mapping is usable or has failed.
	MapAsync(ctx context.Context, mode gputypes.MapMode, offset, size uint64) error
	// GetMappedRange returns a writable view of a mapped window. Writes become
	// visible to the GPU at Unmap.
	GetMappedRange(offset, size uint64) ([]byte, error)
	Unmap() error
	Destroy()
}

// Texture is a GPU image.
type Texture interface {
	Resource
	Format() string
	Width() uint32
	Height() uint32
	CreateView(desc Object) (TextureView, error)
	Destroy()
}

// TextureView is a typed window into a texture.
type TextureView interface {
	Resource
}

// ShaderModule is a compiled shader.
type ShaderModule interface {
	Resource
}

// BindGroupLayout describes the bindings of one bind group.
type BindGroupLayout interface {
	Resource
}

// PipelineLayout is an ordered list of bind group layouts.
type PipelineLayout interface {
	Resource
}

// RenderPipeline is an immutable render state object.
type RenderPipeline interface {
	Resource
}

// CommandBuffer is a finished, immutable list of commands.
type CommandBuffer interface {
	Resource
}

// RenderBundle is a pre-recorded draw sequence.
type RenderBundle interface {
	Resource
}

// CommandEncoder records copies and render passes.
type CommandEncoder interface {
	CopyBufferToBuffer(src Buffer, srcOffset uint64, dst Buffer, dstOffset, size uint64) error
	BeginRenderPass(desc Object) (RenderPassEncoder, error)
	Finish(desc Object) (CommandBuffer, error)
}

// RenderPassEncoder records commands scoped to one render pass.
type RenderPassEncoder interface {
	SetPipeline(p RenderPipeline) error
	SetViewport(x, y, width, height, minDepth, maxDepth float32) error
	SetScissorRect(x, y, width, height uint32) error
	SetVertexBuffer(slot uint32, b Buffer, offset, size uint64) error
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) error
	ExecuteBundles(bundles []RenderBundle) error
	End() error
}

// RenderBundleEncoder records a reusable draw sequence.
type RenderBundleEncoder interface {
	SetPipeline(p RenderPipeline) error
	SetVertexBuffer(slot uint32, b Buffer, offset, size uint64) error
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) error
	Finish(desc Object) (RenderBundle, error)
}

// Canvas is a drawable surface, the equivalent of an HTML canvas element.
type Canvas interface {
	// Context returns the presentation context of the given kind ("webgpu").
	// It returns (nil, nil) when the kind is not supported.
	Context(kind string) (CanvasContext, error)
}

// CanvasContext presents textures on a canvas.
type CanvasContext interface {
	Configure(cfg Object) error
	CurrentTexture() (Texture, error)
}

// Snapshotter is implemented by canvases whose current frame can be read
// back to the CPU.
type Snapshotter interface {
	Snapshot(ctx context.Context) (*image.RGBA, error)
}
