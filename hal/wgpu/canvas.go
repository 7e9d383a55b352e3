//go:build !(js && wasm)

package wgpu

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gputypes"
	gpu "github.com/gogpu/wgpu"
)

// copyRowAlignment is the bytes-per-row alignment of texture-to-buffer copies.
const copyRowAlignment = 256

// frameRange covers the single mip level and layer of a canvas texture.
var frameRange = gpu.TextureRange{Aspect: gputypes.TextureAspectAll, MipLevelCount: 1, ArrayLayerCount: 1}

// Canvas is an offscreen drawing surface. Its current texture lives on the
// device it was configured with and can be read back with Snapshot.
type Canvas struct {
	width  uint32
	height uint32
	ctx    *canvasContext
}

// NewCanvas creates a width x height canvas.
func NewCanvas(width, height uint32) *Canvas {
	c := &Canvas{width: width, height: height}
	c.ctx = &canvasContext{canvas: c}
	return c
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() (width, height uint32) { return c.width, c.height }

// Context returns the "webgpu" context; other kinds are not supported.
func (c *Canvas) Context(kind string) (hal.CanvasContext, error) {
	if kind != "webgpu" {
		return nil, nil
	}
	return c.ctx, nil
}

type canvasContext struct {
	mu      sync.Mutex
	canvas  *Canvas
	device  *device
	format  gputypes.TextureFormat
	current *texture
}

func (c *canvasContext) Configure(cfg hal.Object) error {
	var cc hal.CanvasConfiguration
	if err := hal.Decode(cfg, &cc); err != nil {
		return err
	}
	dev, ok := cc.Device.(*device)
	if !ok {
		return fmt.Errorf("%w: device", hal.ErrForeignHandle)
	}
	format, err := hal.ParseTextureFormat(cc.Format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedCanvasFormat, err)
	}
	switch format {
	case gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA16Float:
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedCanvasFormat, cc.Format)
	}
	switch cc.AlphaMode {
	case "", "opaque", "premultiplied":
	default:
		return fmt.Errorf("%w: alpha mode %q", ErrInvalidDescriptor, cc.AlphaMode)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.current.Destroy()
		c.current = nil
	}
	c.device, c.format = dev, format
	hal.Logger().Debug("wgpu: canvas configured", "format", cc.Format,
		"width", c.canvas.width, "height", c.canvas.height)
	return nil
}

// CurrentTexture returns the frame texture, creating it on first use and
// after the previous one was destroyed.
func (c *canvasContext) CurrentTexture() (hal.Texture, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return nil, ErrCanvasNotConfigured
	}
	if c.current != nil && !c.current.isDestroyed() {
		return c.current, nil
	}
	if err := c.device.alive(); err != nil {
		return nil, err
	}
	t, err := c.device.device.CreateTexture(&gpu.TextureDescriptor{
		Label:         "canvas",
		Size:          gpu.Extent3D{Width: c.canvas.width, Height: c.canvas.height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        c.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, err
	}
	c.current = &texture{
		device:  c.device,
		label:   "canvas",
		texture: t,
		width:   c.canvas.width,
		height:  c.canvas.height,
	}
	return c.current, nil
}

// Snapshot copies the current frame back to the CPU as RGBA. Only 8-bit
// canvas formats can be read back.
func (c *Canvas) Snapshot(ctx context.Context) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.ctx.mu.Lock()
	tex, dev, format := c.ctx.current, c.ctx.device, c.ctx.format
	c.ctx.mu.Unlock()
	if tex == nil || tex.isDestroyed() {
		return nil, ErrCanvasNotConfigured
	}
	if format != gputypes.TextureFormatRGBA8Unorm && format != gputypes.TextureFormatBGRA8Unorm {
		return nil, fmt.Errorf("%w: cannot read back %s", ErrUnsupportedCanvasFormat, hal.TextureFormatName(format))
	}

	rowBytes := c.width * 4
	stride := (rowBytes + copyRowAlignment - 1) / copyRowAlignment * copyRowAlignment
	size := uint64(stride) * uint64(c.height)

	staging, err := dev.device.CreateBuffer(&gpu.BufferDescriptor{
		Label: "canvas readback",
		Size:  size,
		Usage: gputypes.BufferUsageCopyDst | gputypes.BufferUsageMapRead,
	})
	if err != nil {
		return nil, err
	}
	defer staging.Release()

	enc, err := dev.device.CreateCommandEncoder(&gpu.CommandEncoderDescriptor{Label: "canvas readback"})
	if err != nil {
		return nil, err
	}
	enc.TransitionTextures([]gpu.TextureBarrier{{
		Texture: tex.texture,
		Range:   frameRange,
		Usage: gpu.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	enc.CopyTextureToBuffer(tex.texture, staging, []gpu.BufferTextureCopy{{
		BufferLayout: gpu.ImageDataLayout{BytesPerRow: stride, RowsPerImage: c.height},
		TextureBase:  gpu.ImageCopyTexture{Texture: tex.texture, Aspect: gputypes.TextureAspectAll},
		Size:         gpu.Extent3D{Width: c.width, Height: c.height, DepthOrArrayLayers: 1},
	}})
	enc.TransitionTextures([]gpu.TextureBarrier{{
		Texture: tex.texture,
		Range:   frameRange,
		Usage: gpu.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})
	cb, err := enc.Finish()
	if err != nil {
		return nil, err
	}
	if _, err := dev.device.Queue().Submit(cb); err != nil {
		return nil, err
	}
	if err := dev.device.WaitIdle(); err != nil {
		return nil, fmt.Errorf("wgpu: wait for readback: %w", err)
	}

	if err := staging.Map(ctx, gpu.MapModeRead, 0, size); err != nil {
		return nil, err
	}
	defer func() { _ = staging.Unmap() }()
	r, err := staging.MappedRange(0, size)
	if err != nil {
		return nil, err
	}
	return readbackImage(r.Bytes(), c.width, c.height, stride, dev.packedCopies, format), nil
}

// readbackImage converts staged texture rows into an RGBA image. Rows sit
// stride bytes apart unless packed.
func readbackImage(src []byte, width, height, stride uint32, packed bool, format gputypes.TextureFormat) *image.RGBA {
	rowBytes := int(width) * 4
	step := int(stride)
	if packed {
		step = rowBytes
	}
	img := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	for y := 0; y < int(height); y++ {
		row := src[y*step : y*step+rowBytes]
		dst := img.Pix[y*img.Stride : y*img.Stride+rowBytes]
		copy(dst, row)
		if format == gputypes.TextureFormatBGRA8Unorm {
			for i := 0; i < len(dst); i += 4 {
				dst[i], dst[i+2] = dst[i+2], dst[i]
			}
		}
	}
	return img
}

type texture struct {
	mu        sync.Mutex
	device    *device
	label     string
	texture   *gpu.Texture
	width     uint32
	height    uint32
	destroyed bool
}

func (t *texture) Label() string  { return t.label }
func (t *texture) Format() string { return hal.TextureFormatName(t.texture.Format()) }
func (t *texture) Width() uint32  { return t.width }
func (t *texture) Height() uint32 { return t.height }

func (t *texture) isDestroyed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.destroyed
}

func (t *texture) CreateView(desc hal.Object) (hal.TextureView, error) {
	if t.isDestroyed() {
		return nil, fmt.Errorf("wgpu: texture %q has been destroyed", t.label)
	}
	var vd hal.TextureViewDescriptor
	if err := hal.Decode(desc, &vd); err != nil {
		return nil, err
	}
	format := t.texture.Format()
	if vd.Format != "" {
		f, err := hal.ParseTextureFormat(vd.Format)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
		}
		format = f
	}
	v, err := t.device.device.CreateTextureView(t.texture, &gpu.TextureViewDescriptor{
		Label:           vd.Label,
		Format:          format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		return nil, err
	}
	return &textureView{label: vd.Label, view: v}, nil
}

func (t *texture) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return
	}
	t.destroyed = true
	t.texture.Release()
}

type textureView struct {
	label string
	view  *gpu.TextureView
}

func (v *textureView) Label() string { return v.label }
