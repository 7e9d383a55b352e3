package software

import (
	"context"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gputypes"
)

// Canvas is a headless drawing surface backed by a byte slice.
type Canvas struct {
	mu     sync.Mutex
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

// Pixels returns a copy of the current frame in the configured format, or
// nil before the first CurrentTexture.
func (c *Canvas) Pixels() []byte {
	c.mu.Lock()
	tex := c.ctx.current
	c.mu.Unlock()
	if tex == nil {
		return nil
	}
	tex.mu.Lock()
	defer tex.mu.Unlock()
	return append([]byte(nil), tex.data...)
}

// Pixel returns the RGBA bytes at (x, y) of the current frame, reordering
// BGRA formats.
func (c *Canvas) Pixel(x, y uint32) [4]byte {
	px := c.Pixels()
	if px == nil || x >= c.width || y >= c.height {
		return [4]byte{}
	}
	i := (int(y)*int(c.width) + int(x)) * 4
	p := [4]byte{px[i], px[i+1], px[i+2], px[i+3]}
	if isBGRA(c.ctx.format) {
		p[0], p[2] = p[2], p[0]
	}
	return p
}

// Snapshot returns the current frame as RGBA.
func (c *Canvas) Snapshot(ctx context.Context) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	px := c.Pixels()
	if px == nil {
		return nil, ErrCanvasNotConfigured
	}
	img := image.NewRGBA(image.Rect(0, 0, int(c.width), int(c.height)))
	copy(img.Pix, px)
	if isBGRA(c.ctx.format) {
		for i := 0; i+3 < len(img.Pix); i += 4 {
			img.Pix[i], img.Pix[i+2] = img.Pix[i+2], img.Pix[i]
		}
	}
	return img, nil
}

type canvasContext struct {
	canvas  *Canvas
	device  *device
	format  gputypes.TextureFormat
	current *texture
}

func (cc *canvasContext) Configure(cfg hal.Object) error {
	var cd hal.CanvasConfiguration
	if err := hal.Decode(cfg, &cd); err != nil {
		return err
	}
	dev, ok := cd.Device.(*device)
	if !ok {
		return fmt.Errorf("%w: device %T", hal.ErrForeignHandle, cd.Device)
	}
	format, err := hal.ParseTextureFormat(cd.Format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}
	if !canvasFormat(format) {
		return fmt.Errorf("%w: canvas format %s", ErrInvalidDescriptor, cd.Format)
	}
	switch cd.AlphaMode {
	case "", "opaque", "premultiplied":
	default:
		return fmt.Errorf("%w: alpha mode %q", ErrInvalidDescriptor, cd.AlphaMode)
	}

	cc.canvas.mu.Lock()
	defer cc.canvas.mu.Unlock()
	cc.device = dev
	cc.format = format
	cc.current = nil
	return nil
}

// CurrentTexture returns the same texture until it is destroyed or the
// context is reconfigured.
func (cc *canvasContext) CurrentTexture() (hal.Texture, error) {
	cc.canvas.mu.Lock()
	defer cc.canvas.mu.Unlock()
	if cc.device == nil {
		return nil, ErrCanvasNotConfigured
	}
	if err := cc.device.alive(); err != nil {
		return nil, err
	}
	if cc.current == nil || cc.current.isDestroyed() {
		w, h := cc.canvas.width, cc.canvas.height
		cc.current = &texture{
			label:  "canvas",
			format: cc.format,
			width:  w,
			height: h,
			data:   make([]byte, int(w)*int(h)*4),
		}
	}
	return cc.current, nil
}

func canvasFormat(f gputypes.TextureFormat) bool {
	switch f {
	case gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb,
		gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb:
		return true
	}
	return false
}

func isBGRA(f gputypes.TextureFormat) bool {
	return f == gputypes.TextureFormatBGRA8Unorm || f == gputypes.TextureFormatBGRA8UnormSrgb
}

// texture is a 4-byte-per-texel canvas image.
type texture struct {
	mu        sync.Mutex
	label     string
	format    gputypes.TextureFormat
	width     uint32
	height    uint32
	data      []byte
	destroyed bool
}

func (t *texture) Label() string  { return t.label }
func (t *texture) Format() string { return hal.TextureFormatName(t.format) }
func (t *texture) Width() uint32  { return t.width }
func (t *texture) Height() uint32 { return t.height }

func (t *texture) CreateView(desc hal.Object) (hal.TextureView, error) {
	var vd hal.TextureViewDescriptor
	if err := hal.Decode(desc, &vd); err != nil {
		return nil, err
	}
	format := t.format
	if vd.Format != "" {
		f, err := hal.ParseTextureFormat(vd.Format)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
		}
		if f != t.format {
			return nil, fmt.Errorf("%w: view format %s on %s texture", ErrInvalidDescriptor, vd.Format, t.Format())
		}
		format = f
	}
	if t.isDestroyed() {
		return nil, ErrTextureDestroyed
	}
	return &textureView{label: vd.Label, tex: t, format: format}, nil
}

func (t *texture) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.destroyed = true
}

func (t *texture) isDestroyed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.destroyed
}

// runPass applies one attachment's load and store operations.
func (t *texture) runPass(load gputypes.LoadOp, store gputypes.StoreOp, value gputypes.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if store == gputypes.StoreOpDiscard {
		clear(t.data)
		return
	}
	if load != gputypes.LoadOpClear {
		return
	}
	px := encodeColor(t.format, value)
	for i := 0; i+4 <= len(t.data); i += 4 {
		copy(t.data[i:i+4], px[:])
	}
}

type textureView struct {
	label  string
	tex    *texture
	format gputypes.TextureFormat
}

func (v *textureView) Label() string { return v.label }

// encodeColor converts a linear color to the texel bytes of format.
func encodeColor(format gputypes.TextureFormat, c gputypes.Color) [4]byte {
	r, g, b := c.R, c.G, c.B
	if format.IsSrgb() {
		r, g, b = linearToSRGB(r), linearToSRGB(g), linearToSRGB(b)
	}
	px := [4]byte{unorm8(r), unorm8(g), unorm8(b), unorm8(c.A)}
	if isBGRA(format) {
		px[0], px[2] = px[2], px[0]
	}
	return px
}

func unorm8(v float64) byte {
	return byte(math.Round(min(max(v, 0), 1) * 255))
}

func linearToSRGB(v float64) float64 {
	if v <= 0.0031308 {
		return v * 12.92
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}
