package gpubind

import (
	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gputypes"
)

// Texture is an image resource, typically a canvas's current frame.
type Texture struct {
	raw    hal.Texture
	format gputypes.TextureFormat
}

func newTexture(raw hal.Texture) *Texture {
	format, err := hal.ParseTextureFormat(raw.Format())
	if err != nil {
		format = gputypes.TextureFormatUndefined
	}
	return &Texture{raw: raw, format: format}
}

// Format returns the texel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// Size returns the width and height in texels.
func (t *Texture) Size() (width, height uint32) {
	return t.raw.Width(), t.raw.Height()
}

// CreateView creates a default view covering the whole texture.
func (t *Texture) CreateView() (*TextureView, error) {
	return t.CreateViewWithDescriptor(NewTextureViewDescriptor())
}

// CreateViewWithDescriptor creates a view described by desc.
func (t *Texture) CreateViewWithDescriptor(desc TextureViewDescriptor) (*TextureView, error) {
	raw, err := t.raw.CreateView(desc.Object())
	if err != nil {
		return nil, nativeErr("createView", err)
	}
	return &TextureView{raw: raw}, nil
}

// Destroy releases the texture.
func (t *Texture) Destroy() { t.raw.Destroy() }

// TextureView is an opaque view used as a render attachment.
type TextureView struct {
	raw hal.TextureView
}

func (v *TextureView) native() hal.TextureView {
	if v == nil {
		return nil
	}
	return v.raw
}
