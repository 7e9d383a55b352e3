package gpubind

import (
	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gputypes"
)

// RenderPassColorAttachment is one color target of a render pass. A new
// attachment loads the existing contents and stores the result.
type RenderPassColorAttachment struct {
	view          *TextureView
	resolveTarget *TextureView
	loadOp        gputypes.LoadOp
	storeOp       gputypes.StoreOp
	clearValue    any
}

// NewRenderPassColorAttachment starts an attachment on view with load/store.
func NewRenderPassColorAttachment(view *TextureView) RenderPassColorAttachment {
	return RenderPassColorAttachment{
		view:    view,
		loadOp:  gputypes.LoadOpLoad,
		storeOp: gputypes.StoreOpStore,
	}
}

// ResolveTo resolves a multisampled view into target at the end of the pass.
func (a RenderPassColorAttachment) ResolveTo(target *TextureView) RenderPassColorAttachment {
	a.resolveTarget = target
	return a
}

// ClearByArray clears the view to an [r, g, b, a] value instead of loading it.
func (a RenderPassColorAttachment) ClearByArray(rgba [4]float64) RenderPassColorAttachment {
	a.clearValue = []any{rgba[0], rgba[1], rgba[2], rgba[3]}
	a.loadOp = gputypes.LoadOpClear
	return a
}

// ClearByColor clears the view to c, passed as an {r, g, b, a} object.
func (a RenderPassColorAttachment) ClearByColor(c gputypes.Color) RenderPassColorAttachment {
	o, err := hal.Encode(hal.ClearColor{R: c.R, G: c.G, B: c.B, A: c.A})
	if err != nil {
		panic(err)
	}
	a.clearValue = map[string]any(o)
	a.loadOp = gputypes.LoadOpClear
	return a
}

// WithStoreOp replaces the store policy.
func (a RenderPassColorAttachment) WithStoreOp(op gputypes.StoreOp) RenderPassColorAttachment {
	a.storeOp = op
	return a
}

// Object returns {view, loadOp, storeOp, resolveTarget?, clearValue?}.
func (a RenderPassColorAttachment) Object() hal.Object {
	o := hal.Object{
		"view":    a.view.native(),
		"loadOp":  hal.LoadOpName(a.loadOp),
		"storeOp": hal.StoreOpName(a.storeOp),
	}
	if a.resolveTarget != nil {
		o["resolveTarget"] = a.resolveTarget.native()
	}
	if a.clearValue != nil {
		o["clearValue"] = a.clearValue
	}
	return o
}

// RenderPassDescriptor describes a render pass.
type RenderPassDescriptor struct {
	attachments []RenderPassColorAttachment
	label       string
}

// NewRenderPassDescriptor starts a render pass over the given color attachments.
func NewRenderPassDescriptor(attachments ...RenderPassColorAttachment) RenderPassDescriptor {
	return RenderPassDescriptor{attachments: append([]RenderPassColorAttachment(nil), attachments...)}
}

// WithLabel sets the debug label.
func (d RenderPassDescriptor) WithLabel(label string) RenderPassDescriptor {
	d.label = label
	return d
}

// Object returns {colorAttachments, label?}.
func (d RenderPassDescriptor) Object() hal.Object {
	attachments := make([]any, 0, len(d.attachments))
	for _, a := range d.attachments {
		attachments = append(attachments, map[string]any(a.Object()))
	}
	o := hal.Object{"colorAttachments": attachments}
	if d.label != "" {
		o["label"] = d.label
	}
	return o
}

// RenderBundleEncoderDescriptor describes a render bundle encoder. The color
// formats must match the passes the bundle will execute in.
type RenderBundleEncoderDescriptor struct {
	colorFormats []gputypes.TextureFormat
	label        string
}

// NewRenderBundleEncoderDescriptor starts a bundle encoder descriptor.
func NewRenderBundleEncoderDescriptor(colorFormats ...gputypes.TextureFormat) RenderBundleEncoderDescriptor {
	return RenderBundleEncoderDescriptor{colorFormats: append([]gputypes.TextureFormat(nil), colorFormats...)}
}

// WithLabel sets the debug label.
func (d RenderBundleEncoderDescriptor) WithLabel(label string) RenderBundleEncoderDescriptor {
	d.label = label
	return d
}

// Object returns {colorFormats, label?}.
func (d RenderBundleEncoderDescriptor) Object() hal.Object {
	formats := make([]any, 0, len(d.colorFormats))
	for _, f := range d.colorFormats {
		formats = append(formats, hal.TextureFormatName(f))
	}
	o := hal.Object{"colorFormats": formats}
	if d.label != "" {
		o["label"] = d.label
	}
	return o
}
