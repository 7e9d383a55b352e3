// Package session drives the triangle demo: it acquires an adapter and a
// device from a platform, configures a canvas, uploads a triangle and renders
// it with a render bundle.
//
// Every step is fatal on failure; Run returns an *Error naming the step and
// the state reached. A Session that made it through Run implements
// gpucontext.DeviceProvider so other gogpu libraries can share its device.
package session

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/gogpu/gpubind"
	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Session is a running triangle demo.
type Session struct {
	opts  options
	state State

	gpu      *gpubind.GPU
	adapter  *gpubind.Adapter
	device   *gpubind.Device
	canvas   *gpubind.CanvasContext
	format   gputypes.TextureFormat
	vertices *gpubind.Buffer
	pipeline *gpubind.RenderPipeline
	bundle   *gpubind.RenderBundle

	submitted int
}

var _ gpucontext.DeviceProvider = (*Session)(nil)

// Run walks the session from Start to Submitted, rendering one frame.
// platform plays the role of the browser's navigator.gpu and canvas the
// render target element.
func Run(ctx context.Context, platform hal.Platform, canvas hal.Canvas, opts ...Option) (*Session, error) {
	s := &Session{opts: defaultOptions()}
	for _, opt := range opts {
		opt(&s.opts)
	}

	log := gpubind.Logger()
	log.Info("hello from gpubind")

	gpu, err := gpubind.NewGPU(platform)
	if err != nil {
		return nil, s.fail("open platform", err)
	}
	s.gpu = gpu

	s.adapter, err = gpu.RequestAdapter(ctx, s.opts.adapterOptions...)
	if err != nil {
		return nil, s.fail("request adapter", err)
	}
	s.state = StateAdapterRequested
	log.Info("webgpu is available on this platform")
	for _, f := range s.adapter.Features() {
		log.Info("feature", "name", f)
	}

	cc, err := gpubind.NewCanvasContext(canvas)
	if err != nil {
		return nil, s.fail("get canvas context", err)
	}
	s.canvas = cc

	s.device, err = s.adapter.RequestDevice(ctx, s.opts.deviceOptions...)
	if err != nil {
		return nil, s.fail("request device", err)
	}
	s.state = StateDeviceRequested

	s.format = gpu.PreferredCanvasFormat()
	if err := cc.Configure(gpubind.NewCanvasConfiguration(s.device, s.format)); err != nil {
		return nil, s.fail("configure canvas", err)
	}
	s.state = StateCanvasConfigured
	log.Info("canvas was configured with format " + hal.TextureFormatName(s.format))

	if err := s.createResources(); err != nil {
		return nil, err
	}
	s.state = StateResourcesCreated

	if err := s.RenderFrame(); err != nil {
		return nil, err
	}
	return s, nil
}

// fail wraps err with the step that produced it and destroys the device,
// if one was created.
func (s *Session) fail(step string, err error) error {
	if s.device != nil {
		s.device.Destroy()
	}
	gpubind.Logger().Error("session failed", "step", step, "state", s.state.String(), "err", err)
	return &Error{Reached: s.state, Step: step, Err: err}
}

func (s *Session) createResources() error {
	d := s.device

	vertices, err := d.CreateBuffer(
		gpubind.NewBufferDescriptor(bufferSize, gpubind.BufferUsageVertex|gpubind.BufferUsageCopyDst).
			WithLabel("triangle vertices"))
	if err != nil {
		return s.fail("create vertex buffer", err)
	}
	s.vertices = vertices

	staging, err := d.CreateBuffer(
		gpubind.NewBufferDescriptor(vertices.Size(), gpubind.BufferUsageCopySrc|gpubind.BufferUsageMapWrite).
			WithLabel("triangle staging").
			WithMappedAtCreation(true))
	if err != nil {
		return s.fail("create staging buffer", err)
	}
	mapped, err := staging.MappedRange()
	if err != nil {
		return s.fail("get staging range", err)
	}
	for i, v := range Triangle {
		binary.LittleEndian.PutUint32(mapped[i*4:], math.Float32bits(v))
	}
	if err := staging.Unmap(); err != nil {
		return s.fail("unmap staging buffer", err)
	}

	upload, err := d.CreateCommandEncoder(gpubind.NewLabelDescriptor().WithLabel("upload"))
	if err != nil {
		return s.fail("create upload encoder", err)
	}
	if err := upload.CopyBufferToBuffer(staging, 0, vertices, 0, triangleBytes); err != nil {
		return s.fail("record vertex upload", err)
	}
	uploadCmd, err := upload.Finish()
	if err != nil {
		return s.fail("finish vertex upload", err)
	}
	if err := d.Queue().Submit(uploadCmd); err != nil {
		return s.fail("submit vertex upload", err)
	}
	s.submitted++

	shader, err := d.CreateShaderModule(gpubind.NewShaderModuleDescriptor(Shader).WithLabel("triangle"))
	if err != nil {
		return s.fail("create shader module", err)
	}
	layout, err := d.CreatePipelineLayout(gpubind.NewPipelineLayoutDescriptor())
	if err != nil {
		return s.fail("create pipeline layout", err)
	}
	s.pipeline, err = d.CreateRenderPipeline(
		gpubind.NewRenderPipelineDescriptor(layout,
			gpubind.NewVertexProperties(shader, VertexEntryPoint).WithBuffers(gpubind.VertexBufferLayout{
				ArrayStride: vertexStride,
				Attributes: []gpubind.VertexAttribute{
					{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				},
			})).
			WithFragment(gpubind.NewFragmentProperties(shader, FragmentEntryPoint, s.format)).
			WithLabel("triangle"))
	if err != nil {
		return s.fail("create render pipeline", err)
	}

	bundler, err := d.CreateRenderBundleEncoder(gpubind.NewRenderBundleEncoderDescriptor(s.format))
	if err != nil {
		return s.fail("create render bundle encoder", err)
	}
	if err := bundler.SetPipeline(s.pipeline); err != nil {
		return s.fail("bundle set pipeline", err)
	}
	if err := bundler.SetVertexBuffer(0, vertices, 0, triangleBytes); err != nil {
		return s.fail("bundle set vertex buffer", err)
	}
	if err := bundler.Draw(3, 1, 0, 0); err != nil {
		return s.fail("bundle draw", err)
	}
	s.bundle, err = bundler.FinishWithDescriptor(gpubind.NewLabelDescriptor().WithLabel("triangle"))
	if err != nil {
		return s.fail("finish render bundle", err)
	}
	return nil
}

// RenderFrame clears the canvas's current texture, replays the triangle
// bundle and submits one command buffer.
func (s *Session) RenderFrame() error {
	tex, err := s.canvas.CurrentTexture()
	if err != nil {
		return s.fail("get current texture", err)
	}
	view, err := tex.CreateView()
	if err != nil {
		return s.fail("create target view", err)
	}

	enc, err := s.device.CreateCommandEncoder(gpubind.NewLabelDescriptor().WithLabel("frame"))
	if err != nil {
		return s.fail("create frame encoder", err)
	}
	pass, err := enc.BeginRenderPass(gpubind.NewRenderPassDescriptor(
		gpubind.NewRenderPassColorAttachment(view).ClearByArray(s.opts.clear)))
	if err != nil {
		return s.fail("begin render pass", err)
	}
	if err := pass.ExecuteBundles(s.bundle); err != nil {
		return s.fail("execute render bundles", err)
	}
	if err := pass.End(); err != nil {
		return s.fail("end render pass", err)
	}
	frame, err := enc.Finish()
	if err != nil {
		return s.fail("finish frame", err)
	}
	s.state = StateCommandsRecorded

	if err := s.device.Queue().Submit(frame); err != nil {
		return s.fail("submit frame", err)
	}
	s.submitted++
	s.state = StateSubmitted
	gpubind.Logger().Debug("frame submitted", "commandBuffers", s.submitted)
	return nil
}

// State returns the last state reached.
func (s *Session) State() State { return s.state }

// Submitted returns the number of command buffers submitted so far: the
// vertex upload plus one per frame.
func (s *Session) Submitted() int { return s.submitted }

// GPU returns the platform entry point.
func (s *Session) GPU() *gpubind.GPU { return s.gpu }

// Pipeline returns the triangle pipeline.
func (s *Session) Pipeline() *gpubind.RenderPipeline { return s.pipeline }

// VertexBuffer returns the uploaded vertex buffer.
func (s *Session) VertexBuffer() *gpubind.Buffer { return s.vertices }

// Device implements gpucontext.DeviceProvider.
func (s *Session) Device() gpucontext.Device { return s.device }

// Queue implements gpucontext.DeviceProvider.
func (s *Session) Queue() gpucontext.Queue { return s.device.Queue() }

// SurfaceFormat implements gpucontext.DeviceProvider.
func (s *Session) SurfaceFormat() gputypes.TextureFormat { return s.format }

// Adapter implements gpucontext.DeviceProvider.
func (s *Session) Adapter() gpucontext.Adapter { return s.adapter }

// AdapterInfo implements gpucontext.DeviceProvider.
func (s *Session) AdapterInfo() gpucontext.AdapterInfo { return s.adapter.Info() }

// Close destroys the device.
func (s *Session) Close() {
	s.device.Destroy()
}
