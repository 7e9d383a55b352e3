package gpubind

import (
	"sync"

	"github.com/gogpu/gpubind/hal"
)

// Device is the logical GPU context. Every resource created from it is owned
// by it; using a resource after Destroy is undefined on the native side and
// must be avoided by the caller.
type Device struct {
	mu        sync.RWMutex
	raw       hal.Device
	queue     *Queue
	label     string
	destroyed bool
}

func newDevice(raw hal.Device, label string) *Device {
	d := &Device{raw: raw, label: label}
	d.queue = &Queue{raw: raw.Queue(), device: d}
	return d
}

// native returns the platform device, or nil.
func (d *Device) native() hal.Device {
	if d == nil {
		return nil
	}
	return d.raw
}

// Label returns the device's debug label.
func (d *Device) Label() string { return d.label }

// Queue returns the device's single submission queue.
func (d *Device) Queue() *Queue { return d.queue }

// checkAlive returns ErrDeviceDestroyed after Destroy.
func (d *Device) checkAlive() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.destroyed {
		return ErrDeviceDestroyed
	}
	return nil
}

// CreateBuffer creates a buffer. A buffer created with
// WithMappedAtCreation(true) is mapped over its full size on return.
func (d *Device) CreateBuffer(desc BufferDescriptor) (*Buffer, error) {
	if err := d.checkAlive(); err != nil {
		return nil, err
	}
	raw, err := d.raw.CreateBuffer(desc.Object())
	if err != nil {
		return nil, nativeErr("createBuffer", err)
	}
	b := &Buffer{
		raw:   raw,
		label: desc.label,
		size:  desc.size,
		usage: desc.usage,
	}
	if desc.mappedAtCreation {
		b.mapState = BufferMapStateMapped
	}
	Logger().Debug("gpubind: buffer created",
		"label", desc.label, "size", desc.size, "usage", uint64(desc.usage),
		"mappedAtCreation", desc.mappedAtCreation)
	return b, nil
}

// CreateShaderModule compiles shader source.
func (d *Device) CreateShaderModule(desc ShaderModuleDescriptor) (*ShaderModule, error) {
	if err := d.checkAlive(); err != nil {
		return nil, err
	}
	raw, err := d.raw.CreateShaderModule(desc.Object())
	if err != nil {
		return nil, nativeErr("createShaderModule", err)
	}
	Logger().Debug("gpubind: shader module created", "label", desc.label, "bytes", len(desc.code))
	return &ShaderModule{raw: raw, label: desc.label}, nil
}

// CreateBindGroupLayout creates a bind group layout.
func (d *Device) CreateBindGroupLayout(desc BindGroupLayoutDescriptor) (*BindGroupLayout, error) {
	if err := d.checkAlive(); err != nil {
		return nil, err
	}
	raw, err := d.raw.CreateBindGroupLayout(desc.Object())
	if err != nil {
		return nil, nativeErr("createBindGroupLayout", err)
	}
	return &BindGroupLayout{raw: raw, label: desc.label}, nil
}

// CreatePipelineLayout creates a pipeline layout.
func (d *Device) CreatePipelineLayout(desc PipelineLayoutDescriptor) (*PipelineLayout, error) {
	if err := d.checkAlive(); err != nil {
		return nil, err
	}
	raw, err := d.raw.CreatePipelineLayout(desc.Object())
	if err != nil {
		return nil, nativeErr("createPipelineLayout", err)
	}
	return &PipelineLayout{raw: raw, label: desc.label, groups: len(desc.layouts)}, nil
}

// CreateRenderPipeline creates a render pipeline.
func (d *Device) CreateRenderPipeline(desc RenderPipelineDescriptor) (*RenderPipeline, error) {
	if err := d.checkAlive(); err != nil {
		return nil, err
	}
	raw, err := d.raw.CreateRenderPipeline(desc.Object())
	if err != nil {
		return nil, nativeErr("createRenderPipeline", err)
	}
	Logger().Debug("gpubind: render pipeline created",
		"label", desc.label, "vertex", desc.vertex.entryPoint, "fragment", desc.hasFragment)
	return &RenderPipeline{raw: raw, label: desc.label, targets: desc.colorTargets()}, nil
}

// CreateCommandEncoder starts recording a command buffer.
func (d *Device) CreateCommandEncoder(desc CommandEncoderDescriptor) (*CommandEncoder, error) {
	if err := d.checkAlive(); err != nil {
		return nil, err
	}
	raw, err := d.raw.CreateCommandEncoder(desc.Object())
	if err != nil {
		return nil, nativeErr("createCommandEncoder", err)
	}
	return &CommandEncoder{raw: raw, label: desc.label}, nil
}

// CreateRenderBundleEncoder starts recording a render bundle.
func (d *Device) CreateRenderBundleEncoder(desc RenderBundleEncoderDescriptor) (*RenderBundleEncoder, error) {
	if err := d.checkAlive(); err != nil {
		return nil, err
	}
	raw, err := d.raw.CreateRenderBundleEncoder(desc.Object())
	if err != nil {
		return nil, nativeErr("createRenderBundleEncoder", err)
	}
	return &RenderBundleEncoder{raw: raw, label: desc.label}, nil
}

// Destroy releases the device. It is idempotent.
func (d *Device) Destroy() {
	d.mu.Lock()
	if d.destroyed {
		d.mu.Unlock()
		return
	}
	d.destroyed = true
	d.mu.Unlock()

	d.raw.Destroy()
	Logger().Debug("gpubind: device destroyed", "label", d.label)
}
