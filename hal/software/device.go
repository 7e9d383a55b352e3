package software

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gputypes"
)

type device struct {
	mu        sync.Mutex
	platform  *Platform
	label     string
	queue     *queue
	destroyed bool
}

func (d *device) Label() string    { return d.label }
func (d *device) Queue() hal.Queue { return d.queue }

func (d *device) alive() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.destroyed {
		return ErrDeviceLost
	}
	return nil
}

func (d *device) Destroy() {
	d.mu.Lock()
	d.destroyed = true
	d.mu.Unlock()
}

func (d *device) CreateBuffer(desc hal.Object) (hal.Buffer, error) {
	if err := d.alive(); err != nil {
		return nil, err
	}
	var bd hal.BufferDescriptor
	if err := hal.Decode(desc, &bd); err != nil {
		return nil, err
	}
	if bd.Usage == 0 || bd.Usage.ContainsUnknownBits() {
		return nil, fmt.Errorf("%w: buffer usage %#x", ErrInvalidDescriptor, uint64(bd.Usage))
	}
	if bd.MappedAtCreation && bd.Size%4 != 0 {
		return nil, fmt.Errorf("%w: mapped-at-creation size %d is not a multiple of 4", ErrInvalidDescriptor, bd.Size)
	}
	b := &buffer{
		device: d,
		label:  bd.Label,
		usage:  bd.Usage,
		data:   make([]byte, bd.Size),
	}
	if bd.MappedAtCreation {
		b.state = gputypes.BufferMapStateMapped
		b.mapMode = gputypes.MapModeWrite
		b.mapSize = bd.Size
	}
	return b, nil
}

func (d *device) CreateShaderModule(desc hal.Object) (hal.ShaderModule, error) {
	if err := d.alive(); err != nil {
		return nil, err
	}
	var sd hal.ShaderModuleDescriptor
	if err := hal.Decode(desc, &sd); err != nil {
		return nil, err
	}
	entries, err := compileWGSL(sd.Code)
	if err != nil {
		return nil, err
	}
	return &shaderModule{label: sd.Label, entryPoints: entries}, nil
}

func (d *device) CreateBindGroupLayout(desc hal.Object) (hal.BindGroupLayout, error) {
	if err := d.alive(); err != nil {
		return nil, err
	}
	var bd hal.BindGroupLayoutDescriptor
	if err := hal.Decode(desc, &bd); err != nil {
		return nil, err
	}
	seen := make(map[uint32]bool, len(bd.Entries))
	for _, e := range bd.Entries {
		if seen[e.Binding] {
			return nil, fmt.Errorf("%w: duplicate binding %d", ErrInvalidDescriptor, e.Binding)
		}
		seen[e.Binding] = true
		if e.Buffer != nil {
			if _, err := hal.ParseBufferBindingType(e.Buffer.Type); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
			}
		}
	}
	return &bindGroupLayout{label: bd.Label, entries: len(bd.Entries)}, nil
}

func (d *device) CreatePipelineLayout(desc hal.Object) (hal.PipelineLayout, error) {
	if err := d.alive(); err != nil {
		return nil, err
	}
	var pd hal.PipelineLayoutDescriptor
	if err := hal.Decode(desc, &pd); err != nil {
		return nil, err
	}
	for i, l := range pd.BindGroupLayouts {
		if _, ok := l.(*bindGroupLayout); !ok {
			return nil, fmt.Errorf("%w: bind group layout %d", hal.ErrForeignHandle, i)
		}
	}
	return &pipelineLayout{label: pd.Label, groups: len(pd.BindGroupLayouts)}, nil
}

func (d *device) CreateRenderPipeline(desc hal.Object) (hal.RenderPipeline, error) {
	if err := d.alive(); err != nil {
		return nil, err
	}
	var rd hal.RenderPipelineDescriptor
	if err := hal.Decode(desc, &rd); err != nil {
		return nil, err
	}
	return newRenderPipeline(&rd)
}

func (d *device) CreateCommandEncoder(desc hal.Object) (hal.CommandEncoder, error) {
	if err := d.alive(); err != nil {
		return nil, err
	}
	var ld hal.LabelDescriptor
	if err := hal.Decode(desc, &ld); err != nil {
		return nil, err
	}
	return &commandEncoder{device: d, label: ld.Label}, nil
}

func (d *device) CreateRenderBundleEncoder(desc hal.Object) (hal.RenderBundleEncoder, error) {
	if err := d.alive(); err != nil {
		return nil, err
	}
	var bd hal.RenderBundleEncoderDescriptor
	if err := hal.Decode(desc, &bd); err != nil {
		return nil, err
	}
	formats, err := parseFormats(bd.ColorFormats)
	if err != nil {
		return nil, err
	}
	return &renderBundleEncoder{label: bd.Label, state: drawState{formats: formats}}, nil
}

func parseFormats(names []string) ([]gputypes.TextureFormat, error) {
	formats := make([]gputypes.TextureFormat, len(names))
	for i, n := range names {
		f, err := hal.ParseTextureFormat(n)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
		}
		formats[i] = f
	}
	return formats, nil
}

type bindGroupLayout struct {
	label   string
	entries int
}

func (l *bindGroupLayout) Label() string { return l.label }

type pipelineLayout struct {
	label  string
	groups int
}

func (l *pipelineLayout) Label() string { return l.label }
