package software

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

type shaderModule struct {
	label       string
	entryPoints map[string]ir.ShaderStage
}

func (m *shaderModule) Label() string { return m.label }

// compileWGSL parses, lowers and validates source, returning its entry
// points by name.
func compileWGSL(source string) (map[string]ir.ShaderStage, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShaderCompilation, err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShaderCompilation, err)
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShaderCompilation, err)
	}
	if len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i, ve := range verrs {
			errs[i] = ve
		}
		return nil, fmt.Errorf("%w: %w", ErrShaderCompilation, errors.Join(errs...))
	}

	entries := make(map[string]ir.ShaderStage, len(module.EntryPoints))
	for _, ep := range module.EntryPoints {
		entries[ep.Name] = ep.Stage
	}
	return entries, nil
}

// stage resolves a pipeline stage against the module it names.
func stage(module hal.ShaderModule, entryPoint string, want ir.ShaderStage) error {
	m, ok := module.(*shaderModule)
	if !ok {
		return fmt.Errorf("%w: shader module %T", hal.ErrForeignHandle, module)
	}
	got, ok := m.entryPoints[entryPoint]
	if !ok || got != want {
		return fmt.Errorf("%w: %q in module %q", ErrEntryPointNotFound, entryPoint, m.label)
	}
	return nil
}

// vertexSlot is one decoded vertex buffer layout.
type vertexSlot struct {
	stride   uint64
	stepMode gputypes.VertexStepMode
	// extent is the byte length one element occupies: the furthest
	// attribute end.
	extent uint64
}

type renderPipeline struct {
	label   string
	slots   []vertexSlot
	targets []gputypes.TextureFormat
}

func (p *renderPipeline) Label() string { return p.label }

// maxArrayStride is the default maxVertexBufferArrayStride limit.
var maxArrayStride = uint64(gputypes.DefaultLimits().MaxVertexBufferArrayStride)

func newRenderPipeline(rd *hal.RenderPipelineDescriptor) (*renderPipeline, error) {
	layout, err := rd.PipelineLayout()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}
	if layout != nil {
		if _, ok := layout.(*pipelineLayout); !ok {
			return nil, fmt.Errorf("%w: pipeline layout %T", hal.ErrForeignHandle, layout)
		}
	}

	if err := stage(rd.Vertex.Module, rd.Vertex.EntryPoint, ir.StageVertex); err != nil {
		return nil, err
	}

	p := &renderPipeline{label: rd.Label}
	locations := make(map[uint32]bool)
	for i, vb := range rd.Vertex.Buffers {
		mode, err := hal.ParseStepMode(vb.StepMode)
		if err != nil {
			return nil, fmt.Errorf("%w: buffer %d: %w", ErrInvalidDescriptor, i, err)
		}
		if vb.ArrayStride > maxArrayStride {
			return nil, fmt.Errorf("%w: buffer %d: array stride %d exceeds %d",
				ErrInvalidDescriptor, i, vb.ArrayStride, maxArrayStride)
		}
		slot := vertexSlot{stride: vb.ArrayStride, stepMode: mode}
		for _, a := range vb.Attributes {
			format, err := hal.ParseVertexFormat(a.Format)
			if err != nil {
				return nil, fmt.Errorf("%w: buffer %d: %w", ErrInvalidDescriptor, i, err)
			}
			if locations[a.ShaderLocation] {
				return nil, fmt.Errorf("%w: shader location %d used twice", ErrInvalidDescriptor, a.ShaderLocation)
			}
			locations[a.ShaderLocation] = true
			end := a.Offset + format.Size()
			if vb.ArrayStride != 0 && end > vb.ArrayStride {
				return nil, fmt.Errorf("%w: attribute at location %d ends at %d past stride %d",
					ErrInvalidDescriptor, a.ShaderLocation, end, vb.ArrayStride)
			}
			slot.extent = max(slot.extent, end)
		}
		p.slots = append(p.slots, slot)
	}

	if rd.Fragment != nil {
		if err := stage(rd.Fragment.Module, rd.Fragment.EntryPoint, ir.StageFragment); err != nil {
			return nil, err
		}
		for _, t := range rd.Fragment.Targets {
			f, err := hal.ParseTextureFormat(t.Format)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
			}
			p.targets = append(p.targets, f)
		}
	}
	return p, nil
}
