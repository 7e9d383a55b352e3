package software

import "errors"

// Device errors.
var (
	// ErrDeviceLost is returned by calls on a destroyed device.
	ErrDeviceLost = errors.New("software: device lost")

	// ErrMissingFeature is returned when a device requests a feature the
	// adapter lacks.
	ErrMissingFeature = errors.New("software: feature not supported by adapter")

	// ErrInvalidDescriptor is returned for malformed descriptor values.
	ErrInvalidDescriptor = errors.New("software: invalid descriptor")
)

// Buffer errors.
var (
	// ErrBufferDestroyed is returned when operating on a destroyed buffer.
	ErrBufferDestroyed = errors.New("software: buffer has been destroyed")

	// ErrBufferAlreadyMapped is returned when mapping a mapped or pending buffer.
	ErrBufferAlreadyMapped = errors.New("software: buffer is already mapped or mapping is pending")

	// ErrBufferNotMapped is returned when reading the mapped range of an unmapped buffer.
	ErrBufferNotMapped = errors.New("software: buffer is not mapped")

	// ErrBufferMapped is returned when a mapped buffer is used by the GPU.
	ErrBufferMapped = errors.New("software: buffer is mapped")

	// ErrInvalidMapMode is returned when mapping with a mode other than read or write.
	ErrInvalidMapMode = errors.New("software: invalid map mode")

	// ErrInvalidMapRange is returned when the map window is misaligned or out of bounds.
	ErrInvalidMapRange = errors.New("software: map range out of bounds")

	// ErrMapUsageMismatch is returned when the map mode does not match the usage flags.
	ErrMapUsageMismatch = errors.New("software: map mode does not match buffer usage flags")

	// ErrUsageMismatch is returned when a buffer lacks the usage an operation needs.
	ErrUsageMismatch = errors.New("software: buffer usage does not allow this operation")
)

// Copy errors.
var (
	// ErrCopyRangeOutOfBounds is returned when a copy exceeds a buffer.
	ErrCopyRangeOutOfBounds = errors.New("software: copy range out of bounds")

	// ErrCopyOffsetNotAligned is returned when a copy offset is not 4-byte aligned.
	ErrCopyOffsetNotAligned = errors.New("software: copy offset must be 4-byte aligned")

	// ErrCopySizeNotAligned is returned when a copy size is not 4-byte aligned.
	ErrCopySizeNotAligned = errors.New("software: copy size must be 4-byte aligned")

	// ErrCopySameBuffer is returned when source and destination are the same buffer.
	ErrCopySameBuffer = errors.New("software: source and destination are the same buffer")
)

// Pipeline and pass errors.
var (
	// ErrShaderCompilation wraps WGSL parse, lowering and validation failures.
	ErrShaderCompilation = errors.New("software: shader compilation failed")

	// ErrEntryPointNotFound is returned when a stage names a missing entry point.
	ErrEntryPointNotFound = errors.New("software: entry point not found")

	// ErrIncompatibleTargets is returned when pipeline, bundle and pass color
	// formats disagree.
	ErrIncompatibleTargets = errors.New("software: color target formats do not match")

	// ErrNoPipeline is returned by a draw before SetPipeline.
	ErrNoPipeline = errors.New("software: no pipeline set")

	// ErrVertexBufferMissing is returned by a draw with an unbound vertex slot.
	ErrVertexBufferMissing = errors.New("software: vertex buffer slot not bound")

	// ErrVertexRangeOutOfBounds is returned when a draw reads past a vertex buffer.
	ErrVertexRangeOutOfBounds = errors.New("software: draw reads past vertex buffer")

	// ErrCommandBufferReused is returned when a command buffer is submitted twice.
	ErrCommandBufferReused = errors.New("software: command buffer already submitted")

	// ErrTextureDestroyed is returned when a destroyed texture is rendered to.
	ErrTextureDestroyed = errors.New("software: texture has been destroyed")

	// ErrCanvasNotConfigured is returned by CurrentTexture before Configure.
	ErrCanvasNotConfigured = errors.New("software: canvas context not configured")
)
