package gpubind

import (
	"github.com/gogpu/gpubind/hal"
	"github.com/gogpu/gputypes"
)

// BufferUsage is a bitmask of buffer capabilities fixed at creation.
// The values are the WebGPU GPUBufferUsage bits.
type BufferUsage = gputypes.BufferUsage

// Buffer usage flags. Combine with bitwise OR.
const (
	BufferUsageMapRead      BufferUsage = gputypes.BufferUsageMapRead      // 0x001
	BufferUsageMapWrite     BufferUsage = gputypes.BufferUsageMapWrite     // 0x002
	BufferUsageCopySrc      BufferUsage = gputypes.BufferUsageCopySrc      // 0x004
	BufferUsageCopyDst      BufferUsage = gputypes.BufferUsageCopyDst      // 0x008
	BufferUsageIndex        BufferUsage = gputypes.BufferUsageIndex        // 0x010
	BufferUsageVertex       BufferUsage = gputypes.BufferUsageVertex       // 0x020
	BufferUsageUniform      BufferUsage = gputypes.BufferUsageUniform      // 0x040
	BufferUsageStorage      BufferUsage = gputypes.BufferUsageStorage      // 0x080
	BufferUsageIndirect     BufferUsage = gputypes.BufferUsageIndirect     // 0x100
	BufferUsageQueryResolve BufferUsage = gputypes.BufferUsageQueryResolve // 0x200
)

// MapMode selects CPU read or write access for MapAsync.
type MapMode = gputypes.MapMode

// Map modes.
const (
	MapModeRead  MapMode = gputypes.MapModeRead  // 0x1
	MapModeWrite MapMode = gputypes.MapModeWrite // 0x2
)

// WholeSize binds or maps the remainder of a buffer after an offset.
const WholeSize = hal.WholeSize
