package session

// Shader is the WGSL program of the triangle demo. The vertex stage passes
// the 2D position through and derives the color from it.
const Shader = `
struct VertexOutput {
    @builtin(position) pos: vec4f,
    @location(0) color: vec4f
}

@vertex
fn vsh(@location(0) pos: vec2f) -> VertexOutput {
    var vo: VertexOutput;

    vo.pos = vec4f(pos, 0.0, 1.0);
    vo.color = vec4f(pos, 1.0, 1.0);

    return vo;
}

@fragment
fn fsh(v: VertexOutput) -> @location(0) vec4f {
    return v.color;
}
`

// Entry points of Shader.
const (
	VertexEntryPoint   = "vsh"
	FragmentEntryPoint = "fsh"
)

// Triangle is the clip-space vertex data: three float32x2 positions.
var Triangle = [6]float32{0.0, -0.5, 0.75, 0.5, -0.75, 0.5}

const (
	// bufferSize is the size of the vertex and staging buffers.
	bufferSize = 128
	// triangleBytes is the upload size: six float32 values.
	triangleBytes = uint64(4 * len(Triangle))
	// vertexStride is one float32x2 position.
	vertexStride = 4 * 2
)
