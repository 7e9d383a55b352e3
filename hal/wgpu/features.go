//go:build !(js && wasm)

package wgpu

import (
	"fmt"
	"sort"

	"github.com/gogpu/gputypes"
)

// featureNames maps native feature bits to their WebGPU names. Bits without
// a WebGPU name (push constants, subgroups) are never reported.
var featureNames = map[gputypes.Feature]string{
	gputypes.FeatureDepthClipControl:        "depth-clip-control",
	gputypes.FeatureDepth32FloatStencil8:    "depth32float-stencil8",
	gputypes.FeatureTextureCompressionBC:    "texture-compression-bc",
	gputypes.FeatureTextureCompressionETC2:  "texture-compression-etc2",
	gputypes.FeatureTextureCompressionASTC:  "texture-compression-astc",
	gputypes.FeatureIndirectFirstInstance:   "indirect-first-instance",
	gputypes.FeatureShaderF16:               "shader-f16",
	gputypes.FeatureRG11B10UfloatRenderable: "rg11b10ufloat-renderable",
	gputypes.FeatureBGRA8UnormStorage:       "bgra8unorm-storage",
	gputypes.FeatureFloat32Filterable:       "float32-filterable",
	gputypes.FeatureTimestampQuery:          "timestamp-query",
}

var featureValues = func() map[string]gputypes.Feature {
	m := make(map[string]gputypes.Feature, len(featureNames))
	for f, name := range featureNames {
		m[name] = f
	}
	return m
}()

// FeatureNames returns the sorted WebGPU names of the features in fs.
func FeatureNames(fs gputypes.Features) []string {
	names := make([]string, 0, len(featureNames))
	for f, name := range featureNames {
		if fs.Contains(f) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ParseFeatures converts WebGPU feature names to a feature set.
func ParseFeatures(names []string) (gputypes.Features, error) {
	var fs gputypes.Features
	for _, name := range names {
		f, ok := featureValues[name]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownFeature, name)
		}
		fs.Insert(f)
	}
	return fs, nil
}
