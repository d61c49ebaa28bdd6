package pipeline

import (
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
)

// MergeBindGroupLayouts combines the bind group layout descriptors of a vertex and fragment shader
// into one set suitable for a pipeline layout.
//
// For each group index present in either shader:
//   - Entries with the same binding number have their Visibility flags ORed together
//   - Entries unique to one shader are included with their original visibility
//
// Parameters:
//   - vertexLayouts: bind group layout descriptors from the vertex shader
//   - fragmentLayouts: bind group layout descriptors from the fragment shader
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: the merged descriptors keyed by group index
func MergeBindGroupLayouts(vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor, max(len(vertexLayouts), len(fragmentLayouts)))
	for g, desc := range vertexLayouts {
		merged[g] = wgpu.BindGroupLayoutDescriptor{Label: desc.Label, Entries: slices.Clone(desc.Entries)}
	}

	for g, fDesc := range fragmentLayouts {
		vDesc, ok := merged[g]
		if !ok {
			merged[g] = wgpu.BindGroupLayoutDescriptor{Label: fDesc.Label, Entries: slices.Clone(fDesc.Entries)}
			continue
		}
		for _, e := range fDesc.Entries {
			idx := slices.IndexFunc(vDesc.Entries, func(v wgpu.BindGroupLayoutEntry) bool {
				return v.Binding == e.Binding
			})
			if idx >= 0 {
				vDesc.Entries[idx].Visibility |= e.Visibility
				continue
			}
			vDesc.Entries = append(vDesc.Entries, e)
		}
		slices.SortFunc(vDesc.Entries, func(a, b wgpu.BindGroupLayoutEntry) int {
			return int(a.Binding) - int(b.Binding)
		})
		merged[g] = vDesc
	}
	return merged
}

// GroupCount returns one past the highest group index in the layouts, the length of the pipeline
// layout's bind group list.
func GroupCount(layouts map[int]wgpu.BindGroupLayoutDescriptor) int {
	n := 0
	for g := range layouts {
		n = max(n, g+1)
	}
	return n
}
