package renderer

import (
	"cmp"
	"slices"

	"github.com/Carmen-Shannon/oxy-tilemap/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// mergeBindGroupLayouts combines the per-group layout descriptors declared by a pipeline's
// vertex and fragment shaders. A binding declared by both stages keeps the vertex entry with
// the two visibilities ORed; merged groups list their entries by ascending binding.
//
// Parameters:
//   - vertexLayouts: descriptors declared by the vertex shader, keyed by group
//   - fragmentLayouts: descriptors declared by the fragment shader, keyed by group
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: one descriptor per group used by either stage
func mergeBindGroupLayouts(vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor, len(vertexLayouts)+len(fragmentLayouts))
	for group, desc := range vertexLayouts {
		merged[group] = desc
	}
	for group, frag := range fragmentLayouts {
		vert, shared := merged[group]
		if !shared {
			merged[group] = frag
			continue
		}
		merged[group] = wgpu.BindGroupLayoutDescriptor{
			Label:   common.Coalesce(vert.Label, frag.Label),
			Entries: mergeEntries(vert.Entries, frag.Entries),
		}
	}
	return merged
}

func mergeEntries(a, b []wgpu.BindGroupLayoutEntry) []wgpu.BindGroupLayoutEntry {
	out := slices.Clone(a)
	for _, e := range b {
		i := slices.IndexFunc(out, func(x wgpu.BindGroupLayoutEntry) bool { return x.Binding == e.Binding })
		if i < 0 {
			out = append(out, e)
			continue
		}
		out[i].Visibility |= e.Visibility
	}
	slices.SortFunc(out, func(x, y wgpu.BindGroupLayoutEntry) int { return cmp.Compare(x.Binding, y.Binding) })
	return out
}
