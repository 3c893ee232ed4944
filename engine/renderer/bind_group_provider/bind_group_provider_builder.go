package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption configures a BindGroupProvider in NewBindGroupProvider.
type BindGroupProviderOption func(*bindGroupProvider)

// WithSharedBindGroupLayout creates the bind group against a layout owned elsewhere, usually
// by a registered pipeline. The provider never releases a shared layout.
//
// Parameters:
//   - bgl: the layout to share; nil leaves the provider to create its own
//
// Returns:
//   - BindGroupProviderOption: the option
func WithSharedBindGroupLayout(bgl *wgpu.BindGroupLayout) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.layout = bgl
		p.sharedLayout = bgl != nil
	}
}
