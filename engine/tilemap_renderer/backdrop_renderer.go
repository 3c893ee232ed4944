package tilemap_renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-tilemap/common"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/tilemap_view"
)

// backdropRenderer draws a shaded ring covering the whole grid behind its tiles.
type backdropRenderer struct {
	mu      sync.Mutex
	backend *backend

	uniform    bind_group_provider.BindGroupProvider
	mesh       bind_group_provider.BindGroupProvider
	indexCount int

	disposed bool
}

var _ tilemap_view.BackdropRenderer = &backdropRenderer{}

func (r *backdropRenderer) Init(owner tilemap_view.Owner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.disposed {
		return ErrDisposed
	}
	if owner == nil || owner.Tilemap() == nil {
		return errors.New("tilemap_renderer: backdrop requires an attached owner")
	}

	if r.uniform == nil {
		u := bind_group_provider.NewBindGroupProvider("tilemap backdrop",
			bind_group_provider.WithSharedBindGroupLayout(sharedLayout(r.backend.device, BackdropPipelineKey, 0)),
		)
		if err := r.backend.device.InitBindGroup(u, backdropLayout(), nil); err != nil {
			u.Release()
			return fmt.Errorf("init backdrop bind group: %w", err)
		}
		r.uniform = u
	}

	// Radii may differ between grids of the same size, so a rebind always remeshes.
	m := BuildBackdropMesh(owner.Tilemap(), r.backend.backdropSegments)
	var next bind_group_provider.BindGroupProvider
	if !m.Empty() {
		var err error
		next, err = r.backend.upload("tilemap backdrop mesh", m)
		if err != nil {
			return fmt.Errorf("upload backdrop: %w", err)
		}
	}
	if r.mesh != nil {
		r.mesh.Release()
	}
	r.mesh = next
	r.indexCount = len(m.Indices)
	return nil
}

func (r *backdropRenderer) Draw(transform common.Mat4) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.disposed {
		return ErrDisposed
	}
	if r.uniform == nil {
		return ErrNotInitialized
	}
	if r.indexCount == 0 {
		return nil
	}

	u := backdropUniform{Transform: transform, Color: r.backend.backdropColor}
	r.backend.device.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: r.uniform, Binding: 0, Data: common.StructToBytes(&u)},
	})
	return r.backend.device.DrawCall(BackdropPipelineKey, r.mesh, []bind_group_provider.BindGroupProvider{r.uniform})
}

func (r *backdropRenderer) Dispose() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.disposed {
		return ErrDisposed
	}
	r.disposed = true
	for _, p := range []bind_group_provider.BindGroupProvider{r.mesh, r.uniform} {
		if p != nil {
			p.Release()
		}
	}
	r.mesh, r.uniform = nil, nil
	r.indexCount = 0
	return nil
}
