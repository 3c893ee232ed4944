package tilemap_renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-tilemap/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-tilemap/engine/tilemap_view"
)

// chunkRenderer meshes and draws the column window [fromX, toX) of its owner's grid.
type chunkRenderer struct {
	mu      sync.Mutex
	backend *backend

	owner      tilemap_view.Owner
	fromX, toX int
	label      string

	dirty      bool
	mesh       bind_group_provider.BindGroupProvider
	indexCount int

	initialized bool
	disposed    bool
}

var _ tilemap_view.ChunkRenderer = &chunkRenderer{}

func (c *chunkRenderer) Init(owner tilemap_view.Owner, fromX, toX int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return ErrDisposed
	}
	if owner == nil {
		return errors.New("tilemap_renderer: chunk renderer requires an owner")
	}
	if fromX < 0 || toX < fromX {
		return fmt.Errorf("tilemap_renderer: invalid column window [%d, %d)", fromX, toX)
	}

	c.owner = owner
	c.fromX, c.toX = fromX, toX
	c.label = fmt.Sprintf("tilemap chunk [%d, %d)", fromX, toX)
	c.dirty = true
	c.initialized = true
	return nil
}

func (c *chunkRenderer) MarkDirty() {
	c.mu.Lock()
	c.dirty = true
	c.mu.Unlock()
}

func (c *chunkRenderer) RebuildIfDirty() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return ErrDisposed
	}
	if !c.initialized {
		return ErrNotInitialized
	}
	if !c.dirty {
		return nil
	}

	tm := c.owner.Tilemap()
	if tm == nil {
		return fmt.Errorf("rebuild %s: owner is not attached", c.label)
	}

	m := BuildChunkMesh(tm, c.fromX, c.toX, c.backend.atlas)
	if m.Empty() {
		if c.mesh != nil {
			c.mesh.ReleaseMesh()
		}
		c.indexCount = 0
		c.dirty = false
		return nil
	}

	// The previous mesh stays drawable until the replacement is uploaded.
	next, err := c.backend.upload(c.label, m)
	if err != nil {
		return fmt.Errorf("upload %s: %w", c.label, err)
	}
	if c.mesh != nil {
		c.mesh.Release()
	}
	c.mesh = next
	c.indexCount = len(m.Indices)
	c.dirty = false
	return nil
}

func (c *chunkRenderer) Draw() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return ErrDisposed
	}
	if c.indexCount == 0 {
		return nil
	}
	return c.backend.drawChunk(c.mesh)
}

func (c *chunkRenderer) Dispose() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return ErrDisposed
	}
	c.disposed = true
	if c.mesh != nil {
		c.mesh.Release()
		c.mesh = nil
	}
	c.indexCount = 0
	c.owner = nil
	return nil
}
