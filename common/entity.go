package common

import (
	"fmt"
	"sync/atomic"
)

// Entity identifies either a scene entity or a frame-scoped render entity.
// The zero value is never allocated and means "no entity".
type Entity uint64

// NoEntity is the sentinel for an absent entity reference.
const NoEntity Entity = 0

// IsValid reports whether the entity refers to something.
func (e Entity) IsValid() bool {
	return e != NoEntity
}

func (e Entity) String() string {
	if e == NoEntity {
		return "Entity(none)"
	}
	return fmt.Sprintf("Entity(%d)", uint64(e))
}

// EntityPair joins a frame-scoped render entity to the scene entity it was extracted from.
type EntityPair struct {
	Render Entity
	Main   Entity
}

// EntityAllocator hands out unique entity ids. Render worlds reset it every frame so
// render entities are only meaningful within the frame that allocated them.
type EntityAllocator struct {
	next atomic.Uint64
}

// Alloc returns a new entity id. Safe for concurrent use.
//
// Returns:
//   - Entity: a fresh, non-zero entity id
func (a *EntityAllocator) Alloc() Entity {
	return Entity(a.next.Add(1))
}

// Reset makes the allocator start over from the first id.
func (a *EntityAllocator) Reset() {
	a.next.Store(0)
}
