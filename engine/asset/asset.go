// Package asset holds images and texture atlas layouts by id, reports their changes as events and keeps
// their GPU realizations in sync.
package asset

import (
	"fmt"
	"sync/atomic"
)

// AssetID identifies an asset. The zero value is InvalidID.
type AssetID uint64

const (
	// InvalidID refers to no asset. Batching uses it for "no image resolved yet".
	InvalidID AssetID = iota
	// DefaultImageID is the 1x1 opaque white image used by nodes without a texture. It behaves as a
	// wildcard when batching: it can join a batch of any other image.
	DefaultImageID
	// TransparentImageID is the 1x1 fully transparent image. Nodes showing it are never drawn.
	TransparentImageID

	firstDynamicID
)

func (id AssetID) String() string {
	switch id {
	case InvalidID:
		return "AssetID(invalid)"
	case DefaultImageID:
		return "AssetID(default)"
	case TransparentImageID:
		return "AssetID(transparent)"
	}
	return fmt.Sprintf("AssetID(%d)", uint64(id))
}

// IsDefault reports whether id is the wildcard default image.
func (id AssetID) IsDefault() bool {
	return id == DefaultImageID
}

// idAllocator hands out ids after the well-known ones.
type idAllocator struct {
	next atomic.Uint64
}

func (a *idAllocator) alloc() AssetID {
	return AssetID(a.next.Add(1)) + firstDynamicID - 1
}
