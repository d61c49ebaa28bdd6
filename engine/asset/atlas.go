package asset

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-ui/common"
)

// TextureAtlasLayout describes the sub-rectangles of an atlas image.
type TextureAtlasLayout struct {
	Size     common.UVec2
	Textures []common.URect
}

// NewTextureAtlasLayout creates an empty layout for an image of the given size.
func NewTextureAtlasLayout(size common.UVec2) *TextureAtlasLayout {
	return &TextureAtlasLayout{Size: size}
}

// TextureAtlasLayoutFromGrid lays out columns x rows cells of tileSize, row by row. padding separates
// cells and offset shifts the whole grid from the image origin.
//
// Parameters:
//   - tileSize: the pixel size of one cell
//   - columns: the number of cells per row
//   - rows: the number of rows
//   - padding: the gap between neighbouring cells
//   - offset: the position of the first cell
//
// Returns:
//   - *TextureAtlasLayout: the layout, sized to fit the grid
func TextureAtlasLayoutFromGrid(tileSize common.UVec2, columns, rows uint32, padding, offset common.UVec2) *TextureAtlasLayout {
	layout := &TextureAtlasLayout{}
	var current common.UVec2
	for y := range rows {
		if y > 0 {
			current.Y += padding.Y
		}
		current.X = 0
		for x := range columns {
			if x > 0 {
				current.X += padding.X
			}
			cellMin := common.UVec2{X: offset.X + current.X, Y: offset.Y + current.Y}
			layout.AddTexture(common.URect{Min: cellMin, Max: common.UVec2{X: cellMin.X + tileSize.X, Y: cellMin.Y + tileSize.Y}})
			current.X += tileSize.X
		}
		current.Y += tileSize.Y
	}
	layout.Size = common.UVec2{
		X: offset.X + columns*tileSize.X + max(columns, 1)*padding.X - padding.X,
		Y: offset.Y + rows*tileSize.Y + max(rows, 1)*padding.Y - padding.Y,
	}
	return layout
}

// AddTexture appends a sub-rectangle and returns its index.
func (l *TextureAtlasLayout) AddTexture(rect common.URect) int {
	l.Textures = append(l.Textures, rect)
	return len(l.Textures) - 1
}

// Len returns the number of sub-rectangles.
func (l *TextureAtlasLayout) Len() int {
	return len(l.Textures)
}

// TextureAtlas selects one cell of a layout.
type TextureAtlas struct {
	Layout AssetID
	Index  int
}

// TextureRect returns the pixel rect of the selected cell, or false when the layout is not loaded or the
// index is out of range.
func (a *TextureAtlas) TextureRect(layouts *TextureAtlasLayouts) (common.URect, bool) {
	layout, ok := layouts.Get(a.Layout)
	if !ok || a.Index < 0 || a.Index >= layout.Len() {
		return common.URect{}, false
	}
	return layout.Textures[a.Index], true
}

// TextureAtlasLayouts is the store of atlas layouts.
type TextureAtlasLayouts struct {
	mu      *sync.RWMutex
	layouts map[AssetID]*TextureAtlasLayout
	ids     idAllocator
}

// NewTextureAtlasLayouts creates an empty layout store.
func NewTextureAtlasLayouts() *TextureAtlasLayouts {
	return &TextureAtlasLayouts{
		mu:      &sync.RWMutex{},
		layouts: make(map[AssetID]*TextureAtlasLayout),
	}
}

// Add stores a layout under a new id.
func (s *TextureAtlasLayouts) Add(layout *TextureAtlasLayout) AssetID {
	id := s.ids.alloc()
	s.Insert(id, layout)
	return id
}

// Insert stores a layout under id, replacing any previous one.
func (s *TextureAtlasLayouts) Insert(id AssetID, layout *TextureAtlasLayout) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layouts[id] = layout
}

// Get returns the layout stored under id.
func (s *TextureAtlasLayouts) Get(id AssetID) (*TextureAtlasLayout, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.layouts[id]
	return l, ok
}

// Remove deletes the layout under id.
func (s *TextureAtlasLayouts) Remove(id AssetID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.layouts, id)
}
