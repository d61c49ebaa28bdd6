package loader

import (
	"errors"
	"fmt"
	"io"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/asset"
	"gopkg.in/yaml.v3"
)

// atlasFile is the YAML form of a texture atlas layout. A layout lists its cells explicitly, as a grid,
// or both; grid cells come first.
//
//	size: [128, 64]
//	grid:
//	  tile: [32, 32]
//	  columns: 4
//	  rows: 2
//	rects:
//	  - [0, 0, 16, 16] # x, y, width, height
type atlasFile struct {
	Size  [2]uint32   `yaml:"size"`
	Grid  *atlasGrid  `yaml:"grid"`
	Rects [][4]uint32 `yaml:"rects"`
}

type atlasGrid struct {
	Tile    [2]uint32 `yaml:"tile"`
	Columns uint32    `yaml:"columns"`
	Rows    uint32    `yaml:"rows"`
	Padding [2]uint32 `yaml:"padding"`
	Offset  [2]uint32 `yaml:"offset"`
}

// yamlAtlasLoaderBackend decodes *.atlas.yaml sidecar files.
type yamlAtlasLoaderBackend struct{}

var _ atlasLoaderBackend = &yamlAtlasLoaderBackend{}

func (b *yamlAtlasLoaderBackend) Extensions() []string {
	return []string{".atlas.yaml", ".atlas.yml"}
}

func (b *yamlAtlasLoaderBackend) LoadReader(r io.Reader) (*asset.TextureAtlasLayout, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f atlasFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode atlas layout: %w", err)
	}

	layout := asset.NewTextureAtlasLayout(common.UVec2{X: f.Size[0], Y: f.Size[1]})
	if g := f.Grid; g != nil {
		if g.Tile[0] == 0 || g.Tile[1] == 0 {
			return nil, errors.New("atlas grid tile has zero extent")
		}
		grid := asset.TextureAtlasLayoutFromGrid(
			common.UVec2{X: g.Tile[0], Y: g.Tile[1]},
			g.Columns, g.Rows,
			common.UVec2{X: g.Padding[0], Y: g.Padding[1]},
			common.UVec2{X: g.Offset[0], Y: g.Offset[1]},
		)
		layout.Textures = append(layout.Textures, grid.Textures...)
		if layout.Size == (common.UVec2{}) {
			layout.Size = grid.Size
		}
	}
	for i, r := range f.Rects {
		if r[2] == 0 || r[3] == 0 {
			return nil, fmt.Errorf("atlas rect %d has zero extent", i)
		}
		layout.AddTexture(common.URect{
			Min: common.UVec2{X: r[0], Y: r[1]},
			Max: common.UVec2{X: r[0] + r[2], Y: r[1] + r[3]},
		})
	}

	if layout.Len() == 0 {
		return nil, errors.New("atlas layout has no cells")
	}
	if layout.Size.X == 0 || layout.Size.Y == 0 {
		return nil, errors.New("atlas layout size is required when no grid is given")
	}
	return layout, nil
}
