package main

import (
	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/asset"
)

// panelImage draws a size x size panel with a border wide dark frame, a light bevel and a flat body.
// It stands in for panel.png when the asset root has none.
func panelImage(size, border uint32) *asset.Image {
	pixels := make([]byte, size*size*4)
	for y := range size {
		for x := range size {
			edge := min(x, y, size-1-x, size-1-y)
			var c [4]byte
			switch {
			case edge == 0:
				c = [4]byte{20, 22, 30, 255}
			case edge < border/2:
				c = [4]byte{150, 160, 190, 255}
			case edge < border:
				c = [4]byte{90, 100, 130, 255}
			default:
				c = [4]byte{50, 56, 74, 235}
			}
			copy(pixels[(y*size+x)*4:], c[:])
		}
	}
	return &asset.Image{Data: common.TextureStagingData{Pixels: pixels, Width: size, Height: size}}
}

// checkerImage draws a two-color checkerboard of cell x cell squares.
func checkerImage(size, cell uint32) *asset.Image {
	pixels := make([]byte, size*size*4)
	for y := range size {
		for x := range size {
			c := [4]byte{32, 34, 40, 255}
			if (x/cell+y/cell)%2 == 0 {
				c = [4]byte{40, 43, 52, 255}
			}
			copy(pixels[(y*size+x)*4:], c[:])
		}
	}
	return &asset.Image{Data: common.TextureStagingData{Pixels: pixels, Width: size, Height: size}}
}

// iconSheet draws a columns x rows sheet of tile sized icons, each a filled square of its own hue.
func iconSheet(tile, columns, rows uint32) *asset.Image {
	w, h := tile*columns, tile*rows
	pixels := make([]byte, w*h*4)
	for y := range h {
		for x := range w {
			i := (y/tile)*columns + x/tile
			lx, ly := x%tile, y%tile
			if lx < 2 || ly < 2 || lx >= tile-2 || ly >= tile-2 {
				continue
			}
			copy(pixels[(y*w+x)*4:], []byte{uint8(60 + 50*(i%4)), uint8(200 - 40*(i/4)), uint8(90 + 20*i), 255})
		}
	}
	return &asset.Image{Data: common.TextureStagingData{Pixels: pixels, Width: w, Height: h}}
}
