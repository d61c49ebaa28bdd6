package loader

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/asset"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// rasterLoaderBackend decodes every raster format registered with the image package: png, jpeg, bmp,
// tiff and webp.
type rasterLoaderBackend struct {
	sampler common.SamplerStagingData
}

var _ imageLoaderBackend = &rasterLoaderBackend{}

func newRasterLoaderBackend(sampler common.SamplerStagingData) *rasterLoaderBackend {
	return &rasterLoaderBackend{sampler: sampler}
}

func (b *rasterLoaderBackend) Extensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp"}
}

func (b *rasterLoaderBackend) LoadReader(r io.Reader) (*asset.Image, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	bounds := src.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("%s image has zero extent", format)
	}

	return &asset.Image{
		Data: common.TextureStagingData{
			Pixels: toNRGBA(src).Pix,
			Width:  uint32(bounds.Dx()),
			Height: uint32(bounds.Dy()),
		},
		Sampler: b.sampler,
	}, nil
}

// toNRGBA returns the pixels of src as tightly packed, non-premultiplied RGBA8 rows starting at the
// origin.
func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	if img, ok := src.(*image.NRGBA); ok && img.Rect.Min == (image.Point{}) && img.Stride == 4*bounds.Dx() {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
	return dst
}
