package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-ui/engine/asset"
)

// imageLoaderBackend decodes one family of image files into CPU images.
type imageLoaderBackend interface {
	// Extensions returns the lower case file extensions the backend decodes, with the leading dot.
	Extensions() []string

	// LoadReader decodes an image from a stream.
	//
	// Parameters:
	//   - r: the reader providing the encoded image
	//
	// Returns:
	//   - *asset.Image: the decoded RGBA8 image
	//   - error: error if decoding fails
	LoadReader(r io.Reader) (*asset.Image, error)
}

// atlasLoaderBackend decodes texture atlas layout files.
type atlasLoaderBackend interface {
	// Extensions returns the lower case file suffixes the backend decodes, with the leading dot.
	Extensions() []string

	// LoadReader decodes an atlas layout from a stream.
	//
	// Parameters:
	//   - r: the reader providing the layout file
	//
	// Returns:
	//   - *asset.TextureAtlasLayout: the layout
	//   - error: error if decoding fails or the layout is invalid
	LoadReader(r io.Reader) (*asset.TextureAtlasLayout, error)
}
