package node

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-ui/common"
	"github.com/Carmen-Shannon/oxy-ui/engine/asset"
	"github.com/Carmen-Shannon/oxy-ui/engine/sprite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNode_Defaults(t *testing.T) {
	n := NewNode()

	assert.True(t, n.Visible())
	assert.Equal(t, common.IdentityAffine2(), n.Transform())
	assert.Equal(t, float32(1), n.Computed().InverseScaleFactor)
	_, ok := n.Clip()
	assert.False(t, ok)
	_, ok = n.Image()
	assert.False(t, ok)
	assert.False(t, n.TargetCamera().IsValid())
}

func TestNode_OptionsAndCopies(t *testing.T) {
	clip := common.NewRect(0, 0, 10, 10)
	img := NewImageNode(asset.DefaultImageID)
	img.Mode = SlicedMode(sprite.NewTextureSlicer(sprite.BorderSquare(4)))

	n := NewNode(
		WithSize(common.V2(40, 20)),
		WithStackIndex(3),
		WithCenter(common.V2(100, 50)),
		WithClip(clip),
		WithTargetCamera(9),
		WithImage(img),
	)

	assert.Equal(t, common.V2(40, 20), n.Computed().Size)
	assert.Equal(t, uint32(3), n.Computed().StackIndex)
	assert.Equal(t, common.V2(100, 50), n.Transform().Translation)
	assert.Equal(t, common.Entity(9), n.TargetCamera())

	got, ok := n.Clip()
	require.True(t, ok)
	assert.Equal(t, clip, got)

	// mutating what was passed in does not leak into the node
	gotImg, ok := n.Image()
	require.True(t, ok)
	gotImg.FlipX = true
	again, _ := n.Image()
	assert.False(t, again.FlipX)

	n.SetClip(nil)
	_, ok = n.Clip()
	assert.False(t, ok)
}

func TestNodeImageMode_SpriteMode(t *testing.T) {
	slicer := sprite.NewTextureSlicer(sprite.BorderSquare(2))
	tests := []struct {
		name     string
		mode     NodeImageMode
		expected sprite.ImageMode
		ok       bool
	}{
		{"auto", NodeImageMode{Kind: ImageModeAuto}, nil, false},
		{"stretch", NodeImageMode{Kind: ImageModeStretch}, nil, false},
		{"sliced", SlicedMode(slicer), sprite.Sliced{Slicer: slicer}, true},
		{"tiled", TiledMode(true, false, 2), sprite.Tiled{TileX: true, StretchValue: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, ok := tt.mode.SpriteMode()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, mode)
		})
	}
}
