package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultTextRenderer(t *testing.T) {
	tr := NewDefaultTextRenderer()

	for r := rune(' '); r <= '~'; r++ {
		_, ok := tr.Glyphs[r]
		assert.True(t, ok, "glyph %q", r)
	}

	g := tr.Glyphs['A']
	assert.Equal(t, float32(7), g.Adv)
	assert.Less(t, g.UVMin[0], g.UVMax[0])
	assert.Less(t, g.UVMin[1], g.UVMax[1])

	var ink int
	for _, v := range tr.AtlasImage.Pix {
		if v != 0 {
			ink++
		}
	}
	assert.Greater(t, ink, 0, "atlas has rasterised glyphs")
}

func TestTextRenderer_BuildVertices(t *testing.T) {
	tr := NewDefaultTextRenderer()
	items := []TextItem{{
		Text:     "Hi\n!",
		Position: [2]float32{0, 0},
		Scale:    1,
		Color:    [4]float32{1, 0, 0, 1},
	}}

	verts := tr.BuildVertices(items, 200, 100)

	require.Len(t, verts, 3*6)
	for _, v := range verts {
		assert.GreaterOrEqual(t, v.Pos[0], float32(-1))
		assert.LessOrEqual(t, v.Pos[0], float32(1))
		assert.GreaterOrEqual(t, v.Pos[1], float32(-1))
		assert.LessOrEqual(t, v.Pos[1], float32(1))
		assert.Equal(t, [4]float32{1, 0, 0, 1}, v.Color)
	}

	// 'i' starts one advance to the right of 'H'
	assert.InDelta(t, verts[0].Pos[0]+2*7.0/200, verts[6].Pos[0], 1e-6)
	// '!' sits on the second line
	assert.Less(t, verts[12].Pos[1], verts[0].Pos[1])
}

func TestTextRenderer_BuildVerticesSkipsUnknown(t *testing.T) {
	tr := NewDefaultTextRenderer()
	verts := tr.BuildVertices([]TextItem{{Text: "é", Scale: 1}}, 100, 100)
	assert.Empty(t, verts)
	assert.Nil(t, tr.BuildVertices([]TextItem{{Text: "a", Scale: 1}}, 0, 100))
}

func TestTextRenderer_MeasureText(t *testing.T) {
	tr := NewDefaultTextRenderer()

	w, h := tr.MeasureText("abc\nde", 2)
	assert.Equal(t, float32(3*7*2), w)
	assert.Equal(t, tr.LineHeight(2)*2, h)

	var nilTR *TextRenderer
	w, h = nilTR.MeasureText("abc", 1)
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestNewTextRendererFromFile_Missing(t *testing.T) {
	_, err := NewTextRendererFromFile("/does/not/exist.ttf", 12)
	assert.Error(t, err)
}
