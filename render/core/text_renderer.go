package core

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	atlasSize    = 512
	atlasPadding = 2
	atlasGap     = 4
)

type TextVertex struct {
	Pos   [2]float32 // NDC
	UV    [2]float32
	Color [4]float32
}

// TextItem is a block of text anchored at its top-left corner, in pixels
// from the top-left of the framebuffer.
type TextItem struct {
	Text     string
	Position [2]float32
	Scale    float32
	Color    [4]float32
}

type GlyphInfo struct {
	UVMin [2]float32
	UVMax [2]float32
	Size  [2]float32
	Off   [2]float32
	Adv   float32
}

// TextRenderer holds a single-channel glyph atlas for printable ASCII.
type TextRenderer struct {
	AtlasImage *image.Alpha
	Glyphs     map[rune]GlyphInfo
	Face       font.Face
}

// NewDefaultTextRenderer uses the built-in 7x13 bitmap face, so the HUD
// works without any font files.
func NewDefaultTextRenderer() *TextRenderer {
	return NewTextRenderer(basicfont.Face7x13)
}

func NewTextRendererFromFile(fontPath string, fontSize float64) (*TextRenderer, error) {
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", fontPath, err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", fontPath, err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	return NewTextRenderer(face), nil
}

func NewTextRenderer(face font.Face) *TextRenderer {
	tr := &TextRenderer{
		AtlasImage: image.NewAlpha(image.Rect(0, 0, atlasSize, atlasSize)),
		Glyphs:     make(map[rune]GlyphInfo),
		Face:       face,
	}
	tr.pack(' ', '~')
	return tr
}

// pack rasterises runes [first, last] into the atlas row by row. Glyphs
// that no longer fit are skipped.
func (tr *TextRenderer) pack(first, last rune) {
	x, y := atlasPadding, atlasPadding
	rowHeight := 0

	for r := first; r <= last; r++ {
		bounds, mask, maskp, adv, ok := tr.Face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}
		w, h := bounds.Dx(), bounds.Dy()

		if x+w >= atlasSize {
			x = atlasPadding
			y += rowHeight + atlasGap
			rowHeight = 0
		}
		if y+h >= atlasSize {
			return
		}

		draw.Draw(tr.AtlasImage, image.Rect(x, y, x+w, y+h), mask, maskp, draw.Src)

		tr.Glyphs[r] = GlyphInfo{
			UVMin: [2]float32{float32(x) / atlasSize, float32(y) / atlasSize},
			UVMax: [2]float32{float32(x+w) / atlasSize, float32(y+h) / atlasSize},
			Size:  [2]float32{float32(w), float32(h)},
			Off:   [2]float32{float32(bounds.Min.X), float32(bounds.Min.Y)},
			Adv:   float32(adv) / 64,
		}

		x += w + atlasGap
		rowHeight = max(rowHeight, h)
	}
}

func (tr *TextRenderer) lineMetrics() (ascent, lineHeight float32) {
	m := tr.Face.Metrics()
	return float32(m.Ascent.Ceil()), float32(m.Height.Ceil())
}

// BuildVertices lays out items as two triangles per glyph in NDC for a
// framebuffer of screenW x screenH pixels.
func (tr *TextRenderer) BuildVertices(items []TextItem, screenW, screenH int) []TextVertex {
	if screenW <= 0 || screenH <= 0 {
		return nil
	}
	vertices := make([]TextVertex, 0, len(items)*6)

	sw, sh := float32(screenW), float32(screenH)
	ndc := func(px, py float32) [2]float32 {
		return [2]float32{px/sw*2 - 1, 1 - py/sh*2}
	}
	ascent, lineHeight := tr.lineMetrics()

	for _, item := range items {
		penX := item.Position[0]
		penY := item.Position[1] + ascent*item.Scale

		for _, r := range item.Text {
			if r == '\n' {
				penX = item.Position[0]
				penY += lineHeight * item.Scale
				continue
			}
			g, ok := tr.Glyphs[r]
			if !ok {
				continue
			}

			p0 := ndc(penX+g.Off[0]*item.Scale, penY+g.Off[1]*item.Scale)
			p1 := ndc(penX+(g.Off[0]+g.Size[0])*item.Scale, penY+(g.Off[1]+g.Size[1])*item.Scale)

			topLeft := TextVertex{Pos: p0, UV: g.UVMin, Color: item.Color}
			topRight := TextVertex{Pos: [2]float32{p1[0], p0[1]}, UV: [2]float32{g.UVMax[0], g.UVMin[1]}, Color: item.Color}
			bottomLeft := TextVertex{Pos: [2]float32{p0[0], p1[1]}, UV: [2]float32{g.UVMin[0], g.UVMax[1]}, Color: item.Color}
			bottomRight := TextVertex{Pos: p1, UV: g.UVMax, Color: item.Color}
			vertices = append(vertices, topLeft, topRight, bottomLeft, topRight, bottomRight, bottomLeft)

			penX += g.Adv * item.Scale
		}
	}
	return vertices
}

// MeasureText returns the width of the widest line and the total height.
func (tr *TextRenderer) MeasureText(text string, scale float32) (float32, float32) {
	if tr == nil {
		return 0, 0
	}
	_, lineHeight := tr.lineMetrics()

	var widest, line float32
	lines := 1
	for _, r := range text {
		if r == '\n' {
			widest = max(widest, line)
			line = 0
			lines++
			continue
		}
		if g, ok := tr.Glyphs[r]; ok {
			line += g.Adv * scale
		}
	}
	widest = max(widest, line)
	return widest, lineHeight * scale * float32(lines)
}

func (tr *TextRenderer) LineHeight(scale float32) float32 {
	if tr == nil {
		return 0
	}
	_, lh := tr.lineMetrics()
	return lh * scale
}
