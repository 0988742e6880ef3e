package chalkfield

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Surface is the minimal drawing backend the field and play renderers target.
// Coordinates are logical pixels; the implementation applies any device
// scale. Keeping renderers off the concrete backend makes them portable and
// testable against a recording fake.
type Surface interface {
	// SetBlend selects the compositing operation for subsequent calls.
	SetBlend(BlendMode)
	FillRect(x, y, w, h float64, c Color)
	StrokeLine(x0, y0, x1, y1, width float64, c Color)
	// StrokePolyline strokes connected segments with round joins and caps.
	StrokePolyline(pts []Vec2, width float64, c Color)
	FillCircle(cx, cy, r float64, c Color)
	StrokeCircle(cx, cy, r, width float64, c Color)
	FillTriangle(a, b, c Vec2, col Color)
	// DrawSprite draws img stretched to w x h at (x, y) with the given alpha.
	DrawSprite(img *ebiten.Image, x, y, w, h, alpha float64)
	// DrawText draws s with its top-left at (x, y) using the fallback face.
	DrawText(s string, x, y, size float64, c Color)
	// MeasureText returns the advance width DrawText would produce.
	MeasureText(s string, size float64) float64
}

// ebitenSurface renders Surface calls onto an *ebiten.Image. One instance is
// reused across frames so the vertex scratch buffers reach a high-water mark
// and stop allocating.
type ebitenSurface struct {
	dst   *ebiten.Image
	scale float64
	blend ebiten.Blend
	font  *text.GoTextFaceSource

	path  vector.Path
	verts []ebiten.Vertex
	inds  []uint16
}

func newEbitenSurface(font *text.GoTextFaceSource) *ebitenSurface {
	return &ebitenSurface{scale: 1, font: font}
}

// reset points the surface at this frame's target and restores defaults.
func (s *ebitenSurface) reset(dst *ebiten.Image, scale float64) {
	s.dst = dst
	s.scale = scale
	s.blend = BlendNormal.EbitenBlend()
}

func (s *ebitenSurface) SetBlend(mode BlendMode) {
	s.blend = mode.EbitenBlend()
}

func (s *ebitenSurface) FillRect(x, y, w, h float64, c Color) {
	s.path.Reset()
	s.path.MoveTo(float32(x*s.scale), float32(y*s.scale))
	s.path.LineTo(float32((x+w)*s.scale), float32(y*s.scale))
	s.path.LineTo(float32((x+w)*s.scale), float32((y+h)*s.scale))
	s.path.LineTo(float32(x*s.scale), float32((y+h)*s.scale))
	s.path.Close()
	s.fillPath(c)
}

func (s *ebitenSurface) StrokeLine(x0, y0, x1, y1, width float64, c Color) {
	s.path.Reset()
	s.path.MoveTo(float32(x0*s.scale), float32(y0*s.scale))
	s.path.LineTo(float32(x1*s.scale), float32(y1*s.scale))
	s.strokePath(width, c)
}

func (s *ebitenSurface) StrokePolyline(pts []Vec2, width float64, c Color) {
	if len(pts) < 2 {
		return
	}
	s.path.Reset()
	s.path.MoveTo(float32(pts[0].X*s.scale), float32(pts[0].Y*s.scale))
	for _, p := range pts[1:] {
		s.path.LineTo(float32(p.X*s.scale), float32(p.Y*s.scale))
	}
	s.strokePath(width, c)
}

func (s *ebitenSurface) FillCircle(cx, cy, r float64, c Color) {
	s.path.Reset()
	s.path.Arc(float32(cx*s.scale), float32(cy*s.scale), float32(r*s.scale), 0, 2*3.14159265358979, vector.Clockwise)
	s.fillPath(c)
}

func (s *ebitenSurface) StrokeCircle(cx, cy, r, width float64, c Color) {
	s.path.Reset()
	s.path.Arc(float32(cx*s.scale), float32(cy*s.scale), float32(r*s.scale), 0, 2*3.14159265358979, vector.Clockwise)
	s.path.Close()
	s.strokePath(width, c)
}

func (s *ebitenSurface) FillTriangle(a, b, c Vec2, col Color) {
	s.path.Reset()
	s.path.MoveTo(float32(a.X*s.scale), float32(a.Y*s.scale))
	s.path.LineTo(float32(b.X*s.scale), float32(b.Y*s.scale))
	s.path.LineTo(float32(c.X*s.scale), float32(c.Y*s.scale))
	s.path.Close()
	s.fillPath(col)
}

func (s *ebitenSurface) DrawSprite(img *ebiten.Image, x, y, w, h, alpha float64) {
	if img == nil || alpha <= 0 {
		return
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Scale(w*s.scale/float64(b.Dx()), h*s.scale/float64(b.Dy()))
	op.GeoM.Translate(x*s.scale, y*s.scale)
	op.ColorScale.ScaleAlpha(float32(alpha))
	op.Blend = s.blend
	s.dst.DrawImage(img, op)
}

func (s *ebitenSurface) DrawText(str string, x, y, size float64, c Color) {
	if s.font == nil {
		return
	}
	face := &text.GoTextFace{Source: s.font, Size: size * s.scale}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x*s.scale, y*s.scale)
	op.ColorScale.ScaleWithColor(c.toRGBA())
	op.Blend = s.blend
	text.Draw(s.dst, str, face, op)
}

func (s *ebitenSurface) MeasureText(str string, size float64) float64 {
	if s.font == nil {
		// Rough advance so cutout geometry stays sane without a face.
		return 0.6 * size * float64(len(str))
	}
	face := &text.GoTextFace{Source: s.font, Size: size * s.scale}
	return text.Advance(str, face) / s.scale
}

// strokePath flushes s.path as a stroked triangle batch.
func (s *ebitenSurface) strokePath(width float64, c Color) {
	op := &vector.StrokeOptions{
		Width:    float32(width * s.scale),
		LineCap:  vector.LineCapRound,
		LineJoin: vector.LineJoinRound,
	}
	s.verts, s.inds = s.path.AppendVerticesAndIndicesForStroke(s.verts[:0], s.inds[:0], op)
	s.drawVerts(c)
}

// fillPath flushes s.path as a filled triangle batch.
func (s *ebitenSurface) fillPath(c Color) {
	s.verts, s.inds = s.path.AppendVerticesAndIndicesForFilling(s.verts[:0], s.inds[:0])
	s.drawVerts(c)
}

func (s *ebitenSurface) drawVerts(c Color) {
	for i := range s.verts {
		s.verts[i].SrcX = 1.5
		s.verts[i].SrcY = 1.5
		s.verts[i].ColorR = float32(c.R)
		s.verts[i].ColorG = float32(c.G)
		s.verts[i].ColorB = float32(c.B)
		s.verts[i].ColorA = float32(c.A)
	}
	op := &ebiten.DrawTrianglesOptions{
		ColorScaleMode: ebiten.ColorScaleModeStraightAlpha,
		AntiAlias:      true,
		Blend:          s.blend,
	}
	s.dst.DrawTriangles(s.verts, s.inds, WhitePixel, op)
}
