package chalkfield

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default chalk tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// toRGBA converts to a premultiplied color.RGBA for ebiten fills.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp(c.R*c.A, 0, 1)*255 + 0.5),
		G: uint8(clamp(c.G*c.A, 0, 1)*255 + 0.5),
		B: uint8(clamp(c.B*c.A, 0, 1)*255 + 0.5),
		A: uint8(clamp(c.A, 0, 1)*255 + 0.5),
	}
}

// scaled returns the color with its alpha multiplied by a.
func (c Color) scaled(a float64) Color {
	return Color{c.R, c.G, c.B, c.A * a}
}

// Vec2 is a 2D vector used for positions, offsets, and directions throughout
// the API. The coordinate system has its origin at the top-left, with Y
// increasing downward.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// WhitePixel is a 1x1 white image used as the triangle source for solid
// color strokes and fills. It is the center of a 3x3 white image so that
// antialiased edge sampling never bleeds past the texel.
var WhitePixel *ebiten.Image

func init() {
	base := ebiten.NewImage(3, 3)
	base.Fill(ColorWhite.toRGBA())
	WhitePixel = base.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// BlendMode selects a compositing operation. Each maps to a specific
// ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                       // additive / lighter
	BlendMultiply                  // multiply (source * destination; only darkens)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendNormal:
		return ebiten.BlendSourceOver
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	default:
		return ebiten.BlendSourceOver
	}
}

// boardColor is the chalkboard backdrop behind everything.
var boardColor = Color{R: 0.055, G: 0.102, B: 0.075, A: 1}

// chalkLine is the base tint for field geometry.
var chalkLine = Color{R: 0.93, G: 0.95, B: 0.94, A: 1}

// chalkPalette is the set of tints cycled across spawned plays.
var chalkPalette = []Color{
	{R: 0.93, G: 0.95, B: 0.97, A: 1},
	{R: 1.00, G: 0.85, B: 0.55, A: 1},
	{R: 0.65, G: 0.85, B: 1.00, A: 1},
	{R: 0.98, G: 0.70, B: 0.72, A: 1},
}
