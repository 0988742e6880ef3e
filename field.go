package chalkfield

import (
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Field layout constants, in fractions of the viewport width unless noted.
const (
	endZoneYards   = 10   // leading band of the cycle
	sidelineInset  = 0.04 // sideline x as a fraction of width
	numeralLeftX   = 0.13 // left numeral column center
	numeralRightX  = 0.87 // right numeral column center
	hashLeftX      = 0.36 // hash tick columns
	hashRightX     = 0.64 //
	hashTickLen    = 8.0  // px
	cutoutPad      = 8.0  // gap between a yard line end and a numeral, px
	pulseSeconds   = 0.9  // end-zone flash decay
	grainTileAlpha = 1.0
)

// FieldRenderer draws the cyclic field background at a scroll offset, plus
// the dim/vignette/grain overlays. It owns the one-shot end-zone pulse.
type FieldRenderer struct {
	cfg        Config
	pulse      *gween.Tween
	pulseAlpha float64
}

// NewFieldRenderer creates a renderer for the given config.
func NewFieldRenderer(cfg Config) *FieldRenderer {
	return &FieldRenderer{cfg: cfg}
}

// TriggerPulse starts the end-zone boundary flash.
func (f *FieldRenderer) TriggerPulse() {
	f.pulse = gween.New(1, 0, pulseSeconds, ease.OutQuad)
	f.pulseAlpha = 1
}

// Update advances the pulse tween by dt seconds.
func (f *FieldRenderer) Update(dt float64) {
	if f.pulse == nil {
		return
	}
	v, done := f.pulse.Update(float32(dt))
	f.pulseAlpha = float64(v)
	if done {
		f.pulse = nil
		f.pulseAlpha = 0
	}
}

// wrapOffset reduces a scroll offset into [0, cycle). Every scroll value is
// passed through here before any band math.
func wrapOffset(scroll, cycle float64) float64 {
	if cycle <= 0 {
		return 0
	}
	m := math.Mod(scroll, cycle)
	if m < 0 {
		m += cycle
	}
	return m
}

// yardLabel returns the numeral text for a yard line, mirrored across the
// 50: yards past midfield count back down. Yard 0 and 100 are the end-zone
// boundary, not numerals.
func yardLabel(yard int) string {
	if yard > 50 {
		yard = 100 - yard
	}
	return strconv.Itoa(yard)
}

// DrawBand draws one copy of the cycle at the given band offset (0 for the
// primary band, +cycleHeight for the seam-hiding band). The emblem and
// end-zone label render only in the primary band so they appear once per
// loop.
func (f *FieldRenderer) DrawBand(s Surface, atlas *GlyphAtlas, scroll, bandOffset, w, h float64) {
	cycle := f.cfg.CycleHeight()
	translate := bandOffset - wrapOffset(scroll, cycle)
	if translate > h || translate+cycle < 0 {
		return
	}

	ppy := f.cfg.PixelsPerYard
	primary := bandOffset == 0
	margin := w * sidelineInset
	ezTop := translate
	ezBottom := translate + endZoneYards*ppy

	// End-zone band.
	s.FillRect(margin, ezTop, w-2*margin, ezBottom-ezTop, chalkLine.scaled(0.07))
	s.StrokeLine(margin, ezTop, w-margin, ezTop, 2.6, chalkLine.scaled(0.7))
	s.StrokeLine(margin, ezBottom, w-margin, ezBottom, 2.6, chalkLine.scaled(0.7))
	if primary {
		if f.pulseAlpha > 0 {
			s.SetBlend(BlendAdd)
			s.StrokeLine(margin, ezBottom, w-margin, ezBottom, 4, chalkLine.scaled(0.8*f.pulseAlpha))
			s.FillRect(margin, ezTop, w-2*margin, ezBottom-ezTop, chalkLine.scaled(0.18*f.pulseAlpha))
			s.SetBlend(BlendNormal)
		}
		drawLabel(s, atlas, f.cfg.Headline, w/2, (ezTop+ezBottom)/2, (ezBottom-ezTop)*0.42, chalkLine.scaled(0.6))
	}

	// Sidelines across the band's visible extent.
	y0 := math.Max(translate, 0)
	y1 := math.Min(translate+cycle, h)
	if y1 > y0 {
		s.StrokeLine(margin, y0, margin, y1, 1.8, chalkLine.scaled(0.5))
		s.StrokeLine(w-margin, y0, w-margin, y1, 1.8, chalkLine.scaled(0.5))
	}

	// Yard lines every 5 yards, numerals every 10 with line cutouts.
	for yd := 0; yd <= 100; yd += 5 {
		y := ezBottom + float64(yd)*ppy
		if y < -50 || y > h+50 {
			continue
		}
		major := yd%10 == 0
		width := 1.2
		alpha := 0.38
		if major {
			width = 1.8
			alpha = 0.52
		}
		lc := chalkLine.scaled(alpha)

		if major && yd > 0 && yd < 100 {
			label := yardLabel(yd)
			labelH := 2.2 * ppy
			lw := labelWidth(s, atlas, label, labelH)
			lx := w * numeralLeftX
			rx := w * numeralRightX

			s.StrokeLine(margin, y, lx-lw/2-cutoutPad, y, width, lc)
			s.StrokeLine(lx+lw/2+cutoutPad, y, rx-lw/2-cutoutPad, y, width, lc)
			s.StrokeLine(rx+lw/2+cutoutPad, y, w-margin, y, width, lc)

			nc := chalkLine.scaled(0.6)
			drawLabel(s, atlas, label, lx, y, labelH, nc)
			drawLabel(s, atlas, label, rx, y, labelH, nc)
		} else {
			s.StrokeLine(margin, y, w-margin, y, width, lc)
		}
	}

	// Hash ticks every yard between the 5-yard lines.
	tc := chalkLine.scaled(0.3)
	for yd := 1; yd < 100; yd++ {
		if yd%5 == 0 {
			continue
		}
		y := ezBottom + float64(yd)*ppy
		if y < -10 || y > h+10 {
			continue
		}
		s.StrokeLine(w*hashLeftX-hashTickLen/2, y, w*hashLeftX+hashTickLen/2, y, 1, tc)
		s.StrokeLine(w*hashRightX-hashTickLen/2, y, w*hashRightX+hashTickLen/2, y, 1, tc)
	}

	// Center emblem at midfield, primary band only.
	if primary {
		cy := ezBottom + 50*ppy
		if cy > -4*ppy && cy < h+4*ppy {
			s.StrokeCircle(w/2, cy, 3.4*ppy, 2, chalkLine.scaled(0.45))
			s.FillCircle(w/2, cy, 0.4*ppy, chalkLine.scaled(0.45))
		}
	}
}

// DrawOverlays composites grain, the multiplicative dim, and the radial
// vignette over the field geometry, in that order.
func (f *FieldRenderer) DrawOverlays(s Surface, grain, vignette *ebiten.Image, w, h float64, rng *rand.Rand) {
	if grain != nil {
		gb := grain.Bounds()
		gw, gh := float64(gb.Dx()), float64(gb.Dy())
		if gw > 0 && gh > 0 {
			// Per-frame jitter so the noise shimmers like chalk dust.
			ox := -float64(rng.IntN(gb.Dx()))
			oy := -float64(rng.IntN(gb.Dy()))
			for y := oy; y < h; y += gh {
				for x := ox; x < w; x += gw {
					s.DrawSprite(grain, x, y, gw, gh, grainTileAlpha)
				}
			}
		}
	}

	d := clamp(f.cfg.BackgroundDim, 0, 1)
	s.SetBlend(BlendMultiply)
	s.FillRect(0, 0, w, h, Color{R: d, G: d, B: d, A: 1})
	s.SetBlend(BlendNormal)

	if vignette != nil {
		s.DrawSprite(vignette, 0, 0, w, h, 1)
	}
}

// labelWidth measures a label exactly the way drawLabel will draw it: atlas
// metrics when the atlas covers the label, text metrics otherwise. Cutout
// geometry stays correct regardless of which path is taken.
func labelWidth(s Surface, atlas *GlyphAtlas, label string, height float64) float64 {
	if atlas.Ready() && atlas.Has(label) {
		return atlas.MeasureString(label, height)
	}
	return s.MeasureText(label, height)
}

// drawLabel draws a label centered at (cx, cy) with the given draw height,
// via atlas glyphs when available for every character, else the text
// fallback. The fallback is per-call: a partial atlas still serves the
// labels it can.
func drawLabel(s Surface, atlas *GlyphAtlas, label string, cx, cy, height float64, c Color) {
	if label == "" {
		return
	}
	if atlas.Ready() && atlas.Has(label) {
		x := cx - atlas.MeasureString(label, height)/2
		for _, r := range label {
			g, _ := atlas.Glyph(r)
			gw := g.WidthFor(height)
			s.DrawSprite(g.Image, x, cy-height/2, gw, height, c.A)
			x += gw + height*glyphSpacing
		}
		return
	}
	s.DrawText(label, cx-s.MeasureText(label, height)/2, cy-height/2, height, c)
}
