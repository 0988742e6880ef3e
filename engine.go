package chalkfield

import (
	"bytes"
	"fmt"
	"image"
	"log"
	"math"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Engine is the frame driver: it owns the clock, the play manager, the field
// renderer, and the published glyph atlas, and implements ebiten.Game. All
// mutable state lives on the Engine value — no package singletons — so
// multiple independent instances and injected clocks both work.
type Engine struct {
	cfg   Config
	now   func() time.Time
	start time.Time

	atlas atomic.Pointer[GlyphAtlas]
	plays *PlayManager
	field *FieldRenderer
	surf  *ebitenSurface
	rng   *rand.Rand

	grain    *ebiten.Image
	vignette *ebiten.Image
	vigW     int
	vigH     int

	viewW, viewH float64
	scale        float64
	lastTick     time.Time
	debug        bool
}

// NewEngine creates an engine and, when Config.SheetPath is set, starts the
// one-shot glyph atlas build on its own goroutine. The frame loop polls the
// published atlas and never blocks on it; until it lands every label uses
// the text fallback.
func NewEngine(cfg Config) *Engine {
	cfg = cfg.withDefaults()
	e := &Engine{
		cfg:   cfg,
		now:   time.Now,
		plays: NewPlayManager(cfg),
		field: NewFieldRenderer(cfg),
		rng:   rand.New(rand.NewPCG(cfg.Seed, 0xda3e39cb94b95bdb)),
		scale: 1,
	}

	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		// Should not happen with the embedded font; labels go blank but the
		// frame loop keeps running.
		log.Printf("chalkfield: fallback font unavailable: %v", err)
	}
	e.surf = newEbitenSurface(src)
	e.grain = newGrainImage(160, cfg.Seed)

	e.atlas.Store(emptyGlyphAtlas())
	if cfg.SheetPath != "" {
		go func() {
			atlas, err := BuildGlyphAtlas(cfg.SheetPath, cfg.ZeroPath)
			if err != nil {
				log.Printf("chalkfield: glyph atlas unavailable, using text fallback: %v", err)
			}
			e.atlas.Store(atlas)
		}()
	}
	return e
}

// SetClock replaces the time source. Call before the first Update; the loop
// start time is captured from the injected clock.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// SetDebugMode toggles the FPS/play-count overlay and pipeline logging.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
	globalDebug = enabled
}

// Atlas returns the currently published glyph atlas. It may not be ready.
func (e *Engine) Atlas() *GlyphAtlas {
	return e.atlas.Load()
}

// scrollOffset derives the field scroll from elapsed time:
// direction * (elapsed mod loop)/loop * cycleHeight.
func scrollOffset(cfg Config, elapsed time.Duration) float64 {
	if cfg.LoopDuration <= 0 {
		return 0
	}
	m := elapsed % cfg.LoopDuration
	if m < 0 {
		m += cfg.LoopDuration
	}
	frac := float64(m) / float64(cfg.LoopDuration)
	return cfg.ScrollDir * frac * cfg.CycleHeight()
}

// Update advances the pulse tween, spawns a play batch when due, and evicts
// expired plays. It is the single writer of all engine state.
func (e *Engine) Update() error {
	now := e.now()
	if e.start.IsZero() {
		e.start = now
		e.lastTick = now
	}
	dt := now.Sub(e.lastTick).Seconds()
	e.lastTick = now

	e.field.Update(dt)

	cycle := e.cfg.CycleHeight()
	e.plays.SetScroll(wrapOffset(scrollOffset(e.cfg, now.Sub(e.start)), cycle))
	e.plays.SpawnIfDue(now)
	e.plays.AdvanceAndCull(now)
	if e.plays.ConsumePulse() {
		e.field.TriggerPulse()
	}
	return nil
}

// Draw renders the field twice (seam-hiding dual-band pass), the overlays,
// and every active play twice (stored coordinates and +cycleHeight).
func (e *Engine) Draw(screen *ebiten.Image) {
	now := e.now()
	if e.start.IsZero() {
		e.start = now
	}
	if e.scale <= 0 {
		e.scale = 1
	}

	pw, ph := screen.Bounds().Dx(), screen.Bounds().Dy()
	w := float64(pw) / e.scale
	h := float64(ph) / e.scale
	e.viewW, e.viewH = w, h
	e.ensureVignette(pw, ph)

	screen.Fill(boardColor.toRGBA())
	e.surf.reset(screen, e.scale)

	scroll := scrollOffset(e.cfg, now.Sub(e.start))
	cycle := e.cfg.CycleHeight()
	atlas := e.atlas.Load()

	e.field.DrawBand(e.surf, atlas, scroll, 0, w, h)
	e.field.DrawBand(e.surf, atlas, scroll, cycle, w, h)
	e.field.DrawOverlays(e.surf, e.grain, e.vignette, w, h, e.rng)

	wrap := wrapOffset(scroll, cycle)
	dim := e.cfg.BackgroundDim
	for _, p := range e.plays.Active() {
		drawPlay(e.surf, p, now, -wrap, dim)
		drawPlay(e.surf, p, now, cycle-wrap, dim)
	}

	if e.debug {
		msg := fmt.Sprintf("FPS %0.1f  TPS %0.1f\nplays %d  atlas ready %v",
			ebiten.ActualFPS(), ebiten.ActualTPS(), len(e.plays.Active()), atlas.Ready())
		ebitenutil.DebugPrintAt(screen, msg, 8, 8)
	}
}

// Layout implements ebiten.Game.
func (e *Engine) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := e.LayoutF(float64(outsideWidth), float64(outsideHeight))
	return int(math.Ceil(w)), int(math.Ceil(h))
}

// LayoutF sizes the backing surface by the device scale factor so the chalk
// strokes stay crisp on high-density displays. In-flight plays are not
// repositioned on resize; the one-frame skew is acceptable.
func (e *Engine) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	if scale <= 0 {
		scale = 1
	}
	e.scale = scale
	e.plays.SetViewport(outsideWidth, outsideHeight)
	return outsideWidth * scale, outsideHeight * scale
}

// ensureVignette regenerates the vignette texture when the backing surface
// size changes.
func (e *Engine) ensureVignette(pw, ph int) {
	if pw <= 0 || ph <= 0 || (pw == e.vigW && ph == e.vigH) {
		return
	}
	if e.vignette != nil {
		e.vignette.Deallocate()
	}
	e.vignette = newVignetteImage(pw, ph)
	e.vigW, e.vigH = pw, ph
}

// newGrainImage builds a tileable noise texture: uniform random per-pixel
// luminance at a whisper of alpha.
func newGrainImage(size int, seed uint64) *ebiten.Image {
	rng := rand.New(rand.NewPCG(seed, 0x853c49e6748fea9b))
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i] = 255
			img.Pix[i+1] = 255
			img.Pix[i+2] = 255
			img.Pix[i+3] = uint8(rng.IntN(15))
		}
	}
	return ebiten.NewImageFromImage(img)
}

// newVignetteImage builds the radial darkening overlay at backing-surface
// resolution.
func newVignetteImage(w, h int) *ebiten.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	cx, cy := float64(w)/2, float64(h)/2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := (float64(x) - cx) / cx
			dy := (float64(y) - cy) / cy
			d := math.Sqrt(dx*dx + dy*dy)
			t := clamp((d-0.55)/(1.25-0.55), 0, 1)
			a := t * t * (3 - 2*t) // smoothstep
			i := img.PixOffset(x, y)
			img.Pix[i+3] = uint8(a * 150)
		}
	}
	return ebiten.NewImageFromImage(img)
}
