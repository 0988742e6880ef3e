package chalkfield

import (
	"math"
	"math/rand/v2"
	"time"
)

// Phase is one stage of a play's fixed lifecycle. Transitions are purely
// elapsed-time thresholds; no external events.
type Phase uint8

const (
	PhaseEntrance Phase = iota // markers ramp in
	PhaseDraw                  // path reveals progressively
	PhaseHold                  // full diagram at rest
	PhaseFadeOut               // everything decays to zero
	PhaseRemoved               // past total lifetime; evicted
)

// PhaseDurations configures the four lifecycle stages.
type PhaseDurations struct {
	Entrance, Draw, Hold, FadeOut time.Duration
}

// Total returns the play's full birth-to-death lifetime.
func (d PhaseDurations) Total() time.Duration {
	return d.Entrance + d.Draw + d.Hold + d.FadeOut
}

// phaseAt maps elapsed time since spawn to a Phase. Pure, so the machine is
// testable independently of rendering.
func phaseAt(elapsed time.Duration, d PhaseDurations) Phase {
	if elapsed < 0 {
		elapsed = 0
	}
	switch {
	case elapsed < d.Entrance:
		return PhaseEntrance
	case elapsed < d.Entrance+d.Draw:
		return PhaseDraw
	case elapsed < d.Entrance+d.Draw+d.Hold:
		return PhaseHold
	case elapsed < d.Total():
		return PhaseFadeOut
	default:
		return PhaseRemoved
	}
}

// playSegments is the fixed polyline sample count for the path reveal.
const playSegments = 70

// Play is one transient animated route diagram. It is created by the
// PlayManager on a spawn tick and never mutated afterward; eviction happens
// by elapsed time alone.
type Play struct {
	ID        uint64
	Color     Color
	Points    [4]Vec2 // p0 start anchor, p1/p2 interior, p3 end anchor
	Repel     *Vec2   // optional avoid marker, drawn as an X
	Born      time.Time
	Durations PhaseDurations
}

// PhaseAt returns the play's phase at the given time.
func (p *Play) PhaseAt(now time.Time) Phase {
	return phaseAt(now.Sub(p.Born), p.Durations)
}

// Expired reports whether the play's total lifetime has elapsed.
func (p *Play) Expired(now time.Time) bool {
	return now.Sub(p.Born) >= p.Durations.Total()
}

// fadeFactor is 1 until FadeOut begins, then decays linearly to 0.
func (p *Play) fadeFactor(elapsed time.Duration) float64 {
	preFade := p.Durations.Entrance + p.Durations.Draw + p.Durations.Hold
	if elapsed < preFade {
		return 1
	}
	if p.Durations.FadeOut <= 0 {
		return 0
	}
	t := float64(elapsed-preFade) / float64(p.Durations.FadeOut)
	return clamp(1-t, 0, 1)
}

// markerRamp is the entrance ramp applied to the start/end markers: linear
// 0 to 1 across the entrance phase, 1 afterward.
func (p *Play) markerRamp(elapsed time.Duration) float64 {
	if p.Durations.Entrance <= 0 || elapsed >= p.Durations.Entrance {
		return 1
	}
	return clamp(float64(elapsed)/float64(p.Durations.Entrance), 0, 1)
}

// reveal is the eased fraction of the path shown: 0 through the entrance,
// EaseOutCubic of draw progress during the draw, 1 afterward.
func (p *Play) reveal(elapsed time.Duration) float64 {
	if elapsed < p.Durations.Entrance {
		return 0
	}
	if p.Durations.Draw <= 0 || elapsed >= p.Durations.Entrance+p.Durations.Draw {
		return 1
	}
	t := float64(elapsed-p.Durations.Entrance) / float64(p.Durations.Draw)
	return EaseOutCubic(clamp(t, 0, 1))
}

// drawPlay renders one play at a vertical band offset. dim is the global
// background dim factor applied to every alpha.
func drawPlay(s Surface, p *Play, now time.Time, yOffset, dim float64) {
	elapsed := now.Sub(p.Born)
	if phaseAt(elapsed, p.Durations) == PhaseRemoved {
		return
	}

	fade := p.fadeFactor(elapsed)
	marker := p.markerRamp(elapsed) * fade * dim
	p0, p1, p2, p3 := p.Points[0], p.Points[1], p.Points[2], p.Points[3]

	if marker > 0 {
		mc := p.Color.scaled(marker)
		s.StrokeCircle(p0.X, p0.Y+yOffset, 7, 2.2, mc)
		s.FillCircle(p3.X, p3.Y+yOffset, 3, mc)
		if p.Repel != nil {
			drawXMarker(s, p.Repel.X, p.Repel.Y+yOffset, 6, 2.2, mc)
		}
	}

	reveal := p.reveal(elapsed)
	shown := int(reveal*playSegments + 0.5)
	if shown < 1 {
		return
	}

	pathAlpha := fade * dim
	if pathAlpha <= 0 {
		return
	}
	pc := p.Color.scaled(pathAlpha)

	pts := make([]Vec2, shown+1)
	for i := 0; i <= shown; i++ {
		t := float64(i) / playSegments
		pt := BezierPoint(p0, p1, p2, p3, t)
		pts[i] = Vec2{pt.X, pt.Y + yOffset}
	}
	s.StrokePolyline(pts, 2.6, pc)

	drawArrowhead(s, pts[shown], BezierTangent(p0, p1, p2, p3, float64(shown)/playSegments), pc)
}

// drawXMarker draws the repel marker: two crossed strokes.
func drawXMarker(s Surface, x, y, r, width float64, c Color) {
	s.StrokeLine(x-r, y-r, x+r, y+r, width, c)
	s.StrokeLine(x-r, y+r, x+r, y-r, width, c)
}

// drawArrowhead fills a small triangle at the current terminal sample,
// oriented along the (normalized) tangent.
func drawArrowhead(s Surface, tip Vec2, tangent Vec2, c Color) {
	dir := Normalize(tangent)
	perp := dir.Perp()
	base := tip.Sub(dir.Scale(12))
	s.FillTriangle(tip, base.Add(perp.Scale(5)), base.Sub(perp.Scale(5)), c)
}

// spawnBands is the rotating sequence of start-anchor placements, in yards
// from the left sideline. Completing the rotation pulses the end zone.
var spawnBands = [...]float64{10, 30, 50, 30, 10}

// PlayManager owns the set of active plays. It spawns new batches on a
// capacity-gated timer and evicts expired plays every frame. Single writer:
// the frame driver's synchronous call chain.
type PlayManager struct {
	cfg    Config
	rng    *rand.Rand
	plays  []*Play
	nextID uint64

	lastSpawn time.Time
	bandIdx   int
	pulse     bool

	viewW, viewH float64
	scroll       float64 // wrapped scroll offset at the current frame
}

// NewPlayManager creates a manager seeded from cfg.Seed.
func NewPlayManager(cfg Config) *PlayManager {
	return &PlayManager{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(cfg.Seed, 0x9e3779b97f4a7c15)),
	}
}

// SetViewport tells the manager where anchors may be placed. In-flight plays
// are not repositioned on resize; the transient skew is acceptable.
func (m *PlayManager) SetViewport(w, h float64) {
	m.viewW, m.viewH = w, h
}

// SetScroll records the wrapped scroll offset so spawned anchors can be
// stored in field-cycle space (plays scroll with the field and survive the
// loop seam).
func (m *PlayManager) SetScroll(wrapped float64) {
	m.scroll = wrapped
}

// Active returns the current play set without advancing it.
func (m *PlayManager) Active() []*Play { return m.plays }

// ConsumePulse returns the one-shot end-zone pulse flag, clearing it.
func (m *PlayManager) ConsumePulse() bool {
	p := m.pulse
	m.pulse = false
	return p
}

// SpawnIfDue emits one batch of plays if the spawn interval has elapsed and
// no plays are active. Batches rather than a trickle, so the diagrams read
// as discrete plays.
func (m *PlayManager) SpawnIfDue(now time.Time) {
	if len(m.plays) > 0 {
		return
	}
	if !m.lastSpawn.IsZero() && now.Sub(m.lastSpawn) < m.cfg.SpawnInterval {
		return
	}
	if m.viewW <= 0 || m.viewH <= 0 {
		return
	}

	bandX := clamp(spawnBands[m.bandIdx]*m.cfg.PixelsPerYard, 0, m.viewW*0.85)
	count := 3 + m.rng.IntN(3)
	baseY := m.viewH * uniform(m.rng, 0.45, 0.75)

	for i := 0; i < count; i++ {
		m.nextID++
		// Per-play seeded source so route shape is reproducible in tests.
		prng := rand.New(rand.NewPCG(m.cfg.Seed, m.nextID))

		start := Vec2{
			X: bandX + uniform(prng, -24, 24),
			Y: baseY + float64(i-count/2)*36 + uniform(prng, -10, 10),
		}
		end := Vec2{
			X: clamp(start.X+uniform(prng, -80, 160), 20, m.viewW-20),
			Y: start.Y - uniform(prng, 120, 260),
		}

		family := RouteFamily(prng.IntN(int(routeFamilyCount)))
		ctx := RouteContext{CenterX: m.viewW / 2}

		var repel *Vec2
		if family == RouteCurvedAvoid {
			side := 1.0
			if prng.IntN(2) == 0 {
				side = -1
			}
			mid := LerpVec(start, end, 0.5)
			r := Vec2{mid.X + side*uniform(prng, 30, 80), mid.Y + uniform(prng, -20, 20)}
			repel = &r
			ctx.Repel = &r
		}

		points := GenerateRoute(family, start, end, ctx, prng)

		// Store the whole play in field-cycle space with one shared shift so
		// control points never straddle the seam incoherently.
		cycle := m.cfg.CycleHeight()
		dy := m.scroll
		if cycle > 0 {
			dy -= math.Floor((points[0].Y+m.scroll)/cycle) * cycle
		}
		for pi := range points {
			points[pi].Y += dy
		}
		if repel != nil {
			repel.Y += dy
		}

		m.plays = append(m.plays, &Play{
			ID:        m.nextID,
			Color:     chalkPalette[(m.bandIdx+i)%len(chalkPalette)],
			Points:    points,
			Repel:     repel,
			Born:      now,
			Durations: randomDurations(prng),
		})
	}

	m.lastSpawn = now
	m.bandIdx++
	if m.bandIdx >= len(spawnBands) {
		m.bandIdx = 0
		m.pulse = true
	}
}

// AdvanceAndCull filters out expired plays and returns the active set.
// Eviction is checked here, at frame time — never from a timer, so it can
// neither be missed nor run twice.
func (m *PlayManager) AdvanceAndCull(now time.Time) []*Play {
	active := m.plays[:0]
	for _, p := range m.plays {
		if !p.Expired(now) {
			active = append(active, p)
		}
	}
	// Drop references past the new length so evicted plays can be collected.
	for i := len(active); i < len(m.plays); i++ {
		m.plays[i] = nil
	}
	m.plays = active
	return m.plays
}

// randomDurations jitters the stock phase lengths per play.
func randomDurations(rng *rand.Rand) PhaseDurations {
	return PhaseDurations{
		Entrance: 140 * time.Millisecond,
		Draw:     time.Duration(uniform(rng, 900, 1500)) * time.Millisecond,
		Hold:     time.Duration(uniform(rng, 200, 900)) * time.Millisecond,
		FadeOut:  300 * time.Millisecond,
	}
}
