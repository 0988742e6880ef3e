package chalkfield

import "math/rand/v2"

// RouteFamily selects a control-point placement strategy for a play's path.
type RouteFamily uint8

const (
	// RouteSlant is nearly straight: both interior points sit on the chord.
	RouteSlant RouteFamily = iota
	// RouteCurvedAvoid bows the path away from a repel marker.
	RouteCurvedAvoid
	// RouteButtonhook overshoots the end anchor and curls back onto it.
	RouteButtonhook
	// RoutePostBreak breaks inward toward the field's center line.
	RoutePostBreak
	// RouteFlagBreak breaks outward away from the center line.
	RouteFlagBreak

	routeFamilyCount
)

// RouteContext carries the field context a family may need: the horizontal
// center line of the field, and the repel marker for RouteCurvedAvoid.
type RouteContext struct {
	CenterX float64
	Repel   *Vec2
}

// Jitter ranges per family. Each randomized quantity is drawn uniformly from
// its range; everything else is deterministic given the anchors.
const (
	avoidOffsetMin = 60  // curved-avoid perpendicular offset, px
	avoidOffsetMax = 140 //
	hookLateralMin = 18  // buttonhook lateral offset near the start, px
	hookLateralMax = 42  //
	hookOverMin    = 30  // buttonhook overshoot past the end anchor, px
	hookOverMax    = 70  //
	breakBiasMin   = 40  // post/flag horizontal bias, px
	breakBiasMax   = 90  //
)

// GenerateRoute produces the four cubic Bezier control points for one route.
// start and end become p0 and p3 exactly; the interior points follow the
// family's placement rule. Out-of-viewport anchors are permitted and simply
// render off-screen.
func GenerateRoute(family RouteFamily, start, end Vec2, ctx RouteContext, rng *rand.Rand) [4]Vec2 {
	switch family {
	case RouteCurvedAvoid:
		return curvedAvoidRoute(start, end, ctx, rng)
	case RouteButtonhook:
		return buttonhookRoute(start, end, rng)
	case RoutePostBreak:
		return breakRoute(start, end, ctx.CenterX, 1, rng)
	case RouteFlagBreak:
		return breakRoute(start, end, ctx.CenterX, -1, rng)
	default:
		return slantRoute(start, end)
	}
}

// slantRoute places both interior points on the start-end chord at 35% and
// 70%. No jitter.
func slantRoute(start, end Vec2) [4]Vec2 {
	return [4]Vec2{
		start,
		LerpVec(start, end, 0.35),
		LerpVec(start, end, 0.70),
		end,
	}
}

// curvedAvoidRoute offsets the interior points perpendicular to the chord,
// on the side opposite the repel point, with magnitude growing as the repel
// point closes in (clamped to [avoidOffsetMin, avoidOffsetMax]). Without a
// repel point the side is a fair coin flip.
func curvedAvoidRoute(start, end Vec2, ctx RouteContext, rng *rand.Rand) [4]Vec2 {
	chord := end.Sub(start)
	mid := LerpVec(start, end, 0.5)
	perp := Normalize(chord.Perp())

	mag := float64(avoidOffsetMin+avoidOffsetMax) / 2
	if ctx.Repel != nil {
		toRepel := ctx.Repel.Sub(mid)
		// Repel lies on the Perp side exactly when cross(chord, toRepel) > 0;
		// bend the other way.
		if chord.Cross(toRepel) > 0 {
			perp = perp.Scale(-1)
		}
		mag = clamp(200-0.4*toRepel.Length(), avoidOffsetMin, avoidOffsetMax)
	} else if rng.IntN(2) == 0 {
		perp = perp.Scale(-1)
	}

	off := perp.Scale(mag)
	return [4]Vec2{
		start,
		LerpVec(start, end, 0.30).Add(off),
		LerpVec(start, end, 0.70).Add(off),
		end,
	}
}

// buttonhookRoute offsets the first interior point laterally near the start
// and places the second beyond the end anchor along the travel direction, so
// the curve arrives back onto the anchor and reads as a curl.
func buttonhookRoute(start, end Vec2, rng *rand.Rand) [4]Vec2 {
	dir := Normalize(end.Sub(start))
	lat := dir.Perp()

	side := 1.0
	if rng.IntN(2) == 0 {
		side = -1
	}
	lateral := uniform(rng, hookLateralMin, hookLateralMax) * side
	overshoot := uniform(rng, hookOverMin, hookOverMax)

	chordLen := end.Sub(start).Length()
	return [4]Vec2{
		start,
		start.Add(dir.Scale(chordLen * 0.30)).Add(lat.Scale(lateral)),
		end.Add(dir.Scale(overshoot)),
		end,
	}
}

// breakRoute biases the second-half interior point horizontally: toward the
// center line for a post (inward = +1), away from it for a flag (-1). The
// first interior point carries a third of the bias so the break reads as a
// bend, not a kink.
func breakRoute(start, end Vec2, centerX, inward float64, rng *rand.Rand) [4]Vec2 {
	p1 := LerpVec(start, end, 0.35)
	p2 := LerpVec(start, end, 0.70)

	toCenter := 1.0
	if p2.X > centerX {
		toCenter = -1
	}
	bias := uniform(rng, breakBiasMin, breakBiasMax) * toCenter * inward

	p1.X += bias / 3
	p2.X += bias
	return [4]Vec2{start, p1, p2, end}
}

// uniform draws from [min, max).
func uniform(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}
