// Package chalkfield is a procedurally animated chalkboard-football
// background for [Ebitengine].
//
// Chalkfield renders a continuously scrolling playing field — yard lines,
// hash marks, mirrored yard numerals, an end-zone band — overlaid with
// transient animated route diagrams (a circle marker, an X marker, and a
// curved arrow path) that spawn, draw themselves progressively, hold, and
// fade, like plays sketched on a chalkboard. It is a passive visual layer:
// no input, no events, no outputs.
//
// # Quick start
//
// [Engine] implements [ebiten.Game]; hand it straight to ebiten.RunGame:
//
//	eng := chalkfield.NewEngine(chalkfield.DefaultConfig())
//	ebiten.SetWindowSize(960, 640)
//	if err := ebiten.RunGame(eng); err != nil {
//		log.Fatal(err)
//	}
//
// To mount it behind an existing game, call [Engine.Update] and
// [Engine.Draw] first in your own Update/Draw before drawing foreground UI.
//
// # Numeral glyphs
//
// Yard numerals are drawn from a [GlyphAtlas] built at startup from two
// reference images (a packed digit/letter sheet and a standalone "0" glyph)
// via chroma-key segmentation. The build runs on its own goroutine and never
// blocks a frame; until it publishes — or if the assets are missing — the
// renderer falls back to an embedded vector font per label. See
// [BuildGlyphAtlas].
//
// # Rendering backend
//
// All drawing goes through the small [Surface] interface. The built-in
// implementation targets an *ebiten.Image; the renderers themselves are
// backend-agnostic and are tested against a recording surface.
//
// [Ebitengine]: https://ebitengine.org
package chalkfield
