package chalkfield

import (
	"image"
	"image/color"
	"testing"
)

// Synthetic sheet fixtures. Ink is written straight into the alpha channel so
// segmentation tests don't depend on the chroma key.

const (
	inkW  = 6
	inkH  = 20
	gapW  = 6
	rowGp = 6
)

func paintInk(img *image.NRGBA, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 235, G: 240, B: 238, A: 255})
		}
	}
}

// digitRow paints n ink blocks with gapW gaps starting at (x0, y0).
func digitRow(img *image.NRGBA, x0, y0, n int) {
	for i := 0; i < n; i++ {
		x := x0 + i*(inkW+gapW)
		paintInk(img, image.Rect(x, y0, x+inkW, y0+inkH))
	}
}

func testZero() *image.NRGBA {
	z := image.NewNRGBA(image.Rect(0, 0, 16, 28))
	paintInk(z, image.Rect(3, 4, 13, 24))
	return z
}

func TestChromaKey_BackgroundTransparentInkOpaque(t *testing.T) {
	bg := color.NRGBA{R: 40, G: 90, B: 60, A: 255}
	img := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.SetNRGBA(x, y, bg)
		}
	}
	img.SetNRGBA(10, 10, color.NRGBA{R: 240, G: 240, B: 240, A: 255})

	keyed := chromaKey(img)
	if a := keyed.NRGBAAt(0, 0).A; a != 0 {
		t.Errorf("background pixel alpha = %d, want 0", a)
	}
	if a := keyed.NRGBAAt(10, 10).A; a != 255 {
		t.Errorf("ink pixel alpha = %d, want 255", a)
	}
	if got := img.NRGBAAt(0, 0).A; got != 255 {
		t.Errorf("chromaKey modified its input: alpha = %d", got)
	}
}

func TestChromaKey_ThresholdBoundary(t *testing.T) {
	bg := color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, bg)
		}
	}
	// Distance 59 keys out, 61 survives.
	img.SetNRGBA(3, 3, color.NRGBA{R: 159, G: 100, B: 100, A: 255})
	img.SetNRGBA(4, 4, color.NRGBA{R: 161, G: 100, B: 100, A: 255})

	keyed := chromaKey(img)
	if a := keyed.NRGBAAt(3, 3).A; a != 0 {
		t.Errorf("pixel at distance 59: alpha = %d, want 0", a)
	}
	if a := keyed.NRGBAAt(4, 4).A; a != 255 {
		t.Errorf("pixel at distance 61: alpha = %d, want 255", a)
	}
}

func TestContentBounds_TightRect(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	want := image.Rect(10, 12, 21, 30)
	paintInk(img, want)

	got, ok := contentBounds(img)
	if !ok {
		t.Fatal("contentBounds found no ink")
	}
	if got != want {
		t.Errorf("contentBounds = %v, want %v", got, want)
	}
}

func TestTrimToContent_PadsAndClamps(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	paintInk(img, image.Rect(10, 10, 20, 18))

	trimmed := trimToContent(img, trimPad)
	want := image.Rect(10-trimPad, 10-trimPad, 20+trimPad, 18+trimPad)
	if trimmed.Bounds() != want {
		t.Errorf("trimmed bounds = %v, want %v", trimmed.Bounds(), want)
	}

	edge := image.NewNRGBA(image.Rect(0, 0, 12, 12))
	paintInk(edge, image.Rect(0, 0, 12, 12))
	if got := trimToContent(edge, trimPad).Bounds(); got != edge.Bounds() {
		t.Errorf("edge-to-edge ink: bounds = %v, want %v", got, edge.Bounds())
	}
}

func TestTrimToContent_NoInk_Unchanged(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 30, 30))
	if got := trimToContent(img, trimPad); got != img {
		t.Error("empty image was not returned as-is")
	}
}

func TestInkRuns_GapSplitting(t *testing.T) {
	proj := make([]int, 30)
	for i := 0; i < 4; i++ {
		proj[i] = 3
	}
	for i := 10; i < 14; i++ { // gap of 6 before this block
		proj[i] = 3
	}
	runs := inkRuns(proj, minRunGap)
	if len(runs) != 2 {
		t.Fatalf("gap of %d: got %d runs, want 2", minRunGap, len(runs))
	}
	if runs[0] != [2]int{0, 4} || runs[1] != [2]int{10, 14} {
		t.Errorf("runs = %v, want [[0 4] [10 14]]", runs)
	}
}

func TestInkRuns_NarrowGapMerged(t *testing.T) {
	proj := make([]int, 30)
	for i := 0; i < 4; i++ {
		proj[i] = 3
	}
	for i := 9; i < 13; i++ { // gap of 5, below minRunGap
		proj[i] = 3
	}
	runs := inkRuns(proj, minRunGap)
	if len(runs) != 1 {
		t.Fatalf("gap of 5: got %d runs, want 1", len(runs))
	}
	if runs[0] != [2]int{0, 13} {
		t.Errorf("run = %v, want [0 13]", runs[0])
	}
}

func TestSplitRowGlyphs_NineDigits(t *testing.T) {
	row := image.NewNRGBA(image.Rect(0, 0, 9*(inkW+gapW), inkH))
	digitRow(row, 0, 0, 9)

	cells := splitRowGlyphs(row, 9)
	if len(cells) != 9 {
		t.Fatalf("got %d cells, want 9", len(cells))
	}
	for i, c := range cells {
		if !hasInk(c) {
			t.Errorf("cell %d has no ink", i)
		}
	}
}

func TestSplitRowGlyphs_UnderSegmented_EqualWidthFallback(t *testing.T) {
	// Three wide blocks where nine glyphs are expected: detection cannot be
	// trusted, so the row must come back as nine equal-width cells.
	row := image.NewNRGBA(image.Rect(0, 0, 90, inkH))
	for i := 0; i < 3; i++ {
		paintInk(row, image.Rect(i*30, 0, i*30+24, inkH))
	}
	cells := splitRowGlyphs(row, 9)
	if len(cells) != 9 {
		t.Fatalf("fallback produced %d cells, want 9", len(cells))
	}
}

func TestSplitRows_TwoBands(t *testing.T) {
	sheet := image.NewNRGBA(image.Rect(0, 0, 120, 2*inkH+rowGp))
	digitRow(sheet, 0, 0, 9)
	digitRow(sheet, 0, inkH+rowGp, 7)

	rows := splitRows(sheet, 2)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Bounds().Max.Y > inkH || rows[1].Bounds().Min.Y < inkH+rowGp {
		t.Errorf("row bounds %v / %v overlap the gap", rows[0].Bounds(), rows[1].Bounds())
	}
}

func TestAssembleAtlas_FullSheet_Ready(t *testing.T) {
	sheet := image.NewNRGBA(image.Rect(0, 0, 9*(inkW+gapW), 2*inkH+rowGp))
	digitRow(sheet, 0, 0, 9)
	digitRow(sheet, 0, inkH+rowGp, 7)

	atlas := assembleAtlas(sheet, testZero(), defaultSheetRows)
	if !atlas.Ready() {
		t.Fatalf("atlas not ready with %d glyphs", atlas.Len())
	}
	for _, r := range "0123456789ENDZO" {
		if _, ok := atlas.Glyph(r); !ok {
			t.Errorf("missing glyph %q", r)
		}
	}
	if !atlas.Has("10") || !atlas.Has("ENDZONE") {
		t.Error("Has rejected a fully covered label")
	}
	if atlas.Has("50X") {
		t.Error("Has accepted a label with an uncovered character")
	}
}

func TestAssembleAtlas_NoZero_NotReady(t *testing.T) {
	sheet := image.NewNRGBA(image.Rect(0, 0, 9*(inkW+gapW), inkH))
	digitRow(sheet, 0, 0, 9)

	atlas := assembleAtlas(sheet, image.NewNRGBA(image.Rect(0, 0, 16, 28)), []string{"123456789"})
	if atlas.Ready() {
		t.Errorf("atlas ready with only %d glyphs", atlas.Len())
	}
}

func TestBuildGlyphAtlas_MissingFile_EmptyFallback(t *testing.T) {
	atlas, err := BuildGlyphAtlas("testdata/does-not-exist.png", "testdata/also-missing.png")
	if err == nil {
		t.Error("expected a load error")
	}
	if atlas == nil {
		t.Fatal("atlas is nil; want the empty fallback")
	}
	if atlas.Ready() || atlas.Len() != 0 {
		t.Errorf("fallback atlas: ready=%v len=%d, want not-ready empty", atlas.Ready(), atlas.Len())
	}
}

func TestGlyphSprite_WidthFor_AspectPreserved(t *testing.T) {
	g := GlyphSprite{W: 12, H: 24}
	if got := g.WidthFor(48); got != 24 {
		t.Errorf("WidthFor(48) = %v, want 24", got)
	}
	if got := (GlyphSprite{}).WidthFor(48); got != 0 {
		t.Errorf("zero sprite WidthFor = %v, want 0", got)
	}
}

func TestGlyphAtlas_MeasureString_SpacingBetweenGlyphs(t *testing.T) {
	a := &GlyphAtlas{glyphs: map[rune]GlyphSprite{
		'1': {W: 10, H: 20},
		'0': {W: 14, H: 20},
	}, ready: true}

	h := 40.0
	want := 20.0 + h*glyphSpacing + 28.0 // "10": scaled widths plus one gap
	if got := a.MeasureString("10", h); got != want {
		t.Errorf("MeasureString(10) = %v, want %v", got, want)
	}
	if got := a.MeasureString("1", h); got != 20 {
		t.Errorf("MeasureString(1) = %v, want 20", got)
	}
}

func TestGlyphAtlas_NilSafe(t *testing.T) {
	var a *GlyphAtlas
	if a.Ready() || a.Has("10") || a.Len() != 0 {
		t.Error("nil atlas must behave as empty")
	}
}

func BenchmarkChromaKey(b *testing.B) {
	img := image.NewNRGBA(image.Rect(0, 0, 256, 256))
	for i := range img.Pix {
		img.Pix[i] = byte(i * 31)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = chromaKey(img)
	}
}
