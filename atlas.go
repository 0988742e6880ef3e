package chalkfield

import (
	"fmt"
	"image"
	_ "image/png" // reference sheets are PNG
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	xdraw "golang.org/x/image/draw"
)

// Tuning constants for the reference-sheet pipeline. These are calibrated to
// the shipped chalk sheets; different source art needs re-tuning.
const (
	// chromaKeyThreshold is the Euclidean RGB distance below which a pixel
	// is considered background and keyed transparent.
	chromaKeyThreshold = 60.0
	// inkAlpha is the alpha above which a pixel counts as glyph ink.
	inkAlpha = 40
	// trimPad is the padding kept around the content bounding box.
	trimPad = 2
	// minRunGap is the narrowest column gap that separates two glyphs.
	minRunGap = 6
	// minRowGap is the narrowest row gap that separates two sheet rows.
	minRowGap = 4
	// minAtlasGlyphs is the coverage below which the atlas stays not-ready
	// (ten digits at minimum).
	minAtlasGlyphs = 10
	// glyphSpacing is the inter-glyph gap when drawing a string, as a
	// fraction of the draw height.
	glyphSpacing = 0.10
)

// defaultSheetRows lists the characters packed into each row of the
// reference sheet, left to right, top to bottom. The standalone zero image
// completes the digit set.
var defaultSheetRows = []string{"123456789", "ENDZONE"}

// GlyphSprite is a trimmed character sprite with its intrinsic pixel size.
// Sprites are owned by the GlyphAtlas; consumers treat them as read-only.
type GlyphSprite struct {
	Image *ebiten.Image
	W, H  int
}

// WidthFor returns the draw width for the requested draw height, preserving
// the sprite's aspect ratio.
func (g GlyphSprite) WidthFor(height float64) float64 {
	if g.H == 0 {
		return 0
	}
	return height * float64(g.W) / float64(g.H)
}

// GlyphAtlas maps characters to trimmed sprites. It is created empty,
// populated exactly once by BuildGlyphAtlas, and never mutated afterward.
type GlyphAtlas struct {
	glyphs map[rune]GlyphSprite
	ready  bool
}

// emptyGlyphAtlas is the total-fallback atlas published on build failure.
func emptyGlyphAtlas() *GlyphAtlas {
	return &GlyphAtlas{glyphs: map[rune]GlyphSprite{}}
}

// Ready reports whether the atlas met its minimum glyph coverage.
func (a *GlyphAtlas) Ready() bool { return a != nil && a.ready }

// Glyph returns the sprite for r.
func (a *GlyphAtlas) Glyph(r rune) (GlyphSprite, bool) {
	if a == nil {
		return GlyphSprite{}, false
	}
	g, ok := a.glyphs[r]
	return g, ok
}

// Has reports whether every character of s has a sprite. Callers use this to
// decide, per label, between the atlas path and the text fallback.
func (a *GlyphAtlas) Has(s string) bool {
	if a == nil || len(s) == 0 {
		return false
	}
	for _, r := range s {
		if _, ok := a.glyphs[r]; !ok {
			return false
		}
	}
	return true
}

// Len returns the number of populated glyphs.
func (a *GlyphAtlas) Len() int {
	if a == nil {
		return 0
	}
	return len(a.glyphs)
}

// MeasureString returns the total draw width of s at the given draw height,
// including inter-glyph spacing. Characters without a sprite contribute no
// width; call Has first.
func (a *GlyphAtlas) MeasureString(s string, height float64) float64 {
	var w float64
	n := 0
	for _, r := range s {
		g, ok := a.Glyph(r)
		if !ok {
			continue
		}
		if n > 0 {
			w += height * glyphSpacing
		}
		w += g.WidthFor(height)
		n++
	}
	return w
}

// BuildGlyphAtlas runs the one-shot asset pipeline: load the packed sheet and
// the standalone zero, chroma-key the background, split the sheet into rows
// and the rows into glyphs, trim everything, and assemble the lookup.
//
// Every failure mode degrades instead of aborting: a load error returns an
// empty not-ready atlas (total fallback), and an under-segmented row falls
// back to equal-width slicing. The returned atlas is never nil.
func BuildGlyphAtlas(sheetPath, zeroPath string) (*GlyphAtlas, error) {
	sheet, err := loadNRGBA(sheetPath)
	if err != nil {
		return emptyGlyphAtlas(), fmt.Errorf("chalkfield: load glyph sheet: %w", err)
	}
	zero, err := loadNRGBA(zeroPath)
	if err != nil {
		return emptyGlyphAtlas(), fmt.Errorf("chalkfield: load zero glyph: %w", err)
	}

	atlas := assembleAtlas(chromaKey(sheet), chromaKey(zero), defaultSheetRows)
	return atlas, nil
}

// assembleAtlas segments a keyed sheet and a keyed zero image into the final
// atlas. Separated from BuildGlyphAtlas so tests can feed synthetic sheets.
func assembleAtlas(sheet, zero *image.NRGBA, rowChars []string) *GlyphAtlas {
	glyphs := make(map[rune]GlyphSprite)

	rows := splitRows(sheet, len(rowChars))
	for i, row := range rows {
		if i >= len(rowChars) {
			break
		}
		chars := []rune(rowChars[i])
		cells := splitRowGlyphs(row, len(chars))
		for j, cell := range cells {
			if j >= len(chars) {
				break
			}
			addGlyph(glyphs, chars[j], cell)
		}
	}

	if zt := trimToContent(zero, trimPad); hasInk(zt) {
		addGlyph(glyphs, '0', zt)
	}

	return &GlyphAtlas{
		glyphs: glyphs,
		ready:  len(glyphs) >= minAtlasGlyphs,
	}
}

func addGlyph(glyphs map[rune]GlyphSprite, r rune, img *image.NRGBA) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return
	}
	glyphs[r] = GlyphSprite{
		Image: ebiten.NewImageFromImage(img),
		W:     b.Dx(),
		H:     b.Dy(),
	}
}

// loadNRGBA decodes an image file into NRGBA pixels.
func loadNRGBA(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if n, ok := src.(*image.NRGBA); ok {
		return n, nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, xdraw.Src)
	return dst, nil
}

// chromaKey estimates the background color from the four corner pixels and
// zeroes the alpha of every pixel whose RGB distance to that estimate falls
// below the key threshold. The input is not modified.
func chromaKey(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)

	if b.Dx() == 0 || b.Dy() == 0 {
		return dst
	}

	corners := [4]image.Point{
		{b.Min.X, b.Min.Y},
		{b.Max.X - 1, b.Min.Y},
		{b.Min.X, b.Max.Y - 1},
		{b.Max.X - 1, b.Max.Y - 1},
	}
	var br, bg, bb float64
	for _, p := range corners {
		c := src.NRGBAAt(p.X, p.Y)
		br += float64(c.R)
		bg += float64(c.G)
		bb += float64(c.B)
	}
	br /= 4
	bg /= 4
	bb /= 4

	db := dst.Bounds()
	for y := db.Min.Y; y < db.Max.Y; y++ {
		for x := db.Min.X; x < db.Max.X; x++ {
			i := dst.PixOffset(x, y)
			dr := float64(dst.Pix[i]) - br
			dg := float64(dst.Pix[i+1]) - bg
			dbb := float64(dst.Pix[i+2]) - bb
			if math.Sqrt(dr*dr+dg*dg+dbb*dbb) < chromaKeyThreshold {
				dst.Pix[i+3] = 0
			}
		}
	}
	return dst
}

// contentBounds returns the minimal rectangle containing every pixel with
// alpha above inkAlpha, and whether any such pixel exists.
func contentBounds(img *image.NRGBA) (image.Rectangle, bool) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[img.PixOffset(x, y)+3] > inkAlpha {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}
	if maxX < minX || maxY < minY {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// trimToContent crops img to its content bounding box plus pad pixels,
// clamped to the image bounds. An image with no content above the ink
// threshold is returned unmodified.
func trimToContent(img *image.NRGBA, pad int) *image.NRGBA {
	r, ok := contentBounds(img)
	if !ok {
		return img
	}
	r = r.Inset(-pad).Intersect(img.Bounds())
	return img.SubImage(r).(*image.NRGBA)
}

// hasInk reports whether any pixel exceeds the ink threshold.
func hasInk(img *image.NRGBA) bool {
	_, ok := contentBounds(img)
	return ok
}

// columnInk returns, per column, the count of pixels above the ink
// threshold.
func columnInk(img *image.NRGBA) []int {
	b := img.Bounds()
	proj := make([]int, b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[img.PixOffset(x, y)+3] > inkAlpha {
				proj[x-b.Min.X]++
			}
		}
	}
	return proj
}

// rowInk returns, per row, the count of pixels above the ink threshold.
func rowInk(img *image.NRGBA) []int {
	b := img.Bounds()
	proj := make([]int, b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[img.PixOffset(x, y)+3] > inkAlpha {
				proj[y-b.Min.Y]++
			}
		}
	}
	return proj
}

// inkRuns detects contiguous runs of non-zero projection values. Gaps
// narrower than minGap do not split a run (glyph counters like "0" project
// interior dips, not true gaps). Returned indices are [start, end) relative
// to the projection slice.
func inkRuns(proj []int, minGap int) [][2]int {
	var runs [][2]int
	start := -1
	gap := 0
	end := 0
	for i, v := range proj {
		if v > 0 {
			if start < 0 {
				start = i
			}
			end = i + 1
			gap = 0
			continue
		}
		if start >= 0 {
			gap++
			if gap >= minGap {
				runs = append(runs, [2]int{start, end})
				start = -1
				gap = 0
			}
		}
	}
	if start >= 0 {
		runs = append(runs, [2]int{start, end})
	}
	return runs
}

// splitRows cuts the sheet into horizontal rows via the row projection.
// If detection does not find the expected number of rows, the sheet is
// sliced into expected equal-height bands instead.
func splitRows(sheet *image.NRGBA, expected int) []*image.NRGBA {
	b := sheet.Bounds()
	runs := inkRuns(rowInk(sheet), minRowGap)
	if len(runs) != expected {
		debugf("sheet row segmentation found %d rows, want %d; using equal-height slices", len(runs), expected)
		return equalHeightSlices(sheet, expected)
	}
	rows := make([]*image.NRGBA, 0, len(runs))
	for _, r := range runs {
		rect := image.Rect(b.Min.X, b.Min.Y+r[0], b.Max.X, b.Min.Y+r[1])
		rows = append(rows, sheet.SubImage(rect).(*image.NRGBA))
	}
	return rows
}

// splitRowGlyphs cuts one packed row into individual trimmed glyphs via the
// column projection. A run count below the expected glyph count means the
// segmentation cannot be trusted, so the row falls back to equal-width
// slicing rather than mis-assigning characters.
func splitRowGlyphs(row *image.NRGBA, expected int) []*image.NRGBA {
	b := row.Bounds()
	runs := inkRuns(columnInk(row), minRunGap)
	if len(runs) < expected {
		debugf("row segmentation found %d glyphs, want %d; using equal-width slices", len(runs), expected)
		return equalWidthSlices(row, expected)
	}
	cells := make([]*image.NRGBA, 0, len(runs))
	for _, r := range runs {
		rect := image.Rect(b.Min.X+r[0], b.Min.Y, b.Min.X+r[1], b.Max.Y)
		cell := row.SubImage(rect).(*image.NRGBA)
		cells = append(cells, trimToContent(cell, trimPad))
	}
	return cells
}

// equalWidthSlices slices the row into n equal-width cells, each trimmed.
func equalWidthSlices(row *image.NRGBA, n int) []*image.NRGBA {
	b := row.Bounds()
	if n <= 0 || b.Dx() == 0 {
		return nil
	}
	cells := make([]*image.NRGBA, 0, n)
	for i := 0; i < n; i++ {
		x0 := b.Min.X + i*b.Dx()/n
		x1 := b.Min.X + (i+1)*b.Dx()/n
		cell := row.SubImage(image.Rect(x0, b.Min.Y, x1, b.Max.Y)).(*image.NRGBA)
		cells = append(cells, trimToContent(cell, trimPad))
	}
	return cells
}

// equalHeightSlices slices the sheet into n equal-height rows.
func equalHeightSlices(sheet *image.NRGBA, n int) []*image.NRGBA {
	b := sheet.Bounds()
	if n <= 0 || b.Dy() == 0 {
		return nil
	}
	rows := make([]*image.NRGBA, 0, n)
	for i := 0; i < n; i++ {
		y0 := b.Min.Y + i*b.Dy()/n
		y1 := b.Min.Y + (i+1)*b.Dy()/n
		rows = append(rows, sheet.SubImage(image.Rect(b.Min.X, y0, b.Max.X, y1)).(*image.NRGBA))
	}
	return rows
}
