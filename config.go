package chalkfield

import "time"

// Config is the immutable parameter set for an Engine. The zero value of any
// field is replaced by its default at Engine construction, so callers can set
// only what they care about.
type Config struct {
	// PixelsPerYard is the vertical size of one yard in logical pixels.
	PixelsPerYard float64
	// CycleYards is the length of one background cycle in yards
	// (100 yards of field plus the end-zone band).
	CycleYards float64
	// LoopDuration is the time one full cycle takes to scroll past.
	LoopDuration time.Duration
	// ScrollDir is +1 (field drifts upward) or -1 (downward).
	ScrollDir float64
	// BackgroundDim scales every play and field alpha so the layer reads as
	// background behind foreground UI.
	BackgroundDim float64
	// SpawnInterval is the minimum time between play spawn batches.
	SpawnInterval time.Duration
	// Headline is the static end-zone word, drawn from the atlas letter row
	// when available.
	Headline string
	// SheetPath is the packed digit/letter reference sheet image.
	// Empty disables the atlas build; every label uses the text fallback.
	SheetPath string
	// ZeroPath is the standalone "0" glyph reference image.
	ZeroPath string
	// Seed drives all route jitter and spawn placement. Fixed seeds yield
	// reproducible sequences.
	Seed uint64
}

// DefaultConfig returns the tuned parameter set.
func DefaultConfig() Config {
	return Config{
		PixelsPerYard: 14,
		CycleYards:    110,
		LoopDuration:  45 * time.Second,
		ScrollDir:     1,
		BackgroundDim: 0.34,
		SpawnInterval: 2500 * time.Millisecond,
		Headline:      "ENDZONE",
		Seed:          1,
	}
}

// CycleHeight returns the background cycle height in pixels:
// PixelsPerYard * CycleYards.
func (c Config) CycleHeight() float64 {
	return c.PixelsPerYard * c.CycleYards
}

// withDefaults fills zero-value fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PixelsPerYard <= 0 {
		c.PixelsPerYard = d.PixelsPerYard
	}
	if c.CycleYards <= 0 {
		c.CycleYards = d.CycleYards
	}
	if c.LoopDuration <= 0 {
		c.LoopDuration = d.LoopDuration
	}
	if c.ScrollDir == 0 {
		c.ScrollDir = d.ScrollDir
	}
	if c.BackgroundDim <= 0 {
		c.BackgroundDim = d.BackgroundDim
	}
	if c.SpawnInterval <= 0 {
		c.SpawnInterval = d.SpawnInterval
	}
	if c.Headline == "" {
		c.Headline = d.Headline
	}
	if c.Seed == 0 {
		c.Seed = d.Seed
	}
	return c
}
