package chalkfield

import (
	"testing"
	"time"
)

func TestConfig_CycleHeight(t *testing.T) {
	if got := DefaultConfig().CycleHeight(); got != 1540 {
		t.Errorf("default cycle height = %v, want 1540", got)
	}
	c := Config{PixelsPerYard: 2, CycleYards: 110}
	if got := c.CycleHeight(); got != 220 {
		t.Errorf("cycle height = %v, want 220", got)
	}
}

func TestConfig_WithDefaults_FillsZeroFields(t *testing.T) {
	got := Config{}.withDefaults()
	if got != DefaultConfig() {
		t.Errorf("zero config defaulted to %+v, want %+v", got, DefaultConfig())
	}
}

func TestConfig_WithDefaults_KeepsSetFields(t *testing.T) {
	in := Config{
		PixelsPerYard: 20,
		LoopDuration:  10 * time.Second,
		ScrollDir:     -1,
		Headline:      "HOME",
		Seed:          99,
	}
	got := in.withDefaults()
	if got.PixelsPerYard != 20 || got.LoopDuration != 10*time.Second ||
		got.ScrollDir != -1 || got.Headline != "HOME" || got.Seed != 99 {
		t.Errorf("set fields were overwritten: %+v", got)
	}
	if got.CycleYards != DefaultConfig().CycleYards {
		t.Errorf("unset CycleYards = %v, want default", got.CycleYards)
	}
}
