package process

import (
	"testing"

	"github.com/dshills/dungeoneer-go/pkg/rng"
	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

func smallRoomMap() *tilemap.Map {
	m := &tilemap.Map{}
	m.Init(10, 10, tilemap.Wall)
	bounds := tilemap.Rect{X: 2, Y: 2, Width: 4, Height: 4}
	for y := bounds.Top(); y < bounds.Bottom(); y++ {
		for x := bounds.Left(); x < bounds.Right(); x++ {
			m.SetTile(x, y, tilemap.Floor)
		}
	}
	m.AddRoom(bounds, 0)
	m.RecomputeWalkableMetrics()
	return m
}

func TestRunScaleDoublesDimensions(t *testing.T) {
	m := smallRoomMap()
	cfg := tilemap.ProcessConfig{Enabled: true, Methods: []tilemap.ProcessMethod{
		tilemap.DefaultProcessMethod(tilemap.ProcessScale),
	}}
	if err := Run(&cfg, m, rng.New(1)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if m.Width != 20 || m.Height != 20 {
		t.Fatalf("expected 20x20 after scale factor 2, got %dx%d", m.Width, m.Height)
	}
	if m.Rooms[0].Bounds.Width != 8 {
		t.Fatalf("expected room width scaled to 8, got %d", m.Rooms[0].Bounds.Width)
	}
	if len(m.Diagnostics.ProcessSteps) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(m.Diagnostics.ProcessSteps))
	}
}

func TestRunPathSmoothPreservesWalkability(t *testing.T) {
	m := smallRoomMap()
	cfg := tilemap.ProcessConfig{Enabled: true, Methods: []tilemap.ProcessMethod{
		tilemap.DefaultProcessMethod(tilemap.ProcessPathSmooth),
	}}
	if err := Run(&cfg, m, rng.New(2)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if m.Metrics.WalkableTileCount == 0 {
		t.Fatal("expected walkable tiles to remain after smoothing")
	}
}

func TestRunDisabledIsNoop(t *testing.T) {
	m := smallRoomMap()
	before := append([]tilemap.Tile(nil), m.Tiles...)
	cfg := tilemap.ProcessConfig{Enabled: false, Methods: []tilemap.ProcessMethod{
		tilemap.DefaultProcessMethod(tilemap.ProcessScale),
	}}
	if err := Run(&cfg, m, rng.New(3)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i := range before {
		if before[i] != m.Tiles[i] {
			t.Fatal("disabled pipeline must not mutate the map")
		}
	}
}
