package dungeon

import (
	"testing"

	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

func roomsRequest(seed uint64) tilemap.GenerateRequest {
	req := tilemap.DefaultGenerateRequest(tilemap.AlgorithmRoomsAndCorridors, 48, 32, seed)
	req.Constraints.EnforceOuterWalls = true
	req.Constraints.MaxGenerationAttempts = 3
	return req
}

func TestGenerateProducesConnectedWalledMap(t *testing.T) {
	g := NewGenerator(nil)
	m, err := g.Generate(&Config{Request: roomsRequest(1234)})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(m.Rooms) == 0 {
		t.Fatal("expected at least one room")
	}
	if !m.Metrics.ConnectedFloor {
		t.Fatal("expected a single connected floor component")
	}
	for x := int32(0); x < m.Width; x++ {
		if m.GetTile(x, 0) != tilemap.Wall || m.GetTile(x, m.Height-1) != tilemap.Wall {
			t.Fatal("expected outer border to remain wall")
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	g := NewGenerator(nil)
	req := roomsRequest(99)
	a, err := g.Generate(&Config{Request: req})
	if err != nil {
		t.Fatalf("Generate a: %v", err)
	}
	b, err := g.Generate(&Config{Request: req})
	if err != nil {
		t.Fatalf("Generate b: %v", err)
	}
	if len(a.Tiles) != len(b.Tiles) {
		t.Fatal("tile slice length mismatch between runs")
	}
	for i := range a.Tiles {
		if a.Tiles[i] != b.Tiles[i] {
			t.Fatalf("tile %d diverged between identical-seed runs", i)
		}
	}
	if len(a.Rooms) != len(b.Rooms) {
		t.Fatal("room count diverged between identical-seed runs")
	}
}

func TestGenerateRejectsUndersizedRequest(t *testing.T) {
	g := NewGenerator(nil)
	req := tilemap.DefaultGenerateRequest(tilemap.AlgorithmCellularAutomata, 2, 2, 1)
	if _, err := g.Generate(&Config{Request: req}); err == nil {
		t.Fatal("expected undersized request to fail validation")
	}
}

func TestGenerateFailsWithoutTemplateLoaderWhenTemplateConfigured(t *testing.T) {
	g := NewGenerator(nil)
	req := roomsRequest(7)
	req.RoomTypes.Policy.UntypedTemplateMapPath = "rooms/default.dgmp"
	if _, err := g.Generate(&Config{Request: req}); err == nil {
		t.Fatal("expected missing template loader to fail generation")
	}
}

func TestGenerateCarvesExplicitEdgeOpening(t *testing.T) {
	g := NewGenerator(nil)
	req := tilemap.DefaultGenerateRequest(tilemap.AlgorithmRoomsAndCorridors, 48, 32, 55)
	req.EdgeOpenings = []tilemap.EdgeOpeningSpec{{Side: tilemap.SideNorth, Start: 10, End: 12, Role: tilemap.RoleEntrance}}
	m, err := g.Generate(&Config{Request: req})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(m.EdgeOpenings) == 0 {
		t.Fatal("expected at least one edge opening")
	}
	found := false
	for x := int32(10); x <= 12; x++ {
		if m.GetTile(x, 0).Walkable() {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the requested opening to be carved through the north wall")
	}
}
