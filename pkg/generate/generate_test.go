package generate

import (
	"testing"

	"github.com/dshills/dungeoneer-go/pkg/rng"
	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

func newTestMap(w, h int32) *tilemap.Map {
	m := &tilemap.Map{}
	m.Init(w, h, tilemap.Wall)
	return m
}

func TestGenerateRoomsAndCorridorsProducesRooms(t *testing.T) {
	req := tilemap.DefaultGenerateRequest(tilemap.AlgorithmRoomsAndCorridors, 60, 40, 1)
	m := newTestMap(req.Width, req.Height)
	if err := Generate(&req, m, rng.New(req.Seed)); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(m.Rooms) == 0 {
		t.Fatal("expected at least one room")
	}
	if len(m.RoomAdjacency) != len(m.Rooms) {
		t.Fatalf("adjacency arena size %d != room count %d", len(m.RoomAdjacency), len(m.Rooms))
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	for _, alg := range []tilemap.Algorithm{
		tilemap.AlgorithmRoomsAndCorridors,
		tilemap.AlgorithmBSPTree,
		tilemap.AlgorithmCellularAutomata,
		tilemap.AlgorithmDrunkardsWalk,
	} {
		req := tilemap.DefaultGenerateRequest(alg, 48, 32, 777)
		m1 := newTestMap(req.Width, req.Height)
		m2 := newTestMap(req.Width, req.Height)
		if err := Generate(&req, m1, rng.New(req.Seed)); err != nil {
			t.Fatalf("%v: Generate #1: %v", alg, err)
		}
		if err := Generate(&req, m2, rng.New(req.Seed)); err != nil {
			t.Fatalf("%v: Generate #2: %v", alg, err)
		}
		for i := range m1.Tiles {
			if m1.Tiles[i] != m2.Tiles[i] {
				t.Fatalf("%v: tile %d diverged between identical-seed runs", alg, i)
			}
		}
	}
}

func TestGenerateBSPTreeProducesRooms(t *testing.T) {
	req := tilemap.DefaultGenerateRequest(tilemap.AlgorithmBSPTree, 64, 48, 42)
	m := newTestMap(req.Width, req.Height)
	if err := Generate(&req, m, rng.New(req.Seed)); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(m.Rooms) == 0 {
		t.Fatal("expected at least one room")
	}
}

func TestGenerateCellularAutomataHasFloor(t *testing.T) {
	req := tilemap.DefaultGenerateRequest(tilemap.AlgorithmCellularAutomata, 40, 30, 5)
	m := newTestMap(req.Width, req.Height)
	if err := Generate(&req, m, rng.New(req.Seed)); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if m.Metrics.WalkableTileCount == 0 {
		t.Fatal("expected at least one walkable tile")
	}
}

func TestGenerateRoomGraphConnectsAllRooms(t *testing.T) {
	req := tilemap.DefaultGenerateRequest(tilemap.AlgorithmRoomGraph, 70, 50, 9)
	m := newTestMap(req.Width, req.Height)
	if err := Generate(&req, m, rng.New(req.Seed)); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, adj := range m.RoomAdjacency {
		if adj.Count == 0 {
			t.Fatal("room graph left an isolated room (MST should connect every room)")
		}
	}
}
